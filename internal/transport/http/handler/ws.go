package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/okurimukae/dispatch/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer; the trigger and app clients
	// connect from native contexts without an Origin header.
	CheckOrigin: func(*http.Request) bool { return true },
}

// WSHandler streams a user's dispatched notifications over WebSocket so
// foregrounded app clients see them without waiting for the push channel.
type WSHandler struct {
	hub    *realtime.Hub
	logger *zap.Logger
}

func NewWSHandler(hub *realtime.Hub, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{hub: hub, logger: logger}
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := h.hub.Register(userID)
	defer func() {
		h.hub.Unregister(client)
		_ = conn.Close()
		h.logger.Info("realtime client disconnected", zap.String("user_id", userID))
	}()

	h.logger.Info("realtime client connected", zap.String("user_id", userID))

	// Read pump: the client sends nothing meaningful, but reading is the
	// only way to observe a peer close. An error unregisters the client,
	// which closes its message channel and ends the write loop below.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.hub.Unregister(client)
				return
			}
		}
	}()

	for msg := range client.Messages() {
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Warn("websocket write failed",
				zap.String("user_id", userID), zap.Error(err))
			return
		}
	}
}
