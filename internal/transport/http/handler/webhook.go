package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/okurimukae/dispatch/internal/application/dispatch"
	"github.com/okurimukae/dispatch/internal/domain"
	"github.com/okurimukae/dispatch/internal/pkg/validate"
)

// Dispatcher runs one change event through the dispatch pipeline.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev domain.ChangeEvent) (dispatch.Outcome, error)
}

// WebhookHandler receives database change events from the webhook trigger.
type WebhookHandler struct {
	svc    Dispatcher
	logger *zap.Logger
}

func NewWebhookHandler(svc Dispatcher, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, logger: logger}
}

// HandleEvent processes one change-event POST. Contract: every domain
// outcome responds 200 with a success flag; malformed bodies and invalid
// envelopes respond 500 so the misconfiguration is visible at the trigger.
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var ev domain.ChangeEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		h.logger.Error("malformed webhook body", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError,
			DispatchEnvelope{Success: false, Error: "malformed event payload: " + err.Error()})
		return
	}
	if err := validate.Struct(ev); err != nil {
		h.logger.Error("invalid webhook envelope", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError,
			DispatchEnvelope{Success: false, Error: "invalid event envelope: " + err.Error()})
		return
	}

	out, err := h.svc.Dispatch(r.Context(), ev)
	if err != nil {
		h.logger.Error("dispatch failed", zap.String("table", ev.Table), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError,
			DispatchEnvelope{Success: false, Error: err.Error()})
		return
	}

	h.logger.Info("event dispatched",
		zap.String("table", ev.Table),
		zap.String("op", string(ev.Operation)),
		zap.String("status", out.Status))
	writeJSON(w, http.StatusOK,
		DispatchEnvelope{Success: out.Success, Message: out.Message, Error: out.Error})
}
