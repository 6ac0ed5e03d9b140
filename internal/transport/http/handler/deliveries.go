package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okurimukae/dispatch/internal/domain"
)

const (
	defaultDeliveryLimit = 20
	maxDeliveryLimit     = 100
)

// DeliveryReader reads the push delivery log.
type DeliveryReader interface {
	ListByUser(ctx context.Context, userID string, limit int32) ([]domain.Delivery, error)
}

// DeliveryHandler exposes the delivery log for operators and support.
type DeliveryHandler struct {
	log DeliveryReader
}

func NewDeliveryHandler(log DeliveryReader) *DeliveryHandler {
	return &DeliveryHandler{log: log}
}

// ListByUser returns a user's recent dispatch attempts, newest first.
func (h *DeliveryHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	limit := defaultDeliveryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n > maxDeliveryLimit {
			n = maxDeliveryLimit
		}
		limit = n
	}

	deliveries, err := h.log.ListByUser(r.Context(), userID, int32(limit))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not read delivery log")
		return
	}
	writeJSON(w, http.StatusOK, deliveries)
}
