package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/okurimukae/dispatch/internal/application/dispatch"
	"github.com/okurimukae/dispatch/internal/domain"
)

// --- mock ---

type mockDispatcher struct{ mock.Mock }

func (m *mockDispatcher) Dispatch(ctx context.Context, ev domain.ChangeEvent) (dispatch.Outcome, error) {
	args := m.Called(ctx, ev)
	return args.Get(0).(dispatch.Outcome), args.Error(1)
}

// --- helpers ---

func postEvent(t *testing.T, h *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/db-events",
		bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleEvent(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) DispatchEnvelope {
	t.Helper()
	var env DispatchEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

const validEvent = `{
	"type": "INSERT",
	"table": "day_assignments",
	"schema": "public",
	"record": {"id":"a1","date":"2026-09-01","drop_off_user_id":"7f6b3a4e-0f6e-4c9b-9a54-6d1a1b3c5d7e"}
}`

// --- tests ---

func TestHandleEvent_Delivered(t *testing.T) {
	svc := &mockDispatcher{}
	svc.On("Dispatch", mock.Anything, mock.MatchedBy(func(ev domain.ChangeEvent) bool {
		return ev.Table == "day_assignments" && ev.Operation == domain.OpInsert
	})).Return(dispatch.Outcome{Status: dispatch.StatusDelivered, Success: true, Message: "Notification sent"}, nil)

	rec := postEvent(t, NewWebhookHandler(svc, nil), validEvent)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Notification sent", env.Message)
	svc.AssertExpectations(t)
}

func TestHandleEvent_NoOpIsStillOK(t *testing.T) {
	svc := &mockDispatcher{}
	svc.On("Dispatch", mock.Anything, mock.Anything).
		Return(dispatch.Outcome{Status: dispatch.StatusNoOp, Success: true, Message: "No notification needed"}, nil)

	rec := postEvent(t, NewWebhookHandler(svc, nil),
		`{"type":"DELETE","table":"recipes","schema":"public","record":{"id":"r1"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}

// Delivery failures stay HTTP 200 so the trigger never retries them.
func TestHandleEvent_DeliveryFailureIs200(t *testing.T) {
	svc := &mockDispatcher{}
	svc.On("Dispatch", mock.Anything, mock.Anything).
		Return(dispatch.Outcome{Status: dispatch.StatusFailed, Success: false, Error: "delivery failed"}, nil)

	rec := postEvent(t, NewWebhookHandler(svc, nil), validEvent)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "delivery failed", env.Error)
}

func TestHandleEvent_MalformedJSONIs500(t *testing.T) {
	svc := &mockDispatcher{}
	rec := postEvent(t, NewWebhookHandler(svc, nil), `{"type": "INSERT", "table":`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
	svc.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestHandleEvent_InvalidEnvelopeIs500(t *testing.T) {
	svc := &mockDispatcher{}

	// Unknown operation type fails envelope validation before dispatch.
	rec := postEvent(t, NewWebhookHandler(svc, nil),
		`{"type":"TRUNCATE","table":"day_assignments","schema":"public","record":{}}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	svc.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestHandleEvent_PipelineErrorIs500(t *testing.T) {
	svc := &mockDispatcher{}
	svc.On("Dispatch", mock.Anything, mock.Anything).
		Return(dispatch.Outcome{}, domain.ErrBadRequest)

	rec := postEvent(t, NewWebhookHandler(svc, nil), validEvent)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
}
