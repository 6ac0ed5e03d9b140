package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okurimukae/dispatch/internal/domain"
)

func msg(title string) domain.RenderedMessage {
	return domain.RenderedMessage{Title: title, Body: "b", Data: map[string]string{}}
}

func TestHub_BroadcastReachesAllUserConnections(t *testing.T) {
	h := NewHub(nil)
	phone := h.Register("u1")
	tablet := h.Register("u1")
	other := h.Register("u2")

	h.Broadcast("u1", msg("hello"))

	assert.Equal(t, "hello", (<-phone.Messages()).Title)
	assert.Equal(t, "hello", (<-tablet.Messages()).Title)
	select {
	case <-other.Messages():
		t.Fatal("message leaked to another user's connection")
	default:
	}
}

func TestHub_BroadcastToAbsentUserIsNoOp(t *testing.T) {
	h := NewHub(nil)
	h.Broadcast("nobody", msg("x"))
	assert.Equal(t, 0, h.ConnectionCount("nobody"))
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	h := NewHub(nil)
	c := h.Register("u1")
	require.Equal(t, 1, h.ConnectionCount("u1"))

	h.Unregister(c)

	assert.Equal(t, 0, h.ConnectionCount("u1"))
	_, open := <-c.Messages()
	assert.False(t, open)
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	h := NewHub(nil)
	c := h.Register("u1")

	h.Unregister(c)
	assert.NotPanics(t, func() { h.Unregister(c) })
	assert.Equal(t, 0, h.ConnectionCount("u1"))
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(nil)
	c := h.Register("u1")

	// One more than the buffer; the last must be dropped without blocking.
	for i := 0; i <= clientBuffer; i++ {
		h.Broadcast("u1", msg("m"))
	}

	drained := 0
	for {
		select {
		case <-c.Messages():
			drained++
			continue
		default:
		}
		break
	}
	assert.Equal(t, clientBuffer, drained)
}
