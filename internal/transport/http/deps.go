package http

import (
	"github.com/okurimukae/dispatch/internal/realtime"
	"github.com/okurimukae/dispatch/internal/transport/http/handler"
)

// Deps holds all collaborators the router wires into handlers. DeliveryLog
// and Hub are optional; nil disables their endpoints.
type Deps struct {
	Dispatcher  handler.Dispatcher
	DeliveryLog handler.DeliveryReader
	Hub         *realtime.Hub
}
