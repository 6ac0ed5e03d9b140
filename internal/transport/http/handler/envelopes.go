package handler

import (
	"encoding/json"
	"net/http"
)

// DispatchEnvelope is the response wrapper for every webhook invocation.
// The webhook trigger infrastructure treats any HTTP 200 as consumed, so
// "nothing to do" outcomes and delivery failures both travel as 200 with
// the success flag; only malformed requests and config faults become 500s.
type DispatchEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// MessageEnvelope is the generic response wrapper for the side endpoints.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
