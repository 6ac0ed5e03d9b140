package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Infrastructure wraps these so the dispatch pipeline can tell a normal
// lookup miss from a store failure without leaking driver details.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)
