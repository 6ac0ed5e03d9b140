package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string for delivery-log records. ULIDs sort
// lexicographically by creation time, which keeps the DynamoDB
// created_at index cheap to range over.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
