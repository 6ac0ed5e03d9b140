package fcm

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/okurimukae/dispatch/internal/pkg/validate"
)

// ServiceAccount is the subset of a Google service-account JSON key this
// gateway needs: the signing identity, its private key, and the FCM
// project the send endpoint is scoped to.
type ServiceAccount struct {
	ClientEmail string `json:"client_email" validate:"required,email"`
	PrivateKey  string `json:"private_key" validate:"required"`
	ProjectID   string `json:"project_id" validate:"required"`
}

// ParseServiceAccount decodes and validates a raw service-account JSON key
// and pre-parses the RSA private key so signing failures surface at boot,
// not on the first dispatch.
func ParseServiceAccount(raw string) (*ServiceAccount, *rsa.PrivateKey, error) {
	sa := &ServiceAccount{}
	if err := json.Unmarshal([]byte(raw), sa); err != nil {
		return nil, nil, fmt.Errorf("decode service account: %w", err)
	}
	if err := validate.Struct(sa); err != nil {
		return nil, nil, fmt.Errorf("invalid service account: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return nil, nil, fmt.Errorf("parse private key: %w", err)
	}
	return sa, key, nil
}
