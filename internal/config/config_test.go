package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://svc:pw@localhost:5432/app")
	t.Setenv("FCM_SERVICE_ACCOUNT", `{"client_email":"x@y","private_key":"k","project_id":"p"}`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "push_deliveries", cfg.DeliveriesTable)
	assert.True(t, cfg.DeliveryLogEnabled)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FCM_SERVICE_ACCOUNT", `{"project_id":"p"}`)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_MissingServiceAccount(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://svc:pw@localhost:5432/app")
	t.Setenv("FCM_SERVICE_ACCOUNT", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_OriginsSplit(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://svc:pw@localhost:5432/app")
	t.Setenv("FCM_SERVICE_ACCOUNT", `{"project_id":"p"}`)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com,https://ops.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://ops.example.com"}, cfg.AllowedOrigins)
}
