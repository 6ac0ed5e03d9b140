package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds all runtime configuration loaded from environment variables.
// The two secrets the dispatcher cannot run without (database DSN and the
// FCM service-account key) are required; parsing fails before any I/O when
// either is missing.
type Config struct {
	AppPort string `env:"PORT" envDefault:"8080"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// DatabaseURL is the DSN of the application database. The privileged
	// read-only role for profiles/user_groups lookups is part of the DSN.
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// FCMServiceAccount is the raw service-account JSON key
	// (client_email, private_key, project_id).
	FCMServiceAccount string `env:"FCM_SERVICE_ACCOUNT,required,notEmpty"`

	AWSRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpointURL string `env:"AWS_ENDPOINT_URL"` // empty in prod, LocalStack URL in dev
	AWSAccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`

	DeliveriesTable    string `env:"DYNAMO_TABLE_DELIVERIES" envDefault:"push_deliveries"`
	DeliveryLogEnabled bool   `env:"DELIVERY_LOG_ENABLED" envDefault:"true"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
