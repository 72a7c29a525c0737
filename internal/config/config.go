// Package config loads the gateway settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Credential store backends.
const (
	StoreCookie = "cookie"
	StoreVault  = "vault"
)

// Config is the resolved gateway configuration.
type Config struct {
	AppPort               string
	BackendURL            string
	BackendTimeout        time.Duration
	CookieSecret          string
	CookieSecure          bool
	CredentialStore       string
	VaultDriver           string
	VaultDSN              string
	RabbitMQURL           string
	EventsExchange        string
	AdminUsernameFallback bool
	TracingEnabled        bool
}

// SetDefaults registers every key with its default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("BACKEND_API_URL", "http://localhost:8000/api")
	v.SetDefault("BACKEND_TIMEOUT", "10s")
	v.SetDefault("COOKIE_SECRET", "change-me-in-production")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("CREDENTIAL_STORE", StoreCookie)
	v.SetDefault("VAULT_DRIVER", "sqlite")
	v.SetDefault("VAULT_DSN", "file:vault.db?cache=shared")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("EVENTS_EXCHANGE", "storefront")
	v.SetDefault("ADMIN_USERNAME_FALLBACK", false)
	v.SetDefault("TRACING_ENABLED", false)
}

// Load reads the configuration from v, which is expected to have
// AutomaticEnv enabled by the caller.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		AppPort:               v.GetString("APP_PORT"),
		BackendURL:            strings.TrimRight(v.GetString("BACKEND_API_URL"), "/"),
		BackendTimeout:        v.GetDuration("BACKEND_TIMEOUT"),
		CookieSecret:          v.GetString("COOKIE_SECRET"),
		CookieSecure:          v.GetBool("COOKIE_SECURE"),
		CredentialStore:       strings.ToLower(v.GetString("CREDENTIAL_STORE")),
		VaultDriver:           strings.ToLower(v.GetString("VAULT_DRIVER")),
		VaultDSN:              v.GetString("VAULT_DSN"),
		RabbitMQURL:           v.GetString("RABBITMQ_URL"),
		EventsExchange:        v.GetString("EVENTS_EXCHANGE"),
		AdminUsernameFallback: v.GetBool("ADMIN_USERNAME_FALLBACK"),
		TracingEnabled:        v.GetBool("TRACING_ENABLED"),
	}

	if cfg.BackendURL == "" {
		return Config{}, fmt.Errorf("BACKEND_API_URL must not be empty")
	}
	if cfg.BackendTimeout <= 0 {
		return Config{}, fmt.Errorf("BACKEND_TIMEOUT must be positive, got %s", cfg.BackendTimeout)
	}
	if cfg.CookieSecret == "" {
		return Config{}, fmt.Errorf("COOKIE_SECRET must not be empty")
	}
	switch cfg.CredentialStore {
	case StoreCookie, StoreVault:
	default:
		return Config{}, fmt.Errorf("unsupported CREDENTIAL_STORE %q", cfg.CredentialStore)
	}
	return cfg, nil
}

// EventsEnabled reports whether storefront events should be published.
func (c Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}
