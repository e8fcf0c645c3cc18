package identity

import "time"

// Config points the client at the provider.
type Config struct {
	URL     string        `env:"IDENTITY_URL" validate:"required,url"`
	APIKey  string        `env:"IDENTITY_API_KEY" validate:"required"`
	Timeout time.Duration `env:"IDENTITY_TIMEOUT" envDefault:"10s"`
}
