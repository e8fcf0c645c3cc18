// Package config loads typed, validated configuration from environment
// variables.
//
// It wraps `github.com/joho/godotenv` (optional .env files),
// `github.com/caarlos0/env/v11` (struct tag parsing) and
// `github.com/go-playground/validator/v10` (value constraints):
//
//	type Config struct {
//	    URL     string        `env:"IDENTITY_URL,required" validate:"url"`
//	    Timeout time.Duration `env:"IDENTITY_TIMEOUT" envDefault:"10s" validate:"gt=0"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Each configuration type is parsed once per process and cached by value.
// ResetCache clears the cache between tests.
//
// Errors wrap ErrParsingConfig when a variable is missing or malformed and
// ErrInvalidConfig when a parsed value fails its validate tag; the message
// names the offending environment variable.
package config
