package config

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var loadDotEnv sync.Once

// Load populates the configuration struct from environment variables based
// on `env` field tags. The default .env file, if present, is loaded once
// per process before the first parse.
//
// Example:
//
//	type GuardConfig struct {
//		BaseURL     string `env:"APP_BASE_URL,required"`
//		TenantsFile string `env:"TENANTS_FILE" envDefault:"tenants.yaml"`
//	}
//
//	var cfg GuardConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	loadDotEnv.Do(func() {
		// The .env file is optional; absence is not an error.
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is like Load but panics on failure. Configuration errors should
// prevent startup rather than surface at request time.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(err)
	}
}
