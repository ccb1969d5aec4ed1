package config

import (
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvLoaded sync.Once

// parseEnv overlays values from the process environment onto cfg. Variables
// that are unset leave the corresponding field untouched. A .env file in the
// working directory is loaded once if present.
func parseEnv(cfg *Config) error {
	dotenvLoaded.Do(func() {
		// the .env file is optional
		_ = godotenv.Load()
	})
	return env.Parse(cfg)
}
