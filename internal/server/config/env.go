package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays values from environment variables onto the Config,
// using the `env` struct tags (DATABASE_URL, SECRET_KEY, VERIFY_USER, ...).
// Unset variables leave the current values untouched.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
