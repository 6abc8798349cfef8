package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Load parses environment variables into the struct pointed to by cfg,
// following its `env` and `envDefault` tags.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// LoadDotEnv populates the process environment from the given .env files
// (".env" when none are given). Variables that are already set win, and
// missing files are ignored so production deployments need no .env at all.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
