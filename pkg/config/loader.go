// Package config loads typed configuration from environment variables.
// Deployment environments differ only in env vars; there are no config files.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into cfg, which must be a pointer to a
// struct carrying `env` tags:
//
//	type Config struct {
//	    Port      int    `env:"HTTP_PORT" envDefault:"8080"`
//	    JWTSecret string `env:"JWT_SECRET,required"`
//	}
//
// Missing required variables and unparseable values are reported together.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
