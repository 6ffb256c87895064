// Package config loads process configuration from the environment,
// with .env support for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresURL      string
	JWTKey           string
	AllowedOrigins   []string
	ListenAddr       string
	PaymobHMACSecret string
}

// Load reads the environment. A .env file is applied first when present
// but never overrides variables already set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr: ":5000",
	}

	var missing []string
	lookup := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg.PostgresURL = lookup("POSTGRES_URL")
	cfg.JWTKey = lookup("JWT_KEY")
	if origins := lookup("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if len(missing) > 0 {
		return Config{}, errors.New("missing required environment: " + strings.Join(missing, ", "))
	}
	if len(cfg.AllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("ALLOWED_ORIGINS contains no origins")
	}

	if addr, ok := os.LookupEnv("LISTEN_ADDR"); ok {
		cfg.ListenAddr = addr
	}
	cfg.PaymobHMACSecret = os.Getenv("PAYMOB_HMAC_SECRET")

	return cfg, nil
}
