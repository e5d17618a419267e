package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the server settings read from the environment.
type Config struct {
	Port           string
	PrefsBackend   string
	DBPath         string
	DatabaseURL    string
	RedisAddr      string
	RoutingBackend string
	ORSAPIKey      string
	ORSProfile     string
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := &Config{
		Port:           Get("PORT", "8080"),
		PrefsBackend:   strings.ToLower(Get("PREFS_BACKEND", "sqlite")),
		DBPath:         Get("DB_PATH", "data/runmap.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      Get("REDIS_ADDR", "localhost:6379"),
		RoutingBackend: strings.ToLower(Get("ROUTING_BACKEND", "ors")),
		ORSAPIKey:      strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		ORSProfile:     Get("ORS_PROFILE", "foot-walking"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	var errs []error

	switch c.PrefsBackend {
	case "memory", "sqlite", "redis":
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for PREFS_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("PREFS_BACKEND %q is not one of memory, sqlite, postgres, redis", c.PrefsBackend))
	}

	switch c.RoutingBackend {
	case "straight":
	case "ors":
		if c.ORSAPIKey == "" {
			errs = append(errs, errors.New("ORS_API_KEY is required for ROUTING_BACKEND=ors"))
		}
	default:
		errs = append(errs, fmt.Errorf("ROUTING_BACKEND %q is not one of ors, straight", c.RoutingBackend))
	}

	return errors.Join(errs...)
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
