package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// LoadFromEnv constructs a ServerConfig by reading process environment
// variables:
//
//	PORT           - HTTP listen port (default: "8080")
//	ENVIRONMENT    - Runtime environment (default: "development")
//	DATABASE_URL   - Connection string; a "postgres://" or "postgresql://"
//	                 prefix automatically selects DATABASE_TYPE=postgres,
//	                 empty or "memory" selects the in-memory repository
//	DATABASE_TYPE  - Explicit override: "memory" or "postgres"
//	CHAIN_SIM_SEED - Fixed seed for simulated blockchain fields (0 = time)
func LoadFromEnv() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Auto-detect database type from the URL so callers only need to set
	// DATABASE_URL.
	if strings.HasPrefix(cfg.DatabaseURL, "postgres://") ||
		strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		cfg.DatabaseType = "postgres"
	} else if cfg.DatabaseURL == "" || cfg.DatabaseURL == "memory" {
		cfg.DatabaseType = "memory"
		cfg.DatabaseURL = ""
	} else {
		return nil, fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", cfg.DatabaseURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
