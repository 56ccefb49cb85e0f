package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Placeholder values used when the endpoint environment variables are not
// set. Generation fails against these; they exist so a dry run of the
// earlier stages needs no credentials.
const (
	PlaceholderAPIKey = "replace-with-api-key"
	PlaceholderModel  = "replace-with-model-name"
)

type Config struct {
	// Workspace root directory.
	Root string

	// Generation endpoint (OpenAI-compatible).
	EndpointURL    string
	EndpointAPIKey string
	Model          string

	// External call policy.
	GenerationTimeout time.Duration

	// Authoring defaults.
	NumExamples     int
	PairsPerExample int
	MinExamples     int
	MaxContexts     int
}

func Load() Config {
	cfg := Config{
		Root: envOr("SEEDFORGE_ROOT", "workspaces"),

		EndpointURL:    envOr("SEEDFORGE_ENDPOINT_URL", "http://localhost:8000/v1"),
		EndpointAPIKey: envOr("SEEDFORGE_API_KEY", PlaceholderAPIKey),
		Model:          envOr("SEEDFORGE_MODEL", PlaceholderModel),

		GenerationTimeout: envDuration("SEEDFORGE_GENERATION_TIMEOUT", 120*time.Second),

		NumExamples:     envInt("SEEDFORGE_NUM_EXAMPLES", 5),
		PairsPerExample: envInt("SEEDFORGE_PAIRS_PER_EXAMPLE", 3),
		MinExamples:     envInt("SEEDFORGE_MIN_EXAMPLES", 5),
		MaxContexts:     envInt("SEEDFORGE_MAX_CONTEXTS", 10),
	}

	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = 120 * time.Second
	}
	if cfg.NumExamples <= 0 {
		cfg.NumExamples = 5
	}
	if cfg.PairsPerExample <= 0 {
		cfg.PairsPerExample = 3
	}
	if cfg.MinExamples <= 0 {
		cfg.MinExamples = 5
	}
	if cfg.MaxContexts <= 0 {
		cfg.MaxContexts = 10
	}

	return cfg
}

// Validate checks the settings the authoring stage depends on. The earlier
// stages run fine on placeholders, so this is called only before authoring.
func (c Config) Validate() error {
	if c.EndpointURL == "" {
		return fmt.Errorf("SEEDFORGE_ENDPOINT_URL is required")
	}
	if !strings.HasPrefix(c.EndpointURL, "http://") && !strings.HasPrefix(c.EndpointURL, "https://") {
		return fmt.Errorf("SEEDFORGE_ENDPOINT_URL must be an http(s) URL")
	}
	if c.EndpointAPIKey == "" || c.EndpointAPIKey == PlaceholderAPIKey {
		return fmt.Errorf("SEEDFORGE_API_KEY is required")
	}
	if c.Model == "" || c.Model == PlaceholderModel {
		return fmt.Errorf("SEEDFORGE_MODEL is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
