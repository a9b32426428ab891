// ABOUTME: Centralized configuration for the Substrata assistant
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/substratamag/assistant/internal/chunker"
)

// Storage backend names
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Config holds all configuration for the assistant
type Config struct {
	// Chat upstream settings
	ChatEndpoint string
	ChatToken    string
	ChatTimeout  time.Duration

	// Chunking settings
	ChunkSize    int
	ChunkOverlap int

	// HTTP server settings
	HTTPAddr string

	// Storage settings
	StorageBackend string
	DBPath         string

	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		ChatEndpoint:   os.Getenv("ASSISTANT_CHAT_URL"),
		ChatToken:      os.Getenv("ASSISTANT_CHAT_TOKEN"),
		ChatTimeout:    getEnvDuration("ASSISTANT_CHAT_TIMEOUT", 0),
		ChunkSize:      getEnvInt("ASSISTANT_CHUNK_SIZE", chunker.DefaultChunkSize),
		ChunkOverlap:   getEnvInt("ASSISTANT_CHUNK_OVERLAP", chunker.DefaultOverlap),
		HTTPAddr:       getEnv("ASSISTANT_HTTP_ADDR", ":8787"),
		StorageBackend: getEnv("ASSISTANT_STORAGE", BackendSQLite),
		DBPath:         os.Getenv("ASSISTANT_DB_PATH"),
		CharmHost:      getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:    getEnv("CHARM_DB", "substrata"),
		AutoSync:       getEnvBool("CHARM_AUTO_SYNC", true),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("ASSISTANT_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("ASSISTANT_CHUNK_OVERLAP must be in [0, chunk size), got %d", c.ChunkOverlap)
	}
	if c.StorageBackend != BackendSQLite && c.StorageBackend != BackendCharm {
		return fmt.Errorf("ASSISTANT_STORAGE must be %q or %q, got %q", BackendSQLite, BackendCharm, c.StorageBackend)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
