// ABOUTME: Storage interface for ingested chunk records
// ABOUTME: Backends: local SQLite (default) and cloud-synced Charm KV
package storage

import (
	"fmt"

	"github.com/substratamag/assistant/internal/charm"
	"github.com/substratamag/assistant/internal/config"
	"github.com/substratamag/assistant/internal/models"
	"github.com/substratamag/assistant/internal/storage/sqlite"
)

// Store persists chunk records produced by the ingestion pipeline
type Store interface {
	// SaveChunk persists one chunk record
	SaveChunk(record *models.ChunkRecord) error
	// ListDocuments summarizes ingested documents by original title
	ListDocuments() ([]models.DocumentInfo, error)
	// SearchChunks returns chunks whose title or content matches query
	SearchChunks(query string, limit int) ([]models.ChunkRecord, error)
	// Close releases the backend
	Close() error
}

// Open creates the store selected by configuration
func Open(cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case config.BackendCharm:
		client, err := charm.NewClient(&charm.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.AutoSync,
		})
		if err != nil {
			return nil, fmt.Errorf("opening charm storage: %w", err)
		}
		return charm.NewStore(client), nil
	case config.BackendSQLite:
		path := cfg.DBPath
		if path == "" {
			path = sqlite.DefaultDBPath()
		}
		db, err := sqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		return sqlite.NewStore(db), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
