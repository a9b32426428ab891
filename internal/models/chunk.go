// ABOUTME: ChunkRecord is one stored window of an ingested document
// ABOUTME: Chunks are derived data and are never mutated after creation
package models

import (
	"time"

	"github.com/google/uuid"
)

// ChunkRecord is a separately addressable window of a document
type ChunkRecord struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	OriginalTitle string                 `json:"original_title"`
	Content       string                 `json:"content"`
	Source        string                 `json:"source,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	ChunkIndex    int                    `json:"chunk_index"`
	TotalChunks   int                    `json:"total_chunks"`
	CreatedAt     time.Time              `json:"created_at"`
}

// NewChunkID generates a unique chunk record identifier
func NewChunkID() string {
	return "chunk_" + uuid.New().String()
}
