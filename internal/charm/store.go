// ABOUTME: Charm-backed chunk store implementing the storage interface
// ABOUTME: Chunk records live under chunk:-prefixed keys as JSON values
package charm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/substratamag/assistant/internal/models"
)

// Store persists chunk records in charm KV
type Store struct {
	client *Client
}

// NewStore creates a chunk store over a charm client
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// SaveChunk persists one chunk record
func (s *Store) SaveChunk(record *models.ChunkRecord) error {
	return s.client.SetJSON(ChunkPrefix+record.ID, record)
}

// ListDocuments summarizes ingested documents grouped by original title.
// The KV store has no secondary indexes, so this walks every chunk key;
// fine for a magazine-sized archive.
func (s *Store) ListDocuments() ([]models.DocumentInfo, error) {
	records, err := s.allChunks()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, record := range records {
		counts[record.OriginalTitle]++
	}

	docs := make([]models.DocumentInfo, 0, len(counts))
	for title, n := range counts {
		docs = append(docs, models.DocumentInfo{Title: title, Chunks: n})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Title < docs[j].Title })
	return docs, nil
}

// SearchChunks returns chunks whose title or content contains query
func (s *Store) SearchChunks(query string, limit int) ([]models.ChunkRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	records, err := s.allChunks()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var matches []models.ChunkRecord
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.Title), needle) ||
			strings.Contains(strings.ToLower(record.Content), needle) {
			matches = append(matches, record)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Close closes the underlying KV database
func (s *Store) Close() error {
	return s.client.Close()
}

// allChunks loads every chunk record from the KV store
func (s *Store) allChunks() ([]models.ChunkRecord, error) {
	keys, err := s.client.ListKeys(ChunkPrefix)
	if err != nil {
		return nil, err
	}

	records := make([]models.ChunkRecord, 0, len(keys))
	for _, key := range keys {
		var record models.ChunkRecord
		if err := s.client.GetJSON(key, &record); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", key, err)
		}
		records = append(records, record)
	}
	return records, nil
}
