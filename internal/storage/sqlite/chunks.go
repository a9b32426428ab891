// ABOUTME: Chunk record persistence for SQLite
// ABOUTME: Implements save, listing, and substring search over the archive
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/substratamag/assistant/internal/models"
)

// Store persists chunk records in SQLite
type Store struct {
	db *DB
}

// NewStore creates a chunk store over an open database
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// SaveChunk persists one chunk record
func (s *Store) SaveChunk(record *models.ChunkRecord) error {
	var metadata []byte
	if record.Metadata != nil {
		var err error
		metadata, err = json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk metadata: %w", err)
		}
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO chunks (id, title, original_title, content, source, metadata, chunk_index, total_chunks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			original_title = excluded.original_title,
			content = excluded.content,
			source = excluded.source,
			metadata = excluded.metadata,
			chunk_index = excluded.chunk_index,
			total_chunks = excluded.total_chunks
	`, record.ID, record.Title, record.OriginalTitle, record.Content,
		nullString(record.Source), nullString(string(metadata)),
		record.ChunkIndex, record.TotalChunks, createdAt)

	return err
}

// ListDocuments summarizes ingested documents grouped by original title
func (s *Store) ListDocuments() ([]models.DocumentInfo, error) {
	rows, err := s.db.Query(`
		SELECT original_title, COUNT(*)
		FROM chunks
		GROUP BY original_title
		ORDER BY MIN(created_at) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.DocumentInfo
	for rows.Next() {
		var info models.DocumentInfo
		if err := rows.Scan(&info.Title, &info.Chunks); err != nil {
			return nil, err
		}
		docs = append(docs, info)
	}
	return docs, rows.Err()
}

// SearchChunks returns chunks whose title or content contains query
func (s *Store) SearchChunks(query string, limit int) ([]models.ChunkRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + query + "%"

	rows, err := s.db.Query(`
		SELECT id, title, original_title, content, source, metadata, chunk_index, total_chunks, created_at
		FROM chunks
		WHERE title LIKE ? OR content LIKE ?
		ORDER BY created_at DESC
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ChunkRecord
	for rows.Next() {
		record, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// scanChunk reads one chunk record row
func scanChunk(rows *sql.Rows) (*models.ChunkRecord, error) {
	var (
		record   models.ChunkRecord
		source   sql.NullString
		metadata sql.NullString
	)

	if err := rows.Scan(&record.ID, &record.Title, &record.OriginalTitle,
		&record.Content, &source, &metadata,
		&record.ChunkIndex, &record.TotalChunks, &record.CreatedAt); err != nil {
		return nil, err
	}

	if source.Valid {
		record.Source = source.String
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &record.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chunk metadata: %w", err)
		}
	}

	return &record, nil
}

// nullString converts an empty string to NULL
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
