// ABOUTME: Ingestion pipeline turning submitted documents into stored chunk records
// ABOUTME: One bad document does not abort the batch; failures are collected per document
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/substratamag/assistant/internal/chunker"
	"github.com/substratamag/assistant/internal/models"
)

// Sink is where the pipeline persists chunk records. The storage.Store
// interface satisfies it.
type Sink interface {
	SaveChunk(record *models.ChunkRecord) error
}

// ChunkRef identifies one persisted chunk in an ingest response
type ChunkRef struct {
	Title string `json:"title"`
	Chunk int    `json:"chunk"`
	ID    string `json:"id"`
}

// Result aggregates the outcome of an ingest batch
type Result struct {
	Ingested int        `json:"ingested"`
	Results  []ChunkRef `json:"results"`
	Errors   []string   `json:"errors,omitempty"`
}

// Pipeline chunks documents and persists the windows
type Pipeline struct {
	chunker *chunker.Chunker
	sink    Sink
}

// New creates an ingestion pipeline
func New(c *chunker.Chunker, sink Sink) *Pipeline {
	return &Pipeline{chunker: c, sink: sink}
}

// IngestDocuments chunks and persists each document. Per-document
// failures are recorded in the result and the batch continues.
func (p *Pipeline) IngestDocuments(ctx context.Context, docs []models.Document) (*Result, error) {
	result := &Result{Results: []ChunkRef{}}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := p.ingestDocument(doc, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", doc.Title, err))
		}
	}
	return result, nil
}

// ingestDocument chunks one document and persists every window
func (p *Pipeline) ingestDocument(doc models.Document, result *Result) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	pieces := p.chunker.Split(doc.Content)
	total := len(pieces)

	for i, piece := range pieces {
		title := doc.Title
		if total > 1 {
			title = fmt.Sprintf("%s (%d/%d)", doc.Title, i+1, total)
		}

		metadata := make(map[string]interface{}, len(doc.Metadata)+3)
		for k, v := range doc.Metadata {
			metadata[k] = v
		}
		metadata["original_title"] = doc.Title
		metadata["chunk_index"] = i
		metadata["total_chunks"] = total

		record := &models.ChunkRecord{
			ID:            models.NewChunkID(),
			Title:         title,
			OriginalTitle: doc.Title,
			Content:       piece,
			Source:        doc.Source,
			Metadata:      metadata,
			ChunkIndex:    i,
			TotalChunks:   total,
			CreatedAt:     time.Now().UTC(),
		}

		if err := p.sink.SaveChunk(record); err != nil {
			return fmt.Errorf("saving chunk %d/%d: %w", i+1, total, err)
		}

		result.Results = append(result.Results, ChunkRef{Title: title, Chunk: i, ID: record.ID})
		result.Ingested++
	}
	return nil
}
