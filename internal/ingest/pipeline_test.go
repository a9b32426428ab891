// ABOUTME: Tests for the document ingestion pipeline
// ABOUTME: Covers title decoration, metadata merge, and per-document failure isolation

package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/substratamag/assistant/internal/chunker"
	"github.com/substratamag/assistant/internal/models"
)

// memorySink records saved chunks in order
type memorySink struct {
	chunks  []*models.ChunkRecord
	failFor string // fail saves whose original title matches
}

func (s *memorySink) SaveChunk(record *models.ChunkRecord) error {
	if s.failFor != "" && record.OriginalTitle == s.failFor {
		return errors.New("sink unavailable")
	}
	s.chunks = append(s.chunks, record)
	return nil
}

func newTestPipeline(t *testing.T, chunkSize, overlap int) (*Pipeline, *memorySink) {
	t.Helper()
	c, err := chunker.New(chunkSize, overlap)
	if err != nil {
		t.Fatalf("chunker.New() error = %v", err)
	}
	sink := &memorySink{}
	return New(c, sink), sink
}

func TestIngestDocuments_SingleChunkKeepsTitle(t *testing.T) {
	p, sink := newTestPipeline(t, 100, 0)

	result, err := p.IngestDocuments(context.Background(), []models.Document{
		{Title: "Editorial Notes", Content: "short text"},
	})
	if err != nil {
		t.Fatalf("IngestDocuments() error = %v", err)
	}
	if result.Ingested != 1 {
		t.Fatalf("Ingested = %d, want 1", result.Ingested)
	}
	if sink.chunks[0].Title != "Editorial Notes" {
		t.Errorf("title = %q, want undecorated title for a single chunk", sink.chunks[0].Title)
	}
	if sink.chunks[0].TotalChunks != 1 {
		t.Errorf("TotalChunks = %d, want 1", sink.chunks[0].TotalChunks)
	}
}

func TestIngestDocuments_DecoratesMultiChunkTitles(t *testing.T) {
	p, sink := newTestPipeline(t, 10, 0)

	content := strings.Repeat("x", 25) // 3 chunks
	result, err := p.IngestDocuments(context.Background(), []models.Document{
		{Title: "Issue 12", Content: content},
	})
	if err != nil {
		t.Fatalf("IngestDocuments() error = %v", err)
	}
	if result.Ingested != 3 {
		t.Fatalf("Ingested = %d, want 3", result.Ingested)
	}

	for i, chunk := range sink.chunks {
		want := fmt.Sprintf("Issue 12 (%d/3)", i+1)
		if chunk.Title != want {
			t.Errorf("chunk %d title = %q, want %q", i, chunk.Title, want)
		}
		if chunk.OriginalTitle != "Issue 12" {
			t.Errorf("chunk %d original title = %q", i, chunk.OriginalTitle)
		}
		if chunk.ChunkIndex != i {
			t.Errorf("chunk %d index = %d", i, chunk.ChunkIndex)
		}
	}

	// Response refs mirror the decorated titles and zero-based index
	if result.Results[1].Title != "Issue 12 (2/3)" || result.Results[1].Chunk != 1 {
		t.Errorf("result ref = %+v", result.Results[1])
	}
	if result.Results[0].ID == "" {
		t.Error("result refs must carry the chunk id")
	}
}

func TestIngestDocuments_MetadataMerge(t *testing.T) {
	p, sink := newTestPipeline(t, 10, 0)

	_, err := p.IngestDocuments(context.Background(), []models.Document{
		{
			Title:    "Tagged",
			Content:  strings.Repeat("y", 15),
			Metadata: map[string]interface{}{"author": "kowalski", "chunk_index": "overridden"},
		},
	})
	if err != nil {
		t.Fatalf("IngestDocuments() error = %v", err)
	}

	meta := sink.chunks[0].Metadata
	if meta["author"] != "kowalski" {
		t.Errorf("author = %v, want the original metadata preserved", meta["author"])
	}
	if meta["original_title"] != "Tagged" {
		t.Errorf("original_title = %v", meta["original_title"])
	}
	// Pipeline fields win over user-supplied keys of the same name
	if meta["chunk_index"] != 0 {
		t.Errorf("chunk_index = %v, want 0", meta["chunk_index"])
	}
	if meta["total_chunks"] != 2 {
		t.Errorf("total_chunks = %v, want 2", meta["total_chunks"])
	}
}

func TestIngestDocuments_BadDocumentDoesNotAbortBatch(t *testing.T) {
	p, sink := newTestPipeline(t, 100, 0)

	result, err := p.IngestDocuments(context.Background(), []models.Document{
		{Title: "", Content: "missing title"},
		{Title: "Good", Content: "fine"},
	})
	if err != nil {
		t.Fatalf("IngestDocuments() error = %v", err)
	}
	if result.Ingested != 1 {
		t.Errorf("Ingested = %d, want 1", result.Ingested)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want one entry", result.Errors)
	}
	if len(sink.chunks) != 1 || sink.chunks[0].OriginalTitle != "Good" {
		t.Errorf("saved chunks = %+v, want only the valid document", sink.chunks)
	}
}

func TestIngestDocuments_SinkFailureRecordedPerDocument(t *testing.T) {
	c, err := chunker.New(100, 0)
	if err != nil {
		t.Fatalf("chunker.New() error = %v", err)
	}
	sink := &memorySink{failFor: "Broken"}
	p := New(c, sink)

	result, err := p.IngestDocuments(context.Background(), []models.Document{
		{Title: "Broken", Content: "will fail"},
		{Title: "Works", Content: "will save"},
	})
	if err != nil {
		t.Fatalf("IngestDocuments() error = %v", err)
	}
	if result.Ingested != 1 {
		t.Errorf("Ingested = %d, want 1", result.Ingested)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Broken") {
		t.Errorf("Errors = %v, want the failing document named", result.Errors)
	}
}

func TestIngestDocuments_CanceledContext(t *testing.T) {
	p, _ := newTestPipeline(t, 100, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.IngestDocuments(ctx, []models.Document{{Title: "t", Content: "c"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestIngestDocuments_EmptyBatch(t *testing.T) {
	p, _ := newTestPipeline(t, 100, 0)

	result, err := p.IngestDocuments(context.Background(), nil)
	if err != nil {
		t.Fatalf("IngestDocuments() error = %v", err)
	}
	if result.Ingested != 0 || len(result.Results) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}
