// ABOUTME: Chunker splits long text into overlapping fixed-size windows
// ABOUTME: Windows advance by chunkSize-overlap so every byte is covered exactly once or twice
package chunker

import (
	"errors"
	"fmt"
)

// Defaults used by the ingestion pipeline
const (
	DefaultChunkSize = 1500
	DefaultOverlap   = 200
)

// ErrInvalidConfig reports a window configuration that can never advance
// or never produce a chunk
var ErrInvalidConfig = errors.New("invalid chunker configuration")

// Chunker produces fixed-size overlapping windows over a text.
// It holds no state between calls and is safe for concurrent use.
type Chunker struct {
	chunkSize int
	overlap   int
}

// New creates a Chunker, failing fast on a configuration that would
// loop forever (overlap >= chunkSize) or produce empty windows.
func New(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must be non-negative, got %d", ErrInvalidConfig, overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", ErrInvalidConfig, overlap, chunkSize)
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// NewDefault creates a Chunker with the default 1500/200 window
func NewDefault() *Chunker {
	c, err := New(DefaultChunkSize, DefaultOverlap)
	if err != nil {
		// Defaults are valid by construction
		panic(err)
	}
	return c
}

// ChunkSize returns the configured window size
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured window overlap
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split returns the ordered chunk windows for text. Offsets are byte
// offsets: window i starts at i*(chunkSize-overlap) and ends at
// start+chunkSize capped to len(text). The last window ends exactly at
// len(text). Empty text produces no windows.
func (c *Chunker) Split(text string) []string {
	step := c.chunkSize - c.overlap

	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + c.chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
