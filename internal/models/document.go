// ABOUTME: Document is a source text submitted for ingestion
// ABOUTME: Carries the title, body, and optional source metadata
package models

import (
	"errors"
	"strings"
)

// Document is one submission to the ingestion pipeline
type Document struct {
	Title    string                 `json:"title"`
	Content  string                 `json:"content"`
	Source   string                 `json:"source,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Validate checks that the document can be ingested
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("document title cannot be empty")
	}
	if strings.TrimSpace(d.Content) == "" {
		return errors.New("document content cannot be empty")
	}
	return nil
}

// DocumentInfo summarizes an ingested document for listings
type DocumentInfo struct {
	Title  string `json:"title"`
	Chunks int    `json:"chunks"`
}
