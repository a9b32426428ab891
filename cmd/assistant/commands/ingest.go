// ABOUTME: CLI command to ingest documents into the archive
// ABOUTME: Reads files or stdin, chunks them, and stores the windows
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/substratamag/assistant/internal/chunker"
	"github.com/substratamag/assistant/internal/ingest"
	"github.com/substratamag/assistant/internal/models"
)

var (
	ingestTitle  string
	ingestSource string
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Ingest documents into the archive",
		Long: `Ingest documents into the archive.

Each file becomes one document, split into overlapping chunks and
stored as separate records. Without file arguments, reads one document
from stdin (--title is then required).

Examples:
  assistant ingest features/acid-revival.md
  assistant ingest --source=interviews *.txt
  cat liner-notes.txt | assistant ingest --title "Liner Notes"`,
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&ingestTitle, "title", "", "Document title (defaults to the file name)")
	cmd.Flags().StringVar(&ingestSource, "source", "", "Source attribution for all documents")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	docs, err := collectDocuments(args)
	if err != nil {
		return err
	}

	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	chunk, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}

	pipeline := ingest.New(chunk, store)
	result, err := pipeline.IngestDocuments(cmd.Context(), docs)
	if err != nil {
		return err
	}

	for _, msg := range result.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "Failed: %s\n", msg)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d chunk(s) from %d document(s)\n", result.Ingested, len(docs))
		if verbose {
			for _, ref := range result.Results {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s -> %s\n", ref.Title, ref.ID)
			}
		}
	}
	if result.Ingested == 0 && len(result.Errors) > 0 {
		return fmt.Errorf("no documents ingested")
	}
	return nil
}

// collectDocuments builds the document batch from files or stdin
func collectDocuments(args []string) ([]models.Document, error) {
	if len(args) == 0 {
		if ingestTitle == "" {
			return nil, fmt.Errorf("--title is required when reading from stdin")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []models.Document{{
			Title:   ingestTitle,
			Content: strings.TrimSpace(string(data)),
			Source:  ingestSource,
		}}, nil
	}

	var docs []models.Document
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		title := ingestTitle
		if title == "" || len(args) > 1 {
			title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		docs = append(docs, models.Document{
			Title:   title,
			Content: string(data),
			Source:  ingestSource,
		})
	}
	return docs, nil
}
