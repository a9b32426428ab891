// ABOUTME: CLI command to list ingested documents
// ABOUTME: Shows original titles with their chunk counts
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ingested documents",
		Long:  `List ingested documents with the number of stored chunks for each.`,
		RunE:  runList,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	docs, err := store.ListDocuments()
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No documents ingested yet")
		return nil
	}

	for _, doc := range docs {
		fmt.Fprintf(cmd.OutOrStdout(), "%-60s %d chunk(s)\n", truncate(doc.Title, 60), doc.Chunks)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d document(s)\n", len(docs))
	}
	return nil
}
