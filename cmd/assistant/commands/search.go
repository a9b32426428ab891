// ABOUTME: CLI command to search stored chunks
// ABOUTME: Substring search over titles and content with a result limit
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var searchLimit int

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the archive",
		Long: `Search stored chunks whose title or content matches the query.

Examples:
  assistant search "modular synthesis"
  assistant search --limit 3 warehouse`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.SearchChunks(args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("searching archive: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matches")
		return nil
	}

	for _, record := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  (%s)\n", record.Title, formatTime(record.CreatedAt))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", truncate(record.Content, 120))
	}
	return nil
}
