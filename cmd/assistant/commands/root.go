// ABOUTME: Root CLI command wiring for the Substrata assistant
// ABOUTME: Registers subcommands and global output flags
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

const banner = `
███████ ██    ██ ██████  ███████ ████████ ██████   █████  ████████  █████
██      ██    ██ ██   ██ ██         ██    ██   ██ ██   ██    ██    ██   ██
███████ ██    ██ ██████  ███████    ██    ██████  ███████    ██    ███████
     ██ ██    ██ ██   ██      ██    ██    ██   ██ ██   ██    ██    ██   ██
███████  ██████  ██████  ███████    ██    ██   ██ ██   ██    ██    ██   ██
`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assistant",
		Short: "Substrata magazine assistant",
		Long: banner + `
Substrata assistant: streaming chat with the magazine's AI plus an
archive of ingested documents, chunked for retrieval.

Chat with the assistant, ingest articles into the archive, search it,
or expose everything to LLM agents over MCP.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
