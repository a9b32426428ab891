// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to chat and ingest documents via stdio
package commands

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/substratamag/assistant/internal/chat"
	"github.com/substratamag/assistant/internal/chunker"
	"github.com/substratamag/assistant/internal/config"
	"github.com/substratamag/assistant/internal/ingest"
	"github.com/substratamag/assistant/internal/mcp"
	"github.com/substratamag/assistant/internal/storage"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the assistant as an MCP (Model Context Protocol) server over
stdio, exposing chat, ingestion, and archive search tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  assistant mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "substrata": {
  #       "command": "assistant",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for the chat token)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	chunk, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}
	pipeline := ingest.New(chunk, store)

	var session *chat.Session
	if cfg.ChatEndpoint != "" {
		client, err := chat.NewClient(chat.ClientConfig{
			Endpoint: cfg.ChatEndpoint,
			Token:    cfg.ChatToken,
		})
		if err != nil {
			return err
		}
		session = chat.NewSession(client)
	} else if !quiet {
		log.Println("Warning: ASSISTANT_CHAT_URL not set - the ask tool will not work")
	}

	server := mcpserver.NewMCPServer(
		"Substrata Assistant",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, pipeline, store, session)

	if !quiet {
		log.Println("Substrata assistant MCP server starting on stdio...")
	}
	return mcpserver.ServeStdio(server)
}
