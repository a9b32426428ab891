// ABOUTME: MCP tool definitions and registration for the assistant server
// ABOUTME: Exposes chat, ingestion, and archive tools over stdio
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/substratamag/assistant/internal/chat"
	"github.com/substratamag/assistant/internal/httpapi"
	"github.com/substratamag/assistant/internal/ingest"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, pipeline *ingest.Pipeline, archive httpapi.Archive, session *chat.Session) *Handlers {
	handlers := &Handlers{
		pipeline: pipeline,
		archive:  archive,
		session:  session,
	}

	// 1. ask - Send a question to the assistant
	server.AddTool(mcp.Tool{
		Name:        "ask",
		Description: "Ask the Substrata assistant a question. The conversation continues across calls within one server session.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "Question or message for the assistant",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.Ask)

	// 2. ingest_documents - Chunk and store documents in the archive
	server.AddTool(mcp.Tool{
		Name:        "ingest_documents",
		Description: "Chunk and store documents in the Substrata archive. Each document is split into overlapping windows stored as separate records.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"documents": map[string]interface{}{
					"type":        "array",
					"description": "Documents to ingest",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"title":    map[string]interface{}{"type": "string"},
							"content":  map[string]interface{}{"type": "string"},
							"source":   map[string]interface{}{"type": "string"},
							"metadata": map[string]interface{}{"type": "object"},
						},
						"required": []string{"title", "content"},
					},
				},
			},
			Required: []string{"documents"},
		},
	}, handlers.IngestDocuments)

	// 3. search_archive - Search stored chunks
	server.AddTool(mcp.Tool{
		Name:        "search_archive",
		Description: "Search the Substrata archive for chunks matching a query.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 10)",
					"default":     10,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchArchive)

	// 4. list_documents - List ingested documents
	server.AddTool(mcp.Tool{
		Name:        "list_documents",
		Description: "List ingested documents with their chunk counts.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListDocuments)

	return handlers
}
