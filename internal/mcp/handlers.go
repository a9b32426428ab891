// ABOUTME: MCP tool handler implementations for the assistant server
// ABOUTME: Chat errors map to distinct messages; ingest failures stay per-document
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/substratamag/assistant/internal/chat"
	"github.com/substratamag/assistant/internal/httpapi"
	"github.com/substratamag/assistant/internal/ingest"
	"github.com/substratamag/assistant/internal/models"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	pipeline *ingest.Pipeline
	archive  httpapi.Archive
	session  *chat.Session
}

// Ask handles the ask tool
func (h *Handlers) Ask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.session == nil {
		return mcp.NewToolResultError("chat upstream is not configured"), nil
	}

	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}

	reply, err := h.session.Send(ctx, message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrRateLimited):
			return mcp.NewToolResultError("rate limited, try again shortly"), nil
		case errors.Is(err, chat.ErrPaymentRequired):
			return mcp.NewToolResultError("payment required, check the account billing status"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("chat request failed: %v", err)), nil
	}
	if reply == "" {
		return mcp.NewToolResultError("another ask is already in flight"), nil
	}

	return mcp.NewToolResultText(reply), nil
}

// IngestDocuments handles the ingest_documents tool
func (h *Handlers) IngestDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := documentsArgument(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := h.pipeline.IngestDocuments(ctx, docs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingest failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SearchArchive handles the search_archive tool
func (h *Handlers) SearchArchive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	maxResults := request.GetInt("max_results", 10)

	records, err := h.archive.SearchChunks(query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("archive search failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(map[string]interface{}{"results": records})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListDocuments handles the list_documents tool
func (h *Handlers) ListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := h.archive.ListDocuments()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list documents: %v", err)), nil
	}

	responseJSON, err := json.Marshal(map[string]interface{}{"documents": docs})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// documentsArgument decodes the documents array argument
func documentsArgument(request mcp.CallToolRequest) ([]models.Document, error) {
	args := request.GetArguments()
	raw, ok := args["documents"]
	if !ok {
		return nil, errors.New("documents argument is required")
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("documents argument is not valid JSON: %v", err)
	}

	var docs []models.Document
	if err := json.Unmarshal(encoded, &docs); err != nil {
		return nil, fmt.Errorf("documents argument must be an array of {title, content, source?, metadata?}: %v", err)
	}
	if len(docs) == 0 {
		return nil, errors.New("documents argument must not be empty")
	}
	return docs, nil
}
