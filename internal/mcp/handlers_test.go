// ABOUTME: Tests for MCP tool handlers
// ABOUTME: Covers argument decoding and the unconfigured-chat guard

package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestDocumentsArgument(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr bool
		wantLen int
	}{
		{
			"valid",
			map[string]interface{}{"documents": []interface{}{
				map[string]interface{}{"title": "t", "content": "c"},
			}},
			false, 1,
		},
		{"missing", map[string]interface{}{}, true, 0},
		{"empty array", map[string]interface{}{"documents": []interface{}{}}, true, 0},
		{"not an array", map[string]interface{}{"documents": "nope"}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := documentsArgument(callRequest(tt.args))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(docs) != tt.wantLen {
				t.Errorf("docs = %d, want %d", len(docs), tt.wantLen)
			}
		})
	}
}

func TestAsk_WithoutChatUpstream(t *testing.T) {
	h := &Handlers{}

	result, err := h.Ask(context.Background(), callRequest(map[string]interface{}{"message": "hi"}))
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("Expected an error result when no chat upstream is configured")
	}
}
