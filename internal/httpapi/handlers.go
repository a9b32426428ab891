// ABOUTME: Request handlers for the ingest, chat, and archive routes
// ABOUTME: Maps the chat error taxonomy to distinct user-facing responses
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/substratamag/assistant/internal/chat"
	"github.com/substratamag/assistant/internal/models"
)

// IngestRequest is the body of POST /api/ingest
type IngestRequest struct {
	Documents []models.Document `json:"documents"`
}

// IngestResponse is the success body of POST /api/ingest
type IngestResponse struct {
	Success  bool        `json:"success"`
	Ingested int         `json:"ingested"`
	Results  interface{} `json:"results"`
	Errors   []string    `json:"errors,omitempty"`
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the success body of POST /api/chat
type ChatResponse struct {
	Reply string `json:"reply"`
}

// handleIngest chunks and stores a batch of documents
func (s *Server) handleIngest(c echo.Context) error {
	var req IngestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "invalid request body"})
	}
	if len(req.Documents) == 0 {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "no documents provided"})
	}

	result, err := s.pipeline.IngestDocuments(c.Request().Context(), req.Documents)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if result.Ingested == 0 && len(result.Errors) > 0 {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": strings.Join(result.Errors, "; ")})
	}

	return c.JSON(http.StatusOK, IngestResponse{
		Success:  true,
		Ingested: result.Ingested,
		Results:  result.Results,
		Errors:   result.Errors,
	})
}

// handleChat runs a one-shot send on the server's conversation session
func (s *Server) handleChat(c echo.Context) error {
	if s.session == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "chat upstream is not configured"})
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	reply, err := s.session.Send(c.Request().Context(), req.Message)
	if err != nil {
		return c.JSON(chatErrorStatus(err), map[string]string{"error": chatErrorMessage(err)})
	}
	if reply == "" {
		// Send was a no-op: another request already holds the session.
		return c.JSON(http.StatusConflict, map[string]string{"error": "another chat request is in flight"})
	}

	return c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// handleDocuments lists ingested documents
func (s *Server) handleDocuments(c echo.Context) error {
	docs, err := s.archive.ListDocuments()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if docs == nil {
		docs = []models.DocumentInfo{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"documents": docs})
}

// handleSearch searches stored chunks
func (s *Server) handleSearch(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "q parameter is required"})
	}
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.archive.SearchChunks(query, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if records == nil {
		records = []models.ChunkRecord{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": records})
}

// chatErrorStatus maps the chat error taxonomy to HTTP statuses
func chatErrorStatus(err error) int {
	switch {
	case errors.Is(err, chat.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, chat.ErrPaymentRequired):
		return http.StatusPaymentRequired
	default:
		return http.StatusBadGateway
	}
}

// chatErrorMessage gives rate-limit and billing failures distinct,
// actionable messages; everything else collapses to a generic failure.
func chatErrorMessage(err error) string {
	switch {
	case errors.Is(err, chat.ErrRateLimited):
		return "rate limited, try again shortly"
	case errors.Is(err, chat.ErrPaymentRequired):
		return "payment required, check the account billing status"
	case errors.Is(err, chat.ErrEmptyResponse):
		return "assistant returned an empty response"
	default:
		return "chat request failed"
	}
}
