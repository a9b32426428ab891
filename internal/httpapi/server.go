// ABOUTME: HTTP API server for ingestion, chat, and archive listings
// ABOUTME: Built on echo with logger and recover middleware
package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/substratamag/assistant/internal/chat"
	"github.com/substratamag/assistant/internal/ingest"
	"github.com/substratamag/assistant/internal/models"
)

// Archive is the read side of chunk storage used by the API
type Archive interface {
	ListDocuments() ([]models.DocumentInfo, error)
	SearchChunks(query string, limit int) ([]models.ChunkRecord, error)
}

// Server is the assistant's HTTP API server
type Server struct {
	echo     *echo.Echo
	pipeline *ingest.Pipeline
	archive  Archive
	session  *chat.Session
}

// NewServer creates the API server and registers its routes
func NewServer(pipeline *ingest.Pipeline, archive Archive, session *chat.Session) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		pipeline: pipeline,
		archive:  archive,
		session:  session,
	}

	// Register routes
	e.GET("/health", s.handleHealth)
	e.POST("/api/ingest", s.handleIngest)
	e.POST("/api/chat", s.handleChat)
	e.GET("/api/documents", s.handleDocuments)
	e.GET("/api/search", s.handleSearch)

	return s
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree (for tests)
func (s *Server) Handler() http.Handler {
	return s.echo
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}
