// ABOUTME: Main entry point for the assistant HTTP API server
// ABOUTME: Wires config, storage, chunker, chat session, and the echo server
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/substratamag/assistant/internal/chat"
	"github.com/substratamag/assistant/internal/chunker"
	"github.com/substratamag/assistant/internal/config"
	"github.com/substratamag/assistant/internal/httpapi"
	"github.com/substratamag/assistant/internal/ingest"
	"github.com/substratamag/assistant/internal/storage"
)

func main() {
	// Load .env file if it exists (for API tokens)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.ChatEndpoint == "" {
		log.Println("Warning: ASSISTANT_CHAT_URL not set - the chat endpoint will not work")
	}

	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	chunk, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Invalid chunker configuration: %v", err)
	}
	pipeline := ingest.New(chunk, store)

	var session *chat.Session
	if cfg.ChatEndpoint != "" {
		client, err := chat.NewClient(chat.ClientConfig{
			Endpoint: cfg.ChatEndpoint,
			Token:    cfg.ChatToken,
		})
		if err != nil {
			log.Fatalf("Failed to create chat client: %v", err)
		}
		session = chat.NewSession(client)
	}

	server := httpapi.NewServer(pipeline, store, session)

	go func() {
		log.Printf("Substrata assistant API listening on %s", cfg.HTTPAddr)
		if err := server.Start(cfg.HTTPAddr); err != nil {
			log.Printf("HTTP server stopped: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
