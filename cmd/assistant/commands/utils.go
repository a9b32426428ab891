// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Output formatting helpers plus common storage wiring
package commands

import (
	"fmt"
	"time"

	"github.com/substratamag/assistant/internal/config"
	"github.com/substratamag/assistant/internal/storage"
)

// openStore loads configuration and opens the configured store
func openStore() (storage.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	store, err := storage.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, cfg, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}
