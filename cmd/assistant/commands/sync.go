// ABOUTME: CLI command for Charm cloud sync of the archive
// ABOUTME: Only meaningful when ASSISTANT_STORAGE=charm
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/substratamag/assistant/internal/charm"
	"github.com/substratamag/assistant/internal/config"
)

// NewSyncCmd creates the sync command
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync the archive with Charm cloud",
		Long: `Sync the archive with Charm cloud.

The charm storage backend syncs via SSH keys; data follows any device
linked to the same Charm account. Requires ASSISTANT_STORAGE=charm.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncNowCmd())

	return cmd
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status and connection info",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := charmClient()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			id, err := client.ID()
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Status: Not connected")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Status: Connected")
			fmt.Fprintf(cmd.OutOrStdout(), "Charm ID: %s\n", id)
			return nil
		},
	}
}

func newSyncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Sync with the cloud immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := charmClient()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "Synced")
			}
			return nil
		},
	}
}

// charmClient opens a charm client from configuration
func charmClient() (*charm.Client, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.StorageBackend != config.BackendCharm {
		return nil, fmt.Errorf("sync requires ASSISTANT_STORAGE=charm (current backend: %s)", cfg.StorageBackend)
	}

	client, err := charm.NewClient(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: false,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to Charm: %w", err)
	}
	return client, nil
}
