// ABOUTME: Interactive chat REPL streaming assistant replies to the terminal
// ABOUTME: Retries rate-limited sends with exponential backoff; the session itself never retries
package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/substratamag/assistant/internal/chat"
	"github.com/substratamag/assistant/internal/config"
	"github.com/substratamag/assistant/internal/util"
)

var chatMaxRetries int

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the Substrata assistant",
		Long: `Chat with the Substrata assistant.

With a message argument, sends it and prints the reply. Without
arguments, starts an interactive session; type 'exit' to leave.

Requires ASSISTANT_CHAT_URL (and usually ASSISTANT_CHAT_TOKEN).`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChat,
	}

	cmd.Flags().IntVar(&chatMaxRetries, "max-retries", 3, "Retries after a rate-limited send")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	// Load .env for the endpoint and token
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.ChatEndpoint == "" {
		return fmt.Errorf("ASSISTANT_CHAT_URL is not set")
	}

	client, err := chat.NewClient(chat.ClientConfig{
		Endpoint: cfg.ChatEndpoint,
		Token:    cfg.ChatToken,
	})
	if err != nil {
		return err
	}

	session := chat.NewSession(client)

	// Print only the new suffix as the accumulated reply grows.
	printed := 0
	session.OnDelta(func(content string) {
		fmt.Fprint(cmd.OutOrStdout(), content[printed:])
		printed = len(content)
	})

	send := func(message string) error {
		printed = 0
		err := sendWithRetry(cmd.Context(), session, message, cfg.ChatTimeout)
		fmt.Fprintln(cmd.OutOrStdout())
		return err
	}

	if len(args) > 0 {
		return send(args[0])
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Substrata assistant. Type 'exit' to leave.")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(cmd.OutOrStdout(), "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if err := send(line); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
	return scanner.Err()
}

// sendWithRetry retries rate-limited sends with backoff. All other
// failures surface immediately.
func sendWithRetry(ctx context.Context, session *chat.Session, message string, timeout time.Duration) error {
	for attempt := 0; ; attempt++ {
		sendCtx := ctx
		var cancel context.CancelFunc
		if timeout > 0 {
			sendCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		_, err := session.Send(sendCtx, message)
		if cancel != nil {
			cancel()
		}

		if !errors.Is(err, chat.ErrRateLimited) || attempt >= chatMaxRetries {
			return err
		}

		delay := util.CalculateBackoff(2*time.Second, attempt+1)
		if !quiet {
			fmt.Fprintf(os.Stderr, "Rate limited, retrying in %s...\n", delay.Round(time.Second))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
