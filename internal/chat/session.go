// ABOUTME: Session owns an ordered conversation and streams assistant replies into it
// ABOUTME: Enforces at-most-one-in-flight sends; readers always see the complete-so-far text
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/substratamag/assistant/internal/models"
)

// MetadataFunc receives side-channel metadata frames verbatim
type MetadataFunc func(payload json.RawMessage)

// DeltaFunc receives the full accumulated assistant text after each delta
type DeltaFunc func(content string)

// Session holds one conversation and streams replies into it.
// Exactly one Send may be in flight at a time; a second call while busy
// is a no-op. The turn list may be read for display while a send is in
// flight.
type Session struct {
	client *Client

	mu    sync.Mutex
	turns []models.ConversationTurn

	busy atomic.Bool

	onMetadata MetadataFunc
	onDelta    DeltaFunc
}

// NewSession creates a session backed by the given client
func NewSession(client *Client) *Session {
	return &Session{client: client}
}

// OnMetadata registers the metadata observer. Set before the first Send.
func (s *Session) OnMetadata(fn MetadataFunc) {
	s.onMetadata = fn
}

// OnDelta registers the delta observer. Set before the first Send.
func (s *Session) OnDelta(fn DeltaFunc) {
	s.onDelta = fn
}

// Busy reports whether a send is in flight
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Turns returns a snapshot of the conversation so far
func (s *Session) Turns() []models.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Reset clears the conversation. It is a no-op while a send is in flight.
func (s *Session) Reset() {
	if s.busy.Load() {
		return
	}
	s.mu.Lock()
	s.turns = nil
	s.mu.Unlock()
}

// Send streams one assistant reply for message and returns the full
// accumulated text. An empty message, or a call made while another send
// is in flight, is a no-op returning ("", nil). The user turn is
// appended before any network I/O; on failure with no accumulated
// content the empty assistant placeholder is removed so no dangling
// empty message remains. Cancellation keeps whatever content had
// already been applied.
func (s *Session) Send(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", nil
	}
	if !s.busy.CompareAndSwap(false, true) {
		return "", nil
	}
	defer s.busy.Store(false)

	s.appendTurn(models.NewUserTurn(message))

	body, err := s.client.Open(ctx, message)
	if err != nil {
		return "", err
	}
	defer body.Close()

	s.appendTurn(models.NewAssistantTurn())

	content, sawMetadata, err := s.readStream(ctx, body)
	if content == "" {
		s.dropEmptyAssistantTurn()
	}
	if err != nil {
		return content, err
	}
	if content == "" && !sawMetadata {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// readStream pulls the response body chunk by chunk, applying content
// deltas to the open assistant turn in wire order.
func (s *Session) readStream(ctx context.Context, body io.Reader) (string, bool, error) {
	var (
		sc          scanner
		accumulated strings.Builder
		sawMetadata bool
	)
	buf := make([]byte, 4096)

	for {
		if err := ctx.Err(); err != nil {
			return accumulated.String(), sawMetadata, err
		}

		n, err := body.Read(buf)
		if n > 0 {
			events, ferr := sc.feed(buf[:n])
			if ferr != nil {
				return accumulated.String(), sawMetadata, ferr
			}
			for _, ev := range events {
				if ev.metadata != nil {
					sawMetadata = true
					if s.onMetadata != nil {
						s.onMetadata(ev.metadata)
					}
					continue
				}
				accumulated.WriteString(ev.delta)
				s.setAssistantContent(accumulated.String())
				if s.onDelta != nil {
					s.onDelta(accumulated.String())
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return accumulated.String(), sawMetadata, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return accumulated.String(), sawMetadata, ctxErr
			}
			return accumulated.String(), sawMetadata, fmt.Errorf("chat: read stream: %w", err)
		}
	}
}

func (s *Session) appendTurn(turn models.ConversationTurn) {
	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()
}

// setAssistantContent replaces the open assistant turn's content with
// the full accumulated text
func (s *Session) setAssistantContent(content string) {
	s.mu.Lock()
	if n := len(s.turns); n > 0 && s.turns[n-1].Role == models.RoleAssistant {
		s.turns[n-1].Content = content
	}
	s.mu.Unlock()
}

// dropEmptyAssistantTurn removes a trailing assistant turn that never
// received content
func (s *Session) dropEmptyAssistantTurn() {
	s.mu.Lock()
	if n := len(s.turns); n > 0 && s.turns[n-1].Role == models.RoleAssistant && s.turns[n-1].Content == "" {
		s.turns = s.turns[:n-1]
	}
	s.mu.Unlock()
}
