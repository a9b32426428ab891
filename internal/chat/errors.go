// ABOUTME: Error taxonomy for the streaming chat client
// ABOUTME: Rate-limit and billing failures are distinguishable so callers can give distinct guidance
package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited is returned when the upstream answers 429
	ErrRateLimited = errors.New("chat: rate limited by upstream")
	// ErrPaymentRequired is returned when the upstream answers 402
	ErrPaymentRequired = errors.New("chat: payment required")
	// ErrEmptyResponse is returned when the stream ends without any
	// content or metadata
	ErrEmptyResponse = errors.New("chat: stream ended without content")
)

// RequestError reports a failed request that is neither a rate limit
// nor a billing problem
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("chat: request failed with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("chat: request failed with status %d", e.StatusCode)
}
