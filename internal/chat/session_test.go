// ABOUTME: Tests for the conversation session and send state machine
// ABOUTME: Covers rollback, empty-stream, at-most-one-in-flight, and cancellation behavior

package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/substratamag/assistant/internal/models"
)

// streamServer returns a test server that writes the given lines as an
// event stream, flushing after each one.
func streamServer(t *testing.T, lines ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body streamRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		if !body.Stream {
			t.Error("request did not set stream mode")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n", line)
			flusher.Flush()
		}
	}))
}

func newTestSession(t *testing.T, endpoint string) *Session {
	t.Helper()
	client, err := NewClient(ClientConfig{Endpoint: endpoint, Token: "test-token"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return NewSession(client)
}

func TestSession_Send(t *testing.T) {
	server := streamServer(t,
		`data: {"choices":[{"delta":{"content":"The warehouse "}}]}`,
		`data: {"choices":[{"delta":{"content":"is open."}}]}`,
		`data: [DONE]`,
	)
	defer server.Close()

	session := newTestSession(t, server.URL)
	reply, err := session.Send(context.Background(), "when does it open?")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply != "The warehouse is open." {
		t.Errorf("reply = %q, want %q", reply, "The warehouse is open.")
	}

	turns := session.Turns()
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(turns))
	}
	if turns[0].Role != models.RoleUser || turns[0].Content != "when does it open?" {
		t.Errorf("user turn = %+v", turns[0])
	}
	if turns[1].Role != models.RoleAssistant || turns[1].Content != reply {
		t.Errorf("assistant turn = %+v", turns[1])
	}
}

func TestSession_Send_EmptyMessageIsNoOp(t *testing.T) {
	session := newTestSession(t, "http://localhost:1")

	for _, message := range []string{"", "   ", "\t\n"} {
		reply, err := session.Send(context.Background(), message)
		if err != nil {
			t.Errorf("Send(%q) error = %v, want nil", message, err)
		}
		if reply != "" {
			t.Errorf("Send(%q) reply = %q, want empty", message, reply)
		}
	}
	if turns := session.Turns(); len(turns) != 0 {
		t.Errorf("turns = %d, want 0", len(turns))
	}
}

func TestSession_Send_AtMostOneInFlight(t *testing.T) {
	release := make(chan struct{})
	firstSending := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"first\"}}]}\n")
		flusher.Flush()
		close(firstSending)
		<-release
	}))
	defer server.Close()

	session := newTestSession(t, server.URL)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = session.Send(ctx, "first message")
	}()

	<-firstSending
	if !session.Busy() {
		t.Error("session should be busy while the first send streams")
	}

	// Second call while busy is a no-op
	reply, err := session.Send(context.Background(), "second message")
	if err != nil {
		t.Errorf("second Send() error = %v, want nil", err)
	}
	if reply != "" {
		t.Errorf("second Send() reply = %q, want empty", reply)
	}

	close(release)
	wg.Wait()

	for _, turn := range session.Turns() {
		if turn.Content == "second message" {
			t.Error("second message must not be appended while the first send is in flight")
		}
	}
}

func TestSession_Send_RateLimitedRollback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	session := newTestSession(t, server.URL)
	_, err := session.Send(context.Background(), "hello")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("error = %v, want ErrRateLimited", err)
	}

	turns := session.Turns()
	if len(turns) != 1 {
		t.Fatalf("turns = %d, want only the user turn", len(turns))
	}
	if turns[0].Role != models.RoleUser {
		t.Errorf("remaining turn role = %q, want user", turns[0].Role)
	}

	// The reader is Idle again: a retry is just a new send.
	if session.Busy() {
		t.Error("session should be idle after a failed send")
	}
}

func TestSession_Send_PaymentRequired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer server.Close()

	session := newTestSession(t, server.URL)
	if _, err := session.Send(context.Background(), "hello"); !errors.Is(err, ErrPaymentRequired) {
		t.Errorf("error = %v, want ErrPaymentRequired", err)
	}
}

func TestSession_Send_GenericFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	session := newTestSession(t, server.URL)
	_, err := session.Send(context.Background(), "hello")

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	if reqErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", reqErr.StatusCode)
	}
}

func TestSession_Send_EmptyStream(t *testing.T) {
	server := streamServer(t) // 200 then immediate close, no frames
	defer server.Close()

	session := newTestSession(t, server.URL)
	_, err := session.Send(context.Background(), "hello")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("error = %v, want ErrEmptyResponse", err)
	}

	turns := session.Turns()
	if len(turns) != 1 || turns[0].Role != models.RoleUser {
		t.Errorf("turns = %+v, want only the user turn", turns)
	}
}

func TestSession_Send_MetadataOnlyIsNotEmpty(t *testing.T) {
	server := streamServer(t, `data: {"type":"metadata","sources":[1,2]}`)
	defer server.Close()

	session := newTestSession(t, server.URL)

	var metadata []string
	session.OnMetadata(func(payload json.RawMessage) {
		metadata = append(metadata, string(payload))
	})

	reply, err := session.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply != "" {
		t.Errorf("reply = %q, want empty", reply)
	}
	if len(metadata) != 1 || metadata[0] != `{"type":"metadata","sources":[1,2]}` {
		t.Errorf("metadata = %v, want the verbatim payload once", metadata)
	}
}

func TestSession_Send_MetadataObserver(t *testing.T) {
	server := streamServer(t,
		`data: {"type":"metadata","foo":1}`,
		`data: {"choices":[{"delta":{"content":"hi"}}]}`,
		`data: [DONE]`,
	)
	defer server.Close()

	session := newTestSession(t, server.URL)

	var metadata []string
	session.OnMetadata(func(payload json.RawMessage) {
		metadata = append(metadata, string(payload))
	})

	reply, err := session.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply != "hi" {
		t.Errorf("reply = %q, want %q", reply, "hi")
	}
	if len(metadata) != 1 || metadata[0] != `{"type":"metadata","foo":1}` {
		t.Errorf("metadata = %v, want exactly one verbatim payload", metadata)
	}
}

func TestSession_Send_DeltaObserverSeesAccumulatedText(t *testing.T) {
	server := streamServer(t,
		`data: {"choices":[{"delta":{"content":"a"}}]}`,
		`data: {"choices":[{"delta":{"content":"b"}}]}`,
		`data: {"choices":[{"delta":{"content":"c"}}]}`,
	)
	defer server.Close()

	session := newTestSession(t, server.URL)

	var seen []string
	session.OnDelta(func(content string) {
		seen = append(seen, content)
	})

	if _, err := session.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	want := []string{"a", "ab", "abc"}
	if len(seen) != len(want) {
		t.Fatalf("observer calls = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("observer call %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestSession_Send_CancellationKeepsPartialContent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	streamed := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial \"}}]}\n")
		flusher.Flush()
		close(streamed)
		// Hold the stream open until the client goes away.
		<-r.Context().Done()
	}))
	defer server.Close()

	session := newTestSession(t, server.URL)

	done := make(chan struct{})
	var sendErr error
	go func() {
		defer close(done)
		_, sendErr = session.Send(ctx, "hello")
	}()

	<-streamed
	// Give the reader a moment to apply the delta before canceling.
	deadline := time.Now().Add(2 * time.Second)
	for {
		turns := session.Turns()
		if len(turns) == 2 && turns[1].Content != "" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("delta was never applied")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if !errors.Is(sendErr, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", sendErr)
	}

	turns := session.Turns()
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(turns))
	}
	if turns[1].Content != "partial " {
		t.Errorf("assistant turn = %q, want the partial content kept", turns[1].Content)
	}
	if session.Busy() {
		t.Error("busy flag must clear after cancellation")
	}

	// A new send is accepted once the canceled one returns.
	if session.Busy() {
		t.Error("session should accept a new send")
	}
}

func TestSession_Reset(t *testing.T) {
	server := streamServer(t,
		`data: {"choices":[{"delta":{"content":"hi"}}]}`,
	)
	defer server.Close()

	session := newTestSession(t, server.URL)
	if _, err := session.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	session.Reset()
	if turns := session.Turns(); len(turns) != 0 {
		t.Errorf("turns after Reset = %d, want 0", len(turns))
	}
}

func TestSession_SplitFramesAcrossFlushes(t *testing.T) {
	// The same frame bytes split at an awkward boundary across two
	// flushes must reassemble into one delta.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"hel")
		flusher.Flush()
		fmt.Fprint(w, "lo\"}}]}\n")
		flusher.Flush()
	}))
	defer server.Close()

	session := newTestSession(t, server.URL)
	reply, err := session.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply != "hello" {
		t.Errorf("reply = %q, want %q", reply, "hello")
	}
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Error("Expected error for missing endpoint")
	}
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n")
	}))
	defer server.Close()

	session := newTestSession(t, server.URL)
	if _, err := session.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer test-token")
	}
}

func TestRequestError_Message(t *testing.T) {
	err := &RequestError{StatusCode: 500, Body: "boom"}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q", err.Error())
	}
}
