// ABOUTME: Incremental scanner for SSE-style data frames
// ABOUTME: Buffers partial lines across reads so frames split at arbitrary byte offsets reassemble
package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	dataPrefix   = "data:"
	doneToken    = "[DONE]"
	metadataType = "metadata"

	// maxBufferBytes bounds memory if a malformed line never completes
	maxBufferBytes = 1 << 20
)

// event is one decoded frame from the wire
type event struct {
	// metadata is the verbatim payload of a metadata frame
	metadata json.RawMessage
	// delta is the content fragment of a completion frame
	delta string
}

// payload is the wire shape of a data frame. Metadata frames carry a
// type marker; completion frames follow the OpenAI streaming shape.
type payload struct {
	Type    string                              `json:"type,omitempty"`
	Choices []openai.ChatCompletionStreamChoice `json:"choices,omitempty"`
}

// scanner reassembles logical lines from arbitrarily split reads.
// The buffer is raw bytes: a multi-byte character split across two
// reads stays buffered until its line completes, so decoding never
// sees a partial rune.
type scanner struct {
	buf []byte
}

// feed appends raw bytes and returns every event whose line is complete.
// A newline-terminated line that fails to parse is assumed to have been
// truncated upstream: it is kept at the front of the buffer (re-joined
// with its newline) and retried when more bytes arrive. A trailing
// partial line always stays buffered.
func (s *scanner) feed(p []byte) ([]event, error) {
	s.buf = append(s.buf, p...)
	if len(s.buf) > maxBufferBytes {
		return nil, fmt.Errorf("chat: stream line exceeds %d buffered bytes", maxBufferBytes)
	}

	var events []event
	for {
		idx := bytes.IndexByte(s.buf, '\n')
		if idx < 0 {
			return events, nil
		}
		ev, ok, err := parseLine(s.buf[:idx])
		if err != nil {
			// Wait for more bytes; the line may complete on a later read.
			return events, nil
		}
		s.buf = s.buf[idx+1:]
		if ok {
			events = append(events, ev)
		}
	}
}

// parseLine decodes one logical line. ok is false for lines that carry
// no event: blanks, comments, non-data lines, and the [DONE] sentinel.
func parseLine(raw []byte) (event, bool, error) {
	line := strings.TrimSpace(string(raw))
	if line == "" || strings.HasPrefix(line, ":") {
		return event{}, false, nil
	}
	if !strings.HasPrefix(line, dataPrefix) {
		return event{}, false, nil
	}

	data := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if data == "" || data == doneToken {
		return event{}, false, nil
	}

	var p payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return event{}, false, err
	}

	if p.Type == metadataType {
		return event{metadata: json.RawMessage(data)}, true, nil
	}
	if len(p.Choices) > 0 && p.Choices[0].Delta.Content != "" {
		return event{delta: p.Choices[0].Delta.Content}, true, nil
	}
	return event{}, false, nil
}
