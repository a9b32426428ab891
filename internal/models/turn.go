// ABOUTME: ConversationTurn represents a single message in a chat session
// ABOUTME: Ordered turns form the conversation history shown to readers
package models

import (
	openai "github.com/sashabaranov/go-openai"
)

// Role constants follow the OpenAI chat convention
const (
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// ConversationTurn is one message in an ordered conversation.
// The assistant turn that is still streaming has its Content grown
// in place until the reply completes.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewUserTurn creates a user turn with the given message
func NewUserTurn(message string) ConversationTurn {
	return ConversationTurn{Role: RoleUser, Content: message}
}

// NewAssistantTurn creates an empty assistant turn that will receive
// streamed content
func NewAssistantTurn() ConversationTurn {
	return ConversationTurn{Role: RoleAssistant}
}
