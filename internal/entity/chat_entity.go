package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// DefaultSessionTitle is used until the consumer derives a better one
// from the first user message.
const DefaultSessionTitle = "New conversation"

func ValidChatMessageRole(role string) bool {
	switch role {
	case ChatMessageRoleUser, ChatMessageRoleAssistant, ChatMessageRoleSystem:
		return true
	}
	return false
}

type ChatSession struct {
	Id        uuid.UUID
	ProjectId uuid.UUID
	UserId    uuid.UUID
	Title     string
	Context   map[string]interface{}
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	Metadata      map[string]interface{}
	CreatedAt     time.Time
}
