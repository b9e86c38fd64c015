package dto

import (
	"time"

	"kidvibe-be/internal/pkg/optional"

	"github.com/google/uuid"
)

// SendChatRequest starts or continues a conversation. When SessionId is
// absent a new session is created, which requires ProjectId.
type SendChatRequest struct {
	SessionId *uuid.UUID             `json:"session_id"`
	ProjectId *uuid.UUID             `json:"project_id"`
	Message   string                 `json:"message" validate:"required"`
	Context   map[string]interface{} `json:"context"`
}

// Suggestions and CodeChanges are extension points; nothing populates
// them yet.
type SendChatResponse struct {
	SessionId   uuid.UUID           `json:"session_id"`
	Message     ChatMessageResponse `json:"message"`
	Suggestions []string            `json:"suggestions,omitempty"`
	CodeChanges []string            `json:"code_changes,omitempty"`
}

type CreateChatSessionRequest struct {
	ProjectId uuid.UUID              `json:"project_id" validate:"required"`
	Title     *string                `json:"title" validate:"omitempty,max=200"`
	Context   map[string]interface{} `json:"context"`
}

type UpdateChatSessionRequest struct {
	Id      uuid.UUID                              `json:"-"`
	Title   optional.Field[string]                 `json:"title"`
	Context optional.Field[map[string]interface{}] `json:"context"`
}

type CreateChatMessageRequest struct {
	SessionId uuid.UUID              `json:"session_id" validate:"required"`
	Role      string                 `json:"role" validate:"required,oneof=user assistant system"`
	Content   string                 `json:"content" validate:"required"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type ChatSessionResponse struct {
	Id        uuid.UUID              `json:"id"`
	ProjectId uuid.UUID              `json:"project_id"`
	Title     string                 `json:"title"`
	Context   map[string]interface{} `json:"context,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt *time.Time             `json:"updated_at"`
}

type ListChatSessionsResponse struct {
	Sessions []ChatSessionResponse `json:"sessions"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID              `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type ChatHistoryResponse struct {
	Session  ChatSessionResponse   `json:"session"`
	Messages []ChatMessageResponse `json:"messages"`
}
