package contract

import (
	"context"

	"kidvibe-be/internal/entity"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	Update(ctx context.Context, session *entity.ChatSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOneById(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error)
	// FindOneByIdAndUser returns nil, nil both for missing sessions and
	// sessions owned by another user.
	FindOneByIdAndUser(ctx context.Context, id, userId uuid.UUID) (*entity.ChatSession, error)
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.ChatSession, error)
	FindAllByUserAndProject(ctx context.Context, userId, projectId uuid.UUID) ([]*entity.ChatSession, error)
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	// FindAllBySession returns messages ordered oldest first.
	FindAllBySession(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error)
	// FindRecentBySession returns up to limit messages ordered newest first.
	FindRecentBySession(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.ChatMessage, error)
	CountBySession(ctx context.Context, sessionId uuid.UUID) (int64, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
}
