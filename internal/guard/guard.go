package guard

import (
	"context"

	"kidvibe-be/internal/apperrors"
	"kidvibe-be/internal/entity"
	"kidvibe-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Guard centralizes ownership checks. A resource that exists but belongs
// to someone else is reported exactly like one that does not exist, so
// callers cannot probe for other users' resources.
type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

// EnsureProjectOwned returns the project when it exists and belongs to
// userId, and a not-found error otherwise.
func (g *Guard) EnsureProjectOwned(ctx context.Context, uow unitofwork.UnitOfWork, projectId, userId uuid.UUID) (*entity.Project, error) {
	project, err := uow.ProjectRepository().FindOneByIdAndOwner(ctx, projectId, userId)
	if err != nil {
		return nil, apperrors.Internal("failed to load project", err)
	}
	if project == nil {
		return nil, apperrors.NotFound("project not found")
	}
	return project, nil
}

// EnsureSessionOwned returns the chat session when it exists and belongs
// to userId, and a not-found error otherwise.
func (g *Guard) EnsureSessionOwned(ctx context.Context, uow unitofwork.UnitOfWork, sessionId, userId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOneByIdAndUser(ctx, sessionId, userId)
	if err != nil {
		return nil, apperrors.Internal("failed to load chat session", err)
	}
	if session == nil {
		return nil, apperrors.NotFound("chat session not found")
	}
	return session, nil
}
