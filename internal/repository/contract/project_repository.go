package contract

import (
	"context"

	"kidvibe-be/internal/entity"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	// FindOneByIdAndOwner returns nil, nil when the project does not exist
	// or belongs to someone else; callers cannot tell the two apart.
	FindOneByIdAndOwner(ctx context.Context, id, ownerId uuid.UUID) (*entity.Project, error)
	FindAllByOwner(ctx context.Context, ownerId uuid.UUID, limit, offset int) ([]*entity.Project, error)
	Count(ctx context.Context, ownerId uuid.UUID) (int64, error)
}

type ProjectFileRepository interface {
	Create(ctx context.Context, file *entity.ProjectFile) error
	Update(ctx context.Context, file *entity.ProjectFile) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOneByIdAndProject(ctx context.Context, id, projectId uuid.UUID) (*entity.ProjectFile, error)
	FindOneByPath(ctx context.Context, projectId uuid.UUID, filePath string) (*entity.ProjectFile, error)
	FindAllByProject(ctx context.Context, projectId uuid.UUID) ([]*entity.ProjectFile, error)
}
