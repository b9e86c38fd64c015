package contract

import (
	"context"

	"kidvibe-be/internal/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOneById(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindOneByEmail(ctx context.Context, email string) (*entity.User, error)
	Count(ctx context.Context) (int64, error)
}
