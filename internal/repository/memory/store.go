package memory

import (
	"context"
	"sort"
	"sync"

	"kidvibe-be/internal/entity"
	"kidvibe-be/internal/repository/contract"
	"kidvibe-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Store is an in-memory backing for the repository contracts. It powers
// the service tests and any wiring that does not need Postgres. It is not
// transactional: Begin/Commit/Rollback are accepted and ignored.
type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*entity.User
	projects map[uuid.UUID]*entity.Project
	files    map[uuid.UUID]*entity.ProjectFile
	sessions map[uuid.UUID]*entity.ChatSession
	messages []storedMessage
	seq      int64
}

type storedMessage struct {
	seq int64
	msg entity.ChatMessage
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]*entity.User),
		projects: make(map[uuid.UUID]*entity.Project),
		files:    make(map[uuid.UUID]*entity.ProjectFile),
		sessions: make(map[uuid.UUID]*entity.ChatSession),
	}
}

// Factory returns a unitofwork.RepositoryFactory view over the store.
func (s *Store) Factory() unitofwork.RepositoryFactory {
	return &factory{store: s}
}

type factory struct {
	store *Store
}

func (f *factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &uow{store: f.store}
}

type uow struct {
	store *Store
}

func (u *uow) Begin(ctx context.Context) error { return nil }
func (u *uow) Commit() error                   { return nil }
func (u *uow) Rollback() error                 { return nil }

func (u *uow) UserRepository() contract.UserRepository {
	return &userRepo{store: u.store}
}

func (u *uow) ProjectRepository() contract.ProjectRepository {
	return &projectRepo{store: u.store}
}

func (u *uow) ProjectFileRepository() contract.ProjectFileRepository {
	return &projectFileRepo{store: u.store}
}

func (u *uow) ChatSessionRepository() contract.ChatSessionRepository {
	return &chatSessionRepo{store: u.store}
}

func (u *uow) ChatMessageRepository() contract.ChatMessageRepository {
	return &chatMessageRepo{store: u.store}
}

// sortedMessages returns session messages ordered oldest first.
func (s *Store) sortedMessages(sessionId uuid.UUID) []storedMessage {
	out := make([]storedMessage, 0)
	for _, m := range s.messages {
		if m.msg.ChatSessionId == sessionId {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].msg.CreatedAt.Equal(out[j].msg.CreatedAt) {
			return out[i].seq < out[j].seq
		}
		return out[i].msg.CreatedAt.Before(out[j].msg.CreatedAt)
	})
	return out
}
