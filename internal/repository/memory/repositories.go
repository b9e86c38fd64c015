package memory

import (
	"context"
	"fmt"
	"sort"

	"kidvibe-be/internal/entity"

	"github.com/google/uuid"
)

// --- users ---

type userRepo struct {
	store *Store
}

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return fmt.Errorf("duplicate email: %s", user.Email)
		}
	}
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

func (r *userRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

func (r *userRepo) FindOneById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if u, ok := r.store.users[id]; ok && !u.IsDeleted {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *userRepo) FindOneByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Email == email && !u.IsDeleted {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.users)), nil
}

// --- projects ---

type projectRepo struct {
	store *Store
}

func (r *projectRepo) Create(ctx context.Context, project *entity.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if project.Id == uuid.Nil {
		project.Id = uuid.New()
	}
	cp := *project
	r.store.projects[project.Id] = &cp
	return nil
}

func (r *projectRepo) Update(ctx context.Context, project *entity.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *project
	r.store.projects[project.Id] = &cp
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.projects, id)
	return nil
}

func (r *projectRepo) FindOneByIdAndOwner(ctx context.Context, id, ownerId uuid.UUID) (*entity.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if p, ok := r.store.projects[id]; ok && p.OwnerId == ownerId && !p.IsDeleted {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *projectRepo) FindAllByOwner(ctx context.Context, ownerId uuid.UUID, limit, offset int) ([]*entity.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.Project, 0)
	for _, p := range r.store.projects {
		if p.OwnerId == ownerId && !p.IsDeleted {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if offset > 0 {
		if offset >= len(out) {
			return []*entity.Project{}, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *projectRepo) Count(ctx context.Context, ownerId uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, p := range r.store.projects {
		if p.OwnerId == ownerId && !p.IsDeleted {
			count++
		}
	}
	return count, nil
}

// --- project files ---

type projectFileRepo struct {
	store *Store
}

func (r *projectFileRepo) Create(ctx context.Context, file *entity.ProjectFile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if file.Id == uuid.Nil {
		file.Id = uuid.New()
	}
	for _, f := range r.store.files {
		if f.ProjectId == file.ProjectId && f.FilePath == file.FilePath && !f.IsDeleted {
			return fmt.Errorf("duplicate file path: %s", file.FilePath)
		}
	}
	cp := *file
	r.store.files[file.Id] = &cp
	return nil
}

func (r *projectFileRepo) Update(ctx context.Context, file *entity.ProjectFile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *file
	r.store.files[file.Id] = &cp
	return nil
}

func (r *projectFileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.files, id)
	return nil
}

func (r *projectFileRepo) FindOneByIdAndProject(ctx context.Context, id, projectId uuid.UUID) (*entity.ProjectFile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if f, ok := r.store.files[id]; ok && f.ProjectId == projectId && !f.IsDeleted {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (r *projectFileRepo) FindOneByPath(ctx context.Context, projectId uuid.UUID, filePath string) (*entity.ProjectFile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, f := range r.store.files {
		if f.ProjectId == projectId && f.FilePath == filePath && !f.IsDeleted {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *projectFileRepo) FindAllByProject(ctx context.Context, projectId uuid.UUID) ([]*entity.ProjectFile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.ProjectFile, 0)
	for _, f := range r.store.files {
		if f.ProjectId == projectId && !f.IsDeleted {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FilePath < out[j].FilePath })
	return out, nil
}

// --- chat sessions ---

type chatSessionRepo struct {
	store *Store
}

func (r *chatSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	cp := *session
	r.store.sessions[session.Id] = &cp
	return nil
}

func (r *chatSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *session
	r.store.sessions[session.Id] = &cp
	return nil
}

func (r *chatSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, id)
	return nil
}

func (r *chatSessionRepo) FindOneById(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if s, ok := r.store.sessions[id]; ok && !s.IsDeleted {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *chatSessionRepo) FindOneByIdAndUser(ctx context.Context, id, userId uuid.UUID) (*entity.ChatSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if s, ok := r.store.sessions[id]; ok && s.UserId == userId && !s.IsDeleted {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *chatSessionRepo) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.ChatSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.ChatSession, 0)
	for _, s := range r.store.sessions {
		if s.UserId == userId && !s.IsDeleted {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *chatSessionRepo) FindAllByUserAndProject(ctx context.Context, userId, projectId uuid.UUID) ([]*entity.ChatSession, error) {
	all, err := r.FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.ChatSession, 0)
	for _, s := range all {
		if s.ProjectId == projectId {
			out = append(out, s)
		}
	}
	return out, nil
}

// --- chat messages ---

type chatMessageRepo struct {
	store *Store
}

func (r *chatMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	r.store.seq++
	r.store.messages = append(r.store.messages, storedMessage{
		seq: r.store.seq,
		msg: *message,
	})
	return nil
}

func (r *chatMessageRepo) FindAllBySession(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sorted := r.store.sortedMessages(sessionId)
	out := make([]*entity.ChatMessage, len(sorted))
	for i, m := range sorted {
		cp := m.msg
		out[i] = &cp
	}
	return out, nil
}

func (r *chatMessageRepo) FindRecentBySession(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.ChatMessage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sorted := r.store.sortedMessages(sessionId)
	out := make([]*entity.ChatMessage, 0, limit)
	for i := len(sorted) - 1; i >= 0 && len(out) < limit; i-- {
		cp := sorted[i].msg
		out = append(out, &cp)
	}
	return out, nil
}

func (r *chatMessageRepo) CountBySession(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.sortedMessages(sessionId))), nil
}

func (r *chatMessageRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.messages[:0]
	for _, m := range r.store.messages {
		if m.msg.ChatSessionId != sessionId {
			kept = append(kept, m)
		}
	}
	r.store.messages = kept
	return nil
}
