package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"kidvibe-be/internal/apperrors"
	"kidvibe-be/internal/config"
	"kidvibe-be/internal/dto"
	"kidvibe-be/internal/entity"
	"kidvibe-be/internal/guard"
	"kidvibe-be/internal/pkg/optional"
	"kidvibe-be/internal/pkg/ratelimit"
	"kidvibe-be/internal/repository/memory"
	"kidvibe-be/pkg/ai"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, payload []byte) error { return nil }

type fakeProvider struct {
	chatCalls    int
	analyzeCalls int
	lastMessage  string
	lastHistory  []ai.Message
	chatReply    string
	chatErr      error
	analysis     *ai.RequirementAnalysis
}

func (f *fakeProvider) GenerateCode(ctx context.Context, prompt string, context map[string]string) (string, error) {
	return "generated", nil
}

func (f *fakeProvider) AnalyzeRequirements(ctx context.Context, description string) (*ai.RequirementAnalysis, error) {
	f.analyzeCalls++
	if f.analysis != nil {
		return f.analysis, nil
	}
	return &ai.RequirementAnalysis{
		TechStack:  ai.DefaultTechStack(),
		Features:   []string{"chat"},
		Complexity: ai.ComplexityMedium,
	}, nil
}

func (f *fakeProvider) SuggestImprovements(ctx context.Context, code, feedback string) ([]string, error) {
	return []string{"use contexts"}, nil
}

func (f *fakeProvider) Chat(ctx context.Context, message string, history []ai.Message) (string, error) {
	f.chatCalls++
	f.lastMessage = message
	f.lastHistory = history
	if f.chatErr != nil {
		return "", f.chatErr
	}
	if f.chatReply != "" {
		return f.chatReply, nil
	}
	return "assistant says hi", nil
}

type chatFixture struct {
	store     *memory.Store
	svc       IChatService
	provider  *fakeProvider
	userId    uuid.UUID
	projectId uuid.UUID
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	store := memory.NewStore()
	factory := store.Factory()
	provider := &fakeProvider{}

	svc := NewChatService(
		factory,
		guard.NewGuard(),
		provider,
		ratelimit.NewLimiter(nil, 0),
		noopPublisher{},
		nil,
		noopLogger{},
		&config.ChatConfig{HistoryWindow: 10},
	)

	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)

	user := entity.User{Id: uuid.New(), Email: "owner@example.com", Username: "owner", IsActive: true, CreatedAt: time.Now()}
	require.NoError(t, uow.UserRepository().Create(ctx, &user))

	project := entity.Project{
		Id:            uuid.New(),
		Name:          "demo app",
		InitialPrompt: "build me a demo",
		Status:        entity.ProjectStatusDraft,
		OwnerId:       user.Id,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, uow.ProjectRepository().Create(ctx, &project))

	return &chatFixture{
		store:     store,
		svc:       svc,
		provider:  provider,
		userId:    user.Id,
		projectId: project.Id,
	}
}

func (f *chatFixture) seedSession(t *testing.T, userId uuid.UUID) *entity.ChatSession {
	t.Helper()
	ctx := context.Background()
	session := entity.ChatSession{
		Id:        uuid.New(),
		ProjectId: f.projectId,
		UserId:    userId,
		Title:     entity.DefaultSessionTitle,
		CreatedAt: time.Now(),
	}
	uow := f.store.Factory().NewUnitOfWork(ctx)
	require.NoError(t, uow.ChatSessionRepository().Create(ctx, &session))
	return &session
}

func (f *chatFixture) seedMessages(t *testing.T, sessionId uuid.UUID, n int) {
	t.Helper()
	ctx := context.Background()
	uow := f.store.Factory().NewUnitOfWork(ctx)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < n; i++ {
		role := entity.ChatMessageRoleUser
		if i%2 == 1 {
			role = entity.ChatMessageRoleAssistant
		}
		msg := entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: sessionId,
			Role:          role,
			Content:       "message " + string(rune('a'+i)),
			CreatedAt:     base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, uow.ChatMessageRepository().Create(ctx, &msg))
	}
}

func TestSendChatCreatesSessionAndPersistsTurn(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	res, err := f.svc.SendChat(ctx, f.userId, &dto.SendChatRequest{
		ProjectId: &f.projectId,
		Message:   "hello there",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.SessionId)
	assert.Equal(t, "assistant says hi", res.Message.Content)
	assert.Equal(t, entity.ChatMessageRoleAssistant, res.Message.Role)

	uow := f.store.Factory().NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAllBySession(ctx, res.SessionId)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, entity.ChatMessageRoleUser, messages[0].Role)
	assert.Equal(t, "hello there", messages[0].Content)
	assert.Equal(t, entity.ChatMessageRoleAssistant, messages[1].Role)
	assert.Equal(t, "assistant says hi", messages[1].Content)

	session, err := uow.ChatSessionRepository().FindOneById(ctx, res.SessionId)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, f.projectId, session.ProjectId)
	assert.Equal(t, f.userId, session.UserId)
}

func TestSendChatRequiresProjectIdWithoutSession(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.svc.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		Message: "hello",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Equal(t, 0, f.provider.chatCalls)
}

func TestSendChatContinuesExistingSession(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session := f.seedSession(t, f.userId)

	res, err := f.svc.SendChat(ctx, f.userId, &dto.SendChatRequest{
		SessionId: &session.Id,
		Message:   "continue please",
	})

	require.NoError(t, err)
	assert.Equal(t, session.Id, res.SessionId)
}

func TestSendChatHistoryWindow(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session := f.seedSession(t, f.userId)
	f.seedMessages(t, session.Id, 15)

	_, err := f.svc.SendChat(ctx, f.userId, &dto.SendChatRequest{
		SessionId: &session.Id,
		Message:   "what next?",
	})
	require.NoError(t, err)

	// Exactly the 10 most recent prior messages, oldest first.
	require.Len(t, f.provider.lastHistory, 10)
	assert.Equal(t, "message "+string(rune('a'+5)), f.provider.lastHistory[0].Content)
	assert.Equal(t, "message "+string(rune('a'+14)), f.provider.lastHistory[9].Content)

	// The new user message travels separately, not inside the window.
	assert.Equal(t, "what next?", f.provider.lastMessage)
	for _, m := range f.provider.lastHistory {
		assert.NotEqual(t, "what next?", m.Content)
	}
}

func TestSendChatProviderFailureStillPersistsTurn(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	f.provider.chatErr = errors.New("model unavailable")

	res, err := f.svc.SendChat(ctx, f.userId, &dto.SendChatRequest{
		ProjectId: &f.projectId,
		Message:   "hello",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, res.Message.Content)
	assert.Contains(t, res.Message.Content, "model unavailable")

	uow := f.store.Factory().NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAllBySession(ctx, res.SessionId)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.NotEmpty(t, messages[1].Content)
	assert.Equal(t, true, messages[1].Metadata["degraded"])
}

func TestSendChatRejectsForeignSession(t *testing.T) {
	f := newChatFixture(t)
	otherUser := uuid.New()
	session := f.seedSession(t, otherUser)

	_, err := f.svc.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		SessionId: &session.Id,
		Message:   "hello",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.Equal(t, 0, f.provider.chatCalls)
}

func TestSendChatRejectsForeignProject(t *testing.T) {
	f := newChatFixture(t)
	foreignProject := uuid.New()

	_, err := f.svc.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		ProjectId: &foreignProject,
		Message:   "hello",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestHistoryReturnsAscendingOrder(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session := f.seedSession(t, f.userId)
	f.seedMessages(t, session.Id, 4)

	res, err := f.svc.History(ctx, f.userId, session.Id)

	require.NoError(t, err)
	require.Len(t, res.Messages, 4)
	for i := 1; i < len(res.Messages); i++ {
		assert.False(t, res.Messages[i].CreatedAt.Before(res.Messages[i-1].CreatedAt))
	}

	// Reading again with no intervening writes yields identical output.
	again, err := f.svc.History(ctx, f.userId, session.Id)
	require.NoError(t, err)
	assert.Equal(t, res.Messages, again.Messages)
}

func TestHistoryRejectsForeignSession(t *testing.T) {
	f := newChatFixture(t)
	session := f.seedSession(t, uuid.New())

	_, err := f.svc.History(context.Background(), f.userId, session.Id)

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestListSessionsFiltersByProject(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	f.seedSession(t, f.userId)
	f.seedSession(t, f.userId)

	res, err := f.svc.ListSessions(ctx, f.userId, &f.projectId)
	require.NoError(t, err)
	assert.Len(t, res.Sessions, 2)

	all, err := f.svc.ListSessions(ctx, f.userId, nil)
	require.NoError(t, err)
	assert.Len(t, all.Sessions, 2)
}

func TestDeleteSessionRemovesMessages(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session := f.seedSession(t, f.userId)
	f.seedMessages(t, session.Id, 4)

	require.NoError(t, f.svc.DeleteSession(ctx, f.userId, session.Id))

	uow := f.store.Factory().NewUnitOfWork(ctx)
	remaining, err := uow.ChatSessionRepository().FindOneById(ctx, session.Id)
	require.NoError(t, err)
	assert.Nil(t, remaining)

	count, err := uow.ChatMessageRepository().CountBySession(ctx, session.Id)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateSessionRequiresOwnedProject(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	title := "planning"
	res, err := f.svc.CreateSession(ctx, f.userId, &dto.CreateChatSessionRequest{
		ProjectId: f.projectId,
		Title:     &title,
		Context:   map[string]interface{}{"page": "home"},
	})
	require.NoError(t, err)
	assert.Equal(t, "planning", res.Title)
	assert.Equal(t, f.projectId, res.ProjectId)

	foreign := uuid.New()
	_, err = f.svc.CreateSession(ctx, f.userId, &dto.CreateChatSessionRequest{ProjectId: foreign})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCreateSessionDefaultsTitle(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	res, err := f.svc.CreateSession(ctx, f.userId, &dto.CreateChatSessionRequest{ProjectId: f.projectId})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSessionTitle, res.Title)
}

func TestShowSessionHidesForeign(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session := f.seedSession(t, f.userId)

	res, err := f.svc.ShowSession(ctx, f.userId, session.Id)
	require.NoError(t, err)
	assert.Equal(t, session.Id, res.Id)

	_, err = f.svc.ShowSession(ctx, uuid.New(), session.Id)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUpdateSessionAppliesOnlyPresentFields(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session := f.seedSession(t, f.userId)

	res, err := f.svc.UpdateSession(ctx, f.userId, &dto.UpdateChatSessionRequest{
		Id:    session.Id,
		Title: optional.Of("renamed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", res.Title)

	res, err = f.svc.UpdateSession(ctx, f.userId, &dto.UpdateChatSessionRequest{
		Id:      session.Id,
		Context: optional.Of(map[string]interface{}{"focus": "auth"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", res.Title)
	assert.Equal(t, "auth", res.Context["focus"])

	_, err = f.svc.UpdateSession(ctx, f.userId, &dto.UpdateChatSessionRequest{
		Id:    session.Id,
		Title: optional.Of(""),
	})
	require.Error(t, err)
}

func TestAppendMessageValidatesRoleAndOwnership(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session := f.seedSession(t, f.userId)

	res, err := f.svc.AppendMessage(ctx, f.userId, &dto.CreateChatMessageRequest{
		SessionId: session.Id,
		Role:      entity.ChatMessageRoleSystem,
		Content:   "stay concise",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ChatMessageRoleSystem, res.Role)

	_, err = f.svc.AppendMessage(ctx, f.userId, &dto.CreateChatMessageRequest{
		SessionId: session.Id,
		Role:      "moderator",
		Content:   "nope",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = f.svc.AppendMessage(ctx, uuid.New(), &dto.CreateChatMessageRequest{
		SessionId: session.Id,
		Role:      entity.ChatMessageRoleUser,
		Content:   "hello",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
