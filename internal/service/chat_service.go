package service

import (
	"context"
	"encoding/json"
	"time"

	"kidvibe-be/internal/apperrors"
	"kidvibe-be/internal/config"
	"kidvibe-be/internal/dto"
	"kidvibe-be/internal/entity"
	"kidvibe-be/internal/guard"
	"kidvibe-be/internal/pkg/logger"
	"kidvibe-be/internal/pkg/ratelimit"
	"kidvibe-be/internal/repository/unitofwork"
	"kidvibe-be/pkg/ai"
	"kidvibe-be/pkg/events"
	pktNats "kidvibe-be/pkg/nats"

	"github.com/google/uuid"
)

// providerTimeout bounds the single slow operation in a chat turn. A
// timeout is treated like any other provider failure.
const providerTimeout = 120 * time.Second

type IChatService interface {
	SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateChatSessionRequest) (*dto.ChatSessionResponse, error)
	ListSessions(ctx context.Context, userId uuid.UUID, projectId *uuid.UUID) (*dto.ListChatSessionsResponse, error)
	ShowSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.ChatSessionResponse, error)
	UpdateSession(ctx context.Context, userId uuid.UUID, req *dto.UpdateChatSessionRequest) (*dto.ChatSessionResponse, error)
	DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error
	AppendMessage(ctx context.Context, userId uuid.UUID, req *dto.CreateChatMessageRequest) (*dto.ChatMessageResponse, error)
	History(ctx context.Context, userId, sessionId uuid.UUID) (*dto.ChatHistoryResponse, error)
}

// ChatTurnMessage is the payload published to the internal bus after a
// completed turn. The consumer derives session titles from it.
type ChatTurnMessage struct {
	SessionId   uuid.UUID `json:"session_id"`
	UserId      uuid.UUID `json:"user_id"`
	UserMessage string    `json:"user_message"`
	Degraded    bool      `json:"degraded"`
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	ownership        *guard.Guard
	provider         ai.Provider
	limiter          *ratelimit.Limiter
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	log              logger.ILogger
	chatCfg          *config.ChatConfig
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	ownership *guard.Guard,
	provider ai.Provider,
	limiter *ratelimit.Limiter,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	chatCfg *config.ChatConfig,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		ownership:        ownership,
		provider:         provider,
		limiter:          limiter,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
		chatCfg:          chatCfg,
	}
}

// SendChat runs one conversation turn: resolve or create the session,
// assemble the bounded history window, call the provider, and persist
// both messages in one transaction. Provider failures degrade into a
// persisted failure-description message; the turn itself still succeeds.
func (s *chatService) SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	if !s.limiter.Allow(ctx, userId) {
		return nil, apperrors.TooManyRequests("daily chat limit reached")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperrors.Internal("failed to begin transaction", err)
	}
	defer uow.Rollback()

	session, err := s.resolveSession(ctx, uow, userId, req)
	if err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}

	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          entity.ChatMessageRoleUser,
		Content:       req.Message,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, apperrors.Internal("failed to persist user message", err)
	}

	// The just-added user message is not part of the history window; it
	// travels separately as the new message.
	reply, degraded := s.generate(ctx, req.Message, history)

	assistantMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          entity.ChatMessageRoleAssistant,
		Content:       reply,
		CreatedAt:     time.Now(),
	}
	if degraded {
		assistantMessage.Metadata = map[string]interface{}{"degraded": true}
	}
	if err := uow.ChatMessageRepository().Create(ctx, &assistantMessage); err != nil {
		return nil, apperrors.Internal("failed to persist assistant message", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperrors.Internal("failed to commit chat turn", err)
	}

	s.publishTurn(ctx, session, userId, req.Message, degraded)

	return &dto.SendChatResponse{
		SessionId: session.Id,
		Message:   *messageToResponse(&assistantMessage),
	}, nil
}

// resolveSession returns the owned session for the request, creating one
// when no session id is supplied. Creating a session requires an explicit
// project id; there is no fallback project.
func (s *chatService) resolveSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, req *dto.SendChatRequest) (*entity.ChatSession, error) {
	if req.SessionId != nil {
		return s.ownership.EnsureSessionOwned(ctx, uow, *req.SessionId, userId)
	}

	if req.ProjectId == nil {
		return nil, apperrors.Validation("project_id is required when session_id is absent")
	}
	if _, err := s.ownership.EnsureProjectOwned(ctx, uow, *req.ProjectId, userId); err != nil {
		return nil, err
	}

	session := entity.ChatSession{
		Id:        uuid.New(),
		ProjectId: *req.ProjectId,
		UserId:    userId,
		Title:     entity.DefaultSessionTitle,
		Context:   req.Context,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, apperrors.Internal("failed to create chat session", err)
	}
	return &session, nil
}

// CreateSession creates a session explicitly, bound to an owned project.
func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateChatSessionRequest) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownership.EnsureProjectOwned(ctx, uow, req.ProjectId, userId); err != nil {
		return nil, err
	}

	title := entity.DefaultSessionTitle
	if req.Title != nil && *req.Title != "" {
		title = *req.Title
	}

	session := entity.ChatSession{
		Id:        uuid.New(),
		ProjectId: req.ProjectId,
		UserId:    userId,
		Title:     title,
		Context:   req.Context,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, apperrors.Internal("failed to create chat session", err)
	}
	return sessionToResponse(&session), nil
}

func (s *chatService) ShowSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.ownership.EnsureSessionOwned(ctx, uow, sessionId, userId)
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *chatService) UpdateSession(ctx context.Context, userId uuid.UUID, req *dto.UpdateChatSessionRequest) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.ownership.EnsureSessionOwned(ctx, uow, req.Id, userId)
	if err != nil {
		return nil, err
	}

	if title, ok := req.Title.Get(); ok {
		if title == "" {
			return nil, apperrors.Validation("title cannot be empty")
		}
		session.Title = title
	}
	if req.Context.Set {
		if blob, ok := req.Context.Get(); ok {
			session.Context = blob
		} else {
			session.Context = nil
		}
	}

	now := time.Now()
	session.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, apperrors.Internal("failed to update chat session", err)
	}
	return sessionToResponse(session), nil
}

// AppendMessage adds a message to an owned session without invoking the
// provider. The sequence stays append-only; there is no update path.
func (s *chatService) AppendMessage(ctx context.Context, userId uuid.UUID, req *dto.CreateChatMessageRequest) (*dto.ChatMessageResponse, error) {
	if !entity.ValidChatMessageRole(req.Role) {
		return nil, apperrors.Validation("invalid message role")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.ownership.EnsureSessionOwned(ctx, uow, req.SessionId, userId)
	if err != nil {
		return nil, err
	}

	message := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          req.Role,
		Content:       req.Content,
		Metadata:      req.Metadata,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &message); err != nil {
		return nil, apperrors.Internal("failed to persist message", err)
	}
	return messageToResponse(&message), nil
}

// loadHistory fetches the most recent window of messages and returns it
// in ascending creation order.
func (s *chatService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]ai.Message, error) {
	recent, err := uow.ChatMessageRepository().FindRecentBySession(ctx, sessionId, s.chatCfg.HistoryWindow)
	if err != nil {
		return nil, apperrors.Internal("failed to load chat history", err)
	}

	// recent is newest first; the provider wants oldest first.
	history := make([]ai.Message, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		history = append(history, ai.Message{
			Role:    recent[i].Role,
			Content: recent[i].Content,
		})
	}
	return history, nil
}

// generate calls the provider under a bounded timeout. Any error becomes
// a persistable failure-description string.
func (s *chatService) generate(ctx context.Context, message string, history []ai.Message) (string, bool) {
	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	reply, err := s.provider.Chat(callCtx, message, history)
	if err != nil {
		s.log.Warn("chat", "provider failed, degrading turn", map[string]interface{}{
			"error": err.Error(),
		})
		return "AI response generation failed: " + err.Error(), true
	}
	return reply, false
}

func (s *chatService) ListSessions(ctx context.Context, userId uuid.UUID, projectId *uuid.UUID) (*dto.ListChatSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var (
		sessions []*entity.ChatSession
		err      error
	)
	if projectId != nil {
		if _, err := s.ownership.EnsureProjectOwned(ctx, uow, *projectId, userId); err != nil {
			return nil, err
		}
		sessions, err = uow.ChatSessionRepository().FindAllByUserAndProject(ctx, userId, *projectId)
	} else {
		sessions, err = uow.ChatSessionRepository().FindAllByUser(ctx, userId)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to list chat sessions", err)
	}

	res := &dto.ListChatSessionsResponse{
		Sessions: make([]dto.ChatSessionResponse, 0, len(sessions)),
	}
	for _, session := range sessions {
		res.Sessions = append(res.Sessions, *sessionToResponse(session))
	}
	return res, nil
}

func (s *chatService) History(ctx context.Context, userId, sessionId uuid.UUID) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.ownership.EnsureSessionOwned(ctx, uow, sessionId, userId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAllBySession(ctx, sessionId)
	if err != nil {
		return nil, apperrors.Internal("failed to load chat history", err)
	}

	res := &dto.ChatHistoryResponse{
		Session:  *sessionToResponse(session),
		Messages: make([]dto.ChatMessageResponse, 0, len(messages)),
	}
	for _, msg := range messages {
		res.Messages = append(res.Messages, *messageToResponse(msg))
	}
	return res, nil
}

func (s *chatService) DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperrors.Internal("failed to begin transaction", err)
	}
	defer uow.Rollback()

	session, err := s.ownership.EnsureSessionOwned(ctx, uow, sessionId, userId)
	if err != nil {
		return err
	}

	if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, session.Id); err != nil {
		return apperrors.Internal("failed to delete chat messages", err)
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return apperrors.Internal("failed to delete chat session", err)
	}

	if err := uow.Commit(); err != nil {
		return apperrors.Internal("failed to commit session delete", err)
	}
	return nil
}

// publishTurn notifies the internal bus and the audit bus after a
// committed turn. Neither failure affects the response.
func (s *chatService) publishTurn(ctx context.Context, session *entity.ChatSession, userId uuid.UUID, userMessage string, degraded bool) {
	payload, err := json.Marshal(ChatTurnMessage{
		SessionId:   session.Id,
		UserId:      userId,
		UserMessage: userMessage,
		Degraded:    degraded,
	})
	if err == nil {
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.log.Warn("chat", "failed to publish turn message", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewChatTurnCompleted(session.Id.String(), userId.String(), degraded)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("chat", "failed to publish audit event", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		}
	}
}

func sessionToResponse(session *entity.ChatSession) *dto.ChatSessionResponse {
	return &dto.ChatSessionResponse{
		Id:        session.Id,
		ProjectId: session.ProjectId,
		Title:     session.Title,
		Context:   session.Context,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func messageToResponse(message *entity.ChatMessage) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		Id:        message.Id,
		Role:      message.Role,
		Content:   message.Content,
		Metadata:  message.Metadata,
		CreatedAt: message.CreatedAt,
	}
}
