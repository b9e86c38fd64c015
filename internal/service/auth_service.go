package service

import (
	"context"
	"time"

	"kidvibe-be/internal/apperrors"
	"kidvibe-be/internal/dto"
	"kidvibe-be/internal/entity"
	"kidvibe-be/internal/pkg/credentials"
	"kidvibe-be/internal/pkg/logger"
	"kidvibe-be/internal/repository/unitofwork"
	"kidvibe-be/pkg/events"
	pktNats "kidvibe-be/pkg/nats"

	"github.com/google/uuid"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, userId uuid.UUID) (*dto.MeResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	creds          *credentials.Service
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	creds *credentials.Service,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		creds:          creds,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOneByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Internal("failed to check existing user", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("email already registered")
	}

	hash, err := s.creds.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, &user); err != nil {
		return nil, apperrors.Internal("failed to create user", err)
	}

	s.publishEvent(ctx, events.NewUserRegistered(user.Id.String(), user.Email))

	return &dto.RegisterResponse{
		Id:       user.Id,
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOneByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	// Same failure for unknown email and wrong password.
	if user == nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	if err := s.creds.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("account is inactive")
	}

	token, expiresAt, err := s.creds.IssueToken(user.Id)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}

	s.publishEvent(ctx, events.NewUserLoggedIn(user.Id.String()))

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.MeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOneById(ctx, userId)
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}

	return &dto.MeResponse{
		Id:        user.Id,
		Email:     user.Email,
		Username:  user.Username,
		FullName:  user.FullName,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}, nil
}

// publishEvent sends an audit event; the bus being down never fails the
// request.
func (s *authService) publishEvent(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("auth", "failed to publish event", map[string]interface{}{
			"event_type": evt.EventType(),
			"error":      err.Error(),
		})
	}
}
