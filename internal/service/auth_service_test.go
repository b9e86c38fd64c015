package service

import (
	"context"
	"testing"

	"kidvibe-be/internal/apperrors"
	"kidvibe-be/internal/config"
	"kidvibe-be/internal/dto"
	"kidvibe-be/internal/pkg/credentials"
	"kidvibe-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() IAuthService {
	store := memory.NewStore()
	creds := credentials.NewService(&config.AuthConfig{
		JwtSecret:         "test-secret",
		JwtExpiresMinutes: 30,
	})
	return NewAuthService(store.Factory(), creds, nil, noopLogger{})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "dev@example.com",
		Username: "dev",
		Password: "super-secret-1",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, registered.Id)

	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "dev@example.com",
		Password: "super-secret-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "bearer", login.TokenType)

	me, err := svc.Me(ctx, registered.Id)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", me.Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	req := &dto.RegisterRequest{Email: "dev@example.com", Username: "dev", Password: "super-secret-1"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "dev@example.com",
		Username: "dev",
		Password: "super-secret-1",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "dev@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	// Unknown email reports the same failure as a wrong password.
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "super-secret-1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestMeUnknownUser(t *testing.T) {
	svc := newAuthService()

	_, err := svc.Me(context.Background(), uuid.New())

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
