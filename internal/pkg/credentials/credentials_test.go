package credentials

import (
	"testing"

	"kidvibe-be/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(&config.AuthConfig{
		JwtSecret:         "test-secret",
		JwtExpiresMinutes: 30,
	})
}

func TestHashAndVerifyPassword(t *testing.T) {
	svc := newTestService()

	hash, err := svc.HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.NoError(t, svc.VerifyPassword(hash, "s3cret-password"))
	assert.Error(t, svc.VerifyPassword(hash, "wrong-password"))
}

func TestIssueAndParseToken(t *testing.T) {
	svc := newTestService()
	userId := uuid.New()

	token, expiresAt, err := svc.IssueToken(userId)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	parsedId, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userId, parsedId)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := newTestService()
	verifier := NewService(&config.AuthConfig{
		JwtSecret:         "different-secret",
		JwtExpiresMinutes: 30,
	})

	token, _, err := issuer.IssueToken(uuid.New())
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc := newTestService()

	_, err := svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
