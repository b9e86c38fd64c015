package serverutils

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"kidvibe-be/internal/config"
	"kidvibe-be/internal/entity"
	"kidvibe-be/internal/pkg/credentials"
	"kidvibe-be/internal/repository/memory"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestApp(t *testing.T) (*fiber.App, *credentials.Service, *memory.Store) {
	t.Helper()

	creds := credentials.NewService(&config.AuthConfig{
		JwtSecret:         "test-secret",
		JwtExpiresMinutes: 30,
	})
	store := memory.NewStore()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/protected", NewJwtMiddleware(creds, store.Factory()), func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	})
	return app, creds, store
}

func seedAuthUser(t *testing.T, store *memory.Store, active bool) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	user := entity.User{
		Id:        uuid.New(),
		Email:     "member@example.com",
		Username:  "member",
		IsActive:  active,
		CreatedAt: time.Now(),
	}
	uow := store.Factory().NewUnitOfWork(ctx)
	require.NoError(t, uow.UserRepository().Create(ctx, &user))
	return user.Id
}

func TestJwtMiddlewareAdmitsActiveUser(t *testing.T) {
	app, creds, store := newAuthTestApp(t)
	userId := seedAuthUser(t, store, true)

	token, _, err := creds.IssueToken(userId)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestJwtMiddlewareRejectsUnknownUser(t *testing.T) {
	app, creds, _ := newAuthTestApp(t)

	// Valid signature, but the claim resolves to no stored user.
	token, _, err := creds.IssueToken(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Bearer", res.Header.Get(fiber.HeaderWWWAuthenticate))
}

func TestJwtMiddlewareRejectsInactiveUser(t *testing.T) {
	app, creds, store := newAuthTestApp(t)
	userId := seedAuthUser(t, store, false)

	token, _, err := creds.IssueToken(userId)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestJwtMiddlewareRejectsMissingAndMalformedTokens(t *testing.T) {
	app, _, _ := newAuthTestApp(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}
