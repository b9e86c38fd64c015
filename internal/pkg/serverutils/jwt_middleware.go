package serverutils

import (
	"strings"

	"kidvibe-be/internal/pkg/credentials"
	"kidvibe-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
)

// NewJwtMiddleware builds the auth middleware around an explicit
// credential service. A valid signature is not enough: the claim must
// resolve to a stored, active user, so deactivated accounts lose access
// immediately rather than at token expiry. On success the authenticated
// user id is stored in Locals under "user_id" as a string.
func NewJwtMiddleware(creds *credentials.Service, uowFactory unitofwork.RepositoryFactory) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(ctx, "Missing token")
		}

		userId, err := creds.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return unauthorized(ctx, "Invalid token")
		}

		uow := uowFactory.NewUnitOfWork(ctx.Context())
		user, err := uow.UserRepository().FindOneById(ctx.Context(), userId)
		if err != nil {
			return err
		}
		if user == nil || !user.IsActive {
			return unauthorized(ctx, "Inactive or unknown user")
		}

		ctx.Locals("user_id", userId.String())
		return ctx.Next()
	}
}

func unauthorized(ctx *fiber.Ctx, message string) error {
	ctx.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, message))
}
