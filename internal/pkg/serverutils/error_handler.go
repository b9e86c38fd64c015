package serverutils

import (
	"errors"

	"kidvibe-be/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler maps service errors onto HTTP statuses. It is installed as
// the fiber app's ErrorHandler so controllers can just return errors.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status := statusForKind(appErr.Kind)
		if status == fiber.StatusUnauthorized {
			ctx.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		message := appErr.Message
		if appErr.Kind == apperrors.KindInternal {
			// Internal details stay in the logs.
			message = "internal server error"
		}
		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	return ctx.Status(fiber.StatusInternalServerError).
		JSON(ErrorResponse(fiber.StatusInternalServerError, "internal server error"))
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindTooManyRequests:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
