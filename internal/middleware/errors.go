package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/corebank/corebank/internal/domain"
)

// errValidationWritten marks a request whose 400 response body was already
// written by ParseAndValidate.
var errValidationWritten = errors.New("validation response written")

// StatusFor maps a service error to an HTTP status code.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidLogin),
		errors.Is(err, domain.ErrBalanceOverflow),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrLastAccount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientFunds), errors.Is(err, domain.ErrLoginConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders handler errors as JSON bodies with the mapped status.
// Internal failures are logged and their message is not exposed.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if errors.Is(err, errValidationWritten) {
			return nil
		}
		status := StatusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			logger.Error("request failed", slog.String("path", c.Path()), slog.Any("error", err))
			msg = "internal server error"
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
}
