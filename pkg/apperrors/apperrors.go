// Package apperrors defines the error taxonomy shared by services and
// handlers and the single boundary that translates errors into HTTP
// responses.
package apperrors

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindInternal
)

// AppError is a known, expected failure constructed at the point of
// detection. Bare errors render as {"error": msg}; everything else as
// {"success": false, "message": msg}, matching the API contract.
type AppError struct {
	Kind    Kind
	Message string
	Bare    bool
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindAuthentication:
		return fiber.StatusUnauthorized
	case KindAuthorization:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func Validation(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func Authentication(msg string) *AppError {
	return &AppError{Kind: KindAuthentication, Message: msg}
}

func Authorization(msg string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: msg}
}

func NotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

// BareValidation and BareNotFound render with the {"error": msg} body used
// by the post endpoints.
func BareValidation(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg, Bare: true}
}

func BareNotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg, Bare: true}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "Erro interno do servidor", Err: err}
}

// Handler is the Fiber error handler: the only place errors become HTTP
// responses. Unexpected errors are logged and surfaced as a generic 500
// with no internal detail.
func Handler(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Kind == KindInternal {
			log.Printf("[API] erro interno: %v", appErr)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "message": appErr.Message,
			})
		}
		if appErr.Bare {
			return c.Status(appErr.Status()).JSON(fiber.Map{"error": appErr.Message})
		}
		return c.Status(appErr.Status()).JSON(fiber.Map{
			"success": false, "message": appErr.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false, "message": fiberErr.Message,
		})
	}

	log.Printf("[API] erro inesperado: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false, "message": "Erro interno do servidor",
	})
}
