package handlers

import (
	"errors"
	"log/slog"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/polito-log/backend/internal/dto"
	"github.com/polito-log/backend/internal/middleware"
	"github.com/polito-log/backend/internal/validator"
)

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func validationFailed(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
		Error: true, Message: "Validation failed", Fields: fields,
	})
}

// bind parses the JSON body into req and validates it. When ok is false the
// error reply has already been written.
func bind(c *fiber.Ctx, v *validator.Validator, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	return check(c, v, req)
}

func bindQuery(c *fiber.Ctx, v *validator.Validator, req interface{}) (bool, error) {
	if err := c.QueryParser(req); err != nil {
		return false, errorJSON(c, fiber.StatusBadRequest, "Invalid query parameters")
	}
	return check(c, v, req)
}

func check(c *fiber.Ctx, v *validator.Validator, req interface{}) (bool, error) {
	err := v.Validate(req)
	if err == nil {
		return true, nil
	}
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return false, validationFailed(c, verr.Errors)
	}
	return false, errorJSON(c, fiber.StatusBadRequest, "Invalid request")
}

// internalError logs and reports err, then hides it behind a generic 500.
func internalError(c *fiber.Ctx, err error) error {
	attrs := []any{
		"error", err,
		"method", c.Method(),
		"path", c.Path(),
	}
	if id, ok := c.Locals("requestid").(string); ok {
		attrs = append(attrs, "request_id", id)
	}
	if user := middleware.CurrentUser(c); user != nil {
		attrs = append(attrs, "user_id", user.ID.String())
	}
	slog.ErrorContext(c.UserContext(), "request failed", attrs...)

	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}

	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}
