package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

// retryAfterSeconds is advertised when the geography store is down.
const retryAfterSeconds = 5

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, store_unavailable, ...
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errUnavailable returns a 503 error with a Retry-After hint.
func errUnavailable(c *fiber.Ctx, msg string) error {
	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
	return newError(c, fiber.StatusServiceUnavailable, "store_unavailable", msg)
}

// errTimeout returns a 504 error.
func errTimeout(c *fiber.Ctx) error {
	return newError(c, fiber.StatusGatewayTimeout, "timeout", "request took too long")
}

// writeServiceError maps a service error to its HTTP response.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case domain.IsClientError(err):
		return errBadRequest(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return errTimeout(c)
	case errors.Is(err, domain.ErrStoreUnavailable):
		LoggerFromCtx(c.UserContext()).Error("store unavailable", "path", c.Path(), "error", err)
		return errUnavailable(c, "geography data is temporarily unavailable")
	default:
		LoggerFromCtx(c.UserContext()).Error("unhandled error", "path", c.Path(), "error", err)
		return errInternal(c, "internal error")
	}
}
