package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/moodtune/internal/logging"
	"github.com/terraincognita07/moodtune/internal/services"
	"github.com/terraincognita07/moodtune/internal/validation"
)

const (
	defaultListLimit = 5
	maxListLimit     = 100
)

var errInvalidBody = errors.New("invalid request body")

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondError maps a service error onto its HTTP status. Unknown errors are
// logged and reported as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *validation.Error
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  validationErr.Error(),
			"fields": validationErr.Fields(),
		})
	case errors.Is(err, errInvalidBody):
		return apiError(c, fiber.StatusBadRequest, errInvalidBody.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	case errors.Is(err, services.ErrNotFound):
		return apiError(c, fiber.StatusNotFound, "not found")
	default:
		logging.Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
		return apiError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads the request body into target. An empty body leaves target untouched.
func decodeJSON(c *fiber.Ctx, target any) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errInvalidBody
	}
	return nil
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, services.ErrNotFound
	}
	return uint(value), nil
}

// parseLimit reads ?limit=, defaulting to 5 and accepting 1..100.
func parseLimit(c *fiber.Ctx) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return defaultListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxListLimit {
		return 0, validation.FieldError("limit", "limit must be an integer between 1 and 100")
	}
	return limit, nil
}

func isPartialUpdate(c *fiber.Ctx) bool {
	return c.Method() == fiber.MethodPatch
}
