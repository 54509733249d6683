package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/terraincognita07/moodtune/internal/logging"
	"github.com/terraincognita07/moodtune/internal/metrics"
	"github.com/terraincognita07/moodtune/internal/models"
)

const contextUserKey = "current_user"

var authorizationSchemes = []string{"Token ", "Bearer "}

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok && user != nil
}

// tokenFromRequest extracts the key from "Authorization: Token <key>" or
// "Authorization: Bearer <key>".
func tokenFromRequest(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	for _, scheme := range authorizationSchemes {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	rawToken := tokenFromRequest(c)
	if rawToken == "" {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}

	user, err := handler.authService.Authenticate(rawToken)
	if err != nil {
		return respondError(c, err)
	}

	c.Locals(contextUserKey, &user)
	return c.Next()
}

// StaffOnly must run after AuthRequired.
func (handler *Handler) StaffOnly(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}
	if !user.HasStaffAccess() {
		return apiError(c, fiber.StatusForbidden, "staff access required")
	}
	return c.Next()
}

// AccessLog writes one zerolog line per request and feeds the HTTP metrics.
func AccessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if err != nil {
		if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	duration := time.Since(start)
	metrics.RecordHTTPRequest(c.Method(), status, duration)

	event := logging.Info()
	if status >= fiber.StatusInternalServerError {
		event = logging.Error()
	}
	event.
		Str("request_id", requestID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", duration).
		Str("ip", c.IP()).
		Msg("http request")
	return nil
}

func requestID(c *fiber.Ctx) string {
	if value, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return value
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
