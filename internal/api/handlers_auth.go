package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/moodtune/internal/logging"
	"github.com/terraincognita07/moodtune/internal/services"
)

type signupInput struct {
	Email           string `json:"email" validate:"required"`
	Username        string `json:"username"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type adminLoginInput struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

func (handler *Handler) Signup(c *fiber.Ctx) error {
	var input signupInput
	if err := decodeJSON(c, &input); err != nil {
		return respondError(c, err)
	}
	if err := validateInput(input); err != nil {
		return respondError(c, err)
	}

	result, err := handler.authService.Signup(services.SignupInput{
		Email:           input.Email,
		Username:        input.Username,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(authPayload{
		User:  buildUserPayload(result.User),
		Token: result.Token,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := decodeJSON(c, &input); err != nil {
		return respondError(c, err)
	}
	if err := validateInput(input); err != nil {
		return respondError(c, err)
	}

	result, err := handler.authService.Login(input.Email, input.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return apiError(c, fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrUseAdminEndpoint):
		return apiError(c, fiber.StatusForbidden, "Admin users must use the admin login endpoint")
	case err != nil:
		return respondError(c, err)
	}

	return c.JSON(authPayload{
		User:  buildUserPayload(result.User),
		Token: result.Token,
	})
}

// AdminLogin authenticates superusers by case-insensitive username. Repeated
// failures from one client are throttled.
func (handler *Handler) AdminLogin(c *fiber.Ctx) error {
	limiterKey := clientKey(c)
	now := handler.now()
	if handler.adminLoginLimiter.blocked(limiterKey, now, adminLoginFailureLimit, adminLoginFailureWindow) {
		logging.Warn().Str("ip", limiterKey).Msg("admin login throttled")
		return apiError(c, fiber.StatusTooManyRequests, "Too many failed login attempts. Try again later.")
	}

	var input adminLoginInput
	if err := decodeJSON(c, &input); err != nil {
		return respondError(c, err)
	}
	if err := validateInput(input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "Please provide both username and password")
	}

	result, err := handler.authService.AdminLogin(strings.TrimSpace(input.Username), input.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		handler.adminLoginLimiter.recordFailure(limiterKey, now, adminLoginFailureWindow)
		return apiError(c, fiber.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, services.ErrNotAuthorized):
		handler.adminLoginLimiter.recordFailure(limiterKey, now, adminLoginFailureWindow)
		return apiError(c, fiber.StatusForbidden, "Only admin users can login here")
	case err != nil:
		return respondError(c, err)
	}

	handler.adminLoginLimiter.reset(limiterKey)
	return c.JSON(adminAuthPayload{
		Message: "Login successful",
		User: adminUserPayload{
			userPayload: buildUserPayload(result.User),
			IsSuperuser: result.User.IsSuperuser,
		},
		Token: result.Token,
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}
	if err := handler.authService.Logout(user.ID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}
	return c.JSON(buildUserPayload(*user))
}
