package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/moodtune/internal/services"
)

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := handler.userService.List()
	if err != nil {
		return respondError(c, err)
	}
	payload := make([]managedUserPayload, 0, len(users))
	for _, user := range users {
		payload = append(payload, buildManagedUserPayload(user))
	}
	return c.JSON(payload)
}

func (handler *Handler) GetUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	user, err := handler.userService.Get(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildManagedUserPayload(user))
}

// UpdateUser overlays the body on the current account, so PUT and PATCH
// both leave omitted fields unchanged.
func (handler *Handler) UpdateUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	current, err := handler.userService.Get(userID)
	if err != nil {
		return respondError(c, err)
	}

	input := services.UserUpdateInputFrom(current)
	if err := decodeJSON(c, &input); err != nil {
		return respondError(c, err)
	}
	user, err := handler.userService.Update(userID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildManagedUserPayload(user))
}
