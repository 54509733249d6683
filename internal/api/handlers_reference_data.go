package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/moodtune/internal/services"
)

func (handler *Handler) ListMoods(c *fiber.Ctx) error {
	moods, err := handler.moodService.List()
	if err != nil {
		return respondError(c, err)
	}
	payload := make([]moodPayload, 0, len(moods))
	for _, mood := range moods {
		payload = append(payload, buildMoodPayload(mood))
	}
	return c.JSON(payload)
}

func (handler *Handler) GetMood(c *fiber.Ctx) error {
	mood, err := handler.moodService.Get(c.Params("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildMoodPayload(mood))
}

func (handler *Handler) CreateMood(c *fiber.Ctx) error {
	var input services.MoodInput
	if err := decodeJSON(c, &input); err != nil {
		return respondError(c, err)
	}
	mood, err := handler.moodService.Create(input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(buildMoodPayload(mood))
}

func (handler *Handler) UpdateMood(c *fiber.Ctx) error {
	name := c.Params("name")
	input := services.MoodInput{}
	if isPartialUpdate(c) {
		input.Name = name
	}
	if err := decodeJSON(c, &input); err != nil {
		return respondError(c, err)
	}
	mood, err := handler.moodService.Rename(name, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildMoodPayload(mood))
}

func (handler *Handler) DeleteMood(c *fiber.Ctx) error {
	if err := handler.moodService.Delete(c.Params("name")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) ListSuggestions(c *fiber.Ctx) error {
	suggestions, err := handler.suggestionService.List()
	if err != nil {
		return respondError(c, err)
	}
	payload := make([]suggestionPayload, 0, len(suggestions))
	for _, suggestion := range suggestions {
		payload = append(payload, buildSuggestionPayload(suggestion))
	}
	return c.JSON(payload)
}

func (handler *Handler) GetSuggestion(c *fiber.Ctx) error {
	suggestion, err := handler.suggestionService.Get(strings.TrimSpace(c.Params("mood")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildSuggestionPayload(suggestion))
}

func (handler *Handler) CreateSuggestion(c *fiber.Ctx) error {
	var input services.SuggestionInput
	if err := decodeJSON(c, &input); err != nil {
		return respondError(c, err)
	}
	suggestion, err := handler.suggestionService.Create(input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(buildSuggestionPayload(suggestion))
}

func (handler *Handler) UpdateSuggestion(c *fiber.Ctx) error {
	mood := strings.TrimSpace(c.Params("mood"))
	input := services.SuggestionInput{}
	if isPartialUpdate(c) {
		current, err := handler.suggestionService.Get(mood)
		if err != nil {
			return respondError(c, err)
		}
		input = services.SuggestionInputFrom(current)
	}
	if err := decodeJSON(c, &input); err != nil {
		return respondError(c, err)
	}
	suggestion, err := handler.suggestionService.Update(mood, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildSuggestionPayload(suggestion))
}

func (handler *Handler) DeleteSuggestion(c *fiber.Ctx) error {
	if err := handler.suggestionService.Delete(strings.TrimSpace(c.Params("mood"))); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
