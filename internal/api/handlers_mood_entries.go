package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/services"
)

// moodEntryFilter names the query parameter a mood-owned list is filtered by.
type moodEntryFilter int

const (
	filterByMoodName moodEntryFilter = iota
	filterByMoodID
)

type moodEntryRoutes interface {
	path() string
	register(router fiber.Router, handler *Handler)
}

// moodEntrySchema is the typed request body of one mood-owned list resource.
type moodEntrySchema interface {
	prefill(moodID uint, items []string)
	entryInput() services.MoodEntryInput
}

type moodGenreInput struct {
	MoodID *uint    `json:"mood_id" validate:"required"`
	Genres []string `json:"genres" validate:"required,min=1,dive,notblank"`
}

func (input *moodGenreInput) prefill(moodID uint, items []string) {
	input.MoodID, input.Genres = &moodID, items
}

func (input *moodGenreInput) entryInput() services.MoodEntryInput {
	return services.MoodEntryInput{MoodID: input.MoodID, Items: input.Genres}
}

type activitySuggestionInput struct {
	MoodID     *uint    `json:"mood_id" validate:"required"`
	Suggestion []string `json:"suggestion" validate:"required,min=1,dive,notblank"`
}

func (input *activitySuggestionInput) prefill(moodID uint, items []string) {
	input.MoodID, input.Suggestion = &moodID, items
}

func (input *activitySuggestionInput) entryInput() services.MoodEntryInput {
	return services.MoodEntryInput{MoodID: input.MoodID, Items: input.Suggestion}
}

type relaxationActivityInput struct {
	MoodID   *uint    `json:"mood_id" validate:"required"`
	Activity []string `json:"activity" validate:"required,min=1,dive,notblank"`
}

func (input *relaxationActivityInput) prefill(moodID uint, items []string) {
	input.MoodID, input.Activity = &moodID, items
}

func (input *relaxationActivityInput) entryInput() services.MoodEntryInput {
	return services.MoodEntryInput{MoodID: input.MoodID, Items: input.Activity}
}

// moodEntryResource serves one mood-owned string list resource.
type moodEntryResource[T any, PT models.MoodEntryPtr[T]] struct {
	routePath string
	filter    moodEntryFilter
	service   *services.MoodEntryService[T, PT]
	newSchema func() moodEntrySchema
}

func (handler *Handler) moodEntryResources() []moodEntryRoutes {
	return []moodEntryRoutes{
		&moodEntryResource[models.MoodGenre, *models.MoodGenre]{
			routePath: "/mood-genres",
			filter:    filterByMoodName,
			service:   handler.moodGenreService,
			newSchema: func() moodEntrySchema { return &moodGenreInput{} },
		},
		&moodEntryResource[models.ActivitySuggestion, *models.ActivitySuggestion]{
			routePath: "/activity-suggestions",
			filter:    filterByMoodID,
			service:   handler.activityService,
			newSchema: func() moodEntrySchema { return &activitySuggestionInput{} },
		},
		&moodEntryResource[models.RelaxationActivity, *models.RelaxationActivity]{
			routePath: "/relaxation-activities",
			filter:    filterByMoodID,
			service:   handler.relaxationService,
			newSchema: func() moodEntrySchema { return &relaxationActivityInput{} },
		},
	}
}

func (resource *moodEntryResource[T, PT]) path() string {
	return resource.routePath
}

func (resource *moodEntryResource[T, PT]) register(router fiber.Router, handler *Handler) {
	router.Get("", resource.list)
	router.Get("/:id", resource.get)
	router.Post("", handler.AuthRequired, handler.StaffOnly, resource.create)
	router.Put("/:id", handler.AuthRequired, handler.StaffOnly, resource.update)
	router.Patch("/:id", handler.AuthRequired, handler.StaffOnly, resource.update)
	router.Delete("/:id", handler.AuthRequired, handler.StaffOnly, resource.delete)
}

func (resource *moodEntryResource[T, PT]) list(c *fiber.Ctx) error {
	filter, ok := resource.listFilter(c)
	if !ok {
		return c.JSON([]fiber.Map{})
	}

	entries, err := resource.service.List(filter)
	if err != nil {
		return respondError(c, err)
	}

	payload := make([]fiber.Map, 0, len(entries))
	for index := range entries {
		payload = append(payload, buildMoodEntryPayload(PT(&entries[index]), resource.service.ItemsField()))
	}
	return c.JSON(payload)
}

// listFilter reads ?mood= or ?mood_id=. A malformed id matches nothing.
func (resource *moodEntryResource[T, PT]) listFilter(c *fiber.Ctx) (models.MoodEntryFilter, bool) {
	switch resource.filter {
	case filterByMoodID:
		raw := strings.TrimSpace(c.Query("mood_id"))
		if raw == "" {
			return models.MoodEntryFilter{}, true
		}
		moodID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || moodID == 0 {
			return models.MoodEntryFilter{}, false
		}
		return models.MoodEntryFilter{MoodID: uint(moodID)}, true
	default:
		return models.MoodEntryFilter{MoodName: strings.TrimSpace(c.Query("mood"))}, true
	}
}

func (resource *moodEntryResource[T, PT]) get(c *fiber.Ctx) error {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	entry, err := resource.service.Get(entryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildMoodEntryPayload(entry, resource.service.ItemsField()))
}

func (resource *moodEntryResource[T, PT]) create(c *fiber.Ctx) error {
	input, err := resource.decodeInput(c, resource.newSchema())
	if err != nil {
		return respondError(c, err)
	}
	entry, err := resource.service.Create(input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(buildMoodEntryPayload(entry, resource.service.ItemsField()))
}

func (resource *moodEntryResource[T, PT]) update(c *fiber.Ctx) error {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	schema := resource.newSchema()
	if isPartialUpdate(c) {
		current, err := resource.service.Get(entryID)
		if err != nil {
			return respondError(c, err)
		}
		schema.prefill(current.OwnerMoodID(), current.Items())
	}

	input, err := resource.decodeInput(c, schema)
	if err != nil {
		return respondError(c, err)
	}
	entry, err := resource.service.Update(entryID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildMoodEntryPayload(entry, resource.service.ItemsField()))
}

func (resource *moodEntryResource[T, PT]) delete(c *fiber.Ctx) error {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := resource.service.Delete(entryID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// decodeInput overlays the request body on schema and validates the result.
func (resource *moodEntryResource[T, PT]) decodeInput(c *fiber.Ctx, schema moodEntrySchema) (services.MoodEntryInput, error) {
	if err := decodeJSON(c, schema); err != nil {
		return services.MoodEntryInput{}, err
	}
	if err := validateInput(schema); err != nil {
		return services.MoodEntryInput{}, err
	}
	return schema.entryInput(), nil
}
