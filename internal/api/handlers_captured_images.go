package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/services"
	"github.com/terraincognita07/moodtune/internal/validation"
)

type capturedImageJSONInput struct {
	Mood       *string    `json:"mood" validate:"omitnil,max=50"`
	CapturedAt *time.Time `json:"captured_at"`
	Image      *string    `json:"image"`
	imageSet   bool
}

// capturedImageFormInput holds the text parts of a multipart upload.
type capturedImageFormInput struct {
	Mood       string `form:"mood" validate:"max=50"`
	CapturedAt string `form:"captured_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (handler *Handler) ListCapturedImages(c *fiber.Ctx) error {
	user, _ := currentUser(c)

	limit, err := parseOptionalLimit(c)
	if err != nil {
		return respondError(c, err)
	}
	filter := models.CapturedImageFilter{Limit: limit}
	if raw := strings.TrimSpace(c.Query("user")); raw != "" {
		ownerID, err := parseQueryID(raw)
		if err != nil {
			return c.JSON([]capturedImagePayload{})
		}
		filter.UserID = &ownerID
	}

	images, err := handler.capturedImageService.List(user, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildCapturedImageList(handler.media, images))
}

// ListUserCapturedImages lists one user's captures for staff or for that user.
func (handler *Handler) ListUserCapturedImages(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	ownerID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if !user.HasStaffAccess() && user.ID != ownerID {
		return apiError(c, fiber.StatusForbidden, "You do not have permission to perform this action.")
	}

	images, err := handler.capturedImageService.List(user, models.CapturedImageFilter{UserID: &ownerID})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildCapturedImageList(handler.media, images))
}

func (handler *Handler) GetCapturedImage(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	imageID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	image, err := handler.capturedImageService.Get(user, imageID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildCapturedImagePayload(handler.media, image))
}

func (handler *Handler) CreateCapturedImage(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	input, closeUpload, err := parseCapturedImageInput(c)
	if err != nil {
		return respondError(c, err)
	}
	defer closeUpload()

	image, err := handler.capturedImageService.Create(user, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(buildCapturedImagePayload(handler.media, image))
}

// UpdateCapturedImage applies PUT and PATCH alike: omitted fields keep their value.
func (handler *Handler) UpdateCapturedImage(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	imageID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	input, closeUpload, err := parseCapturedImageInput(c)
	if err != nil {
		return respondError(c, err)
	}
	defer closeUpload()

	image, err := handler.capturedImageService.Update(user, imageID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildCapturedImagePayload(handler.media, image))
}

func (handler *Handler) DeleteCapturedImage(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	imageID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := handler.capturedImageService.Delete(user, imageID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseCapturedImageInput accepts multipart/form-data (with an optional
// "image" file part) or JSON. In JSON, "image": null clears the stored image.
// The returned func releases the upload and must always be called.
func parseCapturedImageInput(c *fiber.Ctx) (services.CapturedImageInput, func(), error) {
	noop := func() {}
	if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		return parseCapturedImageForm(c)
	}

	var body capturedImageJSONInput
	if err := decodeJSON(c, &body); err != nil {
		return services.CapturedImageInput{}, noop, err
	}
	if err := validateInput(body); err != nil {
		return services.CapturedImageInput{}, noop, err
	}
	if body.Image != nil && *body.Image != "" {
		return services.CapturedImageInput{}, noop, validation.FieldError("image", "The submitted data was not a file. Check the encoding type on the form.")
	}

	return services.CapturedImageInput{
		Mood:       body.Mood,
		CapturedAt: body.CapturedAt,
		ClearImage: body.imageSet && body.Image == nil,
	}, noop, nil
}

func parseCapturedImageForm(c *fiber.Ctx) (services.CapturedImageInput, func(), error) {
	noop := func() {}
	form, err := c.MultipartForm()
	if err != nil {
		return services.CapturedImageInput{}, noop, errInvalidBody
	}
	var fields capturedImageFormInput
	if err := c.BodyParser(&fields); err != nil {
		return services.CapturedImageInput{}, noop, errInvalidBody
	}
	fields.Mood = strings.TrimSpace(fields.Mood)
	fields.CapturedAt = strings.TrimSpace(fields.CapturedAt)
	if err := validateInput(fields); err != nil {
		return services.CapturedImageInput{}, noop, err
	}

	input := services.CapturedImageInput{}
	if _, ok := form.Value["mood"]; ok {
		input.Mood = &fields.Mood
	}
	if fields.CapturedAt != "" {
		capturedAt, err := time.Parse(time.RFC3339, fields.CapturedAt)
		if err != nil {
			return services.CapturedImageInput{}, noop, validation.FieldError("captured_at", "captured_at must be an RFC 3339 datetime")
		}
		input.CapturedAt = &capturedAt
	}

	files := form.File["image"]
	if len(files) == 0 {
		return input, noop, nil
	}
	upload, err := files[0].Open()
	if err != nil {
		return services.CapturedImageInput{}, noop, fmt.Errorf("open upload: %w", err)
	}
	input.Image = upload
	return input, func() { _ = upload.Close() }, nil
}

// UnmarshalJSON records whether "image" was present so null can be told apart from absent.
func (input *capturedImageJSONInput) UnmarshalJSON(data []byte) error {
	type plain capturedImageJSONInput
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*input = capturedImageJSONInput(decoded)
	_, input.imageSet = fields["image"]
	return nil
}

func parseQueryID(raw string) (uint, error) {
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(value), nil
}

// parseOptionalLimit is parseLimit without the default: no ?limit= means everything.
func parseOptionalLimit(c *fiber.Ctx) (int, error) {
	if strings.TrimSpace(c.Query("limit")) == "" {
		return 0, nil
	}
	return parseLimit(c)
}
