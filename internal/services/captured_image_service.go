package services

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/terraincognita07/moodtune/internal/logging"
	"github.com/terraincognita07/moodtune/internal/metrics"
	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/storage"
	"github.com/terraincognita07/moodtune/internal/validation"
)

const invalidImageMessage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

type CapturedImageRepository interface {
	List(filter models.CapturedImageFilter) ([]models.CapturedImage, error)
	FindByID(imageID uint) (models.CapturedImage, error)
	Create(image *models.CapturedImage) error
	Save(image *models.CapturedImage) error
	Delete(imageID uint) error
}

type BlobStore interface {
	SaveImage(reader io.Reader) (string, error)
	Remove(relative string) error
	Exists(relative string) bool
}

// CapturedImageInput carries the writable fields of a capture. Nil fields are
// left untouched; Image replaces the stored blob and ClearImage drops it.
type CapturedImageInput struct {
	Mood       *string
	CapturedAt *time.Time
	Image      io.Reader
	ClearImage bool
}

type CapturedImageService struct {
	images CapturedImageRepository
	blobs  BlobStore
	now    func() time.Time
}

func NewCapturedImageService(images CapturedImageRepository, blobs BlobStore) *CapturedImageService {
	return &CapturedImageService{
		images: images,
		blobs:  blobs,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns the viewer's own captures. Staff see every capture and may
// narrow the listing with filter.UserID.
func (service *CapturedImageService) List(viewer *models.User, filter models.CapturedImageFilter) ([]models.CapturedImage, error) {
	if !viewer.HasStaffAccess() {
		filter.UserID = &viewer.ID
	}
	images, err := service.images.List(filter)
	if err != nil {
		return nil, fmt.Errorf("list captured images: %w", err)
	}
	return images, nil
}

// Get loads a capture visible to viewer. Other users' captures read as missing.
func (service *CapturedImageService) Get(viewer *models.User, imageID uint) (models.CapturedImage, error) {
	image, err := service.images.FindByID(imageID)
	if err != nil {
		return models.CapturedImage{}, translateNotFound(err)
	}
	if !CanAccessCapture(viewer, image) {
		return models.CapturedImage{}, ErrNotFound
	}
	return image, nil
}

func CanAccessCapture(viewer *models.User, image models.CapturedImage) bool {
	if viewer == nil {
		return false
	}
	if viewer.HasStaffAccess() {
		return true
	}
	return image.UserID != nil && *image.UserID == viewer.ID
}

// Create stores a capture owned by viewer.
func (service *CapturedImageService) Create(viewer *models.User, input CapturedImageInput) (models.CapturedImage, error) {
	if input.Mood == nil || strings.TrimSpace(*input.Mood) == "" {
		return models.CapturedImage{}, validation.FieldError("mood", "This field is required.")
	}

	ownerID := viewer.ID
	image := models.CapturedImage{
		Mood:       strings.TrimSpace(*input.Mood),
		CapturedAt: service.now(),
		UserID:     &ownerID,
	}
	if input.CapturedAt != nil {
		image.CapturedAt = input.CapturedAt.UTC()
	}

	if input.Image != nil {
		relative, err := service.saveBlob(input.Image)
		if err != nil {
			return models.CapturedImage{}, err
		}
		image.Image = relative
	}

	if err := service.images.Create(&image); err != nil {
		service.removeBlob(image.Image)
		return models.CapturedImage{}, fmt.Errorf("create captured image: %w", err)
	}
	logging.Info().Uint("image_id", image.ID).Uint("user_id", viewer.ID).Msg("image captured")
	return image, nil
}

// Update applies input to a capture. The previous blob is released only after
// the row pointing at its replacement has been saved.
func (service *CapturedImageService) Update(viewer *models.User, imageID uint, input CapturedImageInput) (models.CapturedImage, error) {
	image, err := service.Get(viewer, imageID)
	if err != nil {
		return models.CapturedImage{}, err
	}

	if input.Mood != nil {
		mood := strings.TrimSpace(*input.Mood)
		if mood == "" {
			return models.CapturedImage{}, validation.FieldError("mood", "This field may not be blank.")
		}
		image.Mood = mood
	}
	if input.CapturedAt != nil {
		image.CapturedAt = input.CapturedAt.UTC()
	}

	previous := image.Image
	switch {
	case input.Image != nil:
		relative, err := service.saveBlob(input.Image)
		if err != nil {
			return models.CapturedImage{}, err
		}
		image.Image = relative
	case input.ClearImage:
		image.Image = ""
	}

	image.User = nil
	if err := service.images.Save(&image); err != nil {
		if image.Image != previous {
			service.removeBlob(image.Image)
		}
		return models.CapturedImage{}, fmt.Errorf("save captured image: %w", err)
	}

	if image.Image != previous {
		service.removeBlob(previous)
	}
	return image, nil
}

// Delete removes the capture row and then its blob.
func (service *CapturedImageService) Delete(viewer *models.User, imageID uint) error {
	image, err := service.Get(viewer, imageID)
	if err != nil {
		return err
	}
	if err := service.images.Delete(image.ID); err != nil {
		return fmt.Errorf("delete captured image: %w", translateNotFound(err))
	}
	service.removeBlob(image.Image)
	logging.Info().Uint("image_id", image.ID).Msg("captured image deleted")
	return nil
}

func (service *CapturedImageService) saveBlob(reader io.Reader) (string, error) {
	relative, err := service.blobs.SaveImage(reader)
	if err != nil {
		if errors.Is(err, storage.ErrNotImage) {
			return "", validation.FieldError("image", invalidImageMessage)
		}
		metrics.RecordImageBlob(metrics.BlobFailed)
		return "", fmt.Errorf("store image: %w", err)
	}
	metrics.RecordImageBlob(metrics.BlobSaved)
	return relative, nil
}

func (service *CapturedImageService) removeBlob(relative string) {
	if relative == "" {
		return
	}
	if !service.blobs.Exists(relative) {
		metrics.RecordImageBlob(metrics.BlobMissing)
		logging.Debug().Str("blob", relative).Msg("image blob already gone")
		return
	}
	if err := service.blobs.Remove(relative); err != nil {
		metrics.RecordImageBlob(metrics.BlobFailed)
		logging.Err(err).Str("blob", relative).Msg("failed to remove image blob")
		return
	}
	metrics.RecordImageBlob(metrics.BlobRemoved)
}
