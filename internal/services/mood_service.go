package services

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/moodtune/internal/logging"
	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/validation"
)

type MoodRepository interface {
	List() ([]models.Mood, error)
	FindByID(moodID uint) (models.Mood, error)
	FindByName(name string) (models.Mood, error)
	ExistsByName(name string, excludeID uint) (bool, error)
	Create(mood *models.Mood) error
	Save(mood *models.Mood) error
	DeleteWithEntries(moodID uint) error
}

type MoodInput struct {
	Name string `json:"name" validate:"required,notblank,max=50"`
}

type MoodService struct {
	moods MoodRepository
}

func NewMoodService(moods MoodRepository) *MoodService {
	return &MoodService{moods: moods}
}

func (service *MoodService) List() ([]models.Mood, error) {
	moods, err := service.moods.List()
	if err != nil {
		return nil, fmt.Errorf("list moods: %w", err)
	}
	return moods, nil
}

// Get resolves a mood by its name, the natural key of the moods resource.
func (service *MoodService) Get(name string) (models.Mood, error) {
	mood, err := service.moods.FindByName(name)
	if err != nil {
		return models.Mood{}, translateNotFound(err)
	}
	return mood, nil
}

func (service *MoodService) Create(input MoodInput) (models.Mood, error) {
	name, err := service.validate(input, 0)
	if err != nil {
		return models.Mood{}, err
	}

	mood := models.Mood{Name: name}
	if err := service.moods.Create(&mood); err != nil {
		if isDuplicateKey(err) {
			return models.Mood{}, duplicateMoodName()
		}
		return models.Mood{}, fmt.Errorf("create mood: %w", err)
	}
	logging.Info().Uint("mood_id", mood.ID).Str("name", mood.Name).Msg("mood created")
	return mood, nil
}

// Rename updates the mood currently called name.
func (service *MoodService) Rename(name string, input MoodInput) (models.Mood, error) {
	mood, err := service.Get(name)
	if err != nil {
		return models.Mood{}, err
	}
	newName, err := service.validate(input, mood.ID)
	if err != nil {
		return models.Mood{}, err
	}

	mood.Name = newName
	if err := service.moods.Save(&mood); err != nil {
		if isDuplicateKey(err) {
			return models.Mood{}, duplicateMoodName()
		}
		return models.Mood{}, fmt.Errorf("save mood: %w", err)
	}
	return mood, nil
}

// Delete removes a mood together with its genre, activity and relaxation lists.
func (service *MoodService) Delete(name string) error {
	mood, err := service.Get(name)
	if err != nil {
		return err
	}
	if err := service.moods.DeleteWithEntries(mood.ID); err != nil {
		return fmt.Errorf("delete mood: %w", translateNotFound(err))
	}
	logging.Info().Uint("mood_id", mood.ID).Str("name", mood.Name).Msg("mood deleted")
	return nil
}

func (service *MoodService) validate(input MoodInput, excludeID uint) (string, error) {
	if err := validation.Struct(input); err != nil {
		return "", err
	}
	name := strings.TrimSpace(input.Name)
	exists, err := service.moods.ExistsByName(name, excludeID)
	if err != nil {
		return "", fmt.Errorf("check mood name: %w", err)
	}
	if exists {
		return "", duplicateMoodName()
	}
	return name, nil
}

func duplicateMoodName() error {
	return validation.FieldError("name", "mood with this name already exists.")
}
