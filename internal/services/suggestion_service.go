package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/validation"
)

type SuggestionRepository interface {
	List() ([]models.Suggestion, error)
	FindByMood(mood string) (models.Suggestion, error)
	Create(suggestion *models.Suggestion) error
	Save(suggestion *models.Suggestion) error
	Delete(suggestionID uint) error
}

type SuggestionInput struct {
	Mood       string `json:"mood" validate:"required,notblank,max=20"`
	Music      string `json:"music" validate:"required,notblank,max=100"`
	Activity   string `json:"activity" validate:"required,notblank,max=100"`
	Relaxation string `json:"relaxation" validate:"required,notblank,max=100"`
}

// SuggestionInputFrom returns the writable fields of an existing suggestion.
func SuggestionInputFrom(suggestion models.Suggestion) SuggestionInput {
	return SuggestionInput{
		Mood:       suggestion.Mood,
		Music:      suggestion.Music,
		Activity:   suggestion.Activity,
		Relaxation: suggestion.Relaxation,
	}
}

type SuggestionService struct {
	suggestions SuggestionRepository
}

func NewSuggestionService(suggestions SuggestionRepository) *SuggestionService {
	return &SuggestionService{suggestions: suggestions}
}

func (service *SuggestionService) List() ([]models.Suggestion, error) {
	suggestions, err := service.suggestions.List()
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return suggestions, nil
}

func (service *SuggestionService) Get(mood string) (models.Suggestion, error) {
	suggestion, err := service.suggestions.FindByMood(mood)
	if err != nil {
		return models.Suggestion{}, translateNotFound(err)
	}
	return suggestion, nil
}

func (service *SuggestionService) Create(input SuggestionInput) (models.Suggestion, error) {
	suggestion := models.Suggestion{}
	if err := service.apply(&suggestion, input); err != nil {
		return models.Suggestion{}, err
	}
	if err := service.suggestions.Create(&suggestion); err != nil {
		if isDuplicateKey(err) {
			return models.Suggestion{}, duplicateSuggestionMood()
		}
		return models.Suggestion{}, fmt.Errorf("create suggestion: %w", err)
	}
	return suggestion, nil
}

func (service *SuggestionService) Update(mood string, input SuggestionInput) (models.Suggestion, error) {
	suggestion, err := service.Get(mood)
	if err != nil {
		return models.Suggestion{}, err
	}
	if err := service.apply(&suggestion, input); err != nil {
		return models.Suggestion{}, err
	}
	if err := service.suggestions.Save(&suggestion); err != nil {
		if isDuplicateKey(err) {
			return models.Suggestion{}, duplicateSuggestionMood()
		}
		return models.Suggestion{}, fmt.Errorf("save suggestion: %w", err)
	}
	return suggestion, nil
}

func (service *SuggestionService) Delete(mood string) error {
	suggestion, err := service.Get(mood)
	if err != nil {
		return err
	}
	if err := service.suggestions.Delete(suggestion.ID); err != nil {
		return translateNotFound(err)
	}
	return nil
}

func (service *SuggestionService) apply(suggestion *models.Suggestion, input SuggestionInput) error {
	if err := validation.Struct(input); err != nil {
		return err
	}

	mood := strings.TrimSpace(input.Mood)
	existing, err := service.suggestions.FindByMood(mood)
	switch {
	case err == nil && existing.ID != suggestion.ID:
		return duplicateSuggestionMood()
	case err != nil && !errors.Is(translateNotFound(err), ErrNotFound):
		return fmt.Errorf("check suggestion mood: %w", err)
	}

	suggestion.Mood = mood
	suggestion.Music = strings.TrimSpace(input.Music)
	suggestion.Activity = strings.TrimSpace(input.Activity)
	suggestion.Relaxation = strings.TrimSpace(input.Relaxation)
	return nil
}

func duplicateSuggestionMood() error {
	return validation.FieldError("mood", "suggestion with this mood already exists.")
}
