package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/terraincognita07/moodtune/internal/logging"
	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/validation"
)

type MoodEntryRepository[T any, PT models.MoodEntryPtr[T]] interface {
	List(filter models.MoodEntryFilter) ([]T, error)
	FindByID(entryID uint) (PT, error)
	Create(entry PT) error
	Save(entry PT) error
	Delete(entryID uint) error
}

type MoodLookup interface {
	FindByID(moodID uint) (models.Mood, error)
}

// MoodEntryInput is the write payload of a mood-owned list. A nil MoodID or
// Items means the field was not supplied.
type MoodEntryInput struct {
	MoodID *uint
	Items  []string
}

// MoodEntryService manages one kind of mood-owned string list. ItemsField is
// the payload key of the list (genres, suggestion, activity).
type MoodEntryService[T any, PT models.MoodEntryPtr[T]] struct {
	entries    MoodEntryRepository[T, PT]
	moods      MoodLookup
	itemsField string
}

func NewMoodEntryService[T any, PT models.MoodEntryPtr[T]](entries MoodEntryRepository[T, PT], moods MoodLookup, itemsField string) *MoodEntryService[T, PT] {
	return &MoodEntryService[T, PT]{
		entries:    entries,
		moods:      moods,
		itemsField: itemsField,
	}
}

func (service *MoodEntryService[T, PT]) ItemsField() string {
	return service.itemsField
}

func (service *MoodEntryService[T, PT]) List(filter models.MoodEntryFilter) ([]T, error) {
	entries, err := service.entries.List(filter)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", service.itemsField, err)
	}
	return entries, nil
}

func (service *MoodEntryService[T, PT]) Get(entryID uint) (PT, error) {
	entry, err := service.entries.FindByID(entryID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return entry, nil
}

func (service *MoodEntryService[T, PT]) Create(input MoodEntryInput) (PT, error) {
	mood, items, err := service.validate(input)
	if err != nil {
		return nil, err
	}

	entry := PT(new(T))
	entry.Assign(mood, items)
	if err := service.entries.Create(entry); err != nil {
		return nil, fmt.Errorf("create %s entry: %w", service.itemsField, err)
	}
	logging.Info().Uint("entry_id", entry.EntryID()).Uint("mood_id", mood.ID).Str("list", service.itemsField).Msg("mood list created")
	return entry, nil
}

// Update replaces the mood and items of an entry. Callers wanting partial
// updates pre-fill input from the current entry.
func (service *MoodEntryService[T, PT]) Update(entryID uint, input MoodEntryInput) (PT, error) {
	entry, err := service.Get(entryID)
	if err != nil {
		return nil, err
	}
	mood, items, err := service.validate(input)
	if err != nil {
		return nil, err
	}

	entry.Assign(mood, items)
	if err := service.entries.Save(entry); err != nil {
		return nil, fmt.Errorf("save %s entry: %w", service.itemsField, err)
	}
	return entry, nil
}

func (service *MoodEntryService[T, PT]) Delete(entryID uint) error {
	if err := service.entries.Delete(entryID); err != nil {
		return translateNotFound(err)
	}
	return nil
}

func (service *MoodEntryService[T, PT]) validate(input MoodEntryInput) (models.Mood, []string, error) {
	err := validation.Join(
		validation.Var("mood_id", input.MoodID, "required"),
		validation.Var(service.itemsField, input.Items, "required,min=1,dive,notblank"),
	)
	if err != nil {
		return models.Mood{}, nil, err
	}

	mood, err := service.moods.FindByID(*input.MoodID)
	if err != nil {
		if errors.Is(translateNotFound(err), ErrNotFound) {
			return models.Mood{}, nil, validation.FieldError("mood_id", fmt.Sprintf("Invalid pk %q - object does not exist.", strconv.FormatUint(uint64(*input.MoodID), 10)))
		}
		return models.Mood{}, nil, fmt.Errorf("load mood: %w", err)
	}

	items := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, strings.TrimSpace(item))
	}
	return mood, items, nil
}
