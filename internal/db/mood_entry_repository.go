package db

import (
	"github.com/terraincognita07/moodtune/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MoodEntryRepository stores the mood-owned list records. The three entry
// tables share one shape, so a single generic repository serves them all.
type MoodEntryRepository[T any, PT models.MoodEntryPtr[T]] struct {
	database *gorm.DB
}

func NewMoodEntryRepository[T any, PT models.MoodEntryPtr[T]](database *gorm.DB) *MoodEntryRepository[T, PT] {
	return &MoodEntryRepository[T, PT]{database: database}
}

func (repo *MoodEntryRepository[T, PT]) List(filter models.MoodEntryFilter) ([]T, error) {
	entries := make([]T, 0)
	query := repo.database.Model(new(T)).Preload("Mood")
	if filter.MoodID != 0 {
		query = query.Where("mood_id = ?", filter.MoodID)
	}
	if filter.MoodName != "" {
		query = query.Where("mood_id IN (?)", repo.database.Model(&models.Mood{}).Select("id").Where("name = ?", filter.MoodName))
	}
	if err := query.Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *MoodEntryRepository[T, PT]) FindByID(entryID uint) (PT, error) {
	entry := PT(new(T))
	if err := repo.database.Preload("Mood").First(entry, entryID).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (repo *MoodEntryRepository[T, PT]) Create(entry PT) error {
	return repo.database.Omit(clause.Associations).Create(entry).Error
}

func (repo *MoodEntryRepository[T, PT]) Save(entry PT) error {
	return repo.database.Omit(clause.Associations).Save(entry).Error
}

func (repo *MoodEntryRepository[T, PT]) Delete(entryID uint) error {
	result := repo.database.Delete(new(T), entryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (repo *MoodEntryRepository[T, PT]) Count() (int64, error) {
	var count int64
	if err := repo.database.Model(new(T)).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
