package db

import (
	"github.com/terraincognita07/moodtune/internal/models"
	"gorm.io/gorm"
)

type MoodRepository struct {
	database *gorm.DB
}

func NewMoodRepository(database *gorm.DB) *MoodRepository {
	return &MoodRepository{database: database}
}

func (repo *MoodRepository) List() ([]models.Mood, error) {
	moods := make([]models.Mood, 0)
	if err := repo.database.Order("id ASC").Find(&moods).Error; err != nil {
		return nil, err
	}
	return moods, nil
}

func (repo *MoodRepository) FindByID(moodID uint) (models.Mood, error) {
	var mood models.Mood
	if err := repo.database.First(&mood, moodID).Error; err != nil {
		return models.Mood{}, err
	}
	return mood, nil
}

func (repo *MoodRepository) FindByName(name string) (models.Mood, error) {
	var mood models.Mood
	if err := repo.database.Where("name = ?", name).First(&mood).Error; err != nil {
		return models.Mood{}, err
	}
	return mood, nil
}

// ExistsByName reports a name clash with any mood other than excludeID.
func (repo *MoodRepository) ExistsByName(name string, excludeID uint) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Mood{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *MoodRepository) Create(mood *models.Mood) error {
	return repo.database.Create(mood).Error
}

func (repo *MoodRepository) Save(mood *models.Mood) error {
	return repo.database.Save(mood).Error
}

// DeleteWithEntries removes the mood together with every list record it owns.
func (repo *MoodRepository) DeleteWithEntries(moodID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mood_id = ?", moodID).Delete(&models.MoodGenre{}).Error; err != nil {
			return err
		}
		if err := tx.Where("mood_id = ?", moodID).Delete(&models.ActivitySuggestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("mood_id = ?", moodID).Delete(&models.RelaxationActivity{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Mood{}, moodID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (repo *MoodRepository) Count() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Mood{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
