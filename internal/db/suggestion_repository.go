package db

import (
	"github.com/terraincognita07/moodtune/internal/models"
	"gorm.io/gorm"
)

type SuggestionRepository struct {
	database *gorm.DB
}

func NewSuggestionRepository(database *gorm.DB) *SuggestionRepository {
	return &SuggestionRepository{database: database}
}

func (repo *SuggestionRepository) List() ([]models.Suggestion, error) {
	suggestions := make([]models.Suggestion, 0)
	if err := repo.database.Order("id ASC").Find(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (repo *SuggestionRepository) FindByMood(mood string) (models.Suggestion, error) {
	var suggestion models.Suggestion
	if err := repo.database.Where("mood = ?", mood).First(&suggestion).Error; err != nil {
		return models.Suggestion{}, err
	}
	return suggestion, nil
}

func (repo *SuggestionRepository) Create(suggestion *models.Suggestion) error {
	return repo.database.Create(suggestion).Error
}

func (repo *SuggestionRepository) Save(suggestion *models.Suggestion) error {
	return repo.database.Save(suggestion).Error
}

func (repo *SuggestionRepository) Delete(suggestionID uint) error {
	result := repo.database.Delete(&models.Suggestion{}, suggestionID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
