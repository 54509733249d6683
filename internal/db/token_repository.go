package db

import (
	"github.com/terraincognita07/moodtune/internal/models"
	"gorm.io/gorm"
)

type TokenRepository struct {
	database *gorm.DB
}

func NewTokenRepository(database *gorm.DB) *TokenRepository {
	return &TokenRepository{database: database}
}

func (repo *TokenRepository) FindByUserID(userID uint) (models.AuthToken, error) {
	var token models.AuthToken
	if err := repo.database.Where("user_id = ?", userID).First(&token).Error; err != nil {
		return models.AuthToken{}, err
	}
	return token, nil
}

func (repo *TokenRepository) FindByToken(raw string) (models.AuthToken, error) {
	var token models.AuthToken
	if err := repo.database.Where("token = ?", raw).First(&token).Error; err != nil {
		return models.AuthToken{}, err
	}
	return token, nil
}

// Replace drops any token held by the owner before storing the new one.
func (repo *TokenRepository) Replace(token *models.AuthToken) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).Delete(&models.AuthToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

func (repo *TokenRepository) DeleteByUserID(userID uint) error {
	return repo.database.Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error
}
