package db

import (
	"time"

	"github.com/terraincognita07/moodtune/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CapturedImageRepository struct {
	database *gorm.DB
}

func NewCapturedImageRepository(database *gorm.DB) *CapturedImageRepository {
	return &CapturedImageRepository{database: database}
}

// List returns captures newest first.
func (repo *CapturedImageRepository) List(filter models.CapturedImageFilter) ([]models.CapturedImage, error) {
	images := make([]models.CapturedImage, 0)
	query := repo.database.Model(&models.CapturedImage{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Order("captured_at DESC, id DESC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (repo *CapturedImageRepository) FindByID(imageID uint) (models.CapturedImage, error) {
	var image models.CapturedImage
	if err := repo.database.First(&image, imageID).Error; err != nil {
		return models.CapturedImage{}, err
	}
	return image, nil
}

func (repo *CapturedImageRepository) Create(image *models.CapturedImage) error {
	return repo.database.Omit(clause.Associations).Create(image).Error
}

func (repo *CapturedImageRepository) Save(image *models.CapturedImage) error {
	return repo.database.Omit(clause.Associations).Save(image).Error
}

func (repo *CapturedImageRepository) Delete(imageID uint) error {
	result := repo.database.Delete(&models.CapturedImage{}, imageID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (repo *CapturedImageRepository) Count() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.CapturedImage{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *CapturedImageRepository) CountCapturedBefore(cutoff time.Time) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.CapturedImage{}).
		Where("captured_at < ?", cutoff.UTC()).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
