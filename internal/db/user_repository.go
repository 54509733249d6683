package db

import (
	"time"

	"github.com/terraincognita07/moodtune/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByUsername(username string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindByUsernameFold matches usernames case-insensitively and prefers the oldest account.
func (repo *UserRepository) FindByUsernameFold(username string) (models.User, error) {
	var user models.User
	if err := repo.database.
		Where("lower(username) = lower(?)", username).
		Order("id ASC").
		First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByEmail(email string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("email = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) ExistsByUsername(username string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("username = ?", username).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

func (repo *UserRepository) Save(user *models.User) error {
	return repo.database.Save(user).Error
}

func (repo *UserRepository) UpdateLastLogin(userID uint, at time.Time) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Update("last_login", at.UTC()).Error
}

func (repo *UserRepository) ListNonStaff() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := repo.database.
		Where("is_staff = ?", false).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) FindNonStaffByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.
		Where("id = ? AND is_staff = ?", userID, false).
		First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) CountNonStaff() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.User{}).
		Where("is_staff = ?", false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *UserRepository) CountNonStaffJoinedBefore(cutoff time.Time) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.User{}).
		Where("is_staff = ? AND date_joined < ?", false, cutoff.UTC()).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
