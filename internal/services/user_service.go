package services

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/validation"
)

type UserRepository interface {
	ListNonStaff() ([]models.User, error)
	FindNonStaffByID(userID uint) (models.User, error)
	FindByEmail(email string) (models.User, error)
	FindByUsername(username string) (models.User, error)
	Save(user *models.User) error
}

type UserUpdateInput struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Username *string `json:"username" validate:"omitempty,max=150"`
	IsActive bool    `json:"is_active"`
}

// UserUpdateInputFrom returns the writable fields of an existing account.
func UserUpdateInputFrom(user models.User) UserUpdateInput {
	return UserUpdateInput{
		Email:    user.Email,
		Username: user.Username,
		IsActive: user.IsActive,
	}
}

// UserService administers regular accounts. Staff accounts are invisible here.
type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

func (service *UserService) List() ([]models.User, error) {
	users, err := service.users.ListNonStaff()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (service *UserService) Get(userID uint) (models.User, error) {
	user, err := service.users.FindNonStaffByID(userID)
	if err != nil {
		return models.User{}, translateNotFound(err)
	}
	return user, nil
}

func (service *UserService) Update(userID uint, input UserUpdateInput) (models.User, error) {
	user, err := service.Get(userID)
	if err != nil {
		return models.User{}, err
	}
	if err := validation.Struct(input); err != nil {
		return models.User{}, err
	}

	email := NormalizeEmail(input.Email)
	var username *string
	if input.Username != nil {
		username = models.OptionalUsername(*input.Username)
	}

	fields, err := service.conflictFields(user.ID, email, username)
	if err != nil {
		return models.User{}, err
	}
	if email == "" {
		fields["email"] = "Enter a valid email address."
	}
	if len(fields) > 0 {
		return models.User{}, validation.NewError(fields)
	}

	user.Email = email
	user.Username = username
	user.IsActive = input.IsActive
	if err := service.users.Save(&user); err != nil {
		if !isDuplicateKey(err) {
			return models.User{}, fmt.Errorf("save user: %w", err)
		}
		fields, err := service.conflictFields(user.ID, email, username)
		if err != nil {
			return models.User{}, err
		}
		if len(fields) == 0 {
			fields["email"] = "user with this email already exists."
		}
		return models.User{}, validation.NewError(fields)
	}
	return user, nil
}

// conflictFields reports the email and username values held by an account other than userID.
func (service *UserService) conflictFields(userID uint, email string, username *string) (map[string]string, error) {
	fields := make(map[string]string)
	if email != "" {
		taken, err := valueTakenByOther(service.users.FindByEmail, email, userID)
		if err != nil {
			return nil, fmt.Errorf("check email uniqueness: %w", err)
		}
		if taken {
			fields["email"] = "user with this email already exists."
		}
	}
	if username != nil {
		taken, err := valueTakenByOther(service.users.FindByUsername, *username, userID)
		if err != nil {
			return nil, fmt.Errorf("check username uniqueness: %w", err)
		}
		if taken {
			fields["username"] = "A user with that username already exists."
		}
	}
	return fields, nil
}

func valueTakenByOther(find func(string) (models.User, error), value string, userID uint) (bool, error) {
	existing, err := find(value)
	if err != nil {
		if errors.Is(translateNotFound(err), ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != userID, nil
}
