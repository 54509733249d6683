package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/moodtune/internal/logging"
	"github.com/terraincognita07/moodtune/internal/metrics"
	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUserRepository interface {
	FindByID(userID uint) (models.User, error)
	FindByEmail(email string) (models.User, error)
	FindByUsernameFold(username string) (models.User, error)
	ExistsByEmail(email string) (bool, error)
	ExistsByUsername(username string) (bool, error)
	Create(user *models.User) error
	UpdateLastLogin(userID uint, at time.Time) error
}

type AuthTokenRepository interface {
	FindByUserID(userID uint) (models.AuthToken, error)
	FindByToken(raw string) (models.AuthToken, error)
	Replace(token *models.AuthToken) error
	DeleteByUserID(userID uint) error
}

type SignupInput struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
}

// AuthResult is an authenticated user with its session token.
type AuthResult struct {
	User  models.User
	Token string
}

type AuthService struct {
	users     AuthUserRepository
	tokens    AuthTokenRepository
	secretKey []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(users AuthUserRepository, tokens AuthTokenRepository, secretKey []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Signup registers a regular account and issues its first token.
func (service *AuthService) Signup(input SignupInput) (AuthResult, error) {
	user, err := service.register(input.Email, input.Username, input.Password, &input.ConfirmPassword, false)
	if err != nil {
		if errors.Is(err, validation.ErrInvalid) {
			metrics.RecordAuthAttempt(metrics.FlowSignup, metrics.OutcomeRejected)
		} else {
			metrics.RecordAuthAttempt(metrics.FlowSignup, metrics.OutcomeError)
		}
		return AuthResult{}, err
	}

	token, err := service.IssueToken(user.ID)
	if err != nil {
		metrics.RecordAuthAttempt(metrics.FlowSignup, metrics.OutcomeError)
		return AuthResult{}, err
	}

	metrics.RecordAuthAttempt(metrics.FlowSignup, metrics.OutcomeSuccess)
	logging.Info().Uint("user_id", user.ID).Msg("user signed up")
	return AuthResult{User: user, Token: token}, nil
}

// CreateSuperuser provisions an admin account without issuing a token.
func (service *AuthService) CreateSuperuser(email string, username string, password string) (models.User, error) {
	return service.register(email, username, password, nil, true)
}

func (service *AuthService) register(emailRaw string, usernameRaw string, password string, confirmPassword *string, superuser bool) (models.User, error) {
	fields := make(map[string]string)

	email := NormalizeEmail(emailRaw)
	if email == "" {
		fields["email"] = "Enter a valid email address."
	}
	username := models.OptionalUsername(usernameRaw)

	if confirmPassword != nil && password != *confirmPassword {
		fields["confirm_password"] = "Passwords must match."
	}
	if err := ValidatePasswordStrength(
		password,
		UserAttribute{Label: "email address", Value: email},
		UserAttribute{Label: "username", Value: usernameRaw},
	); err != nil {
		fields["password"] = err.Error()
	}

	if err := service.collectConflicts(fields, email, username); err != nil {
		return models.User{}, err
	}
	if len(fields) > 0 {
		return models.User{}, validation.NewError(fields)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(passwordHash),
		IsStaff:      superuser,
		IsSuperuser:  superuser,
		IsActive:     true,
		DateJoined:   service.now(),
	}
	if err := service.users.Create(&user); err != nil {
		if isDuplicateKey(err) {
			return models.User{}, service.duplicateUserError(email, username)
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// collectConflicts records the email and username values already held by another account.
func (service *AuthService) collectConflicts(fields map[string]string, email string, username *string) error {
	if email != "" {
		exists, err := service.users.ExistsByEmail(email)
		if err != nil {
			return fmt.Errorf("check email uniqueness: %w", err)
		}
		if exists {
			fields["email"] = "user with this email already exists."
		}
	}
	if username != nil {
		exists, err := service.users.ExistsByUsername(*username)
		if err != nil {
			return fmt.Errorf("check username uniqueness: %w", err)
		}
		if exists {
			fields["username"] = "A user with that username already exists."
		}
	}
	return nil
}

// duplicateUserError reports an insert that lost a race against a concurrent
// signup for the same email or username.
func (service *AuthService) duplicateUserError(email string, username *string) error {
	fields := make(map[string]string)
	if err := service.collectConflicts(fields, email, username); err != nil {
		return err
	}
	if len(fields) == 0 {
		fields["email"] = "user with this email already exists."
	}
	return validation.NewError(fields)
}

// Login authenticates a regular account by email. Superusers are refused.
func (service *AuthService) Login(emailRaw string, password string) (AuthResult, error) {
	result, err := service.login(emailRaw, password)
	recordLoginOutcome(metrics.FlowLogin, err)
	return result, err
}

func (service *AuthService) login(emailRaw string, password string) (AuthResult, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, password)
	if err != nil {
		return AuthResult{}, err
	}

	user, err := service.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logging.Warn().Str("email", email).Msg("login rejected: unknown email")
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive || !passwordMatches(user.PasswordHash, password) {
		logging.Warn().Uint("user_id", user.ID).Msg("login rejected: bad credentials")
		return AuthResult{}, ErrInvalidCredentials
	}
	if user.IsSuperuser {
		logging.Warn().Uint("user_id", user.ID).Msg("superuser attempted regular login")
		return AuthResult{}, ErrUseAdminEndpoint
	}

	token, err := service.IssueToken(user.ID)
	if err != nil {
		return AuthResult{}, err
	}
	logging.Info().Uint("user_id", user.ID).Msg("user logged in")
	return AuthResult{User: user, Token: token}, nil
}

// AdminLogin authenticates by case-insensitive username and requires superuser.
func (service *AuthService) AdminLogin(username string, password string) (AuthResult, error) {
	result, err := service.adminLogin(username, password)
	recordLoginOutcome(metrics.FlowAdminLogin, err)
	return result, err
}

func (service *AuthService) adminLogin(username string, password string) (AuthResult, error) {
	if username == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	user, err := service.users.FindByUsernameFold(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logging.Warn().Str("username", username).Msg("admin login rejected: unknown username")
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive || !passwordMatches(user.PasswordHash, password) {
		logging.Warn().Uint("user_id", user.ID).Msg("admin login rejected: bad credentials")
		return AuthResult{}, ErrInvalidCredentials
	}
	if !user.IsSuperuser {
		logging.Warn().Uint("user_id", user.ID).Msg("admin login rejected: not a superuser")
		return AuthResult{}, ErrNotAuthorized
	}

	now := service.now()
	if err := service.users.UpdateLastLogin(user.ID, now); err != nil {
		return AuthResult{}, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	token, err := service.IssueToken(user.ID)
	if err != nil {
		return AuthResult{}, err
	}
	logging.Info().Uint("user_id", user.ID).Msg("admin logged in")
	return AuthResult{User: user, Token: token}, nil
}

// IssueToken returns the user's current token, minting a new one only when
// none is stored or the stored one has expired.
func (service *AuthService) IssueToken(userID uint) (string, error) {
	now := service.now()

	existing, err := service.tokens.FindByUserID(userID)
	switch {
	case err == nil && !service.tokenExpired(existing, now):
		return existing.Token, nil
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return "", fmt.Errorf("load token: %w", err)
	}

	raw, err := BuildSessionToken(service.secretKey, userID, service.tokenTTL, now)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := service.tokens.Replace(&models.AuthToken{Token: raw, UserID: userID, CreatedAt: now}); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return raw, nil
}

// Authenticate resolves a presented token to its active user.
func (service *AuthService) Authenticate(rawToken string) (models.User, error) {
	now := service.now()

	claims, err := ParseSessionToken(service.secretKey, rawToken, now)
	if err != nil {
		return models.User{}, ErrUnauthenticated
	}

	stored, err := service.tokens.FindByToken(rawToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUnauthenticated
		}
		return models.User{}, fmt.Errorf("load token: %w", err)
	}
	if stored.UserID != claims.UserID || service.tokenExpired(stored, now) {
		return models.User{}, ErrUnauthenticated
	}

	user, err := service.users.FindByID(stored.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUnauthenticated
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return models.User{}, ErrUnauthenticated
	}
	return user, nil
}

// Logout revokes the user's token.
func (service *AuthService) Logout(userID uint) error {
	if err := service.tokens.DeleteByUserID(userID); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	logging.Info().Uint("user_id", userID).Msg("user logged out")
	return nil
}

func (service *AuthService) tokenExpired(token models.AuthToken, now time.Time) bool {
	if service.tokenTTL <= 0 {
		return false
	}
	return !now.Before(token.CreatedAt.Add(service.tokenTTL))
}

func passwordMatches(passwordHash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}

func recordLoginOutcome(flow string, err error) {
	switch {
	case err == nil:
		metrics.RecordAuthAttempt(flow, metrics.OutcomeSuccess)
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUseAdminEndpoint), errors.Is(err, ErrNotAuthorized):
		metrics.RecordAuthAttempt(flow, metrics.OutcomeRejected)
	default:
		metrics.RecordAuthAttempt(flow, metrics.OutcomeError)
	}
}
