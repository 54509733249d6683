package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testSecretKey = []byte("0123456789abcdef0123456789abcdef")

type stubAuthUserRepo struct {
	users         []models.User
	findErr       error
	lastLoginByID map[uint]time.Time
	beforeCreate  func()
}

func (stub *stubAuthUserRepo) FindByID(userID uint) (models.User, error) {
	for _, user := range stub.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *stubAuthUserRepo) FindByEmail(email string) (models.User, error) {
	if stub.findErr != nil {
		return models.User{}, stub.findErr
	}
	for _, user := range stub.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *stubAuthUserRepo) FindByUsernameFold(username string) (models.User, error) {
	if stub.findErr != nil {
		return models.User{}, stub.findErr
	}
	for _, user := range stub.users {
		if strings.EqualFold(user.UsernameValue(), username) {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *stubAuthUserRepo) ExistsByEmail(email string) (bool, error) {
	_, err := stub.FindByEmail(email)
	return err == nil, nil
}

func (stub *stubAuthUserRepo) ExistsByUsername(username string) (bool, error) {
	for _, user := range stub.users {
		if user.UsernameValue() == username {
			return true, nil
		}
	}
	return false, nil
}

func (stub *stubAuthUserRepo) Create(user *models.User) error {
	if stub.beforeCreate != nil {
		stub.beforeCreate()
	}
	for _, existing := range stub.users {
		if existing.Email == user.Email || (user.Username != nil && existing.UsernameValue() == *user.Username) {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = uint(len(stub.users) + 1)
	stub.users = append(stub.users, *user)
	return nil
}

func (stub *stubAuthUserRepo) UpdateLastLogin(userID uint, at time.Time) error {
	if stub.lastLoginByID == nil {
		stub.lastLoginByID = make(map[uint]time.Time)
	}
	stub.lastLoginByID[userID] = at
	return nil
}

type stubAuthTokenRepo struct {
	byUser       map[uint]models.AuthToken
	replaceCalls int
}

func newStubAuthTokenRepo() *stubAuthTokenRepo {
	return &stubAuthTokenRepo{byUser: make(map[uint]models.AuthToken)}
}

func (stub *stubAuthTokenRepo) FindByUserID(userID uint) (models.AuthToken, error) {
	token, ok := stub.byUser[userID]
	if !ok {
		return models.AuthToken{}, gorm.ErrRecordNotFound
	}
	return token, nil
}

func (stub *stubAuthTokenRepo) FindByToken(raw string) (models.AuthToken, error) {
	for _, token := range stub.byUser {
		if token.Token == raw {
			return token, nil
		}
	}
	return models.AuthToken{}, gorm.ErrRecordNotFound
}

func (stub *stubAuthTokenRepo) Replace(token *models.AuthToken) error {
	stub.replaceCalls++
	stub.byUser[token.UserID] = *token
	return nil
}

func (stub *stubAuthTokenRepo) DeleteByUserID(userID uint) error {
	delete(stub.byUser, userID)
	return nil
}

func hashForTest(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func stringPointer(value string) *string {
	return &value
}

func newAuthServiceForTest(t *testing.T, ttl time.Duration, users ...models.User) (*AuthService, *stubAuthUserRepo, *stubAuthTokenRepo) {
	t.Helper()
	userRepo := &stubAuthUserRepo{users: users}
	tokenRepo := newStubAuthTokenRepo()
	return NewAuthService(userRepo, tokenRepo, testSecretKey, ttl), userRepo, tokenRepo
}

func TestAuthServiceSignupCreatesUserAndToken(t *testing.T) {
	service, userRepo, tokenRepo := newAuthServiceForTest(t, 0)

	result, err := service.Signup(SignupInput{
		Email:           "Listener@Example.COM",
		Username:        "listener",
		Password:        "violet-harbor-92",
		ConfirmPassword: "violet-harbor-92",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if result.User.Email != "Listener@example.com" {
		t.Fatalf("expected normalized email, got %q", result.User.Email)
	}
	if !result.User.IsActive || result.User.IsStaff || result.User.IsSuperuser {
		t.Fatalf("unexpected role flags on new user: %#v", result.User)
	}
	if result.Token == "" || tokenRepo.byUser[result.User.ID].Token != result.Token {
		t.Fatal("expected signup token to be stored")
	}
	if len(userRepo.users) != 1 {
		t.Fatalf("expected one stored user, got %d", len(userRepo.users))
	}
}

func TestAuthServiceSignupRejectsDuplicateEmail(t *testing.T) {
	existing := models.User{ID: 1, Email: "dup@example.com", PasswordHash: "x", IsActive: true}
	service, userRepo, _ := newAuthServiceForTest(t, 0, existing)

	_, err := service.Signup(SignupInput{
		Email:           "dup@example.com",
		Password:        "violet-harbor-92",
		ConfirmPassword: "violet-harbor-92",
	})
	var validationErr *validation.Error
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := validationErr.Fields()["email"]; !ok {
		t.Fatalf("expected email field error, got %#v", validationErr.Fields())
	}
	if len(userRepo.users) != 1 {
		t.Fatalf("expected no new user, got %d users", len(userRepo.users))
	}
}

func TestAuthServiceSignupReportsEmailTakenDuringInsert(t *testing.T) {
	service, userRepo, _ := newAuthServiceForTest(t, 0)
	userRepo.beforeCreate = func() {
		userRepo.users = append(userRepo.users, models.User{ID: 99, Email: "race@example.com", PasswordHash: "x", IsActive: true})
	}

	_, err := service.Signup(SignupInput{
		Email:           "race@example.com",
		Password:        "violet-harbor-92",
		ConfirmPassword: "violet-harbor-92",
	})
	expectFieldError(t, err, "email", "user with this email already exists.")
	if len(userRepo.users) != 1 {
		t.Fatalf("expected only the concurrent user, got %d users", len(userRepo.users))
	}
}

func TestAuthServiceSignupReportsUsernameTakenDuringInsert(t *testing.T) {
	service, userRepo, _ := newAuthServiceForTest(t, 0)
	userRepo.beforeCreate = func() {
		userRepo.users = append(userRepo.users, models.User{ID: 99, Email: "other@example.com", Username: stringPointer("racer"), PasswordHash: "x", IsActive: true})
	}

	_, err := service.Signup(SignupInput{
		Email:           "racer@example.com",
		Username:        "racer",
		Password:        "violet-harbor-92",
		ConfirmPassword: "violet-harbor-92",
	})
	expectFieldError(t, err, "username", "A user with that username already exists.")
}

func TestAuthServiceSignupCollectsFieldErrors(t *testing.T) {
	existing := models.User{ID: 1, Email: "a@example.com", Username: stringPointer("taken"), PasswordHash: "x", IsActive: true}
	service, _, _ := newAuthServiceForTest(t, 0, existing)

	_, err := service.Signup(SignupInput{
		Email:           "b@example.com",
		Username:        "taken",
		Password:        "12345",
		ConfirmPassword: "54321",
	})
	var validationErr *validation.Error
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"username", "password", "confirm_password"} {
		if _, ok := validationErr.Fields()[field]; !ok {
			t.Fatalf("expected %s field error, got %#v", field, validationErr.Fields())
		}
	}
}

func TestAuthServiceLoginRejectsSuperuser(t *testing.T) {
	admin := models.User{ID: 7, Email: "root@example.com", PasswordHash: hashForTest(t, "violet-harbor-92"), IsSuperuser: true, IsStaff: true, IsActive: true}
	service, _, tokenRepo := newAuthServiceForTest(t, 0, admin)

	_, err := service.Login("root@example.com", "violet-harbor-92")
	if !errors.Is(err, ErrUseAdminEndpoint) {
		t.Fatalf("expected ErrUseAdminEndpoint, got %v", err)
	}
	if len(tokenRepo.byUser) != 0 {
		t.Fatal("expected no token for superuser on regular login")
	}
}

func TestAuthServiceLoginFailuresAreIndistinguishable(t *testing.T) {
	user := models.User{ID: 3, Email: "user@example.com", PasswordHash: hashForTest(t, "violet-harbor-92"), IsActive: true}
	inactive := models.User{ID: 4, Email: "gone@example.com", PasswordHash: hashForTest(t, "violet-harbor-92"), IsActive: false}
	service, _, _ := newAuthServiceForTest(t, 0, user, inactive)

	for _, attempt := range []struct{ email, password string }{
		{"missing@example.com", "violet-harbor-92"},
		{"user@example.com", "wrong-password"},
		{"gone@example.com", "violet-harbor-92"},
	} {
		if _, err := service.Login(attempt.email, attempt.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %s, got %v", attempt.email, err)
		}
	}
}

func TestAuthServiceLoginReusesExistingToken(t *testing.T) {
	user := models.User{ID: 3, Email: "user@example.com", PasswordHash: hashForTest(t, "violet-harbor-92"), IsActive: true}
	service, _, tokenRepo := newAuthServiceForTest(t, 0, user)

	first, err := service.Login("user@example.com", "violet-harbor-92")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := service.Login("user@example.com", "violet-harbor-92")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if first.Token != second.Token {
		t.Fatal("expected second login to reuse the token")
	}
	if tokenRepo.replaceCalls != 1 {
		t.Fatalf("expected one token write, got %d", tokenRepo.replaceCalls)
	}
}

func TestAuthServiceIssueTokenReplacesExpiredToken(t *testing.T) {
	service, _, tokenRepo := newAuthServiceForTest(t, time.Hour)
	current := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return current }

	first, err := service.IssueToken(5)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	current = current.Add(2 * time.Hour)
	second, err := service.IssueToken(5)
	if err != nil {
		t.Fatalf("reissue token: %v", err)
	}
	if first == second {
		t.Fatal("expected expired token to be replaced")
	}
	if tokenRepo.byUser[5].Token != second {
		t.Fatal("expected replacement to be stored")
	}
}

func TestAuthServiceAdminLoginIsCaseInsensitive(t *testing.T) {
	admin := models.User{ID: 1, Email: "root@example.com", Username: stringPointer("Admin"), PasswordHash: hashForTest(t, "violet-harbor-92"), IsSuperuser: true, IsStaff: true, IsActive: true}
	service, userRepo, _ := newAuthServiceForTest(t, 0, admin)

	upper, err := service.AdminLogin("Admin", "violet-harbor-92")
	if err != nil {
		t.Fatalf("admin login with original case: %v", err)
	}
	lower, err := service.AdminLogin("admin", "violet-harbor-92")
	if err != nil {
		t.Fatalf("admin login with lower case: %v", err)
	}
	if upper.User.ID != lower.User.ID {
		t.Fatalf("expected the same account, got %d and %d", upper.User.ID, lower.User.ID)
	}
	if _, ok := userRepo.lastLoginByID[1]; !ok {
		t.Fatal("expected last login to be recorded")
	}
}

func TestAuthServiceAdminLoginDistinguishesNonSuperuser(t *testing.T) {
	regular := models.User{ID: 2, Email: "user@example.com", Username: stringPointer("regular"), PasswordHash: hashForTest(t, "violet-harbor-92"), IsActive: true}
	service, _, tokenRepo := newAuthServiceForTest(t, 0, regular)

	if _, err := service.AdminLogin("regular", "violet-harbor-92"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if _, err := service.AdminLogin("regular", "bad-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.AdminLogin("nobody", "violet-harbor-92"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	if len(tokenRepo.byUser) != 0 {
		t.Fatal("expected no token for rejected admin logins")
	}
}

func TestAuthServiceLoginSurfacesStorageErrors(t *testing.T) {
	service, userRepo, _ := newAuthServiceForTest(t, 0)
	userRepo.findErr = errors.New("disk unavailable")

	_, err := service.Login("user@example.com", "violet-harbor-92")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected storage error distinct from bad credentials, got %v", err)
	}
}

func TestAuthServiceAuthenticate(t *testing.T) {
	user := models.User{ID: 3, Email: "user@example.com", PasswordHash: "x", IsActive: true}
	service, userRepo, tokenRepo := newAuthServiceForTest(t, 0, user)

	token, err := service.IssueToken(3)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	resolved, err := service.Authenticate(token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if resolved.ID != 3 {
		t.Fatalf("expected user 3, got %d", resolved.ID)
	}

	if _, err := service.Authenticate("garbage"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for garbage, got %v", err)
	}

	forged, err := BuildSessionToken([]byte("another-secret-another-secret-00"), 3, 0, time.Now())
	if err != nil {
		t.Fatalf("build forged token: %v", err)
	}
	if _, err := service.Authenticate(forged); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for forged token, got %v", err)
	}

	userRepo.users[0].IsActive = false
	if _, err := service.Authenticate(token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for inactive user, got %v", err)
	}

	userRepo.users[0].IsActive = true
	if err := service.Logout(3); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(tokenRepo.byUser) != 0 {
		t.Fatal("expected logout to remove the token")
	}
	if _, err := service.Authenticate(token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after logout, got %v", err)
	}
}

func TestAuthServiceCreateSuperuser(t *testing.T) {
	service, userRepo, tokenRepo := newAuthServiceForTest(t, 0)

	user, err := service.CreateSuperuser("root@example.com", "root", "violet-harbor-92")
	if err != nil {
		t.Fatalf("create superuser: %v", err)
	}
	if !user.IsSuperuser || !user.IsStaff {
		t.Fatalf("expected staff superuser, got %#v", user)
	}
	if len(userRepo.users) != 1 || len(tokenRepo.byUser) != 0 {
		t.Fatal("expected a stored user and no token")
	}

	if _, err := service.CreateSuperuser("root@example.com", "root2", "violet-harbor-92"); !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected validation error for duplicate email, got %v", err)
	}
}
