package api

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/moodtune/internal/db"
	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testSecretKey = "0123456789abcdef0123456789abcdef"
	testPassword  = "violet-harbor-92"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type testEnv struct {
	app      *fiber.App
	handler  *Handler
	database *gorm.DB
	media    *storage.FileStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "moodtune-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	media, err := storage.NewFileStore(filepath.Join(t.TempDir(), "media"), "/media")
	if err != nil {
		t.Fatalf("init media store: %v", err)
	}

	handler, err := NewHandler(database, testSecretKey, 0, media)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := NewApp(handler, AppConfig{BodyLimit: 4 * 1024 * 1024, CORSOrigins: []string{"*"}})
	return &testEnv{app: app, handler: handler, database: database, media: media}
}

func (env *testEnv) createUser(t *testing.T, email string, username string, staff bool, superuser bool) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Email:        email,
		Username:     models.OptionalUsername(username),
		PasswordHash: string(hash),
		IsStaff:      staff,
		IsSuperuser:  superuser,
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}
	if err := env.database.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func (env *testEnv) tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := env.handler.authService.IssueToken(user.ID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (env *testEnv) do(t *testing.T, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Token "+token)
	}
	return env.send(t, request)
}

func (env *testEnv) doMultipart(t *testing.T, method string, path string, token string, fields map[string]string, image []byte) *http.Response {
	t.Helper()

	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", "capture.png")
		if err != nil {
			t.Fatalf("create image part: %v", err)
		}
		if _, err := part.Write(image); err != nil {
			t.Fatalf("write image part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	request := httptest.NewRequest(method, path, &buffer)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	return env.send(t, request)
}

func (env *testEnv) send(t *testing.T, request *http.Request) *http.Response {
	t.Helper()
	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func expectStatus(t *testing.T, response *http.Response, expected int) {
	t.Helper()
	if response.StatusCode != expected {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", expected, response.StatusCode, string(body))
	}
}

func decodeBody[T any](t *testing.T, response *http.Response) T {
	t.Helper()

	var payload T
	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode response body %q: %v", string(raw), err)
	}
	return payload
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()
	return decodeBody[map[string]any](t, response)["error"].(string)
}

func uintString(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}
