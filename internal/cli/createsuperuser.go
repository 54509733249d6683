package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/terraincognita07/moodtune/internal/db"
	"github.com/terraincognita07/moodtune/internal/logging"
	"github.com/terraincognita07/moodtune/internal/security"
	"github.com/terraincognita07/moodtune/internal/services"
	"github.com/terraincognita07/moodtune/internal/validation"
)

const generatedPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// PasswordSource yields the password for a new account.
type PasswordSource func() (string, error)

type SuperuserOptions struct {
	DBPath    string
	SecretKey string
	Email     string
	Username  string
	Password  PasswordSource
	Out       io.Writer
}

// RunCreateSuperuserCommand creates an active staff superuser. It is the
// only way to obtain an account that can use the admin login.
func RunCreateSuperuserCommand(options SuperuserOptions) error {
	if strings.TrimSpace(options.Email) == "" {
		return errors.New("email is required")
	}
	if options.Password == nil {
		return errors.New("password source is required")
	}
	out := options.Out
	if out == nil {
		out = os.Stdout
	}

	password, err := options.Password()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	database, err := db.OpenSQLite(options.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	repositories := db.NewRepositories(database)
	authService := services.NewAuthService(repositories.Users, repositories.Tokens, []byte(options.SecretKey), 0)

	user, err := authService.CreateSuperuser(options.Email, options.Username, password)
	if err != nil {
		return describeCreateError(err)
	}

	logging.Info().Uint("user_id", user.ID).Str("email", user.Email).Msg("superuser created")
	fmt.Fprintf(out, "Superuser %s created.\n", user.Email)
	return nil
}

func describeCreateError(err error) error {
	var validationErr *validation.Error
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("create superuser: %w", err)
	}

	fields := validationErr.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	problems := make([]string, 0, len(names))
	for _, name := range names {
		problems = append(problems, fmt.Sprintf("%s: %s", name, fields[name]))
	}
	return fmt.Errorf("create superuser: %s", strings.Join(problems, "; "))
}

// ReaderPassword reads the first line of reader, for --password-stdin.
func ReaderPassword(reader io.Reader) PasswordSource {
	return func() (string, error) {
		password, err := readLine(reader)
		if err != nil {
			return "", err
		}
		if password == "" {
			return "", errors.New("empty password on stdin")
		}
		return password, nil
	}
}

// TerminalPassword prompts twice without echo and requires both entries to match.
func TerminalPassword(stdin *os.File, prompt io.Writer) PasswordSource {
	return func() (string, error) {
		fmt.Fprint(prompt, "Password: ")
		first, err := readHiddenLine(stdin)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		fmt.Fprint(prompt, "Password (again): ")
		second, err := readHiddenLine(stdin)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		if first != second {
			return "", errors.New("passwords do not match")
		}
		return first, nil
	}
}

// GeneratedPassword creates a random password and prints it once to out.
func GeneratedPassword(length int, out io.Writer) PasswordSource {
	return func() (string, error) {
		password, err := generateTemporaryPassword(length)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(out, "Generated password: %s\n", password)
		return password, nil
	}
}

func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}
	return security.RandomString(length, generatedPasswordAlphabet)
}
