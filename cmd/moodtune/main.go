package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/moodtune/internal/api"
	"github.com/terraincognita07/moodtune/internal/cli"
	"github.com/terraincognita07/moodtune/internal/config"
	"github.com/terraincognita07/moodtune/internal/db"
	"github.com/terraincognita07/moodtune/internal/logging"
	"github.com/terraincognita07/moodtune/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		logging.Err(err).Msg("moodtune exited")
		os.Exit(1)
	}
}

func run(args []string) error {
	command, rest := splitCommand(args)
	switch command {
	case "serve":
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cfg)
	case "createsuperuser":
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return createSuperuser(cfg, rest, os.Stdin, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q (expected serve or createsuperuser)", command)
	}
}

// splitCommand defaults to serve when no subcommand is given.
func splitCommand(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "serve", args
	}
	return args[0], args[1:]
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})
	time.Local = cfg.Location()
	return cfg, nil
}

func newServer(cfg *config.Config) (*fiber.App, error) {
	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	media, err := storage.NewFileStore(cfg.Media.Root, cfg.Media.URLPrefix)
	if err != nil {
		return nil, fmt.Errorf("media init failed: %w", err)
	}

	handler, err := api.NewHandler(database, cfg.Auth.SecretKey, cfg.Auth.TokenTTL, media)
	if err != nil {
		return nil, fmt.Errorf("handler init failed: %w", err)
	}

	return api.NewApp(handler, api.AppConfig{
		BodyLimit:   cfg.BodyLimitBytes(),
		CORSOrigins: cfg.Server.CORSOrigins,
	}), nil
}

func serve(cfg *config.Config) error {
	app, err := newServer(cfg)
	if err != nil {
		return err
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logging.Err(err).Msg("server shutdown failed")
		}
	}()

	logging.Info().
		Str("addr", cfg.Addr()).
		Str("db", cfg.Database.Path).
		Str("media", cfg.Media.Root).
		Str("tz", cfg.Location().String()).
		Msg("moodtune listening")
	return app.Listen(cfg.Addr())
}

func createSuperuser(cfg *config.Config, args []string, stdin *os.File, stdout io.Writer) error {
	flags := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	flags.SetOutput(stdout)
	email := flags.String("email", "", "email address of the new superuser")
	username := flags.String("username", "", "optional username, used by the admin login")
	passwordStdin := flags.Bool("password-stdin", false, "read the password from the first line of stdin")
	generate := flags.Bool("generate-password", false, "generate a random password and print it")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *passwordStdin && *generate {
		return errors.New("--password-stdin and --generate-password are mutually exclusive")
	}

	source := cli.TerminalPassword(stdin, stdout)
	switch {
	case *passwordStdin:
		source = cli.ReaderPassword(stdin)
	case *generate:
		source = cli.GeneratedPassword(16, stdout)
	}

	return cli.RunCreateSuperuserCommand(cli.SuperuserOptions{
		DBPath:    cfg.Database.Path,
		SecretKey: cfg.Auth.SecretKey,
		Email:     *email,
		Username:  *username,
		Password:  source,
		Out:       stdout,
	})
}
