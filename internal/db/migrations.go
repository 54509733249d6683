package db

import (
	"cmp"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/moodtune/internal/logging"
	embeddedmigrations "github.com/terraincognita07/moodtune/migrations"
	"gorm.io/gorm"
)

var migrationFilePattern = regexp.MustCompile(`^(\d+)_[\w-]+\.sql$`)

// schemaMigration records one applied migration file.
type schemaMigration struct {
	Version   string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

type migrationFile struct {
	version int
	name    string
	sql     string
}

func (file migrationFile) key() string {
	return strconv.Itoa(file.version)
}

func applyEmbeddedMigrations(database *gorm.DB) error {
	return applyMigrations(database, embeddedmigrations.Files)
}

// applyMigrations runs every pending *.sql file of files in version order.
// Each file runs in its own transaction and is recorded on success.
func applyMigrations(database *gorm.DB, files fs.FS) error {
	if err := database.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("prepare schema_migrations: %w", err)
	}

	pending, err := loadMigrations(files)
	if err != nil {
		return err
	}

	var applied []schemaMigration
	if err := database.Find(&applied).Error; err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, record := range applied {
		done[record.Version] = true
	}

	for _, migration := range pending {
		if done[migration.key()] {
			continue
		}
		if err := runMigration(database, migration); err != nil {
			return err
		}
		logging.Info().Str("migration", migration.name).Msg("applied schema migration")
	}
	return nil
}

func loadMigrations(files fs.FS) ([]migrationFile, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	migrations := make([]migrationFile, 0, len(names))
	owners := make(map[int]string, len(names))
	for _, name := range names {
		matches := migrationFilePattern.FindStringSubmatch(path.Base(name))
		if matches == nil {
			continue
		}
		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", name, err)
		}
		if owner, taken := owners[version]; taken {
			return nil, fmt.Errorf("duplicate migration version %d in %s and %s", version, owner, name)
		}
		owners[version] = name

		body, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		migrations = append(migrations, migrationFile{version: version, name: name, sql: string(body)})
	}

	slices.SortFunc(migrations, func(a, b migrationFile) int {
		return cmp.Compare(a.version, b.version)
	})
	return migrations, nil
}

func runMigration(database *gorm.DB, migration migrationFile) error {
	statements := splitSQLStatements(migration.sql)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s has no statements", migration.name)
	}

	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range statements {
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("migration %s: %w", migration.name, err)
			}
		}
		record := schemaMigration{Version: migration.key(), Name: migration.name, AppliedAt: time.Now().UTC()}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", migration.name, err)
		}
		return nil
	})
}

// splitSQLStatements splits on ';'. Migration files must not put semicolons inside literals.
func splitSQLStatements(sqlText string) []string {
	var statements []string
	for _, part := range strings.Split(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}
