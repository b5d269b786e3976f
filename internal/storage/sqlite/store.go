package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/logger"
	"github.com/julianstephens/cleanstreak/internal/migration"
	"github.com/julianstephens/cleanstreak/internal/storage/sqlstore"
	"github.com/julianstephens/cleanstreak/migrations"
)

type Store struct {
	*sqlstore.Store
	path string
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// dsn enables foreign keys and a busy timeout on every pooled connection
func (s *Store) dsn() string {
	return "file:" + s.path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection keeps writes serialized
	db.SetMaxOpenConns(1)
	s.Store = sqlstore.New(db, sqlstore.SQLite)
	return nil
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.Store == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	ctx := context.Background()
	if err := s.runMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := s.GetSetting(ctx, constants.SettingTimezone); err != nil {
		if err := s.SetSetting(ctx, constants.SettingTimezone, constants.DefaultTimezone); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load() error {
	if s.Store != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.migrationRunner().ValidateVersion(context.Background())
}

// Close releases the connection; a later Init or Load reopens it
func (s *Store) Close() error {
	if s.Store == nil {
		return nil
	}
	err := s.DB().Close()
	s.Store = nil
	return err
}

func (s *Store) migrationRunner() *migration.Runner {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		// The embedded tree always contains the directory
		panic(err)
	}
	return migration.NewRunner(s.DB(), subFS)
}

func (s *Store) runMigrations(ctx context.Context) error {
	_, err := s.migrationRunner().ApplyMigrations(ctx, func(msg string) {
		logger.Info(msg)
	})
	return err
}

// SchemaStatus reports the migration state for doctor
func (s *Store) SchemaStatus(ctx context.Context) (migration.Status, error) {
	return s.migrationRunner().Status(ctx)
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// TableExists reports whether name is a table, case-insensitively
func (s *Store) TableExists(ctx context.Context, name string) (bool, error) {
	var count int
	row := s.DB().QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", name)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
