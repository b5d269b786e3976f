package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/cleanstreak/internal/cli"
	"github.com/julianstephens/cleanstreak/internal/config"
	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/storage/sqlite"
)

func TestInitCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "cleanstreak.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { store.Close() })
	ctx := cli.NewContext(config.Config{DB: dbPath}, store)
	ctx.Notifier = nil

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database not created: %v", err)
	}
	if ctx.Tracker == nil || ctx.Users == nil {
		t.Error("init should wire the services")
	}

	tz, err := store.GetSetting(context.Background(), constants.SettingTimezone)
	if err != nil || tz != constants.DefaultTimezone {
		t.Errorf("timezone setting = %q, %v", tz, err)
	}
}

func TestInitCmd_Force(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cleanstreak.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { store.Close() })
	ctx := cli.NewContext(config.Config{DB: dbPath}, store)
	ctx.Notifier = nil

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	bg := context.Background()
	if err := store.SetSetting(bg, "marker", "1"); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
	if _, err := store.GetSetting(bg, "marker"); err == nil {
		t.Error("forced init should start from an empty database")
	}
}
