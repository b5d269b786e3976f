// Package clitest builds a wired command context over a temporary SQLite
// database for command tests.
package clitest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/cleanstreak/internal/cli"
	"github.com/julianstephens/cleanstreak/internal/config"
	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/models"
	"github.com/julianstephens/cleanstreak/internal/storage/sqlite"
	"github.com/julianstephens/cleanstreak/internal/users"
)

const Password = "secret123"

// Setup returns a context with an initialized store and no logged-in user.
// Desktop notifications are disabled.
func Setup(t *testing.T) *cli.Context {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Config{
		DB:          dbPath,
		Timezone:    "UTC",
		QuotesURL:   "http://127.0.0.1:0/",
		FactsURL:    "http://127.0.0.1:0/",
		HTTPTimeout: constants.DefaultHTTPTimeout,
	}
	ctx := cli.NewContext(cfg, store)
	ctx.Notifier = nil
	if err := ctx.Wire(); err != nil {
		t.Fatalf("failed to wire context: %v", err)
	}
	return ctx
}

// SetupWithUser also registers a user and logs them in
func SetupWithUser(t *testing.T) (*cli.Context, models.User) {
	t.Helper()
	ctx := Setup(t)
	user, err := ctx.Users.Register(context.Background(), users.RegisterRequest{
		Email:           "test@example.com",
		Password:        Password,
		ConfirmPassword: Password,
		Name:            "Test User",
	})
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	if err := ctx.Users.StartSession(context.Background(), user.ID); err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	return ctx, user
}
