package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/cleanstreak/internal/backup"
	"github.com/julianstephens/cleanstreak/internal/config"
	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/content"
	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/logger"
	"github.com/julianstephens/cleanstreak/internal/models"
	"github.com/julianstephens/cleanstreak/internal/notifier"
	"github.com/julianstephens/cleanstreak/internal/storage"
	"github.com/julianstephens/cleanstreak/internal/storage/sqlite"
	"github.com/julianstephens/cleanstreak/internal/tracker"
	"github.com/julianstephens/cleanstreak/internal/users"
)

type Context struct {
	Config   config.Config
	Store    storage.Provider
	Tracker  *tracker.Service
	Users    *users.Service
	Content  *content.Provider
	Notifier *notifier.Notifier
}

func NewContext(cfg config.Config, store storage.Provider) *Context {
	return &Context{
		Config:   cfg,
		Store:    store,
		Notifier: notifier.New(),
	}
}

// Open loads an existing store and wires the services around it
func (c *Context) Open() error {
	if err := c.Store.Load(); err != nil {
		return err
	}
	return c.Wire()
}

// Wire builds the services once the store is usable. The --timezone flag
// wins over the stored timezone setting.
func (c *Context) Wire() error {
	ctx := context.Background()

	tz := c.Config.Timezone
	if tz == "" {
		stored, err := c.Store.GetSetting(ctx, constants.SettingTimezone)
		if err != nil && !apperrors.IsNotFound(err) {
			return err
		}
		tz = stored
	}
	loc, err := config.Location(tz)
	if err != nil {
		return err
	}

	c.Users = users.New(c.Store)
	c.Tracker = tracker.New(c.Store,
		tracker.WithLocation(loc),
		tracker.WithUnlockHook(c.notifyUnlocked),
	)
	c.Content = content.NewProvider(
		content.NewClient(c.Config.QuotesURL, c.Config.FactsURL, c.Config.HTTPTimeout),
		c.Store,
		content.WithLocation(loc),
	)
	return nil
}

// notifyUnlocked forwards unlocks to the tray unless the owner opted out
func (c *Context) notifyUnlocked(ctx context.Context, unlocked []models.Achievement) {
	if len(unlocked) == 0 || c.Notifier == nil {
		return
	}
	settings, err := c.Users.Settings(ctx, unlocked[0].UserID)
	if err != nil {
		logger.Warn("Failed to read notification settings", "error", err)
		return
	}
	if !settings.NotificationsEnabled || !settings.AchievementNotifications {
		return
	}
	c.Notifier.AchievementHook(ctx, unlocked)
}

// UserID returns the logged-in user's id
func (c *Context) UserID(ctx context.Context) (string, error) {
	id, err := c.Users.CurrentID(ctx)
	if errors.Is(err, apperrors.ErrUnauthenticated) {
		return "", fmt.Errorf("%w: run '%s user login' first", err, constants.AppName)
	}
	return id, err
}

// IsSQLite reports whether the store is a local database file, the only
// kind backups apply to
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// PerformAutomaticBackup creates a backup when the user enabled it and
// silently handles errors
func (c *Context) PerformAutomaticBackup(ctx context.Context, userID string) {
	if !c.IsSQLite() {
		return
	}
	settings, err := c.Users.Settings(ctx, userID)
	if err != nil || !settings.DataBackupEnabled {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(ctx); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FindHabit resolves a habit reference: full id, unique id prefix, or name
// (case-insensitive). Archived habits are included.
func (c *Context) FindHabit(ctx context.Context, userID, ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Habit{}, apperrors.Validation("habit reference cannot be empty")
	}
	habits, err := c.Tracker.ListHabits(ctx, userID, true)
	if err != nil {
		return models.Habit{}, err
	}

	var matches []models.Habit
	for _, h := range habits {
		if h.ID == ref || strings.EqualFold(h.Name, ref) {
			return h, nil
		}
		if strings.HasPrefix(h.ID, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, apperrors.NotFound("habit %q", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, apperrors.Validation("habit reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}
