package storage

import (
	"context"
	"time"

	"github.com/julianstephens/cleanstreak/internal/models"
)

// Provider is the entry store and settings store behind every command.
// Lookups of missing rows return errors wrapping errors.ErrNotFound.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error

	// Users
	AddUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) error

	// Habits
	AddHabit(ctx context.Context, habit models.Habit) error
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	GetHabitsForUser(ctx context.Context, userID string, includeInactive bool) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, habit models.Habit) error
	// DeleteHabit removes the habit with its entries and achievements
	DeleteHabit(ctx context.Context, id string) error
	CountHabits(ctx context.Context, userID string) (int, error)
	CountActiveHabits(ctx context.Context, userID string) (int, error)

	// Habit Entries
	GetEntriesForHabit(ctx context.Context, habitID string) ([]models.HabitEntry, error)
	GetEntryForDay(ctx context.Context, habitID, day string) (models.HabitEntry, error)
	// UpsertEntry inserts or replaces the entry keyed by (habit, day). An
	// existing row keeps its id and created_at.
	UpsertEntry(ctx context.Context, entry models.HabitEntry) error

	// Achievements
	AchievementExists(ctx context.Context, userID, habitID string, t models.AchievementType) (bool, error)
	CountHabitAchievements(ctx context.Context, habitID string) (int, error)
	// InsertAchievements skips rows that collide on (user, habit, type) and
	// returns the rows actually written.
	InsertAchievements(ctx context.Context, batch []models.Achievement) ([]models.Achievement, error)
	GetAchievement(ctx context.Context, id string) (models.Achievement, error)
	GetAchievementsForUser(ctx context.Context, userID string) ([]models.Achievement, error)
	GetAchievementsForHabit(ctx context.Context, habitID string) ([]models.Achievement, error)
	GetRecentAchievements(ctx context.Context, userID string, limit int) ([]models.Achievement, error)
	GetAchievementsSince(ctx context.Context, userID string, since time.Time) ([]models.Achievement, error)
	MarkAchievementViewed(ctx context.Context, id string) error
	MarkAllAchievementsViewed(ctx context.Context, userID string) error
	CountAchievements(ctx context.Context, userID string) (int, error)
	CountUnviewedAchievements(ctx context.Context, userID string) (int, error)

	// Utils
	GetConfigPath() string
}
