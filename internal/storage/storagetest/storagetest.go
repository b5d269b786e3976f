// Package storagetest is a behavioural suite shared by every storage backend.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/models"
	"github.com/julianstephens/cleanstreak/internal/storage"
)

// Run exercises store, which must already be initialised. Rows use fresh
// UUIDs so the suite can run against a shared database.
func Run(t *testing.T, store storage.Provider) {
	t.Helper()
	ctx := context.Background()

	t.Run("Settings", func(t *testing.T) { testSettings(ctx, t, store) })
	t.Run("Users", func(t *testing.T) { testUsers(ctx, t, store) })
	t.Run("Habits", func(t *testing.T) { testHabits(ctx, t, store) })
	t.Run("Entries", func(t *testing.T) { testEntries(ctx, t, store) })
	t.Run("Achievements", func(t *testing.T) { testAchievements(ctx, t, store) })
	t.Run("ConcurrentAchievementInsert", func(t *testing.T) { testConcurrentAchievementInsert(ctx, t, store) })
	t.Run("DeleteCascades", func(t *testing.T) { testDeleteCascades(ctx, t, store) })
}

var base = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

// NewUser inserts and returns a user with a unique email
func NewUser(ctx context.Context, t *testing.T, store storage.Provider) models.User {
	t.Helper()
	id := uuid.NewString()
	u := models.User{
		ID:           id,
		Email:        id + "@example.com",
		Name:         "Test User",
		PasswordHash: "hash",
		JoinedAt:     base,
	}
	if err := store.AddUser(ctx, u); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	return u
}

// NewHabit inserts and returns an active habit owned by userID
func NewHabit(ctx context.Context, t *testing.T, store storage.Provider, userID string) models.Habit {
	t.Helper()
	target := 30
	cost := 4.5
	h := models.Habit{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        "No smoking",
		Description: "Quit cigarettes",
		Category:    models.CategorySmoking,
		StartDate:   "2026-02-01",
		TargetDays:  &target,
		DailyCost:   &cost,
		Active:      true,
		CreatedAt:   base,
		UpdatedAt:   base,
	}
	if err := store.AddHabit(ctx, h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	return h
}

func testSettings(ctx context.Context, t *testing.T, store storage.Provider) {
	key := "test:" + uuid.NewString()

	if _, err := store.GetSetting(ctx, key); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing setting, got %v", err)
	}
	if err := store.SetSetting(ctx, key, "one"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := store.SetSetting(ctx, key, "two"); err != nil {
		t.Fatalf("SetSetting overwrite failed: %v", err)
	}
	v, err := store.GetSetting(ctx, key)
	if err != nil || v != "two" {
		t.Fatalf("GetSetting = %q, %v; want \"two\"", v, err)
	}
	if err := store.DeleteSetting(ctx, key); err != nil {
		t.Fatalf("DeleteSetting failed: %v", err)
	}
	if _, err := store.GetSetting(ctx, key); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func testUsers(ctx context.Context, t *testing.T, store storage.Provider) {
	u := NewUser(ctx, t, store)

	got, err := store.GetUserByEmail(ctx, u.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != u.ID || !got.JoinedAt.Equal(u.JoinedAt) || got.LastLoginAt != nil {
		t.Errorf("unexpected user: %+v", got)
	}

	dup := u
	dup.ID = uuid.NewString()
	if err := store.AddUser(ctx, dup); err == nil {
		t.Error("expected duplicate email to be rejected")
	}

	login := base.Add(time.Hour)
	u.LastLoginAt = &login
	u.Name = "Renamed"
	if err := store.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	got, err = store.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Name != "Renamed" || got.LastLoginAt == nil || !got.LastLoginAt.Equal(login) {
		t.Errorf("update not persisted: %+v", got)
	}

	if _, err := store.GetUser(ctx, uuid.NewString()); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found for unknown user, got %v", err)
	}
}

func testHabits(ctx context.Context, t *testing.T, store storage.Provider) {
	u := NewUser(ctx, t, store)
	h := NewHabit(ctx, t, store, u.ID)

	got, err := store.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.TargetDays == nil || *got.TargetDays != 30 || got.DailyCost == nil || *got.DailyCost != 4.5 {
		t.Errorf("optional fields not round-tripped: %+v", got)
	}
	if !got.Active || got.Category != models.CategorySmoking {
		t.Errorf("unexpected habit: %+v", got)
	}

	h.CurrentStreak = 3
	h.LongestStreak = 5
	h.TargetDays = nil
	h.Active = false
	h.UpdatedAt = base.Add(time.Hour)
	if err := store.UpdateHabit(ctx, h); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}
	got, err = store.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentStreak != 3 || got.LongestStreak != 5 || got.TargetDays != nil || got.Active {
		t.Errorf("update not persisted: %+v", got)
	}

	NewHabit(ctx, t, store, u.ID)
	active, err := store.GetHabitsForUser(ctx, u.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	all, err := store.GetHabitsForUser(ctx, u.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || len(all) != 2 {
		t.Errorf("expected 1 active of 2 habits, got %d of %d", len(active), len(all))
	}

	n, err := store.CountHabits(ctx, u.ID)
	if err != nil || n != 2 {
		t.Errorf("CountHabits = %d, %v", n, err)
	}
	n, err = store.CountActiveHabits(ctx, u.ID)
	if err != nil || n != 1 {
		t.Errorf("CountActiveHabits = %d, %v", n, err)
	}

	missing := h
	missing.ID = uuid.NewString()
	if err := store.UpdateHabit(ctx, missing); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found updating unknown habit, got %v", err)
	}
}

func testEntries(ctx context.Context, t *testing.T, store storage.Provider) {
	u := NewUser(ctx, t, store)
	h := NewHabit(ctx, t, store, u.ID)

	mood := models.MoodGood
	first := models.HabitEntry{
		ID:         uuid.NewString(),
		HabitID:    h.ID,
		UserID:     u.ID,
		Day:        "2026-02-02",
		Successful: true,
		Note:       "easy",
		Mood:       &mood,
		CreatedAt:  base,
		UpdatedAt:  base,
	}
	if err := store.UpsertEntry(ctx, first); err != nil {
		t.Fatalf("UpsertEntry failed: %v", err)
	}

	replacement := first
	replacement.ID = uuid.NewString()
	replacement.Successful = false
	replacement.Note = ""
	replacement.Mood = nil
	replacement.CreatedAt = base.Add(time.Hour)
	replacement.UpdatedAt = base.Add(time.Hour)
	if err := store.UpsertEntry(ctx, replacement); err != nil {
		t.Fatalf("second UpsertEntry failed: %v", err)
	}

	got, err := store.GetEntryForDay(ctx, h.ID, "2026-02-02")
	if err != nil {
		t.Fatalf("GetEntryForDay failed: %v", err)
	}
	if got.ID != first.ID || !got.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("upsert should keep identity and created_at, got %+v", got)
	}
	if got.Successful || got.Note != "" || got.Mood != nil || !got.UpdatedAt.Equal(replacement.UpdatedAt) {
		t.Errorf("upsert should overwrite outcome fields, got %+v", got)
	}

	earlier := first
	earlier.ID = uuid.NewString()
	earlier.Day = "2026-02-01"
	if err := store.UpsertEntry(ctx, earlier); err != nil {
		t.Fatal(err)
	}

	entries, err := store.GetEntriesForHabit(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Day != "2026-02-01" || entries[1].Day != "2026-02-02" {
		t.Errorf("expected two entries in day order, got %+v", entries)
	}
	if entries[0].Mood == nil || *entries[0].Mood != models.MoodGood {
		t.Errorf("mood not round-tripped: %+v", entries[0])
	}

	if _, err := store.GetEntryForDay(ctx, h.ID, "2030-01-01"); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found for empty day, got %v", err)
	}
}

func testAchievements(ctx context.Context, t *testing.T, store storage.Provider) {
	u := NewUser(ctx, t, store)
	h := NewHabit(ctx, t, store, u.ID)

	mk := func(habitID string, typ models.AchievementType, at time.Time) models.Achievement {
		return models.Achievement{
			ID:          uuid.NewString(),
			HabitID:     habitID,
			UserID:      u.ID,
			Type:        typ,
			UnlockedAt:  at,
			Title:       string(typ),
			Description: "test",
		}
	}

	inserted, err := store.InsertAchievements(ctx, []models.Achievement{
		mk(h.ID, models.AchievementFirstDay, base),
		mk(h.ID, models.AchievementWeekStreak, base.Add(time.Minute)),
		mk("", models.AchievementMultipleHabits, base.Add(2*time.Minute)),
	})
	if err != nil {
		t.Fatalf("InsertAchievements failed: %v", err)
	}
	if len(inserted) != 3 {
		t.Fatalf("expected 3 inserted, got %d", len(inserted))
	}

	// Duplicates are skipped rather than failing the batch
	inserted, err = store.InsertAchievements(ctx, []models.Achievement{
		mk(h.ID, models.AchievementFirstDay, base.Add(time.Hour)),
		mk("", models.AchievementMultipleHabits, base.Add(time.Hour)),
		mk(h.ID, models.AchievementMonthStreak, base.Add(time.Hour)),
	})
	if err != nil {
		t.Fatalf("InsertAchievements with duplicates failed: %v", err)
	}
	if len(inserted) != 1 || inserted[0].Type != models.AchievementMonthStreak {
		t.Fatalf("expected only MONTH_STREAK inserted, got %+v", inserted)
	}

	exists, err := store.AchievementExists(ctx, u.ID, h.ID, models.AchievementFirstDay)
	if err != nil || !exists {
		t.Errorf("AchievementExists(FIRST_DAY) = %v, %v", exists, err)
	}
	exists, err = store.AchievementExists(ctx, u.ID, "", models.AchievementMultipleHabits)
	if err != nil || !exists {
		t.Errorf("AchievementExists(user-level) = %v, %v", exists, err)
	}
	exists, err = store.AchievementExists(ctx, u.ID, h.ID, models.AchievementComeback)
	if err != nil || exists {
		t.Errorf("AchievementExists(COMEBACK) = %v, %v", exists, err)
	}

	n, err := store.CountHabitAchievements(ctx, h.ID)
	if err != nil || n != 3 {
		t.Errorf("CountHabitAchievements = %d, %v; want 3", n, err)
	}

	all, err := store.GetAchievementsForUser(ctx, u.ID)
	if err != nil || len(all) != 4 {
		t.Fatalf("GetAchievementsForUser = %d, %v; want 4", len(all), err)
	}
	if all[0].Type != models.AchievementMonthStreak {
		t.Errorf("expected newest first, got %s", all[0].Type)
	}

	recent, err := store.GetRecentAchievements(ctx, u.ID, 2)
	if err != nil || len(recent) != 2 {
		t.Errorf("GetRecentAchievements = %d, %v; want 2", len(recent), err)
	}

	since, err := store.GetAchievementsSince(ctx, u.ID, base.Add(30*time.Minute))
	if err != nil || len(since) != 1 {
		t.Errorf("GetAchievementsSince = %d, %v; want 1", len(since), err)
	}

	forHabit, err := store.GetAchievementsForHabit(ctx, h.ID)
	if err != nil || len(forHabit) != 3 {
		t.Errorf("GetAchievementsForHabit = %d, %v; want 3", len(forHabit), err)
	}

	unviewed, err := store.CountUnviewedAchievements(ctx, u.ID)
	if err != nil || unviewed != 4 {
		t.Errorf("CountUnviewedAchievements = %d, %v; want 4", unviewed, err)
	}
	if err := store.MarkAchievementViewed(ctx, all[0].ID); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetAchievement(ctx, all[0].ID)
	if err != nil || !got.Viewed {
		t.Errorf("achievement not marked viewed: %+v, %v", got, err)
	}
	if err := store.MarkAllAchievementsViewed(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	unviewed, _ = store.CountUnviewedAchievements(ctx, u.ID)
	total, _ := store.CountAchievements(ctx, u.ID)
	if unviewed != 0 || total != 4 {
		t.Errorf("after mark all: unviewed=%d total=%d", unviewed, total)
	}

	if err := store.MarkAchievementViewed(ctx, uuid.NewString()); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found for unknown achievement, got %v", err)
	}
}

// testConcurrentAchievementInsert shows the unique index is the authority
// when two writers race past the existence check.
func testConcurrentAchievementInsert(ctx context.Context, t *testing.T, store storage.Provider) {
	u := NewUser(ctx, t, store)
	h := NewHabit(ctx, t, store, u.ID)

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := store.InsertAchievements(ctx, []models.Achievement{{
				ID:         uuid.NewString(),
				HabitID:    h.ID,
				UserID:     u.ID,
				Type:       models.AchievementFirstDay,
				UnlockedAt: base,
				Title:      "First Day",
			}})
			if err != nil {
				t.Errorf("InsertAchievements failed: %v", err)
				return
			}
			mu.Lock()
			total += len(inserted)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if total != 1 {
		t.Errorf("expected exactly one insert to win, got %d", total)
	}
}

func testDeleteCascades(ctx context.Context, t *testing.T, store storage.Provider) {
	u := NewUser(ctx, t, store)
	h := NewHabit(ctx, t, store, u.ID)

	if err := store.UpsertEntry(ctx, models.HabitEntry{
		ID: uuid.NewString(), HabitID: h.ID, UserID: u.ID, Day: "2026-02-03",
		Successful: true, CreatedAt: base, UpdatedAt: base,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.InsertAchievements(ctx, []models.Achievement{{
		ID: uuid.NewString(), HabitID: h.ID, UserID: u.ID, Type: models.AchievementFirstDay,
		UnlockedAt: base, Title: "First Day",
	}}); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteHabit(ctx, h.ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}

	if _, err := store.GetHabit(ctx, h.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected habit gone, got %v", err)
	}
	entries, err := store.GetEntriesForHabit(ctx, h.ID)
	if err != nil || len(entries) != 0 {
		t.Errorf("entries not cascaded: %d, %v", len(entries), err)
	}
	n, err := store.CountHabitAchievements(ctx, h.ID)
	if err != nil || n != 0 {
		t.Errorf("achievements not cascaded: %d, %v", n, err)
	}

	if err := store.DeleteHabit(ctx, h.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}
