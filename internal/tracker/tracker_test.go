package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/cleanstreak/internal/achievements"
	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/models"
	"github.com/julianstephens/cleanstreak/internal/storage"
	"github.com/julianstephens/cleanstreak/internal/storage/sqlite"
	"github.com/julianstephens/cleanstreak/internal/storage/storagetest"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	return c.t
}

func (c *clock) advance(days int) {
	c.t = c.t.AddDate(0, 0, days)
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)}
}

func setupStore(t *testing.T) storage.Provider {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func setup(t *testing.T, opts ...Option) (*Service, storage.Provider, *clock, models.User) {
	t.Helper()
	store := setupStore(t)
	c := newClock()
	opts = append([]Option{WithClock(c.now), WithLocation(time.UTC)}, opts...)
	svc := New(store, opts...)
	user := storagetest.NewUser(context.Background(), t, store)
	return svc, store, c, user
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func createHabit(t *testing.T, svc *Service, userID string, target *int, cost *float64) models.Habit {
	t.Helper()
	h, _, err := svc.CreateHabit(context.Background(), userID, NewHabit{
		Name:        "No smoking",
		Description: "Quit cigarettes",
		Category:    models.CategorySmoking,
		TargetDays:  target,
		DailyCost:   cost,
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	return h
}

func logDay(t *testing.T, svc *Service, h models.Habit, date time.Time, ok bool) ProgressResult {
	t.Helper()
	res, err := svc.LogProgress(context.Background(), LogRequest{
		HabitID:    h.ID,
		UserID:     h.UserID,
		Successful: ok,
		Date:       date,
	})
	if err != nil {
		t.Fatalf("LogProgress(%s) failed: %v", date.Format("2006-01-02"), err)
	}
	return res
}

func achievementTypes(t *testing.T, svc *Service, userID string) map[models.AchievementType]int {
	t.Helper()
	list, err := svc.ListAchievements(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListAchievements failed: %v", err)
	}
	out := make(map[models.AchievementType]int)
	for _, a := range list {
		out[a.Type]++
	}
	return out
}

func TestSevenDayStreak(t *testing.T) {
	svc, _, c, user := setup(t)
	ctx := context.Background()
	h := createHabit(t, svc, user.ID, intPtr(30), floatPtr(5.0))

	var last ProgressResult
	for i := 6; i >= 0; i-- {
		last = logDay(t, svc, h, c.now().AddDate(0, 0, -i), true)
	}
	if last.Habit.CurrentStreak != 7 || last.Habit.LongestStreak != 7 {
		t.Errorf("streaks = %d/%d, want 7/7", last.Habit.CurrentStreak, last.Habit.LongestStreak)
	}

	st, err := svc.GetHabitStatistics(ctx, h.ID, user.ID)
	if err != nil {
		t.Fatalf("GetHabitStatistics failed: %v", err)
	}
	if st.ProgressPercentage == nil || *st.ProgressPercentage != 23 {
		t.Errorf("progress = %v, want 23", st.ProgressPercentage)
	}
	if st.MoneySaved != 35.0 {
		t.Errorf("money saved = %v, want 35", st.MoneySaved)
	}
	if st.DaysRemaining == nil || *st.DaysRemaining != 23 {
		t.Errorf("days remaining = %v, want 23", st.DaysRemaining)
	}

	got := achievementTypes(t, svc, user.ID)
	if got[models.AchievementWeekStreak] != 1 {
		t.Errorf("expected WEEK_STREAK once, got %v", got)
	}
	if got[models.AchievementMonthStreak] != 0 {
		t.Errorf("MONTH_STREAK unlocked too early")
	}
	if got[models.AchievementComeback] != 0 {
		t.Errorf("COMEBACK unlocked without a relapse")
	}
}

func TestFailureBreaksStreak(t *testing.T) {
	svc, _, c, user := setup(t)
	h := createHabit(t, svc, user.ID, nil, nil)

	outcomes := []bool{true, true, false, true}
	var last ProgressResult
	for i, ok := range outcomes {
		last = logDay(t, svc, h, c.now().AddDate(0, 0, i-len(outcomes)+1), ok)
	}
	if last.Habit.CurrentStreak != 1 || last.Habit.LongestStreak != 2 {
		t.Errorf("streaks = %d/%d, want 1/2", last.Habit.CurrentStreak, last.Habit.LongestStreak)
	}
}

func TestGapResetsCurrentStreak(t *testing.T) {
	svc, _, c, user := setup(t)
	h := createHabit(t, svc, user.ID, nil, nil)

	first := c.now()
	logDay(t, svc, h, first, true)
	c.advance(3)
	res := logDay(t, svc, h, c.now(), true)

	if res.Habit.CurrentStreak != 1 {
		t.Errorf("current streak = %d, want 1", res.Habit.CurrentStreak)
	}
	// Longest only resets on a failed entry
	if res.Habit.LongestStreak != 2 {
		t.Errorf("longest streak = %d, want 2", res.Habit.LongestStreak)
	}
}

func TestSingleSkippedDayKeepsStreak(t *testing.T) {
	svc, _, c, user := setup(t)
	ctx := context.Background()
	h := createHabit(t, svc, user.ID, intPtr(10), floatPtr(5.0))

	logDay(t, svc, h, c.now().AddDate(0, 0, -3), true)
	logDay(t, svc, h, c.now().AddDate(0, 0, -2), true)
	res := logDay(t, svc, h, c.now(), true)

	if res.Habit.CurrentStreak != 3 || res.Habit.LongestStreak != 3 {
		t.Errorf("streaks = %d/%d, want 3/3", res.Habit.CurrentStreak, res.Habit.LongestStreak)
	}

	st, err := svc.GetHabitStatistics(ctx, h.ID, user.ID)
	if err != nil {
		t.Fatalf("GetHabitStatistics failed: %v", err)
	}
	if st.MoneySaved != 15.0 {
		t.Errorf("money saved = %v, want 15", st.MoneySaved)
	}
	if st.ProgressPercentage == nil || *st.ProgressPercentage != 30 {
		t.Errorf("progress = %v, want 30", st.ProgressPercentage)
	}
}

func TestStatisticsWithoutEntries(t *testing.T) {
	svc, _, _, user := setup(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		target       *int
		wantProgress *int
	}{
		{"no target", nil, nil},
		{"with target", intPtr(30), intPtr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createHabit(t, svc, user.ID, tt.target, floatPtr(3))
			st, err := svc.GetHabitStatistics(ctx, h.ID, user.ID)
			if err != nil {
				t.Fatalf("GetHabitStatistics failed: %v", err)
			}
			if st.SuccessRate != 0 || st.CurrentStreak != 0 || st.LongestStreak != 0 || st.MoneySaved != 0 {
				t.Errorf("unexpected statistics: %+v", st)
			}
			switch {
			case tt.wantProgress == nil && st.ProgressPercentage != nil:
				t.Errorf("progress = %d, want nil", *st.ProgressPercentage)
			case tt.wantProgress != nil && (st.ProgressPercentage == nil || *st.ProgressPercentage != *tt.wantProgress):
				t.Errorf("progress = %v, want %d", st.ProgressPercentage, *tt.wantProgress)
			}
		})
	}
}

func TestFirstHabitAndFirstDay(t *testing.T) {
	svc, _, c, user := setup(t)

	h, unlocked, err := svc.CreateHabit(context.Background(), user.ID, NewHabit{
		Name:        "  Less scrolling ",
		Description: "Phone stays in the drawer",
		Category:    models.CategorySocialMedia,
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if h.Name != "Less scrolling" {
		t.Errorf("name not trimmed: %q", h.Name)
	}
	if h.StartDate != "2026-05-10" || !h.Active {
		t.Errorf("unexpected new habit: %+v", h)
	}
	if len(unlocked) != 1 || unlocked[0].Type != models.AchievementFirstHabit {
		t.Fatalf("expected FIRST_HABIT on creation, got %+v", unlocked)
	}

	res := logDay(t, svc, h, c.now(), true)
	if res.AchievementErr != nil {
		t.Fatalf("unexpected achievement error: %v", res.AchievementErr)
	}

	got := achievementTypes(t, svc, user.ID)
	if got[models.AchievementFirstHabit] != 1 || got[models.AchievementFirstDay] != 1 {
		t.Errorf("expected FIRST_HABIT and FIRST_DAY, got %v", got)
	}
	if got[models.AchievementComeback] != 0 {
		t.Errorf("COMEBACK unlocked on the first logged day")
	}

	second := createHabit(t, svc, user.ID, nil, nil)
	if second.ID == h.ID {
		t.Fatal("expected distinct habit ids")
	}
	if got := achievementTypes(t, svc, user.ID); got[models.AchievementFirstHabit] != 1 {
		t.Errorf("FIRST_HABIT unlocked again for a second habit")
	}
}

func TestComebackAfterRelapse(t *testing.T) {
	svc, _, c, user := setup(t)
	h := createHabit(t, svc, user.ID, nil, nil)

	logDay(t, svc, h, c.now(), true)
	c.advance(1)
	logDay(t, svc, h, c.now(), false)
	c.advance(1)
	res := logDay(t, svc, h, c.now(), true)

	var found bool
	for _, a := range res.Unlocked {
		if a.Type == models.AchievementComeback {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected COMEBACK, got %+v", res.Unlocked)
	}

	c.advance(1)
	logDay(t, svc, h, c.now(), false)
	c.advance(1)
	logDay(t, svc, h, c.now(), true)
	if got := achievementTypes(t, svc, user.ID); got[models.AchievementComeback] != 1 {
		t.Errorf("COMEBACK count = %d, want 1", got[models.AchievementComeback])
	}
}

func TestMilestoneAtTarget(t *testing.T) {
	svc, _, c, user := setup(t)
	h := createHabit(t, svc, user.ID, intPtr(3), nil)

	for i := 0; i < 3; i++ {
		logDay(t, svc, h, c.now(), true)
		c.advance(1)
	}

	list, err := svc.HabitAchievements(context.Background(), h.ID, user.ID)
	if err != nil {
		t.Fatalf("HabitAchievements failed: %v", err)
	}
	var milestone *models.Achievement
	for i := range list {
		if list[i].Type == models.AchievementMilestone {
			milestone = &list[i]
		}
	}
	if milestone == nil {
		t.Fatal("expected MILESTONE once the target was reached")
	}
	if milestone.Title != achievements.MilestoneTitle(3) {
		t.Errorf("milestone title = %q", milestone.Title)
	}
}

func TestLogProgressIsIdempotentPerDay(t *testing.T) {
	svc, store, c, user := setup(t)
	ctx := context.Background()
	h := createHabit(t, svc, user.ID, nil, nil)

	first := logDay(t, svc, h, c.now(), false)
	if first.Updated {
		t.Error("first log of the day reported as an update")
	}

	c.t = c.t.Add(2 * time.Hour)
	mood := models.MoodGood
	second, err := svc.LogProgress(ctx, LogRequest{
		HabitID:    h.ID,
		UserID:     user.ID,
		Successful: true,
		Note:       " better ",
		Mood:       &mood,
	})
	if err != nil {
		t.Fatalf("LogProgress failed: %v", err)
	}
	if !second.Updated || second.Entry.ID != first.Entry.ID {
		t.Errorf("expected update of entry %s, got %+v", first.Entry.ID, second.Entry)
	}

	entries, err := store.GetEntriesForHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetEntriesForHabit failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if !e.Successful || e.Note != "better" || e.Mood == nil || *e.Mood != models.MoodGood {
		t.Errorf("entry not replaced: %+v", e)
	}
	if !e.CreatedAt.Equal(first.Entry.CreatedAt) {
		t.Errorf("created_at changed from %v to %v", first.Entry.CreatedAt, e.CreatedAt)
	}
	if second.Habit.CurrentStreak != 1 {
		t.Errorf("current streak = %d, want 1", second.Habit.CurrentStreak)
	}
}

func TestLogProgressRejections(t *testing.T) {
	svc, _, c, user := setup(t)
	ctx := context.Background()
	h := createHabit(t, svc, user.ID, nil, nil)
	other := storagetest.NewUser(ctx, t, svc.store)

	archived := createHabit(t, svc, user.ID, nil, nil)
	if _, err := svc.SetHabitActive(ctx, archived.ID, user.ID, false); err != nil {
		t.Fatalf("SetHabitActive failed: %v", err)
	}
	badMood := models.MoodLevel(9)

	tests := []struct {
		name  string
		req   LogRequest
		check func(error) bool
	}{
		{"unknown habit", LogRequest{HabitID: uuid.NewString(), UserID: user.ID, Successful: true}, apperrors.IsNotFound},
		{"other user", LogRequest{HabitID: h.ID, UserID: other.ID, Successful: true}, apperrors.IsForbidden},
		{"inactive", LogRequest{HabitID: archived.ID, UserID: user.ID, Successful: true}, func(err error) bool {
			return errors.Is(err, apperrors.ErrInactiveHabit)
		}},
		{"future date", LogRequest{HabitID: h.ID, UserID: user.ID, Successful: true, Date: c.now().AddDate(0, 0, 1)}, apperrors.IsValidation},
		{"bad mood", LogRequest{HabitID: h.ID, UserID: user.ID, Successful: true, Mood: &badMood}, apperrors.IsValidation},
		{"no user", LogRequest{HabitID: h.ID, Successful: true}, func(err error) bool {
			return errors.Is(err, apperrors.ErrUnauthenticated)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.LogProgress(ctx, tt.req)
			if err == nil || !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	entries, err := svc.GetHabitEntries(ctx, h.ID, user.ID)
	if err != nil {
		t.Fatalf("GetHabitEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected requests wrote %d entries", len(entries))
	}
}

// failingAchievements breaks only the achievement write
type failingAchievements struct {
	storage.Provider
}

var errInsert = errors.New("disk full")

func (f failingAchievements) InsertAchievements(context.Context, []models.Achievement) ([]models.Achievement, error) {
	return nil, errInsert
}

func TestAchievementFailureKeepsEntry(t *testing.T) {
	store := setupStore(t)
	c := newClock()
	svc := New(failingAchievements{store}, WithClock(c.now), WithLocation(time.UTC))
	ctx := context.Background()
	user := storagetest.NewUser(ctx, t, store)

	h, unlocked, err := svc.CreateHabit(ctx, user.ID, NewHabit{Name: "No soda", Description: "Water only", Category: models.CategoryJunkFood})
	if err != nil {
		t.Fatalf("CreateHabit should not fail on achievement errors: %v", err)
	}
	if len(unlocked) != 0 {
		t.Errorf("unexpected unlocks: %+v", unlocked)
	}

	res, err := svc.LogProgress(ctx, LogRequest{HabitID: h.ID, UserID: user.ID, Successful: true})
	if err != nil {
		t.Fatalf("LogProgress failed: %v", err)
	}
	if !errors.Is(res.AchievementErr, errInsert) {
		t.Errorf("AchievementErr = %v, want %v", res.AchievementErr, errInsert)
	}
	if res.Habit.CurrentStreak != 1 {
		t.Errorf("current streak = %d, want 1", res.Habit.CurrentStreak)
	}
	if _, err := store.GetEntryForDay(ctx, h.ID, "2026-05-10"); err != nil {
		t.Errorf("entry not persisted: %v", err)
	}
}

func TestConcurrentLogProgress(t *testing.T) {
	svc, store, _, user := setup(t)
	ctx := context.Background()
	h := createHabit(t, svc, user.ID, nil, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.LogProgress(ctx, LogRequest{HabitID: h.ID, UserID: user.ID, Successful: true}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("LogProgress failed: %v", err)
	}

	entries, err := store.GetEntriesForHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetEntriesForHabit failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
	if got := achievementTypes(t, svc, user.ID); got[models.AchievementFirstDay] != 1 {
		t.Errorf("FIRST_DAY count = %d, want 1", got[models.AchievementFirstDay])
	}
	if n := svc.locks.size(); n != 0 {
		t.Errorf("%d habit locks still held after all calls returned", n)
	}
}

func TestHabitLocksAreReleased(t *testing.T) {
	var l habitLocks

	unlockA := l.lock("a")
	unlockB := l.lock("b")
	if n := l.size(); n != 2 {
		t.Fatalf("size = %d, want 2", n)
	}

	acquired := make(chan struct{})
	go func() {
		release := l.lock("a")
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a lock that was still held")
	case <-time.After(20 * time.Millisecond):
	}

	unlockA()
	<-acquired
	unlockB()

	// The waiter releases right after signalling
	deadline := time.Now().Add(time.Second)
	for l.size() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if n := l.size(); n != 0 {
		t.Errorf("size = %d after every holder released, want 0", n)
	}
}

func TestCheckAndUnlockAchievements(t *testing.T) {
	svc, _, _, user := setup(t)
	ctx := context.Background()
	h := createHabit(t, svc, user.ID, nil, nil)

	unlocked, err := svc.CheckAndUnlockAchievements(ctx, h.ID, user.ID, 7, false)
	if err != nil {
		t.Fatalf("CheckAndUnlockAchievements failed: %v", err)
	}
	got := make(map[models.AchievementType]bool)
	for _, a := range unlocked {
		got[a.Type] = true
	}
	if !got[models.AchievementFirstDay] || !got[models.AchievementWeekStreak] || got[models.AchievementMonthStreak] {
		t.Errorf("unexpected unlocks: %v", got)
	}

	again, err := svc.CheckAndUnlockAchievements(ctx, h.ID, user.ID, 7, false)
	if err != nil {
		t.Fatalf("CheckAndUnlockAchievements failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second check unlocked %d achievements", len(again))
	}

	if _, err := svc.CheckAndUnlockAchievements(ctx, h.ID, user.ID, -1, false); !apperrors.IsValidation(err) {
		t.Errorf("negative streak: got %v", err)
	}
}

func TestCheckAndUnlockSkipsComebackWithoutBrokenRun(t *testing.T) {
	svc, _, c, user := setup(t)
	ctx := context.Background()
	h := createHabit(t, svc, user.ID, nil, nil)

	logDay(t, svc, h, c.now(), true)
	unlocked, err := svc.CheckAndUnlockAchievements(ctx, h.ID, user.ID, 1, false)
	if err != nil {
		t.Fatalf("CheckAndUnlockAchievements failed: %v", err)
	}
	for _, a := range unlocked {
		if a.Type == models.AchievementComeback {
			t.Fatalf("COMEBACK unlocked on an unbroken first run")
		}
	}
}

func TestMultipleHabitsIsUserLevel(t *testing.T) {
	var hooked []models.Achievement
	svc, _, _, user := setup(t, WithUnlockHook(func(_ context.Context, list []models.Achievement) {
		hooked = append(hooked, list...)
	}))

	for i := 0; i < 3; i++ {
		createHabit(t, svc, user.ID, nil, nil)
	}

	var multi []models.Achievement
	for _, a := range hooked {
		if a.Type == models.AchievementMultipleHabits {
			multi = append(multi, a)
		}
	}
	if len(multi) != 1 {
		t.Fatalf("expected one MULTIPLE_HABITS unlock, got %d", len(multi))
	}
	if multi[0].HabitID != "" {
		t.Errorf("MULTIPLE_HABITS bound to habit %q", multi[0].HabitID)
	}

	createHabit(t, svc, user.ID, nil, nil)
	if got := achievementTypes(t, svc, user.ID); got[models.AchievementMultipleHabits] != 1 {
		t.Errorf("MULTIPLE_HABITS count = %d, want 1", got[models.AchievementMultipleHabits])
	}
}

func TestCreateHabitValidation(t *testing.T) {
	svc, _, _, user := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   NewHabit
	}{
		{"blank name", NewHabit{Name: "  ", Description: "d"}},
		{"blank description", NewHabit{Name: "n", Description: ""}},
		{"zero target", NewHabit{Name: "n", Description: "d", TargetDays: intPtr(0)}},
		{"negative cost", NewHabit{Name: "n", Description: "d", DailyCost: floatPtr(-1)}},
		{"unknown category", NewHabit{Name: "n", Description: "d", Category: "knitting"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.CreateHabit(ctx, user.ID, tt.in); !apperrors.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	if _, _, err := svc.CreateHabit(ctx, "", NewHabit{Name: "n", Description: "d"}); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
	if got, _ := svc.ListHabits(ctx, user.ID, true); len(got) != 0 {
		t.Errorf("invalid habits were stored: %d", len(got))
	}
}

func TestEditHabit(t *testing.T) {
	svc, _, c, user := setup(t)
	ctx := context.Background()
	h := createHabit(t, svc, user.ID, intPtr(30), floatPtr(5))
	c.advance(1)

	name := "No cigars"
	edited, err := svc.EditHabit(ctx, h.ID, user.ID, HabitUpdate{Name: &name, ClearTarget: true, DailyCost: floatPtr(8)})
	if err != nil {
		t.Fatalf("EditHabit failed: %v", err)
	}
	if edited.Name != name || edited.TargetDays != nil || edited.DailyCost == nil || *edited.DailyCost != 8 {
		t.Errorf("unexpected edit result: %+v", edited)
	}
	if !edited.UpdatedAt.After(h.UpdatedAt) {
		t.Errorf("updated_at not advanced")
	}

	stored, err := svc.GetHabit(ctx, h.ID, user.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if stored.Name != name || stored.Description != h.Description {
		t.Errorf("stored habit = %+v", stored)
	}

	blank := " "
	if _, err := svc.EditHabit(ctx, h.ID, user.ID, HabitUpdate{Name: &blank}); !apperrors.IsValidation(err) {
		t.Errorf("blank name: got %v", err)
	}
	if _, err := svc.EditHabit(ctx, h.ID, user.ID, HabitUpdate{TargetDays: intPtr(-3)}); !apperrors.IsValidation(err) {
		t.Errorf("negative target: got %v", err)
	}
}

func TestDeleteHabit(t *testing.T) {
	svc, store, c, user := setup(t)
	ctx := context.Background()
	h := createHabit(t, svc, user.ID, nil, nil)
	logDay(t, svc, h, c.now(), true)

	other := storagetest.NewUser(ctx, t, store)
	if err := svc.DeleteHabit(ctx, h.ID, other.ID); !apperrors.IsForbidden(err) {
		t.Errorf("delete by other user: got %v", err)
	}

	if err := svc.DeleteHabit(ctx, h.ID, user.ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	if _, err := svc.GetHabit(ctx, h.ID, user.ID); !apperrors.IsNotFound(err) {
		t.Errorf("habit still present: %v", err)
	}
	if n, _ := store.CountHabitAchievements(ctx, h.ID); n != 0 {
		t.Errorf("%d achievements left behind", n)
	}
}

func TestAchievementViews(t *testing.T) {
	svc, store, c, user := setup(t)
	ctx := context.Background()
	h := createHabit(t, svc, user.ID, nil, nil)
	logDay(t, svc, h, c.now(), true)

	list, err := svc.ListAchievements(ctx, user.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListAchievements = %d, %v", len(list), err)
	}

	recent, err := svc.RecentAchievements(ctx, user.ID, 1)
	if err != nil || len(recent) != 1 {
		t.Errorf("RecentAchievements = %d, %v", len(recent), err)
	}

	fresh, err := svc.NewAchievements(ctx, user.ID)
	if err != nil || len(fresh) != 2 {
		t.Errorf("NewAchievements = %d, %v", len(fresh), err)
	}
	c.advance(2)
	if stale, _ := svc.NewAchievements(ctx, user.ID); len(stale) != 0 {
		t.Errorf("achievements older than a day reported as new: %d", len(stale))
	}

	other := storagetest.NewUser(ctx, t, store)
	if err := svc.MarkAchievementViewed(ctx, list[0].ID, other.ID); !apperrors.IsForbidden(err) {
		t.Errorf("mark by other user: got %v", err)
	}
	if err := svc.MarkAchievementViewed(ctx, list[0].ID, user.ID); err != nil {
		t.Fatalf("MarkAchievementViewed failed: %v", err)
	}
	if n, _ := svc.UnviewedAchievementCount(ctx, user.ID); n != 1 {
		t.Errorf("unviewed = %d, want 1", n)
	}
	if err := svc.MarkAllAchievementsViewed(ctx, user.ID); err != nil {
		t.Fatalf("MarkAllAchievementsViewed failed: %v", err)
	}
	if n, _ := svc.UnviewedAchievementCount(ctx, user.ID); n != 0 {
		t.Errorf("unviewed = %d, want 0", n)
	}
}

func TestDashboardStatistics(t *testing.T) {
	svc, _, c, user := setup(t)
	ctx := context.Background()

	smoking := createHabit(t, svc, user.ID, nil, floatPtr(2))
	for i := 2; i >= 0; i-- {
		logDay(t, svc, smoking, c.now().AddDate(0, 0, -i), true)
	}
	soda := createHabit(t, svc, user.ID, nil, nil)
	logDay(t, svc, soda, c.now(), false)
	if _, err := svc.SetHabitActive(ctx, soda.ID, user.ID, false); err != nil {
		t.Fatalf("SetHabitActive failed: %v", err)
	}

	d, err := svc.GetDashboardStatistics(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetDashboardStatistics failed: %v", err)
	}
	if d.TotalActiveHabits != 1 || d.TotalInactiveHabits != 1 {
		t.Errorf("active/inactive = %d/%d, want 1/1", d.TotalActiveHabits, d.TotalInactiveHabits)
	}
	if d.TotalDaysTracked != 4 || d.TotalSuccessfulDays != 3 {
		t.Errorf("days = %d/%d, want 4/3", d.TotalDaysTracked, d.TotalSuccessfulDays)
	}
	if d.AverageSuccessRate != 75 {
		t.Errorf("success rate = %v, want 75", d.AverageSuccessRate)
	}
	if d.TotalMoneySaved != 6 {
		t.Errorf("money saved = %v, want 6", d.TotalMoneySaved)
	}
	if d.LongestStreakEver != 3 {
		t.Errorf("longest ever = %d, want 3", d.LongestStreakEver)
	}
	// FIRST_HABIT, FIRST_DAY
	if d.TotalAchievements != 2 {
		t.Errorf("achievements = %d, want 2", d.TotalAchievements)
	}
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	svc := New(nil, WithLocation(loc))

	got, err := svc.ParseDate("2026-05-09")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if key := models.DayKey(got, loc); key != "2026-05-09" {
		t.Errorf("day key = %s, want 2026-05-09", key)
	}

	if _, err := svc.ParseDate("09/05/2026"); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}
