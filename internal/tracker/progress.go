package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/cleanstreak/internal/achievements"
	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/logger"
	"github.com/julianstephens/cleanstreak/internal/models"
	"github.com/julianstephens/cleanstreak/internal/streak"
)

// LogRequest records one day's outcome. A zero Date means today.
type LogRequest struct {
	HabitID    string
	UserID     string
	Successful bool
	Date       time.Time
	Note       string
	Mood       *models.MoodLevel
}

// ProgressResult separates the committed write from the best-effort
// achievement step. AchievementErr never turns a logged entry into a failure.
type ProgressResult struct {
	Habit          models.Habit
	Entry          models.HabitEntry
	Updated        bool
	Unlocked       []models.Achievement
	AchievementErr error
}

// LogProgress writes the day's entry, recomputes the habit's streaks and, for
// a successful day, unlocks achievements. Validation and lookup failures
// return before anything is written.
func (s *Service) LogProgress(ctx context.Context, req LogRequest) (ProgressResult, error) {
	if req.Mood != nil && !req.Mood.Valid() {
		return ProgressResult{}, apperrors.Validation("mood must be between 1 and 5")
	}

	unlock := s.locks.lock(req.HabitID)
	defer unlock()

	habit, err := s.ownedHabit(ctx, req.HabitID, req.UserID)
	if err != nil {
		return ProgressResult{}, err
	}
	if !habit.Active {
		return ProgressResult{}, apperrors.ErrInactiveHabit
	}

	now := s.now()
	today := models.DayKey(now, s.loc)
	day := today
	if !req.Date.IsZero() {
		day = models.DayKey(req.Date, s.loc)
	}
	if day > today {
		return ProgressResult{}, apperrors.Validation("cannot log progress for a future date (%s)", day)
	}

	entry := models.HabitEntry{
		ID:         uuid.NewString(),
		HabitID:    habit.ID,
		UserID:     req.UserID,
		Day:        day,
		Successful: req.Successful,
		Note:       strings.TrimSpace(req.Note),
		Mood:       req.Mood,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	existing, err := s.store.GetEntryForDay(ctx, habit.ID, day)
	updated := err == nil
	switch {
	case updated:
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
	case !apperrors.IsNotFound(err):
		return ProgressResult{}, err
	}

	if err := s.store.UpsertEntry(ctx, entry); err != nil {
		return ProgressResult{}, err
	}

	entries, err := s.store.GetEntriesForHabit(ctx, habit.ID)
	if err != nil {
		return ProgressResult{}, err
	}
	res := streak.Calculate(entries, today)

	habit.CurrentStreak = res.Current
	habit.LongestStreak = max(res.Longest, habit.LongestStreak)
	habit.UpdatedAt = now
	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return ProgressResult{}, err
	}

	logger.Debug("Progress logged", "habit_id", habit.ID, "day", day, "successful", req.Successful,
		"current_streak", habit.CurrentStreak, "longest_streak", habit.LongestStreak)

	result := ProgressResult{Habit: habit, Entry: entry, Updated: updated}
	if !req.Successful {
		return result, nil
	}

	snap := s.snapshot(habit, entries, today)
	result.Unlocked, result.AchievementErr = s.unlock(ctx, snap)
	if result.AchievementErr != nil {
		logger.Warn("Failed to unlock achievements", "habit_id", habit.ID, "user_id", req.UserID, "error", result.AchievementErr)
	}
	s.notify(ctx, result.Unlocked)
	return result, nil
}

// CheckAndUnlockAchievements evaluates the habit against currentStreak and
// returns what was newly unlocked. Unlike LogProgress it reports store errors.
//
// COMEBACK needs more than the arguments carry: besides currentStreak == 1 and
// an earlier achievement on the habit, the stored entries must show a
// previous run broken by a failure or a gap. A habit on its first run never
// gets COMEBACK here, whatever currentStreak is passed.
func (s *Service) CheckAndUnlockAchievements(ctx context.Context, habitID, userID string, currentStreak int, isFirstHabit bool) ([]models.Achievement, error) {
	habit, err := s.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	if currentStreak < 0 {
		return nil, apperrors.Validation("current streak cannot be negative")
	}

	entries, err := s.store.GetEntriesForHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}

	snap := s.snapshot(habit, entries, s.Today())
	snap.CurrentStreak = currentStreak
	snap.IsFirstHabit = isFirstHabit

	unlocked, err := s.unlock(ctx, snap)
	s.notify(ctx, unlocked)
	return unlocked, err
}

func (s *Service) snapshot(habit models.Habit, entries []models.HabitEntry, today string) achievements.Snapshot {
	return achievements.Snapshot{
		HabitID:        habit.ID,
		UserID:         habit.UserID,
		CurrentStreak:  habit.CurrentStreak,
		TargetDays:     habit.TargetDays,
		RelapsedBefore: streak.RelapsedBefore(entries, today),
	}
}

// unlock runs the threshold batch then the per-habit milestone. Rows from a
// step that succeeded are returned even if a later step fails.
func (s *Service) unlock(ctx context.Context, snap achievements.Snapshot) ([]models.Achievement, error) {
	unlocked, err := s.evaluator.Evaluate(ctx, snap)
	if err != nil {
		return nil, err
	}
	milestone, err := s.evaluator.EvaluateMilestone(ctx, snap)
	return append(unlocked, milestone...), err
}
