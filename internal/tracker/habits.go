package tracker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/cleanstreak/internal/achievements"
	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/logger"
	"github.com/julianstephens/cleanstreak/internal/models"
)

// NewHabit is the user-supplied part of a habit
type NewHabit struct {
	Name        string
	Description string
	Category    models.HabitCategory
	TargetDays  *int
	DailyCost   *float64
}

func (n NewHabit) validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return apperrors.Validation("habit name cannot be empty")
	}
	if strings.TrimSpace(n.Description) == "" {
		return apperrors.Validation("habit description cannot be empty")
	}
	if !n.Category.Valid() {
		return apperrors.Validation("unknown habit category %q", n.Category)
	}
	return validateGoals(n.TargetDays, n.DailyCost)
}

func validateGoals(targetDays *int, dailyCost *float64) error {
	if targetDays != nil && *targetDays <= 0 {
		return apperrors.Validation("target days must be positive")
	}
	if dailyCost != nil && *dailyCost < 0 {
		return apperrors.Validation("daily cost cannot be negative")
	}
	return nil
}

// HabitUpdate changes only the fields that are set. The Clear flags drop an
// optional goal.
type HabitUpdate struct {
	Name        *string
	Description *string
	Category    *models.HabitCategory
	TargetDays  *int
	ClearTarget bool
	DailyCost   *float64
	ClearCost   bool
}

// CreateHabit stores a new active habit starting today. Creating the user's
// first habit unlocks FIRST_HABIT and crossing the habit threshold unlocks
// MULTIPLE_HABITS; both are best effort.
func (s *Service) CreateHabit(ctx context.Context, userID string, in NewHabit) (models.Habit, []models.Achievement, error) {
	if userID == "" {
		return models.Habit{}, nil, apperrors.ErrUnauthenticated
	}
	if in.Category == "" {
		in.Category = models.CategoryOther
	}
	if err := in.validate(); err != nil {
		return models.Habit{}, nil, err
	}

	now := s.now()
	habit := models.Habit{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		StartDate:   models.DayKey(now, s.loc),
		TargetDays:  in.TargetDays,
		DailyCost:   in.DailyCost,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.AddHabit(ctx, habit); err != nil {
		return models.Habit{}, nil, err
	}
	logger.Info("Habit created", "habit_id", habit.ID, "user_id", userID, "category", habit.Category)

	var unlocked []models.Achievement
	total, err := s.store.CountHabits(ctx, userID)
	if err != nil {
		logger.Warn("Failed to count habits", "user_id", userID, "error", err)
		return habit, nil, nil
	}
	if total == 1 {
		first, err := s.evaluator.Evaluate(ctx, achievements.Snapshot{
			HabitID:      habit.ID,
			UserID:       userID,
			IsFirstHabit: true,
		})
		if err != nil {
			logger.Warn("Failed to unlock first habit achievement", "habit_id", habit.ID, "error", err)
		}
		unlocked = append(unlocked, first...)
	}
	unlocked = append(unlocked, s.evaluateUser(ctx, userID)...)

	s.notify(ctx, unlocked)
	return habit, unlocked, nil
}

func (s *Service) evaluateUser(ctx context.Context, userID string) []models.Achievement {
	active, err := s.store.CountActiveHabits(ctx, userID)
	if err != nil {
		logger.Warn("Failed to count active habits", "user_id", userID, "error", err)
		return nil
	}
	unlocked, err := s.evaluator.EvaluateUser(ctx, achievements.Snapshot{UserID: userID, ActiveHabits: active})
	if err != nil {
		logger.Warn("Failed to unlock user achievements", "user_id", userID, "error", err)
	}
	return unlocked
}

func (s *Service) GetHabit(ctx context.Context, habitID, userID string) (models.Habit, error) {
	return s.ownedHabit(ctx, habitID, userID)
}

// ListHabits returns the user's habits in creation order
func (s *Service) ListHabits(ctx context.Context, userID string, includeInactive bool) ([]models.Habit, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	return s.store.GetHabitsForUser(ctx, userID, includeInactive)
}

func (s *Service) EditHabit(ctx context.Context, habitID, userID string, upd HabitUpdate) (models.Habit, error) {
	unlock := s.locks.lock(habitID)
	defer unlock()

	habit, err := s.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return models.Habit{}, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return models.Habit{}, apperrors.Validation("habit name cannot be empty")
		}
		habit.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		if strings.TrimSpace(*upd.Description) == "" {
			return models.Habit{}, apperrors.Validation("habit description cannot be empty")
		}
		habit.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Category != nil {
		if !upd.Category.Valid() {
			return models.Habit{}, apperrors.Validation("unknown habit category %q", *upd.Category)
		}
		habit.Category = *upd.Category
	}
	if err := validateGoals(upd.TargetDays, upd.DailyCost); err != nil {
		return models.Habit{}, err
	}
	switch {
	case upd.ClearTarget:
		habit.TargetDays = nil
	case upd.TargetDays != nil:
		habit.TargetDays = upd.TargetDays
	}
	switch {
	case upd.ClearCost:
		habit.DailyCost = nil
	case upd.DailyCost != nil:
		habit.DailyCost = upd.DailyCost
	}

	habit.UpdatedAt = s.now()
	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// SetHabitActive archives or restores a habit. Entries and achievements are kept.
func (s *Service) SetHabitActive(ctx context.Context, habitID, userID string, active bool) (models.Habit, error) {
	unlock := s.locks.lock(habitID)
	defer unlock()

	habit, err := s.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return models.Habit{}, err
	}
	if habit.Active == active {
		return habit, nil
	}

	habit.Active = active
	habit.UpdatedAt = s.now()
	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit active state changed", "habit_id", habit.ID, "active", active)

	if active {
		s.notify(ctx, s.evaluateUser(ctx, userID))
	}
	return habit, nil
}

// DeleteHabit removes the habit together with its entries and achievements
func (s *Service) DeleteHabit(ctx context.Context, habitID, userID string) error {
	unlock := s.locks.lock(habitID)
	defer unlock()

	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return err
	}
	if err := s.store.DeleteHabit(ctx, habitID); err != nil {
		return err
	}
	logger.Info("Habit deleted", "habit_id", habitID, "user_id", userID)
	return nil
}

// GetHabitEntries returns the habit's entries oldest first
func (s *Service) GetHabitEntries(ctx context.Context, habitID, userID string) ([]models.HabitEntry, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	return s.store.GetEntriesForHabit(ctx, habitID)
}
