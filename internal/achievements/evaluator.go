// Package achievements decides which achievements a habit or user has newly
// earned and records each one at most once.
package achievements

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/cleanstreak/internal/logger"
	"github.com/julianstephens/cleanstreak/internal/models"
)

// Store is the slice of the entry store the evaluator needs. HabitID is empty
// for user-level achievements. InsertAchievements must skip rows that collide
// with an existing (user, habit, type) and return only the rows it wrote.
type Store interface {
	AchievementExists(ctx context.Context, userID, habitID string, t models.AchievementType) (bool, error)
	CountHabitAchievements(ctx context.Context, habitID string) (int, error)
	InsertAchievements(ctx context.Context, batch []models.Achievement) ([]models.Achievement, error)
}

type Evaluator struct {
	store Store
	now   func() time.Time
}

// New returns an evaluator backed by store. A nil clock means time.Now.
func New(store Store, now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{store: store, now: now}
}

// Evaluate unlocks every streak-threshold achievement the snapshot satisfies,
// plus FIRST_HABIT and COMEBACK, as a single batch.
func (e *Evaluator) Evaluate(ctx context.Context, snap Snapshot) ([]models.Achievement, error) {
	var batch []models.Achievement
	unlockedAt := e.now()

	for _, t := range streakBatch {
		def := definitions[t]
		if !def.Qualifies(snap) {
			continue
		}
		ok, err := e.pending(ctx, snap.UserID, snap.HabitID, t)
		if err != nil {
			return nil, err
		}
		if ok {
			batch = append(batch, build(def, snap.UserID, snap.HabitID, def.Title, unlockedAt))
		}
	}

	comeback, err := e.comebackDue(ctx, snap)
	if err != nil {
		return nil, err
	}
	if comeback {
		def := definitions[models.AchievementComeback]
		batch = append(batch, build(def, snap.UserID, snap.HabitID, def.Title, unlockedAt))
	}

	return e.insert(ctx, batch)
}

// EvaluateMilestone unlocks MILESTONE once the streak reaches the habit's own
// target. It runs apart from the threshold batch because the goal differs per habit.
func (e *Evaluator) EvaluateMilestone(ctx context.Context, snap Snapshot) ([]models.Achievement, error) {
	def := definitions[models.AchievementMilestone]
	if !def.Qualifies(snap) {
		return nil, nil
	}
	ok, err := e.pending(ctx, snap.UserID, snap.HabitID, def.Type)
	if err != nil || !ok {
		return nil, err
	}
	return e.insert(ctx, []models.Achievement{
		build(def, snap.UserID, snap.HabitID, MilestoneTitle(*snap.TargetDays), e.now()),
	})
}

// EvaluateUser unlocks user-level achievements. These are not tied to a habit.
func (e *Evaluator) EvaluateUser(ctx context.Context, snap Snapshot) ([]models.Achievement, error) {
	def := definitions[models.AchievementMultipleHabits]
	if !def.Qualifies(snap) {
		return nil, nil
	}
	ok, err := e.pending(ctx, snap.UserID, "", def.Type)
	if err != nil || !ok {
		return nil, err
	}
	return e.insert(ctx, []models.Achievement{build(def, snap.UserID, "", def.Title, e.now())})
}

// comebackDue requires a fresh single-day run after an earlier one, at least
// one achievement already on the habit, and no prior COMEBACK.
func (e *Evaluator) comebackDue(ctx context.Context, snap Snapshot) (bool, error) {
	if !comebackCandidate(snap) {
		return false, nil
	}
	n, err := e.store.CountHabitAchievements(ctx, snap.HabitID)
	if err != nil {
		return false, fmt.Errorf("failed to count achievements: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	return e.pending(ctx, snap.UserID, snap.HabitID, models.AchievementComeback)
}

// pending reports whether t is still locked. The store's unique index is the
// authority; this check only avoids pointless inserts.
func (e *Evaluator) pending(ctx context.Context, userID, habitID string, t models.AchievementType) (bool, error) {
	exists, err := e.store.AchievementExists(ctx, userID, habitID, t)
	if err != nil {
		return false, fmt.Errorf("failed to check achievement %s: %w", t, err)
	}
	return !exists, nil
}

func (e *Evaluator) insert(ctx context.Context, batch []models.Achievement) ([]models.Achievement, error) {
	if len(batch) == 0 {
		return nil, nil
	}
	inserted, err := e.store.InsertAchievements(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock achievements: %w", err)
	}
	for _, a := range inserted {
		logger.Debug("Achievement unlocked", "type", a.Type, "habit_id", a.HabitID, "user_id", a.UserID)
	}
	return inserted, nil
}

func build(def Definition, userID, habitID, title string, at time.Time) models.Achievement {
	return models.Achievement{
		ID:          uuid.NewString(),
		HabitID:     habitID,
		UserID:      userID,
		Type:        def.Type,
		UnlockedAt:  at,
		Title:       title,
		Description: def.Description,
	}
}
