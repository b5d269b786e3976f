package tracker

import (
	"context"

	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/models"
	"github.com/julianstephens/cleanstreak/internal/stats"
)

// GetHabitStatistics summarizes one habit as of today. The current streak is
// recomputed from entries, so a stale stored value is never reported.
func (s *Service) GetHabitStatistics(ctx context.Context, habitID, userID string) (models.HabitStatistics, error) {
	habit, err := s.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return models.HabitStatistics{}, err
	}
	entries, err := s.store.GetEntriesForHabit(ctx, habitID)
	if err != nil {
		return models.HabitStatistics{}, err
	}
	return stats.ForHabit(habit, entries, s.Today()), nil
}

// GetDashboardStatistics aggregates every habit the user owns, archived ones included
func (s *Service) GetDashboardStatistics(ctx context.Context, userID string) (models.DashboardStatistics, error) {
	if userID == "" {
		return models.DashboardStatistics{}, apperrors.ErrUnauthenticated
	}
	habits, err := s.store.GetHabitsForUser(ctx, userID, true)
	if err != nil {
		return models.DashboardStatistics{}, err
	}

	today := s.Today()
	perHabit := make([]models.HabitStatistics, 0, len(habits))
	for _, h := range habits {
		entries, err := s.store.GetEntriesForHabit(ctx, h.ID)
		if err != nil {
			return models.DashboardStatistics{}, err
		}
		perHabit = append(perHabit, stats.ForHabit(h, entries, today))
	}

	var counts stats.AchievementCounts
	if counts.Total, err = s.store.CountAchievements(ctx, userID); err != nil {
		return models.DashboardStatistics{}, err
	}
	if counts.Unviewed, err = s.store.CountUnviewedAchievements(ctx, userID); err != nil {
		return models.DashboardStatistics{}, err
	}
	return stats.Dashboard(perHabit, counts), nil
}
