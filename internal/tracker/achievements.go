package tracker

import (
	"context"

	"github.com/julianstephens/cleanstreak/internal/constants"
	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/models"
)

// ListAchievements returns every achievement the user holds, newest first
func (s *Service) ListAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	return s.store.GetAchievementsForUser(ctx, userID)
}

func (s *Service) HabitAchievements(ctx context.Context, habitID, userID string) ([]models.Achievement, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	return s.store.GetAchievementsForHabit(ctx, habitID)
}

// RecentAchievements returns up to limit achievements; limit <= 0 uses the default
func (s *Service) RecentAchievements(ctx context.Context, userID string, limit int) ([]models.Achievement, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	if limit <= 0 {
		limit = constants.DefaultRecentLimit
	}
	return s.store.GetRecentAchievements(ctx, userID, limit)
}

// NewAchievements returns achievements unlocked within the last day
func (s *Service) NewAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	return s.store.GetAchievementsSince(ctx, userID, s.now().Add(-constants.NewAchievementWindow))
}

func (s *Service) MarkAchievementViewed(ctx context.Context, achievementID, userID string) error {
	if userID == "" {
		return apperrors.ErrUnauthenticated
	}
	a, err := s.store.GetAchievement(ctx, achievementID)
	if err != nil {
		return err
	}
	if a.UserID != userID {
		return apperrors.ErrForbidden
	}
	return s.store.MarkAchievementViewed(ctx, achievementID)
}

func (s *Service) MarkAllAchievementsViewed(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.ErrUnauthenticated
	}
	return s.store.MarkAllAchievementsViewed(ctx, userID)
}

func (s *Service) UnviewedAchievementCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, apperrors.ErrUnauthenticated
	}
	return s.store.CountUnviewedAchievements(ctx, userID)
}
