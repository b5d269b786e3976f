package models

import (
	"fmt"
	"time"
)

// AchievementType is the closed set of unlockable milestones
type AchievementType string

const (
	AchievementFirstDay       AchievementType = "FIRST_DAY"
	AchievementWeekStreak     AchievementType = "WEEK_STREAK"
	AchievementMonthStreak    AchievementType = "MONTH_STREAK"
	AchievementHundredDays    AchievementType = "HUNDRED_DAYS"
	AchievementFirstHabit     AchievementType = "FIRST_HABIT"
	AchievementMultipleHabits AchievementType = "MULTIPLE_HABITS"
	AchievementComeback       AchievementType = "COMEBACK"
	AchievementMilestone      AchievementType = "MILESTONE"
)

// AchievementTypes returns every achievement type in unlock-table order
func AchievementTypes() []AchievementType {
	return []AchievementType{
		AchievementFirstDay,
		AchievementWeekStreak,
		AchievementMonthStreak,
		AchievementHundredDays,
		AchievementFirstHabit,
		AchievementMultipleHabits,
		AchievementComeback,
		AchievementMilestone,
	}
}

func (t AchievementType) Valid() bool {
	for _, known := range AchievementTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// UserLevel reports whether the type is tracked per user rather than per habit
func (t AchievementType) UserLevel() bool {
	return t == AchievementMultipleHabits
}

func ParseAchievementType(s string) (AchievementType, error) {
	t := AchievementType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown achievement type: %q", s)
	}
	return t, nil
}

// Achievement is a one-time unlock. HabitID is empty for user-level achievements.
type Achievement struct {
	ID          string          `json:"id"`
	HabitID     string          `json:"habit_id,omitempty"`
	UserID      string          `json:"user_id"`
	Type        AchievementType `json:"type"`
	UnlockedAt  time.Time       `json:"unlocked_at"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Viewed      bool            `json:"viewed"`
}

// IsRecent reports whether the achievement was unlocked within window of now
func (a Achievement) IsRecent(now time.Time, window time.Duration) bool {
	return now.Sub(a.UnlockedAt) <= window
}
