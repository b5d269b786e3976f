package models

// HabitStatistics is the per-habit summary returned to callers.
// ProgressPercentage and DaysRemaining are nil when the habit has no target.
type HabitStatistics struct {
	Habit              Habit        `json:"habit"`
	CurrentStreak      int          `json:"current_streak"`
	LongestStreak      int          `json:"longest_streak"`
	SuccessRate        float64      `json:"success_rate"`
	MoneySaved         float64      `json:"money_saved"`
	TotalDays          int          `json:"total_days"`
	SuccessfulDays     int          `json:"successful_days"`
	FailedDays         int          `json:"failed_days"`
	ProgressPercentage *int         `json:"progress_percentage"`
	DaysRemaining      *int         `json:"days_remaining"`
	AverageMood        *float64     `json:"average_mood"`
	RecentEntries      []HabitEntry `json:"recent_entries"`
}

// DashboardStatistics aggregates every habit a user owns
type DashboardStatistics struct {
	TotalActiveHabits    int     `json:"total_active_habits"`
	TotalInactiveHabits  int     `json:"total_inactive_habits"`
	TotalDaysTracked     int     `json:"total_days_tracked"`
	TotalSuccessfulDays  int     `json:"total_successful_days"`
	TotalMoneySaved      float64 `json:"total_money_saved"`
	AverageSuccessRate   float64 `json:"average_success_rate"`
	LongestStreakEver    int     `json:"longest_streak_ever"`
	UnviewedAchievements int     `json:"unviewed_achievements"`
	TotalAchievements    int     `json:"total_achievements"`
}
