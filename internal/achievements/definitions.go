package achievements

import (
	"fmt"

	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/models"
)

// Snapshot is the streak and user context an evaluation runs against
type Snapshot struct {
	HabitID       string
	UserID        string
	CurrentStreak int
	IsFirstHabit  bool
	TargetDays    *int
	// RelapsedBefore is set when the habit has earlier successful days outside
	// the current run.
	RelapsedBefore bool
	ActiveHabits   int
}

// Definition pairs an achievement type with its display text and trigger
type Definition struct {
	Type        models.AchievementType
	Title       string
	Description string
	Qualifies   func(Snapshot) bool
}

func streakAtLeast(n int) func(Snapshot) bool {
	return func(s Snapshot) bool { return s.CurrentStreak >= n }
}

// comebackCandidate covers the snapshot half of COMEBACK. The evaluator also
// requires a prior achievement on the habit, which needs a store lookup.
func comebackCandidate(s Snapshot) bool {
	return s.CurrentStreak == 1 && s.RelapsedBefore
}

var definitions = map[models.AchievementType]Definition{
	models.AchievementFirstDay: {
		Type:        models.AchievementFirstDay,
		Title:       "First Day",
		Description: "Started your journey",
		Qualifies:   streakAtLeast(constants.FirstDayThreshold),
	},
	models.AchievementWeekStreak: {
		Type:        models.AchievementWeekStreak,
		Title:       "Week Warrior",
		Description: "7 consecutive days clean",
		Qualifies:   streakAtLeast(constants.WeekStreakThreshold),
	},
	models.AchievementMonthStreak: {
		Type:        models.AchievementMonthStreak,
		Title:       "Month Master",
		Description: "30 consecutive days clean",
		Qualifies:   streakAtLeast(constants.MonthStreakThreshold),
	},
	models.AchievementHundredDays: {
		Type:        models.AchievementHundredDays,
		Title:       "Century Club",
		Description: "100 consecutive days clean",
		Qualifies:   streakAtLeast(constants.HundredDaysThreshold),
	},
	models.AchievementFirstHabit: {
		Type:        models.AchievementFirstHabit,
		Title:       "Habit Hero",
		Description: "Created your first habit",
		Qualifies:   func(s Snapshot) bool { return s.IsFirstHabit },
	},
	models.AchievementMultipleHabits: {
		Type:        models.AchievementMultipleHabits,
		Title:       "Multi-Tasker",
		Description: fmt.Sprintf("Managing %d+ habits", constants.MultipleHabitsMinimum),
		Qualifies:   func(s Snapshot) bool { return s.ActiveHabits >= constants.MultipleHabitsMinimum },
	},
	models.AchievementComeback: {
		Type:        models.AchievementComeback,
		Title:       "Phoenix",
		Description: "Restarted after a setback",
		Qualifies:   comebackCandidate,
	},
	models.AchievementMilestone: {
		Type:        models.AchievementMilestone,
		Title:       "Milestone",
		Description: "Reached target goal",
		Qualifies: func(s Snapshot) bool {
			return s.TargetDays != nil && *s.TargetDays > 0 && s.CurrentStreak >= *s.TargetDays
		},
	},
}

// streakBatch is evaluated together on every successful log
var streakBatch = []models.AchievementType{
	models.AchievementFirstDay,
	models.AchievementWeekStreak,
	models.AchievementMonthStreak,
	models.AchievementHundredDays,
	models.AchievementFirstHabit,
}

// Lookup returns the definition for t
func Lookup(t models.AchievementType) (Definition, bool) {
	d, ok := definitions[t]
	return d, ok
}

// MilestoneTitle is the custom title for a habit-specific target
func MilestoneTitle(targetDays int) string {
	return fmt.Sprintf("Goal Reached: %d Days!", targetDays)
}
