// Package stats aggregates streaks, costs and entry counts into per-habit and
// per-user summaries.
package stats

import (
	"math"
	"sort"

	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/models"
	"github.com/julianstephens/cleanstreak/internal/streak"
)

// SuccessRate is successful/total*100, or 0 when there are no entries
func SuccessRate(successful, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(successful) / float64(total) * 100
}

// MoneySaved counts the daily cost over the live streak only
func MoneySaved(dailyCost *float64, currentStreak int) float64 {
	if dailyCost == nil || *dailyCost <= 0 || currentStreak <= 0 {
		return 0
	}
	return *dailyCost * float64(currentStreak)
}

// ProgressPercentage returns round(current/target*100) capped at 100, or nil
// when the habit has no usable target.
func ProgressPercentage(currentStreak int, targetDays *int) *int {
	if targetDays == nil || *targetDays <= 0 {
		return nil
	}
	pct := int(math.Round(float64(currentStreak) / float64(*targetDays) * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return &pct
}

// DaysRemaining returns max(target-current, 0), or nil without a target
func DaysRemaining(currentStreak int, targetDays *int) *int {
	if targetDays == nil || *targetDays <= 0 {
		return nil
	}
	remaining := max(*targetDays-currentStreak, 0)
	return &remaining
}

// Counts tallies a normalized entry history
type Counts struct {
	Total      int
	Successful int
	Failed     int
}

func Count(entries []models.HabitEntry) Counts {
	var c Counts
	for _, e := range streak.Normalize(entries) {
		c.Total++
		if e.Successful {
			c.Successful++
		} else {
			c.Failed++
		}
	}
	return c
}

// AverageMood is the mean of logged moods, nil when none were logged
func AverageMood(entries []models.HabitEntry) *float64 {
	sum, n := 0, 0
	for _, e := range entries {
		if e.Mood == nil || !e.Mood.Valid() {
			continue
		}
		sum += int(*e.Mood)
		n++
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}

// RecentEntries returns entries from the last RecentEntriesWindowDays days up
// to today, newest first, at most RecentEntriesLimit of them.
func RecentEntries(entries []models.HabitEntry, today string) []models.HabitEntry {
	recent := make([]models.HabitEntry, 0)
	for _, e := range streak.Normalize(entries) {
		age, err := models.DaysBetween(e.Day, today)
		if err != nil || age < 0 || age >= constants.RecentEntriesWindowDays {
			continue
		}
		recent = append(recent, e)
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Day > recent[j].Day
	})
	if len(recent) > constants.RecentEntriesLimit {
		recent = recent[:constants.RecentEntriesLimit]
	}
	return recent
}

// ForHabit builds the statistics snapshot for one habit as of today. The
// current streak is recomputed from entries so a habit left unlogged past the
// grace window reports 0 even if the stored value is stale. The longest streak
// never drops below the stored value.
func ForHabit(habit models.Habit, entries []models.HabitEntry, today string) models.HabitStatistics {
	res := streak.Calculate(entries, today)
	longest := max(res.Longest, habit.LongestStreak)
	counts := Count(entries)

	habit.CurrentStreak = res.Current
	habit.LongestStreak = longest

	return models.HabitStatistics{
		Habit:              habit,
		CurrentStreak:      res.Current,
		LongestStreak:      longest,
		SuccessRate:        SuccessRate(counts.Successful, counts.Total),
		MoneySaved:         MoneySaved(habit.DailyCost, res.Current),
		TotalDays:          counts.Total,
		SuccessfulDays:     counts.Successful,
		FailedDays:         counts.Failed,
		ProgressPercentage: ProgressPercentage(res.Current, habit.TargetDays),
		DaysRemaining:      DaysRemaining(res.Current, habit.TargetDays),
		AverageMood:        AverageMood(entries),
		RecentEntries:      RecentEntries(entries, today),
	}
}

// AchievementCounts is the achievement side of the dashboard
type AchievementCounts struct {
	Total    int
	Unviewed int
}

// Dashboard sums per-habit statistics into one user-level snapshot
func Dashboard(habits []models.HabitStatistics, achievements AchievementCounts) models.DashboardStatistics {
	var d models.DashboardStatistics
	for _, h := range habits {
		if h.Habit.Active {
			d.TotalActiveHabits++
		} else {
			d.TotalInactiveHabits++
		}
		d.TotalDaysTracked += h.TotalDays
		d.TotalSuccessfulDays += h.SuccessfulDays
		d.TotalMoneySaved += h.MoneySaved
		d.LongestStreakEver = max(d.LongestStreakEver, h.LongestStreak)
	}
	d.AverageSuccessRate = SuccessRate(d.TotalSuccessfulDays, d.TotalDaysTracked)
	d.TotalAchievements = achievements.Total
	d.UnviewedAchievements = achievements.Unviewed
	return d
}
