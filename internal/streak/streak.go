// Package streak derives consecutive-success streaks from a habit's daily entries.
package streak

import (
	"sort"

	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/models"
)

// Result holds both streak values for one habit
type Result struct {
	Current int
	Longest int
}

// Calculate computes the current streak as of today and the longest streak
// over the whole history. today is a YYYY-MM-DD day key.
func Calculate(entries []models.HabitEntry, today string) Result {
	ordered := Normalize(entries)
	return Result{
		Current: current(ordered, today),
		Longest: longest(ordered),
	}
}

// Current returns the run of consecutive successful days ending at the most
// recent entry. It is 0 when the most recent entry is more than GraceDays
// before today.
func Current(entries []models.HabitEntry, today string) int {
	return current(Normalize(entries), today)
}

// Longest returns the longest run of successful entries in chronological order.
// It does not depend on today.
func Longest(entries []models.HabitEntry) int {
	return longest(Normalize(entries))
}

// Normalize returns the entries sorted by ascending day with at most one entry
// per day. When a day has several entries the later-created one wins, with the
// later-updated one breaking ties. Entries with malformed days are dropped.
func Normalize(entries []models.HabitEntry) []models.HabitEntry {
	byDay := make(map[string]models.HabitEntry, len(entries))
	for _, e := range entries {
		if _, err := models.ParseDay(e.Day); err != nil {
			continue
		}
		prev, seen := byDay[e.Day]
		if !seen || newer(e, prev) {
			byDay[e.Day] = e
		}
	}

	ordered := make([]models.HabitEntry, 0, len(byDay))
	for _, e := range byDay {
		ordered = append(ordered, e)
	}
	// Day keys sort lexically in calendar order
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Day < ordered[j].Day
	})
	return ordered
}

// RelapsedBefore reports whether the history holds a successful entry that is
// not part of the current run, i.e. an earlier run was broken by a failure or a gap.
func RelapsedBefore(entries []models.HabitEntry, today string) bool {
	ordered := Normalize(entries)
	run := current(ordered, today)
	successes := 0
	for _, e := range ordered {
		if e.Successful {
			successes++
		}
	}
	return successes > run
}

func newer(a, b models.HabitEntry) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	// Deterministic fallback for identical timestamps
	return a.ID > b.ID
}

// current expects entries from Normalize
func current(ordered []models.HabitEntry, today string) int {
	if len(ordered) == 0 {
		return 0
	}

	latest := ordered[len(ordered)-1]
	gap, err := models.DaysBetween(latest.Day, today)
	if err != nil || gap > constants.GraceDays {
		return 0
	}

	count := 0
	for i := len(ordered) - 1; i >= 0; i-- {
		e := ordered[i]
		if !e.Successful {
			break
		}
		if i < len(ordered)-1 {
			// A single unlogged day between entries is tolerated
			step, _ := models.DaysBetween(e.Day, ordered[i+1].Day)
			if step > constants.GraceDays+1 {
				break
			}
		}
		count++
	}
	return count
}

// longest expects entries from Normalize
func longest(ordered []models.HabitEntry) int {
	best, run := 0, 0
	for _, e := range ordered {
		if e.Successful {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}
