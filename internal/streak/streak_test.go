package streak

import (
	"math/rand"
	"testing"
	"time"

	"github.com/julianstephens/cleanstreak/internal/models"
)

var base = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func day(offset int) string {
	return base.AddDate(0, 0, offset).Format("2006-01-02")
}

func entry(offset int, ok bool) models.HabitEntry {
	created := base.AddDate(0, 0, offset).Add(20 * time.Hour)
	return models.HabitEntry{
		ID:         day(offset),
		HabitID:    "habit",
		Day:        day(offset),
		Successful: ok,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		entries     []models.HabitEntry
		today       string
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "no entries",
			entries:     nil,
			today:       day(0),
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name: "seven consecutive successes ending today",
			entries: []models.HabitEntry{
				entry(0, true), entry(1, true), entry(2, true), entry(3, true),
				entry(4, true), entry(5, true), entry(6, true),
			},
			today:       day(6),
			wantCurrent: 7,
			wantLongest: 7,
		},
		{
			name: "success success failure success",
			entries: []models.HabitEntry{
				entry(0, true), entry(1, true), entry(2, false), entry(3, true),
			},
			today:       day(3),
			wantCurrent: 1,
			wantLongest: 2,
		},
		{
			name: "latest entry yesterday is within grace",
			entries: []models.HabitEntry{
				entry(0, true), entry(1, true),
			},
			today:       day(2),
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name: "latest entry two days ago breaks streak",
			entries: []models.HabitEntry{
				entry(0, true), entry(1, true), entry(2, true),
			},
			today:       day(4),
			wantCurrent: 0,
			wantLongest: 3,
		},
		{
			name: "one skipped day between successes keeps the run",
			entries: []models.HabitEntry{
				entry(0, true), entry(2, true),
			},
			today:       day(2),
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name: "one skipped day inside a longer run",
			entries: []models.HabitEntry{
				entry(0, true), entry(1, true), entry(3, true), entry(4, true),
			},
			today:       day(4),
			wantCurrent: 4,
			wantLongest: 4,
		},
		{
			name: "two skipped days between successes restart the run",
			entries: []models.HabitEntry{
				entry(0, true), entry(3, true),
			},
			today:       day(3),
			wantCurrent: 1,
			wantLongest: 2,
		},
		{
			name: "trailing failure",
			entries: []models.HabitEntry{
				entry(0, true), entry(1, true), entry(2, false),
			},
			today:       day(2),
			wantCurrent: 0,
			wantLongest: 2,
		},
		{
			name: "unsorted input",
			entries: []models.HabitEntry{
				entry(2, true), entry(0, false), entry(1, true),
			},
			today:       day(2),
			wantCurrent: 2,
			wantLongest: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.entries, tt.today)
			if got.Current != tt.wantCurrent {
				t.Errorf("Current = %d, want %d", got.Current, tt.wantCurrent)
			}
			if got.Longest != tt.wantLongest {
				t.Errorf("Longest = %d, want %d", got.Longest, tt.wantLongest)
			}
			if Current(tt.entries, tt.today) != got.Current || Longest(tt.entries) != got.Longest {
				t.Error("Current/Longest disagree with Calculate")
			}
		})
	}
}

func TestDuplicateDayPrefersLaterCreated(t *testing.T) {
	early := entry(1, false)
	early.ID = "early"
	late := entry(1, true)
	late.ID = "late"
	late.CreatedAt = early.CreatedAt.Add(time.Hour)

	entries := []models.HabitEntry{entry(0, true), late, early}
	got := Calculate(entries, day(1))
	if got.Current != 2 || got.Longest != 2 {
		t.Errorf("expected later-created success to win, got %+v", got)
	}

	// Reversing the creation order flips the outcome
	late.CreatedAt = early.CreatedAt.Add(-time.Hour)
	entries = []models.HabitEntry{entry(0, true), early, late}
	got = Calculate(entries, day(1))
	if got.Current != 0 || got.Longest != 1 {
		t.Errorf("expected later-created failure to win, got %+v", got)
	}

	normalized := Normalize(entries)
	if len(normalized) != 2 {
		t.Fatalf("expected 2 entries after normalize, got %d", len(normalized))
	}
	if normalized[1].ID != "early" {
		t.Errorf("expected entry %q for duplicated day, got %q", "early", normalized[1].ID)
	}
}

func TestDuplicateDayIsDeterministic(t *testing.T) {
	a := entry(0, true)
	a.ID = "a"
	b := entry(0, false)
	b.ID = "b"

	first := Normalize([]models.HabitEntry{a, b})
	second := Normalize([]models.HabitEntry{b, a})
	if first[0].ID != second[0].ID {
		t.Errorf("normalize depends on input order: %q vs %q", first[0].ID, second[0].ID)
	}
}

func TestRelapsedBefore(t *testing.T) {
	if RelapsedBefore([]models.HabitEntry{entry(0, true)}, day(0)) {
		t.Error("single success is not a relapse")
	}
	if !RelapsedBefore([]models.HabitEntry{entry(0, true), entry(1, false), entry(2, true)}, day(2)) {
		t.Error("success after failure is a relapse")
	}
	if !RelapsedBefore([]models.HabitEntry{entry(0, true), entry(5, true)}, day(5)) {
		t.Error("success after a gap is a relapse")
	}
}

// bruteForceLongest scans every contiguous window of the day-ordered entries
func bruteForceLongest(ordered []models.HabitEntry) int {
	best := 0
	for i := range ordered {
		for j := i; j < len(ordered); j++ {
			all := true
			for k := i; k <= j; k++ {
				if !ordered[k].Successful {
					all = false
					break
				}
			}
			if all && j-i+1 > best {
				best = j - i + 1
			}
		}
	}
	return best
}

func TestStreakProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 500; iter++ {
		var entries []models.HabitEntry
		offset := 0
		n := rng.Intn(25)
		for i := 0; i < n; i++ {
			offset += 1 + rng.Intn(3)
			entries = append(entries, entry(offset, rng.Intn(4) != 0))
		}
		todayOffset := offset + rng.Intn(4)
		today := day(todayOffset)

		got := Calculate(entries, today)
		ordered := Normalize(entries)

		if want := bruteForceLongest(ordered); got.Longest != want {
			t.Fatalf("iteration %d: Longest = %d, brute force = %d", iter, got.Longest, want)
		}
		if got.Current > len(ordered) {
			t.Fatalf("iteration %d: Current %d exceeds entry count %d", iter, got.Current, len(ordered))
		}
		if len(ordered) > 0 && todayOffset-offset >= 2 && got.Current != 0 {
			t.Fatalf("iteration %d: expected 0 after %d unlogged days, got %d", iter, todayOffset-offset, got.Current)
		}
		if got.Current > got.Longest {
			t.Fatalf("iteration %d: current %d exceeds longest %d", iter, got.Current, got.Longest)
		}
	}
}
