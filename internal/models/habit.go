package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/cleanstreak/internal/constants"
)

// HabitCategory is the kind of habit being tracked
type HabitCategory string

const (
	CategorySmoking         HabitCategory = "smoking"
	CategorySocialMedia     HabitCategory = "social_media"
	CategoryJunkFood        HabitCategory = "junk_food"
	CategoryAlcohol         HabitCategory = "alcohol"
	CategoryProcrastination HabitCategory = "procrastination"
	CategoryGaming          HabitCategory = "gaming"
	CategorySpending        HabitCategory = "spending"
	CategoryCaffeine        HabitCategory = "caffeine"
	CategoryNailBiting      HabitCategory = "nail_biting"
	CategoryOther           HabitCategory = "other"
)

type categoryInfo struct {
	DisplayName string
	Icon        string
}

var categories = map[HabitCategory]categoryInfo{
	CategorySmoking:         {"Smoking", "🚭"},
	CategorySocialMedia:     {"Social Media", "📱"},
	CategoryJunkFood:        {"Junk Food", "🍔"},
	CategoryAlcohol:         {"Alcohol", "🍺"},
	CategoryProcrastination: {"Procrastination", "⏰"},
	CategoryGaming:          {"Gaming", "🎮"},
	CategorySpending:        {"Overspending", "💸"},
	CategoryCaffeine:        {"Caffeine", "☕"},
	CategoryNailBiting:      {"Nail Biting", "💅"},
	CategoryOther:           {"Other", "📝"},
}

// Categories returns all known categories in display order
func Categories() []HabitCategory {
	return []HabitCategory{
		CategorySmoking, CategorySocialMedia, CategoryJunkFood, CategoryAlcohol,
		CategoryProcrastination, CategoryGaming, CategorySpending, CategoryCaffeine,
		CategoryNailBiting, CategoryOther,
	}
}

func (c HabitCategory) Valid() bool {
	_, ok := categories[c]
	return ok
}

func (c HabitCategory) DisplayName() string {
	if info, ok := categories[c]; ok {
		return info.DisplayName
	}
	return string(c)
}

func (c HabitCategory) Icon() string {
	return categories[c].Icon
}

// ParseCategory accepts either the stored value or the display name, case-insensitively
func ParseCategory(s string) (HabitCategory, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for c, info := range categories {
		if string(c) == norm || strings.ToLower(info.DisplayName) == norm {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown habit category: %q", s)
}

// MoodLevel is a 5-point ordinal mood recorded alongside an entry
type MoodLevel int

const (
	MoodTerrible MoodLevel = iota + 1
	MoodBad
	MoodNeutral
	MoodGood
	MoodExcellent
)

var moodNames = map[MoodLevel]string{
	MoodTerrible:  "terrible",
	MoodBad:       "bad",
	MoodNeutral:   "neutral",
	MoodGood:      "good",
	MoodExcellent: "excellent",
}

func (m MoodLevel) Valid() bool {
	return m >= MoodTerrible && m <= MoodExcellent
}

func (m MoodLevel) String() string {
	if name, ok := moodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mood(%d)", int(m))
}

// ParseMood accepts a mood name or its 1-5 value
func ParseMood(s string) (MoodLevel, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for m, name := range moodNames {
		if name == norm || fmt.Sprint(int(m)) == norm {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid mood: %q (expected terrible, bad, neutral, good, excellent or 1-5)", s)
}

// Habit represents something a user is quitting or maintaining
type Habit struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Category      HabitCategory `json:"category"`
	StartDate     string        `json:"start_date"` // YYYY-MM-DD format
	TargetDays    *int          `json:"target_days,omitempty"`
	DailyCost     *float64      `json:"daily_cost,omitempty"`
	CurrentStreak int           `json:"current_streak"`
	LongestStreak int           `json:"longest_streak"`
	Active        bool          `json:"active"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// HabitEntry is a single day's success/failure record for a habit
type HabitEntry struct {
	ID         string     `json:"id"`
	HabitID    string     `json:"habit_id"`
	UserID     string     `json:"user_id"`
	Day        string     `json:"day"` // YYYY-MM-DD format
	Successful bool       `json:"successful"`
	Note       string     `json:"note,omitempty"`
	Mood       *MoodLevel `json:"mood,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DayKey normalizes t to its calendar day in loc
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(constants.DateFormat)
}

// ParseDay parses a day key into midnight UTC so day arithmetic is DST-free
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}
	return t, nil
}

// DaysBetween returns the number of calendar days from a to b (b - a)
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDay(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDay(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}
