package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/models"
)

// PromptPassword asks for a secret without echoing it
func PromptPassword(title string) (string, error) {
	var password string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if len(s) < constants.MinPasswordLength {
						return fmt.Errorf("password must be at least %d characters", constants.MinPasswordLength)
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	return password, err
}

// Confirm asks a yes/no question, defaulting to no
func Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	return ok, err
}

// HabitFormModel holds the raw values of the habit form
type HabitFormModel struct {
	Name        string
	Description string
	Category    models.HabitCategory
	TargetDays  string
	DailyCost   string
}

// NewHabitForm creates a new form for adding habits
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	options := make([]huh.Option[models.HabitCategory], 0, len(models.Categories()))
	for _, c := range models.Categories() {
		options = append(options, huh.NewOption(c.Icon()+" "+c.DisplayName(), c))
	}
	if fm.Category == "" {
		fm.Category = models.CategoryOther
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(notBlank("habit name")),
			huh.NewInput().
				Title("Why are you quitting?").
				Value(&fm.Description).
				Validate(notBlank("description")),
			huh.NewSelect[models.HabitCategory]().
				Title("Category").
				Options(options...).
				Value(&fm.Category),
			huh.NewInput().
				Title("Target (days)").
				Description("Leave empty for no goal").
				Value(&fm.TargetDays).
				Validate(func(s string) error {
					_, err := ParseTargetDays(s)
					return err
				}),
			huh.NewInput().
				Title("Daily cost").
				Description("What the habit costs you per day, empty to skip").
				Value(&fm.DailyCost).
				Validate(func(s string) error {
					_, err := ParseDailyCost(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func notBlank(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}

// ParseTargetDays turns form text into an optional positive goal
func ParseTargetDays(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("target must be a positive number of days")
	}
	return &n, nil
}

// ParseDailyCost turns form text into an optional non-negative amount
func ParseDailyCost(s string) (*float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("daily cost must be a non-negative number")
	}
	return &v, nil
}
