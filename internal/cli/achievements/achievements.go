package achievements

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/cleanstreak/internal/cli"
	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/models"
)

type AchievementCmd struct {
	List    AchievementListCmd    `cmd:"" default:"withargs" help:"List unlocked achievements."`
	New     AchievementNewCmd     `cmd:"" help:"Show achievements unlocked in the last day."`
	View    AchievementViewCmd    `cmd:"" help:"Mark an achievement as viewed."`
	ViewAll AchievementViewAllCmd `cmd:"" name:"view-all" help:"Mark every achievement as viewed."`
}

type AchievementListCmd struct {
	Habit string `help:"Only show achievements for this habit."`
	Limit int    `short:"n" help:"Show only the N most recent."`
}

func (c *AchievementListCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}

	var list []models.Achievement
	switch {
	case c.Habit != "":
		habit, err := ctx.FindHabit(bg, userID, c.Habit)
		if err != nil {
			return err
		}
		list, err = ctx.Tracker.HabitAchievements(bg, habit.ID, userID)
		if err != nil {
			return err
		}
	case c.Limit > 0:
		list, err = ctx.Tracker.RecentAchievements(bg, userID, c.Limit)
	default:
		list, err = ctx.Tracker.ListAchievements(bg, userID)
	}
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("No achievements yet. Keep going!")
		return nil
	}
	for _, a := range list {
		fmt.Printf("%s %s\n", cli.MutedStyle.Render(cli.ShortID(a.ID)), cli.RenderAchievement(a))
	}
	return nil
}

type AchievementNewCmd struct{}

func (c *AchievementNewCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	list, err := ctx.Tracker.NewAchievements(bg, userID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("Nothing new in the last day.")
		return nil
	}
	for _, a := range list {
		fmt.Printf("%s %s\n", cli.MutedStyle.Render(cli.ShortID(a.ID)), cli.RenderAchievement(a))
	}
	return nil
}

type AchievementViewCmd struct {
	ID string `arg:"" help:"Achievement id or id prefix."`
}

func (c *AchievementViewCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	a, err := findAchievement(ctx, userID, c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Tracker.MarkAchievementViewed(bg, a.ID, userID); err != nil {
		return err
	}
	fmt.Println(cli.RenderAchievement(a))
	return nil
}

// findAchievement resolves a full id or a unique prefix among the user's
// achievements. A full id belonging to someone else falls through to the
// tracker, which reports it as forbidden.
func findAchievement(ctx *cli.Context, userID, ref string) (models.Achievement, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Achievement{}, apperrors.Validation("achievement id cannot be empty")
	}
	list, err := ctx.Tracker.ListAchievements(context.Background(), userID)
	if err != nil {
		return models.Achievement{}, err
	}
	var matches []models.Achievement
	for _, a := range list {
		if a.ID == ref {
			return a, nil
		}
		if strings.HasPrefix(a.ID, ref) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return models.Achievement{ID: ref}, nil
	case 1:
		return matches[0], nil
	default:
		return models.Achievement{}, apperrors.Validation("achievement id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

type AchievementViewAllCmd struct{}

func (c *AchievementViewAllCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	n, err := ctx.Tracker.UnviewedAchievementCount(bg, userID)
	if err != nil {
		return err
	}
	if err := ctx.Tracker.MarkAllAchievementsViewed(bg, userID); err != nil {
		return err
	}
	fmt.Printf("%s Marked %d achievement(s) as viewed.\n", cli.SuccessStyle.Render("✓"), n)
	return nil
}
