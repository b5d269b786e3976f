package habits

import (
	"context"
	"fmt"

	"github.com/julianstephens/cleanstreak/internal/cli"
	"github.com/julianstephens/cleanstreak/internal/models"
	"github.com/julianstephens/cleanstreak/internal/tracker"
)

type LogCmd struct {
	Habit  string `arg:"" help:"Habit id, id prefix or name."`
	Failed bool   `short:"f" help:"Record a relapse instead of a clean day."`
	Date   string `help:"Day to log (YYYY-MM-DD). Defaults to today."`
	Note   string `short:"n" help:"Optional note for the day."`
	Mood   string `short:"m" help:"Mood (terrible, bad, neutral, good, excellent or 1-5)."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(bg, userID, c.Habit)
	if err != nil {
		return err
	}

	req := tracker.LogRequest{
		HabitID:    habit.ID,
		UserID:     userID,
		Successful: !c.Failed,
		Note:       c.Note,
	}
	if c.Date != "" {
		if req.Date, err = ctx.Tracker.ParseDate(c.Date); err != nil {
			return err
		}
	}
	if c.Mood != "" {
		mood, err := models.ParseMood(c.Mood)
		if err != nil {
			return err
		}
		req.Mood = &mood
	}

	res, err := ctx.Tracker.LogProgress(bg, req)
	if err != nil {
		return err
	}

	verb := "Logged"
	if res.Updated {
		verb = "Updated"
	}
	if res.Entry.Successful {
		fmt.Printf("%s %s clean day for %s on %s. Streak: 🔥 %d\n",
			cli.SuccessStyle.Render("✓"), verb, res.Habit.Name, res.Entry.Day, res.Habit.CurrentStreak)
	} else {
		fmt.Printf("%s %s relapse for %s on %s. Streak reset; tomorrow is a fresh start.\n",
			cli.WarningStyle.Render("✗"), verb, res.Habit.Name, res.Entry.Day)
	}
	cli.PrintUnlocked(res.Unlocked)
	if res.AchievementErr != nil {
		fmt.Println(cli.WarningStyle.Render("⚠ Progress saved, but achievements could not be checked: " + res.AchievementErr.Error()))
	}

	ctx.PerformAutomaticBackup(bg, userID)
	return nil
}
