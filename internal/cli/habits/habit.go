package habits

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/cleanstreak/internal/cli"
	"github.com/julianstephens/cleanstreak/internal/models"
	"github.com/julianstephens/cleanstreak/internal/tracker"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Show    HabitShowCmd    `cmd:"" help:"Show a habit with its statistics."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit a habit."`
	Entries HabitEntriesCmd `cmd:"" help:"Show every logged day of a habit."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit (stop tracking, keep history)."`
	Restore HabitRestoreCmd `cmd:"" help:"Reactivate an archived habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit with its entries and achievements."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name. Omit to fill in a form."`
	Description string `short:"d" help:"Why you are quitting."`
	Category    string `short:"c" help:"Category (smoking, social_media, junk_food, alcohol, procrastination, gaming, spending, caffeine, nail_biting, other)." default:"other"`
	Target      string `short:"t" help:"Goal in days."`
	Cost        string `help:"What the habit costs per day."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}

	fm := cli.HabitFormModel{
		Name:        c.Name,
		Description: c.Description,
		TargetDays:  c.Target,
		DailyCost:   c.Cost,
	}
	if c.Category != "" {
		category, err := models.ParseCategory(c.Category)
		if err != nil {
			return err
		}
		fm.Category = category
	}
	if strings.TrimSpace(fm.Name) == "" {
		if err := cli.NewHabitForm(&fm).Run(); err != nil {
			return err
		}
	}

	in, err := newHabit(fm)
	if err != nil {
		return err
	}
	habit, unlocked, err := ctx.Tracker.CreateHabit(bg, userID, in)
	if err != nil {
		return err
	}

	fmt.Printf("%s Added habit: %s %s (%s)\n", cli.SuccessStyle.Render("✓"), habit.Category.Icon(), habit.Name, cli.ShortID(habit.ID))
	cli.PrintUnlocked(unlocked)
	return nil
}

func newHabit(fm cli.HabitFormModel) (tracker.NewHabit, error) {
	target, err := cli.ParseTargetDays(fm.TargetDays)
	if err != nil {
		return tracker.NewHabit{}, err
	}
	cost, err := cli.ParseDailyCost(fm.DailyCost)
	if err != nil {
		return tracker.NewHabit{}, err
	}
	if fm.Category == "" {
		fm.Category = models.CategoryOther
	}
	return tracker.NewHabit{
		Name:        fm.Name,
		Description: fm.Description,
		Category:    fm.Category,
		TargetDays:  target,
		DailyCost:   cost,
	}, nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}

	habits, err := ctx.Tracker.ListHabits(bg, userID, c.Archived)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found. Add one with 'cleanstreak habit add'.")
		return nil
	}
	for _, h := range habits {
		fmt.Println(cli.RenderHabitLine(h))
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	return showStats(ctx, c.Habit)
}

func showStats(ctx *cli.Context, ref string) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(bg, userID, ref)
	if err != nil {
		return err
	}
	st, err := ctx.Tracker.GetHabitStatistics(bg, habit.ID, userID)
	if err != nil {
		return err
	}
	fmt.Println(cli.RenderHabitStats(st))
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit id, id prefix or name."`
	Name        *string `help:"New name."`
	Description *string `short:"d" help:"New description."`
	Category    *string `short:"c" help:"New category."`
	Target      *string `short:"t" help:"New goal in days; empty string removes the goal."`
	Cost        *string `help:"New daily cost; empty string removes it."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(bg, userID, c.Habit)
	if err != nil {
		return err
	}

	upd, err := c.update()
	if err != nil {
		return err
	}
	habit, err = ctx.Tracker.EditHabit(bg, habit.ID, userID, upd)
	if err != nil {
		return err
	}
	fmt.Printf("%s Updated habit: %s\n", cli.SuccessStyle.Render("✓"), habit.Name)
	return nil
}

func (c *HabitEditCmd) update() (tracker.HabitUpdate, error) {
	upd := tracker.HabitUpdate{Name: c.Name, Description: c.Description}
	if c.Category != nil {
		category, err := models.ParseCategory(*c.Category)
		if err != nil {
			return upd, err
		}
		upd.Category = &category
	}
	if c.Target != nil {
		target, err := cli.ParseTargetDays(*c.Target)
		if err != nil {
			return upd, err
		}
		upd.TargetDays, upd.ClearTarget = target, target == nil
	}
	if c.Cost != nil {
		cost, err := cli.ParseDailyCost(*c.Cost)
		if err != nil {
			return upd, err
		}
		upd.DailyCost, upd.ClearCost = cost, cost == nil
	}
	if upd == (tracker.HabitUpdate{}) {
		return upd, errors.New("no changes specified")
	}
	return upd, nil
}

type HabitEntriesCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *HabitEntriesCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(bg, userID, c.Habit)
	if err != nil {
		return err
	}
	entries, err := ctx.Tracker.GetHabitEntries(bg, habit.ID, userID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No entries logged for %s yet.\n", habit.Name)
		return nil
	}
	fmt.Println(cli.TitleStyle.Render(habit.Name))
	for _, e := range entries {
		fmt.Println(cli.RenderEntry(e))
	}
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	return setActive(ctx, c.Habit, false)
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	return setActive(ctx, c.Habit, true)
}

func setActive(ctx *cli.Context, ref string, active bool) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(bg, userID, ref)
	if err != nil {
		return err
	}
	if habit.Active == active {
		fmt.Printf("Habit %s is already %s.\n", habit.Name, activeWord(active))
		return nil
	}
	if _, err := ctx.Tracker.SetHabitActive(bg, habit.ID, userID, active); err != nil {
		return err
	}
	fmt.Printf("%s Habit %s is now %s.\n", cli.SuccessStyle.Render("✓"), habit.Name, activeWord(active))
	return nil
}

func activeWord(active bool) string {
	if active {
		return "active"
	}
	return "archived"
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(bg, userID, c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := cli.Confirm(fmt.Sprintf("Delete %q with all its entries and achievements?", habit.Name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Tracker.DeleteHabit(bg, habit.ID, userID); err != nil {
		return err
	}
	fmt.Printf("%s Deleted habit: %s\n", cli.SuccessStyle.Render("✓"), habit.Name)
	return nil
}
