package system

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/cleanstreak/internal/cli"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpHabit    *DebugDumpHabitCmd    `cmd:"" help:"Dump habit data with its entries as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump the logged-in user's settings as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(bg, userID, cmd.Habit)
	if err != nil {
		return err
	}
	entries, err := ctx.Tracker.GetHabitEntries(bg, habit.ID, userID)
	if err != nil {
		return err
	}
	achievements, err := ctx.Tracker.HabitAchievements(bg, habit.ID, userID)
	if err != nil {
		return err
	}
	return printJSON(map[string]interface{}{
		"habit":        habit,
		"entries":      entries,
		"achievements": achievements,
	})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	settings, err := ctx.Users.Settings(bg, userID)
	if err != nil {
		return err
	}
	return printJSON(settings)
}

func printJSON(v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
