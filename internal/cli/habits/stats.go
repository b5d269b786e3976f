package habits

import (
	"context"
	"fmt"

	"github.com/julianstephens/cleanstreak/internal/cli"
)

type StatsCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	return showStats(ctx, c.Habit)
}

type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	user, err := ctx.Users.Get(bg, userID)
	if err != nil {
		return err
	}
	d, err := ctx.Tracker.GetDashboardStatistics(bg, user.ID)
	if err != nil {
		return err
	}
	fmt.Println(cli.RenderDashboard(d, user.DisplayName()))

	habits, err := ctx.Tracker.ListHabits(bg, user.ID, false)
	if err != nil {
		return err
	}
	for _, h := range habits {
		fmt.Println(cli.RenderHabitLine(h))
	}
	return nil
}
