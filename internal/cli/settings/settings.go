package settings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/cleanstreak/internal/cli"
	"github.com/julianstephens/cleanstreak/internal/config"
	"github.com/julianstephens/cleanstreak/internal/constants"
	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
)

type SettingsCmd struct {
	Show     SettingsShowCmd     `cmd:"" default:"1" help:"Show the effective configuration."`
	Timezone SettingsTimezoneCmd `cmd:"" help:"Show or set the timezone used to decide what 'today' is."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	tz, source, err := timezone(ctx)
	if err != nil {
		return err
	}
	backend := "postgresql"
	if ctx.IsSQLite() {
		backend = "sqlite (" + ctx.Store.GetConfigPath() + ")"
	}

	fmt.Printf("  Storage:     %s\n", backend)
	fmt.Printf("  Timezone:    %s %s\n", tz, cli.MutedStyle.Render("("+source+")"))
	fmt.Printf("  API port:    %s\n", ctx.Config.APIPort)
	fmt.Printf("  Quotes API:  %s\n", ctx.Config.QuotesURL)
	fmt.Printf("  Facts API:   %s\n", ctx.Config.FactsURL)
	fmt.Printf("  HTTP timeout: %s\n", ctx.Config.HTTPTimeout)
	if len(ctx.Config.CORSOrigins) > 0 {
		fmt.Printf("  CORS origins: %s\n", strings.Join(ctx.Config.CORSOrigins, ", "))
	}
	return nil
}

// timezone reports the zone in effect and where it came from
func timezone(ctx *cli.Context) (string, string, error) {
	if ctx.Config.Timezone != "" {
		return ctx.Config.Timezone, "flag or environment", nil
	}
	stored, err := ctx.Store.GetSetting(context.Background(), constants.SettingTimezone)
	switch {
	case err == nil && stored != "":
		return stored, "stored setting", nil
	case err != nil && !apperrors.IsNotFound(err):
		return "", "", err
	}
	return time.Local.String(), "system", nil
}

type SettingsTimezoneCmd struct {
	Zone  string `arg:"" optional:"" help:"IANA zone name such as Europe/Berlin, or Local."`
	Reset bool   `help:"Forget the stored zone and use the system one."`
}

func (c *SettingsTimezoneCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	switch {
	case c.Reset:
		if err := ctx.Store.DeleteSetting(bg, constants.SettingTimezone); err != nil {
			return err
		}
		fmt.Printf("%s Timezone reset to the system default.\n", cli.SuccessStyle.Render("✓"))
		return nil
	case c.Zone == "":
		tz, source, err := timezone(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", tz, source)
		return nil
	}

	if _, err := config.Location(c.Zone); err != nil {
		return err
	}
	if err := ctx.Store.SetSetting(bg, constants.SettingTimezone, c.Zone); err != nil {
		return err
	}
	fmt.Printf("%s Timezone set to %s.\n", cli.SuccessStyle.Render("✓"), c.Zone)
	if ctx.Config.Timezone != "" {
		fmt.Println(cli.WarningStyle.Render("⚠ --timezone / " + config.EnvTimezone + " is set and takes precedence."))
	}
	return nil
}
