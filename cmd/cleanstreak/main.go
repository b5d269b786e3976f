package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/cleanstreak/internal/cli"
	"github.com/julianstephens/cleanstreak/internal/cli/account"
	"github.com/julianstephens/cleanstreak/internal/cli/achievements"
	"github.com/julianstephens/cleanstreak/internal/cli/backups"
	"github.com/julianstephens/cleanstreak/internal/cli/content"
	"github.com/julianstephens/cleanstreak/internal/cli/habits"
	"github.com/julianstephens/cleanstreak/internal/cli/settings"
	"github.com/julianstephens/cleanstreak/internal/cli/system"
	"github.com/julianstephens/cleanstreak/internal/config"
	"github.com/julianstephens/cleanstreak/internal/constants"
	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite database path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use ${env_conn}, .pgpass, or the OS keyring instead." default:"${db}"`
	Debug    bool   `help:"Enable debug logging to stderr." default:"${debug}"`
	Timezone string `help:"Timezone that decides what 'today' is (overrides the stored setting)." default:"${timezone}"`

	Init   system.InitCmd    `cmd:"" help:"Initialize cleanstreak storage."`
	Doctor system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Serve  system.ServeCmd   `cmd:"" help:"Run the JSON HTTP API."`
	Debugs system.DebugCmd   `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keys   system.KeyringCmd `cmd:"" name:"keyring" help:"Manage secrets in the OS keyring."`

	User         account.UserCmd             `cmd:"" help:"Manage your account and session."`
	Habit        habits.HabitCmd             `cmd:"" help:"Manage habits."`
	Log          habits.LogCmd               `cmd:"" help:"Log a clean day or a relapse."`
	Stats        habits.StatsCmd             `cmd:"" help:"Show statistics for a habit."`
	Dashboard    habits.DashboardCmd         `cmd:"" default:"1" help:"Show your overall progress."`
	Achievements achievements.AchievementCmd `cmd:"" aliases:"achievement" help:"Browse unlocked achievements."`
	Quote        content.QuoteCmd            `cmd:"" help:"Show a motivational quote."`
	Fact         content.FactCmd             `cmd:"" help:"Show a health fact."`
	Content      content.ContentCmd          `cmd:"" help:"Manage the offline content cache."`
	Backup       backups.BackupCmd           `cmd:"" help:"Manage database backups."`
	Settings     settings.SettingsCmd         `cmd:"" help:"Show or change application settings."`
}

// These commands open the store themselves, or work without one
var selfManaged = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		apperrors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Quit bad habits one clean day at a time"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":  constants.Version,
			"db":       cfg.DB,
			"debug":    fmt.Sprint(cfg.Debug),
			"timezone": cfg.Timezone,
			"env_conn": config.EnvDBConnection,
		},
	)
	cfg.DB, cfg.Debug, cfg.Timezone = CLI.Config, CLI.Debug, CLI.Timezone

	command, _, _ := strings.Cut(ctx.Command(), " ")
	configDir, err := config.ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	if err == nil {
		err = logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir, JSON: command == "serve"})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	store, err := cli.OpenStore(cfg)
	if err != nil {
		apperrors.Fatalf("❌ %v", err)
	}

	appCtx := cli.NewContext(cfg, store)
	if !selfManaged[command] {
		if err := appCtx.Open(); err != nil {
			apperrors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	store.Close()
	apperrors.Fatal(err)
}
