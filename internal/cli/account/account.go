package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/cleanstreak/internal/cli"
	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/users"
)

type UserCmd struct {
	Register UserRegisterCmd `cmd:"" help:"Create an account."`
	Login    UserLoginCmd    `cmd:"" help:"Log in and start a session."`
	Logout   UserLogoutCmd   `cmd:"" help:"End the current session."`
	Whoami   UserWhoamiCmd   `cmd:"" help:"Show the logged-in account."`
	Settings UserSettingsCmd `cmd:"" help:"Show or change your preferences."`
}

type UserRegisterCmd struct {
	Email    string `short:"e" required:"" help:"Email address."`
	Name     string `required:"" help:"Your name."`
	Password string `short:"p" help:"Password. Prompted for when omitted."`
	Login    bool   `help:"Start a session right away."`
}

func (c *UserRegisterCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	password, confirm := c.Password, c.Password
	if password == "" {
		var err error
		if password, err = cli.PromptPassword("Password"); err != nil {
			return err
		}
		if confirm, err = cli.PromptPassword("Confirm password"); err != nil {
			return err
		}
	}

	user, err := ctx.Users.Register(bg, users.RegisterRequest{
		Email:           c.Email,
		Password:        password,
		ConfirmPassword: confirm,
		Name:            c.Name,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s Welcome, %s! Your account was created.\n", cli.SuccessStyle.Render("✓"), user.DisplayName())

	if !c.Login {
		fmt.Printf("Next: %s user login -e %s\n", constants.AppName, user.Email)
		return nil
	}
	return ctx.Users.StartSession(bg, user.ID)
}

type UserLoginCmd struct {
	Email    string `short:"e" required:"" help:"Email address."`
	Password string `short:"p" help:"Password. Prompted for when omitted."`
}

func (c *UserLoginCmd) Run(ctx *cli.Context) error {
	password := c.Password
	if password == "" {
		var err error
		if password, err = cli.PromptPassword("Password"); err != nil {
			return err
		}
	}

	user, err := ctx.Users.Login(context.Background(), c.Email, password)
	if err != nil {
		return err
	}
	fmt.Printf("%s Logged in as %s.\n", cli.SuccessStyle.Render("✓"), user.Email)
	return nil
}

type UserLogoutCmd struct{}

func (c *UserLogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Users.Logout(context.Background()); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

type UserWhoamiCmd struct{}

func (c *UserWhoamiCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	user, err := ctx.Users.Get(bg, userID)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(user.Name))
	fmt.Printf("  Email:  %s\n", user.Email)
	fmt.Printf("  Joined: %s\n", user.JoinedAt.Local().Format("2006-01-02"))
	if user.LastLoginAt != nil {
		fmt.Printf("  Last login: %s\n", user.LastLoginAt.Local().Format("2006-01-02 15:04"))
	}
	if n, err := ctx.Tracker.UnviewedAchievementCount(bg, userID); err == nil && n > 0 {
		fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("  %d new achievement(s), see '%s achievements new'", n, constants.AppName)))
	}
	return nil
}

// UserSettingsCmd prints the preferences, or updates the flags that were
// given and leaves the rest alone
type UserSettingsCmd struct {
	Notifications            *bool   `help:"Enable notifications."`
	ReminderTime             *string `name:"reminder-time" help:"Daily reminder time (HH:MM)."`
	WeeklyReport             *bool   `help:"Enable the weekly report."`
	DarkMode                 *bool   `help:"Enable dark mode."`
	AchievementNotifications *bool   `help:"Notify when an achievement unlocks."`
	MotivationalQuotes       *bool   `help:"Show motivational quotes."`
	DataBackup               *bool   `help:"Back up the database after logging progress."`
}

func (c *UserSettingsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	userID, err := ctx.UserID(bg)
	if err != nil {
		return err
	}
	settings, err := ctx.Users.Settings(bg, userID)
	if err != nil {
		return err
	}

	changed := false
	apply := func(dst *bool, src *bool) {
		if src != nil {
			*dst, changed = *src, true
		}
	}
	apply(&settings.NotificationsEnabled, c.Notifications)
	apply(&settings.WeeklyReportEnabled, c.WeeklyReport)
	apply(&settings.DarkModeEnabled, c.DarkMode)
	apply(&settings.AchievementNotifications, c.AchievementNotifications)
	apply(&settings.MotivationalQuotes, c.MotivationalQuotes)
	apply(&settings.DataBackupEnabled, c.DataBackup)
	if c.ReminderTime != nil {
		settings.DailyReminderTime, changed = strings.TrimSpace(*c.ReminderTime), true
	}

	if changed {
		if err := ctx.Users.UpdateSettings(bg, userID, settings); err != nil {
			return err
		}
		fmt.Printf("%s Settings updated.\n", cli.SuccessStyle.Render("✓"))
	}

	fmt.Printf("  Notifications:             %s\n", onOff(settings.NotificationsEnabled))
	fmt.Printf("  Daily reminder:            %s\n", settings.DailyReminderTime)
	fmt.Printf("  Weekly report:             %s\n", onOff(settings.WeeklyReportEnabled))
	fmt.Printf("  Dark mode:                 %s\n", onOff(settings.DarkModeEnabled))
	fmt.Printf("  Achievement notifications: %s\n", onOff(settings.AchievementNotifications))
	fmt.Printf("  Motivational quotes:       %s\n", onOff(settings.MotivationalQuotes))
	fmt.Printf("  Automatic backups:         %s\n", onOff(settings.DataBackupEnabled))
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
