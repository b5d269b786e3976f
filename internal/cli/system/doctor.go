package system

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/cleanstreak/internal/backup"
	"github.com/julianstephens/cleanstreak/internal/cli"
	"github.com/julianstephens/cleanstreak/internal/config"
	"github.com/julianstephens/cleanstreak/internal/constants"
	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/migration"
	"github.com/julianstephens/cleanstreak/internal/models"
	"github.com/julianstephens/cleanstreak/internal/streak"
)

// skipError marks a check that does not apply to the current setup
type skipError struct {
	reason string
}

func (e *skipError) Error() string {
	return "skipped: " + e.reason
}

func skipped(reason string) error {
	return &skipError{reason: reason}
}

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(context.Context, *cli.Context) error
	needsDB  bool
	severity string // "fail" or "warn"
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable, severity: "fail"},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true, severity: "fail"},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true, severity: "fail"},
	{name: "Backups present", run: checkBackupsPresent, severity: "warn"},
	{name: "Habit integrity", run: checkHabitIntegrity, needsDB: true, severity: "fail"},
	{name: "Clock/timezone", run: checkClockTimezone, needsDB: true, severity: "fail"},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	bg := context.Background()
	hasError := false
	dbReachable := false

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(bg, ctx)
		var skip *skipError
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
			if c.name == "Database reachable" {
				dbReachable = true
			}
		case errors.As(err, &skip):
			fmt.Printf("⊘ %s: SKIPPED (%s)\n", c.name, skip.reason)
		case c.severity == "warn":
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

type dbHandle interface {
	DB() *sql.DB
}

type schemaReporter interface {
	SchemaStatus(ctx context.Context) (migration.Status, error)
}

func checkDBReachable(bg context.Context, ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	h, ok := ctx.Store.(dbHandle)
	if !ok {
		return nil
	}
	var result int
	if err := h.DB().QueryRowContext(bg, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func schemaStatus(bg context.Context, ctx *cli.Context) (migration.Status, error) {
	r, ok := ctx.Store.(schemaReporter)
	if !ok {
		return migration.Status{}, skipped("store has no schema")
	}
	st, err := r.SchemaStatus(bg)
	if err != nil {
		return migration.Status{}, fmt.Errorf("failed to get schema status: %w", err)
	}
	return st, nil
}

func checkSchemaVersion(bg context.Context, ctx *cli.Context) error {
	st, err := schemaStatus(bg, ctx)
	if err != nil {
		return err
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	return nil
}

func checkMigrationsComplete(bg context.Context, ctx *cli.Context) error {
	st, err := schemaStatus(bg, ctx)
	if err != nil {
		return err
	}
	if st.Pending > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", st.Current, st.Latest)
	}
	return nil
}

func checkBackupsPresent(_ context.Context, ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return skipped("backups apply to SQLite only")
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

// checkHabitIntegrity verifies the session user's habits: entry days parse,
// no entry is dated in the future and the stored longest streak is not
// below what the entries show.
func checkHabitIntegrity(bg context.Context, ctx *cli.Context) error {
	if ctx.Tracker == nil {
		if err := ctx.Wire(); err != nil {
			return err
		}
	}
	userID, err := ctx.Users.CurrentID(bg)
	if errors.Is(err, apperrors.ErrUnauthenticated) {
		return skipped("no user logged in")
	}
	if err != nil {
		return err
	}

	habits, err := ctx.Tracker.ListHabits(bg, userID, true)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	today := ctx.Tracker.Today()
	for _, h := range habits {
		entries, err := ctx.Tracker.GetHabitEntries(bg, h.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to read entries for %q: %w", h.Name, err)
		}
		if err := verifyEntries(h, entries, today); err != nil {
			return err
		}
	}
	return nil
}

func verifyEntries(h models.Habit, entries []models.HabitEntry, today string) error {
	for _, e := range entries {
		if _, err := models.ParseDay(e.Day); err != nil {
			return fmt.Errorf("habit %q: %w", h.Name, err)
		}
		if e.Day > today {
			return fmt.Errorf("habit %q has an entry dated in the future: %s", h.Name, e.Day)
		}
	}
	if longest := streak.Longest(entries); h.LongestStreak < longest {
		return fmt.Errorf("habit %q stores longest streak %d but its entries show %d", h.Name, h.LongestStreak, longest)
	}
	return nil
}

func checkClockTimezone(bg context.Context, ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	tz := ctx.Config.Timezone
	if tz == "" {
		stored, err := ctx.Store.GetSetting(bg, constants.SettingTimezone)
		if err != nil && !apperrors.IsNotFound(err) {
			return err
		}
		tz = stored
	}
	if _, err := config.Location(tz); err != nil {
		return err
	}
	return nil
}
