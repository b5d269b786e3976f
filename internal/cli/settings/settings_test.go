package settings

import (
	"context"
	"testing"

	"github.com/julianstephens/cleanstreak/internal/cli/clitest"
	"github.com/julianstephens/cleanstreak/internal/constants"
)

func TestSettingsTimezoneCmd(t *testing.T) {
	ctx := clitest.Setup(t)
	ctx.Config.Timezone = ""
	bg := context.Background()

	if err := (&SettingsTimezoneCmd{Zone: "Mars/Olympus"}).Run(ctx); err == nil {
		t.Error("expected error for an unknown zone")
	}
	if got, _ := ctx.Store.GetSetting(bg, constants.SettingTimezone); got != constants.DefaultTimezone {
		t.Errorf("invalid zone should not be stored, got %q", got)
	}

	if err := (&SettingsTimezoneCmd{Zone: "Asia/Tokyo"}).Run(ctx); err != nil {
		t.Fatalf("set timezone failed: %v", err)
	}
	got, err := ctx.Store.GetSetting(bg, constants.SettingTimezone)
	if err != nil || got != "Asia/Tokyo" {
		t.Errorf("stored timezone = %q (%v), want Asia/Tokyo", got, err)
	}

	tz, source, err := timezone(ctx)
	if err != nil || tz != "Asia/Tokyo" || source != "stored setting" {
		t.Errorf("timezone() = %q, %q, %v", tz, source, err)
	}
	if err := (&SettingsTimezoneCmd{}).Run(ctx); err != nil {
		t.Errorf("show timezone failed: %v", err)
	}

	if err := (&SettingsTimezoneCmd{Reset: true}).Run(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if _, source, _ := timezone(ctx); source != "system" {
		t.Errorf("source after reset = %q, want system", source)
	}
}

func TestTimezoneFlagWins(t *testing.T) {
	ctx := clitest.Setup(t)
	if err := ctx.Store.SetSetting(context.Background(), constants.SettingTimezone, "Asia/Tokyo"); err != nil {
		t.Fatal(err)
	}

	tz, source, err := timezone(ctx)
	if err != nil || tz != "UTC" || source != "flag or environment" {
		t.Errorf("timezone() = %q, %q, %v; want UTC from the flag", tz, source, err)
	}
}

func TestSettingsShowCmd(t *testing.T) {
	ctx := clitest.Setup(t)
	if err := (&SettingsShowCmd{}).Run(ctx); err != nil {
		t.Errorf("config show failed: %v", err)
	}
}
