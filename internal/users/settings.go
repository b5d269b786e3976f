package users

import (
	"context"
	"strconv"
	"time"

	"github.com/julianstephens/cleanstreak/internal/constants"
	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/models"
)

func DefaultSettings() models.UserSettings {
	return models.UserSettings{
		NotificationsEnabled:     constants.DefaultNotificationsEnabled,
		DailyReminderTime:        constants.DefaultDailyReminderTime,
		WeeklyReportEnabled:      constants.DefaultWeeklyReportEnabled,
		DarkModeEnabled:          constants.DefaultDarkModeEnabled,
		AchievementNotifications: constants.DefaultAchievementNotifications,
		MotivationalQuotes:       constants.DefaultMotivationalQuotes,
		DataBackupEnabled:        constants.DefaultDataBackupEnabled,
	}
}

func settingKey(userID, name string) string {
	return constants.SettingUserPrefix + userID + ":" + name
}

type boolSetting struct {
	name string
	ptr  *bool
}

func boolSettings(s *models.UserSettings) []boolSetting {
	return []boolSetting{
		{constants.SettingNotificationsEnabled, &s.NotificationsEnabled},
		{constants.SettingWeeklyReportEnabled, &s.WeeklyReportEnabled},
		{constants.SettingDarkModeEnabled, &s.DarkModeEnabled},
		{constants.SettingAchievementNotifications, &s.AchievementNotifications},
		{constants.SettingMotivationalQuotes, &s.MotivationalQuotes},
		{constants.SettingDataBackupEnabled, &s.DataBackupEnabled},
	}
}

// Settings reads the user's preferences, falling back to defaults per key
func (s *Service) Settings(ctx context.Context, userID string) (models.UserSettings, error) {
	out := DefaultSettings()
	for _, b := range boolSettings(&out) {
		raw, err := s.store.GetSetting(ctx, settingKey(userID, b.name))
		if apperrors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return models.UserSettings{}, err
		}
		if v, err := strconv.ParseBool(raw); err == nil {
			*b.ptr = v
		}
	}

	raw, err := s.store.GetSetting(ctx, settingKey(userID, constants.SettingDailyReminderTime))
	switch {
	case err == nil:
		out.DailyReminderTime = raw
	case !apperrors.IsNotFound(err):
		return models.UserSettings{}, err
	}
	return out, nil
}

// UpdateSettings replaces every preference for the user
func (s *Service) UpdateSettings(ctx context.Context, userID string, settings models.UserSettings) error {
	if userID == "" {
		return apperrors.ErrUnauthenticated
	}
	if err := ValidateReminderTime(settings.DailyReminderTime); err != nil {
		return err
	}
	for _, b := range boolSettings(&settings) {
		if err := s.store.SetSetting(ctx, settingKey(userID, b.name), strconv.FormatBool(*b.ptr)); err != nil {
			return err
		}
	}
	return s.store.SetSetting(ctx, settingKey(userID, constants.SettingDailyReminderTime), settings.DailyReminderTime)
}

// ValidateReminderTime accepts a 24-hour HH:MM clock time
func ValidateReminderTime(v string) error {
	if len(v) != len(constants.TimeFormat) {
		return apperrors.Validation("invalid time format %q, use HH:MM", v)
	}
	if _, err := time.Parse(constants.TimeFormat, v); err != nil {
		return apperrors.Validation("invalid time format %q, use HH:MM", v)
	}
	return nil
}
