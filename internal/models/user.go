package models

import (
	"strings"
	"time"
)

// User is an account that owns habits
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"`
	JoinedAt     time.Time    `json:"joined_at"`
	LastLoginAt  *time.Time   `json:"last_login_at,omitempty"`
	Settings     UserSettings `json:"settings"`
}

// DisplayName is the first word of the name, or the email's local part
func (u User) DisplayName() string {
	if fields := strings.Fields(u.Name); len(fields) > 0 {
		return fields[0]
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

// UserSettings are per-user preferences kept in the settings store
type UserSettings struct {
	NotificationsEnabled     bool   `json:"notifications_enabled"`
	DailyReminderTime        string `json:"daily_reminder_time"` // HH:MM
	WeeklyReportEnabled      bool   `json:"weekly_report_enabled"`
	DarkModeEnabled          bool   `json:"dark_mode_enabled"`
	AchievementNotifications bool   `json:"achievement_notifications"`
	MotivationalQuotes       bool   `json:"motivational_quotes"`
	DataBackupEnabled        bool   `json:"data_backup_enabled"`
}
