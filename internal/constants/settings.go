package constants

const (
	// General Settings
	SettingTimezone      = "timezone"
	SettingSessionUserID = "session_user_id"

	// Per-user settings are stored as "user:<id>:<key>"
	SettingUserPrefix               = "user:"
	SettingNotificationsEnabled     = "notifications_enabled"
	SettingDailyReminderTime        = "daily_reminder_time"
	SettingWeeklyReportEnabled      = "weekly_report_enabled"
	SettingDarkModeEnabled          = "dark_mode_enabled"
	SettingAchievementNotifications = "achievement_notifications"
	SettingMotivationalQuotes       = "motivational_quotes"
	SettingDataBackupEnabled        = "data_backup_enabled"

	// Content cache
	SettingLastQuoteSync         = "last_quote_sync"
	SettingLastHealthTipSync     = "last_health_tip_sync"
	SettingCachedQuotes          = "cached_quotes"
	SettingCachedHealthTips      = "cached_health_tips"
	SettingDailyQuoteDate        = "daily_quote_date"
	SettingDailyQuoteContent     = "daily_quote_content"
	SettingDailyHealthTipDate    = "daily_health_tip_date"
	SettingDailyHealthTipContent = "daily_health_tip_content"

	// Default Settings Values
	DefaultTimezone                 = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled     = true
	DefaultDailyReminderTime        = "20:00"
	DefaultWeeklyReportEnabled      = true
	DefaultDarkModeEnabled          = false
	DefaultAchievementNotifications = true
	DefaultMotivationalQuotes       = true
	DefaultDataBackupEnabled        = false
)
