package constants

import "time"

const (
	AppName            = "cleanstreak"
	DefaultKeyringUser = "database-connection"
	JWTKeyringUser     = "api-signing-secret"
	DefaultConfigPath  = "~/.config/cleanstreak/cleanstreak.db"
	Version            = "v0.3.0"

	// DateFormat is the calendar-day key format used for entries (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the clock format used for reminder times (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "cleanstreak-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "cleanstreak-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.cleanstreak"

	// Streak constants
	// GraceDays is how many calendar days the latest entry may trail "today"
	// before the current streak is considered broken.
	GraceDays = 1

	// Achievement thresholds (consecutive successful days)
	FirstDayThreshold     = 1
	WeekStreakThreshold   = 7
	MonthStreakThreshold  = 30
	HundredDaysThreshold  = 100
	MultipleHabitsMinimum = 3

	// Statistics constants
	RecentEntriesWindowDays = 30
	RecentEntriesLimit      = 30
	NewAchievementWindow    = 24 * time.Hour
	DefaultRecentLimit      = 10

	// User constants
	MinPasswordLength = 6

	// Content constants
	DefaultQuotesBaseURL = "https://api.quotable.io/"
	DefaultFactsBaseURL  = "https://uselessfacts.jsph.pl/"
	DefaultQuoteTag      = "motivational"
	DefaultFactBatchSize = 5
	DefaultHTTPTimeout   = 10 * time.Second

	// API constants
	DefaultAPIPort  = "8080"
	TokenTTL        = 24 * time.Hour
	TokenIssuer     = AppName
	ShutdownTimeout = 5 * time.Second
)
