package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "companion"
	AppTitle           = "Daily Companion"
	DefaultKeyringUser = "api-key"
	DefaultConfigPath  = "~/.config/companion/companion.db"
	Version            = "v0.1.0"

	// DateFormat is the calendar-day format used for streaks and challenges (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the short clock format used in the UI (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "companion-"

	// Log rotation
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "companion-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.companion"
)

// Session States
const (
	StateChat SessionState = iota
	StateAPIKey
	StateAchievements
)
