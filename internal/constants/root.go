package constants

import "time"

const (
	AppName            = "streaklit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/streaklit/streaklit.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DefaultTopic replaces a blank topic when a goal is started.
	DefaultTopic = "Swift"

	// Expiration sweep
	DefaultTickInterval = 60 * time.Second
	ExpirationGrace     = 32 * time.Hour

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "streaklit-"
	BackupFileSuffix = ".db"

	// Lock constants
	LockfileName = "streaklit.lock"
)
