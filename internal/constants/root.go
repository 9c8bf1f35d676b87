package constants

import "time"

const (
	AppName            = "verdant"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/verdant/verdant.db"
	Version            = "v0.3.0"

	// Environment variables
	EnvConfig       = "VERDANT_CONFIG"
	EnvDBConnection = "VERDANT_DB_CONNECTION"
	EnvDebug        = "VERDANT_DEBUG"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "verdant-"
	BackupFileSuffix = ".db"

	// Logging
	LogDirName     = "logs"
	LogFileName    = "verdant.log"
	LogMaxSizeMB   = 10
	LogMaxBackups  = 3
	LogMaxAgeDays  = 28
	LogPrefix      = AppName
	LogCompression = true

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "verdant-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.verdant"
	TrayExecutablePrefix   = "verdant-tray"
	NotifierSecretHeader   = "X-Verdant-Secret"
)
