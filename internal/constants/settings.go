package constants

const (
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingDefaultPeriod        = "default_period"
	SettingAutoBackup           = "auto_backup"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
	DefaultPeriod               = "week"
	DefaultAutoBackup           = true
)
