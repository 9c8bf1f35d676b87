package models

// Period is a trailing consistency window.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Valid reports whether p is a known window.
func (p Period) Valid() bool {
	return p == PeriodWeek || p == PeriodMonth
}

// Settings represents application-wide settings
type Settings struct {
	Timezone             string `json:"timezone"`              // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether badge unlocks are sent to the tray app
	DefaultPeriod        Period `json:"default_period"`        // consistency window used by listings
	AutoBackup           bool   `json:"auto_backup"`           // whether destructive commands take a backup first
}
