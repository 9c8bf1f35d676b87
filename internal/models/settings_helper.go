package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/verdant/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingDefaultPeriod:
			p := Period(value)
			if !p.Valid() {
				return Settings{}, fmt.Errorf("parsing default_period: unknown period %q", value)
			}
			settings.DefaultPeriod = p
		case constants.SettingAutoBackup:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing auto_backup: %w", err)
			}
			settings.AutoBackup = b
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingNotificationsEnabled: strconv.FormatBool(settings.NotificationsEnabled),
		constants.SettingDefaultPeriod:        string(settings.DefaultPeriod),
		constants.SettingAutoBackup:           strconv.FormatBool(settings.AutoBackup),
	}
}

// DefaultSettings returns the settings a freshly initialized store starts with.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		DefaultPeriod:        Period(constants.DefaultPeriod),
		AutoBackup:           constants.DefaultAutoBackup,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.DefaultPeriod == "" {
		settings.DefaultPeriod = Period(constants.DefaultPeriod)
	}
}
