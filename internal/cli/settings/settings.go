package settings

import (
	"fmt"

	"github.com/julianstephens/verdant/internal/cli"
	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone used to decide what 'today' is (or 'Local')."`
	NotificationsEnabled *bool   `help:"Enable or disable badge notifications." name:"notifications"`
	DefaultPeriod        *string `help:"Default consistency window: week or month." name:"period"`
	AutoBackup           *bool   `help:"Back up the database before destructive commands."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:              %s\n", settings.Timezone)
		ctx.Printf("  Default Period:        %s\n", settings.DefaultPeriod)
		ctx.Printf("  Auto Backup:           %v\n", settings.AutoBackup)
		ctx.Println("\nNotification Settings:")
		ctx.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.DefaultPeriod != nil {
		p := models.Period(*c.DefaultPeriod)
		if !p.Valid() {
			return fmt.Errorf("invalid period %q (expected week or month)", *c.DefaultPeriod)
		}
		settings.DefaultPeriod = p
		updated = true
	}
	if c.AutoBackup != nil {
		settings.AutoBackup = *c.AutoBackup
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
