package system

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/verdant/internal/cli"
	"github.com/julianstephens/verdant/internal/logger"
	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/notifier"
	"github.com/julianstephens/verdant/internal/tracker"
	"github.com/julianstephens/verdant/internal/utils"
)

var newNotifier = func() tracker.Notifier { return notifier.New() }

// NotifyCmd sends a reminder for daily habits done yesterday but not yet
// today, whose streak breaks at midnight. Meant to run from cron or a systemd timer.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		if c.DryRun {
			ctx.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	snap, err := ctx.Tracker.Snapshot(context.Background())
	if err != nil {
		return err
	}

	yesterday := utils.AddDays(snap.Today, -1)
	var atRisk []string
	for _, h := range snap.Active() {
		if h.Frequency != models.FrequencyDaily || h.HasCompletion(snap.Today) {
			continue
		}
		if h.HasCompletion(yesterday) {
			atRisk = append(atRisk, fmt.Sprintf("%s (%d)", h.Name, h.CurrentStreak))
		}
	}
	if len(atRisk) == 0 {
		if c.DryRun {
			ctx.Println("No streaks at risk today.")
		}
		return nil
	}

	msg := "Keep your streaks alive: " + strings.Join(atRisk, ", ")
	if c.DryRun {
		ctx.Println("[DryRun] " + msg)
		return nil
	}

	if err := newNotifier().Notify(context.Background(), msg); err != nil {
		if errors.Is(err, notifier.ErrTrayNotRunning) {
			logger.Debug("Tray app not running, reminder skipped")
			return nil
		}
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
