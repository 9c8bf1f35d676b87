// Package cli holds the state shared by every verdant command and a few
// rendering helpers.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/verdant/internal/backup"
	"github.com/julianstephens/verdant/internal/logger"
	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/storage"
	"github.com/julianstephens/verdant/internal/tracker"
	"github.com/julianstephens/verdant/internal/utils"
)

type Context struct {
	Store   storage.Provider
	Tracker *tracker.Service
	// SQLite is true when Store is backed by a local database file.
	SQLite bool

	In  io.Reader
	Out io.Writer
}

// Stdout returns the command output writer.
func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) stdin() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// Printf writes formatted command output.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

// Print writes command output as is.
func (c *Context) Print(args ...any) {
	fmt.Fprint(c.Stdout(), args...)
}

// Println writes a line of command output.
func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Confirm asks a yes/no question and defaults to no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.stdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// PerformAutomaticBackup snapshots a SQLite database when auto backups are
// enabled. Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	if !c.SQLite {
		return
	}
	settings, err := c.Store.GetSettings()
	if err == nil && !settings.AutoBackup {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseDay accepts YYYY-MM-DD, "today" or "yesterday". Empty input yields
// an empty key, which the tracker reads as today.
func (c *Context) ParseDay(s string) (utils.DayKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return "", nil
	case "yesterday":
		today, err := c.Tracker.Today()
		if err != nil {
			return "", err
		}
		return utils.AddDays(today, -1), nil
	}
	day, err := utils.ParseDayKey(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return day, nil
}

// ProgressBar renders pct (clamped to 0..100) as a fixed-width bar.
func ProgressBar(pct, width int) string {
	pct = max(0, min(pct, 100))
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// HabitStatus returns a short marker for archived and deleted habits.
func HabitStatus(h models.Habit) string {
	switch {
	case h.IsDeleted():
		return " [DELETED]"
	case h.IsArchived():
		return " [ARCHIVED]"
	}
	return ""
}

// Truncate pads or shortens s to exactly width runes.
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width > 3 {
			return string(r[:width-3]) + "..."
		}
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
