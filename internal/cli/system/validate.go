package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/verdant/internal/cli"
)

type ValidateCmd struct {
	Fix bool `help:"Remove invalid completions and rebuild streaks, badges and garden."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	result, err := ctx.Tracker.Validate(bg)
	if err != nil {
		return err
	}

	if !result.HasConflicts() {
		ctx.Println("✓ No conflicts detected.")
		return nil
	}
	ctx.Print(result.FormatReport())

	if !c.Fix {
		ctx.Println("\nRun 'verdant validate --fix' to repair what can be fixed automatically.")
		return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
	}

	ctx.PerformAutomaticBackup()

	fixed, err := ctx.Tracker.Repair(bg)
	if err != nil {
		return fmt.Errorf("repair failed: %w", err)
	}
	ctx.Println()
	for _, f := range fixed {
		ctx.Printf("  ✓ %s\n", f)
	}

	result, err = ctx.Tracker.Validate(bg)
	if err != nil {
		return err
	}
	if result.HasConflicts() {
		ctx.Print("\nRemaining issues need manual attention:\n" + result.FormatReport())
		return fmt.Errorf("%d conflict(s) remain", len(result.Conflicts))
	}
	ctx.Println("✓ All conflicts resolved.")
	return nil
}
