package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/tracker"
	"github.com/julianstephens/verdant/internal/tui/components/habits"
)

// chromeHeight is the space taken by tabs, header, status line and help.
const chromeHeight = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateAddHabit {
		return m.updateForm(msg)
	}
	if m.state == StateConfirmDelete || m.state == StateConfirmArchive {
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h := max(0, msg.Height-chromeHeight)
		m.habitsModel.SetSize(msg.Width-4, h)
		m.gardenModel.SetSize(msg.Width-4, h)
		return m, nil

	case tea.KeyMsg:
		if m.state == StateHabits && m.habitsModel.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case habits.AddHabitMsg:
		return m.startAddHabit()

	case habits.MarkHabitMsg:
		out, err := m.tracker.Complete(context.Background(), msg.Name, "")
		m.setResult(err, describeOutcome(fmt.Sprintf("✓ %s done", msg.Name), out))
		return m, nil

	case habits.UnmarkHabitMsg:
		out, err := m.tracker.Uncomplete(context.Background(), msg.Name, "")
		m.setResult(err, describeOutcome(fmt.Sprintf("Unmarked %s", msg.Name), out))
		return m, nil

	case habits.ArchiveHabitMsg:
		if msg.Unarchive {
			_, err := m.tracker.SetArchived(context.Background(), msg.Name, false)
			m.setResult(err, fmt.Sprintf("Unarchived %s", msg.Name))
			return m, nil
		}
		m.pendingHabit = msg.Name
		m.previousState = m.state
		m.state = StateConfirmArchive
		return m, nil

	case habits.DeleteHabitMsg:
		m.pendingHabit = msg.Name
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case StateGarden:
		m.gardenModel, cmd = m.gardenModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Confirm):
		ctx := context.Background()
		name := m.pendingHabit
		var err error
		var done string
		if m.state == StateConfirmDelete {
			_, err = m.tracker.Delete(ctx, name)
			done = fmt.Sprintf("Deleted %s", name)
		} else {
			_, err = m.tracker.SetArchived(ctx, name, true)
			done = fmt.Sprintf("Archived %s", name)
		}
		m.state = m.previousState
		m.pendingHabit = ""
		m.setResult(err, done)
	case key.Matches(k, m.keys.Cancel):
		m.state = m.previousState
		m.pendingHabit = ""
	}
	return m, nil
}

func (m Model) startAddHabit() (tea.Model, tea.Cmd) {
	m.habitForm = &HabitFormModel{
		Frequency: string(models.FrequencyDaily),
		Category:  string(models.CategoryOther),
	}

	categories := make([]huh.Option[string], len(models.Categories))
	for i, c := range models.Categories {
		categories[i] = huh.NewOption(string(c), string(c))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&m.habitForm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&m.habitForm.Description),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", string(models.FrequencyDaily)),
					huh.NewOption("Weekly", string(models.FrequencyWeekly)),
					huh.NewOption("Once", string(models.FrequencyOnce)),
				).
				Value(&m.habitForm.Frequency),
			huh.NewSelect[string]().
				Title("Category").
				Options(categories...).
				Value(&m.habitForm.Category),
		),
	).WithTheme(huh.ThemeDracula())

	m.previousState = m.state
	m.state = StateAddHabit
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		out, err := m.tracker.AddHabit(context.Background(), m.habitForm.Name, m.habitForm.Description,
			models.Frequency(m.habitForm.Frequency), models.Category(m.habitForm.Category))
		m.state = m.previousState
		m.setResult(err, describeAdded(out))
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

// setResult records the outcome of a mutation and refreshes the views.
func (m *Model) setResult(err error, ok string) {
	if err != nil {
		m.errMsg = err.Error()
		m.status = ""
		return
	}
	m.errMsg = ""
	m.status = ok
	m.reload()
}

func describeAdded(out tracker.Outcome) string {
	parts := []string{"Added " + out.Habit.Name}
	for _, b := range out.NewlyUnlocked {
		parts = append(parts, b.Icon+" "+b.Name)
	}
	return strings.Join(parts, " · ")
}

func describeOutcome(prefix string, out tracker.Outcome) string {
	parts := []string{fmt.Sprintf("%s · streak %d", prefix, out.Habit.CurrentStreak)}
	if d := out.PointsAfter - out.PointsBefore; d != 0 {
		parts = append(parts, fmt.Sprintf("%+d pts", d))
	}
	if out.LeveledUp() {
		parts = append(parts, fmt.Sprintf("🎉 level %d", out.Level.Level))
	}
	for _, b := range out.NewlyUnlocked {
		parts = append(parts, b.Icon+" "+b.Name)
	}
	return strings.Join(parts, " · ")
}
