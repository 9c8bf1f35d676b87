package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/verdant/internal/engine"
	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/utils"
)

type AddHabitMsg struct{}

type MarkHabitMsg struct {
	Name string
}

type UnmarkHabitMsg struct {
	Name string
}

// ArchiveHabitMsg toggles the archived state of the named habit.
type ArchiveHabitMsg struct {
	Name      string
	Unarchive bool
}

type DeleteHabitMsg struct {
	Name string
}

type Item struct {
	Habit  models.Habit
	Done   bool
	Pct    int
	Period models.Period
}

func (i Item) Title() string {
	switch {
	case i.Habit.IsArchived():
		return "[ARCHIVED] " + i.Habit.Name
	case i.Done:
		return "✓ " + i.Habit.Name
	}
	return "○ " + i.Habit.Name
}

func (i Item) Description() string {
	if i.Habit.IsArchived() {
		return "archived, press 'x' to restore"
	}
	return fmt.Sprintf("%s · streak %d · best %d · %d%% this %s",
		i.Habit.Frequency, i.Habit.CurrentStreak, i.Habit.LongestStreak, i.Pct, i.Period)
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add     key.Binding
	Mark    key.Binding
	Unmark  key.Binding
	Archive key.Binding
	Delete  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Mark: key.NewBinding(
			key.WithKeys("m", " "),
			key.WithHelp("m", "mark done"),
		),
		Unmark: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unmark"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

// Items builds list items for habits as of today.
func Items(habits []models.Habit, today utils.DayKey, period models.Period) []list.Item {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{
			Habit:  h,
			Done:   h.HasCompletion(today),
			Pct:    engine.CalculateCompletionPercentage(h, period, today),
			Period: period,
		}
	}
	return items
}

func New(habits []models.Habit, today utils.DayKey, period models.Period, width, height int) Model {
	l := list.New(Items(habits, today, period), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	bindings := func() []key.Binding {
		return []key.Binding{keys.Add, keys.Mark, keys.Unmark, keys.Archive, keys.Delete}
	}
	l.AdditionalShortHelpKeys = bindings
	l.AdditionalFullHelpKeys = bindings

	return Model{list: l, keys: keys}
}

func (m *Model) SetHabits(habits []models.Habit, today utils.DayKey, period models.Period) {
	m.list.SetItems(Items(habits, today, period))
}

// Filtering reports whether the list is capturing keys for its filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		i, selected := m.list.SelectedItem().(Item)
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Mark):
			if selected && !i.Habit.IsArchived() && !i.Done {
				return m, func() tea.Msg { return MarkHabitMsg{Name: i.Habit.Name} }
			}
		case key.Matches(msg, m.keys.Unmark):
			if selected && !i.Habit.IsArchived() && i.Done {
				return m, func() tea.Msg { return UnmarkHabitMsg{Name: i.Habit.Name} }
			}
		case key.Matches(msg, m.keys.Archive):
			if selected {
				return m, func() tea.Msg { return ArchiveHabitMsg{Name: i.Habit.Name, Unarchive: i.Habit.IsArchived()} }
			}
		case key.Matches(msg, m.keys.Delete):
			if selected {
				return m, func() tea.Msg { return DeleteHabitMsg{Name: i.Habit.Name} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
