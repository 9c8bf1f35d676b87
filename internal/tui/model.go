// Package tui is the interactive terminal view over the habit tracker.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/verdant/internal/tracker"
	"github.com/julianstephens/verdant/internal/tui/components/badges"
	"github.com/julianstephens/verdant/internal/tui/components/garden"
	"github.com/julianstephens/verdant/internal/tui/components/habits"
)

type SessionState int

// Tab states come first so they can be cycled by index.
const (
	StateHabits SessionState = iota
	StateGarden
	StateBadges
	StateAddHabit
	StateConfirmDelete
	StateConfirmArchive
)

const tabCount = 3

type HabitFormModel struct {
	Name        string
	Description string
	Frequency   string
	Category    string
}

type Model struct {
	tracker       *tracker.Service
	snapshot      tracker.Snapshot
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	habitsModel   habits.Model
	gardenModel   garden.Model
	badgesModel   badges.Model
	form          *huh.Form
	habitForm     *HabitFormModel
	pendingHabit  string // habit awaiting confirmation
	status        string
	errMsg        string
	quitting      bool
	width         int
	height        int
}

func NewModel(svc *tracker.Service) Model {
	m := Model{
		tracker:     svc,
		state:       StateHabits,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(nil, "", "", 0, 0),
		gardenModel: garden.New(0, 0),
		badgesModel: badges.New(nil),
	}
	m.reload()
	return m
}

// reload pulls a fresh snapshot into every component.
func (m *Model) reload() {
	snap, err := m.tracker.Snapshot(context.Background())
	if err != nil {
		m.errMsg = fmt.Sprintf("Failed to load habits: %v", err)
		return
	}
	m.snapshot = snap
	m.habitsModel.SetHabits(snap.Habits, snap.Today, snap.Period)

	names := make(map[string]string, len(snap.Habits))
	for _, h := range snap.Habits {
		names[h.ID] = h.Name
	}
	m.gardenModel.SetGarden(snap.Plants, names)
	m.badgesModel.SetBadges(snap.Badges)
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return nil
}
