package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case StateGarden:
		content = docStyle.Render(m.gardenModel.View())
	case StateBadges:
		content = docStyle.Render(m.badgesModel.View())
	case StateAddHabit:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirm(dangerStyle.Render(fmt.Sprintf("Delete habit %q?", m.pendingHabit)))
	case StateConfirmArchive:
		content = m.viewConfirm(warningStyle.Render(fmt.Sprintf("Archive habit %q?", m.pendingHabit)))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	titles := []string{"Habits", "Garden", "Badges"}
	active := m.state
	if active >= tabCount {
		active = m.previousState
	}
	tabs := make([]string, len(titles))
	for i, title := range titles {
		if SessionState(i) == active {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = inactiveTabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHeader() string {
	lvl := m.snapshot.Level
	const width = 20
	filled := lvl.Progress * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return levelStyle.Render(fmt.Sprintf(" Level %d %s %d%%  ·  %d pts  ·  %s",
		lvl.Level, bar, lvl.Progress, m.snapshot.Stats.Points, m.snapshot.Today))
}

func (m Model) viewStatus() string {
	switch {
	case m.errMsg != "":
		return dangerStyle.Render(" " + m.errMsg)
	case m.status != "":
		return statusStyle.Render(" " + m.status)
	}
	return ""
}

func (m Model) viewConfirm(question string) string {
	return lipgloss.Place(m.width, max(0, m.height-chromeHeight),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			question,
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
