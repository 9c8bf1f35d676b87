// Package badges renders the achievement catalog with unlock state.
package badges

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/verdant/internal/engine"
	"github.com/julianstephens/verdant/internal/models"
)

var (
	unlockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("120")).Bold(true)
)

type Model struct {
	badges []models.Badge
}

func New(badges []models.Badge) Model {
	return Model{badges: badges}
}

func (m *Model) SetBadges(badges []models.Badge) {
	m.badges = badges
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("Badges %d/%d", engine.UnlockedCount(m.badges), len(m.badges))))
	sb.WriteString("\n\n")
	for _, b := range m.badges {
		if b.IsUnlocked {
			when := ""
			if b.UnlockedAt != nil {
				when = " · " + b.UnlockedAt.Local().Format("Jan 2, 2006")
			}
			sb.WriteString(unlockedStyle.Render(fmt.Sprintf("%s %s", b.Icon, b.Name)))
			sb.WriteString(fmt.Sprintf("  %s%s\n", b.Description, when))
			continue
		}
		sb.WriteString(lockedStyle.Render(fmt.Sprintf("🔒 %s  %s", b.Name, b.Description)))
		sb.WriteString("\n")
	}
	return sb.String()
}
