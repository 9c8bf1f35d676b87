// Package garden renders the plant collection as a scrollable grid of cards.
package garden

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/verdant/internal/models"
)

var stageArt = map[models.GrowthStage][]string{
	models.StageSeed:      {"     ", "     ", "  .  "},
	models.StageSprout:    {"     ", "  ,  ", "  |  "},
	models.StageGrowing:   {"     ", " \\|/ ", "  |  "},
	models.StageMature:    {" \\|/ ", "--|--", "  |  "},
	models.StageFlowering: {" *@* ", " \\|/ ", "  |  "},
	models.StageFruiting:  {"o*@*o", " \\|/ ", "  |  "},
}

var effectIcons = map[models.SpecialEffect]string{
	models.EffectButterfly: "🦋",
	models.EffectBird:      "🐦",
	models.EffectSparkle:   "✨",
}

const cardWidth = 18

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(cardWidth).
			Align(lipgloss.Center)

	nameStyle = lipgloss.NewStyle().Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type Model struct {
	viewport viewport.Model
	plants   []models.PlantData
	names    map[string]string
	width    int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height), width: width}
}

// SetGarden replaces the plants shown. names maps habit ids to display
// names; plants whose habit is gone are labelled as such.
func (m *Model) SetGarden(plants []models.PlantData, names map[string]string) {
	m.plants = plants
	m.names = names
	m.viewport.SetContent(m.render())
}

// Card renders a single plant.
func Card(p models.PlantData, name string) string {
	art := stageArt[p.GrowthStage]
	plant := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render(strings.Join(art, "\n"))

	var effects []string
	for _, e := range p.SpecialEffects {
		effects = append(effects, effectIcons[e])
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		plant,
		nameStyle.Render(truncate(name, cardWidth-2)),
		dimStyle.Render(fmt.Sprintf("%s · %s", p.Type, p.GrowthStage)),
		dimStyle.Render(fmt.Sprintf("streak %d %s", p.CompletionStreak, strings.Join(effects, ""))),
	))
}

func (m Model) render() string {
	if len(m.plants) == 0 {
		return "\n  Your garden is empty.\n  Complete a habit to plant your first seed."
	}

	perRow := max(1, m.width/(cardWidth+2))
	var rows []string
	var row []string
	for _, p := range m.plants {
		name, ok := m.names[p.HabitID]
		if !ok {
			name = "(removed habit)"
		}
		row = append(row, Card(p, name))
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(m.render())
}
