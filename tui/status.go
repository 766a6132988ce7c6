package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
)

var factionTags = map[string]string{
	quest.Vault:   "V",
	quest.Wardens: "W",
	quest.Rail:    "R",
}

// standing renders rep/heat for every faction, e.g. "V +10/0 W -25/40".
func standing(q *quest.State) string {
	parts := make([]string, 0, len(quest.Factions))
	for _, f := range quest.Factions {
		tag := factionTags[f]
		if tag == "" {
			tag = f
		}
		parts = append(parts, fmt.Sprintf("%s %+d/%d", tag, q.Rep(f), q.Heat(f)))
	}
	return strings.Join(parts, " ")
}

// renderStatusBar produces a full-width inverted status line showing the
// top objective and tile on the left, hp and faction standing on the right.
func (m Model) renderStatusBar() string {
	g := m.game

	objective := g.Quest.TopObjective()
	if objective == "" {
		objective = "No objective"
	}
	left := fmt.Sprintf(" %s | Tile %s", objective, g.Tile())

	hp := fmt.Sprintf("HP %d/%d", g.Player.HP, g.Player.MaxHP)
	if g.Down() {
		hp = "DOWN"
	}
	right := fmt.Sprintf("%s | %s ", hp, standing(g.Quest))

	// Drop the objective text before the numbers when space runs out.
	if lipgloss.Width(left)+lipgloss.Width(right) > m.width {
		left = fmt.Sprintf(" Tile %s", g.Tile())
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
