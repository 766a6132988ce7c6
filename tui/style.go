package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleNearby = lipgloss.NewStyle().
			Bold(true)

	styleSpeaker = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleChoice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleChoiceLocked = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Strikethrough(true)

	styleChoiceLabel = lipgloss.NewStyle().
				Foreground(lipgloss.Color("81"))

	styleDialoguePanel = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("214")).
				Padding(0, 1)

	styleDanger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindNearby
	kindDialogue
	kindDanger
	kindSystem
	kindError
	kindTrace
)

var dangerPrefixes = []string{
	"Ambush!",
	"The roadblock guards open fire!",
	"A guard shouts:",
	"You collapse.",
	"You stop in your tracks.",
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Nearby:"):
		return kindNearby
	case strings.HasPrefix(line, "You don't"),
		strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You're "),
		strings.HasPrefix(line, "There's no"):
		return kindError
	}
	for _, p := range dangerPrefixes {
		if strings.HasPrefix(line, p) {
			return kindDanger
		}
	}
	if name := speakerOf(line); name != "" && !narrationLabels[name] {
		return kindDialogue
	}
	return kindNarrative
}

// narrationLabels look like speakers but head narration lines.
var narrationLabels = map[string]bool{
	"Nearest landmark":  true,
	"Current objective": true,
}

// speakerOf returns the name before ": " when the line looks like
// "Speaker: text". Names are short and start with a capital letter.
func speakerOf(line string) string {
	i := strings.Index(line, ": ")
	if i <= 0 || i > 24 {
		return ""
	}
	name := line[:i]
	if name[0] < 'A' || name[0] > 'Z' {
		return ""
	}
	for _, r := range name {
		if r != ' ' && r != '\'' && (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return ""
		}
	}
	return name
}

// styledNearby renders "Nearby: a, b." with the names bold.
func styledNearby(line string) string {
	const prefix = "Nearby: "
	if !strings.HasPrefix(line, prefix) {
		return styleNarrative.Render(line)
	}
	return styleNarrative.Render(prefix) + styleNearby.Render(line[len(prefix):])
}

// styledDialogue renders "Speaker: text" with the speaker highlighted.
func styledDialogue(line string) string {
	name := speakerOf(line)
	if name == "" {
		return styleDialogue.Render(line)
	}
	return styleSpeaker.Render(name+":") + styleDialogue.Render(line[len(name)+1:])
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
