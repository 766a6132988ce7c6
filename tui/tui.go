package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/save"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// DefaultFrame is the simulation tick interval when none is configured.
const DefaultFrame = 100 * time.Millisecond

// maxStep caps a single simulated step after the program stalls.
const maxStep = 0.25

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the wasteland TUI.
type Model struct {
	game  *engine.Game
	store save.Store
	log   *zap.Logger
	frame time.Duration
	last  time.Time

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries output from the game into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro and ticks)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// tickMsg advances the simulation by the time since the previous tick.
type tickMsg time.Time

// New creates a TUI model wired to the given game and save store.
func New(g *engine.Game, store save.Store, frame time.Duration, log *zap.Logger) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	if frame <= 0 {
		frame = DefaultFrame
	}
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		game:    g,
		store:   store,
		log:     log,
		frame:   frame,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(g *engine.Game, store save.Store, frame time.Duration, log *zap.Logger) error {
	m := New(g, store, frame, log)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces intro text and first look,
// and starts the simulation clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput(), m.tick())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		def := m.game.Defs.Game
		var lines []string

		title := def.Title
		if def.Version != "" {
			title += " v" + def.Version
		}
		if def.Author != "" {
			title += " by " + def.Author
		}
		lines = append(lines, title, "")

		if def.Intro != "" {
			lines = append(lines, def.Intro, "")
		}

		result := m.game.Step("look")
		lines = append(lines, result.Output...)

		return gameOutputMsg{lines: lines}
	}
}

// keyMap binds the keys the model reacts to before the text input sees them.
type keyMap struct {
	Quit   key.Binding
	Submit key.Binding
	Older  key.Binding
	Newer  key.Binding
	Scroll key.Binding
	Reply  key.Binding
}

var keys = keyMap{
	Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
	Submit: key.NewBinding(key.WithKeys("enter")),
	Older:  key.NewBinding(key.WithKeys("up")),
	Newer:  key.NewBinding(key.WithKeys("down")),
	Scroll: key.NewBinding(key.WithKeys("pgup", "pgdown", "ctrl+u", "ctrl+d")),
	Reply:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9")),
}

// Update handles messages (key presses, window resize, ticks, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.width, 1)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		}
		m.viewport.Width = m.width
		m.refreshViewport()
		return m, nil

	case tickMsg:
		return m.advance(time.Time(msg))

	case gameOutputMsg:
		return m.appendOutput(msg), nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey applies the model's own bindings. Unhandled keys fall through
// to the text input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit, true

	case key.Matches(msg, keys.Submit):
		line := m.input.Value()
		m.input.SetValue("")
		next, cmd := m.submit(line)
		return next, cmd, true

	case key.Matches(msg, keys.Reply) && m.input.Value() == "" && m.game.Dialogue.Active():
		// A bare digit in a conversation picks that reply at once.
		next, cmd := m.submit(msg.String())
		return next, cmd, true

	case key.Matches(msg, keys.Older):
		if prev, ok := m.history.Prev(); ok {
			m.input.SetValue(prev)
			m.input.CursorEnd()
		}
		return m, nil, true

	case key.Matches(msg, keys.Newer):
		next, _ := m.history.Next()
		m.input.SetValue(next)
		m.input.CursorEnd()
		return m, nil, true

	case key.Matches(msg, keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, true
	}
	return m, nil, false
}

// advance runs one simulation step for the real time elapsed since the
// previous tick and schedules the next one.
func (m Model) advance(now time.Time) (tea.Model, tea.Cmd) {
	dt := m.frame.Seconds()
	if !m.last.IsZero() {
		dt = now.Sub(m.last).Seconds()
	}
	m.last = now
	if dt > maxStep {
		dt = maxStep
	}

	result := m.game.Update(dt)
	if len(result.Output) > 0 {
		output := result.Output
		if m.trace {
			output = append(output, formatTrace(result)...)
		}
		m = m.appendOutput(gameOutputMsg{lines: output})
	} else {
		// Dialogue choices can flip between enabled and locked as the
		// world moves, so the panel is redrawn every tick.
		m.refreshViewport()
	}
	return m, m.tick()
}

// submit runs one line of input: a meta command, "again", or a game command.
func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(line)
	if input == "" {
		return m, nil
	}
	m.history.Push(input)

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch strings.ToLower(input) {
	case "again", "g":
		if m.lastCmd == "" {
			return m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			}), nil
		}
		input = m.lastCmd
	default:
		m.lastCmd = input
	}

	result := m.game.Step(input)
	output := result.Output
	if m.trace {
		output = append(output, formatTrace(result)...)
	}
	return m.appendOutput(gameOutputMsg{input: input, lines: output}), nil
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width,
// resizes the viewport around the dialogue panel and scrolls to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	vpHeight := m.height - 2 // 1 status bar + 1 input line
	if panel := m.renderDialogue(); panel != "" {
		vpHeight -= lipgloss.Height(panel)
	}
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Height = vpHeight

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindNearby:
		return styledNearby(line)
	case kindDialogue:
		return styledDialogue(line)
	case kindDanger:
		return styleDanger.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// renderDialogue draws the live choice list for the active conversation,
// or "" when the player is not talking to anyone.
func (m Model) renderDialogue() string {
	if !m.game.Dialogue.Active() {
		return ""
	}
	v, ok := m.game.Dialogue.View(m.game.Env())
	if !ok {
		return ""
	}

	speaker := v.Speaker
	if speaker == "" {
		speaker = m.game.Defs.NPCs[v.NPC].Name
	}

	inner := m.width - 4
	if inner < 10 {
		inner = 10
	}
	lines := []string{styleSpeaker.Render(speaker)}
	for _, c := range v.Choices {
		text := wordWrap(fmt.Sprintf("%d. %s", c.Index+1, c.Text), inner)
		style := styleChoice
		if !c.Enabled {
			style = styleChoiceLocked
		}
		line := style.Render(text)
		if c.Label != "" {
			line += " " + styleChoiceLabel.Render(c.Label)
		}
		lines = append(lines, line)
	}
	return styleDialoguePanel.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

// wordWrap breaks text at spaces so no line exceeds width, unless a single
// word is longer than width.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return strings.Join(lines, "\n")
}

// View renders the full TUI layout: viewport, dialogue panel, status bar
// and input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	parts := []string{m.viewport.View()}
	if panel := m.renderDialogue(); panel != "" {
		parts = append(parts, panel)
	}
	parts = append(parts, m.renderStatusBar(), m.input.View())
	return strings.Join(parts, "\n")
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	arg := "quicksave"
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/saves":
		return m.cmdList(), false

	case "/help":
		return cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(slot string) []string {
	if err := m.game.SaveTo(context.Background(), m.store, slot); err != nil {
		m.log.Warn("save failed", zap.String("slot", slot), zap.Error(err))
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Game saved to %s.", slot)}
}

func (m *Model) cmdLoad(slot string) []string {
	err := m.game.LoadFrom(context.Background(), m.store, slot)
	switch {
	case errors.Is(err, save.ErrSlotNotFound):
		return []string{fmt.Sprintf("No save named %s.", slot)}
	case err != nil:
		m.log.Warn("load failed", zap.String("slot", slot), zap.Error(err))
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	output := []string{fmt.Sprintf("Game loaded from %s.", slot)}
	result := m.game.Step("look")
	return append(output, result.Output...)
}

func (m *Model) cmdList() []string {
	slots, err := m.store.List(context.Background())
	if err != nil {
		return []string{fmt.Sprintf("Listing saves failed: %v", err)}
	}
	if len(slots) == 0 {
		return []string{"No saves yet."}
	}
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, fmt.Sprintf("%s  %s", s.Name, s.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return out
}

func cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]  Save game (default: quicksave)",
		"  /load [name]  Load game (default: quicksave)",
		"  /saves        List saves",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump current state",
		"  /trace        Toggle debug trace output",
		"",
		"Game commands:",
		"  look (l)           Describe your surroundings",
		"  talk <npc>         Start a conversation, then type a number",
		"  leave (bye)        End the conversation",
		"  go <x> <z>         Walk to a map position",
		"  walk <dir> [dist]  Walk n/s/e/w/ne/nw/se/sw",
		"  wait [sec]         Let time pass",
		"  pick <lock>        Try a nearby lock",
		"  attack             Strike the nearest fighter",
		"  use <item>         Use an item, e.g. a stimpak",
		"  journal (j), rep, inventory (i)",
		"  again (g)          Repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) cmdState() []string {
	g := m.game
	p := g.Player
	return []string{
		fmt.Sprintf("Position: (%.1f, %.1f) tile %s", p.Position.X, p.Position.Z, g.Tile()),
		fmt.Sprintf("HP: %d/%d", p.HP, p.MaxHP),
		fmt.Sprintf("Standing: %s", standing(g.Quest)),
		fmt.Sprintf("Units: %d  Roadblock: %v", len(g.Faction.Units()), g.Faction.RoadblockActive()),
		fmt.Sprintf("Stages: %v", g.Quest.ToSave().Stages),
	}
}

func formatTrace(result types.Result) []string {
	var lines []string
	if len(result.Effects) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s", e.Type))
		}
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
