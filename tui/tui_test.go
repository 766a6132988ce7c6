package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/save"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"Nearby: Old Hermit, Overseer Tanaka.", kindNearby},
		{"[Game saved to test.]", kindSystem},
		{"[trace] Effects: 2", kindTrace},
		{"You don't know how to \"dance\".", kindError},
		{"You're in a conversation. Pick a numbered reply or say bye.", kindError},
		{"There's no lock like that within reach.", kindError},
		{"Ambush! Rail Syndicate fighters close in from behind.", kindDanger},
		{"The roadblock guards open fire!", kindDanger},
		{"You collapse. Everything goes dark.", kindDanger},
		{"Overseer Tanaka: Another stray from the wastes.", kindDialogue},
		{"You are at (0, 0), 100/100 hp.", kindNarrative},
		{"Nearest landmark: Rail Depot, 40m away, held by the Rail Syndicate.", kindNarrative},
		{"", kindNarrative},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestSpeakerOf(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"Overseer Tanaka: Hello.", "Overseer Tanaka"},
		{"Sato: Move along.", "Sato"},
		{"Note: lowercase ok after", "Note"},
		{"no speaker here", ""},
		{"lower: case", ""},
		{"Nearest landmark: Rail Depot, 40m away", "Nearest landmark"},
		{"A very long sentence that goes on and on: with a colon", ""},
		{"Q1: digits", ""},
	}
	for _, tt := range tests {
		if got := speakerOf(tt.line); got != tt.want {
			t.Errorf("speakerOf(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"The shrine outpost went quiet three days ago.", 20,
			"The shrine outpost\nwent quiet three\ndays ago."},
		{"", 80, ""},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("walk north")
	h.Push("pick crate")

	prev, ok := h.Prev()
	if !ok || prev != "pick crate" {
		t.Errorf("expected 'pick crate', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "walk north" {
		t.Errorf("expected 'walk north', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "look" {
		t.Errorf("expected 'look', got %q (ok=%v)", prev, ok)
	}

	// At oldest, stays there.
	prev, ok = h.Prev()
	if !ok || prev != "look" {
		t.Errorf("expected 'look' at boundary, got %q (ok=%v)", prev, ok)
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("walk north")

	h.Prev() // "walk north"
	h.Prev() // "look"

	next, ok := h.Next()
	if !ok || next != "walk north" {
		t.Errorf("expected 'walk north', got %q (ok=%v)", next, ok)
	}

	_, ok = h.Next()
	if ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	_, ok := h.Prev()
	if ok {
		t.Error("expected false on empty history")
	}
	_, ok = h.Next()
	if ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	prev, _ := h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b', got %q", prev)
	}
	// "a" is gone.
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b' at boundary, got %q", prev)
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("look") // skipped
	h.Push("look") // skipped

	if len(h.lines) != 1 {
		t.Errorf("expected 1 entry, got %d", len(h.lines))
	}
}

func TestHistory_SkipsReplyNumbers(t *testing.T) {
	h := NewHistory(5)
	h.Push("talk overseer")
	h.Push("2")
	h.Push("  ")
	h.Push("wait 30")

	if len(h.lines) != 2 {
		t.Fatalf("expected 2 entries, got %v", h.lines)
	}
	prev, _ := h.Prev()
	prev, _ = h.Prev()
	if prev != "talk overseer" {
		t.Errorf("expected 'talk overseer', got %q", prev)
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("walk north")

	h.Prev() // "walk north"
	h.ResetCursor()

	// After reset, Prev starts from the end again.
	prev, ok := h.Prev()
	if !ok || prev != "walk north" {
		t.Errorf("expected 'walk north' after reset, got %q", prev)
	}
}

type quietRoller struct{}

func (quietRoller) Chance(float64) bool    { return false }
func (quietRoller) IntRange(lo, _ int) int { return lo }
func (quietRoller) Float64() float64       { return 0.99 }

// testDefs returns a camp with one NPC whose second reply is gated on a
// skill the player lacks, and a trigger under the starting position.
func testDefs() *types.Defs {
	return &types.Defs{
		Game: types.GameDef{
			Title:   "Test Wastes",
			Author:  "Test",
			Version: "1.0",
			Intro:   "Welcome to the test.",
		},
		NPCs: map[string]types.NPCDef{
			"hermit": {
				ID:       "hermit",
				Name:     "Old Hermit",
				Faction:  quest.Vault,
				Position: types.Vec2{X: 2},
				Dialogue: &types.DialogueTree{
					ID:    "hermit",
					Start: "hello",
					Nodes: map[string]types.DialogueNode{
						"hello": {
							ID:      "hello",
							Speaker: "Old Hermit",
							Text:    "Sit. Rest.",
							Choices: []types.Choice{
								{Text: "Thanks."},
								{
									Text:           "Tell me about the vault.",
									ConditionLabel: "[Speech 3]",
									Requires: []types.Condition{
										{Type: "skill_at_least", Params: map[string]any{"skill": "speech", "value": 3}},
									},
								},
							},
						},
					},
				},
			},
		},
		SafeZones: []types.SafeZone{{ID: "camp", Radius: 20}},
		Triggers: []types.TriggerDef{
			{
				ID:      "campfire",
				Radius:  3,
				Once:    true,
				Effects: []types.Effect{{Type: "toast", Params: map[string]any{"text": "The campfire crackles."}}},
			},
		},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	g := engine.New(testDefs(), engine.WithSeed(3), engine.WithRoller(quietRoller{}))
	m := New(g, save.NewFileStore(t.TempDir()), 0, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func rawText(m Model) string {
	var b strings.Builder
	for _, rl := range m.rawLines {
		b.WriteString(rl.text)
		b.WriteString("\n")
	}
	return b.String()
}

func TestNew_DefaultFrame(t *testing.T) {
	g := engine.New(testDefs(), engine.WithSeed(3))
	m := New(g, save.NewFileStore(t.TempDir()), 0, nil)
	if m.frame != DefaultFrame {
		t.Errorf("frame = %v, want %v", m.frame, DefaultFrame)
	}
}

func TestTick_AdvancesSimulation(t *testing.T) {
	m := newTestModel(t)
	start := time.Unix(1000, 0)

	next, cmd := m.Update(tickMsg(start))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected the next tick to be scheduled")
	}
	if !strings.Contains(rawText(m), "The campfire crackles.") {
		t.Errorf("expected trigger output after tick, got:\n%s", rawText(m))
	}

	// A long stall is clamped to one bounded step.
	next, _ = m.Update(tickMsg(start.Add(time.Minute)))
	m = next.(Model)
	if !m.last.Equal(start.Add(time.Minute)) {
		t.Error("expected last tick time to advance")
	}
}

func TestEnter_RunsGameCommand(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("talk hermit")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	out := rawText(m)
	if !strings.Contains(out, "> talk hermit") {
		t.Error("expected echoed input")
	}
	if !strings.Contains(out, "Old Hermit: Sit. Rest.") {
		t.Errorf("expected dialogue line, got:\n%s", out)
	}
	if m.lastCmd != "talk hermit" {
		t.Errorf("lastCmd = %q", m.lastCmd)
	}
}

func TestReplyKey_PicksDuringConversation(t *testing.T) {
	m := newTestModel(t)
	m.game.Step("talk hermit")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	m = next.(Model)
	if m.game.Dialogue.Active() {
		t.Error("expected reply 1 to end the conversation")
	}
	if !strings.Contains(rawText(m), "> 1") {
		t.Errorf("expected echoed reply, got:\n%s", rawText(m))
	}

	// Outside a conversation digits are ordinary typing.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	m = next.(Model)
	if got := m.input.Value(); got != "3" {
		t.Errorf("input = %q, want 3", got)
	}
}

func TestRenderDialogue_LockedChoice(t *testing.T) {
	m := newTestModel(t)
	if m.renderDialogue() != "" {
		t.Error("expected no panel outside a conversation")
	}

	m.game.Step("talk hermit")
	panel := m.renderDialogue()
	for _, want := range []string{"Old Hermit", "1. Thanks.", "2. Tell me about the vault.", "[Speech 3]"} {
		if !strings.Contains(panel, want) {
			t.Errorf("expected %q in panel:\n%s", want, panel)
		}
	}

	m.refreshViewport()
	if m.viewport.Height >= 22 {
		t.Errorf("viewport height = %d, expected room for the panel", m.viewport.Height)
	}
}

func TestStatusBar(t *testing.T) {
	m := newTestModel(t)
	m.game.Quest.AddObjective("Find water")
	m.game.Quest.ChangeRep(quest.Wardens, -25)
	m.game.Quest.ChangeHeat(quest.Wardens, 40)

	bar := m.renderStatusBar()
	for _, want := range []string{"Find water", "Tile 0,0", "HP 100/100", "W -25/40", "V +0/0"} {
		if !strings.Contains(bar, want) {
			t.Errorf("expected %q in status bar: %q", want, bar)
		}
	}

	m.game.Quest.SetFlag(quest.FlagPlayerDown, true)
	if bar := m.renderStatusBar(); !strings.Contains(bar, "DOWN") {
		t.Errorf("expected DOWN in status bar: %q", bar)
	}
}

func TestHandleMeta_Quit(t *testing.T) {
	m := newTestModel(t)

	_, quit := m.handleMeta("/quit")
	if !quit {
		t.Error("expected quit=true for /quit")
	}

	_, quit = m.handleMeta("/exit")
	if !quit {
		t.Error("expected quit=true for /exit")
	}
}

func TestHandleMeta_SaveAndLoad(t *testing.T) {
	m := newTestModel(t)
	m.game.Quest.SetFlag("rested", true)

	output, quit := m.handleMeta("/save test")
	if quit {
		t.Error("save should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Game saved") {
		t.Fatalf("expected save confirmation, got %v", output)
	}

	m.game.Quest.SetFlag("rested", false)
	output, _ = m.handleMeta("/load test")
	if len(output) == 0 || !strings.Contains(output[0], "Game loaded from test") {
		t.Fatalf("expected load confirmation, got %v", output)
	}
	if !m.game.Quest.BoolFlag("rested") {
		t.Error("expected flag restored from save")
	}

	output, _ = m.handleMeta("/saves")
	if len(output) != 1 || !strings.HasPrefix(output[0], "test  ") {
		t.Errorf("expected one listed slot, got %v", output)
	}
}

func TestHandleMeta_LoadNonexistent(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/load nonexistent")
	if quit {
		t.Error("load should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "No save named nonexistent") {
		t.Errorf("expected missing slot message, got %v", output)
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/help")
	if quit {
		t.Error("help should not quit")
	}

	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/save", "/load", "/quit", "look", "talk", "attack"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/trace")
	if !m.trace {
		t.Error("expected trace to be enabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected enabled message, got %v", output)
	}

	output, _ = m.handleMeta("/trace")
	if m.trace {
		t.Error("expected trace to be disabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected disabled message, got %v", output)
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestHandleMeta_State(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/state")
	if quit {
		t.Error("state should not quit")
	}

	joined := strings.Join(output, "\n")
	if !strings.Contains(joined, "Position: (0.0, 0.0) tile 0,0") {
		t.Errorf("expected position in state output, got:\n%s", joined)
	}
	if !strings.Contains(joined, "Standing: V +0/0") {
		t.Error("expected standing in state output")
	}
}
