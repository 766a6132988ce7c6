package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/conditions"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/dialogue"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/player"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

func TestLoad_MinimalGame(t *testing.T) {
	defs, err := Load("testdata/minimal", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if defs.Game.Title != "Minimal Test Game" {
		t.Errorf("Title = %q", defs.Game.Title)
	}
	if defs.Game.Start != (types.Vec2{X: 10, Z: -4}) {
		t.Errorf("Start = %+v", defs.Game.Start)
	}
	if defs.Game.Skills["quick_hands"] != 2 {
		t.Errorf("Skills = %v", defs.Game.Skills)
	}

	hermit, ok := defs.NPCs["hermit"]
	if !ok {
		t.Fatal("npc hermit not found")
	}
	if hermit.Faction != quest.Vault || hermit.Position != (types.Vec2{X: 12, Z: -4}) {
		t.Errorf("hermit = %+v", hermit)
	}
	if hermit.Dialogue == nil || hermit.Dialogue.Start != "hello" {
		t.Fatalf("expected first node as start, got %+v", hermit.Dialogue)
	}
	if hermit.Dialogue.ID != "hermit" {
		t.Errorf("tree id = %q", hermit.Dialogue.ID)
	}

	if len(defs.POIs) != 1 || defs.POIs[0].Name != "Hermit Hut" || defs.POIs[0].Owner != quest.Vault {
		t.Errorf("POIs = %+v", defs.POIs)
	}
	if len(defs.SafeZones) != 1 || defs.SafeZones[0].Radius != 6 {
		t.Errorf("SafeZones = %+v", defs.SafeZones)
	}

	door := defs.Locks["hut_door"]
	if door.Level != 2 || door.Name != "hut_door" || door.Position != (types.Vec2{X: 13, Z: -2}) {
		t.Errorf("lock = %+v", door)
	}
}

func TestLoad_TriggerWithBranch(t *testing.T) {
	defs, err := Load("testdata/minimal", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(defs.Triggers) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(defs.Triggers))
	}
	tr := defs.Triggers[0]
	if !tr.Once || tr.Radius != 6 || tr.SourceOrder == 0 {
		t.Errorf("trigger = %+v", tr)
	}
	if len(tr.Effects) != 2 || tr.Effects[1].Type != "if" {
		t.Fatalf("effects = %+v", tr.Effects)
	}

	branch := tr.Effects[1].Params
	conds, ok := branch["conditions"].([]types.Condition)
	if !ok || len(conds) != 1 || conds[0].Type != "flag_not" {
		t.Errorf("if conditions = %#v", branch["conditions"])
	}
	then, _ := branch["then"].([]types.Effect)
	els, _ := branch["else"].([]types.Effect)
	if len(then) != 1 || then[0].Type != "set_flag" || then[0].Params["value"] != true {
		t.Errorf("then = %+v", then)
	}
	if len(els) != 1 || els[0].Params["amount"] != 2 {
		t.Errorf("else = %+v", els)
	}
}

func TestLoad_HandlerWithNot(t *testing.T) {
	defs, err := Load("testdata/minimal", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(defs.Handlers) != 1 {
		t.Fatalf("expected 1 handler, got %d", len(defs.Handlers))
	}
	h := defs.Handlers[0]
	if h.EventType != "flag_changed" {
		t.Errorf("event = %q", h.EventType)
	}
	if len(h.Conditions) != 1 || h.Conditions[0].Type != "not" || h.Conditions[0].Inner == nil {
		t.Fatalf("conditions = %+v", h.Conditions)
	}
	if h.Conditions[0].Inner.Params["flag"] != "quiet" {
		t.Errorf("inner = %+v", h.Conditions[0].Inner)
	}
}

func TestLoad_ValidationCollectsEveryFault(t *testing.T) {
	_, err := Load("testdata/broken", nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}

	want := []string{
		"Game.title is required",
		`start node "missing" not found`,
		`unknown effect type "teleport"`,
		`points to undefined node "nowhere"`,
		`unknown condition type "moon_phase"`,
		`owner "pirates" is not a faction`,
		"only one roadblock site",
		`lock "zero" level 0`,
		`trigger "flat" needs a positive radius`,
		`undefined poi "nowhere"`,
	}
	all := strings.Join(ve.Errors, "\n")
	for _, w := range want {
		if !strings.Contains(all, w) {
			t.Errorf("missing error %q in:\n%s", w, all)
		}
	}

	warnings := strings.Join(ve.Warnings, "\n")
	if !strings.Contains(warnings, `unknown faction "yakuza"`) {
		t.Errorf("expected faction warning, got:\n%s", warnings)
	}
	if !strings.Contains(warnings, "unreachable") {
		t.Errorf("expected unreachable node warning, got:\n%s", warnings)
	}
}

func TestLoad_LuaSyntaxError(t *testing.T) {
	_, err := Load("testdata/badlua", nil)
	if err == nil || !strings.Contains(err.Error(), "executing game.lua") {
		t.Errorf("expected execution error, got %v", err)
	}
}

func TestLoad_Sandboxed(t *testing.T) {
	_, err := Load("testdata/sandbox", nil)
	if err == nil {
		t.Error("dofile must not be callable from content")
	}
}

func TestLoad_NoLuaFiles(t *testing.T) {
	_, err := Load("testdata/empty", nil)
	if err == nil || !strings.Contains(err.Error(), "no .lua files") {
		t.Errorf("expected no-files error, got %v", err)
	}
}

func TestLoad_MissingDir(t *testing.T) {
	if _, err := Load("testdata/does_not_exist", nil); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestSortedLuaFiles_GameFirst(t *testing.T) {
	got := sortedLuaFiles([]string{"world.lua", "npcs.lua", "game.lua", "events.lua"})
	want := []string{"game.lua", "events.lua", "npcs.lua", "world.lua"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestShippedContent_Loads(t *testing.T) {
	defs, err := Load("../content/wasteland", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if defs.Game.Title != "Wasteland Japan" {
		t.Errorf("Title = %q", defs.Game.Title)
	}
	roadblocks := 0
	for _, p := range defs.POIs {
		if p.Roadblock {
			roadblocks++
		}
	}
	if roadblocks != 1 {
		t.Errorf("expected exactly one roadblock site, got %d", roadblocks)
	}
	for _, id := range []string{"overseer_tanaka", "warden_sato", "broker_mori"} {
		if defs.NPCs[id].Dialogue == nil {
			t.Errorf("npc %s has no dialogue", id)
		}
	}
}

// Starting the overseer's tree and walking greeting -> quest_offer ->
// quest_accept -> end leaves the quest at stage 10 with the lie recorded.
func TestShippedContent_OverseerQuestPath(t *testing.T) {
	defs, err := Load("../content/wasteland", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	trees := map[string]*types.DialogueTree{}
	for id, npc := range defs.NPCs {
		trees[id] = npc.Dialogue
	}
	env := conditions.Env{Player: player.New(defs.Game.Skills), Quest: quest.New()}
	eng := dialogue.New(trees, nil)

	node := eng.Start("overseer_tanaka", env)
	if node == nil || node.ID != "greeting" {
		t.Fatalf("start = %+v", node)
	}
	steps := []struct {
		pick int
		want string
	}{
		{1, "quest_offer"},
		{0, "quest_accept"},
		{0, ""},
	}
	for _, s := range steps {
		out := eng.Pick(s.pick, env)
		if out.Refused {
			t.Fatalf("pick %d refused", s.pick)
		}
		if s.want == "" {
			if !out.Ended || out.Node != nil {
				t.Fatalf("expected end, got %+v", out)
			}
			continue
		}
		if out.Node == nil || out.Node.ID != s.want {
			t.Fatalf("pick %d -> %+v, want %s", s.pick, out.Node, s.want)
		}
	}

	if eng.Active() {
		t.Error("session should be inactive")
	}
	if !env.Quest.BoolFlag("q1_permission_lie") {
		t.Error("expected q1_permission_lie")
	}
	if got := env.Quest.Stage("q1"); got != 10 {
		t.Errorf("q1 stage = %d, want 10", got)
	}
	if st, ok := env.Quest.ObjectiveStatusOf("Investigate the shrine outpost"); !ok || st != quest.ObjectiveActive {
		t.Errorf("objective status = %q, %v", st, ok)
	}
}

// Every reachable path through every shipped tree ends when the first
// enabled choice is always taken.
func TestShippedContent_DialogueTerminates(t *testing.T) {
	defs, err := Load("../content/wasteland", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for id, npc := range defs.NPCs {
		env := conditions.Env{Player: player.New(defs.Game.Skills), Quest: quest.New()}
		eng := dialogue.New(map[string]*types.DialogueTree{id: npc.Dialogue}, nil)
		if eng.Start(id, env) == nil {
			t.Errorf("%s: no start node", id)
			continue
		}
		for steps := 0; eng.Active(); steps++ {
			if steps > 50 {
				t.Fatalf("%s: conversation did not end", id)
			}
			v, _ := eng.View(env)
			pick := -1
			for _, c := range v.Choices {
				if c.Enabled {
					pick = c.Index
					break
				}
			}
			if pick < 0 {
				t.Fatalf("%s: node %q has no enabled choice", id, v.Text)
			}
			eng.Pick(pick, env)
		}
	}
}

// Once q1 is past stage 30 the overseer opens on the afterward node, whose
// text carries the live vault reputation.
func TestShippedContent_AfterwardShowsReputation(t *testing.T) {
	defs, err := Load("../content/wasteland", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	env := conditions.Env{Player: player.New(defs.Game.Skills), Quest: quest.New()}
	env.Quest.SetStage("q1", 30)
	env.Quest.ChangeRep(quest.Vault, 15)
	eng := dialogue.New(map[string]*types.DialogueTree{
		"overseer_tanaka": defs.NPCs["overseer_tanaka"].Dialogue,
	}, nil)

	node := eng.Start("overseer_tanaka", env)
	if node == nil || node.ID != "afterward" {
		t.Fatalf("start = %+v", node)
	}
	v, ok := eng.View(env)
	if !ok {
		t.Fatal("expected view")
	}
	if strings.Contains(v.Text, "{") {
		t.Errorf("uninterpolated text: %q", v.Text)
	}
	if !strings.Contains(v.Text, "Reputation is 15,") {
		t.Errorf("text = %q", v.Text)
	}
}
