package conditions

import (
	"testing"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/player"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

func condTestEnv() Env {
	p := player.New(map[string]int{player.SkillQuickHands: 3})
	p.AddItem("rusty_key", 1)

	q := quest.New()
	q.SetFlag("quest_started", true)
	q.SetFlag("bribes", 2)
	q.SetFlag("owner", "rail")
	q.SetStage("q1", 10)
	q.ChangeRep(quest.Wardens, -25)
	q.ChangeHeat(quest.Rail, 65)
	q.AddObjective("Find the shrine")
	return Env{Player: p, Quest: q}
}

func cond(typ string, params map[string]any) types.Condition {
	return types.Condition{Type: typ, Params: params}
}

func TestEval(t *testing.T) {
	env := condTestEnv()

	tests := []struct {
		name string
		cond types.Condition
		want bool
	}{
		{"flag_set: true", cond("flag_set", map[string]any{"flag": "quest_started"}), true},
		{"flag_set: unset", cond("flag_set", map[string]any{"flag": "door_open"}), false},
		{"flag_not: unset", cond("flag_not", map[string]any{"flag": "door_open"}), true},
		{"flag_is: bool", cond("flag_is", map[string]any{"flag": "quest_started", "value": true}), true},
		{"flag_is: string", cond("flag_is", map[string]any{"flag": "owner", "value": "rail"}), true},
		{"flag_is: number", cond("flag_is", map[string]any{"flag": "bribes", "value": 2}), true},
		{"flag_at_least: met", cond("flag_at_least", map[string]any{"flag": "bribes", "value": 2}), true},
		{"flag_at_least: unmet", cond("flag_at_least", map[string]any{"flag": "bribes", "value": 3}), false},
		{"stage_at_least", cond("stage_at_least", map[string]any{"quest": "q1", "value": 10}), true},
		{"stage_below: equal is not below", cond("stage_below", map[string]any{"quest": "q1", "value": 10}), false},
		{"stage_below: unstarted", cond("stage_below", map[string]any{"quest": "q2", "value": 10}), true},
		{"stage_is", cond("stage_is", map[string]any{"quest": "q1", "value": 10.0}), true},
		{"objective_active", cond("objective_active", map[string]any{"text": "Find the shrine"}), true},
		{"objective_active: missing", cond("objective_active", map[string]any{"text": "Other"}), false},
		{"rep_at_most", cond("rep_at_most", map[string]any{"faction": "wardens", "value": -20}), true},
		{"rep_at_least", cond("rep_at_least", map[string]any{"faction": "wardens", "value": 0}), false},
		{"heat_at_least", cond("heat_at_least", map[string]any{"faction": "rail", "value": 60}), true},
		{"skill_at_least: met", cond("skill_at_least", map[string]any{"skill": "quick_hands", "value": 3}), true},
		{"skill_at_least: unmet", cond("skill_at_least", map[string]any{"skill": "quick_hands", "value": 4}), false},
		{"has_item", cond("has_item", map[string]any{"item": "rusty_key"}), true},
		{"has_item: qty", cond("has_item", map[string]any{"item": "rusty_key", "qty": 2}), false},
		{"unknown type", cond("moon_phase", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eval(tt.cond, env); got != tt.want {
				t.Errorf("Eval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEval_Not(t *testing.T) {
	env := condTestEnv()
	inner := cond("flag_set", map[string]any{"flag": "quest_started"})
	c := types.Condition{Type: "not", Inner: &inner}
	if Eval(c, env) {
		t.Error("not(flag_set) should be false")
	}
	if !Eval(types.Condition{Type: "not"}, env) {
		t.Error("not with nil inner should be true")
	}
}

func TestEval_NilPlayer(t *testing.T) {
	env := Env{Quest: quest.New()}
	if Eval(cond("skill_at_least", map[string]any{"skill": "speech", "value": 0}), env) {
		t.Error("skill check without a player must fail")
	}
	if Eval(cond("has_item", map[string]any{"item": "x"}), env) {
		t.Error("has_item without a player must fail")
	}
}

func TestAll(t *testing.T) {
	env := condTestEnv()
	if !All(nil, env) {
		t.Error("empty list should be vacuously true")
	}
	conds := []types.Condition{
		cond("flag_set", map[string]any{"flag": "quest_started"}),
		cond("stage_at_least", map[string]any{"quest": "q1", "value": 20}),
	}
	if All(conds, env) {
		t.Error("expected false when one condition fails")
	}
}
