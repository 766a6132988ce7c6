package triggers

import (
	"testing"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/conditions"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/player"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

func testEnv() conditions.Env {
	return conditions.Env{Player: player.New(nil), Quest: quest.New()}
}

func trigger(id string, x float64, once bool, prio, order int) types.TriggerDef {
	return types.TriggerDef{
		ID: id, Position: types.Vec2{X: x}, Radius: 5, Once: once,
		Priority: prio, SourceOrder: order,
		Effects: []types.Effect{{Type: "set_flag", Params: map[string]any{"flag": "saw_" + id}}},
	}
}

func ids(fired []Fired) []string {
	var out []string
	for _, f := range fired {
		out = append(out, f.ID)
	}
	return out
}

func TestCheck_FiresOnEntryOnly(t *testing.T) {
	tr := NewTracker([]types.TriggerDef{trigger("well", 0, false, 0, 0)})
	env := testEnv()

	if got := tr.Check(types.Vec2{X: 20}, env); len(got) != 0 {
		t.Fatalf("outside radius fired: %v", ids(got))
	}
	if got := tr.Check(types.Vec2{X: 1}, env); len(got) != 1 {
		t.Fatalf("expected entry fire, got %v", ids(got))
	}
	if got := tr.Check(types.Vec2{X: 2}, env); len(got) != 0 {
		t.Errorf("staying inside must not refire, got %v", ids(got))
	}
	tr.Check(types.Vec2{X: 20}, env)
	if got := tr.Check(types.Vec2{X: 0}, env); len(got) != 1 {
		t.Errorf("re-entry should refire a repeatable trigger, got %v", ids(got))
	}
}

func TestCheck_OnceNeverRefires(t *testing.T) {
	tr := NewTracker([]types.TriggerDef{trigger("shrine", 0, true, 0, 0)})
	env := testEnv()

	if got := tr.Check(types.Vec2{}, env); len(got) != 1 {
		t.Fatalf("expected fire, got %v", ids(got))
	}
	if !env.Quest.BoolFlag(quest.TriggerKey("shrine")) {
		t.Error("once flag not recorded")
	}
	tr.Check(types.Vec2{X: 50}, env)
	tr.Reset()
	if got := tr.Check(types.Vec2{}, env); len(got) != 0 {
		t.Errorf("once trigger refired: %v", ids(got))
	}
}

func TestCheck_ConditionsRetryWhileInside(t *testing.T) {
	def := trigger("gate", 0, true, 0, 0)
	def.Conditions = []types.Condition{{Type: "stage_at_least", Params: map[string]any{"quest": "q1", "value": 10}}}
	tr := NewTracker([]types.TriggerDef{def})
	env := testEnv()

	if got := tr.Check(types.Vec2{}, env); len(got) != 0 {
		t.Fatalf("fired before stage: %v", ids(got))
	}
	env.Quest.SetStage("q1", 10)
	if got := tr.Check(types.Vec2{}, env); len(got) != 1 {
		t.Errorf("expected fire once condition holds, got %v", ids(got))
	}
}

func TestCheck_Ranking(t *testing.T) {
	tr := NewTracker([]types.TriggerDef{
		trigger("low", 0, false, 0, 0),
		trigger("high", 0, false, 5, 1),
		trigger("low_later", 0, false, 0, 2),
	})
	got := ids(tr.Check(types.Vec2{}, testEnv()))
	want := []string{"high", "low", "low_later"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
