package events

import (
	"testing"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/conditions"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/player"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

func testHandlers() []types.EventHandler {
	return []types.EventHandler{
		{
			EventType: "unit_killed",
			Effects: []types.Effect{
				{Type: "toast", Params: map[string]any{"text": "Another one down."}},
			},
		},
		{
			EventType: "roadblock_warning",
			Conditions: []types.Condition{
				{Type: "flag_set", Params: map[string]any{"flag": "heard_of_roadblock"}},
			},
			Effects: []types.Effect{
				{Type: "toast", Params: map[string]any{"text": "The wardens warned you about this."}},
			},
		},
		{
			EventType: "unit_killed",
			Effects: []types.Effect{
				{Type: "inc_flag", Params: map[string]any{"flag": "kills", "amount": 1}},
			},
		},
	}
}

func testEnv() conditions.Env {
	return conditions.Env{Player: player.New(nil), Quest: quest.New()}
}

func TestDispatch_MatchesEventType(t *testing.T) {
	events := []types.Event{
		{Type: "unit_killed", Data: map[string]any{"faction": "rail"}},
	}

	effs := Dispatch(events, testHandlers(), testEnv())
	if len(effs) != 2 {
		t.Fatalf("expected 2 effects from 2 matching handlers, got %d", len(effs))
	}
	if effs[0].Type != "toast" {
		t.Errorf("expected toast effect, got %q", effs[0].Type)
	}
	if effs[1].Type != "inc_flag" {
		t.Errorf("expected inc_flag effect, got %q", effs[1].Type)
	}
}

func TestDispatch_ConditionGated(t *testing.T) {
	env := testEnv()
	events := []types.Event{{Type: "roadblock_warning"}}

	if effs := Dispatch(events, testHandlers(), env); len(effs) != 0 {
		t.Errorf("expected no effects without flag, got %d", len(effs))
	}

	env.Quest.SetFlag("heard_of_roadblock", true)
	if effs := Dispatch(events, testHandlers(), env); len(effs) != 1 {
		t.Errorf("expected 1 effect with flag set, got %d", len(effs))
	}
}

func TestDispatch_NoMatchingHandlers(t *testing.T) {
	events := []types.Event{{Type: "ambush"}}
	if effs := Dispatch(events, testHandlers(), testEnv()); len(effs) != 0 {
		t.Errorf("expected 0 effects, got %d", len(effs))
	}
}

func TestDispatch_MultipleEvents(t *testing.T) {
	events := []types.Event{{Type: "unit_killed"}, {Type: "unit_killed"}}
	if effs := Dispatch(events, testHandlers(), testEnv()); len(effs) != 4 {
		t.Errorf("expected 4 effects, got %d", len(effs))
	}
}

func TestDispatch_Empty(t *testing.T) {
	if effs := Dispatch(nil, testHandlers(), testEnv()); len(effs) != 0 {
		t.Errorf("expected 0 effects, got %d", len(effs))
	}
	if effs := Dispatch([]types.Event{{Type: "unit_killed"}}, nil, testEnv()); len(effs) != 0 {
		t.Errorf("expected 0 effects, got %d", len(effs))
	}
}
