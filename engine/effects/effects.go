// Package effects implements centralized state mutation via the Apply function.
// Every effect type is one atomic operation; "if" is the only branching form.
package effects

import (
	"fmt"
	"strings"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/conditions"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// Apply applies a list of effects to quest and player state, mutating them.
// Returns events emitted and output text collected.
func Apply(env conditions.Env, effects []types.Effect) ([]types.Event, []string) {
	var events []types.Event
	var output []string
	if env.Quest == nil {
		return nil, nil
	}
	q := env.Quest

	for _, eff := range effects {
		switch eff.Type {
		case "toast":
			text := Interpolate(str(eff.Params, "text"), env)
			output = append(output, text)
			events = append(events, types.Event{
				Type: "toast",
				Data: map[string]any{"text": text},
			})

		case "set_flag":
			flag := str(eff.Params, "flag")
			value, ok := eff.Params["value"]
			if !ok {
				value = true
			}
			q.SetFlag(flag, value)
			events = append(events, types.Event{
				Type: "flag_changed",
				Data: map[string]any{"flag": flag, "value": value},
			})

		case "inc_flag":
			flag := str(eff.Params, "flag")
			amount := toFloat(eff.Params["amount"], 1)
			q.IncFlag(flag, amount)
			events = append(events, types.Event{
				Type: "flag_changed",
				Data: map[string]any{"flag": flag, "value": q.Flag(flag, 0.0)},
			})

		case "set_stage":
			id := str(eff.Params, "quest")
			q.SetStage(id, toInt(eff.Params["value"]))
			events = append(events, stageEvent(id, q.Stage(id)))

		case "advance_stage":
			id := str(eff.Params, "quest")
			before := q.Stage(id)
			q.AdvanceStage(id, toInt(eff.Params["value"]))
			if q.Stage(id) != before {
				events = append(events, stageEvent(id, q.Stage(id)))
			}

		case "add_objective":
			text := str(eff.Params, "text")
			if q.AddObjective(text) {
				output = append(output, "New objective: "+text)
				events = append(events, types.Event{
					Type: "objective_added",
					Data: map[string]any{"text": text},
				})
			}

		case "complete_objective":
			text := str(eff.Params, "text")
			if q.CompleteObjective(text) {
				output = append(output, "Objective complete: "+text)
				events = append(events, types.Event{
					Type: "objective_done",
					Data: map[string]any{"text": text},
				})
			}

		case "fail_objective":
			text := str(eff.Params, "text")
			if q.FailObjective(text) {
				output = append(output, "Objective failed: "+text)
				events = append(events, types.Event{
					Type: "objective_failed",
					Data: map[string]any{"text": text},
				})
			}

		case "add_log":
			q.AddLog(Interpolate(str(eff.Params, "text"), env))

		case "change_rep":
			faction := str(eff.Params, "faction")
			delta := toInt(eff.Params["delta"])
			q.ChangeRep(faction, delta)
			events = append(events, types.Event{
				Type: "rep_changed",
				Data: map[string]any{"faction": faction, "delta": delta, "value": q.Rep(faction)},
			})

		case "change_heat":
			faction := str(eff.Params, "faction")
			delta := toInt(eff.Params["delta"])
			q.ChangeHeat(faction, delta)
			events = append(events, types.Event{
				Type: "heat_changed",
				Data: map[string]any{"faction": faction, "delta": delta, "value": q.Heat(faction)},
			})

		case "give_item":
			if env.Player == nil {
				continue
			}
			item := str(eff.Params, "item")
			qty := toInt(eff.Params["qty"])
			if qty < 1 {
				qty = 1
			}
			env.Player.AddItem(item, qty)
			events = append(events, types.Event{
				Type: "item_gained",
				Data: map[string]any{"item": item, "qty": qty},
			})

		case "remove_item":
			if env.Player == nil {
				continue
			}
			item := str(eff.Params, "item")
			qty := toInt(eff.Params["qty"])
			if qty < 1 {
				qty = 1
			}
			if env.Player.RemoveItem(item, qty) {
				events = append(events, types.Event{
					Type: "item_lost",
					Data: map[string]any{"item": item, "qty": qty},
				})
			}

		case "give_skill_points":
			if env.Player == nil {
				continue
			}
			env.Player.SkillPoints += toInt(eff.Params["amount"])

		case "set_poi_owner":
			// Ownership lives in the faction layer; the orchestrator routes this.
			events = append(events, types.Event{
				Type: "set_poi_owner",
				Data: map[string]any{"poi": str(eff.Params, "poi"), "faction": str(eff.Params, "faction")},
			})

		case "emit_event":
			data := map[string]any{}
			for k, v := range eff.Params {
				if k != "event" {
					data[k] = v
				}
			}
			events = append(events, types.Event{Type: str(eff.Params, "event"), Data: data})

		case "if":
			branch := toEffects(eff.Params["else"])
			if conditions.All(toConditions(eff.Params["conditions"]), env) {
				branch = toEffects(eff.Params["then"])
			}
			evts, out := Apply(env, branch)
			events = append(events, evts...)
			output = append(output, out...)

		default:
			// Unknown effect type: ignored.
		}
	}

	return events, output
}

// Known lists every effect type Apply understands.
var Known = map[string]bool{
	"toast":              true,
	"set_flag":           true,
	"inc_flag":           true,
	"set_stage":          true,
	"advance_stage":      true,
	"add_objective":      true,
	"complete_objective": true,
	"fail_objective":     true,
	"add_log":            true,
	"change_rep":         true,
	"change_heat":        true,
	"give_item":          true,
	"remove_item":        true,
	"give_skill_points":  true,
	"set_poi_owner":      true,
	"emit_event":         true,
	"if":                 true,
}

func stageEvent(id string, value int) types.Event {
	return types.Event{
		Type: "stage_changed",
		Data: map[string]any{"quest": id, "value": value},
	}
}

// Interpolate replaces {rep:<faction>}, {heat:<faction>}, {stage:<quest>}
// and {objective} in text.
func Interpolate(text string, env conditions.Env) string {
	if !strings.Contains(text, "{") {
		return text
	}
	q := env.Quest
	text = strings.ReplaceAll(text, "{objective}", q.TopObjective())
	for _, f := range quest.Factions {
		text = strings.ReplaceAll(text, "{rep:"+f+"}", fmt.Sprintf("%d", q.Rep(f)))
		text = strings.ReplaceAll(text, "{heat:"+f+"}", fmt.Sprintf("%d", q.Heat(f)))
	}
	for {
		start := strings.Index(text, "{stage:")
		if start < 0 {
			break
		}
		end := strings.Index(text[start:], "}")
		if end < 0 {
			break
		}
		id := text[start+len("{stage:") : start+end]
		text = text[:start] + fmt.Sprintf("%d", q.Stage(id)) + text[start+end+1:]
	}
	return text
}

// toEffects accepts either a compiled []types.Effect or nothing.
func toEffects(v any) []types.Effect {
	effs, _ := v.([]types.Effect)
	return effs
}

func toConditions(v any) []types.Condition {
	conds, _ := v.([]types.Condition)
	return conds
}

func str(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}

func toFloat(v any, def float64) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return def
	}
}
