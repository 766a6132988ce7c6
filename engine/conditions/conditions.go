// Package conditions evaluates the predicate vocabulary used by dialogue
// choices, dynamic dialogue entry, world triggers and event handlers.
package conditions

import (
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/player"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// Env is the state a predicate may read. Player may be nil, in which case
// player-dependent predicates are false.
type Env struct {
	Player *player.Player
	Quest  *quest.State
}

// Eval evaluates a single condition against the current state.
// Unknown condition types are false.
func Eval(c types.Condition, env Env) bool {
	q := env.Quest
	if q == nil {
		q = quest.New()
	}

	switch c.Type {
	case "flag_set":
		return q.BoolFlag(str(c.Params, "flag"))

	case "flag_not":
		return !q.BoolFlag(str(c.Params, "flag"))

	case "flag_is":
		flag := str(c.Params, "flag")
		switch want := c.Params["value"].(type) {
		case bool:
			return q.BoolFlag(flag) == want
		case string:
			return q.StringFlag(flag, "") == want
		default:
			return q.IntFlag(flag) == toInt(want)
		}

	case "flag_at_least":
		return q.IntFlag(str(c.Params, "flag")) >= toInt(c.Params["value"])

	case "stage_at_least":
		return q.Stage(str(c.Params, "quest")) >= toInt(c.Params["value"])

	case "stage_below":
		return q.Stage(str(c.Params, "quest")) < toInt(c.Params["value"])

	case "stage_is":
		return q.Stage(str(c.Params, "quest")) == toInt(c.Params["value"])

	case "objective_active":
		st, ok := q.ObjectiveStatusOf(str(c.Params, "text"))
		return ok && st == quest.ObjectiveActive

	case "rep_at_least":
		return q.Rep(str(c.Params, "faction")) >= toInt(c.Params["value"])

	case "rep_at_most":
		return q.Rep(str(c.Params, "faction")) <= toInt(c.Params["value"])

	case "heat_at_least":
		return q.Heat(str(c.Params, "faction")) >= toInt(c.Params["value"])

	case "skill_at_least":
		if env.Player == nil {
			return false
		}
		return env.Player.Skill(str(c.Params, "skill")) >= toInt(c.Params["value"])

	case "has_item":
		if env.Player == nil {
			return false
		}
		qty := toInt(c.Params["qty"])
		if qty < 1 {
			qty = 1
		}
		return env.Player.ItemCount(str(c.Params, "item")) >= qty

	case "not":
		if c.Inner == nil {
			return true
		}
		return !Eval(*c.Inner, env)

	default:
		return false
	}
}

// All returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func All(conds []types.Condition, env Env) bool {
	for _, c := range conds {
		if !Eval(c, env) {
			return false
		}
	}
	return true
}

// Known lists every condition type Eval understands.
var Known = map[string]bool{
	"flag_set":         true,
	"flag_not":         true,
	"flag_is":          true,
	"flag_at_least":    true,
	"stage_at_least":   true,
	"stage_below":      true,
	"stage_is":         true,
	"objective_active": true,
	"rep_at_least":     true,
	"rep_at_most":      true,
	"heat_at_least":    true,
	"skill_at_least":   true,
	"has_item":         true,
	"not":              true,
}

func str(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

// toInt converts an any value to int, handling float64 from JSON/Lua.
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
