package loader

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/conditions"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/effects"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// validate checks the compiled defs for referential integrity.
func validate(defs *types.Defs) *ValidationError {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.errorf("Game.title is required")
	}

	for _, id := range sortedKeys(defs.NPCs) {
		npc := defs.NPCs[id]
		if npc.Faction != "" && !slices.Contains(quest.Factions, npc.Faction) {
			ve.warnf("npc %q belongs to unknown faction %q", id, npc.Faction)
		}
		if npc.Dialogue != nil {
			validateTree(npc.Dialogue, defs, ve)
		}
	}

	poiIDs := map[string]bool{}
	roadblocks := 0
	for _, p := range defs.POIs {
		if poiIDs[p.ID] {
			ve.errorf("duplicate poi %q", p.ID)
		}
		poiIDs[p.ID] = true
		if !slices.Contains(quest.Factions, p.Owner) {
			ve.errorf("poi %q owner %q is not a faction", p.ID, p.Owner)
		}
		if p.ContestedBy != "" && !slices.Contains(quest.Factions, p.ContestedBy) {
			ve.errorf("poi %q contested_by %q is not a faction", p.ID, p.ContestedBy)
		}
		if p.Roadblock {
			roadblocks++
		}
	}
	if roadblocks > 1 {
		ve.errorf("only one roadblock site is allowed, found %d", roadblocks)
	}

	for _, z := range defs.SafeZones {
		if z.Radius <= 0 {
			ve.errorf("safe zone %q needs a positive radius", z.ID)
		}
	}

	for _, id := range sortedKeys(defs.Locks) {
		if lvl := defs.Locks[id].Level; lvl < 1 {
			ve.errorf("lock %q level %d must be at least 1", id, lvl)
		} else if lvl > 4 {
			ve.warnf("lock %q level %d is above Master", id, lvl)
		}
	}

	triggerIDs := map[string]bool{}
	for _, tr := range defs.Triggers {
		if triggerIDs[tr.ID] {
			ve.errorf("duplicate trigger %q", tr.ID)
		}
		triggerIDs[tr.ID] = true
		if tr.Radius <= 0 {
			ve.errorf("trigger %q needs a positive radius", tr.ID)
		}
		where := fmt.Sprintf("trigger %q", tr.ID)
		validateConditions(where, tr.Conditions, ve)
		validateEffects(where, tr.Effects, poiIDs, ve)
	}

	for _, h := range defs.Handlers {
		where := fmt.Sprintf("handler %q", h.EventType)
		validateConditions(where, h.Conditions, ve)
		validateEffects(where, h.Effects, poiIDs, ve)
	}

	return ve
}

func validateTree(tree *types.DialogueTree, defs *types.Defs, ve *ValidationError) {
	poiIDs := map[string]bool{}
	for _, p := range defs.POIs {
		poiIDs[p.ID] = true
	}

	if tree.Start == "" {
		ve.errorf("dialogue %q has no start node", tree.ID)
	} else if _, ok := tree.Nodes[tree.Start]; !ok {
		ve.errorf("dialogue %q start node %q not found", tree.ID, tree.Start)
	}
	for i, rule := range tree.Starts {
		if _, ok := tree.Nodes[rule.Node]; !ok {
			ve.errorf("dialogue %q start rule %d points to undefined node %q", tree.ID, i+1, rule.Node)
		}
		validateConditions(fmt.Sprintf("dialogue %q start rule %d", tree.ID, i+1), rule.Conditions, ve)
	}

	reached := map[string]bool{}
	var walk func(id string)
	walk = func(id string) {
		node, ok := tree.Nodes[id]
		if !ok || reached[id] {
			return
		}
		reached[id] = true
		for _, c := range node.Choices {
			if c.Next != "" {
				walk(c.Next)
			}
		}
	}
	walk(tree.Start)
	for _, rule := range tree.Starts {
		walk(rule.Node)
	}

	for _, id := range sortedKeys(tree.Nodes) {
		node := tree.Nodes[id]
		where := fmt.Sprintf("dialogue %q node %q", tree.ID, id)
		if id == "" {
			ve.errorf("dialogue %q has a node without an id", tree.ID)
		}
		if !reached[id] {
			ve.warnf("%s is unreachable", where)
		}
		validateEffects(where, node.Effects, poiIDs, ve)
		for i, c := range node.Choices {
			if c.Next != "" {
				if _, ok := tree.Nodes[c.Next]; !ok {
					ve.errorf("%s choice %d points to undefined node %q", where, i+1, c.Next)
				}
			}
			validateConditions(where, c.Requires, ve)
			validateEffects(where, c.Effects, poiIDs, ve)
		}
	}
}

func validateConditions(where string, conds []types.Condition, ve *ValidationError) {
	for _, c := range conds {
		if !conditions.Known[c.Type] {
			ve.errorf("%s: unknown condition type %q", where, c.Type)
			continue
		}
		if c.Type == "not" && c.Inner != nil {
			validateConditions(where, []types.Condition{*c.Inner}, ve)
		}
		if f, ok := c.Params["faction"].(string); ok && !slices.Contains(quest.Factions, f) {
			ve.warnf("%s: condition %s references unknown faction %q", where, c.Type, f)
		}
	}
}

func validateEffects(where string, effs []types.Effect, poiIDs map[string]bool, ve *ValidationError) {
	for _, e := range effs {
		if !effects.Known[e.Type] {
			ve.errorf("%s: unknown effect type %q", where, e.Type)
			continue
		}
		switch e.Type {
		case "if":
			conds, _ := e.Params["conditions"].([]types.Condition)
			validateConditions(where, conds, ve)
			for _, branch := range []string{"then", "else"} {
				sub, _ := e.Params[branch].([]types.Effect)
				validateEffects(where, sub, poiIDs, ve)
			}
		case "set_poi_owner":
			if poi, _ := e.Params["poi"].(string); !poiIDs[poi] {
				ve.errorf("%s: set_poi_owner references undefined poi %q", where, poi)
			}
		case "emit_event":
			if ev, _ := e.Params["event"].(string); ev == "" {
				ve.errorf("%s: emit_event needs an event name", where)
			}
		}
		if f, ok := e.Params["faction"].(string); ok && !slices.Contains(quest.Factions, f) {
			ve.errorf("%s: effect %s references unknown faction %q", where, e.Type, f)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
