// Package triggers evaluates world proximity triggers.
//
// A trigger fires when the player enters its radius and its conditions hold.
// Matching triggers are ranked by priority (desc) then source order (asc) and
// all fire in that order. Once-triggers persist a trigger:<id> flag and never
// fire again; others re-arm when the player leaves the radius.
package triggers

import (
	"sort"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/conditions"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// Fired is one trigger that fired this check.
type Fired struct {
	ID      string
	Effects []types.Effect
}

// Tracker remembers which triggers the player is currently inside.
type Tracker struct {
	defs   []types.TriggerDef
	Inside map[string]bool
}

// NewTracker creates a tracker over the content triggers.
func NewTracker(defs []types.TriggerDef) *Tracker {
	return &Tracker{defs: defs, Inside: map[string]bool{}}
}

// Reset forgets which triggers the player is inside, e.g. after a load.
func (t *Tracker) Reset() {
	t.Inside = map[string]bool{}
}

// Check evaluates every trigger against the player position and returns
// the ones that fired, ranked. Once-trigger flags are written here.
func (t *Tracker) Check(pos types.Vec2, env conditions.Env) []Fired {
	var candidates []types.TriggerDef
	for _, def := range t.defs {
		in := within(pos, def.Position, def.Radius)
		wasIn := t.Inside[def.ID]
		t.Inside[def.ID] = in
		if !in || wasIn {
			continue
		}
		if def.Once && env.Quest.BoolFlag(quest.TriggerKey(def.ID)) {
			continue
		}
		if !conditions.All(def.Conditions, env) {
			// Not armed yet; allow a retry while still inside.
			t.Inside[def.ID] = false
			continue
		}
		candidates = append(candidates, def)
	}

	Rank(candidates)

	fired := make([]Fired, 0, len(candidates))
	for _, def := range candidates {
		if def.Once {
			env.Quest.SetFlag(quest.TriggerKey(def.ID), true)
		}
		fired = append(fired, Fired{ID: def.ID, Effects: def.Effects})
	}
	return fired
}

// Rank sorts triggers by priority (desc) then source order (asc).
func Rank(defs []types.TriggerDef) {
	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].Priority != defs[j].Priority {
			return defs[i].Priority > defs[j].Priority
		}
		return defs[i].SourceOrder < defs[j].SourceOrder
	})
}

func within(a, b types.Vec2, r float64) bool {
	dx, dz := a.X-b.X, a.Z-b.Z
	return dx*dx+dz*dz <= r*r
}
