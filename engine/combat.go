package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/locks"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/player"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/rng"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// Consequences of killing a faction unit.
const (
	KillRepPenalty = -5
	KillHeat       = 10
	ForceHeat      = 5 // heat for forcing a lock open near a faction site
)

// Healing items and the hp each restores.
var healItems = map[string]int{
	"stimpak": 25,
}

// DamageCalc computes player damage: roll(1d6) + attack skill, at least 1.
// Returns (damage, dieRoll).
func DamageCalc(attack int, r *rng.RNG) (damage, roll int) {
	roll = r.Roll(6)
	damage = roll + attack
	if damage < 1 {
		damage = 1
	}
	return damage, roll
}

// Attack strikes the nearest faction unit in range.
func (g *Game) Attack() types.Result {
	var res types.Result
	u, ok := g.Faction.Nearest(g.Player.Position, AttackRange)
	if !ok {
		res.Output = append(res.Output, "There's nothing to attack.")
		return res
	}
	atk := g.Player.Skill(player.SkillAttack)
	dmg, roll := DamageCalc(atk, g.RNG)
	name := fmt.Sprintf("%s %s", FactionName(u.Faction), u.Role)
	res.Output = append(res.Output,
		fmt.Sprintf("You strike the %s!", name),
		fmt.Sprintf("  Roll: 1d6+%d → [%d]+%d = %d damage", atk, roll, atk, dmg),
	)

	if !g.Faction.HitUnit(u.ID, dmg) {
		res.Output = append(res.Output, fmt.Sprintf("  The %s has %d/%d hp left.", name, u.HP, u.HPMax))
		g.drainFaction(&res)
		return res
	}

	res.Output = append(res.Output, fmt.Sprintf("The %s goes down.", name))
	g.apply([]types.Effect{
		{Type: "change_rep", Params: map[string]any{"faction": u.Faction, "delta": KillRepPenalty}},
		{Type: "change_heat", Params: map[string]any{"faction": u.Faction, "delta": KillHeat}},
		{Type: "add_log", Params: map[string]any{"text": fmt.Sprintf("Killed a %s.", name)}},
		{Type: "emit_event", Params: map[string]any{"event": "unit_killed", "faction": u.Faction, "role": u.Role.String()}},
	}, &res)
	g.drainFaction(&res)
	return res
}

// Use consumes one of the named item from the inventory.
func (g *Game) Use(item string) types.Result {
	var res types.Result
	item = strings.ToLower(strings.TrimSpace(item))
	if item == "" {
		res.Output = append(res.Output, "Use what?")
		return res
	}
	heal, ok := healItems[item]
	if !ok {
		res.Output = append(res.Output, fmt.Sprintf("You can't use the %s.", item))
		return res
	}
	if !g.Player.HasItem(item) {
		res.Output = append(res.Output, fmt.Sprintf("You don't have any %s.", item))
		return res
	}
	if g.Player.HP >= g.Player.MaxHP {
		res.Output = append(res.Output, "You're already at full health.")
		return res
	}
	g.Player.RemoveItem(item, 1)
	hp := g.Player.Heal(heal)
	res.Output = append(res.Output, fmt.Sprintf("You use a %s. %d/%d hp.", item, hp, g.Player.MaxHP))
	return res
}

// Pick attempts the lock matching name within reach.
func (g *Game) Pick(name string) types.Result {
	var res types.Result
	lock, ok := g.findLock(name)
	if !ok {
		res.Output = append(res.Output, "There's no lock like that within reach.")
		return res
	}
	r := locks.Attempt(g.Player.Skills, g.Quest, lock.ID, lock.Level)
	res.Output = append(res.Output, fmt.Sprintf("%s: %s", lock.Name, r.Message))
	if !r.Success || r.AlreadyUnlocked {
		return res
	}

	evt := types.Event{Type: "lock_opened", Data: map[string]any{"lock": lock.ID, "forced": r.Forced}}
	g.settle([]types.Event{evt}, &res)
	if r.Forced {
		if site, ok := g.nearestPOI(lock.Position); ok {
			if owner := g.Faction.Owner(site.ID); owner != "" {
				g.apply([]types.Effect{
					{Type: "change_heat", Params: map[string]any{"faction": owner, "delta": ForceHeat}},
				}, &res)
			}
		}
	}
	return res
}

// findLock returns the nearest lock in reach whose id or name matches.
// An empty name matches any lock.
func (g *Game) findLock(name string) (types.LockDef, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	var best types.LockDef
	found := false
	for _, l := range g.Defs.Locks {
		if name != "" && l.ID != name && !strings.Contains(strings.ToLower(l.Name), name) {
			continue
		}
		d := dist(l.Position, g.Player.Position)
		if d > LockRange {
			continue
		}
		if !found || d < dist(best.Position, g.Player.Position) {
			best, found = l, true
		}
	}
	return best, found
}

func (g *Game) nearestPOI(pos types.Vec2) (types.POIDef, bool) {
	var best types.POIDef
	bestD := math.Inf(1)
	for _, p := range g.Defs.POIs {
		if d := dist(p.Position, pos); d < bestD {
			best, bestD = p, d
		}
	}
	return best, !math.IsInf(bestD, 1)
}
