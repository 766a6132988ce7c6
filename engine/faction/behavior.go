package faction

import (
	"math"

	"go.uber.org/zap"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// targetPos resolves a unit's target. ok is false when the reference no
// longer points at something that can be fought.
func (s *Sim) targetPos(t TargetRef) (types.Vec2, bool) {
	switch t.Kind {
	case TargetPlayer:
		if s.player == nil || !s.player.Alive() {
			return types.Vec2{}, false
		}
		return s.player.Pos(), true
	case TargetUnit:
		other, ok := s.units[t.Unit]
		if !ok || !other.Alive() {
			return types.Vec2{}, false
		}
		return other.Position, true
	}
	return types.Vec2{}, false
}

func (s *Sim) updateUnit(u *Unit, dt float64) {
	if u.AttackCooldown > 0 {
		u.AttackCooldown -= dt
	}

	switch u.State {
	case StatePatrol:
		u.PatrolAngle += s.tun.PatrolAngularSpeed * dt
		waypoint := types.Vec2{
			X: u.PatrolOrigin.X + u.PatrolRadius*math.Cos(u.PatrolAngle),
			Z: u.PatrolOrigin.Z + u.PatrolRadius*math.Sin(u.PatrolAngle),
		}
		u.moveToward(waypoint, u.Speed*dt, 0)

	case StateEngage:
		pos, ok := s.targetPos(u.Target)
		if !ok {
			u.patrol()
			return
		}
		if u.Target.Kind == TargetPlayer && s.InSafeZone(pos) {
			u.retreat()
			return
		}
		leash := s.tun.DisengageRadius
		if u.Roadblock {
			leash = s.tun.RoadblockLeash
		}
		if dist(pos, u.PatrolOrigin) > leash {
			u.retreat()
			return
		}
		d := u.moveToward(pos, u.Speed*dt, 0.9*u.Range)
		if d <= u.Range && u.AttackCooldown <= 0 {
			u.AttackCooldown = u.AttackRate
			s.strike(u)
		}

	case StateRetreat:
		if d := u.moveToward(u.PatrolOrigin, u.Speed*dt, 0); d <= s.tun.RetreatTolerance {
			u.patrol()
		}
	}
}

func (s *Sim) strike(u *Unit) {
	switch u.Target.Kind {
	case TargetPlayer:
		hp := s.player.Damage(u.Damage)
		if hp <= 0 {
			s.playerDown()
		}
	case TargetUnit:
		other := s.units[u.Target.Unit]
		if other.takeHit(u.Damage) {
			s.log.Debug("unit killed in skirmish",
				zap.Int("unit", int(other.ID)), zap.String("faction", other.Faction),
				zap.String("by", u.Faction))
			u.patrol()
		}
	}
}

func (s *Sim) playerDown() {
	if s.quest.BoolFlag(quest.FlagPlayerDown) {
		return
	}
	s.quest.SetFlag(quest.FlagPlayerDown, true)
	s.log.Info("player down")
	s.emit("player_down", map[string]any{})
	for _, u := range s.Units() {
		if u.Target.Kind == TargetPlayer {
			u.patrol()
		}
	}
}

// detectSkirmishes engages every patrolling unit with any unit of another
// faction inside the skirmish radius. Pairs are visited in spawn order.
func (s *Sim) detectSkirmishes() {
	r2 := s.tun.SkirmishRadius * s.tun.SkirmishRadius
	units := s.Units()
	for i := 0; i < len(units); i++ {
		a := units[i]
		for j := i + 1; j < len(units); j++ {
			b := units[j]
			if a.Faction == b.Faction || dist2(a.Position, b.Position) > r2 {
				continue
			}
			if a.State == StatePatrol {
				a.engage(TargetRef{Kind: TargetUnit, Unit: b.ID})
			}
			if b.State == StatePatrol {
				b.engage(TargetRef{Kind: TargetUnit, Unit: a.ID})
			}
		}
	}
}

// Hostile reports whether a unit would attack the player on sight.
func (s *Sim) Hostile(u *Unit) bool {
	if s.quest.Rep(u.Faction) <= s.tun.HostileRep {
		return true
	}
	return u.Hunter && s.quest.Heat(u.Faction) >= s.tun.HunterHeat
}

// checkHostility engages patrolling units on a hostile player in range.
// Roadblock guards only escalate through the roadblock rules.
func (s *Sim) checkHostility() {
	if s.player == nil || !s.player.Alive() {
		return
	}
	pos := s.player.Pos()
	if s.InSafeZone(pos) {
		return
	}
	r2 := s.tun.SkirmishRadius * s.tun.SkirmishRadius
	for _, u := range s.Units() {
		if u.State != StatePatrol || u.Roadblock {
			continue
		}
		if dist2(u.Position, pos) <= r2 && s.Hostile(u) {
			u.engage(TargetRef{Kind: TargetPlayer})
		}
	}
}
