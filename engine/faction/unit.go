package faction

import (
	"math"

	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// UnitID identifies a unit within one Sim. IDs are never reused.
type UnitID int

// Role is a unit's combat role.
type Role int

const (
	RoleMelee Role = iota
	RoleRifle
)

func (r Role) String() string {
	if r == RoleRifle {
		return "rifle"
	}
	return "melee"
}

// State is a unit's behavior state.
type State int

const (
	StatePatrol State = iota
	StateEngage
	StateRetreat
	StateDead
)

func (s State) String() string {
	switch s {
	case StatePatrol:
		return "patrol"
	case StateEngage:
		return "engage"
	case StateRetreat:
		return "retreat"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

// TargetKind says what a TargetRef points at.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetPlayer
	TargetUnit
)

// TargetRef is a weak reference to a unit's target. Unit targets are looked
// up by id on every use and dropped when the id no longer resolves.
type TargetRef struct {
	Kind TargetKind
	Unit UnitID
}

// Stats are the per-role combat numbers.
type Stats struct {
	HP         int
	Damage     int
	Speed      float64
	Range      float64
	AttackRate float64 // seconds between hits
}

// RoleStats maps each role to its stats.
var RoleStats = map[Role]Stats{
	RoleMelee: {HP: 70, Damage: 14, Speed: 3.6, Range: 2.2, AttackRate: 1.1},
	RoleRifle: {HP: 55, Damage: 8, Speed: 2.8, Range: 16, AttackRate: 1.5},
}

// Unit is one AI combatant.
type Unit struct {
	ID      UnitID
	Faction string
	Role    Role
	SquadID string
	Tile    string // owning tile key; "" for units not bound to a tile

	HP             int
	HPMax          int
	Damage         int
	Speed          float64
	Range          float64
	AttackCooldown float64
	AttackRate     float64

	State  State
	Target TargetRef

	Position     types.Vec2
	PatrolOrigin types.Vec2
	PatrolAngle  float64
	PatrolRadius float64

	Hunter    bool
	Ambush    bool
	Roadblock bool
}

func newUnit(id UnitID, faction string, role Role, pos types.Vec2, patrolRadius float64) *Unit {
	st := RoleStats[role]
	return &Unit{
		ID:           id,
		Faction:      faction,
		Role:         role,
		HP:           st.HP,
		HPMax:        st.HP,
		Damage:       st.Damage,
		Speed:        st.Speed,
		Range:        st.Range,
		AttackRate:   st.AttackRate,
		State:        StatePatrol,
		Position:     pos,
		PatrolOrigin: pos,
		PatrolRadius: patrolRadius,
	}
}

// Alive reports whether the unit still takes part in the simulation.
func (u *Unit) Alive() bool {
	return u.State != StateDead && u.HP > 0
}

func (u *Unit) engage(t TargetRef) {
	u.State = StateEngage
	u.Target = t
}

func (u *Unit) patrol() {
	u.State = StatePatrol
	u.Target = TargetRef{}
	// Resume the circle from wherever the unit stands.
	u.PatrolAngle = math.Atan2(u.Position.Z-u.PatrolOrigin.Z, u.Position.X-u.PatrolOrigin.X)
}

func (u *Unit) retreat() {
	u.State = StateRetreat
	u.Target = TargetRef{}
}

// takeHit applies damage and reports whether it killed the unit.
func (u *Unit) takeHit(dmg int) bool {
	if !u.Alive() {
		return false
	}
	u.HP -= dmg
	if u.HP <= 0 {
		u.HP = 0
		u.State = StateDead
		u.Target = TargetRef{}
		return true
	}
	return false
}

// moveToward steps the unit toward dst by at most step, stopping short by
// keep. Returns the remaining distance.
func (u *Unit) moveToward(dst types.Vec2, step, keep float64) float64 {
	dx, dz := dst.X-u.Position.X, dst.Z-u.Position.Z
	d := math.Hypot(dx, dz)
	if d <= keep || d == 0 {
		return d
	}
	travel := math.Min(step, d-keep)
	u.Position.X += dx / d * travel
	u.Position.Z += dz / d * travel
	return d - travel
}

func dist2(a, b types.Vec2) float64 {
	dx, dz := a.X-b.X, a.Z-b.Z
	return dx*dx + dz*dz
}

func dist(a, b types.Vec2) float64 {
	return math.Sqrt(dist2(a, b))
}
