// Package faction simulates the AI squads of the wasteland factions.
//
// Units patrol around an origin, engage hostile units and a hostile player,
// and retreat home when a chase runs too far. Set-pieces (ambushes, the
// roadblock, contested POIs) are spawned from reputation and heat read off
// the quest state. Everything runs on the caller's goroutine: Update is
// driven once per frame with the elapsed seconds.
package faction

import (
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// World is the static content the simulation needs.
type World struct {
	POIs      []types.POIDef
	SafeZones []types.SafeZone
	TileSize  float64
}

type tile struct {
	key   string
	biome string
	x, z  int
	pois  []string
}

type contest struct {
	poi      string
	tile     string
	defender string
	attacker string
	defSquad string
	atkSquad string
}

// Sim is the faction simulation.
type Sim struct {
	tun     Tunables
	quest   *quest.State
	player  Player
	world   World
	visuals Visuals
	clock   Clock
	roll    Roller
	log     *zap.Logger

	units  map[UnitID]*Unit
	order  []UnitID
	nextID UnitID
	tiles  map[string]*tile

	contests []contest
	resolved []string

	roadblockActive     bool
	ambushCooldownUntil int64 // unix ms

	tickAcc float64
	heatAcc float64
	events  []types.Event
}

// Option configures a Sim.
type Option func(*Sim)

// WithClock sets the wall clock used for ambush cooldowns.
func WithClock(c Clock) Option {
	return func(s *Sim) { s.clock = c }
}

// WithVisuals sets the rendering adapter.
func WithVisuals(v Visuals) Option {
	return func(s *Sim) { s.visuals = v }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sim) { s.log = l }
}

// WithTunables overrides DefaultTunables.
func WithTunables(t Tunables) Option {
	return func(s *Sim) { s.tun = t }
}

// New creates a simulation reading and writing q. The roller must not be nil.
func New(q *quest.State, p Player, world World, roll Roller, opts ...Option) *Sim {
	s := &Sim{
		tun:     DefaultTunables(),
		quest:   q,
		player:  p,
		world:   world,
		visuals: NopVisuals{},
		clock:   systemClock{},
		roll:    roll,
		log:     zap.NewNop(),
		units:   map[UnitID]*Unit{},
		tiles:   map[string]*tile{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.world.TileSize <= 0 {
		s.world.TileSize = 64
	}
	return s
}

// SetQuest swaps in a quest state, e.g. after a load replaced it.
func (s *Sim) SetQuest(q *quest.State) { s.quest = q }

// Tunables returns the active tunables.
func (s *Sim) Tunables() Tunables { return s.tun }

// Update advances the simulation by dt seconds. Throttled checks
// (skirmishes, hostility, set-pieces) run once per tick interval.
func (s *Sim) Update(dt float64) {
	if dt <= 0 {
		return
	}

	s.decayHeat(dt)

	s.tickAcc += dt
	if tick := s.tun.TickInterval.Seconds(); s.tickAcc >= tick {
		s.tickAcc = math.Mod(s.tickAcc, tick)
		s.detectSkirmishes()
		s.checkHostility()
		s.updateRoadblock()
	}

	for _, id := range s.order {
		if u := s.units[id]; u != nil && u.Alive() {
			s.updateUnit(u, dt)
		}
	}

	s.reap()
	s.resolveContests()
}

// Tick runs one throttled check pass immediately, without movement.
func (s *Sim) Tick() {
	s.detectSkirmishes()
	s.checkHostility()
	s.updateRoadblock()
	s.reap()
	s.resolveContests()
}

// Drain returns and clears the events emitted since the last call.
func (s *Sim) Drain() []types.Event {
	evts := s.events
	s.events = nil
	return evts
}

func (s *Sim) emit(typ string, data map[string]any) {
	s.events = append(s.events, types.Event{Type: typ, Data: data})
}

// Unit returns a unit by id.
func (s *Sim) Unit(id UnitID) (*Unit, bool) {
	u, ok := s.units[id]
	return u, ok
}

// Units returns every live unit in spawn order.
func (s *Sim) Units() []*Unit {
	out := make([]*Unit, 0, len(s.order))
	for _, id := range s.order {
		if u := s.units[id]; u != nil && u.Alive() {
			out = append(out, u)
		}
	}
	return out
}

// Nearest returns the closest live unit within maxDist of pos.
func (s *Sim) Nearest(pos types.Vec2, maxDist float64) (*Unit, bool) {
	var best *Unit
	bestD := maxDist * maxDist
	for _, u := range s.Units() {
		if d := dist2(u.Position, pos); d <= bestD {
			best, bestD = u, d
		}
	}
	return best, best != nil
}

// HitUnit applies player damage to a unit. The unit's squad turns on the
// player. Returns whether the hit killed it.
func (s *Sim) HitUnit(id UnitID, dmg int) bool {
	u, ok := s.units[id]
	if !ok || !u.Alive() {
		return false
	}
	killed := u.takeHit(dmg)
	if !killed {
		u.engage(TargetRef{Kind: TargetPlayer})
	}
	for _, mate := range s.Units() {
		if mate.SquadID == u.SquadID && mate.State == StatePatrol {
			mate.engage(TargetRef{Kind: TargetPlayer})
		}
	}
	return killed
}

// ForceRetreat sends a unit back to its patrol origin.
func (s *Sim) ForceRetreat(id UnitID) {
	if u, ok := s.units[id]; ok && u.Alive() {
		u.retreat()
	}
}

// InSafeZone reports whether pos lies inside any safe zone.
func (s *Sim) InSafeZone(pos types.Vec2) bool {
	for _, z := range s.world.SafeZones {
		if dist2(pos, z.Position) <= z.Radius*z.Radius {
			return true
		}
	}
	return false
}

// tileUnits counts live tile-spawned units that count toward the cap.
func (s *Sim) tileUnits() int {
	n := 0
	for _, u := range s.units {
		if u.Alive() && !u.Ambush && !u.Roadblock {
			n++
		}
	}
	return n
}

// spawnSquad creates size units of a faction around at. Roles alternate
// rifle and melee starting with rifle.
func (s *Sim) spawnSquad(faction string, size int, at types.Vec2, tileKey string) []*Unit {
	squad := uuid.NewString()
	units := make([]*Unit, 0, size)
	for i := 0; i < size; i++ {
		role := RoleRifle
		if i%2 == 1 {
			role = RoleMelee
		}
		angle := 2 * math.Pi * float64(i) / float64(size)
		pos := types.Vec2{X: at.X + 2*math.Cos(angle), Z: at.Z + 2*math.Sin(angle)}
		s.nextID++
		u := newUnit(s.nextID, faction, role, pos, s.tun.PatrolRadius)
		u.PatrolOrigin = at
		u.PatrolAngle = angle
		u.SquadID = squad
		u.Tile = tileKey
		s.units[u.ID] = u
		s.order = append(s.order, u.ID)
		s.visuals.UnitSpawned(u)
		units = append(units, u)
	}
	s.log.Debug("squad spawned",
		zap.String("faction", faction), zap.String("squad", squad),
		zap.Int("size", size), zap.String("tile", tileKey))
	return units
}

// spawnCapped spawns a tile squad only if it fits under the unit cap.
func (s *Sim) spawnCapped(faction string, size int, at types.Vec2, tileKey string) []*Unit {
	if s.tileUnits()+size > s.tun.UnitCap() {
		s.log.Debug("unit cap reached, spawn skipped", zap.String("faction", faction), zap.String("tile", tileKey))
		return nil
	}
	return s.spawnSquad(faction, size, at, tileKey)
}

func (s *Sim) removeUnit(u *Unit) {
	delete(s.units, u.ID)
	for i, id := range s.order {
		if id == u.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.visuals.UnitRemoved(u)
}

// reap drops dead units from the active set.
func (s *Sim) reap() {
	var dead []*Unit
	for _, id := range s.order {
		if u := s.units[id]; u != nil && !u.Alive() {
			dead = append(dead, u)
		}
	}
	for _, u := range dead {
		s.removeUnit(u)
	}
}

// decayHeat lowers every faction's heat once per simulated minute.
func (s *Sim) decayHeat(dt float64) {
	if s.tun.HeatDecayPerMinute <= 0 {
		return
	}
	s.heatAcc += dt
	for s.heatAcc >= 60 {
		s.heatAcc -= 60
		for _, f := range quest.Factions {
			s.quest.ChangeHeat(f, -s.tun.HeatDecayPerMinute)
		}
	}
}
