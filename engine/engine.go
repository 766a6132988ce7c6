// Package engine provides the Game orchestrator that wires together
// parsing, dialogue, locks, world triggers, combat and the faction
// simulation into commands and per-frame updates.
package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/conditions"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/dialogue"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/effects"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/events"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/faction"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/parser"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/player"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/rng"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/triggers"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// Interaction ranges, in world units.
const (
	TalkRange   = 8.0
	LockRange   = 6.0
	AttackRange = 12.0
	WalkSpeed   = 5.0 // units per second
	StepSeconds = 0.1 // simulation step used by walk and wait
	MaxTravel   = 500.0
)

// Game holds the definitions and every piece of mutable state.
type Game struct {
	Defs     *types.Defs
	Quest    *quest.State
	Player   *player.Player
	Dialogue *dialogue.Engine
	Faction  *faction.Sim
	RNG      *rng.RNG

	triggers *triggers.Tracker
	log      *zap.Logger
	opts     options

	currentTile string
	loaded      map[string]bool
}

type options struct {
	seed       int64
	tileSize   float64
	viewRadius int
	tunables   faction.Tunables
	logger     *zap.Logger
	clock      faction.Clock
	roller     faction.Roller
	visuals    faction.Visuals
}

// Option configures a Game.
type Option func(*options)

// WithSeed sets the RNG seed. Zero picks one from the clock.
func WithSeed(seed int64) Option { return func(o *options) { o.seed = seed } }

// WithLogger sets the logger shared by every subsystem.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.logger = l } }

// WithTunables overrides the faction tunables.
func WithTunables(t faction.Tunables) Option { return func(o *options) { o.tunables = t } }

// WithTileSize sets the streaming tile edge length.
func WithTileSize(size float64) Option { return func(o *options) { o.tileSize = size } }

// WithViewRadius sets how many rings of tiles stay loaded around the player.
func WithViewRadius(r int) Option { return func(o *options) { o.viewRadius = r } }

// WithClock sets the wall clock for journal stamps and ambush cooldowns.
func WithClock(c faction.Clock) Option { return func(o *options) { o.clock = c } }

// WithRoller replaces the seeded RNG as the faction layer's dice.
func WithRoller(r faction.Roller) Option { return func(o *options) { o.roller = r } }

// WithVisuals sets the faction rendering adapter.
func WithVisuals(v faction.Visuals) Option { return func(o *options) { o.visuals = v } }

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// New creates a fresh playthrough from definitions.
func New(defs *types.Defs, opts ...Option) *Game {
	o := options{
		tileSize:   64,
		viewRadius: 1,
		tunables:   faction.DefaultTunables(),
		clock:      wallClock{},
		visuals:    faction.NopVisuals{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.seed == 0 {
		o.seed = o.clock.Now().UnixNano()
	}

	g := &Game{
		Defs: defs,
		log:  o.logger,
		opts: o,
	}
	q := quest.New(quest.WithClock(o.clock.Now))
	p := player.New(defs.Game.Skills)
	p.Position = defs.Game.Start
	g.reset(q, p, rng.New(o.seed))
	return g
}

// reset wires fresh subsystems around the given state.
func (g *Game) reset(q *quest.State, p *player.Player, r *rng.RNG) {
	if g.Faction != nil {
		g.Faction.Restore(nil)
	}
	g.Quest = q
	g.Player = p
	g.RNG = r

	trees := map[string]*types.DialogueTree{}
	for id, npc := range g.Defs.NPCs {
		if npc.Dialogue != nil {
			trees[id] = npc.Dialogue
		}
	}
	g.Dialogue = dialogue.New(trees, g.log.Named("dialogue"))

	var roller faction.Roller = r
	if g.opts.roller != nil {
		roller = g.opts.roller
	}
	g.Faction = faction.New(q, p, faction.World{
		POIs:      g.Defs.POIs,
		SafeZones: g.Defs.SafeZones,
		TileSize:  g.opts.tileSize,
	}, roller,
		faction.WithTunables(g.opts.tunables),
		faction.WithClock(g.opts.clock),
		faction.WithVisuals(g.opts.visuals),
		faction.WithLogger(g.log.Named("faction")),
	)
	if g.triggers == nil {
		g.triggers = triggers.NewTracker(g.Defs.Triggers)
	} else {
		g.triggers.Reset()
	}
	g.currentTile = ""
	g.loaded = map[string]bool{}
}

// Env returns the predicate environment over the live state.
func (g *Game) Env() conditions.Env {
	return conditions.Env{Player: g.Player, Quest: g.Quest}
}

// Down reports whether the player has been knocked out.
func (g *Game) Down() bool {
	return g.Quest.BoolFlag(quest.FlagPlayerDown)
}

// Tile returns the key of the tile the player stands on.
func (g *Game) Tile() string {
	return faction.TileKey(faction.TileOf(g.Player.Position, g.opts.tileSize))
}

// Step processes one player command and returns the result.
func (g *Game) Step(input string) types.Result {
	var result types.Result

	intent := parser.Parse(input)
	if intent.Verb == "" {
		result.Output = append(result.Output, "What do you want to do?")
		return result
	}

	// Knocked out: only read-only commands work.
	if g.Down() && !readOnlyVerbs[intent.Verb] {
		result.Output = append(result.Output, "You're down. Use /load to restore a save or /quit to exit.")
		return result
	}

	// In conversation: numbers pick, anything else is refused.
	if g.Dialogue.Active() && intent.Verb != "choose" && intent.Verb != "leave" && !readOnlyVerbs[intent.Verb] {
		result.Output = append(result.Output, "You're in a conversation. Pick a numbered reply or say bye.")
		return result
	}

	switch intent.Verb {
	case "talk":
		return g.Talk(intent.Object)
	case "choose":
		n, err := strconv.Atoi(intent.Object)
		if err != nil {
			result.Output = append(result.Output, "Choose which reply?")
			return result
		}
		return g.Choose(n - 1)
	case "leave":
		return g.Leave()
	case "go":
		return g.goTo(intent.Args)
	case "walk":
		return g.walk(intent.Object, intent.Args)
	case "wait":
		secs := 5.0
		if len(intent.Args) > 0 {
			if v, err := strconv.ParseFloat(intent.Args[0], 64); err == nil && v > 0 && finite(v) {
				secs = math.Min(v, 600)
			}
		}
		return g.Wait(secs)
	case "pick":
		return g.Pick(intent.Object)
	case "attack":
		return g.Attack()
	case "use":
		return g.Use(intent.Object)
	case "look":
		result.Output = g.describeSurroundings()
	case "journal":
		result.Output = g.describeJournal()
	case "rep":
		result.Output = g.describeStanding()
	case "inventory":
		result.Output = g.describeInventory()
	default:
		result.Output = append(result.Output, fmt.Sprintf("You don't know how to %q.", intent.Verb))
	}
	return result
}

var readOnlyVerbs = map[string]bool{
	"look":      true,
	"journal":   true,
	"rep":       true,
	"inventory": true,
}

// Update advances the world by dt seconds. World triggers run before the
// faction step so their state changes are visible to it.
func (g *Game) Update(dt float64) types.Result {
	var res types.Result
	g.streamTiles()
	g.checkTriggers(&res)
	g.Faction.Update(dt)
	g.drainFaction(&res)
	return res
}

// Wait lets time pass in small steps.
func (g *Game) Wait(secs float64) types.Result {
	var res types.Result
	for left := secs; left > 0 && !g.Down(); left -= StepSeconds {
		merge(&res, g.Update(math.Min(StepSeconds, left)))
	}
	if len(res.Output) == 0 {
		res.Output = append(res.Output, "Time passes.")
	}
	return res
}

// Talk starts a conversation with the NPC matching name.
func (g *Game) Talk(name string) types.Result {
	var res types.Result
	if name == "" {
		res.Output = append(res.Output, "Talk to whom?")
		return res
	}
	npc, ok := g.findNPC(name)
	if !ok {
		res.Output = append(res.Output, "There's nobody here by that name.")
		return res
	}
	if dist(npc.Position, g.Player.Position) > TalkRange {
		res.Output = append(res.Output, fmt.Sprintf("%s is too far away.", npc.Name))
		return res
	}
	if g.Dialogue.Start(npc.ID, g.Env()) == nil {
		res.Output = append(res.Output, fmt.Sprintf("%s has nothing to say.", npc.Name))
		return res
	}
	res.Output = append(res.Output, g.describeNode()...)
	return res
}

// Choose picks a reply by zero-based index.
func (g *Game) Choose(index int) types.Result {
	var res types.Result
	if !g.Dialogue.Active() {
		res.Output = append(res.Output, "You're not talking to anyone.")
		return res
	}
	out := g.Dialogue.Pick(index, g.Env())
	if out.Refused {
		res.Output = append(res.Output, "You can't say that.")
		return res
	}
	res.Output = append(res.Output, out.Output...)
	g.settle(out.Events, &res)
	if out.Ended {
		res.Output = append(res.Output, "The conversation ends.")
	} else {
		res.Output = append(res.Output, g.describeNode()...)
	}
	g.drainFaction(&res)
	return res
}

// Leave ends the current conversation.
func (g *Game) Leave() types.Result {
	var res types.Result
	if !g.Dialogue.Active() {
		res.Output = append(res.Output, "You're not talking to anyone.")
		return res
	}
	g.Dialogue.End()
	res.Output = append(res.Output, "You walk away.")
	return res
}

// MoveTo places the player at pos facing along the move.
func (g *Game) MoveTo(pos types.Vec2) {
	dx, dz := pos.X-g.Player.Position.X, pos.Z-g.Player.Position.Z
	if dx != 0 || dz != 0 {
		g.Player.Facing = math.Atan2(dx, dz)
	}
	g.Player.Position = pos
}

// travel walks the player toward dst, simulating the trip. The walk stops
// early when something hostile happens.
func (g *Game) travel(dst types.Vec2) types.Result {
	var res types.Result
	for !g.Down() {
		d := dist(g.Player.Position, dst)
		if !(d >= 1e-9) { // NaN counts as arrived
			break
		}
		step := math.Min(WalkSpeed*StepSeconds, d)
		p := g.Player.Position
		g.MoveTo(types.Vec2{
			X: p.X + (dst.X-p.X)/d*step,
			Z: p.Z + (dst.Z-p.Z)/d*step,
		})
		tick := g.Update(StepSeconds)
		merge(&res, tick)
		if interrupts(tick.Events) {
			res.Output = append(res.Output, "You stop in your tracks.")
			break
		}
	}
	res.Output = append(res.Output, fmt.Sprintf("You are at (%.0f, %.0f).", g.Player.Position.X, g.Player.Position.Z))
	return res
}

func interrupts(evts []types.Event) bool {
	for _, e := range evts {
		switch e.Type {
		case "ambush", "roadblock_warning", "roadblock_attack", "player_down":
			return true
		}
	}
	return false
}

func (g *Game) goTo(args []string) types.Result {
	if len(args) < 2 {
		return types.Result{Output: []string{"Go where? (go <x> <z>)"}}
	}
	x, errX := strconv.ParseFloat(args[0], 64)
	z, errZ := strconv.ParseFloat(args[1], 64)
	if errX != nil || errZ != nil || !finite(x) || !finite(z) {
		return types.Result{Output: []string{"Coordinates must be numbers."}}
	}
	dst := types.Vec2{X: x, Z: z}
	if d := dist(g.Player.Position, dst); d > MaxTravel {
		return types.Result{Output: []string{fmt.Sprintf("That's too far to walk in one go (%.0fm). Try somewhere within %.0fm.", d, MaxTravel)}}
	}
	return g.travel(dst)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

var compass = map[string]float64{
	"north": 0, "northeast": math.Pi / 4, "east": math.Pi / 2, "southeast": 3 * math.Pi / 4,
	"south": math.Pi, "southwest": -3 * math.Pi / 4, "west": -math.Pi / 2, "northwest": -math.Pi / 4,
}

func (g *Game) walk(dir string, args []string) types.Result {
	yaw, ok := compass[dir]
	if !ok {
		return types.Result{Output: []string{"Walk which way?"}}
	}
	distance := 10.0
	if len(args) > 0 {
		if v, err := strconv.ParseFloat(args[0], 64); err == nil && v > 0 && finite(v) {
			distance = math.Min(v, MaxTravel)
		}
	}
	p := g.Player.Position
	return g.travel(types.Vec2{X: p.X + distance*math.Sin(yaw), Z: p.Z + distance*math.Cos(yaw)})
}

// apply runs effects and settles their events.
func (g *Game) apply(effs []types.Effect, res *types.Result) {
	evts, out := effects.Apply(g.Env(), effs)
	res.Effects = append(res.Effects, effs...)
	res.Output = append(res.Output, out...)
	g.settle(evts, res)
}

// settle routes events to the faction layer and runs matching event
// handlers. Single pass: handler events are routed but not re-dispatched.
func (g *Game) settle(evts []types.Event, res *types.Result) {
	g.route(evts)
	res.Events = append(res.Events, evts...)

	extra := events.Dispatch(evts, g.Defs.Handlers, g.Env())
	if len(extra) == 0 {
		return
	}
	evts2, out2 := effects.Apply(g.Env(), extra)
	g.route(evts2)
	res.Effects = append(res.Effects, extra...)
	res.Events = append(res.Events, evts2...)
	res.Output = append(res.Output, out2...)
}

func (g *Game) route(evts []types.Event) {
	for _, e := range evts {
		if e.Type == "set_poi_owner" {
			poi, _ := e.Data["poi"].(string)
			f, _ := e.Data["faction"].(string)
			if !g.Faction.SetOwner(poi, f) {
				g.log.Warn("set_poi_owner ignored", zap.String("poi", poi), zap.String("faction", f))
			}
		}
	}
}

// drainFaction turns faction events into text and handler effects.
func (g *Game) drainFaction(res *types.Result) {
	evts := g.Faction.Drain()
	if len(evts) == 0 {
		return
	}
	for _, e := range evts {
		if line := g.describeEvent(e); line != "" {
			res.Output = append(res.Output, line)
		}
	}
	g.settle(evts, res)
}

func (g *Game) checkTriggers(res *types.Result) {
	for _, fired := range g.triggers.Check(g.Player.Position, g.Env()) {
		g.log.Debug("trigger fired", zap.String("trigger", fired.ID))
		g.apply(fired.Effects, res)
	}
}

// streamTiles keeps the ring of tiles around the player loaded and rolls
// an ambush once for each newly entered tile.
func (g *Game) streamTiles() {
	tx, tz := faction.TileOf(g.Player.Position, g.opts.tileSize)
	key := faction.TileKey(tx, tz)
	if key == g.currentTile {
		return
	}
	g.currentTile = key

	want := map[string]bool{}
	r := g.opts.viewRadius
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			k := faction.TileKey(tx+dx, tz+dz)
			want[k] = true
			if !g.loaded[k] {
				g.loaded[k] = true
				g.Faction.OnTileCreated(k, g.biome(tx+dx, tz+dz), tx+dx, tz+dz)
			}
		}
	}
	for k := range g.loaded {
		if !want[k] {
			delete(g.loaded, k)
			g.Faction.OnTileDisposed(k)
		}
	}
	g.Faction.RollAmbush(key)
}

func (g *Game) biome(tx, tz int) string {
	size := g.opts.tileSize
	center := types.Vec2{X: (float64(tx) + 0.5) * size, Z: (float64(tz) + 0.5) * size}
	if g.Faction.InSafeZone(center) {
		return "settlement"
	}
	return "wastes"
}

func (g *Game) findNPC(name string) (types.NPCDef, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if npc, ok := g.Defs.NPCs[name]; ok {
		return npc, true
	}
	key := strings.ReplaceAll(name, " ", "_")
	if npc, ok := g.Defs.NPCs[key]; ok {
		return npc, true
	}
	// Closest NPC whose name contains the words.
	var best types.NPCDef
	found := false
	for _, npc := range g.Defs.NPCs {
		if !strings.Contains(strings.ToLower(npc.Name), name) && !strings.Contains(npc.ID, key) {
			continue
		}
		if !found || dist(npc.Position, g.Player.Position) < dist(best.Position, g.Player.Position) {
			best, found = npc, true
		}
	}
	return best, found
}

func merge(dst *types.Result, src types.Result) {
	dst.Effects = append(dst.Effects, src.Effects...)
	dst.Events = append(dst.Events, src.Events...)
	dst.Output = append(dst.Output, src.Output...)
}

func dist(a, b types.Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}
