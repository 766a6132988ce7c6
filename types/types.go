// Package types defines the shared data structures for the wasteland core.
// This package contains only type definitions, no logic.
package types

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string   // optional
	Args   []string // remaining words, e.g. coordinates for "go"
}

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Type   string
	Params map[string]any
}

// Event is emitted after effects are applied.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single game step.
type Result struct {
	Effects []Effect
	Events  []Event
	Output  []string
}

// Condition is a side-effect-free predicate over player and quest state.
type Condition struct {
	Type   string         // "flag_set", "stage_at_least", "skill_at_least", etc.
	Params map[string]any // condition-specific parameters
	Inner  *Condition     // for Not(): the negated inner condition
}

// Choice is one selectable answer in a dialogue node.
type Choice struct {
	Text           string
	Next           string // "" ends the conversation
	Requires       []Condition
	ConditionLabel string // shown next to the choice, e.g. "[Quick Hands 3]"
	Effects        []Effect
}

// DialogueNode is a single line of dialogue with its answers.
type DialogueNode struct {
	ID      string
	Speaker string
	Text    string
	Choices []Choice
	Effects []Effect // node-exit effects, run on every pick
}

// StartRule picks a dynamic entry node when all conditions pass.
type StartRule struct {
	Conditions []Condition
	Node       string
}

// DialogueTree is the static, author-defined conversation for one NPC.
type DialogueTree struct {
	ID     string
	Start  string
	Starts []StartRule
	Nodes  map[string]DialogueNode
}

// NPCDef is an NPC that can be talked to.
type NPCDef struct {
	ID       string
	Name     string
	Faction  string
	Position Vec2
	Dialogue *DialogueTree
}

// Vec2 is a ground-plane position (x, z).
type Vec2 struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// POIDef is a named fixed location with a default owning faction.
type POIDef struct {
	ID          string
	Name        string
	Position    Vec2
	Owner       string
	ContestedBy string // faction that disputes ownership when the tile loads
	Roadblock   bool   // the single roadblock set-piece site
}

// SafeZone suppresses hostile spawns and attacks inside its radius.
type SafeZone struct {
	ID       string
	Position Vec2
	Radius   float64
}

// LockDef is a lockable container or door placed in the world.
type LockDef struct {
	ID       string
	Name     string
	Level    int
	Position Vec2
}

// TriggerDef is a world proximity trigger.
type TriggerDef struct {
	ID          string
	Position    Vec2
	Radius      float64
	Once        bool
	Priority    int
	SourceOrder int
	Conditions  []Condition
	Effects     []Effect
}

// EventHandler is a rule triggered by an event rather than a player command.
type EventHandler struct {
	EventType  string
	Conditions []Condition
	Effects    []Effect
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
	Start   Vec2
	Skills  map[string]int // starting player skills
}

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game      GameDef
	NPCs      map[string]NPCDef
	POIs      []POIDef
	SafeZones []SafeZone
	Locks     map[string]LockDef
	Triggers  []TriggerDef
	Handlers  []EventHandler
}
