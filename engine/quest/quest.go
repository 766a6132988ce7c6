// Package quest holds the persistent narrative state: quest stages, flags,
// objectives, the journal log, and per-faction reputation and heat.
// Every operation is total: unknown keys yield defaults, never errors.
package quest

import (
	"math"
	"time"
)

// Faction identifiers tracked by reputation and heat.
const (
	Vault   = "vault"
	Wardens = "wardens"
	Rail    = "rail"
)

// Factions lists every faction with a reputation entry, in display order.
var Factions = []string{Vault, Wardens, Rail}

// Reputation and heat bounds.
const (
	RepMin  = -100
	RepMax  = 100
	HeatMin = 0
	HeatMax = 100
)

// ObjectiveStatus is the lifecycle state of an objective.
type ObjectiveStatus string

const (
	ObjectiveActive ObjectiveStatus = "active"
	ObjectiveDone   ObjectiveStatus = "done"
	ObjectiveFailed ObjectiveStatus = "failed"
)

// Objective is a player-facing task.
type Objective struct {
	Text   string          `json:"text"`
	Status ObjectiveStatus `json:"status"`
}

// LogEntry is one journal line. Time is unix milliseconds.
type LogEntry struct {
	Text string `json:"text"`
	Time int64  `json:"time"`
}

// State is the single quest state instance for a playthrough.
type State struct {
	stages     map[string]int
	flags      map[string]any
	objectives []Objective
	log        []LogEntry
	rep        map[string]int
	heat       map[string]int
	now        func() time.Time
}

// Option configures a State.
type Option func(*State)

// WithClock sets the wall clock used for journal timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a fresh state with every faction at zero reputation and heat.
func New(opts ...Option) *State {
	s := &State{
		stages: map[string]int{},
		flags:  map[string]any{},
		rep:    map[string]int{},
		heat:   map[string]int{},
		now:    time.Now,
	}
	for _, f := range Factions {
		s.rep[f] = 0
		s.heat[f] = 0
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetStage stores n for the quest unconditionally. Regression is permitted.
func (s *State) SetStage(id string, n int) {
	s.stages[id] = n
}

// Stage returns the stage of a quest. Unstarted quests return 0.
func (s *State) Stage(id string) int {
	return s.stages[id]
}

// AdvanceStage raises the stage to n only if n is greater than the current value.
func (s *State) AdvanceStage(id string, n int) {
	if n > s.stages[id] {
		s.stages[id] = n
	}
}

// SetFlag stores an arbitrary flag value. Numbers are kept as float64 so
// they survive a JSON round-trip unchanged.
func (s *State) SetFlag(key string, val any) {
	s.flags[key] = normalize(val)
}

// Flag returns the raw flag value, or def when the key is unset.
func (s *State) Flag(key string, def any) any {
	if v, ok := s.flags[key]; ok {
		return v
	}
	return def
}

// HasFlag reports whether the key has been written at all.
func (s *State) HasFlag(key string) bool {
	_, ok := s.flags[key]
	return ok
}

// BoolFlag returns a flag as a bool. Non-zero numbers and non-empty strings
// count as true; unset keys are false.
func (s *State) BoolFlag(key string) bool {
	switch v := s.flags[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return false
	}
}

// IntFlag returns a numeric flag truncated to int. Non-numeric values are 0.
func (s *State) IntFlag(key string) int {
	switch v := s.flags[key].(type) {
	case float64:
		return int(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// StringFlag returns a string flag, or def when unset or not a string.
func (s *State) StringFlag(key, def string) string {
	if v, ok := s.flags[key].(string); ok {
		return v
	}
	return def
}

// IncFlag adds amount to a numeric flag, treating an absent key as 0.
func (s *State) IncFlag(key string, amount float64) {
	cur, _ := s.flags[key].(float64)
	s.flags[key] = cur + amount
}

// AddObjective appends an active objective unless one with the same text exists.
func (s *State) AddObjective(text string) bool {
	for _, o := range s.objectives {
		if o.Text == text {
			return false
		}
	}
	s.objectives = append(s.objectives, Objective{Text: text, Status: ObjectiveActive})
	return true
}

// CompleteObjective marks the active objective with this text as done.
func (s *State) CompleteObjective(text string) bool {
	return s.transition(text, ObjectiveDone)
}

// FailObjective marks the active objective with this text as failed.
func (s *State) FailObjective(text string) bool {
	return s.transition(text, ObjectiveFailed)
}

func (s *State) transition(text string, to ObjectiveStatus) bool {
	for i := range s.objectives {
		if s.objectives[i].Text == text && s.objectives[i].Status == ObjectiveActive {
			s.objectives[i].Status = to
			return true
		}
	}
	return false
}

// ObjectiveStatusOf returns the status of the objective with this text.
func (s *State) ObjectiveStatusOf(text string) (ObjectiveStatus, bool) {
	for _, o := range s.objectives {
		if o.Text == text {
			return o.Status, true
		}
	}
	return "", false
}

// TopObjective returns the first active objective in insertion order, or "".
func (s *State) TopObjective() string {
	for _, o := range s.objectives {
		if o.Status == ObjectiveActive {
			return o.Text
		}
	}
	return ""
}

// Objectives returns a copy of the objective list.
func (s *State) Objectives() []Objective {
	return append([]Objective(nil), s.objectives...)
}

// AddLog appends a journal entry stamped with the current wall-clock time.
// The log is never trimmed.
func (s *State) AddLog(text string) {
	s.log = append(s.log, LogEntry{Text: text, Time: s.now().UnixMilli()})
}

// Log returns a copy of the journal, oldest first.
func (s *State) Log() []LogEntry {
	return append([]LogEntry(nil), s.log...)
}

// ChangeRep applies delta to a faction's reputation, clamped to [-100, 100].
// Unknown factions are ignored.
func (s *State) ChangeRep(faction string, delta int) {
	cur, ok := s.rep[faction]
	if !ok {
		return
	}
	s.rep[faction] = clamp(cur+delta, RepMin, RepMax)
}

// Rep returns a faction's reputation, 0 for unknown factions.
func (s *State) Rep(faction string) int {
	return s.rep[faction]
}

// ChangeHeat applies delta to a faction's heat, clamped to [0, 100].
// Unknown factions are ignored.
func (s *State) ChangeHeat(faction string, delta int) {
	cur, ok := s.heat[faction]
	if !ok {
		return
	}
	s.heat[faction] = clamp(cur+delta, HeatMin, HeatMax)
}

// Heat returns a faction's heat, 0 for unknown factions.
func (s *State) Heat(faction string) int {
	return s.heat[faction]
}

// VendorMultiplier returns the price multiplier a faction's vendors charge.
func (s *State) VendorMultiplier(faction string) float64 {
	return VendorMultiplierFor(s.Rep(faction))
}

// VendorMultiplierFor maps a reputation value to a price tier.
func VendorMultiplierFor(rep int) float64 {
	switch {
	case rep >= 50:
		return 0.8
	case rep >= 20:
		return 0.9
	case rep <= -50:
		return 1.4
	case rep <= -20:
		return 1.2
	default:
		return 1.0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalize converts Go numeric kinds to float64; other values pass through.
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		if math.IsNaN(n) {
			return float64(0)
		}
		return n
	default:
		return v
	}
}
