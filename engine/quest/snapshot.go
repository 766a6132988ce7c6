package quest

// Snapshot is the persisted shape of a State. Field names are part of the
// save format and must not change.
type Snapshot struct {
	Stages     map[string]int `json:"stages"`
	Flags      map[string]any `json:"flags"`
	Objectives []Objective    `json:"objectives"`
	Log        []LogEntry     `json:"log"`
	Rep        map[string]int `json:"rep"`
	Heat       map[string]int `json:"heat,omitempty"`
}

// ToSave returns a deep copy of the state.
func (s *State) ToSave() *Snapshot {
	snap := &Snapshot{
		Stages:     make(map[string]int, len(s.stages)),
		Flags:      make(map[string]any, len(s.flags)),
		Objectives: append([]Objective{}, s.objectives...),
		Log:        append([]LogEntry{}, s.log...),
		Rep:        make(map[string]int, len(s.rep)),
		Heat:       make(map[string]int, len(s.heat)),
	}
	for k, v := range s.stages {
		snap.Stages[k] = v
	}
	for k, v := range s.flags {
		snap.Flags[k] = v
	}
	for k, v := range s.rep {
		snap.Rep[k] = v
	}
	for k, v := range s.heat {
		snap.Heat[k] = v
	}
	return snap
}

// FromSave builds a new State from a snapshot. Missing fields fall back to
// defaults; a nil snapshot yields a fresh state. Unknown factions are dropped
// and out-of-range values are clamped.
func FromSave(data *Snapshot, opts ...Option) *State {
	s := New(opts...)
	if data == nil {
		return s
	}
	for k, v := range data.Stages {
		s.stages[k] = v
	}
	for k, v := range data.Flags {
		s.flags[k] = normalize(v)
	}
	for _, o := range data.Objectives {
		if o.Text == "" {
			continue
		}
		switch o.Status {
		case ObjectiveActive, ObjectiveDone, ObjectiveFailed:
		default:
			o.Status = ObjectiveActive
		}
		if _, exists := s.ObjectiveStatusOf(o.Text); exists {
			continue
		}
		s.objectives = append(s.objectives, o)
	}
	s.log = append(s.log, data.Log...)
	for _, f := range Factions {
		if v, ok := data.Rep[f]; ok {
			s.rep[f] = clamp(v, RepMin, RepMax)
		}
		if v, ok := data.Heat[f]; ok {
			s.heat[f] = clamp(v, HeatMin, HeatMax)
		}
	}
	return s
}
