package faction

import "time"

// Tunables holds every numeric knob of the simulation. Field tags let the
// config package decode a "faction" section straight into it.
type Tunables struct {
	SkirmishRadius float64       `mapstructure:"skirmish_radius"`
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	HostileRep     int           `mapstructure:"hostile_rep"`
	HunterHeat     int           `mapstructure:"hunter_heat"`

	PatrolRadius       float64 `mapstructure:"patrol_radius"`
	PatrolAngularSpeed float64 `mapstructure:"patrol_angular_speed"`
	PatrolSpawnChance  float64 `mapstructure:"patrol_spawn_chance"`
	DisengageRadius    float64 `mapstructure:"disengage_radius"`
	RetreatTolerance   float64 `mapstructure:"retreat_tolerance"`

	AmbushHeat     int           `mapstructure:"ambush_heat"`
	AmbushRep      int           `mapstructure:"ambush_rep"`
	AmbushChance   float64       `mapstructure:"ambush_chance"`
	AmbushCooldown time.Duration `mapstructure:"ambush_cooldown"`
	AmbushDistance float64       `mapstructure:"ambush_distance"`
	AmbushArc      float64       `mapstructure:"ambush_arc"` // total spread in radians

	RoadblockSpawnRep  int     `mapstructure:"roadblock_spawn_rep"`
	RoadblockAttackRep int     `mapstructure:"roadblock_attack_rep"`
	RoadblockClearRep  int     `mapstructure:"roadblock_clear_rep"`
	RoadblockWarn      float64 `mapstructure:"roadblock_warn_radius"`
	RoadblockLeash     float64 `mapstructure:"roadblock_leash"` // guards give up past this distance from the site
	RoadblockSize      int     `mapstructure:"roadblock_size"`

	BonusHeat       int     `mapstructure:"bonus_heat"`
	BonusChance     float64 `mapstructure:"bonus_chance"`
	BonusHunterHeat int     `mapstructure:"bonus_hunter_heat"`
	BonusSize       int     `mapstructure:"bonus_size"`

	MaxSquads int `mapstructure:"max_squads"`
	SquadSize int `mapstructure:"squad_size"`

	HeatDecayPerMinute int `mapstructure:"heat_decay_per_minute"`
}

// DefaultTunables returns the stock numbers.
func DefaultTunables() Tunables {
	return Tunables{
		SkirmishRadius: 18,
		TickInterval:   500 * time.Millisecond,
		HostileRep:     -20,
		HunterHeat:     80,

		PatrolRadius:       8,
		PatrolAngularSpeed: 0.3,
		PatrolSpawnChance:  0.35,
		DisengageRadius:    40,
		RetreatTolerance:   1.0,

		AmbushHeat:     60,
		AmbushRep:      -40,
		AmbushChance:   0.2,
		AmbushCooldown: 5 * time.Minute,
		AmbushDistance: 20,
		AmbushArc:      1.2,

		RoadblockSpawnRep:  -30,
		RoadblockAttackRep: -50,
		RoadblockClearRep:  -20,
		RoadblockWarn:      15,
		RoadblockLeash:     30,
		RoadblockSize:      3,

		BonusHeat:       30,
		BonusChance:     0.5,
		BonusHunterHeat: 60,
		BonusSize:       2,

		MaxSquads: 6,
		SquadSize: 3,

		HeatDecayPerMinute: 1,
	}
}

// UnitCap is the most tile-spawned units alive at once.
func (t Tunables) UnitCap() int {
	return t.MaxSquads * t.SquadSize
}
