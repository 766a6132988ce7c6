// Package config loads the game configuration from YAML via viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/faction"
)

type Config struct {
	Game    GameConfig       `mapstructure:"game"`
	Save    SaveConfig       `mapstructure:"save"`
	Faction faction.Tunables `mapstructure:"faction"`
}

type GameConfig struct {
	ContentDir string  `mapstructure:"content_dir"`
	Seed       int64   `mapstructure:"seed"` // 0 picks one from the clock
	Debug      bool    `mapstructure:"debug"`
	LogFile    string  `mapstructure:"log_file"`
	StartX     float64 `mapstructure:"start_x"`
	StartZ     float64 `mapstructure:"start_z"`
	TileSize   float64 `mapstructure:"tile_size"`
	ViewRadius int     `mapstructure:"view_radius"`
	// FrameMs is the real-time update interval used by the terminal UI.
	FrameMs int `mapstructure:"frame_ms"`
}

type SaveConfig struct {
	Mode       string `mapstructure:"mode"` // file | sqlite
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// Load reads config from the given YAML file path. An empty path yields
// the defaults. WASTELAND_* environment variables override both, e.g.
// WASTELAND_GAME_SEED=7.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("wasteland")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.content_dir", "./content/wasteland")
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.debug", false)
	v.SetDefault("game.log_file", "./wasteland.log")
	v.SetDefault("game.start_x", 0.0)
	v.SetDefault("game.start_z", 0.0)
	v.SetDefault("game.tile_size", 64.0)
	v.SetDefault("game.view_radius", 1)
	v.SetDefault("game.frame_ms", 100)

	v.SetDefault("save.mode", "file")
	v.SetDefault("save.dir", "./saves")
	v.SetDefault("save.sqlite_path", "./saves/wasteland.db")

	d := faction.DefaultTunables()
	v.SetDefault("faction.skirmish_radius", d.SkirmishRadius)
	v.SetDefault("faction.tick_interval", d.TickInterval)
	v.SetDefault("faction.hostile_rep", d.HostileRep)
	v.SetDefault("faction.hunter_heat", d.HunterHeat)
	v.SetDefault("faction.patrol_radius", d.PatrolRadius)
	v.SetDefault("faction.patrol_angular_speed", d.PatrolAngularSpeed)
	v.SetDefault("faction.patrol_spawn_chance", d.PatrolSpawnChance)
	v.SetDefault("faction.disengage_radius", d.DisengageRadius)
	v.SetDefault("faction.retreat_tolerance", d.RetreatTolerance)
	v.SetDefault("faction.ambush_heat", d.AmbushHeat)
	v.SetDefault("faction.ambush_rep", d.AmbushRep)
	v.SetDefault("faction.ambush_chance", d.AmbushChance)
	v.SetDefault("faction.ambush_cooldown", d.AmbushCooldown)
	v.SetDefault("faction.ambush_distance", d.AmbushDistance)
	v.SetDefault("faction.ambush_arc", d.AmbushArc)
	v.SetDefault("faction.roadblock_spawn_rep", d.RoadblockSpawnRep)
	v.SetDefault("faction.roadblock_attack_rep", d.RoadblockAttackRep)
	v.SetDefault("faction.roadblock_clear_rep", d.RoadblockClearRep)
	v.SetDefault("faction.roadblock_warn_radius", d.RoadblockWarn)
	v.SetDefault("faction.roadblock_leash", d.RoadblockLeash)
	v.SetDefault("faction.roadblock_size", d.RoadblockSize)
	v.SetDefault("faction.bonus_heat", d.BonusHeat)
	v.SetDefault("faction.bonus_chance", d.BonusChance)
	v.SetDefault("faction.bonus_hunter_heat", d.BonusHunterHeat)
	v.SetDefault("faction.bonus_size", d.BonusSize)
	v.SetDefault("faction.max_squads", d.MaxSquads)
	v.SetDefault("faction.squad_size", d.SquadSize)
	v.SetDefault("faction.heat_decay_per_minute", d.HeatDecayPerMinute)
}

func (c *Config) validate() error {
	switch c.Save.Mode {
	case "file", "sqlite":
	default:
		return fmt.Errorf("save.mode must be file or sqlite, got %q", c.Save.Mode)
	}
	if c.Game.TileSize <= 0 {
		return fmt.Errorf("game.tile_size must be positive, got %v", c.Game.TileSize)
	}
	if c.Game.ViewRadius < 0 {
		return fmt.Errorf("game.view_radius must not be negative, got %d", c.Game.ViewRadius)
	}
	if c.Faction.TickInterval <= 0 {
		return fmt.Errorf("faction.tick_interval must be positive")
	}
	return nil
}
