package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/faction"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./content/wasteland", cfg.Game.ContentDir)
	assert.Equal(t, 64.0, cfg.Game.TileSize)
	assert.Equal(t, 1, cfg.Game.ViewRadius)
	assert.Equal(t, "file", cfg.Save.Mode)
	assert.Equal(t, faction.DefaultTunables(), cfg.Faction)
}

func TestLoad_YAMLOverrides(t *testing.T) {
	cfg, err := Load("testdata/custom.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/srv/wasteland/content", cfg.Game.ContentDir)
	assert.Equal(t, int64(1234), cfg.Game.Seed)
	assert.True(t, cfg.Game.Debug)
	assert.Equal(t, 32.0, cfg.Game.TileSize)
	assert.Equal(t, "sqlite", cfg.Save.Mode)
	assert.Equal(t, "/tmp/ws.db", cfg.Save.SQLitePath)

	assert.Equal(t, 25.0, cfg.Faction.SkirmishRadius)
	assert.Equal(t, 250*time.Millisecond, cfg.Faction.TickInterval)
	assert.Equal(t, 90*time.Second, cfg.Faction.AmbushCooldown)
	assert.Equal(t, 4, cfg.Faction.MaxSquads)
	// Untouched keys keep their defaults.
	assert.Equal(t, -20, cfg.Faction.HostileRep)
	assert.Equal(t, 3, cfg.Faction.SquadSize)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("WASTELAND_GAME_SEED", "77")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(77), cfg.Game.Seed)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownSaveMode(t *testing.T) {
	_, err := Load("testdata/badmode.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save.mode")
}
