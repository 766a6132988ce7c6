package save

import (
	"encoding/json"
	"testing"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/faction"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/player"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

func testSaveData() *SaveData {
	q := quest.New()
	q.SetStage("q1", 10)
	q.SetFlag("q1_permission_lie", true)
	q.AddObjective("Investigate the shrine outpost")
	q.ChangeRep(quest.Wardens, -35)
	q.ChangeHeat(quest.Rail, 12)

	p := player.New(map[string]int{"quick_hands": 2})
	p.AddItem("caps", 40)
	p.HP = 80

	return &SaveData{
		Version: "1.0",
		Game:    "Wasteland Japan",
		Quest:   q.ToSave(),
		Player:  p,
		World: &faction.Snapshot{
			POIOwnership:        map[string]string{"depot": quest.Wardens},
			ResolvedSkirmishes:  []string{"depot"},
			RoadblockActive:     true,
			AmbushCooldownUntil: 1700000000000,
		},
		RNGSeed:     42,
		RNGPosition: 7,
		Position:    types.Vec2{X: 12.5, Z: -3},
	}
}

func TestRoundTrip(t *testing.T) {
	data, err := Save(testSaveData())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	q := quest.FromSave(sd.Quest)
	if q.Stage("q1") != 10 {
		t.Errorf("expected stage 10, got %d", q.Stage("q1"))
	}
	if !q.BoolFlag("q1_permission_lie") {
		t.Error("expected q1_permission_lie flag true")
	}
	if q.Rep(quest.Wardens) != -35 || q.Heat(quest.Rail) != 12 {
		t.Errorf("rep/heat mismatch: %d %d", q.Rep(quest.Wardens), q.Heat(quest.Rail))
	}
	if sd.Player.ItemCount("caps") != 40 || sd.Player.HP != 80 || sd.Player.Skill("quick_hands") != 2 {
		t.Errorf("player mismatch: %+v", sd.Player)
	}
	if !sd.World.RoadblockActive || sd.World.AmbushCooldownUntil != 1700000000000 {
		t.Errorf("world mismatch: %+v", sd.World)
	}
	if sd.World.POIOwnership["depot"] != quest.Wardens {
		t.Errorf("poi ownership mismatch: %v", sd.World.POIOwnership)
	}
	if sd.RNGSeed != 42 || sd.RNGPosition != 7 {
		t.Errorf("rng mismatch: %d %d", sd.RNGSeed, sd.RNGPosition)
	}
	if sd.Position.X != 12.5 || sd.Position.Z != -3 {
		t.Errorf("position mismatch: %+v", sd.Position)
	}
}

func TestSave_FieldNames(t *testing.T) {
	data, err := Save(testSaveData())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !json.Valid(data) {
		t.Fatal("Save output is not valid JSON")
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["version"] != "1.0" {
		t.Errorf("expected version '1.0', got %v", raw["version"])
	}
	questRaw, _ := raw["quest"].(map[string]any)
	for _, key := range []string{"stages", "flags", "objectives", "log", "rep"} {
		if _, ok := questRaw[key]; !ok {
			t.Errorf("quest section missing %q", key)
		}
	}
	world, _ := raw["world"].(map[string]any)
	for _, key := range []string{"poiOwnership", "resolvedSkirmishes", "roadblockActive", "ambushCooldownUntil"} {
		if _, ok := world[key]; !ok {
			t.Errorf("world section missing %q", key)
		}
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	if _, err := Load([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoad_PartialSave(t *testing.T) {
	sd, err := Load([]byte(`{"version":"1.0"}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sd.Quest == nil || sd.Player == nil || sd.World == nil {
		t.Fatal("missing sections should be filled")
	}
	if sd.Player.Skills == nil || sd.Player.MaxHP != player.DefaultMaxHP {
		t.Errorf("player not normalized: %+v", sd.Player)
	}
	if sd.World.POIOwnership == nil {
		t.Error("poiOwnership should be non-nil")
	}
	if q := quest.FromSave(sd.Quest); q.Rep(quest.Vault) != 0 {
		t.Error("expected default rep")
	}
}
