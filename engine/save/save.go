// Package save implements JSON serialization of a playthrough and the
// slot stores that keep the bytes.
package save

import (
	"encoding/json"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/faction"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/player"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string            `json:"version"`
	Game        string            `json:"game"`
	SavedAt     int64             `json:"saved_at"` // unix ms
	Quest       *quest.Snapshot   `json:"quest"`
	Player      *player.Player    `json:"player"`
	World       *faction.Snapshot `json:"world"`
	RNGSeed     int64             `json:"rng_seed"`
	RNGPosition int64             `json:"rng_position"`
	Position    types.Vec2        `json:"position"`
}

// Save serializes save data to indented JSON bytes.
func Save(sd *SaveData) ([]byte, error) {
	return json.MarshalIndent(sd, "", "  ")
}

// Load deserializes JSON bytes into SaveData. Missing sections are filled
// with empty values so a partial save still restores.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure sections are never nil after load.
	if sd.Quest == nil {
		sd.Quest = &quest.Snapshot{}
	}
	if sd.Player == nil {
		sd.Player = player.New(nil)
	}
	sd.Player.Normalize()
	if sd.World == nil {
		sd.World = &faction.Snapshot{}
	}
	if sd.World.POIOwnership == nil {
		sd.World.POIOwnership = map[string]string{}
	}
	if sd.World.ResolvedSkirmishes == nil {
		sd.World.ResolvedSkirmishes = []string{}
	}
	return &sd, nil
}
