package faction

import (
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// TileKey formats tile coordinates as "tx,tz".
func TileKey(tx, tz int) string {
	return fmt.Sprintf("%d,%d", tx, tz)
}

// TileOf returns the tile coordinates containing pos.
func TileOf(pos types.Vec2, size float64) (int, int) {
	return int(math.Floor(pos.X / size)), int(math.Floor(pos.Z / size))
}

func (s *Sim) poi(id string) (types.POIDef, bool) {
	for _, p := range s.world.POIs {
		if p.ID == id {
			return p, true
		}
	}
	return types.POIDef{}, false
}

// Owner returns the current owner of a POI.
func (s *Sim) Owner(poiID string) string {
	p, ok := s.poi(poiID)
	if !ok {
		return ""
	}
	return s.quest.POIOwner(p.ID, p.Owner)
}

// SetOwner changes who holds a POI and rebuilds its banner on every loaded
// tile. Unknown POIs and factions are ignored.
func (s *Sim) SetOwner(poiID, faction string) bool {
	p, ok := s.poi(poiID)
	if !ok || !slices.Contains(quest.Factions, faction) {
		return false
	}
	prev := s.quest.POIOwner(p.ID, p.Owner)
	s.quest.SetFlag(quest.POIOwnerKey(p.ID), faction)
	if prev == faction {
		return true
	}
	for _, key := range s.loadedTileKeys() {
		if slices.Contains(s.tiles[key].pois, p.ID) {
			s.visuals.BannerRemoved(key, p.ID)
			s.visuals.BannerBuilt(key, p.ID, faction)
		}
	}
	s.log.Info("poi owner changed", zap.String("poi", p.ID), zap.String("from", prev), zap.String("to", faction))
	s.emit("poi_owner_changed", map[string]any{"poi": p.ID, "from": prev, "to": faction})
	return true
}

// Loaded reports whether a tile is being tracked.
func (s *Sim) Loaded(tileKey string) bool {
	_, ok := s.tiles[tileKey]
	return ok
}

func (s *Sim) loadedTileKeys() []string {
	keys := make([]string, 0, len(s.tiles))
	for k := range s.tiles {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *Sim) inTile(pos types.Vec2, tx, tz int) bool {
	x, z := TileOf(pos, s.world.TileSize)
	return x == tx && z == tz
}

// OnTileCreated populates a streamed-in tile: banners and garrisons for its
// POIs, contested attackers, a chance of a patrol and heat-driven bonus
// squads. Repeat calls for a tracked key do nothing.
func (s *Sim) OnTileCreated(tileKey, biome string, tx, tz int) {
	if _, ok := s.tiles[tileKey]; ok {
		return
	}
	t := &tile{key: tileKey, biome: biome, x: tx, z: tz}
	s.tiles[tileKey] = t
	s.log.Debug("tile created", zap.String("tile", tileKey), zap.String("biome", biome))

	for _, p := range s.world.POIs {
		if !s.inTile(p.Position, tx, tz) {
			continue
		}
		t.pois = append(t.pois, p.ID)
		owner := s.quest.POIOwner(p.ID, p.Owner)
		s.visuals.BannerBuilt(tileKey, p.ID, owner)
		if p.Roadblock {
			continue
		}
		garrison := s.spawnCapped(owner, s.tun.SquadSize, p.Position, tileKey)
		if p.ContestedBy == "" || p.ContestedBy == owner || slices.Contains(s.resolved, p.ID) || len(garrison) == 0 {
			continue
		}
		at := types.Vec2{X: p.Position.X + s.tun.SkirmishRadius*0.6, Z: p.Position.Z}
		attackers := s.spawnCapped(p.ContestedBy, s.tun.SquadSize, at, tileKey)
		if len(attackers) == 0 {
			continue
		}
		s.contests = append(s.contests, contest{
			poi: p.ID, tile: tileKey,
			defender: owner, attacker: p.ContestedBy,
			defSquad: garrison[0].SquadID, atkSquad: attackers[0].SquadID,
		})
	}

	size := s.world.TileSize
	center := types.Vec2{X: (float64(tx) + 0.5) * size, Z: (float64(tz) + 0.5) * size}
	if !s.InSafeZone(center) {
		if s.roll.Chance(s.tun.PatrolSpawnChance) {
			f := quest.Factions[s.roll.IntRange(0, len(quest.Factions)-1)]
			s.spawnCapped(f, s.tun.SquadSize, center, tileKey)
		}
		for _, f := range quest.Factions {
			heat := s.quest.Heat(f)
			if heat < s.tun.BonusHeat || !s.roll.Chance(s.tun.BonusChance) {
				continue
			}
			squad := s.spawnCapped(f, s.tun.BonusSize, center, tileKey)
			for _, u := range squad {
				u.Hunter = heat >= s.tun.BonusHunterHeat
			}
		}
	}
}

// OnTileDisposed removes every unit, banner and pending contest of a tile.
func (s *Sim) OnTileDisposed(tileKey string) {
	t, ok := s.tiles[tileKey]
	if !ok {
		return
	}
	var gone []*Unit
	for _, id := range s.order {
		if u := s.units[id]; u != nil && u.Tile == tileKey {
			gone = append(gone, u)
		}
	}
	for _, u := range gone {
		s.removeUnit(u)
	}
	for _, id := range t.pois {
		s.visuals.BannerRemoved(tileKey, id)
	}
	s.contests = slices.DeleteFunc(s.contests, func(c contest) bool { return c.tile == tileKey })
	delete(s.tiles, tileKey)
	s.log.Debug("tile disposed", zap.String("tile", tileKey), zap.Int("units", len(gone)))
}

func (s *Sim) squadAlive(squad string) int {
	n := 0
	for _, u := range s.units {
		if u.SquadID == squad && u.Alive() {
			n++
		}
	}
	return n
}

// resolveContests settles contested POIs where one side has been wiped out.
func (s *Sim) resolveContests() {
	kept := s.contests[:0]
	for _, c := range s.contests {
		def, atk := s.squadAlive(c.defSquad), s.squadAlive(c.atkSquad)
		if def > 0 && atk > 0 {
			kept = append(kept, c)
			continue
		}
		winner := c.defender
		if def == 0 && atk > 0 {
			winner = c.attacker
		}
		s.resolved = append(s.resolved, c.poi)
		s.SetOwner(c.poi, winner)
		s.log.Info("skirmish resolved", zap.String("poi", c.poi), zap.String("winner", winner))
		s.emit("skirmish_resolved", map[string]any{"poi": c.poi, "winner": winner})
	}
	s.contests = kept
}
