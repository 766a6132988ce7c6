package faction

import (
	"slices"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
)

// Snapshot is the persisted faction-world state.
type Snapshot struct {
	POIOwnership        map[string]string `json:"poiOwnership"`
	ResolvedSkirmishes  []string          `json:"resolvedSkirmishes"`
	RoadblockActive     bool              `json:"roadblockActive"`
	AmbushCooldownUntil int64             `json:"ambushCooldownUntil"`
}

// ToSave captures the persistent world state.
func (s *Sim) ToSave() *Snapshot {
	owners := make(map[string]string, len(s.world.POIs))
	for _, p := range s.world.POIs {
		owners[p.ID] = s.quest.POIOwner(p.ID, p.Owner)
	}
	return &Snapshot{
		POIOwnership:        owners,
		ResolvedSkirmishes:  append([]string{}, s.resolved...),
		RoadblockActive:     s.roadblockActive,
		AmbushCooldownUntil: s.ambushCooldownUntil,
	}
}

// Restore replaces world state from a snapshot. Live units are cleared; the
// caller re-streams tiles. An active roadblock is rebuilt at once.
func (s *Sim) Restore(snap *Snapshot) {
	for _, id := range append([]UnitID(nil), s.order...) {
		s.removeUnit(s.units[id])
	}
	for _, key := range s.loadedTileKeys() {
		s.OnTileDisposed(key)
	}
	if site, ok := s.roadblockSite(); ok && s.roadblockActive {
		s.visuals.BarricadesRemoved(site.ID)
	}
	s.units = map[UnitID]*Unit{}
	s.order = nil
	s.contests = nil
	s.resolved = nil
	s.roadblockActive = false
	s.ambushCooldownUntil = 0
	s.tickAcc, s.heatAcc = 0, 0

	if snap == nil {
		return
	}
	for poi, owner := range snap.POIOwnership {
		if p, ok := s.poi(poi); ok && owner != "" {
			s.quest.SetFlag(quest.POIOwnerKey(p.ID), owner)
		}
	}
	for _, id := range snap.ResolvedSkirmishes {
		if !slices.Contains(s.resolved, id) {
			s.resolved = append(s.resolved, id)
		}
	}
	s.ambushCooldownUntil = snap.AmbushCooldownUntil
	if snap.RoadblockActive {
		if site, ok := s.roadblockSite(); ok {
			s.spawnRoadblock(site, s.quest.POIOwner(site.ID, site.Owner))
		}
	}
}

// Resolved reports whether a contested POI has already been settled.
func (s *Sim) Resolved(poiID string) bool {
	return slices.Contains(s.resolved, poiID)
}
