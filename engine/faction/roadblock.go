package faction

import (
	"go.uber.org/zap"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// roadblockSite returns the single POI flagged as the roadblock.
func (s *Sim) roadblockSite() (types.POIDef, bool) {
	for _, p := range s.world.POIs {
		if p.Roadblock {
			return p, true
		}
	}
	return types.POIDef{}, false
}

// RoadblockActive reports whether the roadblock is up.
func (s *Sim) RoadblockActive() bool { return s.roadblockActive }

// RoadblockUnits returns the live roadblock guards.
func (s *Sim) RoadblockUnits() []*Unit {
	var out []*Unit
	for _, u := range s.Units() {
		if u.Roadblock {
			out = append(out, u)
		}
	}
	return out
}

func (s *Sim) spawnRoadblock(site types.POIDef, faction string) {
	squad := s.spawnSquad(faction, s.tun.RoadblockSize, site.Position, "")
	for _, u := range squad {
		u.Roadblock = true
		u.PatrolRadius = 2
	}
	s.visuals.BarricadesSpawned(site.ID, site.Position)
	s.roadblockActive = true
}

func (s *Sim) despawnRoadblock(site types.POIDef) {
	var guards []*Unit
	for _, id := range s.order {
		if u := s.units[id]; u != nil && u.Roadblock {
			guards = append(guards, u)
		}
	}
	for _, u := range guards {
		s.removeUnit(u)
	}
	s.visuals.BarricadesRemoved(site.ID)
	s.roadblockActive = false
	s.quest.SetFlag(quest.FlagRoadblockWarned, false)
}

// updateRoadblock runs the roadblock lifecycle against the site owner's rep.
func (s *Sim) updateRoadblock() {
	site, ok := s.roadblockSite()
	if !ok {
		return
	}
	faction := s.quest.POIOwner(site.ID, site.Owner)
	rep := s.quest.Rep(faction)

	if !s.roadblockActive {
		if rep <= s.tun.RoadblockSpawnRep {
			s.spawnRoadblock(site, faction)
			s.log.Info("roadblock spawned", zap.String("faction", faction), zap.Int("rep", rep))
			s.emit("roadblock_spawned", map[string]any{"faction": faction, "poi": site.ID})
		}
		return
	}

	if rep > s.tun.RoadblockClearRep {
		s.despawnRoadblock(site)
		s.log.Info("roadblock cleared", zap.String("faction", faction), zap.Int("rep", rep))
		s.emit("roadblock_cleared", map[string]any{"faction": faction, "poi": site.ID})
		return
	}

	if s.player == nil || !s.player.Alive() {
		return
	}
	near := dist2(s.player.Pos(), site.Position) <= s.tun.RoadblockWarn*s.tun.RoadblockWarn
	warned := s.quest.BoolFlag(quest.FlagRoadblockWarned)

	switch {
	case !near:
		if warned {
			s.quest.SetFlag(quest.FlagRoadblockWarned, false)
		}
	case rep <= s.tun.RoadblockAttackRep:
		turned := 0
		for _, u := range s.RoadblockUnits() {
			if u.State != StateEngage {
				u.engage(TargetRef{Kind: TargetPlayer})
				turned++
			}
		}
		if turned > 0 {
			s.emit("roadblock_attack", map[string]any{"faction": faction, "poi": site.ID, "count": turned})
		}
	case !warned:
		s.quest.SetFlag(quest.FlagRoadblockWarned, true)
		s.log.Debug("roadblock warning", zap.String("faction", faction))
		s.emit("roadblock_warning", map[string]any{"faction": faction, "poi": site.ID})
	}
}
