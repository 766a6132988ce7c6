package faction

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// ambushFaction returns the faction angry enough to ambush: the highest heat
// at or over the threshold, else the lowest rep at or under it.
func (s *Sim) ambushFaction() (string, bool) {
	best, bestHeat := "", -1
	for _, f := range quest.Factions {
		if h := s.quest.Heat(f); h >= s.tun.AmbushHeat && h > bestHeat {
			best, bestHeat = f, h
		}
	}
	if best != "" {
		return best, true
	}
	bestRep := math.MaxInt
	for _, f := range quest.Factions {
		if r := s.quest.Rep(f); r <= s.tun.AmbushRep && r < bestRep {
			best, bestRep = f, r
		}
	}
	return best, best != ""
}

// AmbushReady reports whether the cooldown since the last ambush has elapsed.
func (s *Sim) AmbushReady() bool {
	return s.clock.Now().UnixMilli() >= s.ambushCooldownUntil
}

// RollAmbush is called once per tile entry. It spawns an engaged squad
// behind the player when conditions hold and the roll succeeds.
func (s *Sim) RollAmbush(tileKey string) bool {
	if s.player == nil || !s.player.Alive() {
		return false
	}
	pos := s.player.Pos()
	if s.InSafeZone(pos) || !s.AmbushReady() {
		return false
	}
	faction, ok := s.ambushFaction()
	if !ok {
		return false
	}
	if !s.roll.Chance(s.tun.AmbushChance) {
		return false
	}

	count := s.roll.IntRange(3, 4)
	behind := s.player.Heading() + math.Pi
	squad := s.spawnSquad(faction, count, pos, tileKey)
	for i, u := range squad {
		off := 0.0
		if count > 1 {
			off = s.tun.AmbushArc * (float64(i)/float64(count-1) - 0.5)
		}
		a := behind + off
		// Facing 0 looks down +z.
		u.Position = types.Vec2{
			X: pos.X + s.tun.AmbushDistance*math.Sin(a),
			Z: pos.Z + s.tun.AmbushDistance*math.Cos(a),
		}
		u.PatrolOrigin = u.Position
		u.Ambush = true
		u.engage(TargetRef{Kind: TargetPlayer})
	}

	s.ambushCooldownUntil = s.clock.Now().Add(s.tun.AmbushCooldown).UnixMilli()
	s.log.Info("ambush", zap.String("faction", faction), zap.Int("units", count), zap.String("tile", tileKey))
	s.emit("ambush", map[string]any{"faction": faction, "count": count, "tile": tileKey})
	return true
}

// AmbushCooldownRemaining returns how long until the next ambush may roll.
func (s *Sim) AmbushCooldownRemaining() time.Duration {
	left := s.ambushCooldownUntil - s.clock.Now().UnixMilli()
	if left < 0 {
		return 0
	}
	return time.Duration(left) * time.Millisecond
}
