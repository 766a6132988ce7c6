package faction

import (
	"time"

	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// Clock is the wall-clock source for real-time cooldowns.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Roller supplies randomness. *rng.RNG satisfies it.
type Roller interface {
	Chance(p float64) bool
	IntRange(lo, hi int) int
	Float64() float64
}

// Player is the simulation's view of the player.
type Player interface {
	Pos() types.Vec2
	Heading() float64
	Alive() bool
	Damage(amount int) int
}

// Visuals is the rendering adapter. The sim calls it as units and
// set-pieces come and go; it never reads anything back.
type Visuals interface {
	UnitSpawned(u *Unit)
	UnitRemoved(u *Unit)
	BannerBuilt(tileKey, poiID, owner string)
	BannerRemoved(tileKey, poiID string)
	BarricadesSpawned(poiID string, at types.Vec2)
	BarricadesRemoved(poiID string)
}

// NopVisuals discards every call.
type NopVisuals struct{}

func (NopVisuals) UnitSpawned(*Unit)                    {}
func (NopVisuals) UnitRemoved(*Unit)                    {}
func (NopVisuals) BannerBuilt(string, string, string)   {}
func (NopVisuals) BannerRemoved(string, string)         {}
func (NopVisuals) BarricadesSpawned(string, types.Vec2) {}
func (NopVisuals) BarricadesRemoved(string)             {}
