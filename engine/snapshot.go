package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/player"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/rng"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/save"
)

// SaveVersion is written into every save.
const SaveVersion = "1"

// Snapshot captures the whole playthrough for saving.
func (g *Game) Snapshot() *save.SaveData {
	return &save.SaveData{
		Version:     SaveVersion,
		Game:        g.Defs.Game.Title,
		SavedAt:     g.opts.clock.Now().UnixMilli(),
		Quest:       g.Quest.ToSave(),
		Player:      g.Player.Clone(),
		World:       g.Faction.ToSave(),
		RNGSeed:     g.RNG.Seed(),
		RNGPosition: g.RNG.Position(),
		Position:    g.Player.Position,
	}
}

// Restore replaces all mutable state from save data. Conversation, live
// units and loaded tiles are discarded; tiles re-stream on the next update.
func (g *Game) Restore(sd *save.SaveData) {
	q := quest.FromSave(sd.Quest, quest.WithClock(g.opts.clock.Now))
	p := player.New(g.Defs.Game.Skills)
	if sd.Player != nil {
		p = sd.Player.Clone()
		p.Normalize()
	}
	p.Position = sd.Position

	g.reset(q, p, rng.Restore(sd.RNGSeed, sd.RNGPosition))
	g.Faction.Restore(sd.World)
	g.log.Info("game restored",
		zap.String("game", sd.Game),
		zap.Int64("saved_at", sd.SavedAt),
		zap.Float64("x", p.Position.X),
		zap.Float64("z", p.Position.Z))
}

// SaveTo writes the current playthrough into a store slot.
func (g *Game) SaveTo(ctx context.Context, store save.Store, slot string) error {
	data, err := save.Save(g.Snapshot())
	if err != nil {
		return fmt.Errorf("encoding save: %w", err)
	}
	if err := store.Put(ctx, slot, data); err != nil {
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	g.log.Info("game saved", zap.String("slot", slot), zap.Int("bytes", len(data)))
	return nil
}

// LoadFrom restores the playthrough held in a store slot.
func (g *Game) LoadFrom(ctx context.Context, store save.Store, slot string) error {
	data, err := store.Get(ctx, slot)
	if err != nil {
		return fmt.Errorf("reading slot %s: %w", slot, err)
	}
	sd, err := save.Load(data)
	if err != nil {
		return fmt.Errorf("decoding slot %s: %w", slot, err)
	}
	g.Restore(sd)
	return nil
}
