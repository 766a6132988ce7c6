// Package cli provides line-oriented terminal I/O and meta-command
// dispatch for the wasteland game. It doubles as the script runner.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/save"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// DefaultSlot is used by /save and /load without a name.
const DefaultSlot = "quicksave"

// CLI handles terminal interaction with the player.
type CLI struct {
	Game      *engine.Game
	Store     save.Store
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)
	lastCmd   string
	log       *zap.Logger
}

// New creates a CLI wired to the given game and save store.
func New(g *engine.Game, store save.Store, log *zap.Logger) *CLI {
	if log == nil {
		log = zap.NewNop()
	}
	return &CLI{
		Game:  g,
		Store: store,
		In:    os.Stdin,
		Out:   os.Stdout,
		log:   log,
	}
}

// Run shows the intro, then loops: prompt, input, dispatch, output.
func (c *CLI) Run(ctx context.Context) {
	if intro := c.Game.Defs.Game.Intro; intro != "" {
		c.printLine(intro)
		c.printLine("")
	}
	c.printResult(c.Game.Step("look"))

	scanner := bufio.NewScanner(c.In)
	for ctx.Err() == nil {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(ctx, input) {
				return
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Game.Step(input)
		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	arg := DefaultSlot
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true
	case "/save":
		c.cmdSave(ctx, arg)
	case "/load":
		c.cmdLoad(ctx, arg)
	case "/saves":
		c.cmdList(ctx)
	case "/delete":
		c.cmdDelete(ctx, arg)
	case "/help":
		c.cmdHelp()
	case "/state":
		c.cmdState()
	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}
	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
	return false
}

func (c *CLI) cmdSave(ctx context.Context, slot string) {
	if err := c.Game.SaveTo(ctx, c.Store, slot); err != nil {
		c.log.Warn("save failed", zap.String("slot", slot), zap.Error(err))
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game saved to %s.", slot))
}

func (c *CLI) cmdLoad(ctx context.Context, slot string) {
	err := c.Game.LoadFrom(ctx, c.Store, slot)
	switch {
	case errors.Is(err, save.ErrSlotNotFound):
		c.printSystem(fmt.Sprintf("No save named %s.", slot))
		return
	case err != nil:
		c.log.Warn("load failed", zap.String("slot", slot), zap.Error(err))
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game loaded from %s.", slot))
	c.printResult(c.Game.Step("look"))
}

func (c *CLI) cmdList(ctx context.Context) {
	slots, err := c.Store.List(ctx)
	if err != nil {
		c.printSystem(fmt.Sprintf("Listing saves failed: %v", err))
		return
	}
	if len(slots) == 0 {
		c.printSystem("No saves yet.")
		return
	}
	for _, s := range slots {
		c.printSystem(fmt.Sprintf("%s  %s", s.Name, s.UpdatedAt.Format("2006-01-02 15:04")))
	}
}

func (c *CLI) cmdDelete(ctx context.Context, slot string) {
	if err := c.Store.Delete(ctx, slot); err != nil {
		c.printSystem(fmt.Sprintf("Delete failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Deleted %s.", slot))
}

var helpLines = []string{
	"System:",
	"  /save [name]    Save game (default: quicksave)",
	"  /load [name]    Load game (default: quicksave)",
	"  /saves          List saves",
	"  /delete <name>  Delete a save",
	"  /quit           Exit game",
	"  /help           Show this help",
	"  /state          Debug: dump current state",
	"  /trace          Toggle debug trace output",
	"",
	"Game commands:",
	"  look (l)              Describe your surroundings",
	"  talk <npc>            Start a conversation",
	"  <n> / choose <n>      Pick a numbered reply",
	"  leave (bye)           End the conversation",
	"  go <x> <z>            Walk to a map position",
	"  walk <dir> [dist]     Walk n/s/e/w/ne/nw/se/sw",
	"  wait [sec]            Let time pass",
	"  pick <lock>           Try a nearby lock",
	"  attack                Strike the nearest fighter",
	"  use <item>            Use an item, e.g. a stimpak",
	"  journal (j)           Objectives and log",
	"  rep                   Faction standing",
	"  inventory (i)         What you're carrying",
	"  again (g)             Repeat your last command",
}

func (c *CLI) cmdHelp() {
	for _, line := range helpLines {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	g := c.Game
	p := g.Player
	c.printSystem(fmt.Sprintf("Position: (%.1f, %.1f) facing %.2f", p.Position.X, p.Position.Z, p.Facing))
	c.printSystem(fmt.Sprintf("HP: %d/%d  Skill points: %d", p.HP, p.MaxHP, p.SkillPoints))
	c.printSystem(fmt.Sprintf("Skills: %v", p.Skills))
	c.printSystem(fmt.Sprintf("Inventory: %v", p.Inventory))
	for _, f := range quest.Factions {
		c.printSystem(fmt.Sprintf("%s: rep %d heat %d", f, g.Quest.Rep(f), g.Quest.Heat(f)))
	}
	snap := g.Quest.ToSave()
	if len(snap.Stages) > 0 {
		c.printSystem(fmt.Sprintf("Stages: %v", snap.Stages))
	}
	if len(snap.Flags) > 0 {
		keys := make([]string, 0, len(snap.Flags))
		for k := range snap.Flags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			c.printSystem(fmt.Sprintf("Flag %s = %v", k, snap.Flags[k]))
		}
	}
	c.printSystem(fmt.Sprintf("Units: %d  Roadblock: %v  Ambush cooldown: %s",
		len(g.Faction.Units()), g.Faction.RoadblockActive(), g.Faction.AmbushCooldownRemaining()))
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Effects) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
