package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/locks"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

var factionNames = map[string]string{
	quest.Vault:   "Vault Dwellers",
	quest.Wardens: "Shrine Wardens",
	quest.Rail:    "Rail Syndicate",
}

// FactionName returns the display name of a faction.
func FactionName(id string) string {
	if n, ok := factionNames[id]; ok {
		return n
	}
	return id
}

// describeNode renders the active dialogue node with numbered replies.
func (g *Game) describeNode() []string {
	v, ok := g.Dialogue.View(g.Env())
	if !ok {
		return nil
	}
	var lines []string
	speaker := v.Speaker
	if speaker == "" {
		speaker = g.Defs.NPCs[v.NPC].Name
	}
	lines = append(lines, fmt.Sprintf("%s: %s", speaker, v.Text))
	for _, c := range v.Choices {
		line := fmt.Sprintf("  %d. %s", c.Index+1, c.Text)
		if c.Label != "" {
			line += " " + c.Label
		}
		if !c.Enabled {
			line += " (unavailable)"
		}
		lines = append(lines, line)
	}
	return lines
}

// describeEvent turns a faction event into a line of narration.
// Events with nothing to say return "".
func (g *Game) describeEvent(e types.Event) string {
	str := func(k string) string { s, _ := e.Data[k].(string); return s }
	switch e.Type {
	case "ambush":
		return fmt.Sprintf("Ambush! %s fighters close in from behind.", FactionName(str("faction")))
	case "roadblock_spawned":
		return fmt.Sprintf("%s have thrown up a roadblock on the road.", FactionName(str("faction")))
	case "roadblock_cleared":
		return "The roadblock has been taken down."
	case "roadblock_warning":
		return "A guard shouts: \"Turn back. You're not welcome here.\""
	case "roadblock_attack":
		return "The roadblock guards open fire!"
	case "poi_owner_changed":
		name := str("poi")
		if p, ok := g.poiDef(name); ok {
			name = p.Name
		}
		return fmt.Sprintf("%s is now held by the %s.", name, FactionName(str("to")))
	case "skirmish_resolved":
		name := str("poi")
		if p, ok := g.poiDef(name); ok {
			name = p.Name
		}
		return fmt.Sprintf("The fight at %s is over. The %s hold it.", name, FactionName(str("winner")))
	case "player_down":
		return "You collapse. Everything goes dark."
	}
	return ""
}

func (g *Game) poiDef(id string) (types.POIDef, bool) {
	for _, p := range g.Defs.POIs {
		if p.ID == id {
			return p, true
		}
	}
	return types.POIDef{}, false
}

func (g *Game) describeSurroundings() []string {
	pos := g.Player.Position
	lines := []string{fmt.Sprintf("You are at (%.0f, %.0f), %d/%d hp.", pos.X, pos.Z, g.Player.HP, g.Player.MaxHP)}
	if g.Faction.InSafeZone(pos) {
		lines = append(lines, "You are in a safe zone.")
	}

	var npcs []string
	for _, n := range g.Defs.NPCs {
		if dist(n.Position, pos) <= TalkRange {
			npcs = append(npcs, n.Name)
		}
	}
	sort.Strings(npcs)
	if len(npcs) > 0 {
		lines = append(lines, "Nearby: "+strings.Join(npcs, ", ")+".")
	}

	for _, l := range g.Defs.Locks {
		if dist(l.Position, pos) <= LockRange {
			state := "locked"
			if g.Quest.IsUnlocked(l.ID) {
				state = "unlocked"
			}
			lines = append(lines, fmt.Sprintf("%s (%s, %s).", l.Name, state, locks.Label(l.Level)))
		}
	}

	if p, ok := g.nearestPOI(pos); ok {
		lines = append(lines, fmt.Sprintf("Nearest landmark: %s, %.0fm away, held by the %s.",
			p.Name, dist(p.Position, pos), FactionName(g.Faction.Owner(p.ID))))
	}

	hostile := 0
	for _, u := range g.Faction.Units() {
		if dist(u.Position, pos) <= g.Faction.Tunables().SkirmishRadius && g.Faction.Hostile(u) {
			hostile++
		}
	}
	if hostile > 0 {
		lines = append(lines, fmt.Sprintf("%d hostile fighters nearby.", hostile))
	}
	return lines
}

func (g *Game) describeJournal() []string {
	var lines []string
	if top := g.Quest.TopObjective(); top != "" {
		lines = append(lines, "Current objective: "+top)
	}
	for _, o := range g.Quest.Objectives() {
		mark := " "
		switch o.Status {
		case quest.ObjectiveDone:
			mark = "x"
		case quest.ObjectiveFailed:
			mark = "-"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", mark, o.Text))
	}
	for _, e := range g.Quest.Log() {
		lines = append(lines, "  "+e.Text)
	}
	if len(lines) == 0 {
		lines = append(lines, "Your journal is empty.")
	}
	return lines
}

func (g *Game) describeStanding() []string {
	var lines []string
	for _, f := range quest.Factions {
		lines = append(lines, fmt.Sprintf("%-15s rep %4d  heat %3d  prices x%.1f",
			FactionName(f), g.Quest.Rep(f), g.Quest.Heat(f), g.Quest.VendorMultiplier(f)))
	}
	return lines
}

func (g *Game) describeInventory() []string {
	if len(g.Player.Inventory) == 0 {
		return []string{"You are carrying nothing."}
	}
	lines := []string{"You are carrying:"}
	for _, it := range g.Player.Inventory {
		lines = append(lines, fmt.Sprintf("  %s x%d", it.ID, it.Qty))
	}
	return lines
}
