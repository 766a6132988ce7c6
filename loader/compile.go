package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// rawDef holds a `Kind "id" { ... }` table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
	order int
}

// rawHandler holds an event handler before compilation.
type rawHandler struct {
	eventType string
	table     *lua.LTable
}

func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

func getNumber(tbl *lua.LTable, key string) float64 {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// getVec reads a position from either flat x/z fields or a nested table.
func getVec(tbl *lua.LTable, key string) types.Vec2 {
	if sub := getTable(tbl, key); sub != nil {
		return types.Vec2{X: getNumber(sub, "x"), Z: getNumber(sub, "z")}
	}
	return types.Vec2{X: getNumber(tbl, "x"), Z: getNumber(tbl, "z")}
}

// toGoValue converts a Lua value to a Go value recursively. Whole numbers
// become int.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// compile converts all collected Lua data into Defs.
func compile(coll *collector) (*types.Defs, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs := &types.Defs{
		Game:  compileGame(coll.game),
		NPCs:  map[string]types.NPCDef{},
		Locks: map[string]types.LockDef{},
	}

	for _, raw := range coll.npcs {
		if _, dup := defs.NPCs[raw.id]; dup {
			return nil, fmt.Errorf("duplicate NPC %q", raw.id)
		}
		defs.NPCs[raw.id] = compileNPC(raw)
	}
	for _, raw := range coll.pois {
		defs.POIs = append(defs.POIs, types.POIDef{
			ID:          raw.id,
			Name:        nameOr(raw),
			Position:    getVec(raw.table, "position"),
			Owner:       getString(raw.table, "owner"),
			ContestedBy: getString(raw.table, "contested_by"),
			Roadblock:   getBool(raw.table, "roadblock", false),
		})
	}
	for _, raw := range coll.safeZones {
		defs.SafeZones = append(defs.SafeZones, types.SafeZone{
			ID:       raw.id,
			Position: getVec(raw.table, "position"),
			Radius:   getNumber(raw.table, "radius"),
		})
	}
	for _, raw := range coll.locks {
		if _, dup := defs.Locks[raw.id]; dup {
			return nil, fmt.Errorf("duplicate lock %q", raw.id)
		}
		defs.Locks[raw.id] = types.LockDef{
			ID:       raw.id,
			Name:     nameOr(raw),
			Level:    getInt(raw.table, "level"),
			Position: getVec(raw.table, "position"),
		}
	}
	for _, raw := range coll.triggers {
		defs.Triggers = append(defs.Triggers, compileTrigger(raw))
	}
	for _, raw := range coll.handlers {
		defs.Handlers = append(defs.Handlers, types.EventHandler{
			EventType:  raw.eventType,
			Conditions: compileConditions(getTable(raw.table, "conditions")),
			Effects:    compileEffects(getTable(raw.table, "effects")),
		})
	}
	return defs, nil
}

func nameOr(raw rawDef) string {
	if name := getString(raw.table, "name"); name != "" {
		return name
	}
	return raw.id
}

func compileGame(tbl *lua.LTable) types.GameDef {
	g := types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
		Start:   getVec(tbl, "start"),
		Skills:  map[string]int{},
	}
	if skills := getTable(tbl, "skills"); skills != nil {
		skills.ForEach(func(k, v lua.LValue) {
			ks, ok := k.(lua.LString)
			nv, ok2 := v.(lua.LNumber)
			if ok && ok2 {
				g.Skills[string(ks)] = int(nv)
			}
		})
	}
	return g
}

func compileNPC(raw rawDef) types.NPCDef {
	npc := types.NPCDef{
		ID:       raw.id,
		Name:     nameOr(raw),
		Faction:  getString(raw.table, "faction"),
		Position: getVec(raw.table, "position"),
	}
	if d := getTable(raw.table, "dialogue"); d != nil {
		npc.Dialogue = compileDialogue(raw.id, d)
	}
	return npc
}

func compileDialogue(id string, tbl *lua.LTable) *types.DialogueTree {
	tree := &types.DialogueTree{
		ID:    id,
		Start: getString(tbl, "start"),
		Nodes: map[string]types.DialogueNode{},
	}
	if starts := getTable(tbl, "starts"); starts != nil {
		forEachTable(starts, func(st *lua.LTable) {
			tree.Starts = append(tree.Starts, types.StartRule{
				Node:       getString(st, "node"),
				Conditions: compileConditions(getTable(st, "conditions")),
			})
		})
	}
	if nodes := getTable(tbl, "nodes"); nodes != nil {
		forEachTable(nodes, func(nt *lua.LTable) {
			node := compileNode(nt)
			tree.Nodes[node.ID] = node
		})
	}
	// First node wins when no start is named.
	if tree.Start == "" {
		if nodes := getTable(tbl, "nodes"); nodes != nil {
			if first, ok := nodes.RawGetInt(1).(*lua.LTable); ok {
				tree.Start = getString(first, "id")
			}
		}
	}
	return tree
}

func compileNode(tbl *lua.LTable) types.DialogueNode {
	node := types.DialogueNode{
		ID:      getString(tbl, "id"),
		Speaker: getString(tbl, "speaker"),
		Text:    getString(tbl, "text"),
		Effects: compileEffects(getTable(tbl, "effects")),
	}
	if choices := getTable(tbl, "choices"); choices != nil {
		forEachTable(choices, func(ct *lua.LTable) {
			node.Choices = append(node.Choices, types.Choice{
				Text:           getString(ct, "text"),
				Next:           getString(ct, "next"),
				Requires:       compileConditions(getTable(ct, "requires")),
				ConditionLabel: getString(ct, "label"),
				Effects:        compileEffects(getTable(ct, "effects")),
			})
		})
	}
	return node
}

func compileTrigger(raw rawDef) types.TriggerDef {
	return types.TriggerDef{
		ID:          raw.id,
		Position:    getVec(raw.table, "position"),
		Radius:      getNumber(raw.table, "radius"),
		Once:        getBool(raw.table, "once", false),
		Priority:    getInt(raw.table, "priority"),
		SourceOrder: raw.order,
		Conditions:  compileConditions(getTable(raw.table, "conditions")),
		Effects:     compileEffects(getTable(raw.table, "effects")),
	}
}

// forEachTable visits array elements that are tables, in order.
func forEachTable(tbl *lua.LTable, fn func(*lua.LTable)) {
	for i := 1; i <= tbl.MaxN(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			fn(t)
		}
	}
}

func compileConditions(tbl *lua.LTable) []types.Condition {
	if tbl == nil {
		return nil
	}
	var conds []types.Condition
	forEachTable(tbl, func(ct *lua.LTable) {
		conds = append(conds, compileCondition(ct))
	})
	return conds
}

func compileCondition(tbl *lua.LTable) types.Condition {
	condType := getString(tbl, "type")
	if condType == "not" {
		if innerTbl := getTable(tbl, "inner"); innerTbl != nil {
			inner := compileCondition(innerTbl)
			return types.Condition{Type: "not", Inner: &inner}
		}
	}
	return types.Condition{Type: condType, Params: params(tbl)}
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	if tbl == nil {
		return nil
	}
	var effs []types.Effect
	forEachTable(tbl, func(et *lua.LTable) {
		effs = append(effs, compileEffect(et))
	})
	return effs
}

func compileEffect(tbl *lua.LTable) types.Effect {
	effType := getString(tbl, "type")
	if effType == "if" {
		p := map[string]any{
			"conditions": compileConditions(getTable(tbl, "conditions")),
			"then":       compileEffects(getTable(tbl, "then")),
		}
		if els := getTable(tbl, "else"); els != nil {
			p["else"] = compileEffects(els)
		}
		return types.Effect{Type: effType, Params: p}
	}
	return types.Effect{Type: effType, Params: params(tbl)}
}

// params copies every string-keyed field except type.
func params(tbl *lua.LTable) map[string]any {
	p := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && ks != "type" {
			p[string(ks)] = toGoValue(v)
		}
	})
	return p
}
