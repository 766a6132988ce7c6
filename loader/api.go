package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerDialogueHelpers(L)
	registerHelpers(L, conditionHelpers)
	registerHelpers(L, effectHelpers)
	registerBranching(L)
}

// curried registers a `Name "id" { ... }` constructor.
func curried(L *lua.LState, name string, sink func(id string, tbl *lua.LTable)) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			sink(id, L.CheckTable(1))
			return 0
		}))
		return 1
	}))
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", start = { x = 0, z = 0 }, skills = { ... } }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	curried(L, "NPC", func(id string, tbl *lua.LTable) {
		coll.npcs = append(coll.npcs, rawDef{id: id, table: tbl, order: coll.nextSourceOrder()})
	})
	curried(L, "POI", func(id string, tbl *lua.LTable) {
		coll.pois = append(coll.pois, rawDef{id: id, table: tbl, order: coll.nextSourceOrder()})
	})
	curried(L, "SafeZone", func(id string, tbl *lua.LTable) {
		coll.safeZones = append(coll.safeZones, rawDef{id: id, table: tbl, order: coll.nextSourceOrder()})
	})
	curried(L, "Lock", func(id string, tbl *lua.LTable) {
		coll.locks = append(coll.locks, rawDef{id: id, table: tbl, order: coll.nextSourceOrder()})
	})
	curried(L, "Trigger", func(id string, tbl *lua.LTable) {
		coll.triggers = append(coll.triggers, rawDef{id: id, table: tbl, order: coll.nextSourceOrder()})
	})

	// On("event_type", { conditions = {...}, effects = {...} })
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		eventType := L.CheckString(1)
		tbl := L.CheckTable(2)
		coll.handlers = append(coll.handlers, rawHandler{eventType: eventType, table: tbl})
		return 0
	}))
}

func registerDialogueHelpers(L *lua.LState) {
	// Dialogue { start = "...", starts = {...}, nodes = {...} } and
	// Choice { text = "...", next = "..." } are pass-through.
	for _, name := range []string{"Dialogue", "Choice"} {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			L.Push(L.CheckTable(1))
			return 1
		}))
	}

	// Node "id" { ... } returns the node table tagged with its id.
	L.SetGlobal("Node", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("id", lua.LString(id))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// Start("node", { conditions... })
	L.SetGlobal("Start", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("node", lua.LString(L.CheckString(1)))
		if conds, ok := L.Get(2).(*lua.LTable); ok {
			tbl.RawSetString("conditions", conds)
		}
		L.Push(tbl)
		return 1
	}))
}

// argKind describes how a positional helper argument is read.
type argKind int

const (
	argString argKind = iota
	argNumber
	argAny      // optional, any value
	argOptional // optional number
)

type helperArg struct {
	field string
	kind  argKind
}

// helperSpec maps a Lua helper like ChangeRep("rail", -5) to a typed table
// { type = "change_rep", faction = "rail", delta = -5 }.
type helperSpec struct {
	name string
	typ  string
	args []helperArg
}

func str(field string) helperArg    { return helperArg{field, argString} }
func num(field string) helperArg    { return helperArg{field, argNumber} }
func val(field string) helperArg    { return helperArg{field, argAny} }
func optNum(field string) helperArg { return helperArg{field, argOptional} }

var conditionHelpers = []helperSpec{
	{"FlagSet", "flag_set", []helperArg{str("flag")}},
	{"FlagNot", "flag_not", []helperArg{str("flag")}},
	{"FlagIs", "flag_is", []helperArg{str("flag"), val("value")}},
	{"FlagAtLeast", "flag_at_least", []helperArg{str("flag"), num("value")}},
	{"StageAtLeast", "stage_at_least", []helperArg{str("quest"), num("value")}},
	{"StageBelow", "stage_below", []helperArg{str("quest"), num("value")}},
	{"StageIs", "stage_is", []helperArg{str("quest"), num("value")}},
	{"ObjectiveActive", "objective_active", []helperArg{str("text")}},
	{"RepAtLeast", "rep_at_least", []helperArg{str("faction"), num("value")}},
	{"RepAtMost", "rep_at_most", []helperArg{str("faction"), num("value")}},
	{"HeatAtLeast", "heat_at_least", []helperArg{str("faction"), num("value")}},
	{"SkillAtLeast", "skill_at_least", []helperArg{str("skill"), num("value")}},
	{"HasItem", "has_item", []helperArg{str("item"), optNum("qty")}},
}

var effectHelpers = []helperSpec{
	{"Toast", "toast", []helperArg{str("text")}},
	{"SetFlag", "set_flag", []helperArg{str("flag"), val("value")}},
	{"IncFlag", "inc_flag", []helperArg{str("flag"), optNum("amount")}},
	{"SetStage", "set_stage", []helperArg{str("quest"), num("value")}},
	{"AdvanceStage", "advance_stage", []helperArg{str("quest"), num("value")}},
	{"AddObjective", "add_objective", []helperArg{str("text")}},
	{"CompleteObjective", "complete_objective", []helperArg{str("text")}},
	{"FailObjective", "fail_objective", []helperArg{str("text")}},
	{"AddLog", "add_log", []helperArg{str("text")}},
	{"ChangeRep", "change_rep", []helperArg{str("faction"), num("delta")}},
	{"ChangeHeat", "change_heat", []helperArg{str("faction"), num("delta")}},
	{"GiveItem", "give_item", []helperArg{str("item"), optNum("qty")}},
	{"RemoveItem", "remove_item", []helperArg{str("item"), optNum("qty")}},
	{"GiveSkillPoints", "give_skill_points", []helperArg{num("amount")}},
	{"SetPOIOwner", "set_poi_owner", []helperArg{str("poi"), str("faction")}},
	{"EmitEvent", "emit_event", []helperArg{str("event")}},
}

func registerHelpers(L *lua.LState, specs []helperSpec) {
	for _, spec := range specs {
		L.SetGlobal(spec.name, L.NewFunction(func(L *lua.LState) int {
			tbl := L.NewTable()
			tbl.RawSetString("type", lua.LString(spec.typ))
			for i, a := range spec.args {
				pos := i + 1
				switch a.kind {
				case argString:
					tbl.RawSetString(a.field, lua.LString(L.CheckString(pos)))
				case argNumber:
					tbl.RawSetString(a.field, L.CheckNumber(pos))
				case argAny:
					if v := L.Get(pos); v != lua.LNil {
						tbl.RawSetString(a.field, v)
					}
				case argOptional:
					if v := L.OptNumber(pos, 0); v != 0 {
						tbl.RawSetString(a.field, v)
					}
				}
			}
			L.Push(tbl)
			return 1
		}))
	}
}

func registerBranching(L *lua.LState) {
	// Not(condition)
	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("not"))
		tbl.RawSetString("inner", L.CheckTable(1))
		L.Push(tbl)
		return 1
	}))

	// If({ conditions... }, { then effects... }, { else effects... })
	L.SetGlobal("If", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("if"))
		tbl.RawSetString("conditions", L.CheckTable(1))
		tbl.RawSetString("then", L.CheckTable(2))
		if els, ok := L.Get(3).(*lua.LTable); ok {
			tbl.RawSetString("else", els)
		}
		L.Push(tbl)
		return 1
	}))
}
