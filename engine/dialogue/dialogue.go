// Package dialogue walks author-defined conversation trees. One session is
// active at a time; effects run through the effects package.
package dialogue

import (
	"go.uber.org/zap"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/conditions"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/effects"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// Outcome is the result of a Pick.
type Outcome struct {
	Node    *types.DialogueNode // next node, nil when none
	Ended   bool                // the session closed during this pick
	Refused bool                // bad index or failed requirement; nothing ran
	Events  []types.Event
	Output  []string
}

// ChoiceView is one rendered choice with its pass/fail display state.
type ChoiceView struct {
	Index   int
	Text    string
	Label   string
	Enabled bool
}

// View is the rendered current node handed to the UI.
type View struct {
	NPC     string
	Speaker string
	Text    string
	Choices []ChoiceView
}

// Engine holds the dialogue trees and the current session.
type Engine struct {
	trees   map[string]*types.DialogueTree
	log     *zap.Logger
	active  bool
	npcID   string
	tree    *types.DialogueTree
	current string
}

// New creates an engine over the given trees, keyed by NPC id.
func New(trees map[string]*types.DialogueTree, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if trees == nil {
		trees = map[string]*types.DialogueTree{}
	}
	return &Engine{trees: trees, log: logger}
}

// Active reports whether a session is open.
func (e *Engine) Active() bool { return e.active }

// NPC returns the id of the NPC being talked to, or "".
func (e *Engine) NPC() string { return e.npcID }

// Current returns the current node, or nil when idle.
func (e *Engine) Current() *types.DialogueNode {
	if !e.active {
		return nil
	}
	n, ok := e.tree.Nodes[e.current]
	if !ok {
		return nil
	}
	return &n
}

// Start opens a session with npcID. Returns nil and stays idle when the NPC
// has no tree or the tree has no usable entry node.
func (e *Engine) Start(npcID string, env conditions.Env) *types.DialogueNode {
	tree, ok := e.trees[npcID]
	if !ok || tree == nil {
		return nil
	}

	entry := tree.Start
	for _, rule := range tree.Starts {
		if conditions.All(rule.Conditions, env) {
			entry = rule.Node
			break
		}
	}
	if _, ok := tree.Nodes[entry]; !ok {
		if entry != tree.Start {
			e.log.Warn("dynamic start names missing node, using default",
				zap.String("npc", npcID), zap.String("node", entry))
		}
		entry = tree.Start
	}
	if _, ok := tree.Nodes[entry]; !ok {
		e.log.Error("dialogue tree has no start node", zap.String("npc", npcID), zap.String("start", tree.Start))
		return nil
	}

	e.active = true
	e.npcID = npcID
	e.tree = tree
	e.current = entry
	e.log.Debug("dialogue started", zap.String("npc", npcID), zap.String("node", entry))
	return e.Current()
}

// Pick selects choice index on the current node. A bad index or a choice
// whose requirements fail is refused without touching state. Otherwise the
// node effects run, then the choice effects, then the session advances or ends.
func (e *Engine) Pick(index int, env conditions.Env) Outcome {
	node := e.Current()
	if node == nil {
		return Outcome{Refused: true}
	}
	if index < 0 || index >= len(node.Choices) {
		return Outcome{Refused: true}
	}
	choice := node.Choices[index]
	if !conditions.All(choice.Requires, env) {
		return Outcome{Refused: true}
	}

	var out Outcome
	evts, text := effects.Apply(env, node.Effects)
	out.Events = append(out.Events, evts...)
	out.Output = append(out.Output, text...)
	evts, text = effects.Apply(env, choice.Effects)
	out.Events = append(out.Events, evts...)
	out.Output = append(out.Output, text...)

	if choice.Next == "" {
		e.End()
		out.Ended = true
		return out
	}
	if _, ok := e.tree.Nodes[choice.Next]; !ok {
		e.log.Warn("choice points at missing node, ending conversation",
			zap.String("npc", e.npcID), zap.String("from", node.ID), zap.String("next", choice.Next))
		e.End()
		out.Ended = true
		return out
	}

	e.current = choice.Next
	out.Node = e.Current()
	return out
}

// End closes the session. State mutated so far is kept.
func (e *Engine) End() {
	e.active = false
	e.npcID = ""
	e.tree = nil
	e.current = ""
}

// View renders the current node for display. Choices whose requirements
// fail are still listed, disabled.
func (e *Engine) View(env conditions.Env) (View, bool) {
	node := e.Current()
	if node == nil {
		return View{}, false
	}
	v := View{
		NPC:     e.npcID,
		Speaker: effects.Interpolate(node.Speaker, env),
		Text:    effects.Interpolate(node.Text, env),
	}
	for i, c := range node.Choices {
		v.Choices = append(v.Choices, ChoiceView{
			Index:   i,
			Text:    effects.Interpolate(c.Text, env),
			Label:   c.ConditionLabel,
			Enabled: conditions.All(c.Requires, env),
		})
	}
	return v, true
}
