// Package events implements single-pass event handler dispatch.
// Event handlers produce additional effects but do not recurse.
package events

import (
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/conditions"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// Dispatch runs event handlers against the emitted events. Single pass,
// no recursion. Returns additional effects produced by matching handlers,
// in event order then handler declaration order.
func Dispatch(events []types.Event, handlers []types.EventHandler, env conditions.Env) []types.Effect {
	var result []types.Effect

	for _, event := range events {
		for _, handler := range handlers {
			if handler.EventType != event.Type {
				continue
			}
			if !conditions.All(handler.Conditions, env) {
				continue
			}
			result = append(result, handler.Effects...)
		}
	}

	return result
}
