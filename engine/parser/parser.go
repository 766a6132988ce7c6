// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"

	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

var directionExpansions = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"ne": "northeast",
	"nw": "northwest",
	"se": "southeast",
	"sw": "southwest",
}

// Full direction names that are standalone shortcuts for "walk <dir>".
var directionNames = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
}

var verbAliases = map[string]string{
	// Look
	"l":       "look",
	"scan":    "look",
	"survey":  "look",
	"observe": "look",

	// Movement
	"move":   "walk",
	"run":    "walk",
	"head":   "walk",
	"travel": "go",
	"goto":   "go",

	// Combat
	"hit":    "attack",
	"fight":  "attack",
	"strike": "attack",
	"shoot":  "attack",
	"kill":   "attack",

	// Items
	"inject":  "use",
	"consume": "use",

	// Dialogue
	"ask":    "talk",
	"speak":  "talk",
	"chat":   "talk",
	"select": "choose",
	"answer": "choose",
	"reply":  "choose",
	"bye":    "leave",
	"end":    "leave",
	"exit":   "leave",

	// Locks
	"lockpick": "pick",
	"unlock":   "pick",
	"force":    "pick",

	// Info
	"j":          "journal",
	"log":        "journal",
	"quests":     "journal",
	"objectives": "journal",
	"reputation": "rep",
	"standing":   "rep",
	"factions":   "rep",
	"inv":        "inventory",
	"i":          "inventory",

	// Time
	"z":    "wait",
	"rest": "wait",
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Bare number picks a dialogue choice.
	if len(words) == 1 {
		if _, err := strconv.Atoi(words[0]); err == nil {
			return types.Intent{Verb: "choose", Object: words[0]}
		}
	}

	// Direction shortcut: "n", "south 10" → walk <direction> [dist]
	if dir, ok := direction(words[0]); ok {
		return types.Intent{Verb: "walk", Object: dir, Args: words[1:]}
	}

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])

	switch verb {
	case "go":
		// go <x> <z> takes coordinates; go <dir> is a walk.
		if len(rest) > 0 {
			if dir, ok := direction(rest[0]); ok {
				return types.Intent{Verb: "walk", Object: dir, Args: rest[1:]}
			}
		}
		return types.Intent{Verb: "go", Args: rest}
	case "walk":
		if len(rest) == 0 {
			return types.Intent{Verb: "walk"}
		}
		dir, _ := direction(rest[0])
		if dir == "" {
			dir = rest[0]
		}
		return types.Intent{Verb: "walk", Object: dir, Args: rest[1:]}
	case "wait":
		return types.Intent{Verb: "wait", Args: rest}
	}

	return types.Intent{
		Verb:   verb,
		Object: strings.Join(rest, " "),
	}
}

func direction(word string) (string, bool) {
	if dir, ok := directionExpansions[word]; ok {
		return dir, true
	}
	if directionNames[word] {
		return word, true
	}
	return "", false
}

// expandMultiWordVerbs handles "talk to", "pick lock", "look around" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "look":
		if words[1] == "around" {
			return append([]string{"look"}, words[2:]...)
		}
	case "pick":
		if words[1] == "lock" {
			return append([]string{"pick"}, words[2:]...)
		}
		if len(words) > 2 && words[1] == "the" && words[2] == "lock" {
			return append([]string{"pick"}, words[3:]...)
		}
	case "talk", "speak", "chat":
		if words[1] == "to" || words[1] == "with" {
			return append([]string{"talk"}, words[2:]...)
		}
	case "walk", "go", "head":
		if words[1] == "to" {
			return append([]string{"go"}, words[2:]...)
		}
	case "say", "choose":
		if _, err := strconv.Atoi(words[1]); err == nil {
			return []string{"choose", words[1]}
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}
