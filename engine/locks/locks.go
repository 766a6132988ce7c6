// Package locks resolves lockpick attempts against player skills.
// Successful opens persist as unlocked:<id> flags so repeat attempts are free.
package locks

import (
	"fmt"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/player"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
)

// Result describes the outcome of one lockpick attempt.
type Result struct {
	Success         bool
	Message         string
	AlreadyUnlocked bool
	Forced          bool
}

var levelLabels = []string{"", "Easy", "Average", "Hard", "Master"}

// Label returns the display label for a lock level.
func Label(level int) string {
	if level >= 1 && level < len(levelLabels) {
		return levelLabels[level]
	}
	return fmt.Sprintf("Lv%d", level)
}

// Attempt tries to open lockID at the given level.
// Skills are read from the skills map; the quest state records the unlock.
func Attempt(skills map[string]int, q *quest.State, lockID string, level int) Result {
	key := quest.UnlockedKey(lockID)
	if q.BoolFlag(key) {
		return Result{Success: true, AlreadyUnlocked: true, Message: "Already unlocked."}
	}

	quick := skills[player.SkillQuickHands]
	scav := skills[player.SkillScavenger]
	if max(quick, scav) >= level {
		q.SetFlag(key, true)
		name := "Scavenger"
		if quick >= level {
			name = "Quick Hands"
		}
		return Result{Success: true, Message: fmt.Sprintf("Unlocked (%s %d).", name, level)}
	}

	if skills[player.SkillToughness] >= level+1 {
		q.SetFlag(key, true)
		return Result{Success: true, Forced: true, Message: fmt.Sprintf("Forced it open (Toughness %d).", level+1)}
	}

	return Result{Message: fmt.Sprintf("Too difficult (%s). Needs Quick Hands or Scavenger %d.", Label(level), level)}
}
