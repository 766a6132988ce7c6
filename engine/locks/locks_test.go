package locks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannifaze-code/wasteland-japan-sub000/engine/quest"
)

func TestAttempt_QuickHandsAttributedFirst(t *testing.T) {
	q := quest.New()
	res := Attempt(map[string]int{"quick_hands": 3, "scavenger": 3}, q, "armory", 2)
	require.True(t, res.Success)
	assert.False(t, res.Forced)
	assert.Contains(t, res.Message, "Quick Hands")
	assert.True(t, q.IsUnlocked("armory"))
}

func TestAttempt_ScavengerMeetsThreshold(t *testing.T) {
	q := quest.New()
	res := Attempt(map[string]int{"quick_hands": 1, "scavenger": 3}, q, "crate", 3)
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "Scavenger")
}

func TestAttempt_ForcedWithToughness(t *testing.T) {
	q := quest.New()
	res := Attempt(map[string]int{"toughness": 4}, q, "gate", 3)
	require.True(t, res.Success)
	assert.True(t, res.Forced)
	assert.True(t, q.IsUnlocked("gate"))
}

func TestAttempt_FailureMutatesNothing(t *testing.T) {
	q := quest.New()
	res := Attempt(map[string]int{"quick_hands": 1, "toughness": 3}, q, "vault_door", 3)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Hard")
	assert.False(t, q.HasFlag(quest.UnlockedKey("vault_door")))
}

func TestAttempt_Idempotent(t *testing.T) {
	q := quest.New()
	require.True(t, Attempt(map[string]int{"quick_hands": 4}, q, "locker", 4).Success)

	for _, skills := range []map[string]int{nil, {"quick_hands": 0}, {"toughness": 10}} {
		res := Attempt(skills, q, "locker", 4)
		assert.True(t, res.Success)
		assert.True(t, res.AlreadyUnlocked)
	}
}

func TestLabel(t *testing.T) {
	tests := map[int]string{0: "Lv0", 1: "Easy", 2: "Average", 3: "Hard", 4: "Master", 5: "Lv5", -1: "Lv-1"}
	for level, want := range tests {
		assert.Equal(t, want, Label(level), "level %d", level)
	}
}
