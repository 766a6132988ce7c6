package quest

// Flag keys shared between writers and readers. Content may use any other
// string, but these prefixes carry meaning for the core.
const (
	unlockedPrefix = "unlocked:"
	poiOwnerPrefix = "poiOwner:"
	triggerPrefix  = "trigger:"

	// FlagPlayerDown is set when the player's hp reaches zero.
	FlagPlayerDown = "player_down"
	// FlagRoadblockWarned is set while the roadblock warning has been given
	// and the player has not yet left the warn radius.
	FlagRoadblockWarned = "roadblock_warned"
)

// UnlockedKey is the one-time unlock token for a lock.
func UnlockedKey(lockID string) string { return unlockedPrefix + lockID }

// POIOwnerKey stores the current owner of a point of interest.
func POIOwnerKey(poiID string) string { return poiOwnerPrefix + poiID }

// TriggerKey marks a once-only world trigger as fired.
func TriggerKey(triggerID string) string { return triggerPrefix + triggerID }

// IsUnlocked reports whether a lock has been opened before.
func (s *State) IsUnlocked(lockID string) bool {
	return s.BoolFlag(UnlockedKey(lockID))
}

// POIOwner returns the stored owner of a POI, or def when never written.
func (s *State) POIOwner(poiID, def string) string {
	return s.StringFlag(POIOwnerKey(poiID), def)
}
