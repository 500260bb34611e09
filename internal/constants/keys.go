package constants

// Singleton keys in the key/value store.
const (
	KeyCurrentGoal   = "currentLearningGoal"
	KeyFinishedGoals = "finishedLearningGoals"
)

// Per-goal key prefixes. The full key is prefix + normalized goal identity.
const (
	PrefixLearnedDates = "learnedDates_"
	PrefixFreezedDates = "freezedDates_"
	PrefixStreakDays   = "streakDays_"
	PrefixFreezesUsed  = "freezesUsed_"
	PrefixLastLogged   = "lastLoggedDate_"
)
