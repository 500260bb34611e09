package progress

import (
	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/models"
)

// Keys are the five storage keys scoped to one goal identity.
type Keys struct {
	Identity string
	Learned  string
	Freezed  string
	Streak   string
	Used     string
	Last     string
}

// KeysFor builds the keys for a topic/duration pair. Topics that differ only
// by case or surrounding whitespace resolve to the same keys.
func KeysFor(topic string, duration models.Duration) Keys {
	return keysForIdentity(models.Identity(topic, duration))
}

// KeysForGoal builds the keys for g's identity.
func KeysForGoal(g models.Goal) Keys {
	return keysForIdentity(g.Identity())
}

func keysForIdentity(id string) Keys {
	return Keys{
		Identity: id,
		Learned:  constants.PrefixLearnedDates + id,
		Freezed:  constants.PrefixFreezedDates + id,
		Streak:   constants.PrefixStreakDays + id,
		Used:     constants.PrefixFreezesUsed + id,
		Last:     constants.PrefixLastLogged + id,
	}
}

// All returns every key in a stable order.
func (k Keys) All() []string {
	return []string{k.Learned, k.Freezed, k.Streak, k.Used, k.Last}
}
