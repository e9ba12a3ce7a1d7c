package back

import (
	"tidemark/internal/rating"
	"tidemark/internal/util"

	"github.com/jmoiron/sqlx"
)

// WinProbability estimates the outcome of a blue vs red matchup from the
// current beliefs. The rosters don't have to come from history, hypothetical
// matchups are fine, and unknown players count as default beliefs. The two
// rosters must be disjoint and non-empty.
func (b *Back) WinProbability(blue, red []util.UUIDAsBlob) (rating.Probability, error) {
	if len(blue) == 0 || len(red) == 0 {
		return rating.Probability{}, util.ErrPublic("both sides need at least one player")
	}

	seen := make(map[util.UUIDAsBlob]struct{}, len(blue)+len(red))
	for _, id := range append(append([]util.UUIDAsBlob{}, blue...), red...) {
		if _, ok := seen[id]; ok {
			return rating.Probability{}, util.ErrPublic("a player cannot be on both sides")
		}
		seen[id] = struct{}{}
	}

	var blueBeliefs, redBeliefs []rating.Belief

	if err := b.transaction(func(tx *sqlx.Tx) error {
		var err error
		if blueBeliefs, err = getBeliefs(tx, blue); err != nil {
			return err
		}

		redBeliefs, err = getBeliefs(tx, red)

		return err
	}); err != nil {
		return rating.Probability{}, err
	}

	return rating.WinProbability(blueBeliefs, redBeliefs), nil
}

func getBeliefs(tx *sqlx.Tx, ids []util.UUIDAsBlob) ([]rating.Belief, error) {
	ret := make([]rating.Belief, len(ids))
	for k, id := range ids {
		playerRating, err := getPlayerRating(tx, id)
		if err != nil {
			return nil, err
		}

		ret[k] = playerRating.Belief()
	}

	return ret, nil
}
