package back

import (
	"log"
	"sort"
	"time"

	"tidemark/internal/util"

	"github.com/jmoiron/sqlx"
)

// A Relationship aggregates how a pair of players fared together and
// against each other. Wins are counted from PlayerA's point of view:
// TeammateWins are games both won on the same side, OpponentWins are games
// PlayerA won while facing PlayerB.
type Relationship struct {
	PlayerA util.UUIDAsBlob
	PlayerB util.UUIDAsBlob

	TeammateGames int
	TeammateWins  int
	OpponentGames int
	OpponentWins  int
}

type relationshipKey struct {
	a, b util.UUIDAsBlob
}

// PlayerRelationships aggregates the relationship network over the match
// log, optionally restricted to the given players and date window. A pair
// is reported when either its teammate or its opponent sample reaches
// minGames.
func (b *Back) PlayerRelationships(
	playerIDs []util.UUIDAsBlob,
	minGames int,
	from, to *time.Time,
) ([]Relationship, error) {
	start := time.Now()
	defer func() { log.Printf("info: computed player relationships in %s", time.Since(start)) }()

	var matches []Match
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		matches, err = getAllMatchesOrdered(tx)
		return err
	}); err != nil {
		return nil, err
	}

	return computeRelationships(filterMatchesByDate(matches, from, to), playerIDs, minGames), nil
}

func computeRelationships(matches []Match, playerIDs []util.UUIDAsBlob, minGames int) []Relationship {
	var only map[util.UUIDAsBlob]struct{}
	if len(playerIDs) > 0 {
		only = make(map[util.UUIDAsBlob]struct{}, len(playerIDs))
		for _, id := range playerIDs {
			only[id] = struct{}{}
		}
	}

	wanted := func(id util.UUIDAsBlob) bool {
		if only == nil {
			return true
		}
		_, ok := only[id]
		return ok
	}

	accs := make(map[relationshipKey]*Relationship)
	get := func(a, b util.UUIDAsBlob) (*Relationship, bool) {
		// Normalize the pair so (a,b) and (b,a) share an accumulator,
		// swapped tells the caller whether "wins for a" must be read as
		// PlayerB's wins.
		swapped := a.String() > b.String()
		if swapped {
			a, b = b, a
		}

		key := relationshipKey{a: a, b: b}
		rel, ok := accs[key]
		if !ok {
			rel = &Relationship{PlayerA: a, PlayerB: b}
			accs[key] = rel
		}

		return rel, swapped
	}

	for _, m := range matches {
		if !replayable(m) {
			continue
		}

		for i, p := range m.Participations {
			if !wanted(p.PlayerID) {
				continue
			}

			for j, other := range m.Participations {
				if i >= j && wanted(other.PlayerID) {
					continue // pair already visited from the other end
				}
				if p.PlayerID == other.PlayerID {
					continue
				}

				rel, swapped := get(p.PlayerID, other.PlayerID)
				aWon := p.Won(m)
				if swapped {
					aWon = other.Won(m)
				}

				if p.Side == other.Side {
					rel.TeammateGames++
					if aWon {
						rel.TeammateWins++
					}
				} else {
					rel.OpponentGames++
					if aWon {
						rel.OpponentWins++
					}
				}
			}
		}
	}

	ret := make([]Relationship, 0, len(accs))
	for _, rel := range accs {
		if rel.TeammateGames < minGames && rel.OpponentGames < minGames {
			continue
		}

		ret = append(ret, *rel)
	}

	sort.Slice(ret, func(i, j int) bool {
		if ret[i].PlayerA != ret[j].PlayerA {
			return ret[i].PlayerA.String() < ret[j].PlayerA.String()
		}
		return ret[i].PlayerB.String() < ret[j].PlayerB.String()
	})

	return ret
}
