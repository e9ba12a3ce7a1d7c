package back

import (
	"log"
	"sort"
	"time"

	"tidemark/internal/rating"
	"tidemark/internal/util"

	"github.com/jmoiron/sqlx"
)

// A Snapshot is the full belief state right after one match of the log was
// replayed. Snapshot 0 is the state before any match: default beliefs, no
// participants.
type Snapshot struct {
	Index    int
	MatchID  util.UUIDAsBlob // zero for snapshot 0
	PlayedAt util.TimeAsTimestamp

	Beliefs      map[util.UUIDAsBlob]rating.Belief
	Participants []util.UUIDAsBlob
}

// replayable returns false for matches that must be skipped during replay
// because a side has no roster. Skipping is logged, never fatal: the rest of
// the log still replays.
func replayable(m Match) bool {
	return len(m.SideRoster(SideBlue)) > 0 && len(m.SideRoster(SideRed)) > 0
}

// ReplayRatings recomputes every belief by replaying the given match log in
// order, starting every player at the default belief.
//
// The matches slice must already be in replay order and carry its
// participations, the way getAllMatchesOrdered returns it. Players that
// only appear mid-log are defaulted on first appearance. The function is
// pure: same log in, same beliefs out, and reordering the log changes every
// belief computed after the swap.
func ReplayRatings(
	matches []Match,
	playerIDs []util.UUIDAsBlob,
) (map[util.UUIDAsBlob]rating.Belief, []Snapshot) {
	beliefs := make(map[util.UUIDAsBlob]rating.Belief, len(playerIDs))
	for _, id := range playerIDs {
		beliefs[id] = rating.NewDefaultBelief()
	}

	snapshots := make([]Snapshot, 0, len(matches)+1)
	snapshots = append(snapshots, Snapshot{
		Index:        0,
		Beliefs:      copyBeliefs(beliefs),
		Participants: []util.UUIDAsBlob{},
	})

	for k, m := range matches {
		if !replayable(m) {
			log.Printf("warning: skipping match %s during replay: empty side", m.ID)
			continue
		}

		winners := m.SideRoster(m.WinningSide)
		losers := m.SideRoster(m.WinningSide.Opponent())

		get := func(id util.UUIDAsBlob) rating.Belief {
			if b, ok := beliefs[id]; ok {
				return b
			}
			return rating.NewDefaultBelief()
		}

		winnerBeliefs := make([]rating.Belief, len(winners))
		for i, p := range winners {
			winnerBeliefs[i] = get(p.PlayerID)
		}
		loserBeliefs := make([]rating.Belief, len(losers))
		for i, p := range losers {
			loserBeliefs[i] = get(p.PlayerID)
		}

		winnerBeliefs, loserBeliefs = rating.Update(winnerBeliefs, loserBeliefs)

		for i, p := range winners {
			beliefs[p.PlayerID] = winnerBeliefs[i]
		}
		for i, p := range losers {
			beliefs[p.PlayerID] = loserBeliefs[i]
		}

		participants := make([]util.UUIDAsBlob, 0, len(m.Participations))
		for _, p := range m.Participations {
			participants = append(participants, p.PlayerID)
		}

		snapshots = append(snapshots, Snapshot{
			Index:        k + 1,
			MatchID:      m.ID,
			PlayedAt:     m.PlayedAt,
			Beliefs:      copyBeliefs(beliefs),
			Participants: participants,
		})
	}

	return beliefs, snapshots
}

func copyBeliefs(src map[util.UUIDAsBlob]rating.Belief) map[util.UUIDAsBlob]rating.Belief {
	dst := make(map[util.UUIDAsBlob]rating.Belief, len(src))
	for k, v := range src {
		dst[k] = v
	}

	return dst
}

// Rerate replays the whole match log and rewrites the PlayerRating cache
// rows and the per-player cumulative counters. It runs after every mutation
// of the log, there is no incremental path: an edit can change every belief
// computed after it.
func (b *Back) Rerate() error {
	start := time.Now()
	defer func() { log.Printf("info: recomputed ratings in %s", time.Since(start)) }()

	return b.transaction(func(tx *sqlx.Tx) error {
		players, err := getAllPlayers(tx)
		if err != nil {
			return err
		}

		matches, err := getAllMatchesOrdered(tx)
		if err != nil {
			return err
		}

		playerIDs := make([]util.UUIDAsBlob, len(players))
		for k := range players {
			playerIDs[k] = players[k].ID
		}

		beliefs, _ := ReplayRatings(matches, playerIDs)

		counters := make(map[util.UUIDAsBlob]*Player, len(players))
		for k := range players {
			players[k].Games, players[k].Wins, players[k].Losses = 0, 0, 0
			counters[players[k].ID] = &players[k]
		}

		for _, m := range matches {
			if !replayable(m) {
				continue
			}

			for _, p := range m.Participations {
				player, ok := counters[p.PlayerID]
				if !ok {
					continue
				}

				player.Games++
				if p.Won(m) {
					player.Wins++
				} else {
					player.Losses++
				}
			}
		}

		for k := range players {
			if err := players[k].updateCounters(tx); err != nil {
				return err
			}

			playerRating := NewPlayerRating(players[k].ID)
			playerRating.SetBelief(beliefs[players[k].ID])
			if err := playerRating.upsert(tx); err != nil {
				return err
			}
		}

		return nil
	})
}

// A RatedPlayer is a player with their current belief and the values
// derived from it, ready for display.
type RatedPlayer struct {
	Player
	Mu            float64
	Sigma         float64
	Ordinal       float64
	DisplayRating int
}

// CurrentRatings returns every known player with their current rating,
// best first. It reads the cache maintained by Rerate.
func (b *Back) CurrentRatings() ([]RatedPlayer, error) {
	var ret []RatedPlayer

	if err := b.transaction(func(tx *sqlx.Tx) error {
		query := `
            SELECT Player.*,
                   COALESCE(PlayerRating.Mu, ?) AS Mu,
                   COALESCE(PlayerRating.Sigma, ?) AS Sigma
            FROM Player
            LEFT JOIN PlayerRating ON (PlayerRating.PlayerID = Player.ID)`
		return tx.Select(&ret, query, rating.DefaultMu, rating.DefaultSigma)
	}); err != nil {
		return nil, err
	}

	for k := range ret {
		belief := rating.Belief{Mu: ret[k].Mu, Sigma: ret[k].Sigma}
		ret[k].Ordinal = belief.Ordinal()
		ret[k].DisplayRating = belief.DisplayRating()
	}

	sort.Slice(ret, func(i, j int) bool {
		if ret[i].DisplayRating != ret[j].DisplayRating {
			return ret[i].DisplayRating > ret[j].DisplayRating
		}
		return ret[i].Name < ret[j].Name
	})

	return ret, nil
}

// HistoricalRatings replays the log and returns every snapshot, for rating
// charts. Nothing is cached: the result is always consistent with the log.
func (b *Back) HistoricalRatings() ([]Snapshot, error) {
	start := time.Now()
	defer func() { log.Printf("info: computed rating history in %s", time.Since(start)) }()

	var snapshots []Snapshot

	if err := b.transaction(func(tx *sqlx.Tx) error {
		players, err := getAllPlayers(tx)
		if err != nil {
			return err
		}

		matches, err := getAllMatchesOrdered(tx)
		if err != nil {
			return err
		}

		playerIDs := make([]util.UUIDAsBlob, len(players))
		for k := range players {
			playerIDs[k] = players[k].ID
		}

		_, snapshots = ReplayRatings(matches, playerIDs)

		return nil
	}); err != nil {
		return nil, err
	}

	return snapshots, nil
}
