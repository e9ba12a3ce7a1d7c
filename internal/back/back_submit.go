package back

import (
	"log"
	"time"

	"tidemark/internal/util"

	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"
)

// A MatchSubmission is the raw input collected after a game: the match
// facts plus one entry per player. Players are referenced by name and
// created on first reference.
type MatchSubmission struct {
	PlayedAt    time.Time
	WinningSide Side
	Length      MatchLength
	DoubleLanes bool

	Entries []SubmissionEntry
}

type SubmissionEntry struct {
	PlayerName string
	Side       Side
	Hero       string

	Kills       null.Int
	Deaths      null.Int
	Assists     null.Int
	GoldEarned  null.Int
	MinionKills null.Int
	Level       null.Int
}

// SubmitMatch records a match and its roster as one transaction, then
// replays every rating. Unknown player names get a Player row and the
// default belief. Fatal validation issues abort the whole submission,
// warnings don't.
func (b *Back) SubmitMatch(sub MatchSubmission) (Match, error) {
	match := NewMatch(sub.PlayedAt, sub.WinningSide, sub.Length)
	match.DoubleLanes = sub.DoubleLanes

	if err := b.transaction(func(tx *sqlx.Tx) error {
		parts := make([]Participation, 0, len(sub.Entries))
		for _, entry := range sub.Entries {
			player, err := getOrCreatePlayerByName(tx, entry.PlayerName)
			if err != nil {
				return err
			}

			part := NewParticipation(match.ID, player.ID, entry.Side, entry.Hero)
			part.Kills = entry.Kills
			part.Deaths = entry.Deaths
			part.Assists = entry.Assists
			part.GoldEarned = entry.GoldEarned
			part.MinionKills = entry.MinionKills
			part.Level = entry.Level
			parts = append(parts, part)
		}

		match.TeamSizeBlue = countSide(parts, SideBlue)
		match.TeamSizeRed = countSide(parts, SideRed)

		// Failing here rolls back the on-the-fly player creation too.
		if res := validateMatch(match, parts, time.Now()); !res.IsValid() {
			return &ValidationError{Result: res}
		}

		if err := match.insert(tx); err != nil {
			return err
		}

		for k := range parts {
			if err := parts[k].insert(tx); err != nil {
				return err
			}
		}

		match.Participations = parts

		return nil
	}); err != nil {
		return Match{}, err
	}

	log.Printf("info: recorded match %s with %d participants", match.ID, len(match.Participations))

	return match, b.Rerate()
}

// DeleteMatch removes a match and its roster from the log, then replays.
// Deleting rewrites history just like an edit does.
func (b *Back) DeleteMatch(id util.UUIDAsBlob) error {
	if err := b.transaction(func(tx *sqlx.Tx) error {
		if _, err := getMatchByID(tx, id); err != nil {
			return err
		}

		return deleteMatch(tx, id)
	}); err != nil {
		return err
	}

	return b.Rerate()
}
