package back

import (
	"tidemark/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"
)

// A Participation is one player fielding one hero on one side of a match.
//
// The combat counters are null.Int on purpose: an invalid value means the
// group did not track that stat for this match, a valid zero means it was
// tracked and really is zero. Collapsing the two would corrupt every
// average computed downstream, so the distinction is kept through storage,
// JSON, and edits.
type Participation struct {
	MatchID  util.UUIDAsBlob
	PlayerID util.UUIDAsBlob

	Side Side
	Hero string

	Kills       null.Int
	Deaths      null.Int
	Assists     null.Int
	GoldEarned  null.Int
	MinionKills null.Int
	Level       null.Int
}

func NewParticipation(matchID, playerID util.UUIDAsBlob, side Side, heroName string) Participation {
	return Participation{
		MatchID:  matchID,
		PlayerID: playerID,
		Side:     side,
		Hero:     heroName,
	}
}

// Won returns true if this participation was on the winning side of its
// match.
func (p Participation) Won(m Match) bool {
	return p.Side == m.WinningSide
}

func (p *Participation) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Participation").SetMap(squirrel.Eq{
		"MatchID":     p.MatchID,
		"PlayerID":    p.PlayerID,
		"Side":        p.Side,
		"Hero":        p.Hero,
		"Kills":       p.Kills,
		"Deaths":      p.Deaths,
		"Assists":     p.Assists,
		"GoldEarned":  p.GoldEarned,
		"MinionKills": p.MinionKills,
		"Level":       p.Level,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func (p *Participation) updateFields(tx *sqlx.Tx, fields squirrel.Eq) error {
	if len(fields) == 0 {
		return nil
	}

	query, args, err := squirrel.Update("Participation").SetMap(fields).
		Where(squirrel.Eq{
			"Participation.MatchID":  p.MatchID,
			"Participation.PlayerID": p.PlayerID,
		}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getParticipationsByMatchID(tx *sqlx.Tx, matchID util.UUIDAsBlob) ([]Participation, error) {
	var ret []Participation
	query := `SELECT * FROM Participation WHERE MatchID = ? ORDER BY Side ASC, Hero ASC`
	if err := tx.Select(&ret, query, matchID); err != nil {
		return nil, err
	}

	return ret, nil
}

func getAllParticipations(tx *sqlx.Tx) ([]Participation, error) {
	var ret []Participation
	query := `SELECT * FROM Participation ORDER BY MatchID ASC, Side ASC, Hero ASC`
	if err := tx.Select(&ret, query); err != nil {
		return nil, err
	}

	return ret, nil
}
