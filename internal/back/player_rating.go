package back

import (
	"database/sql"
	"time"

	"tidemark/internal/rating"
	"tidemark/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// PlayerRating is the persisted current belief for a player. It is a pure
// cache: the replay engine rewrites every row after each change to the match
// log, reads never feed back into the math.
type PlayerRating struct {
	PlayerID  util.UUIDAsBlob
	UpdatedAt util.TimeAsTimestamp

	Mu    float64
	Sigma float64
}

func NewPlayerRating(playerID util.UUIDAsBlob) PlayerRating {
	return PlayerRating{
		PlayerID:  playerID,
		UpdatedAt: util.TimeAsTimestamp(time.Now()),
		Mu:        rating.DefaultMu,
		Sigma:     rating.DefaultSigma,
	}
}

func (r PlayerRating) Belief() rating.Belief {
	return rating.Belief{Mu: r.Mu, Sigma: r.Sigma}
}

func (r *PlayerRating) SetBelief(b rating.Belief) {
	r.Mu = b.Mu
	r.Sigma = b.Sigma
	r.UpdatedAt = util.TimeAsTimestamp(time.Now())
}

// getPlayerRating gets the cached rating for a player or returns a default
// rating on the fly.
func getPlayerRating(tx *sqlx.Tx, playerID util.UUIDAsBlob) (PlayerRating, error) {
	var ret PlayerRating
	query := `SELECT * FROM PlayerRating WHERE PlayerID = ? LIMIT 1`
	err := tx.Get(&ret, query, playerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return NewPlayerRating(playerID), nil
		}
		return PlayerRating{}, err
	}

	return ret, nil
}

func (r *PlayerRating) upsert(tx *sqlx.Tx) error {
	if _, err := tx.Exec(
		`DELETE FROM PlayerRating WHERE PlayerID = ?`,
		r.PlayerID,
	); err != nil {
		return err
	}

	query, args, err := squirrel.Insert("PlayerRating").SetMap(squirrel.Eq{
		"PlayerID":  r.PlayerID,
		"UpdatedAt": r.UpdatedAt,
		"Mu":        r.Mu,
		"Sigma":     r.Sigma,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}
