package back

import (
	"database/sql"
	"time"

	"tidemark/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// A Player is anyone who ever appeared on a match roster. The cumulative
// counters are a cache rebuilt on every replay, never edited directly.
type Player struct {
	ID        util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp
	Name      string

	Games  int
	Wins   int
	Losses int

	Rating PlayerRating `db:"-" json:"-"`
}

func NewPlayer(name string) Player {
	return Player{
		ID:        util.NewUUIDAsBlob(),
		CreatedAt: util.TimeAsTimestamp(time.Now()),
		Name:      name,
	}
}

func (p *Player) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Player").SetMap(squirrel.Eq{
		"ID":        p.ID,
		"CreatedAt": p.CreatedAt,
		"Name":      p.Name,
		"Games":     p.Games,
		"Wins":      p.Wins,
		"Losses":    p.Losses,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func (p *Player) updateCounters(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update("Player").SetMap(squirrel.Eq{
		"Games":  p.Games,
		"Wins":   p.Wins,
		"Losses": p.Losses,
	}).Where(squirrel.Eq{"Player.ID": p.ID}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getPlayerByID(tx *sqlx.Tx, id util.UUIDAsBlob) (Player, error) {
	var ret Player
	query := `SELECT * FROM Player WHERE ID = ? LIMIT 1`
	if err := tx.Get(&ret, query, id); err != nil {
		return Player{}, err
	}

	return ret, nil
}

func getAllPlayers(tx *sqlx.Tx) ([]Player, error) {
	var ret []Player
	if err := tx.Select(&ret, `SELECT * FROM Player ORDER BY Player.Name ASC`); err != nil {
		return nil, err
	}

	return ret, nil
}

// getOrCreatePlayerByName implements create-on-first-reference: a match
// submission naming an unknown player creates them with the default belief.
func getOrCreatePlayerByName(tx *sqlx.Tx, name string) (Player, error) {
	var ret Player
	query := `SELECT * FROM Player WHERE Name = ? LIMIT 1`
	err := tx.Get(&ret, query, name)
	if err == nil {
		return ret, nil
	}
	if err != sql.ErrNoRows {
		return Player{}, err
	}

	ret = NewPlayer(name)
	if err := ret.insert(tx); err != nil {
		return Player{}, err
	}

	return ret, nil
}
