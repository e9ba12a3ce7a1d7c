package back

import (
	"time"

	"tidemark/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Side int

const ( // this is stored in DB, don't change values
	SideBlue Side = 0
	SideRed  Side = 1
)

func (s Side) String() string {
	if s == SideBlue {
		return "blue"
	}

	return "red"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideBlue {
		return SideRed
	}

	return SideBlue
}

type MatchLength int

const ( // this is stored in DB, don't change values
	MatchLengthQuick    MatchLength = 0
	MatchLengthStandard MatchLength = 1
	MatchLengthEpic     MatchLength = 2
)

func (l MatchLength) String() string {
	switch l {
	case MatchLengthQuick:
		return "quick"
	case MatchLengthEpic:
		return "epic"
	default:
		return "standard"
	}
}

// killCeiling is the soft per-player kill count above which the edit
// validation emits a warning, longer games allow more kills.
func (l MatchLength) killCeiling() int {
	switch l {
	case MatchLengthQuick:
		return 15
	case MatchLengthEpic:
		return 40
	default:
		return 25
	}
}

// A Match is one recorded play of the board game. Matches are totally
// ordered by (PlayedAt, CreatedAt, ID) so a replay is always deterministic,
// even when two games share a timestamp.
type Match struct {
	ID        util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp
	PlayedAt  util.TimeAsTimestamp

	WinningSide  Side
	Length       MatchLength
	DoubleLanes  bool
	TeamSizeBlue int
	TeamSizeRed  int

	Participations []Participation `db:"-" json:"-"`
}

func NewMatch(playedAt time.Time, winningSide Side, length MatchLength) Match {
	return Match{
		ID:          util.NewUUIDAsBlob(),
		CreatedAt:   util.TimeAsTimestamp(time.Now()),
		PlayedAt:    util.TimeAsTimestamp(playedAt),
		WinningSide: winningSide,
		Length:      length,
	}
}

func countSide(parts []Participation, side Side) int {
	var n int
	for _, p := range parts {
		if p.Side == side {
			n++
		}
	}

	return n
}

// SideRoster returns the participations of one side.
func (m Match) SideRoster(side Side) []Participation {
	ret := make([]Participation, 0, len(m.Participations))
	for _, p := range m.Participations {
		if p.Side == side {
			ret = append(ret, p)
		}
	}

	return ret
}

func (m *Match) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Match").SetMap(squirrel.Eq{
		"ID":           m.ID,
		"CreatedAt":    m.CreatedAt,
		"PlayedAt":     m.PlayedAt,
		"WinningSide":  m.WinningSide,
		"Length":       m.Length,
		"DoubleLanes":  m.DoubleLanes,
		"TeamSizeBlue": m.TeamSizeBlue,
		"TeamSizeRed":  m.TeamSizeRed,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

// updateFields writes only the given columns, the set is computed by the
// edit controller from a diff against the baseline.
func (m *Match) updateFields(tx *sqlx.Tx, fields squirrel.Eq) error {
	if len(fields) == 0 {
		return nil
	}

	query, args, err := squirrel.Update("Match").SetMap(fields).
		Where(squirrel.Eq{"Match.ID": m.ID}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getMatchByID(tx *sqlx.Tx, id util.UUIDAsBlob) (Match, error) {
	var ret Match
	query := `SELECT * FROM Match WHERE ID = ? LIMIT 1`
	if err := tx.Get(&ret, query, id); err != nil {
		return Match{}, err
	}

	return ret, nil
}

// getAllMatchesOrdered returns the whole match log in replay order with
// participations attached.
func getAllMatchesOrdered(tx *sqlx.Tx) ([]Match, error) {
	var matches []Match
	query := `SELECT * FROM Match ORDER BY PlayedAt ASC, CreatedAt ASC, ID ASC`
	if err := tx.Select(&matches, query); err != nil {
		return nil, err
	}

	parts, err := getAllParticipations(tx)
	if err != nil {
		return nil, err
	}

	byMatch := make(map[util.UUIDAsBlob][]Participation, len(matches))
	for _, p := range parts {
		byMatch[p.MatchID] = append(byMatch[p.MatchID], p)
	}

	for k := range matches {
		matches[k].Participations = byMatch[matches[k].ID]
	}

	return matches, nil
}

func deleteMatch(tx *sqlx.Tx, id util.UUIDAsBlob) error {
	if _, err := tx.Exec(`DELETE FROM Participation WHERE MatchID = ?`, id); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM Match WHERE ID = ?`, id); err != nil {
		return err
	}

	return nil
}
