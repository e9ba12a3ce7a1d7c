package back

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"tidemark/internal/util"

	"github.com/Masterminds/squirrel"
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/jmoiron/sqlx"
)

// A MatchDraft is a mutable working copy of a recorded match, kept next to
// its unmodified baseline. Edits happen on the copy, Validate can run on
// every field change, and a commit writes only the diff against the
// baseline before forcing a full rating replay.
type MatchDraft struct {
	Match          Match
	Participations []Participation

	baselineMatch Match
	baselineParts []Participation
}

// Columns the edit controller is allowed to touch. Anything else showing up
// in a diff means the caller tampered with identity fields.
var matchEditableColumns = map[string]struct{}{ // nolint:gochecknoglobals
	"PlayedAt":     {},
	"WinningSide":  {},
	"Length":       {},
	"DoubleLanes":  {},
	"TeamSizeBlue": {},
	"TeamSizeRed":  {},
}

var participationEditableColumns = map[string]struct{}{ // nolint:gochecknoglobals
	"Side":        {},
	"Hero":        {},
	"Kills":       {},
	"Deaths":      {},
	"Assists":     {},
	"GoldEarned":  {},
	"MinionKills": {},
	"Level":       {},
}

// LoadMatchDraft fetches a match and its participations as an editable
// working copy.
func (b *Back) LoadMatchDraft(id util.UUIDAsBlob) (*MatchDraft, error) {
	var (
		match Match
		parts []Participation
	)

	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		if match, err = getMatchByID(tx, id); err != nil {
			return err
		}

		parts, err = getParticipationsByMatchID(tx, id)

		return err
	}); err != nil {
		return nil, err
	}

	draft := &MatchDraft{
		Match:         match,
		baselineMatch: match,
	}
	draft.Participations = append([]Participation{}, parts...)
	draft.baselineParts = append([]Participation{}, parts...)

	return draft, nil
}

// Validate re-runs every check against the current state of the draft.
func (d *MatchDraft) Validate() ValidationResult {
	return validateMatch(d.Match, d.Participations, time.Now())
}

// Reset discards every pending edit and restores the baseline.
func (d *MatchDraft) Reset() {
	d.Match = d.baselineMatch
	d.Participations = append(d.Participations[:0], d.baselineParts...)
}

// Participation returns a pointer into the draft roster for edits, nil if
// the player is not on it.
func (d *MatchDraft) Participation(playerID util.UUIDAsBlob) *Participation {
	for k := range d.Participations {
		if d.Participations[k].PlayerID == playerID {
			return &d.Participations[k]
		}
	}

	return nil
}

// CommitMatchDraft writes the draft's changes to the log and replays every
// rating. Only fields that differ from the baseline are written, all of
// them in a single transaction: either the whole edit lands or none of it.
func (b *Back) CommitMatchDraft(d *MatchDraft) error {
	d.Match.TeamSizeBlue = countSide(d.Participations, SideBlue)
	d.Match.TeamSizeRed = countSide(d.Participations, SideRed)

	if res := d.Validate(); !res.IsValid() {
		return &ValidationError{Result: res}
	}

	matchPatch, err := diffFields(d.baselineMatch, d.Match, matchEditableColumns)
	if err != nil {
		return fmt.Errorf("unable to diff match: %w", err)
	}

	type stagedPatch struct {
		part  Participation
		patch squirrel.Eq
	}

	// Stage every patch before touching the DB so a bad diff cannot leave
	// a half-written roster behind.
	staged := make([]stagedPatch, 0, len(d.Participations))
	for _, part := range d.Participations {
		baseline, ok := d.baselinePart(part.PlayerID)
		if !ok {
			return util.ErrPublic("cannot add a player to a recorded match, delete and resubmit it")
		}

		patch, err := diffFields(baseline, part, participationEditableColumns)
		if err != nil {
			return fmt.Errorf("unable to diff participation: %w", err)
		}

		if len(patch) > 0 {
			staged = append(staged, stagedPatch{part: part, patch: patch})
		}
	}
	if len(d.Participations) != len(d.baselineParts) {
		return util.ErrPublic("cannot remove a player from a recorded match, delete and resubmit it")
	}

	if len(matchPatch) == 0 && len(staged) == 0 {
		log.Printf("debug: empty commit for match %s", d.Match.ID)
		return nil
	}

	if err := b.transaction(func(tx *sqlx.Tx) error {
		if err := d.Match.updateFields(tx, matchPatch); err != nil {
			return err
		}

		for _, s := range staged {
			if err := s.part.updateFields(tx, s.patch); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return err
	}

	d.baselineMatch = d.Match
	d.baselineParts = append(d.baselineParts[:0], d.Participations...)

	return b.Rerate()
}

func (d *MatchDraft) baselinePart(playerID util.UUIDAsBlob) (Participation, bool) {
	for _, p := range d.baselineParts {
		if p.PlayerID == playerID {
			return p, true
		}
	}

	return Participation{}, false
}

// diffFields computes a JSON merge patch between two versions of a record
// and turns it into the column set to write. The JSON field names are the
// column names, the identity NameMapper guarantees it.
func diffFields(baseline, draft interface{}, editable map[string]struct{}) (squirrel.Eq, error) {
	baselineJSON, err := json.Marshal(baseline)
	if err != nil {
		return nil, err
	}

	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}

	patch, err := jsonpatch.CreateMergePatch(baselineJSON, draftJSON)
	if err != nil {
		return nil, err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(patch, &fields); err != nil {
		return nil, err
	}

	ret := make(squirrel.Eq, len(fields))
	for column, value := range fields {
		if _, ok := editable[column]; !ok {
			return nil, fmt.Errorf("column %s is not editable", column)
		}

		ret[column] = normalizeJSONValue(value)
	}

	return ret, nil
}

// normalizeJSONValue undoes the float64-ification of integers that
// encoding/json does, everything we store in integer columns must stay an
// integer.
func normalizeJSONValue(v interface{}) interface{} {
	f, ok := v.(float64)
	if !ok {
		return v
	}

	if f == math.Trunc(f) {
		return int64(f)
	}

	return f
}
