package back

import (
	"fmt"
	"time"

	"tidemark/internal/util"

	"gopkg.in/guregu/null.v4"
)

// A ValidationIssue points at one problem with a match draft. PlayerID is
// zero for match-wide issues. Message is an untranslated format string so
// the presentation layer can localize it, Args are its parameters.
type ValidationIssue struct {
	PlayerID util.UUIDAsBlob
	Field    string
	Message  string
	Args     []interface{}
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf(i.Message, i.Args...)
}

// A ValidationResult splits issues in two severities: Errors block a
// commit, Warnings never do.
type ValidationResult struct {
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fatal(playerID util.UUIDAsBlob, field, msg string, args ...interface{}) {
	r.Errors = append(r.Errors, ValidationIssue{
		PlayerID: playerID, Field: field, Message: msg, Args: args,
	})
}

func (r *ValidationResult) warn(playerID util.UUIDAsBlob, field, msg string, args ...interface{}) {
	r.Warnings = append(r.Warnings, ValidationIssue{
		PlayerID: playerID, Field: field, Message: msg, Args: args,
	})
}

// ValidationError is returned when a commit is attempted with outstanding
// fatal issues.
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	errs := make([]error, 0, len(e.Result.Errors))
	for _, issue := range e.Result.Errors {
		errs = append(errs, fmt.Errorf("%s: %s", issue.Field, issue.String()))
	}

	return util.ConcatErrors(errs).Error()
}

const (
	maxLevel        = 10
	deathsCeiling   = 20
	maxMatchAge     = 365 * 24 * time.Hour
	futureTolerance = 5 * time.Minute
)

// validateMatch runs every structural (fatal) and heuristic (warning) check
// on a match and its roster. It is pure and cheap, callers re-run it on
// every field change.
func validateMatch(m Match, parts []Participation, now time.Time) ValidationResult {
	var res ValidationResult

	validateRosters(&res, parts)
	validateHeroes(&res, parts)
	validatePlayers(&res, parts)

	for _, p := range parts {
		validateCounters(&res, m, p)
	}

	playedAt := m.PlayedAt.Time()
	if playedAt.After(now.Add(futureTolerance)) {
		res.warn(util.UUIDAsBlob{}, "playedAt", "the match date is in the future")
	}
	if playedAt.Before(now.Add(-maxMatchAge)) {
		res.warn(util.UUIDAsBlob{}, "playedAt", "the match date is more than a year old")
	}

	return res
}

func validateRosters(res *ValidationResult, parts []Participation) {
	var blue, red int
	for _, p := range parts {
		if p.Side == SideBlue {
			blue++
		} else {
			red++
		}
	}

	if blue == 0 {
		res.fatal(util.UUIDAsBlob{}, "roster", "the %s side has no players", SideBlue.String())
	}
	if red == 0 {
		res.fatal(util.UUIDAsBlob{}, "roster", "the %s side has no players", SideRed.String())
	}

	diff := blue - red
	if diff < 0 {
		diff = -diff
	}
	if blue > 0 && red > 0 && diff > 1 {
		res.warn(util.UUIDAsBlob{}, "roster", "uneven sides (%d vs %d)", blue, red)
	}
}

func validateHeroes(res *ValidationResult, parts []Participation) {
	seen := make(map[string]int, len(parts))
	for _, p := range parts {
		seen[p.Hero]++
	}

	for _, p := range parts {
		if p.Hero == "" {
			res.fatal(p.PlayerID, "hero", "a hero must be picked")
			continue
		}

		if seen[p.Hero] > 1 {
			res.fatal(p.PlayerID, "hero", "hero %s is picked more than once", p.Hero)
		}
	}
}

func validatePlayers(res *ValidationResult, parts []Participation) {
	seen := make(map[util.UUIDAsBlob]int, len(parts))
	for _, p := range parts {
		seen[p.PlayerID]++
	}

	for _, p := range parts {
		if seen[p.PlayerID] > 1 {
			res.fatal(p.PlayerID, "player", "the same player appears more than once")
		}
	}
}

func validateCounters(res *ValidationResult, m Match, p Participation) {
	counters := []struct {
		field string
		value null.Int
	}{
		{"kills", p.Kills},
		{"deaths", p.Deaths},
		{"assists", p.Assists},
		{"goldEarned", p.GoldEarned},
		{"minionKills", p.MinionKills},
		{"level", p.Level},
	}

	for _, c := range counters {
		if c.value.Valid && c.value.Int64 < 0 {
			res.fatal(p.PlayerID, c.field, "%s cannot be negative", c.field)
		}
	}

	if p.Level.Valid && (p.Level.Int64 < 1 || p.Level.Int64 > maxLevel) {
		res.fatal(p.PlayerID, "level", "level must be between 1 and %d", maxLevel)
	}

	if p.Kills.Valid && p.Kills.Int64 > int64(m.Length.killCeiling()) {
		res.warn(
			p.PlayerID, "kills",
			"%d kills is unusually high for a %s game",
			p.Kills.Int64, m.Length.String(),
		)
	}

	if p.Deaths.Valid && p.Deaths.Int64 > deathsCeiling {
		res.warn(p.PlayerID, "deaths", "%d deaths is unusually high", p.Deaths.Int64)
	}
}
