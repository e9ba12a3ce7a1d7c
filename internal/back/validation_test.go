package back // nolint:testpackage

import (
	"testing"
	"time"

	"tidemark/internal/util"

	"gopkg.in/guregu/null.v4"
)

func hasIssue(issues []ValidationIssue, field string) bool {
	for _, i := range issues {
		if i.Field == field {
			return true
		}
	}

	return false
}

func TestValidateMatch(t *testing.T) {
	now := day(1)
	ids := testIDs(4)

	valid := namedMatch(0, SideBlue,
		map[util.UUIDAsBlob]string{ids[0]: "Wasp", ids[1]: "Whisper"},
		map[util.UUIDAsBlob]string{ids[2]: "Brogan", ids[3]: "Dodger"},
	)

	cases := []struct {
		name         string
		mutate       func(*Match)
		fatalField   string
		warningField string
	}{
		{
			"valid match",
			func(m *Match) {},
			"", "",
		},
		{
			"empty red side",
			func(m *Match) {
				parts := m.Participations[:0]
				for _, p := range m.Participations {
					if p.Side == SideBlue {
						parts = append(parts, p)
					}
				}
				m.Participations = parts
			},
			"roster", "",
		},
		{
			"duplicate hero",
			func(m *Match) { m.Participations[1].Hero = m.Participations[0].Hero },
			"hero", "",
		},
		{
			"missing hero",
			func(m *Match) { m.Participations[0].Hero = "" },
			"hero", "",
		},
		{
			"duplicate player",
			func(m *Match) { m.Participations[1].PlayerID = m.Participations[0].PlayerID },
			"player", "",
		},
		{
			"negative kills",
			func(m *Match) { m.Participations[0].Kills = null.IntFrom(-1) },
			"kills", "",
		},
		{
			"level out of range",
			func(m *Match) { m.Participations[0].Level = null.IntFrom(11) },
			"level", "",
		},
		{
			"uneven sides",
			func(m *Match) {
				extra := NewParticipation(m.ID, util.NewUUIDAsBlob(), SideBlue, "Tali")
				m.Participations = append(m.Participations, extra)
				extra = NewParticipation(m.ID, util.NewUUIDAsBlob(), SideBlue, "Mrak")
				m.Participations = append(m.Participations, extra)
			},
			"", "roster",
		},
		{
			"implausible kills",
			func(m *Match) { m.Participations[0].Kills = null.IntFrom(30) },
			"", "kills",
		},
		{
			"implausible deaths",
			func(m *Match) { m.Participations[0].Deaths = null.IntFrom(25) },
			"", "deaths",
		},
		{
			"future date",
			func(m *Match) { m.PlayedAt = util.TimeAsTimestamp(now.Add(time.Hour)) },
			"", "playedAt",
		},
		{
			"ancient date",
			func(m *Match) { m.PlayedAt = util.TimeAsTimestamp(now.AddDate(-2, 0, 0)) },
			"", "playedAt",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := valid
			m.Participations = append([]Participation{}, valid.Participations...)
			c.mutate(&m)

			res := validateMatch(m, m.Participations, now)

			if c.fatalField == "" && !res.IsValid() {
				t.Fatalf("expected a valid match, got errors %+v", res.Errors)
			}
			if c.fatalField != "" {
				if res.IsValid() {
					t.Fatal("expected a fatal issue, match came out valid")
				}
				if !hasIssue(res.Errors, c.fatalField) {
					t.Errorf("expected a fatal issue on %q, got %+v", c.fatalField, res.Errors)
				}
			}

			if c.warningField != "" && !hasIssue(res.Warnings, c.warningField) {
				t.Errorf("expected a warning on %q, got %+v", c.warningField, res.Warnings)
			}
			if c.warningField == "" && c.fatalField == "" && len(res.Warnings) > 0 {
				t.Errorf("expected no warnings, got %+v", res.Warnings)
			}
		})
	}
}

func TestWarningsNeverBlock(t *testing.T) {
	ids := testIDs(2)
	m := namedMatch(0, SideBlue,
		map[util.UUIDAsBlob]string{ids[0]: "Wasp"},
		map[util.UUIDAsBlob]string{ids[1]: "Brogan"},
	)
	m.Participations[0].Deaths = null.IntFrom(25)

	res := validateMatch(m, m.Participations, day(1))
	if len(res.Warnings) == 0 {
		t.Fatal("expected at least one warning")
	}
	if !res.IsValid() {
		t.Errorf("warnings must never invalidate a match, got errors %+v", res.Errors)
	}
}

func TestValidationIssueFormatting(t *testing.T) {
	var res ValidationResult
	res.fatal(util.UUIDAsBlob{}, "hero", "hero %s is picked more than once", "Wasp")

	if s := res.Errors[0].String(); s != "hero Wasp is picked more than once" {
		t.Errorf("unexpected formatted message: %q", s)
	}

	err := &ValidationError{Result: res}
	if err.Error() == "" {
		t.Error("expected a non-empty error string")
	}
}
