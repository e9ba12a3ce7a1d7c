package back

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

// LoadFixtures records a small but realistic match history for development:
// a regular group of six players, a few rotating heroes, one match with
// untracked combat stats.
func (b *Back) LoadFixtures() error {
	day := func(offset int) time.Time {
		return time.Now().AddDate(0, 0, -offset)
	}

	entry := func(name string, side Side, heroName string, k, d, a int64) SubmissionEntry {
		return SubmissionEntry{
			PlayerName: name,
			Side:       side,
			Hero:       heroName,
			Kills:      null.IntFrom(k),
			Deaths:     null.IntFrom(d),
			Assists:    null.IntFrom(a),
		}
	}

	subs := []MatchSubmission{
		{
			PlayedAt: day(21), WinningSide: SideBlue, Length: MatchLengthStandard,
			Entries: []SubmissionEntry{
				entry("Edda", SideBlue, "Brogan", 4, 2, 6),
				entry("Johan", SideBlue, "Dodger", 7, 3, 2),
				entry("Mireille", SideRed, "Wasp", 5, 6, 3),
				entry("Tomasz", SideRed, "Sabina", 3, 5, 4),
			},
		},
		{
			PlayedAt: day(14), WinningSide: SideRed, Length: MatchLengthEpic,
			DoubleLanes: true,
			Entries: []SubmissionEntry{
				entry("Edda", SideBlue, "Xargatha", 6, 7, 5),
				entry("Johan", SideBlue, "Tigerclaw", 9, 6, 3),
				entry("Priya", SideBlue, "Whisper", 2, 4, 11),
				entry("Mireille", SideRed, "Wasp", 8, 5, 6),
				entry("Tomasz", SideRed, "Arien", 7, 4, 7),
				entry("Sigrún", SideRed, "Brogan", 4, 6, 9),
			},
		},
		{
			// Nobody kept track of combat stats that evening.
			PlayedAt: day(7), WinningSide: SideBlue, Length: MatchLengthQuick,
			Entries: []SubmissionEntry{
				{PlayerName: "Priya", Side: SideBlue, Hero: "Whisper"},
				{PlayerName: "Sigrún", Side: SideBlue, Hero: "Mrak"},
				{PlayerName: "Johan", Side: SideRed, Hero: "Dodger"},
				{PlayerName: "Tomasz", Side: SideRed, Hero: "Sabina"},
			},
		},
		{
			PlayedAt: day(2), WinningSide: SideRed, Length: MatchLengthStandard,
			Entries: []SubmissionEntry{
				entry("Edda", SideBlue, "Brogan", 3, 4, 5),
				entry("Priya", SideBlue, "Tali", 1, 3, 9),
				entry("Mireille", SideRed, "Wasp", 6, 2, 4),
				entry("Sigrún", SideRed, "Whisper", 2, 1, 8),
			},
		},
	}

	for _, sub := range subs {
		if _, err := b.SubmitMatch(sub); err != nil {
			return err
		}
	}

	return nil
}
