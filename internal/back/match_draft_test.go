package back // nolint:testpackage

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"testing"
	"time"

	"tidemark/internal/hero"
	"tidemark/internal/util"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/guregu/null.v4"
)

func TestSubmitMatchCreatesPlayers(t *testing.T) {
	back := createTestBack(t)

	match, err := back.SubmitMatch(MatchSubmission{
		PlayedAt:    time.Now().AddDate(0, 0, -1),
		WinningSide: SideBlue,
		Length:      MatchLengthStandard,
		Entries: []SubmissionEntry{
			{PlayerName: "Edda", Side: SideBlue, Hero: "Brogan", Kills: null.IntFrom(4)},
			{PlayerName: "Johan", Side: SideRed, Hero: "Wasp"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if match.TeamSizeBlue != 1 || match.TeamSizeRed != 1 {
		t.Errorf("bad team sizes: %d vs %d", match.TeamSizeBlue, match.TeamSizeRed)
	}

	ratings := ratingsByName(t, back)
	if len(ratings) != 2 {
		t.Fatalf("expected 2 players created on first reference, got %d", len(ratings))
	}
	if ratings["Edda"].DisplayRating <= ratings["Johan"].DisplayRating {
		t.Errorf(
			"expected the winner to be rated above the loser, got %d vs %d",
			ratings["Edda"].DisplayRating, ratings["Johan"].DisplayRating,
		)
	}
	if ratings["Edda"].Games != 1 || ratings["Edda"].Wins != 1 {
		t.Errorf("expected a 1-0 counter, got %+v", ratings["Edda"].Player)
	}

	// Resubmitting the same names must reuse the rows, not duplicate them.
	if _, err := back.SubmitMatch(MatchSubmission{
		PlayedAt:    time.Now(),
		WinningSide: SideRed,
		Length:      MatchLengthQuick,
		Entries: []SubmissionEntry{
			{PlayerName: "Edda", Side: SideBlue, Hero: "Brogan"},
			{PlayerName: "Johan", Side: SideRed, Hero: "Wasp"},
		},
	}); err != nil {
		t.Fatal(err)
	}

	if ratings := ratingsByName(t, back); len(ratings) != 2 {
		t.Errorf("expected the same 2 players, got %d", len(ratings))
	}
}

func TestSubmitMatchRejectsInvalidRosters(t *testing.T) {
	back := createTestBack(t)

	_, err := back.SubmitMatch(MatchSubmission{
		PlayedAt:    time.Now(),
		WinningSide: SideBlue,
		Length:      MatchLengthStandard,
		Entries: []SubmissionEntry{
			{PlayerName: "Edda", Side: SideBlue, Hero: "Brogan"},
			// Nobody on red.
		},
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a ValidationError, got %v", err)
	}

	// The rejected submission must not leave its on-the-fly players behind.
	if ratings := ratingsByName(t, back); len(ratings) != 0 {
		t.Errorf("expected the player creation to be rolled back, got %d players", len(ratings))
	}
}

func TestCommitWinnerFlipReplaysRatings(t *testing.T) {
	back := createFixturedTestBack(t)
	before := ratingsByName(t, back)

	draft, err := back.LoadMatchDraft(firstMatchID(t, back))
	if err != nil {
		t.Fatal(err)
	}

	draft.Match.WinningSide = draft.Match.WinningSide.Opponent()
	if err := back.CommitMatchDraft(draft); err != nil {
		t.Fatal(err)
	}

	after := ratingsByName(t, back)
	moved := 0
	for name := range before {
		if before[name].DisplayRating != after[name].DisplayRating {
			moved++
		}
	}
	if moved == 0 {
		t.Error("expected the winner flip to move at least one rating")
	}

	for name := range before {
		if before[name].Wins+before[name].Losses != after[name].Wins+after[name].Losses {
			t.Errorf("%s: flipping a winner must not change the game count", name)
		}
	}
}

func TestCommitModifierEditLeavesRatingsUntouched(t *testing.T) {
	back := createFixturedTestBack(t)
	before := ratingsByName(t, back)

	draft, err := back.LoadMatchDraft(firstMatchID(t, back))
	if err != nil {
		t.Fatal(err)
	}

	draft.Match.DoubleLanes = !draft.Match.DoubleLanes
	p := &draft.Participations[0]
	p.Kills = null.IntFrom(p.Kills.Int64 + 1)

	if err := back.CommitMatchDraft(draft); err != nil {
		t.Fatal(err)
	}

	after := ratingsByName(t, back)
	for name := range before {
		if before[name].DisplayRating != after[name].DisplayRating {
			t.Errorf(
				"%s: rating moved from %d to %d on a stat-only edit",
				name, before[name].DisplayRating, after[name].DisplayRating,
			)
		}
	}

	// The edit itself must have landed.
	reloaded, err := back.LoadMatchDraft(draft.Match.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Match.DoubleLanes != draft.Match.DoubleLanes {
		t.Error("expected the lane toggle to persist")
	}
	if part := reloaded.Participation(p.PlayerID); part.Kills != p.Kills {
		t.Errorf("expected the kill edit to persist, got %+v", part.Kills)
	}
}

func TestCommitRejectsDuplicateHero(t *testing.T) {
	back := createFixturedTestBack(t)

	draft, err := back.LoadMatchDraft(firstMatchID(t, back))
	if err != nil {
		t.Fatal(err)
	}

	draft.Participations[1].Hero = draft.Participations[0].Hero
	err = back.CommitMatchDraft(draft)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a ValidationError, got %v", err)
	}

	// Reset must make the draft committable again (as an empty commit).
	draft.Reset()
	if err := back.CommitMatchDraft(draft); err != nil {
		t.Errorf("expected a clean commit after reset, got %v", err)
	}
}

func TestCommitRejectsRosterChanges(t *testing.T) {
	back := createFixturedTestBack(t)

	draft, err := back.LoadMatchDraft(firstMatchID(t, back))
	if err != nil {
		t.Fatal(err)
	}

	draft.Participations = draft.Participations[:len(draft.Participations)-1]
	err = back.CommitMatchDraft(draft)

	var pub util.ErrPublic
	if !errors.As(err, &pub) {
		t.Fatalf("expected a public error, got %v", err)
	}
}

func TestDeleteMatchReplays(t *testing.T) {
	back := createFixturedTestBack(t)
	before := ratingsByName(t, back)

	id := firstMatchID(t, back)
	if err := back.DeleteMatch(id); err != nil {
		t.Fatal(err)
	}

	// Deleting again must 404.
	if err := back.DeleteMatch(id); err == nil {
		t.Error("expected deleting a deleted match to fail")
	}

	after := ratingsByName(t, back)
	dropped := 0
	for name := range before {
		if after[name].Games < before[name].Games {
			dropped++
		}
	}
	if dropped == 0 {
		t.Error("expected the deleted match to disappear from the game counters")
	}
}

func TestDataMigrationsAreIdempotent(t *testing.T) {
	back := createFixturedTestBack(t)

	for i := 0; i < 2; i++ {
		if err := back.RunDataMigrations(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	version, err := back.dataMigrationVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != currentDataMigrationVersion {
		t.Errorf("expected version %d, got %d", currentDataMigrationVersion, version)
	}

	var markers int
	if err := back.transaction(func(tx *sqlx.Tx) error {
		return tx.Get(&markers, `SELECT COUNT(*) FROM DataMigration`)
	}); err != nil {
		t.Fatal(err)
	}
	if markers != 1 {
		t.Errorf("expected a single migration marker, got %d", markers)
	}
}

func ratingsByName(t *testing.T, back *Back) map[string]RatedPlayer {
	t.Helper()

	ratings, err := back.CurrentRatings()
	if err != nil {
		t.Fatal(err)
	}

	ret := make(map[string]RatedPlayer, len(ratings))
	for _, r := range ratings {
		ret[r.Name] = r
	}

	return ret
}

func firstMatchID(t *testing.T, back *Back) util.UUIDAsBlob {
	t.Helper()

	var matches []Match
	if err := back.transaction(func(tx *sqlx.Tx) (err error) {
		matches, err = getAllMatchesOrdered(tx)
		return err
	}); err != nil {
		t.Fatal(err)
	}
	if len(matches) == 0 {
		t.Fatal("expected fixtures to contain matches")
	}

	return matches[0].ID
}

func createTestBack(t *testing.T) *Back {
	f, err := ioutil.TempFile("", "*.db")
	if err != nil {
		t.Fatal(err)
	}
	path := f.Name()
	f.Close()
	t.Cleanup(func() {
		os.Remove(path)
	})

	migrator, err := migrate.New(
		"file://../../resources/migrations",
		"sqlite3://"+path,
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := migrator.Up(); err != nil {
		t.Fatal(err)
	}
	migrator.Close()

	back, err := New("sqlite3", path, hero.Default())
	if err != nil {
		t.Fatal(err)
	}

	return back
}

func createFixturedTestBack(t *testing.T) *Back {
	back := createTestBack(t)

	if err := back.LoadFixtures(); err != nil {
		t.Fatal(err)
	}

	return back
}
