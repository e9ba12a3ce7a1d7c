package back // nolint:testpackage

import (
	"testing"

	"tidemark/internal/util"
)

func TestTimeSeriesIsCumulative(t *testing.T) {
	ids := testIDs(2)

	var matches []Match
	for k := 0; k < 5; k++ {
		winner := SideBlue
		if k%2 == 1 {
			winner = SideRed
		}
		matches = append(matches, namedMatch(k, winner,
			map[util.UUIDAsBlob]string{ids[0]: "Wasp"},
			map[util.UUIDAsBlob]string{ids[1]: "Brogan"},
		))
	}

	series := computeHeroTimeSeries(matches, []string{"Wasp"}, 1)
	if len(series) != 1 {
		t.Fatalf("expected one series, got %d", len(series))
	}

	points := series[0].Points
	if len(points) != 5 {
		t.Fatalf("expected one point per day, got %d", len(points))
	}

	for k, p := range points {
		if p.GamesTotal != k+1 {
			t.Errorf("day %d: expected %d cumulative games, got %d", k, k+1, p.GamesTotal)
		}
		if p.WinsTotal > p.GamesTotal {
			t.Errorf("day %d: more wins than games (%d/%d)", k, p.WinsTotal, p.GamesTotal)
		}
		if k > 0 && p.WinsTotal < points[k-1].WinsTotal {
			t.Errorf("day %d: cumulative wins decreased", k)
		}
	}

	last := points[len(points)-1]
	if last.GamesTotal != 5 || last.WinsTotal != 3 {
		t.Errorf("expected a final 3/5 record, got %d/%d", last.WinsTotal, last.GamesTotal)
	}
	if last.WinRate != 60.0 {
		t.Errorf("expected a final 60.0 win rate, got %f", last.WinRate)
	}
}

func TestTimeSeriesCollapsesSameDay(t *testing.T) {
	ids := testIDs(2)

	// Two games on the same calendar day: one point, final totals.
	m1 := namedMatch(0, SideBlue,
		map[util.UUIDAsBlob]string{ids[0]: "Wasp"},
		map[util.UUIDAsBlob]string{ids[1]: "Brogan"},
	)
	m2 := namedMatch(0, SideRed,
		map[util.UUIDAsBlob]string{ids[0]: "Wasp"},
		map[util.UUIDAsBlob]string{ids[1]: "Brogan"},
	)

	series := computeHeroTimeSeries([]Match{m1, m2}, []string{"Wasp"}, 1)
	if len(series) != 1 || len(series[0].Points) != 1 {
		t.Fatalf("expected a single collapsed point, got %+v", series)
	}

	p := series[0].Points[0]
	if p.GamesTotal != 2 || p.WinsTotal != 1 {
		t.Errorf("expected the day's final 1/2 totals, got %d/%d", p.WinsTotal, p.GamesTotal)
	}
}

func TestTimeSeriesDropsEarlyPoints(t *testing.T) {
	ids := testIDs(2)

	var matches []Match
	for k := 0; k < 4; k++ {
		matches = append(matches, namedMatch(k, SideBlue,
			map[util.UUIDAsBlob]string{ids[0]: "Wasp"},
			map[util.UUIDAsBlob]string{ids[1]: "Brogan"},
		))
	}

	series := computeHeroTimeSeries(matches, []string{"Wasp"}, 3)
	if len(series) != 1 {
		t.Fatalf("expected one series, got %d", len(series))
	}

	points := series[0].Points
	if len(points) != 2 {
		t.Fatalf("expected the first two days to be dropped, got %d points", len(points))
	}
	if points[0].GamesTotal != 3 {
		t.Errorf("expected the series to start at the 3rd game, got %d", points[0].GamesTotal)
	}

	// A hero that never reaches the floor disappears entirely.
	if series := computeHeroTimeSeries(matches, []string{"Wasp"}, 10); len(series) != 0 {
		t.Errorf("expected no series below the floor, got %+v", series)
	}
}

func TestTimeSeriesHeroFilter(t *testing.T) {
	ids := testIDs(2)

	matches := []Match{namedMatch(0, SideBlue,
		map[util.UUIDAsBlob]string{ids[0]: "Wasp"},
		map[util.UUIDAsBlob]string{ids[1]: "Brogan"},
	)}

	series := computeHeroTimeSeries(matches, nil, 1)
	if len(series) != 2 {
		t.Errorf("expected every hero with no filter, got %d series", len(series))
	}

	series = computeHeroTimeSeries(matches, []string{"Brogan"}, 1)
	if len(series) != 1 || series[0].Hero != "Brogan" {
		t.Errorf("expected only Brogan, got %+v", series)
	}
}
