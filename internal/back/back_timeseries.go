package back

import (
	"log"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

// A TimeSeriesPoint is the cumulative record of a hero at the end of one
// calendar day it was played on.
type TimeSeriesPoint struct {
	Day        time.Time
	GamesTotal int
	WinsTotal  int
	WinRate    float64
}

// A HeroTimeSeries is the cumulative win rate of one hero over time.
type HeroTimeSeries struct {
	Hero   string
	Points []TimeSeriesPoint
}

// HeroWinRateOverTime buckets every hero's games by calendar day (UTC) and
// reports the cumulative games/wins/win-rate at each day the hero was
// played. Points before the hero's minGames-th game are dropped so early
// small-sample noise stays off the charts. An empty heroNames slice means
// every hero.
func (b *Back) HeroWinRateOverTime(
	heroNames []string,
	minGames int,
	from, to *time.Time,
) ([]HeroTimeSeries, error) {
	start := time.Now()
	defer func() { log.Printf("info: computed hero time series in %s", time.Since(start)) }()

	var matches []Match
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		matches, err = getAllMatchesOrdered(tx)
		return err
	}); err != nil {
		return nil, err
	}

	return computeHeroTimeSeries(
		filterMatchesByDate(matches, from, to),
		heroNames, minGames,
	), nil
}

func computeHeroTimeSeries(matches []Match, heroNames []string, minGames int) []HeroTimeSeries {
	var only map[string]struct{}
	if len(heroNames) > 0 {
		only = make(map[string]struct{}, len(heroNames))
		for _, name := range heroNames {
			only[name] = struct{}{}
		}
	}

	type acc struct {
		games, wins int
		days        []TimeSeriesPoint
	}
	accs := make(map[string]*acc)

	// Matches are already in replay order, so per-hero days come out
	// sorted and the cumulative counters are non-decreasing.
	for _, m := range matches {
		if !replayable(m) {
			continue
		}

		day := m.PlayedAt.Time().UTC().Truncate(24 * time.Hour)

		for _, p := range m.Participations {
			if only != nil {
				if _, ok := only[p.Hero]; !ok {
					continue
				}
			}

			a, ok := accs[p.Hero]
			if !ok {
				a = &acc{}
				accs[p.Hero] = a
			}

			a.games++
			if p.Won(m) {
				a.wins++
			}

			point := TimeSeriesPoint{
				Day:        day,
				GamesTotal: a.games,
				WinsTotal:  a.wins,
				WinRate:    winRate(a.wins, a.games),
			}

			if len(a.days) > 0 && a.days[len(a.days)-1].Day.Equal(day) {
				a.days[len(a.days)-1] = point
			} else {
				a.days = append(a.days, point)
			}
		}
	}

	ret := make([]HeroTimeSeries, 0, len(accs))
	for name, a := range accs {
		points := make([]TimeSeriesPoint, 0, len(a.days))
		for _, p := range a.days {
			if p.GamesTotal < minGames {
				continue
			}
			points = append(points, p)
		}

		if len(points) == 0 {
			continue
		}

		ret = append(ret, HeroTimeSeries{Hero: name, Points: points})
	}

	sort.Slice(ret, func(i, j int) bool { return ret[i].Hero < ret[j].Hero })

	return ret
}
