package back

import (
	"log"
	"math"
	"sort"
	"time"

	"tidemark/internal/hero"

	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"
)

// HeroRelation is an aggregated win-rate relationship between one hero and
// another, either as teammates or as opponents.
type HeroRelation struct {
	Hero    string
	Games   int
	Wins    int
	WinRate float64
}

// HeroStats is everything we know about how one hero performs, enriched
// from the catalog when the hero is a known one.
type HeroStats struct {
	Name       string
	Role       hero.Role
	Complexity int
	Expansion  string

	TotalGames int
	Wins       int
	Losses     int
	WinRate    float64

	// Averages over tracked participations only: a match where nobody wrote
	// down kills contributes to neither numerator nor denominator.
	AvgKills   null.Float
	AvgDeaths  null.Float
	AvgAssists null.Float

	BestTeammates []HeroRelation
	BestAgainst   []HeroRelation
	WorstAgainst  []HeroRelation
}

type pairAcc struct {
	games int
	wins  int
}

type heroAcc struct {
	games, wins int

	kills, deaths, assists                      int64
	killsTracked, deathsTracked, assistsTracked int

	teammates map[string]*pairAcc
	opponents map[string]*pairAcc
}

// HeroStats aggregates per-hero win rates, synergies, and counters over the
// match log, optionally restricted to a date window. Relationships with
// fewer than minRelGames games together are left out of the ranked lists
// entirely.
func (b *Back) HeroStats(minRelGames int, from, to *time.Time) ([]HeroStats, error) {
	start := time.Now()
	defer func() { log.Printf("info: computed hero stats in %s", time.Since(start)) }()

	var matches []Match
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		matches, err = getAllMatchesOrdered(tx)
		return err
	}); err != nil {
		return nil, err
	}

	return computeHeroStats(filterMatchesByDate(matches, from, to), b.heroes, minRelGames), nil
}

// computeHeroStats is the pure aggregation pass: one pass accumulating
// per-hero and per-pair counters, one pass deriving the ranked top lists.
// No global sort of all pairs happens, the top-3 slices are maintained by
// insertion.
func computeHeroStats(matches []Match, catalog hero.Catalog, minRelGames int) []HeroStats {
	accs := make(map[string]*heroAcc)
	acc := func(name string) *heroAcc {
		a, ok := accs[name]
		if !ok {
			a = &heroAcc{
				teammates: make(map[string]*pairAcc),
				opponents: make(map[string]*pairAcc),
			}
			accs[name] = a
		}
		return a
	}

	pair := func(m map[string]*pairAcc, name string) *pairAcc {
		p, ok := m[name]
		if !ok {
			p = &pairAcc{}
			m[name] = p
		}
		return p
	}

	for _, m := range matches {
		if !replayable(m) {
			continue
		}

		for _, p := range m.Participations {
			a := acc(p.Hero)
			won := p.Won(m)

			a.games++
			if won {
				a.wins++
			}

			if p.Kills.Valid {
				a.kills += p.Kills.Int64
				a.killsTracked++
			}
			if p.Deaths.Valid {
				a.deaths += p.Deaths.Int64
				a.deathsTracked++
			}
			if p.Assists.Valid {
				a.assists += p.Assists.Int64
				a.assistsTracked++
			}

			for _, other := range m.Participations {
				if other.Hero == p.Hero {
					continue
				}

				if other.Side == p.Side {
					t := pair(a.teammates, other.Hero)
					t.games++
					if won {
						t.wins++
					}
				} else {
					o := pair(a.opponents, other.Hero)
					o.games++
					if won {
						o.wins++
					}
				}
			}
		}
	}

	ret := make([]HeroStats, 0, len(accs))
	for name, a := range accs {
		stats := HeroStats{
			Name:       name,
			TotalGames: a.games,
			Wins:       a.wins,
			Losses:     a.games - a.wins,
			WinRate:    winRate(a.wins, a.games),

			AvgKills:   trackedAverage(a.kills, a.killsTracked),
			AvgDeaths:  trackedAverage(a.deaths, a.deathsTracked),
			AvgAssists: trackedAverage(a.assists, a.assistsTracked),

			BestTeammates: topRelations(a.teammates, minRelGames, true),
			BestAgainst:   topRelations(a.opponents, minRelGames, true),
			WorstAgainst:  topRelations(a.opponents, minRelGames, false),
		}

		if h, ok := catalog.Get(name); ok {
			stats.Role = h.Role
			stats.Complexity = h.Complexity
			stats.Expansion = h.Expansion
		}

		ret = append(ret, stats)
	}

	sort.Slice(ret, func(i, j int) bool {
		if ret[i].TotalGames != ret[j].TotalGames {
			return ret[i].TotalGames > ret[j].TotalGames
		}
		return ret[i].Name < ret[j].Name
	})

	return ret
}

// topRelations keeps the up-to-3 relations with the highest (or lowest) win
// rate, skipping anything below the sample-size floor. A skipped relation
// does not claim a slot and gets no placeholder.
func topRelations(pairs map[string]*pairAcc, minGames int, best bool) []HeroRelation {
	ret := make([]HeroRelation, 0, 3)

	better := func(a, b HeroRelation) bool {
		if a.WinRate != b.WinRate {
			if best {
				return a.WinRate > b.WinRate
			}
			return a.WinRate < b.WinRate
		}
		if a.Games != b.Games {
			return a.Games > b.Games
		}
		return a.Hero < b.Hero
	}

	for name, p := range pairs {
		if p.games < minGames {
			continue
		}

		rel := HeroRelation{
			Hero:    name,
			Games:   p.games,
			Wins:    p.wins,
			WinRate: winRate(p.wins, p.games),
		}

		pos := len(ret)
		for k := range ret {
			if better(rel, ret[k]) {
				pos = k
				break
			}
		}

		if pos >= 3 {
			continue
		}

		ret = append(ret, HeroRelation{})
		copy(ret[pos+1:], ret[pos:])
		ret[pos] = rel

		if len(ret) > 3 {
			ret = ret[:3]
		}
	}

	return ret
}

func winRate(wins, games int) float64 {
	if games == 0 {
		return 0
	}

	return math.Round(1000*float64(wins)/float64(games)) / 10
}

func trackedAverage(sum int64, tracked int) null.Float {
	if tracked == 0 {
		return null.Float{}
	}

	return null.FloatFrom(math.Round(10*float64(sum)/float64(tracked)) / 10)
}

func filterMatchesByDate(matches []Match, from, to *time.Time) []Match {
	if from == nil && to == nil {
		return matches
	}

	ret := make([]Match, 0, len(matches))
	for _, m := range matches {
		playedAt := m.PlayedAt.Time()
		if from != nil && playedAt.Before(*from) {
			continue
		}
		if to != nil && playedAt.After(*to) {
			continue
		}
		ret = append(ret, m)
	}

	return ret
}
