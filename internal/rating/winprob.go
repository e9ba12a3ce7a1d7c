package rating

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// z for a two-sided 95% interval.
const confidenceZ = 1.96

// Probability is a win probability estimate for a Blue vs Red matchup, in
// rounded percentage points. Low/High bound a 95% interval on the skill
// delta, PBlue and PRed always sum to exactly 100.
type Probability struct {
	PBlue     float64 `json:"pBlue"`
	PBlueLow  float64 `json:"pBlueLow"`
	PBlueHigh float64 `json:"pBlueHigh"`
	PRed      float64 `json:"pRed"`
	PRedLow   float64 `json:"pRedLow"`
	PRedHigh  float64 `json:"pRedHigh"`
}

// WinProbability estimates how likely the blue roster is to beat the red
// roster right now.
//
// Two different variances are at play: the point estimate includes the
// per-player performance noise (how likely is a win at match time), the
// interval uses only the skill uncertainty (how unsure are we about the true
// relative strength of the rosters).
func WinProbability(blue, red []Belief) Probability {
	var muBlue, muRed, skillVar, perfVar float64

	for _, b := range blue {
		muBlue += b.Mu
		skillVar += b.Sigma * b.Sigma
	}
	for _, b := range red {
		muRed += b.Mu
		skillVar += b.Sigma * b.Sigma
	}
	perfVar = skillVar + float64(len(blue)+len(red))*Beta*Beta

	delta := muBlue - muRed
	sdPerf := math.Sqrt(perfVar)
	sdSkill := math.Sqrt(skillVar)

	p := winChance(delta, sdPerf)
	low := winChance(delta-confidenceZ*sdSkill, sdPerf)
	high := winChance(delta+confidenceZ*sdSkill, sdPerf)

	return Probability{
		PBlue:     p,
		PBlueLow:  low,
		PBlueHigh: high,
		PRed:      100 - p,
		PRedLow:   100 - high,
		PRedHigh:  100 - low,
	}
}

func winChance(delta, sd float64) float64 {
	return roundPercent(distuv.UnitNormal.CDF(delta / sd))
}

// roundPercent converts a probability to a percentage with one decimal.
func roundPercent(p float64) float64 {
	return math.Round(p*1000) / 10
}
