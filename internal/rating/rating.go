// Package rating implements the skill model used across the whole app: a
// two-parameter belief per player and a team-vs-team update rule.
//
// Everything in here is pure math over value types, persistence and replay
// live in the back package.
package rating

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Engine-wide constants. Changing any of those invalidates every historical
// rating comparison, they are deliberately not configurable.
const (
	// DefaultMu and DefaultSigma are the belief assigned to a player the
	// first time they appear in a match.
	DefaultMu    = 25.0
	DefaultSigma = 25.0 / 3.0

	// Beta is the per-player performance noise added at match time.
	Beta = DefaultSigma / 2.0

	// Tau is added to the skill variance on every update so sigma can never
	// fully collapse and ratings keep moving for very active players.
	Tau = DefaultSigma / 100.0

	// OrdinalK is the number of deviations subtracted from the mean to get
	// the conservative skill estimate.
	OrdinalK = 3.0
)

// Display rating constants, chosen so the default belief lands on 1500 and
// typical play stays in the 1000-2000 range.
const (
	displayShift  = 25.0
	displayScale  = 30.0
	displayOffset = 750.0
)

// sigma is never allowed below this, a zero sigma would freeze a belief
// forever and break the variance math.
const sigmaFloor = 1e-4

// Belief is a player skill estimate: a mean and how unsure we are about it.
type Belief struct {
	Mu    float64
	Sigma float64
}

// NewDefaultBelief returns the belief of a player we know nothing about.
func NewDefaultBelief() Belief {
	return Belief{Mu: DefaultMu, Sigma: DefaultSigma}
}

// Ordinal is the conservative point estimate used for ranking: a player is
// ranked by what we are fairly sure they are at least worth.
func (b Belief) Ordinal() float64 {
	return b.Mu - OrdinalK*b.Sigma
}

// DisplayRating rescales the ordinal into the user-facing range. It is
// always derived, never a source of truth.
func (b Belief) DisplayRating() int {
	return int(math.Round((b.Ordinal()+displayShift)*displayScale + displayOffset))
}

// Update applies the outcome of a single match to both rosters and returns
// the updated beliefs in the same order. The input slices are not modified.
func Update(winners, losers []Belief) ([]Belief, []Belief) {
	c2 := float64(len(winners)+len(losers)) * Beta * Beta
	for _, b := range winners {
		c2 += b.Sigma*b.Sigma + Tau*Tau
	}
	for _, b := range losers {
		c2 += b.Sigma*b.Sigma + Tau*Tau
	}
	c := math.Sqrt(c2)

	var muW, muL float64
	for _, b := range winners {
		muW += b.Mu
	}
	for _, b := range losers {
		muL += b.Mu
	}

	t := (muW - muL) / c
	v := truncatedGain(t)
	w := v * (v + t)
	if w > 1 {
		w = 1
	}

	updatedW := make([]Belief, len(winners))
	for i, b := range winners {
		updatedW[i] = updateOne(b, c, c2, v, w, 1)
	}
	updatedL := make([]Belief, len(losers))
	for i, b := range losers {
		updatedL[i] = updateOne(b, c, c2, v, w, -1)
	}

	return updatedW, updatedL
}

func updateOne(b Belief, c, c2, v, w, sign float64) Belief {
	sig2 := b.Sigma*b.Sigma + Tau*Tau

	mu := b.Mu + sign*(sig2/c)*v
	shrink := 1 - (sig2/c2)*w
	if shrink < 0 {
		shrink = 0
	}
	sigma := math.Sqrt(sig2 * shrink)
	if sigma < sigmaFloor {
		sigma = sigmaFloor
	}

	return Belief{Mu: mu, Sigma: sigma}
}

// truncatedGain is the additive correction to the mean for a win at skill
// delta t, phi(t)/PHI(t). For very unlikely outcomes the CDF underflows and
// the ratio tends to -t, which we return directly.
func truncatedGain(t float64) float64 {
	denom := distuv.UnitNormal.CDF(t)
	if denom < 1e-10 {
		return -t
	}

	return distuv.UnitNormal.Prob(t) / denom
}
