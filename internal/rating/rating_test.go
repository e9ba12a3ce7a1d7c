package rating

import (
	"testing"
)

func TestDefaultBelief(t *testing.T) {
	b := NewDefaultBelief()

	if b.Ordinal() != 0 {
		t.Errorf("expected default ordinal 0, got %f", b.Ordinal())
	}

	if rating := b.DisplayRating(); rating != 1500 {
		t.Errorf("expected default display rating 1500, got %d", rating)
	}
}

func TestUpdateMovesBothTeams(t *testing.T) {
	winners := []Belief{NewDefaultBelief(), NewDefaultBelief()}
	losers := []Belief{NewDefaultBelief(), NewDefaultBelief()}

	updatedW, updatedL := Update(winners, losers)

	for k, b := range updatedW {
		if b.Mu <= DefaultMu {
			t.Errorf("winner #%d: expected mu > %f, got %f", k, DefaultMu, b.Mu)
		}
		if b.Sigma >= DefaultSigma {
			t.Errorf("winner #%d: expected sigma < %f, got %f", k, DefaultSigma, b.Sigma)
		}
	}

	for k, b := range updatedL {
		if b.Mu >= DefaultMu {
			t.Errorf("loser #%d: expected mu < %f, got %f", k, DefaultMu, b.Mu)
		}
		if b.Sigma >= DefaultSigma {
			t.Errorf("loser #%d: expected sigma < %f, got %f", k, DefaultSigma, b.Sigma)
		}
	}

	// The inputs must not be touched.
	if winners[0] != NewDefaultBelief() || losers[0] != NewDefaultBelief() {
		t.Error("Update modified its input slices")
	}
}

func TestUpdateIsDeterministic(t *testing.T) {
	winners := []Belief{{Mu: 27.3, Sigma: 6.1}, {Mu: 22.0, Sigma: 8.0}}
	losers := []Belief{{Mu: 25.5, Sigma: 4.2}}

	w1, l1 := Update(winners, losers)
	w2, l2 := Update(winners, losers)

	for k := range w1 {
		if w1[k] != w2[k] {
			t.Errorf("winner #%d: %v != %v", k, w1[k], w2[k])
		}
	}
	for k := range l1 {
		if l1[k] != l2[k] {
			t.Errorf("loser #%d: %v != %v", k, l1[k], l2[k])
		}
	}
}

func TestUpsetMovesMoreThanExpectedWin(t *testing.T) {
	strong := []Belief{{Mu: 35, Sigma: 3}}
	weak := []Belief{{Mu: 15, Sigma: 3}}

	expectedW, _ := Update(strong, weak)
	upsetW, _ := Update(weak, strong)

	expectedGain := expectedW[0].Mu - 35
	upsetGain := upsetW[0].Mu - 15

	if upsetGain <= expectedGain {
		t.Errorf(
			"expected an upset to move ratings more (upset %f, expected %f)",
			upsetGain, expectedGain,
		)
	}
}

func TestOneMatchScenario(t *testing.T) {
	a, b := NewDefaultBelief(), NewDefaultBelief()

	updatedW, updatedL := Update([]Belief{a}, []Belief{b})
	a, b = updatedW[0], updatedL[0]

	if a.DisplayRating() <= 1500 {
		t.Errorf("expected winner display rating above 1500, got %d", a.DisplayRating())
	}
	if b.DisplayRating() >= 1500 {
		t.Errorf("expected loser display rating below 1500, got %d", b.DisplayRating())
	}
	if a.Ordinal() <= b.Ordinal() {
		t.Errorf("expected winner ordinal above loser ordinal (%f vs %f)", a.Ordinal(), b.Ordinal())
	}
}
