package sizing

// FixedAmount stakes a constant dollar amount regardless of confidence or
// odds, limited by the bankroll-fraction cap.
type FixedAmount struct {
	params Params
}

// Name returns the policy identifier.
func (f *FixedAmount) Name() Strategy { return StrategyFixedAmount }

// Size returns the configured amount, capped at the maximum bankroll fraction.
func (f *FixedAmount) Size(bankroll, confidence, decimalOdds, winProbability float64) float64 {
	if bankroll <= 0 {
		return 0
	}
	maxStake := bankroll * f.params.MaxBetFraction
	if f.params.BetAmount < maxStake {
		return f.params.BetAmount
	}
	return maxStake
}

// Percentage stakes a fixed percentage of the current bankroll. BetAmount is
// interpreted as a percent value (5 means 5% of bankroll) for this policy.
type Percentage struct {
	params Params
}

// Name returns the policy identifier.
func (p *Percentage) Name() Strategy { return StrategyPercentage }

// Size returns bankroll * bet_amount / 100.
func (p *Percentage) Size(bankroll, confidence, decimalOdds, winProbability float64) float64 {
	if bankroll <= 0 {
		return 0
	}
	return bankroll * (p.params.BetAmount / 100)
}

// KellyCriterion stakes the Kelly fraction of bankroll:
// f = (b*p - q) / b with b = decimal odds - 1, p = win probability, q = 1-p.
// The fraction is clamped to [0, MaxBetFraction]; a zero stake on negative
// expected value is correct behavior, not an error.
type KellyCriterion struct {
	params Params
}

// Name returns the policy identifier.
func (k *KellyCriterion) Name() Strategy { return StrategyKellyCriterion }

// Size returns bankroll times the clamped (optionally fractional) Kelly
// fraction. Degenerate odds (decimal odds <= 1) always size to zero.
func (k *KellyCriterion) Size(bankroll, confidence, decimalOdds, winProbability float64) float64 {
	if bankroll <= 0 {
		return 0
	}
	b := decimalOdds - 1.0
	if b <= 0 {
		return 0
	}
	p := winProbability
	q := 1.0 - p
	fraction := (b*p - q) / b
	if k.params.KellyMultiplier > 0 {
		fraction *= k.params.KellyMultiplier
	}
	if fraction < 0 {
		return 0
	}
	if fraction > k.params.MaxBetFraction {
		fraction = k.params.MaxBetFraction
	}
	return bankroll * fraction
}

// ConfidenceBased scales a percent-of-bankroll stake linearly with model
// confidence, mapping the [0.5, 1.0] confidence range onto [0, 1].
type ConfidenceBased struct {
	params Params
}

// Name returns the policy identifier.
func (c *ConfidenceBased) Name() Strategy { return StrategyConfidenceBased }

// Size returns bankroll * (bet_amount/100) * (confidence - 0.5) * 2, floored
// at zero for sub-coin-flip confidence.
func (c *ConfidenceBased) Size(bankroll, confidence, decimalOdds, winProbability float64) float64 {
	if bankroll <= 0 {
		return 0
	}
	factor := (confidence - 0.5) * 2
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return bankroll * (c.params.BetAmount / 100) * factor
}
