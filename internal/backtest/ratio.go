package backtest

// RatioState tags how a ratio metric resolved. Metrics whose denominator can
// legitimately vanish (Sortino, profit factor) report an explicit state
// instead of a raw Inf/NaN, so serialization can never emit a non-finite
// number.
type RatioState string

const (
	RatioStateOK RatioState = "ok"
	// RatioStateUndefined: no data to compute the ratio from.
	RatioStateUndefined RatioState = "undefined"
	// RatioStateUnbounded: the denominator is zero while the numerator is
	// favorable (no losing bets, no downside deviation). Value is kept at 0;
	// use Float64 for a capped numeric stand-in.
	RatioStateUnbounded RatioState = "unbounded"
)

// Ratio is the JSON-safe result of a ratio metric.
type Ratio struct {
	Value float64    `json:"value"`
	State RatioState `json:"state"`
}

// unboundedRatioCap is the numeric stand-in for an unbounded ratio in
// scoring contexts.
const unboundedRatioCap = 999

// RatioOf wraps a finite computed value.
func RatioOf(v float64) Ratio {
	return Ratio{Value: v, State: RatioStateOK}
}

// UndefinedRatio marks a ratio with no data behind it.
func UndefinedRatio() Ratio {
	return Ratio{State: RatioStateUndefined}
}

// UnboundedRatio marks an "infinitely favorable" ratio.
func UnboundedRatio() Ratio {
	return Ratio{State: RatioStateUnbounded}
}

// IsUnbounded reports whether the ratio resolved as unbounded.
func (r Ratio) IsUnbounded() bool {
	return r.State == RatioStateUnbounded
}

// Float64 returns a finite numeric view of the ratio: the value for ok,
// zero for undefined, and a fixed cap for unbounded.
func (r Ratio) Float64() float64 {
	switch r.State {
	case RatioStateOK:
		return r.Value
	case RatioStateUnbounded:
		return unboundedRatioCap
	default:
		return 0
	}
}
