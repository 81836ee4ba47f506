// Package montecarlo runs the projection engine across many randomized
// return paths and aggregates the outcomes into percentile bands and summary
// statistics. Reproducibility is absolute: the same seed always produces the
// same scenarios, regardless of goroutine scheduling.
package montecarlo

import (
	"math"

	"github.com/shopspring/decimal"
)

// State is a SeededRandom snapshot. Restoring it on any generator reproduces
// the exact continuation of the sequence.
type State struct {
	Seed     uint64  `json:"seed"`
	HasSpare bool    `json:"hasSpare"`
	Spare    float64 `json:"spare"`
}

// SeededRandom is a deterministic pseudo-random source built on a
// splitmix64-style mixer. It is not safe for concurrent use; give each
// scenario its own instance.
type SeededRandom struct {
	state State
}

// NewSeededRandom creates a generator from an integer seed. Two generators
// with the same seed produce identical sequences.
func NewSeededRandom(seed int64) *SeededRandom {
	return &SeededRandom{state: State{Seed: uint64(seed)}}
}

// Next returns the next uniform sample in [0, 1).
func (r *SeededRandom) Next() float64 {
	r.state.Seed += 0x9E3779B97F4A7C15
	z := r.state.Seed
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return float64(z>>11) / (1 << 53)
}

// Normal returns a normally distributed sample via the Box-Muller transform,
// consuming two uniforms per pair of outputs and caching the second.
func (r *SeededRandom) Normal(mean, stdDev float64) float64 {
	if r.state.HasSpare {
		r.state.HasSpare = false
		return mean + stdDev*r.state.Spare
	}
	var u1 float64
	for u1 == 0 {
		u1 = r.Next()
	}
	u2 := r.Next()
	radius := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2
	r.state.Spare = radius * math.Sin(theta)
	r.state.HasSpare = true
	return mean + stdDev*radius*math.Cos(theta)
}

// Lognormal returns a growth-factor sample that is always strictly positive:
// exp of a normal draw whose location is set so the expected growth factor
// equals meanGrowthFactor.
func (r *SeededRandom) Lognormal(meanGrowthFactor, stdDevPct float64) float64 {
	if meanGrowthFactor <= 0 {
		meanGrowthFactor = math.SmallestNonzeroFloat64
	}
	mu := math.Log(meanGrowthFactor) - stdDevPct*stdDevPct/2
	return math.Exp(r.Normal(mu, stdDevPct))
}

// GenerateReturns produces n normally distributed annual returns as
// fractional rates (0.07 for 7%).
func (r *SeededRandom) GenerateReturns(n int, mean, stdDev decimal.Decimal) []decimal.Decimal {
	m, _ := mean.Float64()
	s, _ := stdDev.Float64()
	returns := make([]decimal.Decimal, n)
	for i := range returns {
		returns[i] = decimal.NewFromFloat(r.Normal(m, s))
	}
	return returns
}

// GenerateLognormalReturns produces n annual returns that can never reach
// -100%: each is a lognormal growth factor minus one.
func (r *SeededRandom) GenerateLognormalReturns(n int, mean, stdDev decimal.Decimal) []decimal.Decimal {
	m, _ := mean.Float64()
	s, _ := stdDev.Float64()
	returns := make([]decimal.Decimal, n)
	for i := range returns {
		returns[i] = decimal.NewFromFloat(r.Lognormal(1+m, s) - 1)
	}
	return returns
}

// GetState snapshots the generator.
func (r *SeededRandom) GetState() State {
	return r.state
}

// Reset restores a snapshot taken with GetState.
func (r *SeededRandom) Reset(state State) {
	r.state = state
}

// ResetSeed reinitializes the generator from a fresh seed.
func (r *SeededRandom) ResetSeed(seed int64) {
	r.state = State{Seed: uint64(seed)}
}
