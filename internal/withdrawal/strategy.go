// Package withdrawal implements the three interchangeable retirement
// withdrawal policies: fixed-real, percentage-of-portfolio, and
// Guyton-Klinger guardrails. All three are pure functions; continuity
// between years flows through the domain.StrategyState each returns.
package withdrawal

import (
	"github.com/fincast/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Request carries one year's inputs to a withdrawal policy.
type Request struct {
	CurrentPortfolio decimal.Decimal
	InitialPortfolio decimal.Decimal
	Rate             decimal.Decimal
	InflationRate    decimal.Decimal
	YearsElapsed     int
	YearsRemaining   int
	// Previous is last year's state for stateful policies; nil in year 0.
	Previous *domain.StrategyState
}

// Strategy decides a year's target withdrawal from portfolio state.
type Strategy interface {
	Name() domain.WithdrawalStrategyName
	Calculate(req Request) domain.StrategyState
}

// FixedReal withdraws initialPortfolio × rate in year 0 and the same base
// amount inflated by (1+inflation)^N thereafter, ignoring actual performance.
type FixedReal struct{}

// Name implements Strategy.
func (FixedReal) Name() domain.WithdrawalStrategyName { return domain.StrategyFixedReal }

// Calculate implements Strategy. The initial portfolio is captured in year 0
// and never re-based.
func (FixedReal) Calculate(req Request) domain.StrategyState {
	initial := req.CurrentPortfolio
	if req.Previous != nil && !req.Previous.InitialPortfolio.IsZero() {
		initial = req.Previous.InitialPortfolio
	} else if !req.InitialPortfolio.IsZero() {
		initial = req.InitialPortfolio
	}
	base := initial.Mul(req.Rate)
	factor := one.Add(req.InflationRate).Pow(decimal.NewFromInt(int64(req.YearsElapsed)))
	return domain.StrategyState{
		Amount:           base.Mul(factor),
		BaseWithdrawal:   base,
		InitialPortfolio: initial,
	}
}

// Percentage withdraws currentPortfolio × rate, recomputed fresh every year.
type Percentage struct{}

// Name implements Strategy.
func (Percentage) Name() domain.WithdrawalStrategyName { return domain.StrategyPercentage }

// Calculate implements Strategy. The policy is memoryless.
func (Percentage) Calculate(req Request) domain.StrategyState {
	amount := req.CurrentPortfolio.Mul(req.Rate)
	return domain.StrategyState{Amount: amount, BaseWithdrawal: amount, InitialPortfolio: req.CurrentPortfolio}
}

// Guardrail branch labels recorded in StrategyState.Adjustment.
const (
	AdjustmentCut       = "guardrail-cut"
	AdjustmentRaise     = "guardrail-raise"
	AdjustmentInflation = "inflation"
	AdjustmentInitial   = "initial"
)

// GuytonKlinger inflation-adjusts last year's withdrawal by default, cuts it
// when the implied withdrawal rate breaches the upper guardrail (unless the
// plan is within its capital-preservation window of life expectancy), and
// raises it when the rate falls through the lower guardrail. Whichever branch
// fires becomes the new baseline, so adjustments compound.
type GuytonKlinger struct {
	UpperGuardrail    decimal.Decimal
	LowerGuardrail    decimal.Decimal
	AdjustmentPct     decimal.Decimal
	PreservationYears int
}

// NewGuytonKlinger builds the policy from the investment assumptions,
// substituting the conventional defaults (1.2 / 0.8 / 10% / 15 years) for any
// zero-valued field.
func NewGuytonKlinger(inv domain.Investments) GuytonKlinger {
	gk := GuytonKlinger{
		UpperGuardrail:    inv.GKUpperGuardrail,
		LowerGuardrail:    inv.GKLowerGuardrail,
		AdjustmentPct:     inv.GKAdjustmentPct,
		PreservationYears: inv.GKPreservationYears,
	}
	if gk.UpperGuardrail.IsZero() {
		gk.UpperGuardrail = decimal.NewFromFloat(1.2)
	}
	if gk.LowerGuardrail.IsZero() {
		gk.LowerGuardrail = decimal.NewFromFloat(0.8)
	}
	if gk.AdjustmentPct.IsZero() {
		gk.AdjustmentPct = decimal.NewFromFloat(0.10)
	}
	if gk.PreservationYears == 0 {
		gk.PreservationYears = 15
	}
	return gk
}

// Name implements Strategy.
func (GuytonKlinger) Name() domain.WithdrawalStrategyName { return domain.StrategyGuytonKlinger }

// Calculate implements Strategy.
//
// The upper-guardrail cut multiplies the baseline by (1 - adjustmentPct) with
// no inflation adjustment that year. The lower-guardrail raise scales the
// baseline by (1 + inflation × 1.5), a prosperity bump of half again the
// ordinary cost-of-living increase.
func (g GuytonKlinger) Calculate(req Request) domain.StrategyState {
	if req.Previous == nil || req.Previous.BaseWithdrawal.IsZero() {
		amount := req.CurrentPortfolio.Mul(req.Rate)
		return domain.StrategyState{
			Amount:           amount,
			BaseWithdrawal:   amount,
			InitialPortfolio: req.CurrentPortfolio,
			Adjustment:       AdjustmentInitial,
		}
	}

	base := req.Previous.BaseWithdrawal
	result := domain.StrategyState{InitialPortfolio: req.Previous.InitialPortfolio}

	if req.CurrentPortfolio.GreaterThan(decimal.Zero) {
		implied := base.Div(req.CurrentPortfolio)
		switch {
		case implied.GreaterThan(req.Rate.Mul(g.UpperGuardrail)) && req.YearsRemaining > g.PreservationYears:
			result.Amount = base.Mul(one.Sub(g.AdjustmentPct))
			result.Adjustment = AdjustmentCut
		case implied.LessThan(req.Rate.Mul(g.LowerGuardrail)):
			bump := one.Add(req.InflationRate.Mul(decimal.NewFromFloat(1.5)))
			result.Amount = base.Mul(bump)
			result.Adjustment = AdjustmentRaise
		}
	}
	if result.Adjustment == "" {
		result.Amount = base.Mul(one.Add(req.InflationRate))
		result.Adjustment = AdjustmentInflation
	}
	result.BaseWithdrawal = result.Amount
	return result
}

// CalculateStrategyWithdrawal routes to the policy named by the investment
// assumptions. Unknown names fall back to the percentage policy, which can
// never over-draw a shrinking portfolio.
func CalculateStrategyWithdrawal(inv domain.Investments, req Request) domain.StrategyState {
	if req.Rate.IsZero() {
		req.Rate = inv.WithdrawalRate
	}
	switch inv.WithdrawalStrategy {
	case domain.StrategyFixedReal:
		return FixedReal{}.Calculate(req)
	case domain.StrategyGuytonKlinger:
		return NewGuytonKlinger(inv).Calculate(req)
	default:
		return Percentage{}.Calculate(req)
	}
}
