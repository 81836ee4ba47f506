package tax

import (
	"github.com/fincast/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// GrossWithdrawalResult is the solved pre-tax withdrawal whose after-tax
// proceeds equal the requested net amount.
type GrossWithdrawalResult struct {
	GrossWithdrawn decimal.Decimal
	TotalTax       decimal.Decimal
}

// maxSolverSegments bounds the bracket walk; no real table has anywhere near
// this many rate changes.
const maxSolverSegments = 64

// CalculateGrossWithdrawal solves, segment by bracket segment, for the gross
// ordinary-income withdrawal that nets targetNet after federal and state tax,
// given a pre-existing income baseline that shifts which brackets apply. The
// computation is closed-form per segment: within one segment every gross
// dollar nets (1 - combined marginal rate), so the residual need divides out
// directly. FICA never applies: withdrawals are not earned income.
func (c *Calculator) CalculateGrossWithdrawal(targetNet, existingIncome, existingDeduction decimal.Decimal, ts domain.TaxState, year int, a domain.Assumptions) GrossWithdrawalResult {
	if targetNet.LessThanOrEqual(decimal.Zero) {
		return GrossWithdrawalResult{GrossWithdrawn: decimal.Zero, TotalTax: decimal.Zero}
	}

	gross := decimal.Zero
	income := existingIncome
	remaining := targetNet

	for i := 0; i < maxSolverSegments && remaining.GreaterThan(decimal.Zero); i++ {
		rate, headroom := c.GetCombinedMarginalRate(income, existingDeduction, false, ts, year, a)
		netPerGross := one.Sub(rate)
		if netPerGross.LessThanOrEqual(decimal.Zero) {
			// Confiscatory combined rate; cannot net anything further.
			break
		}
		segmentNet := headroom.Mul(netPerGross)
		if remaining.LessThanOrEqual(segmentNet) {
			gross = gross.Add(remaining.Div(netPerGross))
			remaining = decimal.Zero
			break
		}
		gross = gross.Add(headroom)
		income = income.Add(headroom)
		remaining = remaining.Sub(segmentNet)
	}

	totalTax := c.MarginalTaxOn(gross, existingIncome, existingDeduction, ts, year, a)
	return GrossWithdrawalResult{GrossWithdrawn: gross, TotalTax: totalTax}
}

// MarginalTaxOn returns the incremental federal + state tax caused by
// stacking extra ordinary income on top of an existing baseline: a
// before/after bracket comparison.
func (c *Calculator) MarginalTaxOn(extraIncome, existingIncome, deduction decimal.Decimal, ts domain.TaxState, year int, a domain.Assumptions) decimal.Decimal {
	if extraIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	before := c.incomeTax(existingIncome, deduction, ts, year, a)
	after := c.incomeTax(existingIncome.Add(extraIncome), deduction, ts, year, a)
	return after.Sub(before)
}

// MarginalFederalTaxOn is the federal-only share of MarginalTaxOn. Callers
// attributing an incremental tax figure across the federal and state lines
// take this for the federal side and the difference for the state side.
func (c *Calculator) MarginalFederalTaxOn(extraIncome, existingIncome, deduction decimal.Decimal, ts domain.TaxState, year int, a domain.Assumptions) decimal.Decimal {
	if extraIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	table := c.Params.FederalBrackets(ts.TableYear(year), ts.FilingStatus, a.Macro.InflationRate, a.Macro.InflationAdjusted)
	before := CalculateBracketTax(existingIncome, deduction, table)
	after := CalculateBracketTax(existingIncome.Add(extraIncome), deduction, table)
	return after.Sub(before)
}
