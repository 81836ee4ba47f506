// Package tax computes federal, state, and FICA liability over the
// parameter tables in taxparams, and solves the inverse problem of the gross
// withdrawal needed to net a target amount after tax.
package tax

import (
	"github.com/fincast/fincast/internal/domain"
	"github.com/fincast/fincast/internal/taxparams"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Calculator is a stateless facade over the shared parameter store. Safe for
// concurrent use.
type Calculator struct {
	Params *taxparams.Store
}

// NewCalculator creates a calculator over the given parameter store.
func NewCalculator(params *taxparams.Store) *Calculator {
	return &Calculator{Params: params}
}

// NewDefaultCalculator creates a calculator over the built-in tables.
func NewDefaultCalculator() *Calculator {
	return NewCalculator(taxparams.DefaultStore())
}

// CalculateBracketTax applies progressive marginal brackets to
// max(0, income - deductions).
func CalculateBracketTax(income, deductions decimal.Decimal, table taxparams.BracketTable) decimal.Decimal {
	taxable := income.Sub(deductions)
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, bracket := range table {
		if taxable.LessThanOrEqual(bracket.Min) {
			break
		}
		inBracket := decimal.Min(taxable, bracket.Max).Sub(bracket.Min)
		if inBracket.GreaterThan(decimal.Zero) {
			total = total.Add(inBracket.Mul(bracket.Rate))
		}
	}
	return total
}

// MarginalRate returns the bracket rate applying to the next dollar of
// taxable income and the dollar headroom before the next bracket begins.
// Past the top bracket the headroom is taxparams.Unbounded.
func MarginalRate(taxable decimal.Decimal, table taxparams.BracketTable) (decimal.Decimal, decimal.Decimal) {
	if taxable.LessThan(decimal.Zero) {
		taxable = decimal.Zero
	}
	for _, bracket := range table {
		if taxable.LessThan(bracket.Max) {
			return bracket.Rate, bracket.Max.Sub(taxable)
		}
	}
	if len(table) == 0 {
		return decimal.Zero, taxparams.Unbounded
	}
	top := table[len(table)-1]
	return top.Rate, taxparams.Unbounded
}

// Deduction resolves the deduction amount for the tax state: the standard
// deduction, the itemized amount, or (Auto) whichever is larger.
func (c *Calculator) Deduction(ts domain.TaxState, year int, a domain.Assumptions) decimal.Decimal {
	std := c.Params.StandardDeductionFor(ts.TableYear(year), ts.FilingStatus, a.Macro.InflationRate, a.Macro.InflationAdjusted)
	switch ts.DeductionMethod {
	case domain.DeductionItemized:
		return ts.ItemizedAmount
	case domain.DeductionAuto:
		return decimal.Max(std, ts.ItemizedAmount)
	default:
		return std
	}
}

// CalculateFederalTax computes federal income tax on the given gross income
// and deduction. A manual override in the tax state replaces the computed
// figure outright.
func (c *Calculator) CalculateFederalTax(income, deductions decimal.Decimal, ts domain.TaxState, year int, a domain.Assumptions) decimal.Decimal {
	if ts.FederalOverride != nil {
		return *ts.FederalOverride
	}
	table := c.Params.FederalBrackets(ts.TableYear(year), ts.FilingStatus, a.Macro.InflationRate, a.Macro.InflationAdjusted)
	return CalculateBracketTax(income, deductions, table)
}

// CalculateStateTax computes state income tax. State tables apply no
// separate deduction; states without a table owe nothing.
func (c *Calculator) CalculateStateTax(income decimal.Decimal, ts domain.TaxState, year int, a domain.Assumptions) decimal.Decimal {
	if ts.StateOverride != nil {
		return *ts.StateOverride
	}
	table := c.Params.StateBracketsFor(ts.StateResidency, ts.TableYear(year), a.Macro.InflationRate, a.Macro.InflationAdjusted)
	if len(table) == 0 {
		return decimal.Zero
	}
	return CalculateBracketTax(income, decimal.Zero, table)
}

// CalculateFicaTax computes Social Security and Medicare payroll tax on
// earned income only.
func (c *Calculator) CalculateFicaTax(earnedIncome decimal.Decimal, ts domain.TaxState, year int, a domain.Assumptions) decimal.Decimal {
	if ts.FICAOverride != nil {
		return *ts.FICAOverride
	}
	if earnedIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	p := c.Params.FICAFor(ts.TableYear(year), a.Macro.InflationRate, a.Macro.InflationAdjusted)
	ssWages := decimal.Min(earnedIncome, p.SocialSecurityBase)
	total := ssWages.Mul(p.SocialSecurityRate).Add(earnedIncome.Mul(p.MedicareRate))
	if threshold, ok := p.AdditionalThreshold[ts.FilingStatus]; ok && earnedIncome.GreaterThan(threshold) {
		total = total.Add(earnedIncome.Sub(threshold).Mul(p.AdditionalRate))
	}
	return total
}

// CalculateTotalTax returns federal + state + FICA for a year's income,
// where only earnedIncome is subject to FICA.
func (c *Calculator) CalculateTotalTax(grossIncome, earnedIncome, deductions decimal.Decimal, ts domain.TaxState, year int, a domain.Assumptions) decimal.Decimal {
	federal := c.CalculateFederalTax(grossIncome, deductions, ts, year, a)
	state := c.CalculateStateTax(grossIncome, ts, year, a)
	fica := c.CalculateFicaTax(earnedIncome, ts, year, a)
	return federal.Add(state).Add(fica)
}

// incomeTax is federal + state on ordinary income, excluding FICA. Overrides
// are intentionally bypassed here: the marginal math that consumes this must
// see the real bracket structure.
func (c *Calculator) incomeTax(income, deductions decimal.Decimal, ts domain.TaxState, year int, a domain.Assumptions) decimal.Decimal {
	fedTable := c.Params.FederalBrackets(ts.TableYear(year), ts.FilingStatus, a.Macro.InflationRate, a.Macro.InflationAdjusted)
	stateTable := c.Params.StateBracketsFor(ts.StateResidency, ts.TableYear(year), a.Macro.InflationRate, a.Macro.InflationAdjusted)
	total := CalculateBracketTax(income, deductions, fedTable)
	if len(stateTable) > 0 {
		total = total.Add(CalculateBracketTax(income, decimal.Zero, stateTable))
	}
	return total
}

// GetCombinedMarginalRate composes the federal, state, and (for earned
// income) FICA marginal layers at the given income, returning the combined
// rate on the next dollar and the headroom until any layer's bracket
// changes.
func (c *Calculator) GetCombinedMarginalRate(income, deductions decimal.Decimal, earned bool, ts domain.TaxState, year int, a domain.Assumptions) (decimal.Decimal, decimal.Decimal) {
	fedRate, fedRoom := c.federalMarginal(income, deductions, ts, year, a)
	rate := fedRate
	headroom := fedRoom

	stateTable := c.Params.StateBracketsFor(ts.StateResidency, ts.TableYear(year), a.Macro.InflationRate, a.Macro.InflationAdjusted)
	if len(stateTable) > 0 {
		stateRate, stateRoom := MarginalRate(income, stateTable)
		rate = rate.Add(stateRate)
		headroom = decimal.Min(headroom, stateRoom)
	}

	if earned {
		p := c.Params.FICAFor(ts.TableYear(year), a.Macro.InflationRate, a.Macro.InflationAdjusted)
		rate = rate.Add(p.MedicareRate)
		if income.LessThan(p.SocialSecurityBase) {
			rate = rate.Add(p.SocialSecurityRate)
			headroom = decimal.Min(headroom, p.SocialSecurityBase.Sub(income))
		}
		if threshold, ok := p.AdditionalThreshold[ts.FilingStatus]; ok {
			if income.GreaterThanOrEqual(threshold) {
				rate = rate.Add(p.AdditionalRate)
			} else {
				headroom = decimal.Min(headroom, threshold.Sub(income))
			}
		}
	}

	return rate, headroom
}

// federalMarginal treats unconsumed deduction as a zero-rate bracket: while
// gross income sits below the deduction the next dollar is untaxed and the
// headroom is the deduction still unfilled.
func (c *Calculator) federalMarginal(income, deductions decimal.Decimal, ts domain.TaxState, year int, a domain.Assumptions) (decimal.Decimal, decimal.Decimal) {
	if income.LessThan(deductions) {
		return decimal.Zero, deductions.Sub(income)
	}
	table := c.Params.FederalBrackets(ts.TableYear(year), ts.FilingStatus, a.Macro.InflationRate, a.Macro.InflationAdjusted)
	return MarginalRate(income.Sub(deductions), table)
}
