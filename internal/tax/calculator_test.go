package tax

import (
	"testing"

	"github.com/fincast/fincast/internal/domain"
	"github.com/fincast/fincast/internal/taxparams"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noTaxState() domain.TaxState {
	return domain.TaxState{
		FilingStatus:    domain.FilingSingle,
		StateResidency:  "TX",
		DeductionMethod: domain.DeductionStandard,
	}
}

func baseAssumptions() domain.Assumptions {
	return domain.Assumptions{
		Macro: domain.Macro{
			InflationRate:     decimal.NewFromFloat(0.03),
			InflationAdjusted: false,
		},
	}
}

func TestCalculateFederalTax2024Single(t *testing.T) {
	c := NewDefaultCalculator()
	ts := noTaxState()
	a := baseAssumptions()

	// $60,000 gross, $14,600 standard deduction: $45,400 taxable.
	// 11,600 at 10% + 33,800 at 12% = 1,160 + 4,056.
	tax := c.CalculateFederalTax(decimal.NewFromInt(60000), decimal.NewFromInt(14600), ts, 2024, a)
	assert.True(t, tax.Equal(decimal.NewFromInt(5216)), "got %s", tax)
}

func TestCalculateFederalTaxBelowDeduction(t *testing.T) {
	c := NewDefaultCalculator()
	tax := c.CalculateFederalTax(decimal.NewFromInt(10000), decimal.NewFromInt(14600), noTaxState(), 2024, baseAssumptions())
	assert.True(t, tax.IsZero())
}

func TestFederalOverrideReplacesComputedTax(t *testing.T) {
	c := NewDefaultCalculator()
	ts := noTaxState()
	override := decimal.NewFromInt(1234)
	ts.FederalOverride = &override

	tax := c.CalculateFederalTax(decimal.NewFromInt(500000), decimal.Zero, ts, 2024, baseAssumptions())
	assert.True(t, tax.Equal(override), "override replaces outright, no blending")
}

func TestCalculateStateTax(t *testing.T) {
	c := NewDefaultCalculator()
	a := baseAssumptions()

	pa := noTaxState()
	pa.StateResidency = "PA"
	tax := c.CalculateStateTax(decimal.NewFromInt(100000), pa, 2024, a)
	assert.True(t, tax.Equal(decimal.NewFromInt(3070)), "flat rate, no state deduction")

	tx := noTaxState()
	assert.True(t, c.CalculateStateTax(decimal.NewFromInt(100000), tx, 2024, a).IsZero())
}

func TestCalculateFicaTax(t *testing.T) {
	c := NewDefaultCalculator()
	ts := noTaxState()
	a := baseAssumptions()

	// Earned $200,000 in 2024: SS capped at the $168,600 base.
	fica := c.CalculateFicaTax(decimal.NewFromInt(200000), ts, 2024, a)
	expected := decimal.NewFromFloat(168600 * 0.062).Add(decimal.NewFromFloat(200000 * 0.0145))
	assert.True(t, fica.Equal(expected), "got %s want %s", fica, expected)

	// Over the additional-Medicare threshold.
	fica = c.CalculateFicaTax(decimal.NewFromInt(250000), ts, 2024, a)
	expected = decimal.NewFromFloat(168600 * 0.062).
		Add(decimal.NewFromFloat(250000 * 0.0145)).
		Add(decimal.NewFromFloat(50000 * 0.009))
	assert.True(t, fica.Equal(expected), "got %s want %s", fica, expected)

	assert.True(t, c.CalculateFicaTax(decimal.Zero, ts, 2024, a).IsZero())
}

func TestDeductionMethods(t *testing.T) {
	c := NewDefaultCalculator()
	a := baseAssumptions()

	ts := noTaxState()
	std := c.Deduction(ts, 2024, a)
	assert.True(t, std.Equal(decimal.NewFromInt(14600)))

	ts.DeductionMethod = domain.DeductionItemized
	ts.ItemizedAmount = decimal.NewFromInt(9000)
	assert.True(t, c.Deduction(ts, 2024, a).Equal(decimal.NewFromInt(9000)),
		"itemized is honored even when smaller")

	ts.DeductionMethod = domain.DeductionAuto
	assert.True(t, c.Deduction(ts, 2024, a).Equal(decimal.NewFromInt(14600)),
		"auto picks the larger")
}

func TestGetCombinedMarginalRate(t *testing.T) {
	c := NewDefaultCalculator()
	ts := noTaxState()
	a := baseAssumptions()
	deduction := decimal.NewFromInt(14600)

	// Below the deduction the next dollar is untaxed.
	rate, headroom := c.GetCombinedMarginalRate(decimal.NewFromInt(5000), deduction, false, ts, 2024, a)
	assert.True(t, rate.IsZero())
	assert.True(t, headroom.Equal(decimal.NewFromInt(9600)))

	// Just past the deduction: 10% bracket with 11,600 of room.
	rate, headroom = c.GetCombinedMarginalRate(deduction, deduction, false, ts, 2024, a)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.10)))
	assert.True(t, headroom.Equal(decimal.NewFromInt(11600)))

	// Earned income adds the FICA layers.
	rate, _ = c.GetCombinedMarginalRate(deduction, deduction, true, ts, 2024, a)
	expected := decimal.NewFromFloat(0.10).
		Add(decimal.NewFromFloat(0.062)).
		Add(decimal.NewFromFloat(0.0145))
	assert.True(t, rate.Equal(expected), "got %s", rate)
}

func TestMarginalRateTopBracket(t *testing.T) {
	c := NewDefaultCalculator()
	table := c.Params.FederalBrackets(2024, domain.FilingSingle, decimal.Zero, false)

	taxable := decimal.NewFromInt(700000)
	rate, headroom := MarginalRate(taxable, table)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.37)))
	assert.True(t, headroom.Equal(taxparams.Unbounded.Sub(taxable)),
		"the top bracket's ceiling is the shared sentinel, got %s", headroom)

	rate, headroom = MarginalRate(taxable, nil)
	assert.True(t, rate.IsZero())
	assert.True(t, headroom.Equal(taxparams.Unbounded), "an empty table is all headroom")
}

func TestCalculateTotalTax(t *testing.T) {
	c := NewDefaultCalculator()
	ts := noTaxState()
	ts.StateResidency = "PA"
	a := baseAssumptions()

	gross := decimal.NewFromInt(60000)
	earned := decimal.NewFromInt(60000)
	deduction := decimal.NewFromInt(14600)

	total := c.CalculateTotalTax(gross, earned, deduction, ts, 2024, a)
	federal := c.CalculateFederalTax(gross, deduction, ts, 2024, a)
	state := c.CalculateStateTax(gross, ts, 2024, a)
	fica := c.CalculateFicaTax(earned, ts, 2024, a)
	require.True(t, total.Equal(federal.Add(state).Add(fica)))
}
