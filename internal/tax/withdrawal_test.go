package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateGrossWithdrawalInsideDeduction(t *testing.T) {
	c := NewDefaultCalculator()
	ts := noTaxState()
	a := baseAssumptions()

	// No other income: the whole draw fits under the standard deduction, so
	// gross equals net and no tax is due.
	res := c.CalculateGrossWithdrawal(
		decimal.NewFromInt(10000), decimal.Zero, decimal.NewFromInt(14600), ts, 2024, a)
	assert.True(t, res.GrossWithdrawn.Equal(decimal.NewFromInt(10000)))
	assert.True(t, res.TotalTax.IsZero())
}

func TestCalculateGrossWithdrawalCrossesBrackets(t *testing.T) {
	c := NewDefaultCalculator()
	ts := noTaxState()
	a := baseAssumptions()

	existing := decimal.NewFromInt(14600) // deduction exactly consumed
	deduction := decimal.NewFromInt(14600)
	target := decimal.NewFromInt(20000)

	res := c.CalculateGrossWithdrawal(target, existing, deduction, ts, 2024, a)

	// The solver's defining property: gross minus the incremental tax nets
	// the target exactly.
	net := res.GrossWithdrawn.Sub(res.TotalTax)
	diff := net.Sub(target).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(0.01)), "net %s vs target %s", net, target)

	// 11,600 of 10% bracket nets 10,440; the remaining 9,560 nets at 88
	// cents per dollar: gross = 11,600 + 9,560/0.88.
	expectedGross := decimal.NewFromInt(11600).
		Add(decimal.NewFromInt(9560).Div(decimal.NewFromFloat(0.88)))
	assert.True(t, res.GrossWithdrawn.Sub(expectedGross).Abs().LessThan(decimal.NewFromFloat(0.01)),
		"got %s want %s", res.GrossWithdrawn, expectedGross)
}

func TestCalculateGrossWithdrawalZeroTarget(t *testing.T) {
	c := NewDefaultCalculator()
	res := c.CalculateGrossWithdrawal(decimal.Zero, decimal.NewFromInt(50000), decimal.NewFromInt(14600), noTaxState(), 2024, baseAssumptions())
	assert.True(t, res.GrossWithdrawn.IsZero())
	assert.True(t, res.TotalTax.IsZero())
}

func TestCalculateGrossWithdrawalWithStateTax(t *testing.T) {
	c := NewDefaultCalculator()
	ts := noTaxState()
	ts.StateResidency = "PA"
	a := baseAssumptions()

	target := decimal.NewFromInt(30000)
	res := c.CalculateGrossWithdrawal(target, decimal.NewFromInt(50000), decimal.NewFromInt(14600), ts, 2024, a)

	net := res.GrossWithdrawn.Sub(res.TotalTax)
	assert.True(t, net.Sub(target).Abs().LessThan(decimal.NewFromFloat(0.01)),
		"state layer must be part of the closed form: net %s", net)
	require.True(t, res.TotalTax.GreaterThan(decimal.Zero))
}

func TestMarginalTaxOn(t *testing.T) {
	c := NewDefaultCalculator()
	ts := noTaxState()
	a := baseAssumptions()
	deduction := decimal.NewFromInt(14600)

	// Stacking 10,000 on top of 14,600 lands entirely in the 10% bracket.
	extra := c.MarginalTaxOn(decimal.NewFromInt(10000), decimal.NewFromInt(14600), deduction, ts, 2024, a)
	assert.True(t, extra.Equal(decimal.NewFromInt(1000)), "got %s", extra)

	assert.True(t, c.MarginalTaxOn(decimal.Zero, decimal.NewFromInt(14600), deduction, ts, 2024, a).IsZero())
}

func TestMarginalFederalTaxOnExcludesState(t *testing.T) {
	c := NewDefaultCalculator()
	ts := noTaxState()
	ts.StateResidency = "PA"
	a := baseAssumptions()
	deduction := decimal.NewFromInt(14600)
	extra := decimal.NewFromInt(30000)

	// Federal: 15,400 taxable = 11,600 at 10% + 3,800 at 12% = 1,616.
	federal := c.MarginalFederalTaxOn(extra, decimal.Zero, deduction, ts, 2024, a)
	assert.True(t, federal.Equal(decimal.NewFromInt(1616)), "got %s", federal)

	// The combined figure adds PA's flat 3.07% on the full increment.
	combined := c.MarginalTaxOn(extra, decimal.Zero, deduction, ts, 2024, a)
	assert.True(t, combined.Sub(federal).Equal(decimal.NewFromInt(921)),
		"state share %s", combined.Sub(federal))
}
