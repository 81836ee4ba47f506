package withdrawal

import (
	"testing"

	"github.com/fincast/fincast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFixedRealCompoundsFromInitialPortfolio(t *testing.T) {
	rate := decimal.NewFromFloat(0.04)
	inflation := decimal.NewFromFloat(0.03)

	year0 := FixedReal{}.Calculate(Request{
		CurrentPortfolio: decimal.NewFromInt(1000000),
		Rate:             rate,
		InflationRate:    inflation,
		YearsElapsed:     0,
	})
	assert.True(t, year0.Amount.Equal(decimal.NewFromInt(40000)))

	// Year 5, portfolio halved: the base never re-bases.
	year5 := FixedReal{}.Calculate(Request{
		CurrentPortfolio: decimal.NewFromInt(500000),
		Rate:             rate,
		InflationRate:    inflation,
		YearsElapsed:     5,
		Previous:         &year0,
	})
	expected := decimal.NewFromInt(40000).Mul(decimal.NewFromFloat(1.03).Pow(decimal.NewFromInt(5)))
	assert.True(t, year5.Amount.Equal(expected), "got %s want %s", year5.Amount, expected)
	assert.True(t, year5.InitialPortfolio.Equal(decimal.NewFromInt(1000000)))
}

func TestPercentageHasNoMemory(t *testing.T) {
	rate := decimal.NewFromFloat(0.04)
	prev := Percentage{}.Calculate(Request{CurrentPortfolio: decimal.NewFromInt(1000000), Rate: rate})

	result := Percentage{}.Calculate(Request{
		CurrentPortfolio: decimal.NewFromInt(750000),
		Rate:             rate,
		Previous:         &prev,
	})
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(30000)), "exactly portfolio x rate, history ignored")
}

func gkDefaults() GuytonKlinger {
	return NewGuytonKlinger(domain.Investments{})
}

func TestGuytonKlingerInitialYear(t *testing.T) {
	result := gkDefaults().Calculate(Request{
		CurrentPortfolio: decimal.NewFromInt(1000000),
		Rate:             decimal.NewFromFloat(0.04),
	})
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(40000)))
	assert.Equal(t, AdjustmentInitial, result.Adjustment)
}

func TestGuytonKlingerDefaultInflationAdjusts(t *testing.T) {
	prev := domain.StrategyState{BaseWithdrawal: decimal.NewFromInt(40000), InitialPortfolio: decimal.NewFromInt(1000000)}
	result := gkDefaults().Calculate(Request{
		CurrentPortfolio: decimal.NewFromInt(1000000), // implied 4%, inside the guardrails
		Rate:             decimal.NewFromFloat(0.04),
		InflationRate:    decimal.NewFromFloat(0.03),
		YearsRemaining:   30,
		Previous:         &prev,
	})
	assert.Equal(t, AdjustmentInflation, result.Adjustment)
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(41200)), "got %s", result.Amount)
}

func TestGuytonKlingerUpperGuardrailCut(t *testing.T) {
	prev := domain.StrategyState{BaseWithdrawal: decimal.NewFromInt(40000), InitialPortfolio: decimal.NewFromInt(1000000)}
	result := gkDefaults().Calculate(Request{
		CurrentPortfolio: decimal.NewFromInt(700000), // implied 5.7% > 4.8%
		Rate:             decimal.NewFromFloat(0.04),
		InflationRate:    decimal.NewFromFloat(0.03),
		YearsRemaining:   30,
		Previous:         &prev,
	})
	assert.Equal(t, AdjustmentCut, result.Adjustment)
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(36000)), "cut is 10 percent with no inflation bump, got %s", result.Amount)
	assert.True(t, result.BaseWithdrawal.Equal(result.Amount), "the cut becomes the new baseline")
}

func TestGuytonKlingerCutSuppressedNearEndOfPlan(t *testing.T) {
	prev := domain.StrategyState{BaseWithdrawal: decimal.NewFromInt(40000), InitialPortfolio: decimal.NewFromInt(1000000)}
	result := gkDefaults().Calculate(Request{
		CurrentPortfolio: decimal.NewFromInt(700000),
		Rate:             decimal.NewFromFloat(0.04),
		InflationRate:    decimal.NewFromFloat(0.03),
		YearsRemaining:   12, // inside the capital-preservation window
		Previous:         &prev,
	})
	assert.Equal(t, AdjustmentInflation, result.Adjustment, "cuts are suppressed close to life expectancy")
}

func TestGuytonKlingerLowerGuardrailRaise(t *testing.T) {
	prev := domain.StrategyState{BaseWithdrawal: decimal.NewFromInt(40000), InitialPortfolio: decimal.NewFromInt(1000000)}
	result := gkDefaults().Calculate(Request{
		CurrentPortfolio: decimal.NewFromInt(2000000), // implied 2% < 3.2%
		Rate:             decimal.NewFromFloat(0.04),
		InflationRate:    decimal.NewFromFloat(0.03),
		YearsRemaining:   30,
		Previous:         &prev,
	})
	assert.Equal(t, AdjustmentRaise, result.Adjustment)
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(41800)), "raise is 1.5x inflation, got %s", result.Amount)
}

func TestCalculateStrategyWithdrawalDispatch(t *testing.T) {
	req := Request{CurrentPortfolio: decimal.NewFromInt(1000000)}

	inv := domain.Investments{WithdrawalStrategy: domain.StrategyFixedReal, WithdrawalRate: decimal.NewFromFloat(0.04)}
	assert.True(t, CalculateStrategyWithdrawal(inv, req).Amount.Equal(decimal.NewFromInt(40000)))

	inv.WithdrawalStrategy = domain.StrategyGuytonKlinger
	assert.Equal(t, AdjustmentInitial, CalculateStrategyWithdrawal(inv, req).Adjustment)

	inv.WithdrawalStrategy = "Something Else"
	assert.True(t, CalculateStrategyWithdrawal(inv, req).Amount.Equal(decimal.NewFromInt(40000)),
		"unknown names fall back to percentage")
}
