package socialsecurity

import (
	"github.com/shopspring/decimal"
)

// EarningsTestResult records how the earnings test affected a year's benefit.
type EarningsTestResult struct {
	OriginalBenefit decimal.Decimal `json:"originalBenefit"`
	ReducedBenefit  decimal.Decimal `json:"reducedBenefit"`
	Withheld        decimal.Decimal `json:"withheld"`
	Reason          string          `json:"reason,omitempty"`
	Applied         bool            `json:"applied"`
}

// CalculateEarningsTestReduction withholds part of an annual benefit when the
// recipient is under full retirement age and earns above the annual limit:
// $1 per $2 over the lower limit before the FRA calendar year, $1 per $3 over
// the higher limit within it, and nothing from FRA onward. Withholding never
// exceeds the benefit itself.
func (c *Calculator) CalculateEarningsTestReduction(annualBenefit, earnedIncome decimal.Decimal, currentAge int, fra decimal.Decimal, year int, wageGrowthRate decimal.Decimal, inflationAdjusted bool) EarningsTestResult {
	result := EarningsTestResult{
		OriginalBenefit: annualBenefit,
		ReducedBenefit:  annualBenefit,
	}

	age := decimal.NewFromInt(int64(currentAge))
	if age.GreaterThanOrEqual(fra) {
		result.Reason = "at or past full retirement age"
		return result
	}

	limits := c.Params.EarningsTestFor(year, wageGrowthRate, inflationAdjusted)

	var limit, divisor decimal.Decimal
	if age.Add(one).GreaterThan(fra) {
		// FRA is reached during this calendar year: the gentler rule.
		limit = limits.FRAYear
		divisor = decimal.NewFromInt(3)
		result.Reason = "reaches full retirement age this year"
	} else {
		limit = limits.BelowFRA
		divisor = decimal.NewFromInt(2)
		result.Reason = "below full retirement age"
	}

	excess := earnedIncome.Sub(limit)
	if excess.LessThanOrEqual(decimal.Zero) {
		result.Reason = "earnings below the annual limit"
		return result
	}

	withheld := decimal.Min(excess.Div(divisor), annualBenefit)
	result.Withheld = withheld
	result.ReducedBenefit = annualBenefit.Sub(withheld)
	result.Applied = true
	return result
}

var one = decimal.NewFromInt(1)
