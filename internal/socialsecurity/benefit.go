package socialsecurity

import (
	"fmt"
	"sort"

	"github.com/fincast/fincast/internal/taxparams"
	"github.com/shopspring/decimal"
)

// AIMECalculation is the result of averaging the top 35 indexed years.
type AIMECalculation struct {
	AIME            decimal.Decimal   `json:"aime"`
	IndexYear       int               `json:"indexYear"`
	IndexedEarnings []decimal.Decimal `json:"indexedEarnings"`
	YearsUsed       int               `json:"yearsUsed"`
}

const (
	topEarningYears = 35
	aimeDivisor     = 420 // 35 years of months
)

// CalculateAIME indexes every earnings year to the year the worker turns 60,
// selects the 35 highest indexed years (zero-padded when fewer exist), and
// divides by 420. An empty history yields a zero AIME, not an error.
func (c *Calculator) CalculateAIME(history []EarningsRecord, calculationYear, claimingAge int, birthYear *int, wageGrowthRate decimal.Decimal, inflationAdjusted bool) (AIMECalculation, error) {
	if claimingAge < 62 {
		return AIMECalculation{}, fmt.Errorf("claiming age %d is below the minimum of 62", claimingAge)
	}
	var indexYear int
	if birthYear != nil {
		indexYear = *birthYear + 60
	} else {
		// Estimate: the worker is claimingAge years old in calculationYear.
		indexYear = calculationYear - claimingAge + 60
	}

	indexed := make([]decimal.Decimal, 0, len(history))
	for _, rec := range history {
		indexed = append(indexed, c.ApplyWageIndexing(rec, indexYear, wageGrowthRate, inflationAdjusted))
	}
	sort.Slice(indexed, func(i, j int) bool { return indexed[i].GreaterThan(indexed[j]) })

	yearsUsed := len(indexed)
	if yearsUsed > topEarningYears {
		indexed = indexed[:topEarningYears]
		yearsUsed = topEarningYears
	}

	sum := decimal.Zero
	for _, amount := range indexed {
		sum = sum.Add(amount)
	}
	aime := sum.Div(decimal.NewFromInt(aimeDivisor))

	return AIMECalculation{
		AIME:            aime,
		IndexYear:       indexYear,
		IndexedEarnings: indexed,
		YearsUsed:       yearsUsed,
	}, nil
}

// CalculatePIA applies the two-bend-point formula: 90% of AIME up to the
// first bend point, 32% between the bend points, 15% above the second,
// rounded to the cent.
func (c *Calculator) CalculatePIA(aime decimal.Decimal, year int, wageGrowthRate decimal.Decimal, inflationAdjusted bool) decimal.Decimal {
	if aime.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	bend1, bend2 := c.Params.BendPointsFor(year, wageGrowthRate, inflationAdjusted)

	pia := decimal.Min(aime, bend1).Mul(decimal.NewFromFloat(0.90))
	if aime.GreaterThan(bend1) {
		pia = pia.Add(decimal.Min(aime, bend2).Sub(bend1).Mul(decimal.NewFromFloat(0.32)))
	}
	if aime.GreaterThan(bend2) {
		pia = pia.Add(aime.Sub(bend2).Mul(decimal.NewFromFloat(0.15)))
	}
	return pia.Round(2)
}

// ApplyClaimingAdjustment scales the PIA by the claiming-age factor: roughly
// 70% at 62 rising to 100% at full retirement age and about 124% at 70. An
// unknown birth year assumes an FRA of 67.
func (c *Calculator) ApplyClaimingAdjustment(pia decimal.Decimal, claimingAge int, birthYear *int) decimal.Decimal {
	fra := decimal.NewFromInt(67)
	if birthYear != nil {
		fra = taxparams.FullRetirementAge(*birthYear)
	}
	return pia.Mul(taxparams.ClaimingFactor(claimingAge, fra)).Round(2)
}

// BenefitResult is the full pipeline output for one claim.
type BenefitResult struct {
	AIME            AIMECalculation `json:"aime"`
	PIA             decimal.Decimal `json:"pia"`
	AdjustedMonthly decimal.Decimal `json:"adjustedMonthly"`
}

// CalculateBenefit runs the full pipeline: AIME, PIA at the calculation
// year, claiming adjustment.
func (c *Calculator) CalculateBenefit(history []EarningsRecord, calculationYear, claimingAge int, birthYear *int, wageGrowthRate decimal.Decimal, inflationAdjusted bool) (BenefitResult, error) {
	aime, err := c.CalculateAIME(history, calculationYear, claimingAge, birthYear, wageGrowthRate, inflationAdjusted)
	if err != nil {
		return BenefitResult{}, fmt.Errorf("AIME calculation failed: %w", err)
	}
	pia := c.CalculatePIA(aime.AIME, calculationYear, wageGrowthRate, inflationAdjusted)
	adjusted := c.ApplyClaimingAdjustment(pia, claimingAge, birthYear)
	return BenefitResult{AIME: aime, PIA: pia, AdjustedMonthly: adjusted}, nil
}
