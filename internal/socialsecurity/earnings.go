// Package socialsecurity computes Social Security retirement benefits:
// earnings-history assembly, wage indexing, AIME, the PIA bend-point
// formula, claiming-age adjustment, the earnings test, and work credits.
package socialsecurity

import (
	"sort"

	"github.com/fincast/fincast/internal/domain"
	"github.com/fincast/fincast/internal/taxparams"
	"github.com/shopspring/decimal"
)

// EarningsRecord is one year of Social-Security-covered earnings.
type EarningsRecord struct {
	Year   int             `json:"year"`
	Amount decimal.Decimal `json:"amount"`
	Source string          `json:"source"` // "estimated", "simulated", or "imported"
}

// Calculator performs benefit math over the shared parameter store.
type Calculator struct {
	Params *taxparams.Store
}

// NewCalculator creates a Social Security calculator.
func NewCalculator(params *taxparams.Store) *Calculator {
	return &Calculator{Params: params}
}

// ExtractEarningsFromSimulation merges three layered sources of annual
// earned income with increasing priority: flat-salary estimates for years
// before the simulation window, actual simulated Work income per year, and
// imported authoritative records that override both. Every year's figure is
// capped at that year's Social Security wage base.
func (c *Calculator) ExtractEarningsFromSimulation(timeline domain.Timeline, imported []EarningsRecord, wageGrowthRate decimal.Decimal, inflationAdjusted bool, currentIncomes []domain.Income) []EarningsRecord {
	byYear := make(map[int]EarningsRecord)

	// Layer 1: estimated pre-simulation salary history. Each Work income
	// with a start date before the simulation window is assumed to have
	// paid its first simulated-year salary flat for every earlier year.
	// The first simulated year's income set is authoritative here; the
	// caller's current incomes, which may carry decades of wage growth by
	// the time a benefit is claimed, only stand in when that set is empty.
	if len(timeline) > 0 {
		firstYear := timeline[0].Year
		estimateSources := timeline[0].Incomes
		if len(estimateSources) == 0 {
			estimateSources = currentIncomes
		}
		for _, inc := range estimateSources {
			if inc.Kind != domain.IncomeWork || !inc.Earned || inc.StartDate == nil {
				continue
			}
			salary := inc.BaseAnnual()
			for year := inc.StartDate.Year(); year < firstYear; year++ {
				existing := byYear[year]
				byYear[year] = EarningsRecord{Year: year, Amount: existing.Amount.Add(salary), Source: "estimated"}
			}
		}
	}

	// Layer 2: simulated earnings override estimates. Concurrent jobs sum.
	for _, sy := range timeline {
		total := decimal.Zero
		for _, inc := range sy.Incomes {
			if inc.Kind == domain.IncomeWork && inc.Earned {
				total = total.Add(inc.AnnualAmount(sy.Year))
			}
		}
		if total.GreaterThan(decimal.Zero) {
			byYear[sy.Year] = EarningsRecord{Year: sy.Year, Amount: total, Source: "simulated"}
		}
	}

	// Layer 3: imported records always win for their year.
	for _, rec := range imported {
		byYear[rec.Year] = EarningsRecord{Year: rec.Year, Amount: rec.Amount, Source: "imported"}
	}

	records := make([]EarningsRecord, 0, len(byYear))
	for _, rec := range byYear {
		base := c.Params.WageBaseFor(rec.Year, wageGrowthRate, inflationAdjusted)
		if rec.Amount.GreaterThan(base) {
			rec.Amount = base
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Year < records[j].Year })
	return records
}

// ApplyWageIndexing scales a year's earnings to the index year's wage level.
// Earnings at or after the index year are returned unchanged.
func (c *Calculator) ApplyWageIndexing(record EarningsRecord, indexYear int, wageGrowthRate decimal.Decimal, inflationAdjusted bool) decimal.Decimal {
	if record.Year >= indexYear {
		return record.Amount
	}
	indexAt := c.Params.WageIndexFor(indexYear, wageGrowthRate, inflationAdjusted)
	indexEarned := c.Params.WageIndexFor(record.Year, wageGrowthRate, inflationAdjusted)
	if indexEarned.IsZero() {
		return record.Amount
	}
	return record.Amount.Mul(indexAt.Div(indexEarned))
}

// CalculateWorkCredits sums the credits earned across the history, at most
// four per year; 40 are required to qualify for retirement benefits. The
// count is informational only and not enforced elsewhere.
func (c *Calculator) CalculateWorkCredits(history []EarningsRecord, wageGrowthRate decimal.Decimal, inflationAdjusted bool) int {
	four := decimal.NewFromInt(4)
	credits := 0
	for _, rec := range history {
		threshold := c.Params.CreditThresholdFor(rec.Year, wageGrowthRate, inflationAdjusted)
		if threshold.LessThanOrEqual(decimal.Zero) {
			continue
		}
		earned := rec.Amount.Div(threshold).Floor()
		credits += int(decimal.Min(four, earned).IntPart())
	}
	return credits
}
