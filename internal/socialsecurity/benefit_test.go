package socialsecurity

import (
	"testing"
	"time"

	"github.com/fincast/fincast/internal/domain"
	"github.com/fincast/fincast/internal/taxparams"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalculator() *Calculator {
	return NewCalculator(taxparams.DefaultStore())
}

func TestCalculatePIABendPoints2024(t *testing.T) {
	c := newTestCalculator()

	// 90% of the first $1,174 plus 32% of the remainder up to $7,078.
	pia := c.CalculatePIA(decimal.NewFromInt(5000), 2024, decimal.Zero, false)
	assert.True(t, pia.Equal(decimal.NewFromFloat(2280.92)), "got %s", pia)

	// Max-taxable earner crosses the second bend point.
	pia = c.CalculatePIA(decimal.NewFromInt(14050), 2024, decimal.Zero, false)
	assert.True(t, pia.Equal(decimal.NewFromFloat(3991.68)), "got %s", pia)

	assert.True(t, c.CalculatePIA(decimal.Zero, 2024, decimal.Zero, false).IsZero())
}

func TestApplyClaimingAdjustment(t *testing.T) {
	c := newTestCalculator()
	pia := decimal.NewFromInt(2000)
	birthYear := 1960 // FRA 67

	tests := []struct {
		name        string
		claimingAge int
		expected    string
	}{
		{"age 62 pays 70 percent", 62, "1400"},
		{"FRA pays in full", 67, "2000"},
		{"age 70 pays 124 percent", 70, "2480"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adjusted := c.ApplyClaimingAdjustment(pia, tt.claimingAge, &birthYear)
			assert.True(t, adjusted.Equal(decimal.RequireFromString(tt.expected)), "got %s", adjusted)
		})
	}
}

func TestCalculateAIME(t *testing.T) {
	c := newTestCalculator()
	birthYear := 1962

	// A flat $84,000 for 35 recent years needs no indexing above year 60 and
	// divides cleanly: 84,000 x 35 / 420 = 7,000 monthly.
	var history []EarningsRecord
	for year := 2023; year < 2058; year++ {
		history = append(history, EarningsRecord{Year: year, Amount: decimal.NewFromInt(84000), Source: "simulated"})
	}
	result, err := c.CalculateAIME(history, 2058, 67, &birthYear, decimal.Zero, false)
	require.NoError(t, err)
	assert.Equal(t, 2022, result.IndexYear)
	assert.Equal(t, 35, result.YearsUsed)
	assert.True(t, result.AIME.Equal(decimal.NewFromInt(7000)), "got %s", result.AIME)
}

func TestCalculateAIMEShortHistoryZeroPads(t *testing.T) {
	c := newTestCalculator()
	birthYear := 1962

	// Ten years of $42,000 indexed at par: the other 25 years are zeros, so
	// the divisor stays 420.
	var history []EarningsRecord
	for year := 2040; year < 2050; year++ {
		history = append(history, EarningsRecord{Year: year, Amount: decimal.NewFromInt(42000), Source: "imported"})
	}
	result, err := c.CalculateAIME(history, 2058, 67, &birthYear, decimal.Zero, false)
	require.NoError(t, err)
	assert.Equal(t, 10, result.YearsUsed)
	assert.True(t, result.AIME.Equal(decimal.NewFromInt(1000)), "got %s", result.AIME)
}

func TestCalculateAIMEEmptyHistory(t *testing.T) {
	c := newTestCalculator()
	result, err := c.CalculateAIME(nil, 2030, 67, nil, decimal.Zero, false)
	require.NoError(t, err, "zero history is not an error")
	assert.True(t, result.AIME.IsZero())
}

func TestCalculateAIMERejectsEarlyClaim(t *testing.T) {
	c := newTestCalculator()
	_, err := c.CalculateAIME(nil, 2030, 61, nil, decimal.Zero, false)
	assert.Error(t, err)
}

func TestCalculateBenefitPipeline(t *testing.T) {
	c := newTestCalculator()
	birthYear := 1962

	var history []EarningsRecord
	for year := 2023; year < 2058; year++ {
		history = append(history, EarningsRecord{Year: year, Amount: decimal.NewFromInt(84000), Source: "simulated"})
	}
	result, err := c.CalculateBenefit(history, 2058, 62, &birthYear, decimal.Zero, false)
	require.NoError(t, err)
	assert.True(t, result.PIA.GreaterThan(decimal.Zero))
	assert.True(t, result.AdjustedMonthly.LessThan(result.PIA), "claiming at 62 reduces the benefit")
}

func TestExtractEarningsLayering(t *testing.T) {
	c := newTestCalculator()
	start := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	salary := domain.Income{
		ID: "job", Name: "Job", Kind: domain.IncomeWork, Earned: true,
		Amount: decimal.NewFromInt(50000), Frequency: domain.FrequencyAnnual,
		StartDate: &start,
	}
	timeline := domain.Timeline{
		{Year: 2024, Incomes: []domain.Income{salary}},
		{Year: 2025, Incomes: []domain.Income{salary}},
	}
	imported := []EarningsRecord{{Year: 2020, Amount: decimal.NewFromInt(61000), Source: "imported"}}

	records := c.ExtractEarningsFromSimulation(timeline, imported, decimal.Zero, false, []domain.Income{salary})

	byYear := map[int]EarningsRecord{}
	for _, rec := range records {
		byYear[rec.Year] = rec
	}
	assert.Equal(t, "estimated", byYear[2015].Source, "pre-simulation years are flat estimates")
	assert.Equal(t, "imported", byYear[2020].Source, "imported records override estimates")
	assert.True(t, byYear[2020].Amount.Equal(decimal.NewFromInt(61000)))
	assert.Equal(t, "simulated", byYear[2024].Source)
	assert.True(t, byYear[2024].Amount.Equal(decimal.NewFromInt(50000)))
}

func TestExtractEarningsEstimatesUseFirstYearSalary(t *testing.T) {
	c := newTestCalculator()
	start := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	firstYear := domain.Income{
		ID: "job", Name: "Job", Kind: domain.IncomeWork, Earned: true,
		Amount: decimal.NewFromInt(50000), Frequency: domain.FrequencyAnnual,
		StartDate: &start,
	}
	// The same job decades later, grown to double the starting salary.
	grown := firstYear
	grown.Amount = decimal.NewFromInt(100000)

	timeline := domain.Timeline{{Year: 2024, Incomes: []domain.Income{firstYear}}}
	records := c.ExtractEarningsFromSimulation(timeline, nil, decimal.Zero, false, []domain.Income{grown})

	byYear := map[int]EarningsRecord{}
	for _, rec := range records {
		byYear[rec.Year] = rec
	}
	for year := 2015; year < 2024; year++ {
		rec, ok := byYear[year]
		require.True(t, ok, "missing estimate for %d", year)
		assert.Equal(t, "estimated", rec.Source)
		assert.True(t, rec.Amount.Equal(decimal.NewFromInt(50000)),
			"%d estimated at %s, not the first-year salary", year, rec.Amount)
	}
}

func TestExtractEarningsCapsAtWageBase(t *testing.T) {
	c := newTestCalculator()
	imported := []EarningsRecord{{Year: 2024, Amount: decimal.NewFromInt(500000), Source: "imported"}}
	records := c.ExtractEarningsFromSimulation(nil, imported, decimal.Zero, false, nil)
	require.Len(t, records, 1)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromInt(168600)), "capped at the wage base")
}

func TestCalculateWorkCredits(t *testing.T) {
	c := newTestCalculator()
	history := []EarningsRecord{
		{Year: 2024, Amount: decimal.NewFromInt(50000)}, // well past 4 credits
		{Year: 2025, Amount: decimal.NewFromInt(3620)},  // exactly 2 credits at $1,810
	}
	assert.Equal(t, 6, c.CalculateWorkCredits(history, decimal.Zero, false))
}
