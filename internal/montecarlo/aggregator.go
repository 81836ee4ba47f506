package montecarlo

import (
	"errors"
	"sort"

	"github.com/fincast/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNoScenarios is returned when a summary is requested over an empty run.
// This is a caller error, not a simulation outcome.
var ErrNoScenarios = errors.New("montecarlo: no scenarios to summarize")

// AnalyzeScenario classifies one scenario. Success means no year carries a
// DeficitDebt sentinel; ordinary mortgage or loan debt never fails a run,
// even when it drives net worth negative.
func AnalyzeScenario(id int, timeline domain.Timeline, yearlyReturns []decimal.Decimal) domain.ScenarioResult {
	result := domain.ScenarioResult{
		ScenarioID:    id,
		Timeline:      timeline,
		Success:       true,
		YearlyReturns: yearlyReturns,
	}
	for _, sy := range timeline {
		if sy.HasDeficit() {
			year := sy.Year
			result.YearOfDepletion = &year
			result.Success = false
			break
		}
	}
	if len(timeline) > 0 {
		result.FinalNetWorth = timeline[len(timeline)-1].NetWorth()
	}
	return result
}

// GetPercentileValue linearly interpolates the given percentile over an
// already-sorted slice: rank = percentile/100 × (n-1), interpolated between
// the floor and ceiling indices.
func GetPercentileValue(sorted []decimal.Decimal, percentile float64) decimal.Decimal {
	if len(sorted) == 0 {
		return decimal.Zero
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := decimal.NewFromFloat(percentile).
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(int64(len(sorted) - 1)))
	lower := int(rank.IntPart())
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	fraction := rank.Sub(decimal.NewFromInt(int64(lower)))
	return sorted[lower].Add(sorted[upper].Sub(sorted[lower]).Mul(fraction))
}

// CalculatePercentiles builds per-year net-worth percentile curves across all
// scenarios, over the year indices common to every timeline.
func CalculatePercentiles(scenarios []domain.ScenarioResult) domain.PercentileBands {
	years := commonYears(scenarios)
	bands := domain.PercentileBands{
		P10: make([]decimal.Decimal, years),
		P25: make([]decimal.Decimal, years),
		P50: make([]decimal.Decimal, years),
		P75: make([]decimal.Decimal, years),
		P90: make([]decimal.Decimal, years),
	}
	for y := 0; y < years; y++ {
		worths := make([]decimal.Decimal, 0, len(scenarios))
		for _, sc := range scenarios {
			worths = append(worths, sc.Timeline[y].NetWorth())
		}
		sort.Slice(worths, func(i, j int) bool { return worths[i].LessThan(worths[j]) })
		bands.P10[y] = GetPercentileValue(worths, 10)
		bands.P25[y] = GetPercentileValue(worths, 25)
		bands.P50[y] = GetPercentileValue(worths, 50)
		bands.P75[y] = GetPercentileValue(worths, 75)
		bands.P90[y] = GetPercentileValue(worths, 90)
	}
	return bands
}

func commonYears(scenarios []domain.ScenarioResult) int {
	years := 0
	for i, sc := range scenarios {
		if i == 0 || len(sc.Timeline) < years {
			years = len(sc.Timeline)
		}
	}
	return years
}

// SummarizeScenarios aggregates a completed run: success rate, percentile
// bands, the worst/median/best scenarios by final net worth, and a 5%
// trimmed-mean final net worth. An empty run is an error.
func SummarizeScenarios(scenarios []domain.ScenarioResult, seed int64) (domain.MonteCarloSummary, error) {
	if len(scenarios) == 0 {
		return domain.MonteCarloSummary{}, ErrNoScenarios
	}

	successes := 0
	for _, sc := range scenarios {
		if sc.Success {
			successes++
		}
	}

	// Order scenario indices by final net worth.
	order := make([]int, len(scenarios))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return scenarios[order[i]].FinalNetWorth.LessThan(scenarios[order[j]].FinalNetWorth)
	})

	trim := len(scenarios) / 20
	trimmed := order[trim : len(order)-trim]
	var trimmedMean decimal.Decimal
	if len(trimmed) == 0 {
		// Trimming emptied the set; fall back to the median scenario.
		trimmedMean = scenarios[order[len(order)/2]].FinalNetWorth
	} else {
		sum := decimal.Zero
		for _, idx := range trimmed {
			sum = sum.Add(scenarios[idx].FinalNetWorth)
		}
		trimmedMean = sum.Div(decimal.NewFromInt(int64(len(trimmed))))
	}

	return domain.MonteCarloSummary{
		Seed:         seed,
		NumScenarios: len(scenarios),
		SuccessRate: decimal.NewFromInt(int64(successes)).
			Div(decimal.NewFromInt(int64(len(scenarios)))),
		Percentiles:              CalculatePercentiles(scenarios),
		WorstScenario:            scenarios[order[0]].ScenarioID,
		MedianScenario:           scenarios[order[len(order)/2]].ScenarioID,
		BestScenario:             scenarios[order[len(order)-1]].ScenarioID,
		TrimmedMeanFinalNetWorth: trimmedMean,
	}, nil
}
