package domain

import (
	"github.com/shopspring/decimal"
)

// ScenarioResult is the outcome of one Monte Carlo scenario.
type ScenarioResult struct {
	ScenarioID      int               `json:"scenarioId"`
	Timeline        Timeline          `json:"timeline"`
	Success         bool              `json:"success"`
	FinalNetWorth   decimal.Decimal   `json:"finalNetWorth"`
	YearOfDepletion *int              `json:"yearOfDepletion,omitempty"`
	YearlyReturns   []decimal.Decimal `json:"yearlyReturns"`
}

// PercentileBands holds the per-year net-worth percentile curves across
// scenarios.
type PercentileBands struct {
	P10 []decimal.Decimal `json:"p10"`
	P25 []decimal.Decimal `json:"p25"`
	P50 []decimal.Decimal `json:"p50"`
	P75 []decimal.Decimal `json:"p75"`
	P90 []decimal.Decimal `json:"p90"`
}

// MonteCarloSummary aggregates all scenarios of a run.
type MonteCarloSummary struct {
	Seed           int64           `json:"seed"`
	NumScenarios   int             `json:"numScenarios"`
	SuccessRate    decimal.Decimal `json:"successRate"`
	Percentiles    PercentileBands `json:"percentiles"`
	WorstScenario  int             `json:"worstScenario"`
	MedianScenario int             `json:"medianScenario"`
	BestScenario   int             `json:"bestScenario"`
	// TrimmedMeanFinalNetWorth drops the bottom and top 5% of scenarios by
	// final net worth before averaging.
	TrimmedMeanFinalNetWorth decimal.Decimal `json:"trimmedMeanFinalNetWorth"`
}
