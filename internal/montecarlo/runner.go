package montecarlo

import (
	"context"
	"sort"
	"sync"

	"github.com/fincast/fincast/internal/domain"
	"github.com/fincast/fincast/internal/simulation"
	"github.com/shopspring/decimal"
)

// Runner fans scenarios out across goroutines. The engine is stateless and
// shared; each scenario gets its own generator seeded with masterSeed plus
// its index, so results never depend on scheduling order.
type Runner struct {
	Engine       *simulation.Engine
	NumScenarios int
	Seed         int64
}

// NewRunner creates a runner over the given engine.
func NewRunner(engine *simulation.Engine, numScenarios int, seed int64) *Runner {
	return &Runner{Engine: engine, NumScenarios: numScenarios, Seed: seed}
}

// Run executes every scenario and returns the summary plus the individual
// results ordered by scenario id.
func (r *Runner) Run(ctx context.Context, incomes []domain.Income, expenses []domain.Expense, accounts []domain.Account, a domain.Assumptions, ts domain.TaxState) (domain.MonteCarloSummary, []domain.ScenarioResult, error) {
	results := make(chan domain.ScenarioResult, r.NumScenarios)
	var wg sync.WaitGroup

	for i := 0; i < r.NumScenarios; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			default:
			}
			results <- r.runScenario(idx, incomes, expenses, accounts, a, ts)
		}(i)
	}
	wg.Wait()
	close(results)

	scenarios := make([]domain.ScenarioResult, 0, r.NumScenarios)
	for sc := range results {
		scenarios = append(scenarios, sc)
	}
	if err := ctx.Err(); err != nil {
		return domain.MonteCarloSummary{}, nil, err
	}
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].ScenarioID < scenarios[j].ScenarioID })

	summary, err := SummarizeScenarios(scenarios, r.Seed)
	if err != nil {
		return domain.MonteCarloSummary{}, nil, err
	}
	return summary, scenarios, nil
}

// runScenario projects one full lifetime under a sampled return path.
func (r *Runner) runScenario(idx int, incomes []domain.Income, expenses []domain.Expense, accounts []domain.Account, a domain.Assumptions, ts domain.TaxState) domain.ScenarioResult {
	rng := NewSeededRandom(r.Seed + int64(idx))
	years := a.FinalYear() - a.Demographics.StartYear + 1
	returns := rng.GenerateLognormalReturns(years, a.Investments.RateOfReturn, a.Investments.ReturnStdDev)

	timeline := make(domain.Timeline, 0, years)
	curIncomes, curExpenses, curAccounts := incomes, expenses, accounts
	for y := 0; y < years; y++ {
		year := a.Demographics.StartYear + y
		sampled := a.WithReturn(returns[y])
		sy := r.Engine.StepYear(year, curIncomes, curExpenses, curAccounts, sampled, ts, timeline)
		timeline = append(timeline, sy)
		curIncomes, curExpenses, curAccounts = sy.Incomes, sy.Expenses, sy.Accounts
	}
	return AnalyzeScenario(idx, timeline, returns)
}

// RunMonteCarlo is the convenience entry point used by the CLI: build a
// runner, execute it, and return the summary.
func RunMonteCarlo(ctx context.Context, engine *simulation.Engine, incomes []domain.Income, expenses []domain.Expense, accounts []domain.Account, a domain.Assumptions, ts domain.TaxState, numScenarios int, seed int64) (domain.MonteCarloSummary, []domain.ScenarioResult, error) {
	return NewRunner(engine, numScenarios, seed).Run(ctx, incomes, expenses, accounts, a, ts)
}

// SuccessRatePercent renders a summary's success rate as a 0-100 figure.
func SuccessRatePercent(summary domain.MonteCarloSummary) decimal.Decimal {
	return summary.SuccessRate.Mul(decimal.NewFromInt(100))
}
