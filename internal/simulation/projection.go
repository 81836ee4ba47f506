package simulation

import (
	"github.com/fincast/fincast/internal/domain"
)

// RunProjection steps the household from its start year through life
// expectancy, feeding each year's output into the next year's input. The
// caller's slices are never mutated.
func (e *Engine) RunProjection(incomes []domain.Income, expenses []domain.Expense, accounts []domain.Account, a domain.Assumptions, ts domain.TaxState) domain.Timeline {
	finalYear := a.FinalYear()
	timeline := make(domain.Timeline, 0, finalYear-a.Demographics.StartYear+1)

	curIncomes, curExpenses, curAccounts := incomes, expenses, accounts
	for year := a.Demographics.StartYear; year <= finalYear; year++ {
		sy := e.StepYear(year, curIncomes, curExpenses, curAccounts, a, ts, timeline)
		timeline = append(timeline, sy)
		curIncomes, curExpenses, curAccounts = sy.Incomes, sy.Expenses, sy.Accounts
	}
	return timeline
}
