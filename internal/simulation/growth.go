package simulation

import (
	"github.com/fincast/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// growAccounts advances every account by one year: its own growth rule plus
// the net cash movements accumulated by the earlier phases.
func (e *Engine) growAccounts(st *yearState, a domain.Assumptions) {
	for i := range st.accounts {
		acct := &st.accounts[i]
		inflow := st.userInflow[acct.ID]
		employer := st.employerInflow[acct.ID]
		outflow := st.outflow[acct.ID]

		switch acct.Kind {
		case domain.AccountSaved:
			acct.Amount = acct.Amount.Mul(one.Add(acct.InterestRate)).
				Add(inflow).Sub(outflow)

		case domain.AccountInvested:
			rate := a.Investments.RateOfReturn
			if acct.RateOfReturn != nil {
				rate = *acct.RateOfReturn
			}
			growth := one.Add(rate)
			acct.Amount = acct.Amount.Mul(growth).Add(inflow).Add(employer).Sub(outflow)
			acct.EmployerAmount = acct.EmployerAmount.Mul(growth).Add(employer)
			if acct.EmployerAmount.GreaterThan(acct.Amount) {
				acct.EmployerAmount = decimal.Max(acct.Amount, decimal.Zero)
			}
			acct.CostBasis = acct.CostBasis.Add(inflow).Add(employer)
			acct.YearsHeld++

		case domain.AccountProperty:
			acct.Amount = acct.Amount.Mul(one.Add(acct.AppreciationRate))
			if exp := findExpense(st.expenses, acct.LinkedExpenseID); exp != nil {
				acct.LoanBalance = exp.LoanBalanceAt(st.year)
			}

		case domain.AccountDebt:
			if exp := linkedLoan(st.expenses, acct.ID); exp != nil {
				acct.Amount = exp.LoanBalanceAt(st.year)
			} else {
				acct.Amount = acct.Amount.Mul(one.Add(acct.APR)).Sub(inflow)
			}

		case domain.AccountDeficitDebt:
			acct.Amount = acct.Amount.Mul(one.Add(acct.APR))
		}

		if acct.Amount.LessThan(decimal.Zero) && acct.Kind != domain.AccountProperty {
			acct.Amount = decimal.Zero
		}
	}
}

func findExpense(expenses []domain.Expense, id string) *domain.Expense {
	if id == "" {
		return nil
	}
	for i := range expenses {
		if expenses[i].ID == id {
			return &expenses[i]
		}
	}
	return nil
}

// linkedLoan finds the amortized expense whose principal paydown is tied to
// the given account.
func linkedLoan(expenses []domain.Expense, accountID string) *domain.Expense {
	for i := range expenses {
		exp := &expenses[i]
		if exp.LinkedAccountID == accountID && (exp.Kind == domain.ExpenseMortgage || exp.Kind == domain.ExpenseLoan) {
			return exp
		}
	}
	return nil
}
