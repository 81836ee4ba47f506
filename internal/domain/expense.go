package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseKind discriminates the expense variants.
type ExpenseKind string

const (
	ExpenseGeneric  ExpenseKind = "Generic"
	ExpenseMortgage ExpenseKind = "Mortgage"
	ExpenseLoan     ExpenseKind = "Loan"
)

// Expense is a per-year snapshot of one recurring expense. Mortgage and Loan
// expenses carry an amortization schedule; their annual cost is the scheduled
// payment (principal plus interest), not the face amount, and an optional
// linked account ties principal paydown to a Property or Debt account.
type Expense struct {
	ID        string          `yaml:"id" json:"id"`
	Name      string          `yaml:"name" json:"name"`
	Kind      ExpenseKind     `yaml:"kind" json:"kind"`
	Amount    decimal.Decimal `yaml:"amount" json:"amount"`
	Frequency Frequency       `yaml:"frequency" json:"frequency"`

	StartDate *time.Time `yaml:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate   *time.Time `yaml:"endDate,omitempty" json:"endDate,omitempty"`

	GrowthRate *decimal.Decimal `yaml:"growthRate,omitempty" json:"growthRate,omitempty"`

	// Mortgage / Loan
	Principal       decimal.Decimal `yaml:"principal,omitempty" json:"principal,omitempty"`
	AnnualRate      decimal.Decimal `yaml:"annualRate,omitempty" json:"annualRate,omitempty"`
	TermMonths      int             `yaml:"termMonths,omitempty" json:"termMonths,omitempty"`
	LinkedAccountID string          `yaml:"linkedAccountId,omitempty" json:"linkedAccountId,omitempty"`
}

// ActiveFraction mirrors Income.ActiveFraction for the expense's window.
func (e Expense) ActiveFraction(year int) decimal.Decimal {
	inc := Income{StartDate: e.StartDate, EndDate: e.EndDate}
	return inc.ActiveFraction(year)
}

// MonthlyPayment returns the level amortizing payment for Mortgage/Loan
// expenses, or the face monthly amount otherwise.
func (e Expense) MonthlyPayment() decimal.Decimal {
	if e.Kind != ExpenseMortgage && e.Kind != ExpenseLoan {
		return e.Amount.Mul(e.Frequency.PerYear()).Div(decimal.NewFromInt(12))
	}
	if e.TermMonths <= 0 || e.Principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	r := e.AnnualRate.Div(decimal.NewFromInt(12))
	n := decimal.NewFromInt(int64(e.TermMonths))
	if r.IsZero() {
		return e.Principal.Div(n)
	}
	growth := decimal.NewFromInt(1).Add(r).Pow(n)
	return e.Principal.Mul(r).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1)))
}

// monthsElapsed returns scheduled payments made by the end of the given year.
func (e Expense) monthsElapsed(year int) int {
	if e.StartDate == nil {
		return 0
	}
	months := (year-e.StartDate.Year())*12 + (13 - int(e.StartDate.Month()))
	if months < 0 {
		months = 0
	}
	if months > e.TermMonths {
		months = e.TermMonths
	}
	return months
}

// LoanBalanceAt returns the remaining principal at the end of the given year
// for Mortgage/Loan expenses.
func (e Expense) LoanBalanceAt(year int) decimal.Decimal {
	if e.Kind != ExpenseMortgage && e.Kind != ExpenseLoan {
		return decimal.Zero
	}
	k := e.monthsElapsed(year)
	if k >= e.TermMonths {
		return decimal.Zero
	}
	r := e.AnnualRate.Div(decimal.NewFromInt(12))
	if r.IsZero() {
		paid := e.MonthlyPayment().Mul(decimal.NewFromInt(int64(k)))
		return e.Principal.Sub(paid)
	}
	growth := decimal.NewFromInt(1).Add(r).Pow(decimal.NewFromInt(int64(k)))
	paydown := e.MonthlyPayment().Mul(growth.Sub(decimal.NewFromInt(1))).Div(r)
	balance := e.Principal.Mul(growth).Sub(paydown)
	if balance.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return balance
}

// AnnualAmount returns the expense's cash cost for the year. Amortized
// expenses use the scheduled payment for the months still inside the term.
func (e Expense) AnnualAmount(year int) decimal.Decimal {
	if e.Kind == ExpenseMortgage || e.Kind == ExpenseLoan {
		prior := e.monthsElapsed(year - 1)
		current := e.monthsElapsed(year)
		months := current - prior
		if months <= 0 {
			return decimal.Zero
		}
		return e.MonthlyPayment().Mul(decimal.NewFromInt(int64(months)))
	}
	return e.Amount.Mul(e.Frequency.PerYear()).Mul(e.ActiveFraction(year))
}

// Increment produces next year's version of the expense. Amortized expenses
// never inflate; their schedule is fixed at origination.
func (e Expense) Increment(inflationRate decimal.Decimal) Expense {
	next := e
	if e.Kind == ExpenseMortgage || e.Kind == ExpenseLoan {
		return next
	}
	rate := inflationRate
	if e.GrowthRate != nil {
		rate = *e.GrowthRate
	}
	next.Amount = e.Amount.Mul(decimal.NewFromInt(1).Add(rate))
	return next
}
