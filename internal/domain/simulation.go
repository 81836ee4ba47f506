package domain

import (
	"github.com/shopspring/decimal"
)

// WithdrawalDetail records one shortfall withdrawal from a single bucket.
type WithdrawalDetail struct {
	AccountID   string          `json:"accountId"`
	AccountName string          `json:"accountName"`
	Gross       decimal.Decimal `json:"gross"`
	Tax         decimal.Decimal `json:"tax"`
	Penalty     decimal.Decimal `json:"penalty"`
	Net         decimal.Decimal `json:"net"`
}

// Cashflow is the year's money movement breakdown.
type Cashflow struct {
	GrossIncome      decimal.Decimal            `json:"grossIncome"`
	TotalExpense     decimal.Decimal            `json:"totalExpense"`
	Discretionary    decimal.Decimal            `json:"discretionary"`
	UserInvested     decimal.Decimal            `json:"userInvested"`
	EmployerInvested decimal.Decimal            `json:"employerInvested"`
	BucketDetail     map[string]decimal.Decimal `json:"bucketDetail"`
	Withdrawals      []WithdrawalDetail         `json:"withdrawals"`
	// TrueUserSaved is a reporting figure: gross minus tax, insurance,
	// living expenses, and leftover discretionary, independent of where the
	// money actually landed.
	TrueUserSaved decimal.Decimal `json:"trueUserSaved"`
}

// TaxDetails is the year's tax breakdown. Penalties are early-withdrawal
// penalties folded into the federal figure in the final tally.
type TaxDetails struct {
	Federal           decimal.Decimal `json:"federal"`
	State             decimal.Decimal `json:"state"`
	FICA              decimal.Decimal `json:"fica"`
	Penalties         decimal.Decimal `json:"penalties"`
	PreTaxDeductions  decimal.Decimal `json:"preTaxDeductions"`
	PostTaxDeductions decimal.Decimal `json:"postTaxDeductions"`
	Insurance         decimal.Decimal `json:"insurance"`
}

// Total returns federal (including penalties) plus state plus FICA.
func (td TaxDetails) Total() decimal.Decimal {
	return td.Federal.Add(td.Penalties).Add(td.State).Add(td.FICA)
}

// RothConversion records an automatic Traditional-to-Roth conversion
// performed by the engine for one year.
type RothConversion struct {
	Amount        decimal.Decimal `json:"amount"`
	TaxCost       decimal.Decimal `json:"taxCost"`
	SourceID      string          `json:"sourceId"`
	DestinationID string          `json:"destinationId"`
}

// StrategyState is a withdrawal policy's output for one year plus the state
// its next call needs: the compounding baseline and the never-re-based
// initial portfolio. Adjustment names the guardrail branch that fired, if any.
type StrategyState struct {
	Amount           decimal.Decimal `json:"amount"`
	BaseWithdrawal   decimal.Decimal `json:"baseWithdrawal"`
	InitialPortfolio decimal.Decimal `json:"initialPortfolio"`
	Adjustment       string          `json:"adjustment,omitempty"`
}

// SimulationYear is the engine's output record for one simulated year and
// the input state for the next. Immutable once returned.
type SimulationYear struct {
	Year     int       `json:"year"`
	Incomes  []Income  `json:"incomes"`
	Expenses []Expense `json:"expenses"`
	Accounts []Account `json:"accounts"`

	Cashflow       Cashflow        `json:"cashflow"`
	TaxDetails     TaxDetails      `json:"taxDetails"`
	RothConversion *RothConversion `json:"rothConversion,omitempty"`
	StrategyState  *StrategyState  `json:"strategyState,omitempty"`
	Logs           []string        `json:"logs"`
}

// NetWorth returns the year's ending net worth.
func (sy SimulationYear) NetWorth() decimal.Decimal {
	return TotalNetWorth(sy.Accounts)
}

// HasDeficit reports whether the year carries a DeficitDebt sentinel, the
// sole authoritative failure signal.
func (sy SimulationYear) HasDeficit() bool {
	for _, a := range sy.Accounts {
		if a.Kind == AccountDeficitDebt {
			return true
		}
	}
	return false
}

// Timeline is an ordered run of simulated years.
type Timeline []SimulationYear
