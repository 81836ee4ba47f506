package domain

import (
	"github.com/shopspring/decimal"
)

// AccountKind discriminates the account variants. The engine branches on the
// kind with exhaustive switches rather than runtime type inspection.
type AccountKind string

const (
	AccountSaved       AccountKind = "Saved"
	AccountInvested    AccountKind = "Invested"
	AccountProperty    AccountKind = "Property"
	AccountDebt        AccountKind = "Debt"
	AccountDeficitDebt AccountKind = "DeficitDebt"
)

// TaxTreatment classifies how withdrawals from an Invested account are taxed.
type TaxTreatment string

const (
	TreatmentTraditional401k TaxTreatment = "Traditional401k"
	TreatmentRoth401k        TaxTreatment = "Roth401k"
	TreatmentTraditionalIRA  TaxTreatment = "TraditionalIRA"
	TreatmentRothIRA         TaxTreatment = "RothIRA"
	TreatmentHSA             TaxTreatment = "HSA"
	TreatmentBrokerage       TaxTreatment = "Brokerage"
)

// IsPreTax reports whether withdrawals are taxed as ordinary income.
func (tt TaxTreatment) IsPreTax() bool {
	return tt == TreatmentTraditional401k || tt == TreatmentTraditionalIRA
}

// IsTaxFree reports whether withdrawals carry no income tax at all.
func (tt TaxTreatment) IsTaxFree() bool {
	return tt == TreatmentRoth401k || tt == TreatmentRothIRA || tt == TreatmentHSA
}

// VestingMilestone maps completed years of service to a vested percentage.
type VestingMilestone struct {
	Years   int             `yaml:"years" json:"years"`
	Percent decimal.Decimal `yaml:"percent" json:"percent"`
}

// VestingSchedule is an ordered list of milestones. An empty schedule means
// fully vested.
type VestingSchedule struct {
	Milestones []VestingMilestone `yaml:"milestones" json:"milestones"`
}

// VestedPercent returns the vested fraction after the given years of service.
func (vs *VestingSchedule) VestedPercent(yearsOfService int) decimal.Decimal {
	if vs == nil || len(vs.Milestones) == 0 {
		return decimal.NewFromInt(1)
	}
	vested := decimal.Zero
	for _, m := range vs.Milestones {
		if yearsOfService >= m.Years && m.Percent.GreaterThan(vested) {
			vested = m.Percent
		}
	}
	if vested.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return vested
}

// Account is a per-year snapshot of a single household account. Balances are
// never negative except for Debt and DeficitDebt, which represent
// liabilities. A DeficitDebt account is synthesized by the engine for an
// uncovered shortfall and is the sole failure signal for Monte Carlo
// classification; ordinary mortgage or loan debt never is.
type Account struct {
	ID     string          `yaml:"id" json:"id"`
	Name   string          `yaml:"name" json:"name"`
	Kind   AccountKind     `yaml:"kind" json:"kind"`
	Amount decimal.Decimal `yaml:"amount" json:"amount"`

	// Saved
	InterestRate decimal.Decimal `yaml:"interestRate,omitempty" json:"interestRate,omitempty"`

	// Invested
	TaxTreatment   TaxTreatment     `yaml:"taxTreatment,omitempty" json:"taxTreatment,omitempty"`
	CostBasis      decimal.Decimal  `yaml:"costBasis,omitempty" json:"costBasis,omitempty"`
	RateOfReturn   *decimal.Decimal `yaml:"rateOfReturn,omitempty" json:"rateOfReturn,omitempty"`
	Vesting        *VestingSchedule `yaml:"vesting,omitempty" json:"vesting,omitempty"`
	EmployerAmount decimal.Decimal  `yaml:"employerAmount,omitempty" json:"employerAmount,omitempty"`
	YearsHeld      int              `yaml:"yearsHeld,omitempty" json:"yearsHeld,omitempty"`

	// Property
	LoanBalance      decimal.Decimal `yaml:"loanBalance,omitempty" json:"loanBalance,omitempty"`
	AppreciationRate decimal.Decimal `yaml:"appreciationRate,omitempty" json:"appreciationRate,omitempty"`
	LinkedExpenseID  string          `yaml:"linkedExpenseId,omitempty" json:"linkedExpenseId,omitempty"`

	// Debt
	APR decimal.Decimal `yaml:"apr,omitempty" json:"apr,omitempty"`
}

// AvailableBalance returns the amount withdrawable today: the full balance
// minus any unvested employer contributions for Invested accounts.
func (a Account) AvailableBalance() decimal.Decimal {
	if a.Kind != AccountInvested {
		return a.Amount
	}
	vested := a.Vesting.VestedPercent(a.YearsHeld)
	unvested := a.EmployerAmount.Mul(decimal.NewFromInt(1).Sub(vested))
	available := a.Amount.Sub(unvested)
	if available.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return available
}

// NetValue returns the account's contribution to net worth. Debt balances
// count against net worth; Property nets out its linked loan.
func (a Account) NetValue() decimal.Decimal {
	switch a.Kind {
	case AccountDebt, AccountDeficitDebt:
		return a.Amount.Neg()
	case AccountProperty:
		return a.Amount.Sub(a.LoanBalance)
	default:
		return a.Amount
	}
}

// FindAccount returns a pointer into accounts for the given id, or nil when
// the id does not resolve. Stale ids are a silent-skip case for the engine.
func FindAccount(accounts []Account, id string) *Account {
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i]
		}
	}
	return nil
}

// TotalNetWorth sums the net value of every account.
func TotalNetWorth(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.NetValue())
	}
	return total
}
