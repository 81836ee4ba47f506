// Package config loads and validates the plan document that feeds the
// projection engine: the household's accounts, incomes, expenses, tax
// situation, and forward-looking assumptions.
package config

import (
	"fmt"
	"os"

	"github.com/fincast/fincast/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Plan is the top-level input document.
type Plan struct {
	Name     string           `yaml:"name" json:"name"`
	Incomes  []domain.Income  `yaml:"incomes" json:"incomes"`
	Expenses []domain.Expense `yaml:"expenses" json:"expenses"`
	Accounts []domain.Account `yaml:"accounts" json:"accounts"`

	Assumptions domain.Assumptions `yaml:"assumptions" json:"assumptions"`
	TaxState    domain.TaxState    `yaml:"taxState" json:"taxState"`
}

// InputParser handles parsing of plan files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file and validates it.
func (ip *InputParser) LoadFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &plan, nil
}

// ValidatePlan checks the plan for the structural problems the engine cannot
// tolerate. Stale account references in withdrawal order and priorities are
// deliberately NOT errors here; the engine silently skips them.
func (ip *InputParser) ValidatePlan(plan *Plan) error {
	if err := ip.validateDemographics(&plan.Assumptions.Demographics); err != nil {
		return err
	}
	if err := ip.validateInvestments(&plan.Assumptions.Investments); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for i, acct := range plan.Accounts {
		if acct.ID == "" {
			return fmt.Errorf("account %d (%s): id is required", i, acct.Name)
		}
		if seen[acct.ID] {
			return fmt.Errorf("duplicate account id %q", acct.ID)
		}
		seen[acct.ID] = true
		if err := ip.validateAccount(i, &acct); err != nil {
			return err
		}
	}

	for i, inc := range plan.Incomes {
		if err := ip.validateIncome(i, &inc); err != nil {
			return err
		}
	}
	for i, exp := range plan.Expenses {
		if err := ip.validateExpense(i, &exp); err != nil {
			return err
		}
	}

	switch plan.TaxState.FilingStatus {
	case domain.FilingSingle, domain.FilingJointly:
	case "":
		return fmt.Errorf("taxState.filingStatus is required")
	default:
		return fmt.Errorf("unknown filing status %q", plan.TaxState.FilingStatus)
	}
	return nil
}

func (ip *InputParser) validateDemographics(d *domain.Demographics) error {
	if d.StartYear == 0 {
		return fmt.Errorf("assumptions.demographics.startYear is required")
	}
	if d.StartAge <= 0 {
		return fmt.Errorf("assumptions.demographics.startAge must be positive")
	}
	if d.LifeExpectancy <= d.StartAge {
		return fmt.Errorf("life expectancy (%d) must exceed start age (%d)", d.LifeExpectancy, d.StartAge)
	}
	return nil
}

func (ip *InputParser) validateInvestments(inv *domain.Investments) error {
	switch inv.WithdrawalStrategy {
	case "", domain.StrategyFixedReal, domain.StrategyPercentage, domain.StrategyGuytonKlinger:
	default:
		return fmt.Errorf("unknown withdrawal strategy %q", inv.WithdrawalStrategy)
	}
	if inv.WithdrawalRate.LessThan(decimal.Zero) || inv.WithdrawalRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("withdrawal rate must be between 0 and 1, got %s", inv.WithdrawalRate)
	}
	return nil
}

func (ip *InputParser) validateAccount(index int, acct *domain.Account) error {
	switch acct.Kind {
	case domain.AccountSaved, domain.AccountInvested, domain.AccountProperty, domain.AccountDebt:
	case domain.AccountDeficitDebt:
		return fmt.Errorf("account %d (%s): deficit-debt accounts are engine-synthesized and cannot be configured", index, acct.Name)
	default:
		return fmt.Errorf("account %d (%s): unknown kind %q", index, acct.Name, acct.Kind)
	}
	if acct.Kind == domain.AccountInvested {
		switch acct.TaxTreatment {
		case domain.TreatmentTraditional401k, domain.TreatmentRoth401k,
			domain.TreatmentTraditionalIRA, domain.TreatmentRothIRA,
			domain.TreatmentHSA, domain.TreatmentBrokerage:
		default:
			return fmt.Errorf("account %d (%s): unknown tax treatment %q", index, acct.Name, acct.TaxTreatment)
		}
	}
	return nil
}

func (ip *InputParser) validateIncome(index int, inc *domain.Income) error {
	switch inc.Kind {
	case domain.IncomeWork, domain.IncomePassive, domain.IncomeSocialSecurity, domain.IncomeFutureSocialSecurity:
	default:
		return fmt.Errorf("income %d (%s): unknown kind %q", index, inc.Name, inc.Kind)
	}
	if inc.Kind == domain.IncomeFutureSocialSecurity && inc.ClaimingAge != 0 && inc.ClaimingAge < 62 {
		return fmt.Errorf("income %d (%s): claiming age %d is below the minimum of 62", index, inc.Name, inc.ClaimingAge)
	}
	if inc.Amount.LessThan(decimal.Zero) {
		return fmt.Errorf("income %d (%s): amount cannot be negative", index, inc.Name)
	}
	return nil
}

func (ip *InputParser) validateExpense(index int, exp *domain.Expense) error {
	switch exp.Kind {
	case domain.ExpenseGeneric, domain.ExpenseMortgage, domain.ExpenseLoan, "":
	default:
		return fmt.Errorf("expense %d (%s): unknown kind %q", index, exp.Name, exp.Kind)
	}
	if exp.Kind == domain.ExpenseMortgage || exp.Kind == domain.ExpenseLoan {
		if exp.TermMonths <= 0 {
			return fmt.Errorf("expense %d (%s): amortized expenses need a positive term", index, exp.Name)
		}
		if exp.Principal.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("expense %d (%s): amortized expenses need a positive principal", index, exp.Name)
		}
		if exp.StartDate == nil {
			return fmt.Errorf("expense %d (%s): amortized expenses need a start date", index, exp.Name)
		}
	}
	return nil
}
