package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeKind discriminates the income variants.
type IncomeKind string

const (
	IncomeWork                 IncomeKind = "Work"
	IncomePassive              IncomeKind = "Passive"
	IncomeSocialSecurity       IncomeKind = "SocialSecurity"
	IncomeFutureSocialSecurity IncomeKind = "FutureSocialSecurity"
)

// Frequency expresses how often an income or expense amount recurs.
type Frequency string

const (
	FrequencyAnnual   Frequency = "annual"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyBiweekly Frequency = "biweekly"
)

// PerYear returns the number of occurrences in a calendar year.
func (f Frequency) PerYear() decimal.Decimal {
	switch f {
	case FrequencyMonthly:
		return decimal.NewFromInt(12)
	case FrequencyBiweekly:
		return decimal.NewFromInt(26)
	default:
		return decimal.NewFromInt(1)
	}
}

// Income is a per-year snapshot of one income stream. Work incomes carry
// payroll deduction fields and a linked retirement account; a
// FutureSocialSecurity income carries the claiming age plus the
// engine-populated CalculatedPIA and CalculationYear. CalculatedPIA is set at
// most once for an income's lifetime; once non-zero the engine must not
// recompute it, though the earnings test may still reduce Amount afterward.
type Income struct {
	ID        string          `yaml:"id" json:"id"`
	Name      string          `yaml:"name" json:"name"`
	Kind      IncomeKind      `yaml:"kind" json:"kind"`
	Amount    decimal.Decimal `yaml:"amount" json:"amount"`
	Frequency Frequency       `yaml:"frequency" json:"frequency"`
	Earned    bool            `yaml:"earned" json:"earned"`

	StartDate *time.Time `yaml:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate   *time.Time `yaml:"endDate,omitempty" json:"endDate,omitempty"`

	// Synthesized marks an engine-created line (interest income). Synthesized
	// lines appear in the year's output but are rebuilt fresh each year, never
	// carried forward.
	Synthesized bool `yaml:"-" json:"synthesized,omitempty"`

	GrowthRate *decimal.Decimal `yaml:"growthRate,omitempty" json:"growthRate,omitempty"`

	// Work
	PreTax401k      decimal.Decimal `yaml:"preTax401k,omitempty" json:"preTax401k,omitempty"`
	Roth401k        decimal.Decimal `yaml:"roth401k,omitempty" json:"roth401k,omitempty"`
	HSAContribution decimal.Decimal `yaml:"hsaContribution,omitempty" json:"hsaContribution,omitempty"`
	EmployerMatch   decimal.Decimal `yaml:"employerMatch,omitempty" json:"employerMatch,omitempty"`
	InsuranceCost   decimal.Decimal `yaml:"insuranceCost,omitempty" json:"insuranceCost,omitempty"`
	MatchAccountID  string          `yaml:"matchAccountId,omitempty" json:"matchAccountId,omitempty"`

	// FutureSocialSecurity
	ClaimingAge     int             `yaml:"claimingAge,omitempty" json:"claimingAge,omitempty"`
	CalculatedPIA   decimal.Decimal `yaml:"calculatedPia,omitempty" json:"calculatedPia,omitempty"`
	CalculationYear int             `yaml:"calculationYear,omitempty" json:"calculationYear,omitempty"`
}

// BaseAnnual returns the face annual amount ignoring the active window.
func (inc Income) BaseAnnual() decimal.Decimal {
	return inc.Amount.Mul(inc.Frequency.PerYear())
}

// ActiveFraction returns the fraction of the given calendar year the income
// is active, by whole months. 1 when no window is set.
func (inc Income) ActiveFraction(year int) decimal.Decimal {
	startMonth := 1
	endMonth := 12
	if inc.StartDate != nil {
		if inc.StartDate.Year() > year {
			return decimal.Zero
		}
		if inc.StartDate.Year() == year {
			startMonth = int(inc.StartDate.Month())
		}
	}
	if inc.EndDate != nil {
		if inc.EndDate.Year() < year {
			return decimal.Zero
		}
		if inc.EndDate.Year() == year {
			endMonth = int(inc.EndDate.Month())
		}
	}
	months := endMonth - startMonth + 1
	if months <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(months)).Div(decimal.NewFromInt(12))
}

// AnnualAmount returns the prorated annual amount for the given year.
func (inc Income) AnnualAmount(year int) decimal.Decimal {
	return inc.BaseAnnual().Mul(inc.ActiveFraction(year))
}

// Increment produces next year's version of the income: the base amount grows
// by the income's own growth rate (falling back to the supplied inflation
// rate). Identity, window, and payroll fields carry over unchanged.
func (inc Income) Increment(inflationRate decimal.Decimal) Income {
	next := inc
	rate := inflationRate
	if inc.GrowthRate != nil {
		rate = *inc.GrowthRate
	}
	factor := decimal.NewFromInt(1).Add(rate)
	next.Amount = inc.Amount.Mul(factor)
	if inc.Kind == IncomeWork {
		// Payroll deductions scale with salary.
		next.PreTax401k = inc.PreTax401k.Mul(factor)
		next.Roth401k = inc.Roth401k.Mul(factor)
		next.HSAContribution = inc.HSAContribution.Mul(factor)
		next.EmployerMatch = inc.EmployerMatch.Mul(factor)
		next.InsuranceCost = inc.InsuranceCost.Mul(factor)
	}
	return next
}

// EarnedIncomeTotal sums the prorated annual amount of all earned incomes.
func EarnedIncomeTotal(incomes []Income, year int) decimal.Decimal {
	total := decimal.Zero
	for _, inc := range incomes {
		if inc.Earned {
			total = total.Add(inc.AnnualAmount(year))
		}
	}
	return total
}
