package domain

import (
	"github.com/shopspring/decimal"
)

// WithdrawalStrategyName tags the withdrawal policy to apply.
type WithdrawalStrategyName string

const (
	StrategyFixedReal     WithdrawalStrategyName = "Fixed Real"
	StrategyPercentage    WithdrawalStrategyName = "Percentage"
	StrategyGuytonKlinger WithdrawalStrategyName = "Guyton Klinger"
)

// CapType is the cap policy of one surplus-allocation priority.
type CapType string

const (
	CapFixed              CapType = "FIXED"
	CapRemainder          CapType = "REMAINDER"
	CapMax                CapType = "MAX"
	CapMultipleOfExpenses CapType = "MULTIPLE_OF_EXPENSES"
)

// PriorityRule is one entry of the surplus-allocation waterfall. Rules are
// processed strictly in slice order; the order is user-controlled and
// first-class, never incidental.
//
// CapValue's unit depends on CapType: for FIXED it is a MONTHLY contribution
// amount and the waterfall multiplies it by 12 (the later revision of the
// engine this reimplements; the earlier one treated it as annual), for MAX a
// balance ceiling, for MULTIPLE_OF_EXPENSES a number of months of living
// expenses.
type PriorityRule struct {
	AccountID string          `yaml:"accountId" json:"accountId"`
	CapType   CapType         `yaml:"capType" json:"capType"`
	CapValue  decimal.Decimal `yaml:"capValue,omitempty" json:"capValue,omitempty"`
}

// WithdrawalOrderEntry names an account bucket to drain on shortfall.
// Entries are processed strictly in slice order.
type WithdrawalOrderEntry struct {
	AccountID string `yaml:"accountId" json:"accountId"`
}

// Demographics holds the household's timeline anchors.
type Demographics struct {
	StartYear      int `yaml:"startYear" json:"startYear"`
	StartAge       int `yaml:"startAge" json:"startAge"`
	BirthYear      int `yaml:"birthYear" json:"birthYear"`
	RetirementAge  int `yaml:"retirementAge" json:"retirementAge"`
	LifeExpectancy int `yaml:"lifeExpectancy" json:"lifeExpectancy"`
}

// Macro holds economy-wide assumptions.
type Macro struct {
	InflationRate       decimal.Decimal `yaml:"inflationRate" json:"inflationRate"`
	HealthcareInflation decimal.Decimal `yaml:"healthcareInflation" json:"healthcareInflation"`
	// InflationAdjusted controls whether tax and Social Security tables are
	// projected past their last known year by compounding InflationRate.
	// When false every lookup beyond the table holds the latest year's
	// values exactly.
	InflationAdjusted bool `yaml:"inflationAdjusted" json:"inflationAdjusted"`
	WageGrowthRate    decimal.Decimal `yaml:"wageGrowthRate" json:"wageGrowthRate"`
}

// Investments holds return and withdrawal-policy assumptions.
type Investments struct {
	RateOfReturn       decimal.Decimal        `yaml:"rateOfReturn" json:"rateOfReturn"`
	ReturnStdDev       decimal.Decimal        `yaml:"returnStdDev" json:"returnStdDev"`
	WithdrawalStrategy WithdrawalStrategyName `yaml:"withdrawalStrategy" json:"withdrawalStrategy"`
	WithdrawalRate     decimal.Decimal        `yaml:"withdrawalRate" json:"withdrawalRate"`
	GKUpperGuardrail   decimal.Decimal        `yaml:"gkUpperGuardrail" json:"gkUpperGuardrail"`
	GKLowerGuardrail   decimal.Decimal        `yaml:"gkLowerGuardrail" json:"gkLowerGuardrail"`
	GKAdjustmentPct    decimal.Decimal        `yaml:"gkAdjustmentPercent" json:"gkAdjustmentPercent"`
	// GKPreservationYears suppresses guardrail cuts when fewer than this
	// many years remain to life expectancy. Historically a hard-coded 15.
	GKPreservationYears int  `yaml:"gkPreservationYears" json:"gkPreservationYears"`
	AutoRothConversions bool `yaml:"autoRothConversions" json:"autoRothConversions"`
}

// Assumptions is the pervasive configuration object threaded through every
// engine call. It is read-only during simulation.
type Assumptions struct {
	Demographics Demographics `yaml:"demographics" json:"demographics"`
	Macro        Macro        `yaml:"macro" json:"macro"`
	Investments  Investments  `yaml:"investments" json:"investments"`

	Priorities      []PriorityRule         `yaml:"priorities" json:"priorities"`
	WithdrawalOrder []WithdrawalOrderEntry `yaml:"withdrawalOrder" json:"withdrawalOrder"`
}

// AgeInYear returns the simulated person's age during the given calendar year.
func (a Assumptions) AgeInYear(year int) int {
	return a.Demographics.StartAge + (year - a.Demographics.StartYear)
}

// FinalYear returns the last simulated calendar year.
func (a Assumptions) FinalYear() int {
	return a.Demographics.StartYear + (a.Demographics.LifeExpectancy - a.Demographics.StartAge)
}

// WithReturn returns a copy with the flat rate of return replaced, used by
// the Monte Carlo driver to inject a sampled return for a single year.
func (a Assumptions) WithReturn(rate decimal.Decimal) Assumptions {
	next := a
	next.Investments.RateOfReturn = rate
	return next
}
