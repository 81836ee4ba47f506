package domain

import (
	"github.com/shopspring/decimal"
)

// FilingStatus is the federal filing status.
type FilingStatus string

const (
	FilingSingle  FilingStatus = "single"
	FilingJointly FilingStatus = "married_filing_jointly"
)

// DeductionMethod selects how the deduction is determined.
type DeductionMethod string

const (
	DeductionStandard DeductionMethod = "Standard"
	DeductionItemized DeductionMethod = "Itemized"
	DeductionAuto     DeductionMethod = "Auto"
)

// TaxState carries the household's filing situation plus optional manual
// overrides. An override, when present, replaces the computed tax outright;
// there is no blending.
type TaxState struct {
	FilingStatus    FilingStatus    `yaml:"filingStatus" json:"filingStatus"`
	StateResidency  string          `yaml:"stateResidency" json:"stateResidency"`
	DeductionMethod DeductionMethod `yaml:"deductionMethod" json:"deductionMethod"`
	ItemizedAmount  decimal.Decimal `yaml:"itemizedAmount,omitempty" json:"itemizedAmount,omitempty"`

	FederalOverride *decimal.Decimal `yaml:"federalOverride,omitempty" json:"federalOverride,omitempty"`
	FICAOverride    *decimal.Decimal `yaml:"ficaOverride,omitempty" json:"ficaOverride,omitempty"`
	StateOverride   *decimal.Decimal `yaml:"stateOverride,omitempty" json:"stateOverride,omitempty"`

	// Year selects the tax table vintage; zero means the simulated year.
	Year int `yaml:"year,omitempty" json:"year,omitempty"`
}

// TableYear returns the tax-table year to use for the given simulated year.
func (ts TaxState) TableYear(simYear int) int {
	if ts.Year != 0 {
		return ts.Year
	}
	return simYear
}
