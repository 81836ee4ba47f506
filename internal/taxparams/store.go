// Package taxparams holds the year-indexed tax and Social Security parameter
// tables: bracket thresholds, standard deductions, FICA rates, bend points,
// the national average wage index, and contribution limits. The tables are
// loaded once and shared read-only across every simulation and goroutine.
//
// Every lookup accepts years beyond the last known table year. With
// inflationAdjusted false the latest known year's values are returned
// unchanged; with it true, dollar thresholds are projected forward by
// compounding the supplied inflation rate.
package taxparams

import (
	"github.com/fincast/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// Bracket is one marginal tax bracket. Max of the top bracket is unbounded.
type Bracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// BracketTable is an ordered set of progressive brackets.
type BracketTable []Bracket

// FICAParams holds one year's payroll tax parameters.
type FICAParams struct {
	SocialSecurityRate  decimal.Decimal
	SocialSecurityBase  decimal.Decimal
	MedicareRate        decimal.Decimal
	AdditionalRate      decimal.Decimal
	AdditionalThreshold map[domain.FilingStatus]decimal.Decimal
}

// EarningsTestLimits holds one year's Social Security earnings-test
// thresholds.
type EarningsTestLimits struct {
	BelowFRA decimal.Decimal // $1 withheld per $2 above this
	FRAYear  decimal.Decimal // $1 withheld per $3 above this, in the FRA calendar year
}

// ContributionLimits holds one year's retirement contribution caps.
type ContributionLimits struct {
	Limit401k decimal.Decimal
	LimitIRA  decimal.Decimal
	LimitHSA  decimal.Decimal
}

// Store is the read-only parameter set. Construct with DefaultStore; never
// mutate after process start.
type Store struct {
	LastKnownYear  int
	FirstKnownYear int

	Federal           map[int]map[domain.FilingStatus]BracketTable
	StandardDeduction map[int]map[domain.FilingStatus]decimal.Decimal
	FICA              map[int]FICAParams
	StateFlat         map[string]decimal.Decimal
	StateBrackets     map[string]BracketTable

	BendPoints      map[int][2]decimal.Decimal
	WageIndex       map[int]decimal.Decimal
	EarningsTest    map[int]EarningsTestLimits
	CreditThreshold map[int]decimal.Decimal
	Contribution    map[int]ContributionLimits
}

var one = decimal.NewFromInt(1)

// clampYear pins a requested year into the known table range.
func (s *Store) clampYear(year int) int {
	if year > s.LastKnownYear {
		return s.LastKnownYear
	}
	if year < s.FirstKnownYear {
		return s.FirstKnownYear
	}
	return year
}

// ProjectionFactor returns the compounding factor applied to dollar
// thresholds for a year past the last known table year. It is exactly 1 when
// inflationAdjusted is false or the year is covered by the tables.
func (s *Store) ProjectionFactor(year int, inflationRate decimal.Decimal, inflationAdjusted bool) decimal.Decimal {
	if !inflationAdjusted || year <= s.LastKnownYear {
		return one
	}
	yearsOut := int64(year - s.LastKnownYear)
	return one.Add(inflationRate).Pow(decimal.NewFromInt(yearsOut))
}

// scale returns a copy of the table with thresholds multiplied by factor.
func (bt BracketTable) scale(factor decimal.Decimal) BracketTable {
	if factor.Equal(one) {
		return bt
	}
	scaled := make(BracketTable, len(bt))
	for i, b := range bt {
		scaled[i] = Bracket{Min: b.Min.Mul(factor), Max: b.Max.Mul(factor), Rate: b.Rate}
	}
	return scaled
}

// FederalBrackets returns the federal bracket table for the year and filing
// status, projected if requested.
func (s *Store) FederalBrackets(year int, status domain.FilingStatus, inflationRate decimal.Decimal, inflationAdjusted bool) BracketTable {
	table := s.Federal[s.clampYear(year)][status]
	return table.scale(s.ProjectionFactor(year, inflationRate, inflationAdjusted))
}

// StandardDeductionFor returns the standard deduction for the year and
// filing status, projected if requested.
func (s *Store) StandardDeductionFor(year int, status domain.FilingStatus, inflationRate decimal.Decimal, inflationAdjusted bool) decimal.Decimal {
	ded := s.StandardDeduction[s.clampYear(year)][status]
	return ded.Mul(s.ProjectionFactor(year, inflationRate, inflationAdjusted))
}

// FICAFor returns the FICA parameters for the year; only the wage base and
// additional-Medicare threshold project, rates never do.
func (s *Store) FICAFor(year int, inflationRate decimal.Decimal, inflationAdjusted bool) FICAParams {
	p := s.FICA[s.clampYear(year)]
	factor := s.ProjectionFactor(year, inflationRate, inflationAdjusted)
	if factor.Equal(one) {
		return p
	}
	thresholds := make(map[domain.FilingStatus]decimal.Decimal, len(p.AdditionalThreshold))
	for k, v := range p.AdditionalThreshold {
		thresholds[k] = v.Mul(factor)
	}
	return FICAParams{
		SocialSecurityRate:  p.SocialSecurityRate,
		SocialSecurityBase:  p.SocialSecurityBase.Mul(factor),
		MedicareRate:        p.MedicareRate,
		AdditionalRate:      p.AdditionalRate,
		AdditionalThreshold: thresholds,
	}
}

// StateBracketsFor returns the bracket table for a state, synthesizing a
// single flat bracket for flat-tax states. States without an income tax (or
// unknown states, treated as stale configuration) return an empty table.
func (s *Store) StateBracketsFor(state string, year int, inflationRate decimal.Decimal, inflationAdjusted bool) BracketTable {
	if rate, ok := s.StateFlat[state]; ok {
		return BracketTable{{Min: decimal.Zero, Max: Unbounded, Rate: rate}}
	}
	if table, ok := s.StateBrackets[state]; ok {
		return table.scale(s.ProjectionFactor(year, inflationRate, inflationAdjusted))
	}
	return nil
}

// BendPointsFor returns the PIA bend points for the year, projected by the
// wage growth rate if requested.
func (s *Store) BendPointsFor(year int, wageGrowthRate decimal.Decimal, inflationAdjusted bool) (decimal.Decimal, decimal.Decimal) {
	bp := s.BendPoints[s.clampYear(year)]
	factor := s.ProjectionFactor(year, wageGrowthRate, inflationAdjusted)
	return bp[0].Mul(factor), bp[1].Mul(factor)
}

// WageBaseFor returns the Social Security taxable wage base for the year.
func (s *Store) WageBaseFor(year int, inflationRate decimal.Decimal, inflationAdjusted bool) decimal.Decimal {
	return s.FICAFor(year, inflationRate, inflationAdjusted).SocialSecurityBase
}

// WageIndexFor returns the national average wage index for the year. Years
// past the series project by the wage growth rate when requested, otherwise
// hold the last value.
func (s *Store) WageIndexFor(year int, wageGrowthRate decimal.Decimal, inflationAdjusted bool) decimal.Decimal {
	if v, ok := s.WageIndex[year]; ok {
		return v
	}
	last := s.lastWageIndexYear()
	if year < last {
		// Before the series begins: hold the earliest value.
		return s.WageIndex[s.firstWageIndexYear()]
	}
	v := s.WageIndex[last]
	if !inflationAdjusted {
		return v
	}
	yearsOut := int64(year - last)
	return v.Mul(one.Add(wageGrowthRate).Pow(decimal.NewFromInt(yearsOut)))
}

func (s *Store) lastWageIndexYear() int {
	last := 0
	for y := range s.WageIndex {
		if y > last {
			last = y
		}
	}
	return last
}

func (s *Store) firstWageIndexYear() int {
	first := 1 << 30
	for y := range s.WageIndex {
		if y < first {
			first = y
		}
	}
	return first
}

// EarningsTestFor returns the earnings-test thresholds for the year.
func (s *Store) EarningsTestFor(year int, wageGrowthRate decimal.Decimal, inflationAdjusted bool) EarningsTestLimits {
	l := s.EarningsTest[s.clampYear(year)]
	factor := s.ProjectionFactor(year, wageGrowthRate, inflationAdjusted)
	return EarningsTestLimits{BelowFRA: l.BelowFRA.Mul(factor), FRAYear: l.FRAYear.Mul(factor)}
}

// CreditThresholdFor returns the earnings needed per work credit.
func (s *Store) CreditThresholdFor(year int, wageGrowthRate decimal.Decimal, inflationAdjusted bool) decimal.Decimal {
	t := s.CreditThreshold[s.clampYear(year)]
	return t.Mul(s.ProjectionFactor(year, wageGrowthRate, inflationAdjusted))
}

// ContributionLimitsFor returns the retirement contribution caps.
func (s *Store) ContributionLimitsFor(year int, inflationRate decimal.Decimal, inflationAdjusted bool) ContributionLimits {
	c := s.Contribution[s.clampYear(year)]
	factor := s.ProjectionFactor(year, inflationRate, inflationAdjusted)
	return ContributionLimits{
		Limit401k: c.Limit401k.Mul(factor),
		LimitIRA:  c.LimitIRA.Mul(factor),
		LimitHSA:  c.LimitHSA.Mul(factor),
	}
}

// FullRetirementAge returns the Social Security full retirement age in years
// for a birth year, as a decimal (e.g. 66.5 for someone born in 1957).
func FullRetirementAge(birthYear int) decimal.Decimal {
	switch {
	case birthYear >= 1960:
		return decimal.NewFromInt(67)
	case birthYear >= 1955:
		months := int64(2 * (birthYear - 1954))
		return decimal.NewFromInt(66).Add(decimal.NewFromInt(months).Div(decimal.NewFromInt(12)))
	case birthYear >= 1943:
		return decimal.NewFromInt(66)
	default:
		return decimal.NewFromInt(65)
	}
}

// ClaimingFactor returns the fraction of PIA paid when claiming at the given
// age: reduced 5/9 of 1% per month for the first 36 months before FRA and
// 5/12 of 1% per month beyond, increased 2/3 of 1% per month of delay up to
// age 70.
func ClaimingFactor(claimingAge int, fra decimal.Decimal) decimal.Decimal {
	claim := decimal.NewFromInt(int64(claimingAge))
	if claim.GreaterThan(decimal.NewFromInt(70)) {
		claim = decimal.NewFromInt(70)
	}
	monthsDiff := claim.Sub(fra).Mul(decimal.NewFromInt(12)).Round(0)
	if monthsDiff.IsZero() {
		return one
	}
	if monthsDiff.IsNegative() {
		early := monthsDiff.Neg()
		first := decimal.Min(early, decimal.NewFromInt(36))
		rest := early.Sub(first)
		reduction := first.Mul(decimal.NewFromFloat(5.0 / 9.0)).
			Add(rest.Mul(decimal.NewFromFloat(5.0 / 12.0))).
			Div(decimal.NewFromInt(100))
		return one.Sub(reduction)
	}
	credit := monthsDiff.Mul(decimal.NewFromFloat(2.0 / 3.0)).Div(decimal.NewFromInt(100))
	return one.Add(credit)
}
