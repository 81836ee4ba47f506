package simulation

import (
	"time"

	"github.com/fincast/fincast/internal/domain"
	"github.com/fincast/fincast/internal/taxparams"
	"github.com/shopspring/decimal"
)

// activateSocialSecurity computes the benefit for a FutureSocialSecurity
// income whose holder has just reached claiming age, from earnings extracted
// out of the prior timeline. The returned income carries the monthly benefit,
// a start date of January 1 of the current year, and an end date derived from
// life expectancy.
func (e *Engine) activateSocialSecurity(inc domain.Income, year int, a domain.Assumptions, prior domain.Timeline, currentIncomes []domain.Income) (domain.Income, error) {
	history := e.SocialSecurity.ExtractEarningsFromSimulation(
		prior, nil, a.Macro.WageGrowthRate, a.Macro.InflationAdjusted, currentIncomes)

	var birthYear *int
	if a.Demographics.BirthYear != 0 {
		by := a.Demographics.BirthYear
		birthYear = &by
	}
	result, err := e.SocialSecurity.CalculateBenefit(
		history, year, inc.ClaimingAge, birthYear, a.Macro.WageGrowthRate, a.Macro.InflationAdjusted)
	if err != nil {
		return domain.Income{}, err
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(a.FinalYear(), time.December, 31, 0, 0, 0, 0, time.UTC)

	next := inc
	next.Amount = result.AdjustedMonthly
	next.Frequency = domain.FrequencyMonthly
	next.Earned = false
	next.StartDate = &start
	next.EndDate = &end
	next.CalculatedPIA = result.PIA
	next.CalculationYear = year
	return next, nil
}

// applyEarningsTest reduces any active Social Security benefit whose holder
// is still under full retirement age and has earned income over the annual
// limit. The reduced income keeps its identity; only the amount changes.
func (e *Engine) applyEarningsTest(st *yearState, a domain.Assumptions, ts domain.TaxState) {
	age := a.AgeInYear(st.year)
	fra := taxparams.FullRetirementAge(a.Demographics.BirthYear)
	if decimal.NewFromInt(int64(age)).GreaterThanOrEqual(fra) {
		return
	}

	earned := domain.EarnedIncomeTotal(st.incomes, st.year)
	if earned.LessThanOrEqual(decimal.Zero) {
		return
	}

	for i := range st.incomes {
		inc := st.incomes[i]
		if inc.Kind != domain.IncomeFutureSocialSecurity || inc.CalculatedPIA.IsZero() {
			continue
		}
		annual := inc.AnnualAmount(st.year)
		if annual.LessThanOrEqual(decimal.Zero) {
			continue
		}
		result := e.SocialSecurity.CalculateEarningsTestReduction(
			annual, earned, age, fra, st.year, a.Macro.WageGrowthRate, a.Macro.InflationAdjusted)
		if !result.Applied {
			continue
		}
		scale := result.ReducedBenefit.Div(result.OriginalBenefit)
		st.incomes[i].Amount = inc.Amount.Mul(scale)
		st.logf("earnings test withheld $%s of %q: %s",
			result.Withheld.StringFixed(2), inc.Name, result.Reason)
	}
}
