package simulation

import (
	"github.com/fincast/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// conversionRateCeiling stops automatic conversions once the next converted
// dollar would be taxed above this combined marginal rate.
var conversionRateCeiling = decimal.NewFromFloat(0.25)

// unboundedHeadroom detects the open top bracket, where "fill the bracket"
// would mean converting everything.
var unboundedHeadroom = decimal.NewFromInt(1000000000)

// autoRothConversion, when enabled, moves money from the first Traditional
// account into the first Roth account, filling only the current tax bracket
// and only while the marginal rate stays modest. The conversion tax must be
// payable from the year's remaining discretionary cash or the conversion is
// skipped entirely.
func (e *Engine) autoRothConversion(st *yearState, a domain.Assumptions, ts domain.TaxState) {
	if !a.Investments.AutoRothConversions || st.discretionary.LessThanOrEqual(decimal.Zero) {
		return
	}

	source := firstInvested(st.accounts, func(tt domain.TaxTreatment) bool { return tt.IsPreTax() })
	dest := firstInvested(st.accounts, func(tt domain.TaxTreatment) bool {
		return tt == domain.TreatmentRoth401k || tt == domain.TreatmentRothIRA
	})
	if source == nil || dest == nil {
		return
	}

	available := source.AvailableBalance().Sub(st.outflow[source.ID])
	if available.LessThanOrEqual(decimal.Zero) {
		return
	}

	rate, headroom := e.Tax.GetCombinedMarginalRate(st.taxableBaseline, st.deduction, false, ts, st.year, a)
	if rate.GreaterThan(conversionRateCeiling) || headroom.GreaterThanOrEqual(unboundedHeadroom) {
		return
	}

	amount := decimal.Min(headroom, available)
	if amount.LessThanOrEqual(decimal.Zero) {
		return
	}
	taxCost := e.Tax.MarginalTaxOn(amount, st.taxableBaseline, st.deduction, ts, st.year, a)
	if taxCost.GreaterThan(st.discretionary) {
		return
	}
	federalCost := e.Tax.MarginalFederalTaxOn(amount, st.taxableBaseline, st.deduction, ts, st.year, a)

	st.outflow[source.ID] = st.outflow[source.ID].Add(amount)
	st.userInflow[dest.ID] = st.userInflow[dest.ID].Add(amount)
	st.taxableBaseline = st.taxableBaseline.Add(amount)
	st.discretionary = st.discretionary.Sub(taxCost)
	st.totalTax = st.totalTax.Add(taxCost)
	st.taxDetails.Federal = st.taxDetails.Federal.Add(federalCost)
	st.taxDetails.State = st.taxDetails.State.Add(taxCost.Sub(federalCost))
	st.rothConversion = &domain.RothConversion{
		Amount:        amount,
		TaxCost:       taxCost,
		SourceID:      source.ID,
		DestinationID: dest.ID,
	}
	st.logf("converted $%s from %q to %q at a tax cost of $%s",
		amount.StringFixed(2), source.Name, dest.Name, taxCost.StringFixed(2))
}

func firstInvested(accounts []domain.Account, match func(domain.TaxTreatment) bool) *domain.Account {
	for i := range accounts {
		if accounts[i].Kind == domain.AccountInvested && match(accounts[i].TaxTreatment) {
			return &accounts[i]
		}
	}
	return nil
}
