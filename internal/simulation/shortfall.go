package simulation

import (
	"github.com/fincast/fincast/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newID() string { return uuid.NewString() }

// resolveShortfall walks the withdrawal-order list in array order, draining
// one bucket at a time until the net target is covered or the list is
// exhausted. The target is the year's deficit raised to the strategy's
// planned draw; only the true expense deficit can fail the year. Entries
// whose account id no longer resolves are silently skipped.
//
// Pre-tax withdrawals stack on top of the year's taxable income, so each one
// raises the running income baseline that later buckets are taxed against:
// the order of the list materially changes total tax paid.
func (e *Engine) resolveShortfall(st *yearState, a domain.Assumptions, ts domain.TaxState) {
	actualDeficit := decimal.Zero
	if st.discretionary.LessThan(decimal.Zero) {
		actualDeficit = st.discretionary.Neg()
	}
	netTarget := decimal.Max(actualDeficit, st.plannedDraw)
	if netTarget.LessThanOrEqual(decimal.Zero) {
		return
	}

	penaltyApplies := a.AgeInYear(st.year) < 60 // under 59.5 at any point in the year
	remaining := netTarget
	netCovered := decimal.Zero

	for _, entry := range a.WithdrawalOrder {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		acct := domain.FindAccount(st.accounts, entry.AccountID)
		if acct == nil {
			continue
		}
		available := acct.AvailableBalance().Sub(st.outflow[acct.ID])
		if available.LessThanOrEqual(decimal.Zero) {
			continue
		}

		var detail domain.WithdrawalDetail
		federalShare := decimal.Zero
		switch {
		case acct.Kind == domain.AccountSaved,
			acct.Kind == domain.AccountInvested && acct.TaxTreatment.IsTaxFree(),
			acct.Kind == domain.AccountInvested && acct.TaxTreatment == domain.TreatmentBrokerage:
			// Tax-free dollar-for-dollar against the deficit.
			w := decimal.Min(remaining, available)
			detail = domain.WithdrawalDetail{
				AccountID:   acct.ID,
				AccountName: acct.Name,
				Gross:       w,
				Net:         w,
			}

		case acct.Kind == domain.AccountInvested && acct.TaxTreatment.IsPreTax():
			// drainPreTax stacks each pass contiguously on the baseline, so
			// the federal share of the whole draw prices out in one pass.
			baseline := st.taxableBaseline
			detail = e.drainPreTax(st, acct, remaining, available, penaltyApplies, ts, a)
			federalShare = e.Tax.MarginalFederalTaxOn(detail.Gross, baseline, st.deduction, ts, st.year, a)

		default:
			// Property, Debt, and sentinel accounts are not withdrawable.
			continue
		}

		if detail.Gross.LessThanOrEqual(decimal.Zero) {
			continue
		}
		st.outflow[acct.ID] = st.outflow[acct.ID].Add(detail.Gross)
		st.withdrawals = append(st.withdrawals, detail)
		st.totalTax = st.totalTax.Add(detail.Tax)
		st.taxDetails.Federal = st.taxDetails.Federal.Add(federalShare)
		st.taxDetails.State = st.taxDetails.State.Add(detail.Tax.Sub(federalShare))
		st.taxDetails.Penalties = st.taxDetails.Penalties.Add(detail.Penalty)
		remaining = remaining.Sub(detail.Net)
		netCovered = netCovered.Add(detail.Net)
	}

	st.discretionary = st.discretionary.Add(netCovered)

	residual := actualDeficit.Sub(netCovered)
	switch {
	case residual.LessThanOrEqual(decimal.Zero):
		// Covered in full; any planned-draw excess stays in discretionary.
	case residual.LessThan(halfCent):
		st.logf("residual deficit of $%s below the half-cent floor treated as zero", residual.StringFixed(4))
		st.discretionary = decimal.Zero
	default:
		st.accounts = append(st.accounts, domain.Account{
			ID:     newID(),
			Name:   "Deficit",
			Kind:   domain.AccountDeficitDebt,
			Amount: residual,
		})
		st.logf("shortfall of $%s could not be covered; recorded as deficit debt", residual.StringFixed(2))
		st.discretionary = decimal.Zero
	}
}

// drainPreTax pulls from a Traditional account until the remaining need is
// covered or the bucket runs dry. Each pass solves for the gross draw whose
// after-tax proceeds cover the need, approximating a penalty by inflating the
// net target by /0.9 before the inverse solver runs; because the penalty
// rides on the full gross, a taxed draw nets slightly short, so the small
// remainder is re-solved against the same bucket. When the solved gross
// exceeds what is left in the account the whole balance is taken instead,
// with the marginal tax of that partial amount computed directly.
func (e *Engine) drainPreTax(st *yearState, acct *domain.Account, remaining, available decimal.Decimal, penaltyApplies bool, ts domain.TaxState, a domain.Assumptions) domain.WithdrawalDetail {
	detail := domain.WithdrawalDetail{AccountID: acct.ID, AccountName: acct.Name}

	for pass := 0; pass < 4 && remaining.GreaterThan(halfCent) && available.GreaterThan(decimal.Zero); pass++ {
		target := remaining
		if penaltyApplies {
			target = target.Div(one.Sub(penaltyRate))
		}

		solved := e.Tax.CalculateGrossWithdrawal(target, st.taxableBaseline, st.deduction, ts, st.year, a)
		gross := solved.GrossWithdrawn
		taxDue := solved.TotalTax
		if gross.GreaterThan(available) {
			// Partial fallback: drain the bucket and price exactly that amount.
			gross = available
			taxDue = e.Tax.MarginalTaxOn(gross, st.taxableBaseline, st.deduction, ts, st.year, a)
		}
		if gross.LessThanOrEqual(decimal.Zero) {
			break
		}

		penalty := decimal.Zero
		if penaltyApplies {
			penalty = gross.Mul(penaltyRate)
		}
		net := gross.Sub(taxDue).Sub(penalty)

		detail.Gross = detail.Gross.Add(gross)
		detail.Tax = detail.Tax.Add(taxDue)
		detail.Penalty = detail.Penalty.Add(penalty)
		detail.Net = detail.Net.Add(net)
		st.taxableBaseline = st.taxableBaseline.Add(gross)
		available = available.Sub(gross)
		remaining = remaining.Sub(net)
	}
	return detail
}
