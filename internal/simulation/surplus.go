package simulation

import (
	"github.com/fincast/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// allocateSurplus walks the priority waterfall in array order, funding each
// rule from whatever discretionary cash remains. Rules referencing a deleted
// account are silently skipped.
func (e *Engine) allocateSurplus(st *yearState, a domain.Assumptions) {
	if st.discretionary.LessThanOrEqual(decimal.Zero) {
		return
	}
	for _, rule := range a.Priorities {
		if st.discretionary.LessThanOrEqual(decimal.Zero) {
			break
		}
		acct := domain.FindAccount(st.accounts, rule.AccountID)
		if acct == nil {
			continue
		}

		var contribution decimal.Decimal
		switch rule.CapType {
		case domain.CapFixed:
			// CapValue is a monthly contribution amount.
			contribution = decimal.Min(st.discretionary, rule.CapValue.Mul(twelve))
		case domain.CapRemainder:
			contribution = st.discretionary
		case domain.CapMax:
			// CapValue is a balance ceiling; contribute only up to it.
			projected := acct.Amount.Add(st.userInflow[acct.ID]).Add(st.employerInflow[acct.ID])
			room := rule.CapValue.Sub(projected)
			contribution = decimal.Min(st.discretionary, decimal.Max(room, decimal.Zero))
		case domain.CapMultipleOfExpenses:
			// CapValue is a number of months of living expenses to hold.
			target := st.livingExpenses.Div(twelve).Mul(rule.CapValue)
			organic := acct.Amount.Mul(one.Add(e.organicGrowthRate(*acct, a)))
			gap := target.Sub(organic).Sub(st.userInflow[acct.ID])
			contribution = decimal.Min(st.discretionary, decimal.Max(gap, decimal.Zero))
		default:
			continue
		}

		if contribution.LessThanOrEqual(decimal.Zero) {
			continue
		}
		st.userInflow[acct.ID] = st.userInflow[acct.ID].Add(contribution)
		st.bucketDetail[acct.ID] = st.bucketDetail[acct.ID].Add(contribution)
		st.userInvested = st.userInvested.Add(contribution)
		st.discretionary = st.discretionary.Sub(contribution)
	}
}

// organicGrowthRate is the return an account produces on its own this year,
// used to size MULTIPLE_OF_EXPENSES contributions.
func (e *Engine) organicGrowthRate(acct domain.Account, a domain.Assumptions) decimal.Decimal {
	switch acct.Kind {
	case domain.AccountSaved:
		return acct.InterestRate
	case domain.AccountInvested:
		if acct.RateOfReturn != nil {
			return *acct.RateOfReturn
		}
		return a.Investments.RateOfReturn
	default:
		return decimal.Zero
	}
}

// applyPayrollContributions deposits each Work income's own 401k amounts plus
// the employer match into its linked account, independent of the waterfall.
// User and employer money stay in separate inflow maps so vesting can tell
// them apart.
func (e *Engine) applyPayrollContributions(st *yearState) {
	for _, inc := range st.incomes {
		if inc.Kind != domain.IncomeWork || inc.MatchAccountID == "" {
			continue
		}
		acct := domain.FindAccount(st.accounts, inc.MatchAccountID)
		if acct == nil {
			continue
		}
		fraction := inc.ActiveFraction(st.year)
		if fraction.LessThanOrEqual(decimal.Zero) {
			continue
		}
		user := inc.PreTax401k.Add(inc.Roth401k).Mul(fraction)
		employer := inc.EmployerMatch.Mul(fraction)
		if user.GreaterThan(decimal.Zero) {
			st.userInflow[acct.ID] = st.userInflow[acct.ID].Add(user)
			st.userInvested = st.userInvested.Add(user)
		}
		if employer.GreaterThan(decimal.Zero) {
			st.employerInflow[acct.ID] = st.employerInflow[acct.ID].Add(employer)
			st.employerInvested = st.employerInvested.Add(employer)
		}
	}
}
