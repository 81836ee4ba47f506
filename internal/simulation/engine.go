// Package simulation contains the year-stepping projection engine. StepYear
// is a pure function from one year's state to the next; every other file in
// the package implements one of its phases. All continuity between years
// travels through the SimulationYear records, which keeps Monte Carlo
// fan-out trivially safe.
package simulation

import (
	"fmt"

	"github.com/fincast/fincast/internal/domain"
	"github.com/fincast/fincast/internal/socialsecurity"
	"github.com/fincast/fincast/internal/tax"
	"github.com/fincast/fincast/internal/taxparams"
	"github.com/fincast/fincast/internal/withdrawal"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	one = decimal.NewFromInt(1)
	// halfCent is the residual-deficit noise floor.
	halfCent = decimal.NewFromFloat(0.005)
	// interestFloor suppresses synthesized interest below one cent.
	interestFloor = decimal.NewFromFloat(0.01)
	// penaltyRate is the early-withdrawal penalty on pre-tax accounts.
	penaltyRate = decimal.NewFromFloat(0.10)
	twelve      = decimal.NewFromInt(12)
)

// Engine steps a household's finances forward one year at a time. It holds
// only stateless collaborators and is safe to share across goroutines.
type Engine struct {
	Tax            *tax.Calculator
	SocialSecurity *socialsecurity.Calculator
	Log            *logrus.Logger
}

// NewEngine builds an engine over the given parameter store.
func NewEngine(params *taxparams.Store, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		Tax:            tax.NewCalculator(params),
		SocialSecurity: socialsecurity.NewCalculator(params),
		Log:            log,
	}
}

// NewDefaultEngine builds an engine over the built-in parameter tables.
func NewDefaultEngine() *Engine {
	return NewEngine(taxparams.DefaultStore(), nil)
}

// yearState accumulates the mutable working set of one StepYear call. It
// never escapes the call.
type yearState struct {
	year     int
	incomes  []domain.Income
	expenses []domain.Expense
	accounts []domain.Account

	grossIncome    decimal.Decimal
	earnedIncome   decimal.Decimal
	preTax         decimal.Decimal
	postTax        decimal.Decimal
	insurance      decimal.Decimal
	livingExpenses decimal.Decimal
	totalTax       decimal.Decimal
	deduction      decimal.Decimal
	// taxableBaseline is the running ordinary-income base the next taxable
	// event stacks on; pre-tax withdrawals raise it mid-year.
	taxableBaseline decimal.Decimal

	taxDetails    domain.TaxDetails
	discretionary decimal.Decimal
	withdrawals   []domain.WithdrawalDetail
	bucketDetail  map[string]decimal.Decimal

	// per-account cash movements applied during the growth phase
	userInflow     map[string]decimal.Decimal
	employerInflow map[string]decimal.Decimal
	outflow        map[string]decimal.Decimal

	userInvested     decimal.Decimal
	employerInvested decimal.Decimal

	strategyState  *domain.StrategyState
	rothConversion *domain.RothConversion
	// plannedDraw is the strategy's target withdrawal; it raises the shortfall
	// walk's net target but an uncovered remainder is not a failure.
	plannedDraw decimal.Decimal

	logs []string
}

func (st *yearState) logf(format string, args ...interface{}) {
	st.logs = append(st.logs, fmt.Sprintf(format, args...))
}

// StepYear advances the household by one calendar year. The inputs are the
// prior year's incomes/expenses and the beginning-of-year account balances;
// the caller-supplied slices are never mutated. priorTimeline supplies
// earnings history for Social Security activation and last year's withdrawal
// strategy state.
func (e *Engine) StepYear(year int, incomes []domain.Income, expenses []domain.Expense, accounts []domain.Account, a domain.Assumptions, ts domain.TaxState, priorTimeline domain.Timeline) domain.SimulationYear {
	st := &yearState{
		year:           year,
		accounts:       cloneAccounts(accounts),
		bucketDetail:   map[string]decimal.Decimal{},
		userInflow:     map[string]decimal.Decimal{},
		employerInflow: map[string]decimal.Decimal{},
		outflow:        map[string]decimal.Decimal{},
	}

	// Phase 1: grow incomes and expenses, activating Social Security claims.
	st.incomes = e.growIncomes(st, incomes, a, priorTimeline)
	st.expenses = growExpenses(expenses, a)

	// Phase 2: earnings test on active Social Security benefits.
	e.applyEarningsTest(st, a, ts)

	// Phase 3: synthesize interest income from Saved accounts.
	st.incomes = append(st.incomes, e.synthesizeInterest(st)...)

	// Phase 4: tax on income known before any withdrawal.
	e.computeBaseTax(st, a, ts)

	// Phase 5: living expenses.
	for _, exp := range st.expenses {
		st.livingExpenses = st.livingExpenses.Add(exp.AnnualAmount(year))
	}

	// Phase 6: discretionary cashflow, strategy withdrawal target, and
	// shortfall resolution.
	st.discretionary = st.grossIncome.
		Sub(st.preTax).
		Sub(st.postTax).
		Sub(st.totalTax).
		Sub(st.livingExpenses)
	e.applyWithdrawalStrategy(st, a, priorTimeline)
	e.resolveShortfall(st, a, ts)

	// Phase 7: surplus waterfall.
	e.allocateSurplus(st, a)

	// Phase 7.5: optional automatic Roth conversion.
	e.autoRothConversion(st, a, ts)

	// Phase 8: payroll contributions and employer match.
	e.applyPayrollContributions(st)

	// Phase 9: account growth.
	e.growAccounts(st, a)

	// Phase 10: summary assembly.
	return e.assemble(st)
}

// growIncomes produces this year's income set. A FutureSocialSecurity income
// whose holder has reached claiming age with no benefit computed yet triggers
// the benefit calculator; on failure the error is logged and the income
// increments normally, leaving the benefit at zero.
func (e *Engine) growIncomes(st *yearState, incomes []domain.Income, a domain.Assumptions, prior domain.Timeline) []domain.Income {
	grown := make([]domain.Income, 0, len(incomes))
	age := a.AgeInYear(st.year)
	for _, inc := range incomes {
		if inc.Synthesized {
			// Interest lines are rebuilt from this year's balances.
			continue
		}
		if inc.Kind == domain.IncomeFutureSocialSecurity && inc.CalculatedPIA.IsZero() && age >= inc.ClaimingAge {
			activated, err := e.activateSocialSecurity(inc, st.year, a, prior, incomes)
			if err != nil {
				st.logf("Social Security calculation for %q failed: %v", inc.Name, err)
				e.Log.WithError(err).WithField("income", inc.Name).Warn("social security activation failed")
				grown = append(grown, inc.Increment(a.Macro.InflationRate))
				continue
			}
			st.logf("Social Security %q claimed at age %d: $%s/month", inc.Name, inc.ClaimingAge, activated.Amount.StringFixed(2))
			grown = append(grown, activated)
			continue
		}
		grown = append(grown, inc.Increment(a.Macro.InflationRate))
	}
	return grown
}

func growExpenses(expenses []domain.Expense, a domain.Assumptions) []domain.Expense {
	grown := make([]domain.Expense, 0, len(expenses))
	for _, exp := range expenses {
		grown = append(grown, exp.Increment(a.Macro.InflationRate))
	}
	return grown
}

// synthesizeInterest creates one unearned income line per Saved account with
// a positive rate and balance. The line is appended to the income set, never
// blended in, and is excluded from FICA and the earnings test.
func (e *Engine) synthesizeInterest(st *yearState) []domain.Income {
	var synthesized []domain.Income
	for _, acct := range st.accounts {
		if acct.Kind != domain.AccountSaved {
			continue
		}
		if acct.InterestRate.LessThanOrEqual(decimal.Zero) || acct.Amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		interest := acct.Amount.Mul(acct.InterestRate)
		if interest.LessThan(interestFloor) {
			continue
		}
		synthesized = append(synthesized, domain.Income{
			ID:          newID(),
			Name:        acct.Name + " Interest",
			Kind:        domain.IncomePassive,
			Amount:      interest,
			Frequency:   domain.FrequencyAnnual,
			Earned:      false,
			Synthesized: true,
		})
	}
	return synthesized
}

// computeBaseTax runs the pre-withdrawal tax pass: gross income, payroll
// deductions, insurance, and federal/state/FICA on income known so far.
func (e *Engine) computeBaseTax(st *yearState, a domain.Assumptions, ts domain.TaxState) {
	for _, inc := range st.incomes {
		fraction := inc.ActiveFraction(st.year)
		st.grossIncome = st.grossIncome.Add(inc.BaseAnnual().Mul(fraction))
		if inc.Kind == domain.IncomeWork {
			st.preTax = st.preTax.Add(inc.PreTax401k.Add(inc.HSAContribution).Mul(fraction))
			st.postTax = st.postTax.Add(inc.Roth401k.Mul(fraction))
			st.insurance = st.insurance.Add(inc.InsuranceCost.Mul(fraction))
		}
	}
	st.earnedIncome = domain.EarnedIncomeTotal(st.incomes, st.year)
	st.deduction = e.Tax.Deduction(ts, st.year, a)

	taxable := st.grossIncome.Sub(st.preTax)
	st.taxableBaseline = taxable
	st.taxDetails = domain.TaxDetails{
		Federal:           e.Tax.CalculateFederalTax(taxable, st.deduction, ts, st.year, a),
		State:             e.Tax.CalculateStateTax(taxable, ts, st.year, a),
		FICA:              e.Tax.CalculateFicaTax(st.earnedIncome, ts, st.year, a),
		PreTaxDeductions:  st.preTax,
		PostTaxDeductions: st.postTax,
		Insurance:         st.insurance,
	}
	st.totalTax = st.taxDetails.Federal.Add(st.taxDetails.State).Add(st.taxDetails.FICA)
}

// applyWithdrawalStrategy raises the withdrawal target to the policy's
// planned amount during retirement. Any planned draw beyond the year's actual
// deficit flows into discretionary and on to the surplus waterfall.
func (e *Engine) applyWithdrawalStrategy(st *yearState, a domain.Assumptions, prior domain.Timeline) {
	age := a.AgeInYear(st.year)
	if age < a.Demographics.RetirementAge || a.Investments.WithdrawalRate.IsZero() {
		return
	}
	portfolio := liquidPortfolio(st.accounts)
	var previous *domain.StrategyState
	if len(prior) > 0 {
		previous = prior[len(prior)-1].StrategyState
	}
	state := withdrawal.CalculateStrategyWithdrawal(a.Investments, withdrawal.Request{
		CurrentPortfolio: portfolio,
		Rate:             a.Investments.WithdrawalRate,
		InflationRate:    a.Macro.InflationRate,
		YearsElapsed:     age - a.Demographics.RetirementAge,
		YearsRemaining:   a.Demographics.LifeExpectancy - age,
		Previous:         previous,
	})
	st.strategyState = &state
	if state.Adjustment == withdrawal.AdjustmentCut || state.Adjustment == withdrawal.AdjustmentRaise {
		st.logf("withdrawal guardrail %s: planned withdrawal now $%s", state.Adjustment, state.Amount.StringFixed(2))
	}
	if state.Amount.GreaterThan(decimal.Zero) {
		st.plannedDraw = state.Amount
	}
}

// liquidPortfolio is the withdrawal-strategy base: invested plus saved
// balances, liabilities and property excluded.
func liquidPortfolio(accounts []domain.Account) decimal.Decimal {
	total := decimal.Zero
	for _, acct := range accounts {
		if acct.Kind == domain.AccountInvested || acct.Kind == domain.AccountSaved {
			total = total.Add(acct.Amount)
		}
	}
	return total
}

func cloneAccounts(accounts []domain.Account) []domain.Account {
	cloned := make([]domain.Account, len(accounts))
	copy(cloned, accounts)
	return cloned
}

// assemble packages the year's outputs into the immutable record.
func (e *Engine) assemble(st *yearState) domain.SimulationYear {
	trueUserSaved := st.grossIncome.
		Sub(st.taxDetails.Total()).
		Sub(st.insurance).
		Sub(st.livingExpenses).
		Sub(st.discretionary)

	return domain.SimulationYear{
		Year:     st.year,
		Incomes:  st.incomes,
		Expenses: st.expenses,
		Accounts: st.accounts,
		Cashflow: domain.Cashflow{
			GrossIncome:      st.grossIncome,
			TotalExpense:     st.livingExpenses,
			Discretionary:    st.discretionary,
			UserInvested:     st.userInvested,
			EmployerInvested: st.employerInvested,
			BucketDetail:     st.bucketDetail,
			Withdrawals:      st.withdrawals,
			TrueUserSaved:    trueUserSaved,
		},
		TaxDetails:     st.taxDetails,
		RothConversion: st.rothConversion,
		StrategyState:  st.strategyState,
		Logs:           st.logs,
	}
}
