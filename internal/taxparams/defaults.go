package taxparams

import (
	"github.com/fincast/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// Unbounded stands in for the open top of the highest bracket. Consumers of
// bracket tables compare against it rather than minting their own sentinel.
var Unbounded = decimal.NewFromInt(999999999999)

func d(f float64) decimal.Decimal   { return decimal.NewFromFloat(f) }
func di(i int64) decimal.Decimal    { return decimal.NewFromInt(i) }
func pct(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func brackets(edges []int64, rates []float64) BracketTable {
	table := make(BracketTable, len(rates))
	lo := decimal.Zero
	for i, rate := range rates {
		hi := Unbounded
		if i < len(edges) {
			hi = di(edges[i])
		}
		table[i] = Bracket{Min: lo, Max: hi, Rate: pct(rate)}
		lo = hi
	}
	return table
}

var federalRates = []float64{0.10, 0.12, 0.22, 0.24, 0.32, 0.35, 0.37}

// DefaultStore returns the built-in parameter tables. 2025 is the last known
// year; later years hold constant or project per the inflationAdjusted flag.
func DefaultStore() *Store {
	return &Store{
		FirstKnownYear: 2024,
		LastKnownYear:  2025,

		Federal: map[int]map[domain.FilingStatus]BracketTable{
			2024: {
				domain.FilingSingle:  brackets([]int64{11600, 47150, 100525, 191950, 243725, 609350}, federalRates),
				domain.FilingJointly: brackets([]int64{23200, 94300, 201050, 383900, 487450, 731200}, federalRates),
			},
			2025: {
				domain.FilingSingle:  brackets([]int64{11925, 48475, 103350, 197300, 250525, 626350}, federalRates),
				domain.FilingJointly: brackets([]int64{23850, 96950, 206700, 394600, 501050, 751600}, federalRates),
			},
		},

		StandardDeduction: map[int]map[domain.FilingStatus]decimal.Decimal{
			2024: {domain.FilingSingle: di(14600), domain.FilingJointly: di(29200)},
			2025: {domain.FilingSingle: di(15000), domain.FilingJointly: di(30000)},
		},

		FICA: map[int]FICAParams{
			2024: {
				SocialSecurityRate: pct(0.062),
				SocialSecurityBase: di(168600),
				MedicareRate:       pct(0.0145),
				AdditionalRate:     pct(0.009),
				AdditionalThreshold: map[domain.FilingStatus]decimal.Decimal{
					domain.FilingSingle:  di(200000),
					domain.FilingJointly: di(250000),
				},
			},
			2025: {
				SocialSecurityRate: pct(0.062),
				SocialSecurityBase: di(176100),
				MedicareRate:       pct(0.0145),
				AdditionalRate:     pct(0.009),
				AdditionalThreshold: map[domain.FilingStatus]decimal.Decimal{
					domain.FilingSingle:  di(200000),
					domain.FilingJointly: di(250000),
				},
			},
		},

		StateFlat: map[string]decimal.Decimal{
			"PA": pct(0.0307),
			"IL": pct(0.0495),
			"IN": pct(0.0305),
			"MI": pct(0.0425),
			"CO": pct(0.0440),
			"NC": pct(0.0450),
			"MA": pct(0.0500),
			"UT": pct(0.0465),
			// No-income-tax states intentionally absent: lookups for them
			// return an empty table.
		},

		StateBrackets: map[string]BracketTable{
			"CA": brackets(
				[]int64{10412, 24684, 38959, 54081, 68350, 349137, 418961, 698271},
				[]float64{0.01, 0.02, 0.04, 0.06, 0.08, 0.093, 0.103, 0.113, 0.123},
			),
			"NY": brackets(
				[]int64{8500, 11700, 13900, 80650, 215400, 1077550},
				[]float64{0.04, 0.045, 0.0525, 0.055, 0.06, 0.0685, 0.0965},
			),
		},

		BendPoints: map[int][2]decimal.Decimal{
			2024: {di(1174), di(7078)},
			2025: {di(1226), di(7391)},
		},

		// National average wage index (SSA series, dollars).
		WageIndex: map[int]decimal.Decimal{
			1990: d(21027.98), 1991: d(21811.60), 1992: d(22935.42), 1993: d(23132.67),
			1994: d(23753.53), 1995: d(24705.66), 1996: d(25913.90), 1997: d(27426.00),
			1998: d(28861.44), 1999: d(30469.84), 2000: d(32154.82), 2001: d(32921.92),
			2002: d(33252.09), 2003: d(34064.95), 2004: d(35648.55), 2005: d(36952.94),
			2006: d(38651.41), 2007: d(40405.48), 2008: d(41334.97), 2009: d(40711.61),
			2010: d(41673.83), 2011: d(42979.61), 2012: d(44321.67), 2013: d(44888.16),
			2014: d(46481.52), 2015: d(48098.63), 2016: d(48642.15), 2017: d(50321.89),
			2018: d(52145.80), 2019: d(54099.99), 2020: d(55628.60), 2021: d(60575.07),
			2022: d(63795.13), 2023: d(66621.80),
		},

		EarningsTest: map[int]EarningsTestLimits{
			2024: {BelowFRA: di(22320), FRAYear: di(59520)},
			2025: {BelowFRA: di(23400), FRAYear: di(62160)},
		},

		CreditThreshold: map[int]decimal.Decimal{
			2024: di(1730),
			2025: di(1810),
		},

		Contribution: map[int]ContributionLimits{
			2024: {Limit401k: di(23000), LimitIRA: di(7000), LimitHSA: di(4150)},
			2025: {Limit401k: di(23500), LimitIRA: di(7000), LimitHSA: di(4300)},
		},
	}
}
