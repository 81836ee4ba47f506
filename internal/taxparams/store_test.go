package taxparams

import (
	"testing"

	"github.com/fincast/fincast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullRetirementAge(t *testing.T) {
	tests := []struct {
		birthYear int
		expected  string
	}{
		{1960, "67"},
		{1975, "67"},
		{1957, "66.5"},
		{1955, "66.1666666666666667"},
		{1950, "66"},
		{1940, "65"},
	}
	for _, tt := range tests {
		fra := FullRetirementAge(tt.birthYear)
		assert.Equal(t, tt.expected, fra.Round(16).String(), "birth year %d", tt.birthYear)
	}
}

func TestClaimingFactor(t *testing.T) {
	fra := decimal.NewFromInt(67)

	tests := []struct {
		name        string
		claimingAge int
		expected    string
	}{
		{"earliest claim at 62", 62, "0.7"},
		{"full retirement age", 67, "1"},
		{"maximum delay at 70", 70, "1.24"},
		{"claims past 70 cap at 70", 73, "1.24"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factor := ClaimingFactor(tt.claimingAge, fra)
			assert.True(t, factor.Round(4).Equal(decimal.RequireFromString(tt.expected)),
				"got %s", factor.String())
		})
	}
}

func TestProjectionFactor(t *testing.T) {
	s := DefaultStore()
	infl := decimal.NewFromFloat(0.02)

	assert.True(t, s.ProjectionFactor(2024, infl, true).Equal(decimal.NewFromInt(1)),
		"known years never project")
	assert.True(t, s.ProjectionFactor(2040, infl, false).Equal(decimal.NewFromInt(1)),
		"holds constant when projection is off")

	expected := decimal.NewFromFloat(1.02).Pow(decimal.NewFromInt(5))
	assert.True(t, s.ProjectionFactor(2030, infl, true).Equal(expected))
}

func TestFederalBracketsClampAndProject(t *testing.T) {
	s := DefaultStore()
	infl := decimal.NewFromFloat(0.03)

	held := s.FederalBrackets(2050, domain.FilingSingle, infl, false)
	known := s.FederalBrackets(2025, domain.FilingSingle, infl, false)
	require.Len(t, held, len(known))
	assert.True(t, held[0].Max.Equal(known[0].Max), "unadjusted future years hold the last table")

	projected := s.FederalBrackets(2026, domain.FilingSingle, infl, true)
	assert.True(t, projected[0].Max.Equal(known[0].Max.Mul(decimal.NewFromFloat(1.03))))
}

func TestStateBracketsFor(t *testing.T) {
	s := DefaultStore()
	zero := decimal.Zero

	flat := s.StateBracketsFor("PA", 2024, zero, false)
	require.Len(t, flat, 1, "flat states synthesize a single bracket")
	assert.True(t, flat[0].Rate.Equal(decimal.NewFromFloat(0.0307)))

	ca := s.StateBracketsFor("CA", 2024, zero, false)
	assert.Greater(t, len(ca), 1)

	assert.Empty(t, s.StateBracketsFor("TX", 2024, zero, false), "no-income-tax state")
	assert.Empty(t, s.StateBracketsFor("ZZ", 2024, zero, false), "unknown state is silently empty")
}

func TestEarningsTestFor(t *testing.T) {
	s := DefaultStore()
	limits := s.EarningsTestFor(2024, decimal.Zero, false)
	assert.True(t, limits.BelowFRA.Equal(decimal.NewFromInt(22320)))
	assert.True(t, limits.FRAYear.Equal(decimal.NewFromInt(59520)))
}

func TestContributionLimitsFor(t *testing.T) {
	s := DefaultStore()

	limits := s.ContributionLimitsFor(2024, decimal.Zero, false)
	assert.True(t, limits.Limit401k.Equal(decimal.NewFromInt(23000)))
	assert.True(t, limits.LimitIRA.Equal(decimal.NewFromInt(7000)))
	assert.True(t, limits.LimitHSA.Equal(decimal.NewFromInt(4150)))

	held := s.ContributionLimitsFor(2040, decimal.NewFromFloat(0.03), false)
	assert.True(t, held.Limit401k.Equal(decimal.NewFromInt(23500)), "holds the last table when projection is off")
}

func TestFICARatesNeverProject(t *testing.T) {
	s := DefaultStore()
	infl := decimal.NewFromFloat(0.05)

	p := s.FICAFor(2035, infl, true)
	assert.True(t, p.SocialSecurityRate.Equal(decimal.NewFromFloat(0.062)), "rates are statutory, not indexed")
	base2025 := decimal.NewFromInt(176100)
	assert.True(t, p.SocialSecurityBase.GreaterThan(base2025), "dollar thresholds do project")
}
