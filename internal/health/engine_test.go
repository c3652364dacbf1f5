package health

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

func pop(v int64) *int64 {
	return &v
}

func TestComputeAllMissing(t *testing.T) {
	report := Compute(Financials{EntityID: "016/020/32"})

	assert.False(t, report.OperatingMargin.Valid)
	assert.False(t, report.FundBalanceRatio.Valid)
	assert.False(t, report.DebtPerCapita.Valid)
	assert.False(t, report.RevenuePerCapita.Valid)
	assert.False(t, report.ExpenditurePerCapita.Valid)
	assert.False(t, report.PensionFundedRatio.Valid)

	assert.Nil(t, report.OperatingMarginRating)
	assert.Nil(t, report.FundBalanceRating)
	assert.Nil(t, report.DebtRating)
	assert.Nil(t, report.PensionRating)
}

func TestComputeZeroDenominators(t *testing.T) {
	// Zero revenue, zero expenditure, zero population: every division is
	// undefined and must degrade to null, never panic.
	report := Compute(Financials{
		EntityID:   "001/000/00",
		Population: pop(0),
		Revenues:   FundBreakdown{General: amt(0)},
		Expenditures: FundBreakdown{
			General: amt(0), SpecialRevenue: amt(0),
		},
	})

	assert.False(t, report.OperatingMargin.Valid)
	assert.False(t, report.FundBalanceRatio.Valid)
	assert.False(t, report.DebtPerCapita.Valid)
	assert.False(t, report.RevenuePerCapita.Valid)
	assert.False(t, report.ExpenditurePerCapita.Valid)
	assert.Nil(t, report.OperatingMarginRating)
	assert.Nil(t, report.FundBalanceRating)
	assert.Nil(t, report.DebtRating)
	assert.Nil(t, report.PensionRating)
}

func TestFundBreakdownCoalescing(t *testing.T) {
	// One populated category with the rest omitted sums to exactly that
	// category, not null.
	b := FundBreakdown{General: amt(100)}
	assert.True(t, b.Total().Equal(decimal.NewFromInt(100)))

	assert.True(t, FundBreakdown{}.Total().IsZero())
	assert.True(t, DebtBreakdown{}.Total().IsZero())
}

func TestRatingPresentIffRatioPresent(t *testing.T) {
	cases := []struct {
		name string
		in   Financials
	}{
		{"empty", Financials{}},
		{"revenue only", Financials{Revenues: FundBreakdown{General: amt(500)}}},
		{"expenditure only", Financials{Expenditures: FundBreakdown{General: amt(500)}}},
		{"population only", Financials{Population: pop(1200)}},
		{"pension only", Financials{Pensions: PensionRatios{Police: decimal.NewFromInt(55)}}},
		{"full", Financials{
			Population:            pop(65000),
			Revenues:              FundBreakdown{General: amt(180000000)},
			Expenditures:          FundBreakdown{General: amt(170000000)},
			UnassignedFundBalance: decimal.NewFromInt(30000000),
			Debt:                  DebtBreakdown{LongTerm: amt(50000000)},
			Pensions:              PensionRatios{IMRF: decimal.NewFromInt(90)},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := Compute(tc.in)
			assert.Equal(t, report.OperatingMargin.Valid, report.OperatingMarginRating != nil)
			assert.Equal(t, report.FundBalanceRatio.Valid, report.FundBalanceRating != nil)
			assert.Equal(t, report.DebtPerCapita.Valid, report.DebtRating != nil)
			assert.Equal(t, report.PensionFundedRatio.Valid, report.PensionRating != nil)
		})
	}
}

func TestOperatingMarginBoundaries(t *testing.T) {
	cases := []struct {
		margin float64
		want   Rating
	}{
		{0.05, RatingExcellent},
		{0.049999, RatingGood},
		{0.0, RatingGood},
		{-0.0001, RatingFair},
		{-0.05, RatingFair},
		{-0.050001, RatingPoor},
	}
	for _, tc := range cases {
		got := rateOperatingMargin(decimal.NewFromFloat(tc.margin))
		assert.Equal(t, tc.want, got, "margin %v", tc.margin)
	}
}

func TestFundBalanceBoundaries(t *testing.T) {
	cases := []struct {
		ratio float64
		want  Rating
	}{
		{0.25, RatingExcellent},
		{0.15, RatingGood},
		{0.08, RatingFair},
		{0.0799, RatingPoor},
	}
	for _, tc := range cases {
		got := rateFundBalance(decimal.NewFromFloat(tc.ratio))
		assert.Equal(t, tc.want, got, "ratio %v", tc.ratio)
	}
}

func TestDebtPerCapitaBanding(t *testing.T) {
	// Ascending bands: lower debt per capita is better, band edges are
	// inclusive on the upper bound.
	cases := []struct {
		perCapita float64
		want      Rating
	}{
		{0, DebtLow},
		{1000, DebtLow},
		{1000.01, DebtModerate},
		{2500, DebtModerate},
		{2500.01, DebtHigh},
		{5000, DebtHigh},
		{5000.01, DebtVeryHigh},
	}
	for _, tc := range cases {
		got := rateDebtPerCapita(decimal.NewFromFloat(tc.perCapita))
		assert.Equal(t, tc.want, got, "debt per capita %v", tc.perCapita)
	}
}

func TestPensionZeroMeansAbsent(t *testing.T) {
	// A system reported at exactly 0% is indistinguishable from "not
	// offered" in the filings; zeros are excluded from the minimum.
	report := Compute(Financials{
		Pensions: PensionRatios{
			IMRF:   decimal.Zero,
			Police: decimal.NewFromInt(75),
			Fire:   decimal.Zero,
		},
	})

	require.True(t, report.PensionFundedRatio.Valid)
	assert.True(t, report.PensionFundedRatio.Decimal.Equal(decimal.NewFromInt(75)))
	require.NotNil(t, report.PensionRating)
	assert.Equal(t, RatingGood, *report.PensionRating)
}

func TestPensionLowestOfMultipleSystems(t *testing.T) {
	report := Compute(Financials{
		Pensions: PensionRatios{
			IMRF:   decimal.NewFromInt(92),
			Police: decimal.NewFromFloat(38.5),
			Fire:   decimal.NewFromInt(61),
		},
	})

	require.True(t, report.PensionFundedRatio.Valid)
	assert.True(t, report.PensionFundedRatio.Decimal.Equal(decimal.NewFromFloat(38.5)))
	require.NotNil(t, report.PensionRating)
	assert.Equal(t, RatingCritical, *report.PensionRating)
}

func TestPensionAllZeroIsNull(t *testing.T) {
	report := Compute(Financials{Pensions: PensionRatios{}})
	assert.False(t, report.PensionFundedRatio.Valid)
	assert.Nil(t, report.PensionRating)
}

func TestPensionRatingBoundaries(t *testing.T) {
	cases := []struct {
		funded float64
		want   Rating
	}{
		{80, RatingExcellent},
		{79.99, RatingGood},
		{60, RatingGood},
		{59.99, RatingFair},
		{40, RatingFair},
		{39.99, RatingCritical},
	}
	for _, tc := range cases {
		got := ratePensionFunding(decimal.NewFromFloat(tc.funded))
		assert.Equal(t, tc.want, got, "funded %v", tc.funded)
	}
}

func TestComputeEndToEnd(t *testing.T) {
	report := Compute(Financials{
		EntityID:   "016/020/32",
		Population: pop(65000),
		Revenues: FundBreakdown{
			General:        amt(120000000),
			SpecialRevenue: amt(40000000),
			Enterprise:     amt(20000000),
		},
		Expenditures: FundBreakdown{
			General:        amt(115000000),
			SpecialRevenue: amt(35000000),
			Enterprise:     amt(20000000),
		},
		UnassignedFundBalance: decimal.NewFromInt(30000000),
		Debt: DebtBreakdown{
			LongTerm:  amt(45000000),
			ShortTerm: amt(5000000),
		},
		Pensions: PensionRatios{IMRF: decimal.NewFromFloat(88.2)},
	})

	require.True(t, report.OperatingMargin.Valid)
	margin, _ := report.OperatingMargin.Decimal.Round(4).Float64()
	assert.InDelta(t, 0.0556, margin, 0.0001)
	require.NotNil(t, report.OperatingMarginRating)
	assert.Equal(t, RatingExcellent, *report.OperatingMarginRating)

	require.True(t, report.FundBalanceRatio.Valid)
	balance, _ := report.FundBalanceRatio.Decimal.Round(4).Float64()
	assert.InDelta(t, 0.1765, balance, 0.0001)
	require.NotNil(t, report.FundBalanceRating)
	assert.Equal(t, RatingGood, *report.FundBalanceRating)

	require.True(t, report.DebtPerCapita.Valid)
	perCapita, _ := report.DebtPerCapita.Decimal.Round(2).Float64()
	assert.InDelta(t, 769.23, perCapita, 0.01)
	require.NotNil(t, report.DebtRating)
	assert.Equal(t, DebtLow, *report.DebtRating)

	require.True(t, report.RevenuePerCapita.Valid)
	revPC, _ := report.RevenuePerCapita.Decimal.Round(2).Float64()
	assert.InDelta(t, 2769.23, revPC, 0.01)

	require.True(t, report.ExpenditurePerCapita.Valid)
	expPC, _ := report.ExpenditurePerCapita.Decimal.Round(2).Float64()
	assert.InDelta(t, 2615.38, expPC, 0.01)

	require.NotNil(t, report.PensionRating)
	assert.Equal(t, RatingExcellent, *report.PensionRating)
}

func TestComputeIsDeterministic(t *testing.T) {
	in := Financials{
		Population:            pop(12000),
		Revenues:              FundBreakdown{General: amt(9000000), Trust: amt(350000)},
		Expenditures:          FundBreakdown{General: amt(8700000)},
		UnassignedFundBalance: decimal.NewFromInt(1200000),
		Debt:                  DebtBreakdown{LongTerm: amt(6000000)},
		Pensions:              PensionRatios{Police: decimal.NewFromInt(48)},
	}

	first := Compute(in)
	second := Compute(in)
	assert.Equal(t, first, second)
}
