// Package health computes fiscal health indicators for Illinois local
// government entities from their reported financial aggregates.
//
// The computation is a pure function over value objects: no I/O, no logging,
// no shared state. Undefined arithmetic (zero or missing denominators) yields
// a null ratio rather than an error, and a rating is present exactly when its
// source ratio is.
//
// Data convention: a pension funded ratio reported as exactly zero is treated
// as "no such retirement system", not as a 0%-funded plan. The source filings
// do not distinguish the two cases.
package health

import "github.com/shopspring/decimal"

// Rating is a categorical label for one fiscal health dimension.
type Rating string

// Ratings for the descending dimensions (higher is better).
const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingFair      Rating = "Fair"
	RatingPoor      Rating = "Poor"
	RatingCritical  Rating = "Critical"
)

// Ratings for debt per capita (lower is better).
const (
	DebtLow      Rating = "Low"
	DebtModerate Rating = "Moderate"
	DebtHigh     Rating = "High"
	DebtVeryHigh Rating = "Very High"
)

// FundBreakdown holds one amount per fund category. Absent categories stay
// null and are coalesced to zero when the breakdown is totaled.
type FundBreakdown struct {
	General         decimal.NullDecimal `json:"general"`
	SpecialRevenue  decimal.NullDecimal `json:"special_revenue"`
	CapitalProjects decimal.NullDecimal `json:"capital_projects"`
	DebtService     decimal.NullDecimal `json:"debt_service"`
	Enterprise      decimal.NullDecimal `json:"enterprise"`
	Trust           decimal.NullDecimal `json:"trust"`
	Fiduciary       decimal.NullDecimal `json:"fiduciary"`
}

// Total sums the fund categories, coalescing each absent category to zero
// independently before summation.
func (b FundBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range []decimal.NullDecimal{
		b.General, b.SpecialRevenue, b.CapitalProjects, b.DebtService,
		b.Enterprise, b.Trust, b.Fiduciary,
	} {
		if v.Valid {
			total = total.Add(v.Decimal)
		}
	}
	return total
}

// DebtBreakdown holds the two reported debt-instrument sub-totals.
type DebtBreakdown struct {
	LongTerm  decimal.NullDecimal `json:"long_term"`
	ShortTerm decimal.NullDecimal `json:"short_term"`
}

// Total sums the debt sub-totals, coalescing absent values to zero.
func (b DebtBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range []decimal.NullDecimal{b.LongTerm, b.ShortTerm} {
		if v.Valid {
			total = total.Add(v.Decimal)
		}
	}
	return total
}

// PensionRatios holds the funded ratio (percent, 0-100) per retirement
// system. Zero means the system is not offered.
type PensionRatios struct {
	IMRF   decimal.Decimal `json:"imrf"`
	Police decimal.Decimal `json:"police"`
	Fire   decimal.Decimal `json:"fire"`
}

// Lowest returns the smallest nonzero funded ratio, or null when every
// system is absent.
func (p PensionRatios) Lowest() decimal.NullDecimal {
	var lowest decimal.NullDecimal
	for _, v := range []decimal.Decimal{p.IMRF, p.Police, p.Fire} {
		if !v.IsPositive() {
			continue
		}
		if !lowest.Valid || v.LessThan(lowest.Decimal) {
			lowest = decimal.NullDecimal{Decimal: v, Valid: true}
		}
	}
	return lowest
}

// Financials is the raw per-entity input for one reporting year. Callers are
// responsible for validating shape (non-negative population, well-formed
// amounts) before construction; business-data gaps are absorbed here.
type Financials struct {
	EntityID              string              `json:"entity_id"`
	Population            *int64              `json:"population"`
	AssessedValue         decimal.NullDecimal `json:"assessed_value"`
	Revenues              FundBreakdown       `json:"revenues"`
	Expenditures          FundBreakdown       `json:"expenditures"`
	UnassignedFundBalance decimal.Decimal     `json:"unassigned_fund_balance"`
	Debt                  DebtBreakdown       `json:"debt"`
	Pensions              PensionRatios       `json:"pensions"`
}

// Report is the derived fiscal health report. It is recomputed on demand and
// never persisted. A rating field is non-null iff its source ratio is.
type Report struct {
	OperatingMargin      decimal.NullDecimal `json:"operating_margin"`
	FundBalanceRatio     decimal.NullDecimal `json:"fund_balance_ratio"`
	DebtPerCapita        decimal.NullDecimal `json:"debt_per_capita"`
	RevenuePerCapita     decimal.NullDecimal `json:"revenue_per_capita"`
	ExpenditurePerCapita decimal.NullDecimal `json:"expenditure_per_capita"`
	PensionFundedRatio   decimal.NullDecimal `json:"pension_funded_ratio"`

	OperatingMarginRating *Rating `json:"operating_margin_rating"`
	FundBalanceRating     *Rating `json:"fund_balance_rating"`
	DebtRating            *Rating `json:"debt_rating"`
	PensionRating         *Rating `json:"pension_rating"`
}
