package health

import "github.com/shopspring/decimal"

// Rating thresholds. The first three dimensions band downward from the top
// (higher is better, lower bound of each band inclusive); debt per capita
// bands upward (lower is better, upper bound of each band inclusive).
var (
	marginExcellent = decimal.NewFromFloat(0.05)
	marginGood      = decimal.Zero
	marginFair      = decimal.NewFromFloat(-0.05)

	balanceExcellent = decimal.NewFromFloat(0.25)
	balanceGood      = decimal.NewFromFloat(0.15)
	balanceFair      = decimal.NewFromFloat(0.08)

	pensionExcellent = decimal.NewFromInt(80)
	pensionGood      = decimal.NewFromInt(60)
	pensionFair      = decimal.NewFromInt(40)

	debtLow      = decimal.NewFromInt(1000)
	debtModerate = decimal.NewFromInt(2500)
	debtHigh     = decimal.NewFromInt(5000)
)

// Compute derives the fiscal health report for one entity. It is total over
// well-typed input: every undefined ratio degrades to null, and ratings are
// assigned only to ratios that exist.
func Compute(f Financials) Report {
	revenue := f.Revenues.Total()
	expenditure := f.Expenditures.Total()
	debt := f.Debt.Total()

	var report Report

	report.OperatingMargin = safeDiv(revenue.Sub(expenditure), revenue)
	report.FundBalanceRatio = safeDiv(f.UnassignedFundBalance, expenditure)

	if f.Population != nil && *f.Population > 0 {
		population := decimal.NewFromInt(*f.Population)
		report.DebtPerCapita = safeDiv(debt, population)
		report.RevenuePerCapita = safeDiv(revenue, population)
		report.ExpenditurePerCapita = safeDiv(expenditure, population)
	}

	report.PensionFundedRatio = f.Pensions.Lowest()

	if report.OperatingMargin.Valid {
		report.OperatingMarginRating = ratingPtr(rateOperatingMargin(report.OperatingMargin.Decimal))
	}
	if report.FundBalanceRatio.Valid {
		report.FundBalanceRating = ratingPtr(rateFundBalance(report.FundBalanceRatio.Decimal))
	}
	if report.DebtPerCapita.Valid {
		report.DebtRating = ratingPtr(rateDebtPerCapita(report.DebtPerCapita.Decimal))
	}
	if report.PensionFundedRatio.Valid {
		report.PensionRating = ratingPtr(ratePensionFunding(report.PensionFundedRatio.Decimal))
	}

	return report
}

// safeDiv returns num/den, or null when the denominator is zero.
func safeDiv(num, den decimal.Decimal) decimal.NullDecimal {
	if den.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: num.Div(den), Valid: true}
}

func rateOperatingMargin(margin decimal.Decimal) Rating {
	switch {
	case margin.GreaterThanOrEqual(marginExcellent):
		return RatingExcellent
	case margin.GreaterThanOrEqual(marginGood):
		return RatingGood
	case margin.GreaterThanOrEqual(marginFair):
		return RatingFair
	default:
		return RatingPoor
	}
}

func rateFundBalance(ratio decimal.Decimal) Rating {
	switch {
	case ratio.GreaterThanOrEqual(balanceExcellent):
		return RatingExcellent
	case ratio.GreaterThanOrEqual(balanceGood):
		return RatingGood
	case ratio.GreaterThanOrEqual(balanceFair):
		return RatingFair
	default:
		return RatingPoor
	}
}

func ratePensionFunding(fundedPct decimal.Decimal) Rating {
	switch {
	case fundedPct.GreaterThanOrEqual(pensionExcellent):
		return RatingExcellent
	case fundedPct.GreaterThanOrEqual(pensionGood):
		return RatingGood
	case fundedPct.GreaterThanOrEqual(pensionFair):
		return RatingFair
	default:
		return RatingCritical
	}
}

func rateDebtPerCapita(perCapita decimal.Decimal) Rating {
	switch {
	case perCapita.LessThanOrEqual(debtLow):
		return DebtLow
	case perCapita.LessThanOrEqual(debtModerate):
		return DebtModerate
	case perCapita.LessThanOrEqual(debtHigh):
		return DebtHigh
	default:
		return DebtVeryHigh
	}
}

func ratingPtr(r Rating) *Rating {
	return &r
}
