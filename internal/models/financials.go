package models

import "github.com/shopspring/decimal"

// CategoryBreakdown is one revenue, expenditure, or fund balance category
// split across the fund types. Fund columns are zero-coalesced by the query.
type CategoryBreakdown struct {
	Category        string          `json:"category"`
	CategoryName    string          `json:"category_name"`
	GeneralFund     decimal.Decimal `json:"general_fund"`
	SpecialRevenue  decimal.Decimal `json:"special_revenue"`
	CapitalProjects decimal.Decimal `json:"capital_projects"`
	DebtService     decimal.Decimal `json:"debt_service"`
	Enterprise      decimal.Decimal `json:"enterprise"`
	Trust           decimal.Decimal `json:"trust"`
	Fiduciary       decimal.Decimal `json:"fiduciary"`
	Total           decimal.Decimal `json:"total"`
}

// RowTotal sums the fund columns of one category row
func (c CategoryBreakdown) RowTotal() decimal.Decimal {
	return c.GeneralFund.
		Add(c.SpecialRevenue).
		Add(c.CapitalProjects).
		Add(c.DebtService).
		Add(c.Enterprise).
		Add(c.Trust).
		Add(c.Fiduciary)
}

// DebtDetail holds the indebtedness row for one entity
type DebtDetail struct {
	LongTerm              decimal.Decimal `json:"long_term"`
	ShortTerm             decimal.Decimal `json:"short_term"`
	GOBondsBeginning      decimal.Decimal `json:"go_bonds_beginning"`
	RevenueBondsBeginning decimal.Decimal `json:"revenue_bonds_beginning"`
	AltRevenueBeginning   decimal.Decimal `json:"alt_revenue_bonds_beginning"`
	ContractualBeginning  decimal.Decimal `json:"contractual_beginning"`
	OtherDebtBeginning    decimal.Decimal `json:"other_debt_beginning"`
}

// Total sums the two reported debt-instrument categories
func (d DebtDetail) Total() decimal.Decimal {
	return d.LongTerm.Add(d.ShortTerm)
}

// PensionSystem holds the reported figures for one retirement system
type PensionSystem struct {
	TotalLiability decimal.Decimal `json:"total_liability"`
	PlanAssets     decimal.Decimal `json:"plan_assets"`
	FundedRatio    decimal.Decimal `json:"funded_ratio"`
}

// FinancialBreakdown is a per-category financial table with its grand total
type FinancialBreakdown struct {
	Code       string              `json:"code"`
	Total      decimal.Decimal     `json:"total"`
	ByCategory []CategoryBreakdown `json:"by_category"`
}

// DebtSummary pairs an entity's total debt with the reported detail
type DebtSummary struct {
	Code      string          `json:"code"`
	TotalDebt decimal.Decimal `json:"total_debt"`
	Detail    DebtDetail      `json:"details"`
}

// PensionSummary holds the reported retirement systems of one entity
type PensionSummary struct {
	Code    string                   `json:"code"`
	Systems map[string]PensionSystem `json:"pension_systems"`
}

// EntityComparison is one entity's row in a side-by-side comparison
type EntityComparison struct {
	Code                 string              `json:"code"`
	UnitName             string              `json:"unit_name"`
	EntityType           string              `json:"entity_type"`
	County               string              `json:"county"`
	Population           *int64              `json:"population"`
	EAV                  decimal.NullDecimal `json:"eav"`
	TotalRevenue         decimal.Decimal     `json:"total_revenue"`
	TotalExpenditure     decimal.Decimal     `json:"total_expenditure"`
	RevenuePerCapita     decimal.NullDecimal `json:"revenue_per_capita"`
	ExpenditurePerCapita decimal.NullDecimal `json:"expenditure_per_capita"`
}
