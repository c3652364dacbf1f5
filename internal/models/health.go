package models

import (
	"github.com/shopspring/decimal"

	"github.com/ilfiscal/fiscal-data-service/internal/health"
)

// HealthRawValues echoes the aggregates the health report was computed from
type HealthRawValues struct {
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	TotalExpenditure      decimal.Decimal `json:"total_expenditure"`
	UnassignedFundBalance decimal.Decimal `json:"unassigned_fund_balance"`
	TotalDebt             decimal.Decimal `json:"total_debt"`
	Population            *int64          `json:"population"`
}

// FiscalHealthResult pairs an entity's health report with the raw inputs
type FiscalHealthResult struct {
	Code      string          `json:"code"`
	UnitName  string          `json:"unit_name"`
	Metrics   health.Report   `json:"metrics"`
	RawValues HealthRawValues `json:"raw_values"`
}
