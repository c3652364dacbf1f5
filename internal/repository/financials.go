package repository

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ilfiscal/fiscal-data-service/internal/models"
)

// fundColumns is the per-category fund split shared by the revenues,
// expenditures, and fund_balances tables. Each column is coalesced to zero
// in SQL: a missing fund sub-total is not a missing category.
const fundColumns = `category,
		COALESCE(gn, 0), COALESCE(sr, 0), COALESCE(cp, 0), COALESCE(ds, 0),
		COALESCE(ep, 0), COALESCE(ts, 0), COALESCE(fd, 0)`

// GetRevenues returns the revenue categories of one entity
func (r *Repository) GetRevenues(code string) ([]models.CategoryBreakdown, error) {
	return r.categoryRows("revenues", code)
}

// GetExpenditures returns the expenditure categories of one entity
func (r *Repository) GetExpenditures(code string) ([]models.CategoryBreakdown, error) {
	return r.categoryRows("expenditures", code)
}

// GetFundBalances returns the GASB 54 fund balance classifications of one entity
func (r *Repository) GetFundBalances(code string) ([]models.CategoryBreakdown, error) {
	return r.categoryRows("fund_balances", code)
}

func (r *Repository) categoryRows(table, code string) ([]models.CategoryBreakdown, error) {
	query := r.dialect.rebind(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE code = ?
		ORDER BY category`,
		fundColumns, r.dialect.table(table)))

	rows, err := r.db.Query(query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s for %s: %w", table, code, err)
	}
	defer rows.Close()

	var breakdown []models.CategoryBreakdown
	for rows.Next() {
		var c models.CategoryBreakdown
		if err := rows.Scan(
			&c.Category,
			&c.GeneralFund, &c.SpecialRevenue, &c.CapitalProjects, &c.DebtService,
			&c.Enterprise, &c.Trust, &c.Fiduciary,
		); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		c.Total = c.RowTotal()
		breakdown = append(breakdown, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s rows: %w", table, err)
	}
	return breakdown, nil
}

// GetDebt returns the indebtedness row of one entity. An entity with no row
// reports zero debt across the board.
func (r *Repository) GetDebt(code string) (*models.DebtDetail, error) {
	query := r.dialect.rebind(fmt.Sprintf(`
		SELECT COALESCE(t404, 0), COALESCE(t410, 0),
			COALESCE(a401, 0), COALESCE(b401, 0), COALESCE(c401, 0),
			COALESCE(d401, 0), COALESCE(e401, 0)
		FROM %s
		WHERE code = ?`,
		r.dialect.table("indebtedness")))

	d := &models.DebtDetail{}
	err := r.db.QueryRow(query, code).Scan(
		&d.LongTerm, &d.ShortTerm,
		&d.GOBondsBeginning, &d.RevenueBondsBeginning, &d.AltRevenueBeginning,
		&d.ContractualBeginning, &d.OtherDebtBeginning,
	)
	if err == sql.ErrNoRows {
		return &models.DebtDetail{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt for %s: %w", code, err)
	}
	return d, nil
}

// pensionSystems are the retirement systems tracked per entity, keyed by the
// column prefix used in the pensions table
var pensionSystems = []string{"IMRF", "Police", "Fire"}

// GetPensions returns the reported retirement systems of one entity. Systems
// with no reported liability are omitted, matching the filings: an all-null
// pension row means the entity administers no local funds.
func (r *Repository) GetPensions(code string) (map[string]models.PensionSystem, error) {
	query := r.dialect.rebind(fmt.Sprintf(`
		SELECT
			COALESCE(imrf_t501_3, 0), COALESCE(imrf_t502_3, 0), COALESCE(imrf_t504_3, 0),
			COALESCE(police_t501_3, 0), COALESCE(police_t502_3, 0), COALESCE(police_t504_3, 0),
			COALESCE(fire_t501_3, 0), COALESCE(fire_t502_3, 0), COALESCE(fire_t504_3, 0)
		FROM %s
		WHERE code = ?`,
		r.dialect.table("pensions")))

	raw := make([]models.PensionSystem, len(pensionSystems))
	err := r.db.QueryRow(query, code).Scan(
		&raw[0].TotalLiability, &raw[0].PlanAssets, &raw[0].FundedRatio,
		&raw[1].TotalLiability, &raw[1].PlanAssets, &raw[1].FundedRatio,
		&raw[2].TotalLiability, &raw[2].PlanAssets, &raw[2].FundedRatio,
	)
	if err == sql.ErrNoRows {
		return map[string]models.PensionSystem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pensions for %s: %w", code, err)
	}

	systems := make(map[string]models.PensionSystem)
	for i, name := range pensionSystems {
		if raw[i].TotalLiability.GreaterThan(decimal.Zero) {
			systems[name] = raw[i]
		}
	}
	return systems, nil
}
