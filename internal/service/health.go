package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ilfiscal/fiscal-data-service/internal/health"
	"github.com/ilfiscal/fiscal-data-service/internal/models"
	"github.com/ilfiscal/fiscal-data-service/internal/repository"
)

// FiscalHealth assembles an entity's raw aggregates and computes its fiscal
// health report
func (s *Service) FiscalHealth(code string) (*models.FiscalHealthResult, error) {
	entity, err := s.repo.GetEntity(code)
	if err != nil {
		return nil, err
	}
	revenues, err := s.repo.GetRevenues(code)
	if err != nil {
		return nil, err
	}
	expenditures, err := s.repo.GetExpenditures(code)
	if err != nil {
		return nil, err
	}
	fundBalances, err := s.repo.GetFundBalances(code)
	if err != nil {
		return nil, err
	}
	debt, err := s.repo.GetDebt(code)
	if err != nil {
		return nil, err
	}
	pensions, err := s.repo.GetPensions(code)
	if err != nil {
		return nil, err
	}

	financials := buildFinancials(entity, revenues, expenditures, fundBalances, debt, pensions)
	report := health.Compute(financials)

	s.log.Infof("Fiscal health computed for %s (%s)", entity.UnitName, code)
	return &models.FiscalHealthResult{
		Code:     code,
		UnitName: entity.UnitName,
		Metrics:  report,
		RawValues: models.HealthRawValues{
			TotalRevenue:          financials.Revenues.Total(),
			TotalExpenditure:      financials.Expenditures.Total(),
			UnassignedFundBalance: financials.UnassignedFundBalance,
			TotalDebt:             financials.Debt.Total(),
			Population:            entity.Population,
		},
	}, nil
}

// EmailHealthReport computes an entity's health report and mails it
func (s *Service) EmailHealthReport(code, recipient string) error {
	if !strings.Contains(recipient, "@") {
		return fmt.Errorf("%w: recipient must be an email address", ErrInvalidInput)
	}
	if s.mailer == nil {
		return ErrMailDisabled
	}

	result, err := s.FiscalHealth(code)
	if err != nil {
		return err
	}
	return s.mailer.SendHealthReport(recipient, result)
}

// CompareEntities builds a side-by-side comparison of 2 to 10 entities.
// Unknown codes are skipped rather than failing the whole comparison.
func (s *Service) CompareEntities(codes []string) ([]models.EntityComparison, error) {
	if len(codes) < 2 {
		return nil, fmt.Errorf("%w: provide at least 2 entity codes", ErrInvalidInput)
	}
	if len(codes) > maxCompareCodes {
		return nil, fmt.Errorf("%w: maximum %d entities can be compared at once", ErrInvalidInput, maxCompareCodes)
	}

	var comparisons []models.EntityComparison
	for _, code := range codes {
		entity, err := s.repo.GetEntity(code)
		if err == repository.ErrNotFound {
			s.log.Warnf("Comparison skipping unknown entity %s", code)
			continue
		}
		if err != nil {
			return nil, err
		}

		revenues, err := s.RevenueBreakdown(code)
		if err != nil {
			return nil, err
		}
		expenditures, err := s.ExpenditureBreakdown(code)
		if err != nil {
			return nil, err
		}

		comparisons = append(comparisons, models.EntityComparison{
			Code:                 entity.Code,
			UnitName:             entity.UnitName,
			EntityType:           entity.EntityType,
			County:               entity.County,
			Population:           entity.Population,
			EAV:                  entity.EqualizedAssessedValue,
			TotalRevenue:         revenues.Total,
			TotalExpenditure:     expenditures.Total,
			RevenuePerCapita:     perCapita(revenues.Total, entity.Population),
			ExpenditurePerCapita: perCapita(expenditures.Total, entity.Population),
		})
	}
	return comparisons, nil
}

// buildFinancials maps the raw table rows into the health engine's input.
// Fund columns arrive zero-coalesced from the queries; summation per fund
// type happens exactly once, here.
func buildFinancials(
	entity *models.Entity,
	revenues, expenditures, fundBalances []models.CategoryBreakdown,
	debt *models.DebtDetail,
	pensions map[string]models.PensionSystem,
) health.Financials {
	f := health.Financials{
		EntityID:      entity.Code,
		Population:    entity.Population,
		AssessedValue: entity.EqualizedAssessedValue,
		Revenues:      fundTotals(revenues),
		Expenditures:  fundTotals(expenditures),
		Debt: health.DebtBreakdown{
			LongTerm:  decimal.NullDecimal{Decimal: debt.LongTerm, Valid: true},
			ShortTerm: decimal.NullDecimal{Decimal: debt.ShortTerm, Valid: true},
		},
		Pensions: health.PensionRatios{
			IMRF:   pensions["IMRF"].FundedRatio,
			Police: pensions["Police"].FundedRatio,
			Fire:   pensions["Fire"].FundedRatio,
		},
	}

	// The freely spendable reserve is the general-fund column of the
	// unassigned (307t) classification.
	for _, fb := range fundBalances {
		if fb.Category == models.UnassignedFundBalanceCategory {
			f.UnassignedFundBalance = fb.GeneralFund
			break
		}
	}
	return f
}

// fundTotals sums the category rows per fund type
func fundTotals(rows []models.CategoryBreakdown) health.FundBreakdown {
	sums := make([]decimal.Decimal, 7)
	for _, row := range rows {
		for i, v := range []decimal.Decimal{
			row.GeneralFund, row.SpecialRevenue, row.CapitalProjects,
			row.DebtService, row.Enterprise, row.Trust, row.Fiduciary,
		} {
			sums[i] = sums[i].Add(v)
		}
	}
	valid := func(d decimal.Decimal) decimal.NullDecimal {
		return decimal.NullDecimal{Decimal: d, Valid: true}
	}
	return health.FundBreakdown{
		General:         valid(sums[0]),
		SpecialRevenue:  valid(sums[1]),
		CapitalProjects: valid(sums[2]),
		DebtService:     valid(sums[3]),
		Enterprise:      valid(sums[4]),
		Trust:           valid(sums[5]),
		Fiduciary:       valid(sums[6]),
	}
}

// perCapita divides a total by population, null when population is missing
// or zero
func perCapita(total decimal.Decimal, population *int64) decimal.NullDecimal {
	if population == nil || *population <= 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{
		Decimal: total.Div(decimal.NewFromInt(*population)),
		Valid:   true,
	}
}
