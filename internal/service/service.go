package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ilfiscal/fiscal-data-service/internal/models"
	"github.com/ilfiscal/fiscal-data-service/internal/repository"
	"github.com/ilfiscal/fiscal-data-service/internal/utils/email"
)

// ErrInvalidInput marks requests rejected before any query runs
var ErrInvalidInput = errors.New("invalid input")

// ErrMailDisabled reports that SMTP delivery is not configured
var ErrMailDisabled = errors.New("email delivery is not configured")

const (
	minSearchTermLen = 2
	maxCompareCodes  = 10
	maxRankLimit     = 50
	defaultLimit     = 10

	// peerRangePct is the population window for peer matching (±25%)
	peerRangePct = 0.25
)

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	mailer *email.Sender
	log    *logrus.Logger
}

// NewService initializes a new service. The mailer may be nil when SMTP is
// not configured; report delivery then returns ErrMailDisabled.
func NewService(repo *repository.Repository, mailer *email.Sender, log *logrus.Logger) *Service {
	return &Service{repo: repo, mailer: mailer, log: log}
}

// DataSource names the backend the service reads from
func (s *Service) DataSource() string {
	return s.repo.Dialect().String()
}

// Tables lists the tables available through the API
func (s *Service) Tables() []string {
	return s.repo.Tables()
}

// Ping verifies the backend connection
func (s *Service) Ping() error {
	return s.repo.Ping()
}

// SearchEntities finds entities by name or county
func (s *Service) SearchEntities(term string, limit int) ([]models.EntitySummary, error) {
	if len(term) < minSearchTermLen {
		return nil, fmt.Errorf("%w: search term must be at least %d characters", ErrInvalidInput, minSearchTermLen)
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	entities, err := s.repo.SearchEntities(term, limit)
	if err != nil {
		return nil, err
	}
	s.log.Infof("Entity search for %q returned %d results", term, len(entities))
	return entities, nil
}

// EntityDetails retrieves one entity with its unit statistics
func (s *Service) EntityDetails(code string) (*models.Entity, error) {
	return s.repo.GetEntity(code)
}

// RevenueBreakdown returns the revenue categories of an entity with category
// names and totals filled in
func (s *Service) RevenueBreakdown(code string) (*models.FinancialBreakdown, error) {
	rows, err := s.repo.GetRevenues(code)
	if err != nil {
		return nil, err
	}
	return enrichBreakdown(code, rows, models.RevenueCategories), nil
}

// ExpenditureBreakdown returns the expenditure categories of an entity
func (s *Service) ExpenditureBreakdown(code string) (*models.FinancialBreakdown, error) {
	rows, err := s.repo.GetExpenditures(code)
	if err != nil {
		return nil, err
	}
	return enrichBreakdown(code, rows, models.ExpenditureCategories), nil
}

// FundBalances returns the GASB 54 fund balance classifications of an entity
func (s *Service) FundBalances(code string) (*models.FinancialBreakdown, error) {
	rows, err := s.repo.GetFundBalances(code)
	if err != nil {
		return nil, err
	}
	return enrichBreakdown(code, rows, models.FundBalanceCategories), nil
}

// DebtSummary returns the total debt and reported detail of an entity
func (s *Service) DebtSummary(code string) (*models.DebtSummary, error) {
	detail, err := s.repo.GetDebt(code)
	if err != nil {
		return nil, err
	}
	return &models.DebtSummary{
		Code:      code,
		TotalDebt: detail.Total(),
		Detail:    *detail,
	}, nil
}

// PensionSummary returns the retirement systems an entity reports
func (s *Service) PensionSummary(code string) (*models.PensionSummary, error) {
	systems, err := s.repo.GetPensions(code)
	if err != nil {
		return nil, err
	}
	return &models.PensionSummary{Code: code, Systems: systems}, nil
}

// CountyEntities lists the governments of one county
func (s *Service) CountyEntities(county, entityType string) ([]models.EntitySummary, error) {
	if county == "" {
		return nil, fmt.Errorf("%w: county is required", ErrInvalidInput)
	}
	return s.repo.EntitiesByCounty(county, entityType)
}

// CountySummary aggregates the governments of one county
func (s *Service) CountySummary(county string) (*models.CountySummary, error) {
	if county == "" {
		return nil, fmt.Errorf("%w: county is required", ErrInvalidInput)
	}
	return s.repo.CountySummary(county)
}

// PeerEntities finds same-type entities of similar population
func (s *Service) PeerEntities(code string) ([]models.PeerEntity, error) {
	return s.repo.PeerEntities(code, peerRangePct, defaultLimit)
}

// RankEntities orders entities by a supported metric
func (s *Service) RankEntities(metric, entityType, county, order string, limit int) ([]models.RankedEntity, error) {
	if !repository.RankMetricSupported(metric) {
		return nil, fmt.Errorf("%w: unknown metric %q (use population, eav, or employees)", ErrInvalidInput, metric)
	}
	if order == "" {
		order = "top"
	}
	if order != "top" && order != "bottom" {
		return nil, fmt.Errorf("%w: order must be 'top' or 'bottom'", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxRankLimit {
		limit = maxRankLimit
	}
	return s.repo.RankEntities(metric, entityType, county, order, limit)
}

// enrichBreakdown fills in category names and the grand total
func enrichBreakdown(code string, rows []models.CategoryBreakdown, names map[string]string) *models.FinancialBreakdown {
	total := decimal.Zero
	for i := range rows {
		rows[i].CategoryName = models.CategoryName(names, rows[i].Category)
		total = total.Add(rows[i].Total)
	}
	return &models.FinancialBreakdown{
		Code:       code,
		Total:      total,
		ByCategory: rows,
	}
}
