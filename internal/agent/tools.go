package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ilfiscal/fiscal-data-service/pkg/client"
)

// Toolset wraps the API client behind the tool surface the agents call.
// Argument validation happens here so the model gets a usable error message
// instead of a transport failure.
type Toolset struct {
	api *client.Client
}

// NewToolset initializes the toolset over one API client
func NewToolset(api *client.Client) *Toolset {
	return &Toolset{api: api}
}

// AllToolNames lists every tool the toolset exposes
func AllToolNames() []string {
	return []string{
		"search_government_entity",
		"get_entity_details",
		"get_revenue_data",
		"get_expenditure_data",
		"get_fund_balance_data",
		"get_debt_data",
		"get_pension_data",
		"calculate_fiscal_health_score",
		"compare_entities",
		"find_peer_entities",
		"rank_entities",
		"get_county_entities",
		"get_county_financial_summary",
	}
}

func requireCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("entity code is required (e.g. 016/020/32)")
	}
	return nil
}

// SearchGovernmentEntity finds entities by name or county
func (t *Toolset) SearchGovernmentEntity(ctx context.Context, term string, limit int) (*client.SearchResult, error) {
	if len(strings.TrimSpace(term)) < 2 {
		return nil, fmt.Errorf("search term must be at least 2 characters")
	}
	return t.api.SearchEntities(ctx, term, limit)
}

// GetEntityDetails retrieves one entity's full profile
func (t *Toolset) GetEntityDetails(ctx context.Context, code string) (*client.Entity, error) {
	if err := requireCode(code); err != nil {
		return nil, err
	}
	return t.api.GetEntity(ctx, code)
}

// GetRevenueData retrieves an entity's revenue breakdown
func (t *Toolset) GetRevenueData(ctx context.Context, code string) (*client.Breakdown, error) {
	if err := requireCode(code); err != nil {
		return nil, err
	}
	return t.api.GetRevenues(ctx, code)
}

// GetExpenditureData retrieves an entity's expenditure breakdown
func (t *Toolset) GetExpenditureData(ctx context.Context, code string) (*client.Breakdown, error) {
	if err := requireCode(code); err != nil {
		return nil, err
	}
	return t.api.GetExpenditures(ctx, code)
}

// GetFundBalanceData retrieves an entity's fund balance classifications
func (t *Toolset) GetFundBalanceData(ctx context.Context, code string) (*client.Breakdown, error) {
	if err := requireCode(code); err != nil {
		return nil, err
	}
	return t.api.GetFundBalances(ctx, code)
}

// GetDebtData retrieves an entity's debt summary
func (t *Toolset) GetDebtData(ctx context.Context, code string) (*client.DebtSummary, error) {
	if err := requireCode(code); err != nil {
		return nil, err
	}
	return t.api.GetDebt(ctx, code)
}

// GetPensionData retrieves an entity's pension systems
func (t *Toolset) GetPensionData(ctx context.Context, code string) (*client.PensionSummary, error) {
	if err := requireCode(code); err != nil {
		return nil, err
	}
	return t.api.GetPensions(ctx, code)
}

// CalculateFiscalHealthScore computes an entity's fiscal health report
func (t *Toolset) CalculateFiscalHealthScore(ctx context.Context, code string) (*client.HealthReport, error) {
	if err := requireCode(code); err != nil {
		return nil, err
	}
	return t.api.GetFiscalHealth(ctx, code)
}

// CompareEntities compares 2 to 10 entities side by side
func (t *Toolset) CompareEntities(ctx context.Context, codes []string) (*client.ComparisonResult, error) {
	if len(codes) < 2 {
		return nil, fmt.Errorf("at least 2 entity codes are required for a comparison")
	}
	if len(codes) > 10 {
		return nil, fmt.Errorf("at most 10 entities can be compared at once")
	}
	return t.api.CompareEntities(ctx, codes)
}

// FindPeerEntities finds entities of the same type with similar population
func (t *Toolset) FindPeerEntities(ctx context.Context, code string) (*client.PeerResult, error) {
	if err := requireCode(code); err != nil {
		return nil, err
	}
	return t.api.GetPeers(ctx, code)
}

// RankEntities ranks entities by population, eav, or employees
func (t *Toolset) RankEntities(ctx context.Context, metric string, opts client.RankOptions) (*client.RankResult, error) {
	switch metric {
	case "population", "eav", "employees":
	default:
		return nil, fmt.Errorf("unknown metric %q (use population, eav, or employees)", metric)
	}
	return t.api.RankEntities(ctx, metric, opts)
}

// GetCountyEntities lists a county's entities
func (t *Toolset) GetCountyEntities(ctx context.Context, county, entityType string) (*client.CountyListing, error) {
	if strings.TrimSpace(county) == "" {
		return nil, fmt.Errorf("county name is required")
	}
	return t.api.GetCountyEntities(ctx, county, entityType)
}

// GetCountyFinancialSummary retrieves a county's aggregates
func (t *Toolset) GetCountyFinancialSummary(ctx context.Context, county string) (*client.CountySummary, error) {
	if strings.TrimSpace(county) == "" {
		return nil, fmt.Errorf("county name is required")
	}
	return t.api.GetCountySummary(ctx, county)
}
