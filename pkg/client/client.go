// Package client is a typed Go client for the fiscal data API. It is the
// programmatic surface agent toolsets build on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "http://localhost:8080"

// APIError is a non-2xx reply from the service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to one fiscal data API instance
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient initializes a client. An empty baseURL targets a local instance.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// envelope mirrors the API's response wrapper
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + "/api/v1" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, u, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", u, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", u, err)
	}
	if resp.StatusCode >= 400 || env.Status == "error" {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode payload from %s: %w", u, err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// HealthStatus is the reply of the health probe
type HealthStatus struct {
	Service    string `json:"service"`
	DataSource string `json:"data_source"`
}

// HealthCheck verifies the API and its database are reachable
func (c *Client) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.get(ctx, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EntitySummary is one search or listing hit
type EntitySummary struct {
	Code       string `json:"code"`
	UnitName   string `json:"unit_name"`
	EntityType string `json:"entity_type"`
	County     string `json:"county"`
}

// SearchResult is the reply of an entity search
type SearchResult struct {
	Query    string          `json:"query"`
	Count    int             `json:"count"`
	Entities []EntitySummary `json:"entities"`
}

// SearchEntities finds entities by name or county. Terms shorter than two
// characters are rejected server-side.
func (c *Client) SearchEntities(ctx context.Context, term string, limit int) (*SearchResult, error) {
	q := url.Values{"q": {term}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out SearchResult
	if err := c.get(ctx, "/entities/search", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Entity is the full profile of one local government
type Entity struct {
	Code                   string              `json:"code"`
	UnitName               string              `json:"unit_name"`
	EntityType             string              `json:"entity_type"`
	County                 string              `json:"county"`
	Population             *int64              `json:"population"`
	EqualizedAssessedValue decimal.NullDecimal `json:"equalized_assessed_value"`
	FullTimeEmployees      *int64              `json:"full_time_employees"`
	PartTimeEmployees      *int64              `json:"part_time_employees"`
	HomeRule               bool                `json:"home_rule"`
	HasDebt                bool                `json:"has_debt"`
	HasBondedDebt          bool                `json:"has_bonded_debt"`
}

// GetEntity retrieves one entity by its comptroller code (e.g. 016/020/32)
func (c *Client) GetEntity(ctx context.Context, code string) (*Entity, error) {
	var out Entity
	if err := c.get(ctx, "/entities/"+code, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CategoryAmount is one category row of a financial breakdown
type CategoryAmount struct {
	Category     string          `json:"category"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

// Breakdown is a per-category financial statement with its grand total
type Breakdown struct {
	Code       string           `json:"code"`
	Total      decimal.Decimal  `json:"total"`
	ByCategory []CategoryAmount `json:"by_category"`
}

// GetRevenues retrieves an entity's revenue breakdown
func (c *Client) GetRevenues(ctx context.Context, code string) (*Breakdown, error) {
	return c.breakdown(ctx, code, "revenues")
}

// GetExpenditures retrieves an entity's expenditure breakdown
func (c *Client) GetExpenditures(ctx context.Context, code string) (*Breakdown, error) {
	return c.breakdown(ctx, code, "expenditures")
}

// GetFundBalances retrieves an entity's fund balance classifications
func (c *Client) GetFundBalances(ctx context.Context, code string) (*Breakdown, error) {
	return c.breakdown(ctx, code, "fund-balances")
}

func (c *Client) breakdown(ctx context.Context, code, kind string) (*Breakdown, error) {
	var out Breakdown
	if err := c.get(ctx, "/entities/"+code+"/"+kind, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DebtSummary is an entity's outstanding debt position
type DebtSummary struct {
	Code      string          `json:"code"`
	TotalDebt decimal.Decimal `json:"total_debt"`
}

// GetDebt retrieves an entity's debt summary
func (c *Client) GetDebt(ctx context.Context, code string) (*DebtSummary, error) {
	var out DebtSummary
	if err := c.get(ctx, "/entities/"+code+"/debt", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PensionSystem is one retirement system's funded position
type PensionSystem struct {
	TotalLiability decimal.Decimal `json:"total_liability"`
	PlanAssets     decimal.Decimal `json:"plan_assets"`
	FundedRatio    decimal.Decimal `json:"funded_ratio"`
}

// PensionSummary maps system name (IMRF, Police, Fire) to its position
type PensionSummary struct {
	Code    string                   `json:"code"`
	Systems map[string]PensionSystem `json:"pension_systems"`
}

// GetPensions retrieves an entity's reported retirement systems
func (c *Client) GetPensions(ctx context.Context, code string) (*PensionSummary, error) {
	var out PensionSummary
	if err := c.get(ctx, "/entities/"+code+"/pensions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthReport is the computed fiscal health of one entity
type HealthReport struct {
	Code     string `json:"code"`
	UnitName string `json:"unit_name"`
	Metrics  struct {
		OperatingMargin       decimal.NullDecimal `json:"operating_margin"`
		OperatingMarginRating *string             `json:"operating_margin_rating"`
		FundBalanceRatio      decimal.NullDecimal `json:"fund_balance_ratio"`
		FundBalanceRating     *string             `json:"fund_balance_rating"`
		DebtPerCapita         decimal.NullDecimal `json:"debt_per_capita"`
		DebtRating            *string             `json:"debt_rating"`
		PensionFundedRatio    decimal.NullDecimal `json:"pension_funded_ratio"`
		PensionRating         *string             `json:"pension_rating"`
	} `json:"metrics"`
}

// GetFiscalHealth retrieves an entity's fiscal health report
func (c *Client) GetFiscalHealth(ctx context.Context, code string) (*HealthReport, error) {
	var out HealthReport
	if err := c.get(ctx, "/entities/"+code+"/fiscal-health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EmailFiscalHealth asks the service to mail an entity's health report
func (c *Client) EmailFiscalHealth(ctx context.Context, code, recipient string) error {
	body := map[string]string{"recipient": recipient}
	return c.do(ctx, http.MethodPost, "/entities/"+code+"/fiscal-health/report", nil, body, nil)
}

// PeerResult is the reply of a peer lookup
type PeerResult struct {
	Count int             `json:"count"`
	Peers []EntitySummary `json:"peers"`
}

// GetPeers retrieves entities of the same type with similar population
func (c *Client) GetPeers(ctx context.Context, code string) (*PeerResult, error) {
	var out PeerResult
	if err := c.get(ctx, "/entities/"+code+"/peers", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Comparison is one entity's column in a side-by-side comparison
type Comparison struct {
	Code             string              `json:"code"`
	UnitName         string              `json:"unit_name"`
	Population       *int64              `json:"population"`
	TotalRevenue     decimal.Decimal     `json:"total_revenue"`
	TotalExpenditure decimal.Decimal     `json:"total_expenditure"`
	RevenuePerCapita decimal.NullDecimal `json:"revenue_per_capita"`
}

// ComparisonResult is the reply of an entity comparison
type ComparisonResult struct {
	Count    int          `json:"count"`
	Entities []Comparison `json:"entities"`
}

// CompareEntities compares 2 to 10 entities side by side
func (c *Client) CompareEntities(ctx context.Context, codes []string) (*ComparisonResult, error) {
	q := url.Values{"codes": {strings.Join(codes, ",")}}
	var out ComparisonResult
	if err := c.get(ctx, "/entities/compare", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RankedEntity is one row of a ranking
type RankedEntity struct {
	Rank        int             `json:"rank"`
	Code        string          `json:"code"`
	UnitName    string          `json:"unit_name"`
	MetricValue decimal.Decimal `json:"metric_value"`
}

// RankResult is the reply of a ranking query
type RankResult struct {
	Metric   string         `json:"metric"`
	Count    int            `json:"count"`
	Entities []RankedEntity `json:"entities"`
}

// RankOptions narrows a ranking query. Zero values mean no filter.
type RankOptions struct {
	EntityType string
	County     string
	Order      string
	Limit      int
}

// RankEntities ranks entities by population, eav, or employees
func (c *Client) RankEntities(ctx context.Context, metric string, opts RankOptions) (*RankResult, error) {
	q := url.Values{"metric": {metric}}
	if opts.EntityType != "" {
		q.Set("entity_type", opts.EntityType)
	}
	if opts.County != "" {
		q.Set("county", opts.County)
	}
	if opts.Order != "" {
		q.Set("order", opts.Order)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	var out RankResult
	if err := c.get(ctx, "/entities/rank", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CountyListing is the reply of a county entity listing
type CountyListing struct {
	County   string          `json:"county"`
	Count    int             `json:"count"`
	Entities []EntitySummary `json:"entities"`
}

// GetCountyEntities lists a county's entities, optionally by type
func (c *Client) GetCountyEntities(ctx context.Context, county, entityType string) (*CountyListing, error) {
	var q url.Values
	if entityType != "" {
		q = url.Values{"entity_type": {entityType}}
	}
	var out CountyListing
	if err := c.get(ctx, "/counties/"+url.PathEscape(county)+"/entities", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CountySummary is a county's aggregate figures
type CountySummary struct {
	County      string              `json:"county"`
	EntityCount int                 `json:"entity_count"`
	TotalEAV    decimal.NullDecimal `json:"total_eav"`
}

// GetCountySummary retrieves a county's aggregates
func (c *Client) GetCountySummary(ctx context.Context, county string) (*CountySummary, error) {
	var out CountySummary
	if err := c.get(ctx, "/counties/"+url.PathEscape(county)+"/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TreasuryYield is the external debt benchmark
type TreasuryYield struct {
	Date    string  `json:"date"`
	TenYear float64 `json:"ten_year_yield"`
}

// GetTreasuryBenchmark retrieves the latest 10-year Treasury yield
func (c *Client) GetTreasuryBenchmark(ctx context.Context) (*TreasuryYield, error) {
	var out TreasuryYield
	if err := c.get(ctx, "/benchmarks/treasury", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
