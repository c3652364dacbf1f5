package models

import "github.com/shopspring/decimal"

// Entity represents one unit of Illinois local government
type Entity struct {
	Code                   string              `json:"code"`
	UnitName               string              `json:"unit_name"`
	EntityType             string              `json:"entity_type"`
	County                 string              `json:"county"`
	CEOFirstName           string              `json:"ceo_first_name,omitempty"`
	CEOLastName            string              `json:"ceo_last_name,omitempty"`
	CEOTitle               string              `json:"ceo_title,omitempty"`
	CFOFirstName           string              `json:"cfo_first_name,omitempty"`
	CFOLastName            string              `json:"cfo_last_name,omitempty"`
	CFOTitle               string              `json:"cfo_title,omitempty"`
	Population             *int64              `json:"population"`
	EqualizedAssessedValue decimal.NullDecimal `json:"equalized_assessed_value"`
	FullTimeEmployees      *int64              `json:"full_time_employees"`
	PartTimeEmployees      *int64              `json:"part_time_employees"`
	HomeRule               bool                `json:"home_rule"`
	HasDebt                bool                `json:"has_debt"`
	HasBondedDebt          bool                `json:"has_bonded_debt"`
}

// EntitySummary is the short entity row returned by searches and listings
type EntitySummary struct {
	Code                   string              `json:"code"`
	UnitName               string              `json:"unit_name"`
	EntityType             string              `json:"entity_type"`
	County                 string              `json:"county"`
	Population             *int64              `json:"population,omitempty"`
	EqualizedAssessedValue decimal.NullDecimal `json:"equalized_assessed_value,omitempty"`
}

// PeerEntity is an entity of the same type and similar population
type PeerEntity struct {
	EntitySummary
	PopulationDifference int64 `json:"population_difference"`
}

// RankedEntity is one row of a metric ranking
type RankedEntity struct {
	Rank        int             `json:"rank"`
	Code        string          `json:"code"`
	UnitName    string          `json:"unit_name"`
	EntityType  string          `json:"entity_type"`
	County      string          `json:"county"`
	MetricValue decimal.Decimal `json:"metric_value"`
}

// CountySummary aggregates the governments of one county
type CountySummary struct {
	County                 string              `json:"county"`
	EntityCount            int64               `json:"entity_count"`
	TotalPopulation        *int64              `json:"total_population"`
	TotalEAV               decimal.NullDecimal `json:"total_eav"`
	TotalFullTimeEmployees *int64              `json:"total_full_time_employees"`
}
