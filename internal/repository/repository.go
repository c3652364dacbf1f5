package repository

import (
	"database/sql"
	"fmt"

	"github.com/ilfiscal/fiscal-data-service/internal/models"
)

// tableNames lists the comptroller tables served by this API
var tableNames = []string{
	"unit_data",
	"unit_stats",
	"revenues",
	"expenditures",
	"fund_balances",
	"indebtedness",
	"pensions",
}

// ErrNotFound reports that no row matched the requested key
var ErrNotFound = sql.ErrNoRows

// Repository provides database operations over the configured backend
type Repository struct {
	db      *sql.DB
	dialect Dialect
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{db: db, dialect: dialect}
}

// Dialect reports the backend the repository was built for
func (r *Repository) Dialect() Dialect {
	return r.dialect
}

// Tables lists the tables available through this repository
func (r *Repository) Tables() []string {
	out := make([]string, len(tableNames))
	copy(out, tableNames)
	return out
}

// Ping verifies the backend connection
func (r *Repository) Ping() error {
	if err := r.db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s backend: %w", r.dialect, err)
	}
	return nil
}

// SearchEntities finds entities whose name or county matches the term
func (r *Repository) SearchEntities(term string, limit int) ([]models.EntitySummary, error) {
	query := r.dialect.rebind(fmt.Sprintf(`
		SELECT ud.code, ud.unit_name, ud.description, ud.county
		FROM %s AS ud
		WHERE ud.unit_name %s ? OR ud.county %s ?
		ORDER BY ud.unit_name
		LIMIT ?`,
		r.dialect.table("unit_data"), r.dialect.like(), r.dialect.like()))

	pattern := "%" + term + "%"
	rows, err := r.db.Query(query, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search entities: %w", err)
	}
	defer rows.Close()

	var entities []models.EntitySummary
	for rows.Next() {
		var e models.EntitySummary
		if err := rows.Scan(&e.Code, &e.UnitName, &e.EntityType, &e.County); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entities: %w", err)
	}
	return entities, nil
}

// GetEntity retrieves one entity with its unit statistics
func (r *Repository) GetEntity(code string) (*models.Entity, error) {
	query := r.dialect.rebind(fmt.Sprintf(`
		SELECT ud.code, ud.unit_name, ud.description, ud.county,
			COALESCE(ud.ceo_fname, ''), COALESCE(ud.ceo_lname, ''), COALESCE(ud.ceo_title, ''),
			COALESCE(ud.cfo_fname, ''), COALESCE(ud.cfo_lname, ''), COALESCE(ud.cfo_title, ''),
			us.pop, us.eav, us.full_emp, us.part_emp,
			us.home_rule, us.debt, us.bonded_debt
		FROM %s AS ud
		LEFT JOIN %s AS us ON ud.code = us.code
		WHERE ud.code = ?`,
		r.dialect.table("unit_data"), r.dialect.table("unit_stats")))

	e := &models.Entity{}
	var pop, fullEmp, partEmp sql.NullInt64
	var homeRule, hasDebt, hasBonded sql.NullBool
	err := r.db.QueryRow(query, code).Scan(
		&e.Code, &e.UnitName, &e.EntityType, &e.County,
		&e.CEOFirstName, &e.CEOLastName, &e.CEOTitle,
		&e.CFOFirstName, &e.CFOLastName, &e.CFOTitle,
		&pop, &e.EqualizedAssessedValue, &fullEmp, &partEmp,
		&homeRule, &hasDebt, &hasBonded,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entity %s: %w", code, err)
	}

	e.Population = nullableInt(pop)
	e.FullTimeEmployees = nullableInt(fullEmp)
	e.PartTimeEmployees = nullableInt(partEmp)
	e.HomeRule = homeRule.Bool
	e.HasDebt = hasDebt.Bool
	e.HasBondedDebt = hasBonded.Bool
	return e, nil
}

// EntitiesByCounty lists the entities of one county, optionally filtered by
// entity type, largest population first
func (r *Repository) EntitiesByCounty(county, entityType string) ([]models.EntitySummary, error) {
	typeFilter := ""
	args := []interface{}{county}
	if entityType != "" {
		typeFilter = "AND LOWER(ud.description) = LOWER(?) "
		args = append(args, entityType)
	}

	query := r.dialect.rebind(fmt.Sprintf(`
		SELECT ud.code, ud.unit_name, ud.description, ud.county, us.pop, us.eav
		FROM %s AS ud
		LEFT JOIN %s AS us ON ud.code = us.code
		WHERE LOWER(ud.county) = LOWER(?) %s
		ORDER BY us.pop DESC`,
		r.dialect.table("unit_data"), r.dialect.table("unit_stats"), typeFilter))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list county entities: %w", err)
	}
	defer rows.Close()

	var entities []models.EntitySummary
	for rows.Next() {
		var e models.EntitySummary
		var pop sql.NullInt64
		if err := rows.Scan(&e.Code, &e.UnitName, &e.EntityType, &e.County, &pop, &e.EqualizedAssessedValue); err != nil {
			return nil, fmt.Errorf("failed to scan county entity: %w", err)
		}
		e.Population = nullableInt(pop)
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read county entities: %w", err)
	}
	return entities, nil
}

// CountySummary aggregates the governments of one county
func (r *Repository) CountySummary(county string) (*models.CountySummary, error) {
	query := r.dialect.rebind(fmt.Sprintf(`
		SELECT ud.county, COUNT(*), SUM(us.pop), SUM(us.eav), SUM(us.full_emp)
		FROM %s AS ud
		LEFT JOIN %s AS us ON ud.code = us.code
		WHERE LOWER(ud.county) = LOWER(?)
		GROUP BY ud.county`,
		r.dialect.table("unit_data"), r.dialect.table("unit_stats")))

	s := &models.CountySummary{}
	var totalPop, totalEmp sql.NullInt64
	err := r.db.QueryRow(query, county).Scan(&s.County, &s.EntityCount, &totalPop, &s.TotalEAV, &totalEmp)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to summarize county %s: %w", county, err)
	}
	s.TotalPopulation = nullableInt(totalPop)
	s.TotalFullTimeEmployees = nullableInt(totalEmp)
	return s, nil
}

// PeerEntities finds entities of the same type within the population range of
// the target, nearest population first
func (r *Repository) PeerEntities(code string, rangePct float64, limit int) ([]models.PeerEntity, error) {
	query := r.dialect.rebind(fmt.Sprintf(`
		WITH target AS (
			SELECT ud.code, ud.description, us.pop
			FROM %[1]s AS ud
			LEFT JOIN %[2]s AS us ON ud.code = us.code
			WHERE ud.code = ?
		)
		SELECT ud.code, ud.unit_name, ud.description, ud.county, us.pop, us.eav,
			ABS(us.pop - target.pop)
		FROM %[1]s AS ud
		LEFT JOIN %[2]s AS us ON ud.code = us.code
		CROSS JOIN target
		WHERE ud.code <> ?
			AND us.pop IS NOT NULL
			AND us.pop BETWEEN target.pop * (1 - ?) AND target.pop * (1 + ?)
			AND ud.description = target.description
		ORDER BY ABS(us.pop - target.pop)
		LIMIT ?`,
		r.dialect.table("unit_data"), r.dialect.table("unit_stats")))

	rows, err := r.db.Query(query, code, code, rangePct, rangePct, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find peers for %s: %w", code, err)
	}
	defer rows.Close()

	var peers []models.PeerEntity
	for rows.Next() {
		var p models.PeerEntity
		var pop sql.NullInt64
		if err := rows.Scan(&p.Code, &p.UnitName, &p.EntityType, &p.County, &pop, &p.EqualizedAssessedValue, &p.PopulationDifference); err != nil {
			return nil, fmt.Errorf("failed to scan peer: %w", err)
		}
		p.Population = nullableInt(pop)
		peers = append(peers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read peers: %w", err)
	}
	return peers, nil
}

// rankMetrics whitelists the rankable metric expressions
var rankMetrics = map[string]string{
	"population": "us.pop",
	"eav":        "us.eav",
	"employees":  "COALESCE(us.full_emp, 0) + COALESCE(us.part_emp, 0)",
}

// RankMetricSupported reports whether a metric can be ranked
func RankMetricSupported(metric string) bool {
	_, ok := rankMetrics[metric]
	return ok
}

// RankEntities orders entities by a whitelisted metric. Rank ordinals are
// assigned in result order so one query text serves both backends.
func (r *Repository) RankEntities(metric, entityType, county, order string, limit int) ([]models.RankedEntity, error) {
	expr, ok := rankMetrics[metric]
	if !ok {
		return nil, fmt.Errorf("unknown ranking metric %q", metric)
	}
	dir := "DESC"
	if order == "bottom" {
		dir = "ASC"
	}

	filters := ""
	var args []interface{}
	if entityType != "" {
		filters += " AND LOWER(ud.description) = LOWER(?)"
		args = append(args, entityType)
	}
	if county != "" {
		filters += " AND LOWER(ud.county) = LOWER(?)"
		args = append(args, county)
	}
	args = append(args, limit)

	query := r.dialect.rebind(fmt.Sprintf(`
		SELECT ud.code, ud.unit_name, ud.description, ud.county, %[1]s
		FROM %[2]s AS ud
		LEFT JOIN %[3]s AS us ON ud.code = us.code
		WHERE %[1]s IS NOT NULL%[4]s
		ORDER BY %[1]s %[5]s
		LIMIT ?`,
		expr, r.dialect.table("unit_data"), r.dialect.table("unit_stats"), filters, dir))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to rank entities by %s: %w", metric, err)
	}
	defer rows.Close()

	var ranked []models.RankedEntity
	for rows.Next() {
		var e models.RankedEntity
		if err := rows.Scan(&e.Code, &e.UnitName, &e.EntityType, &e.County, &e.MetricValue); err != nil {
			return nil, fmt.Errorf("failed to scan ranking: %w", err)
		}
		e.Rank = len(ranked) + 1
		ranked = append(ranked, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rankings: %w", err)
	}
	return ranked, nil
}

func nullableInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
