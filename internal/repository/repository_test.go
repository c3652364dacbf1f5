package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T, dialect Dialect) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db, dialect), mock
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	d, err = ParseDialect("SQLite")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	_, err = ParseDialect("bigquery")
	assert.Error(t, err)
}

func TestDialectRebind(t *testing.T) {
	q := "SELECT code FROM unit_data WHERE county = ? AND pop > ? LIMIT ?"

	assert.Equal(t, q, SQLite.rebind(q))
	assert.Equal(t,
		"SELECT code FROM unit_data WHERE county = $1 AND pop > $2 LIMIT $3",
		Postgres.rebind(q))
}

func TestDialectTableAndLike(t *testing.T) {
	assert.Equal(t, "fiscal.revenues", Postgres.table("revenues"))
	assert.Equal(t, "revenues", SQLite.table("revenues"))
	assert.Equal(t, "ILIKE", Postgres.like())
	assert.Equal(t, "LIKE", SQLite.like())
	assert.Equal(t, "sqlite3", SQLite.DriverName())
	assert.Equal(t, "postgres", Postgres.DriverName())
}

func TestSearchEntities(t *testing.T) {
	repo, mock := newMockRepo(t, SQLite)

	rows := sqlmock.NewRows([]string{"code", "unit_name", "description", "county"}).
		AddRow("016/020/32", "Village of Skokie", "Village", "Cook").
		AddRow("016/155/32", "Village of Skokie Park", "Village", "Cook")
	mock.ExpectQuery(`SELECT ud\.code, ud\.unit_name`).
		WithArgs("%Skokie%", "%Skokie%", 10).
		WillReturnRows(rows)

	entities, err := repo.SearchEntities("Skokie", 10)
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, "Village of Skokie", entities[0].UnitName)
	assert.Equal(t, "Cook", entities[0].County)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEntityNotFound(t *testing.T) {
	repo, mock := newMockRepo(t, SQLite)

	mock.ExpectQuery(`LEFT JOIN unit_stats`).
		WithArgs("999/999/99").
		WillReturnRows(sqlmock.NewRows([]string{"code"}))

	_, err := repo.GetEntity("999/999/99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRevenuesTotalsRows(t *testing.T) {
	repo, mock := newMockRepo(t, SQLite)

	cols := []string{"category", "gn", "sr", "cp", "ds", "ep", "ts", "fd"}
	rows := sqlmock.NewRows(cols).
		AddRow("201t", "100.50", "25", "0", "0", "0", "0", "0").
		AddRow("203t", "40", "0", "0", "0", "10", "0", "0")
	mock.ExpectQuery(regexp.QuoteMeta("FROM revenues")).
		WithArgs("016/020/32").
		WillReturnRows(rows)

	breakdown, err := repo.GetRevenues("016/020/32")
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.True(t, breakdown[0].Total.Equal(decimal.NewFromFloat(125.50)))
	assert.True(t, breakdown[1].Total.Equal(decimal.NewFromInt(50)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDebtMissingRowMeansZero(t *testing.T) {
	repo, mock := newMockRepo(t, SQLite)

	mock.ExpectQuery(regexp.QuoteMeta("FROM indebtedness")).
		WithArgs("016/020/32").
		WillReturnRows(sqlmock.NewRows([]string{"t404"}))

	debt, err := repo.GetDebt("016/020/32")
	require.NoError(t, err)
	assert.True(t, debt.Total().IsZero())
}

func TestGetPensionsFiltersEmptySystems(t *testing.T) {
	repo, mock := newMockRepo(t, SQLite)

	cols := []string{
		"imrf_t501_3", "imrf_t502_3", "imrf_t504_3",
		"police_t501_3", "police_t502_3", "police_t504_3",
		"fire_t501_3", "fire_t502_3", "fire_t504_3",
	}
	rows := sqlmock.NewRows(cols).
		AddRow("1000000", "880000", "88", "0", "0", "0", "500000", "210000", "42")
	mock.ExpectQuery(regexp.QuoteMeta("FROM pensions")).
		WithArgs("016/020/32").
		WillReturnRows(rows)

	systems, err := repo.GetPensions("016/020/32")
	require.NoError(t, err)
	require.Len(t, systems, 2)
	assert.Contains(t, systems, "IMRF")
	assert.Contains(t, systems, "Fire")
	assert.NotContains(t, systems, "Police")
	assert.True(t, systems["Fire"].FundedRatio.Equal(decimal.NewFromInt(42)))
}

func TestRankEntitiesAssignsOrdinals(t *testing.T) {
	repo, mock := newMockRepo(t, SQLite)

	cols := []string{"code", "unit_name", "description", "county", "metric"}
	rows := sqlmock.NewRows(cols).
		AddRow("016/030/30", "City of Chicago", "City", "Cook", 2746388).
		AddRow("016/040/30", "City of Aurora", "City", "Kane", 180542).
		AddRow("016/050/30", "City of Naperville", "City", "DuPage", 149540)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY us.pop DESC")).
		WithArgs("City", 10).
		WillReturnRows(rows)

	ranked, err := repo.RankEntities("population", "City", "", "top", 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 3, ranked[2].Rank)
	assert.Equal(t, "City of Aurora", ranked[1].UnitName)
}

func TestRankEntitiesRejectsUnknownMetric(t *testing.T) {
	repo, _ := newMockRepo(t, SQLite)

	_, err := repo.RankEntities("bond_rating", "", "", "top", 10)
	assert.Error(t, err)
	assert.False(t, RankMetricSupported("bond_rating"))
	assert.True(t, RankMetricSupported("eav"))
}
