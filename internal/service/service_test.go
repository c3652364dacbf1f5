package service

import (
	"io"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilfiscal/fiscal-data-service/internal/health"
	"github.com/ilfiscal/fiscal-data-service/internal/models"
	"github.com/ilfiscal/fiscal-data-service/internal/repository"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	repo := repository.NewRepository(db, repository.SQLite)
	return NewService(repo, nil, log), mock
}

func TestSearchEntitiesRejectsShortTerm(t *testing.T) {
	svc, _ := newMockService(t)

	_, err := svc.SearchEntities("S", 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompareEntitiesValidatesCount(t *testing.T) {
	svc, _ := newMockService(t)

	_, err := svc.CompareEntities([]string{"016/020/32"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	codes := make([]string, 11)
	for i := range codes {
		codes[i] = "016/020/32"
	}
	_, err = svc.CompareEntities(codes)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRankEntitiesValidation(t *testing.T) {
	svc, _ := newMockService(t)

	_, err := svc.RankEntities("bond_rating", "", "", "top", 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RankEntities("population", "", "", "sideways", 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEmailHealthReportGuards(t *testing.T) {
	svc, _ := newMockService(t)

	err := svc.EmailHealthReport("016/020/32", "not-an-address")
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.EmailHealthReport("016/020/32", "clerk@example.org")
	assert.ErrorIs(t, err, ErrMailDisabled)
}

func TestEnrichBreakdown(t *testing.T) {
	rows := []models.CategoryBreakdown{
		{Category: "201t", Total: decimal.NewFromInt(500)},
		{Category: "999x", Total: decimal.NewFromInt(100)},
	}

	b := enrichBreakdown("016/020/32", rows, models.RevenueCategories)
	assert.Equal(t, "Property Taxes", b.ByCategory[0].CategoryName)
	// Unknown codes fall back to the raw code.
	assert.Equal(t, "999x", b.ByCategory[1].CategoryName)
	assert.True(t, b.Total.Equal(decimal.NewFromInt(600)))
}

func TestFundTotalsSumsColumns(t *testing.T) {
	rows := []models.CategoryBreakdown{
		{GeneralFund: decimal.NewFromInt(100), Enterprise: decimal.NewFromInt(10)},
		{GeneralFund: decimal.NewFromInt(50), Trust: decimal.NewFromInt(5)},
	}

	b := fundTotals(rows)
	assert.True(t, b.General.Decimal.Equal(decimal.NewFromInt(150)))
	assert.True(t, b.Enterprise.Decimal.Equal(decimal.NewFromInt(10)))
	assert.True(t, b.Trust.Decimal.Equal(decimal.NewFromInt(5)))
	assert.True(t, b.Total().Equal(decimal.NewFromInt(165)))
}

func TestPerCapita(t *testing.T) {
	population := int64(1000)
	v := perCapita(decimal.NewFromInt(2500), &population)
	require.True(t, v.Valid)
	assert.True(t, v.Decimal.Equal(decimal.NewFromFloat(2.5)))

	assert.False(t, perCapita(decimal.NewFromInt(2500), nil).Valid)

	zero := int64(0)
	assert.False(t, perCapita(decimal.NewFromInt(2500), &zero).Valid)
}

func TestBuildFinancialsUnassignedBalance(t *testing.T) {
	population := int64(65000)
	entity := &models.Entity{Code: "016/020/32", Population: &population}
	fundBalances := []models.CategoryBreakdown{
		{Category: "303t", GeneralFund: decimal.NewFromInt(9999999)},
		{Category: "307t", GeneralFund: decimal.NewFromInt(30000000), Enterprise: decimal.NewFromInt(123)},
	}
	pensions := map[string]models.PensionSystem{
		"Police": {FundedRatio: decimal.NewFromInt(75)},
	}

	f := buildFinancials(entity, nil, nil, fundBalances, &models.DebtDetail{}, pensions)

	assert.True(t, f.UnassignedFundBalance.Equal(decimal.NewFromInt(30000000)))
	assert.True(t, f.Pensions.Police.Equal(decimal.NewFromInt(75)))
	assert.True(t, f.Pensions.IMRF.IsZero())
	assert.Equal(t, &population, f.Population)
}

func TestFiscalHealthEndToEnd(t *testing.T) {
	svc, mock := newMockService(t)

	entityCols := []string{
		"code", "unit_name", "description", "county",
		"ceo_fname", "ceo_lname", "ceo_title",
		"cfo_fname", "cfo_lname", "cfo_title",
		"pop", "eav", "full_emp", "part_emp",
		"home_rule", "debt", "bonded_debt",
	}
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN unit_stats")).
		WithArgs("016/020/32").
		WillReturnRows(sqlmock.NewRows(entityCols).AddRow(
			"016/020/32", "Village of Skokie", "Village", "Cook",
			"", "", "", "", "", "",
			65000, "2400000000", 550, 120,
			true, true, true,
		))

	fundCols := []string{"category", "gn", "sr", "cp", "ds", "ep", "ts", "fd"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM revenues")).
		WithArgs("016/020/32").
		WillReturnRows(sqlmock.NewRows(fundCols).
			AddRow("201t", "120000000", "0", "0", "0", "0", "0", "0").
			AddRow("203t", "0", "40000000", "0", "0", "20000000", "0", "0"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM expenditures")).
		WithArgs("016/020/32").
		WillReturnRows(sqlmock.NewRows(fundCols).
			AddRow("251t", "115000000", "35000000", "0", "0", "20000000", "0", "0"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM fund_balances")).
		WithArgs("016/020/32").
		WillReturnRows(sqlmock.NewRows(fundCols).
			AddRow("307t", "30000000", "0", "0", "0", "0", "0", "0"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM indebtedness")).
		WithArgs("016/020/32").
		WillReturnRows(sqlmock.NewRows([]string{"t404", "t410", "a401", "b401", "c401", "d401", "e401"}).
			AddRow("45000000", "5000000", "0", "0", "0", "0", "0"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM pensions")).
		WithArgs("016/020/32").
		WillReturnRows(sqlmock.NewRows([]string{
			"imrf_t501_3", "imrf_t502_3", "imrf_t504_3",
			"police_t501_3", "police_t502_3", "police_t504_3",
			"fire_t501_3", "fire_t502_3", "fire_t504_3",
		}).AddRow("1000000", "882000", "88.2", "0", "0", "0", "0", "0", "0"))

	result, err := svc.FiscalHealth("016/020/32")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "Village of Skokie", result.UnitName)
	assert.True(t, result.RawValues.TotalRevenue.Equal(decimal.NewFromInt(180000000)))
	assert.True(t, result.RawValues.TotalDebt.Equal(decimal.NewFromInt(50000000)))

	m := result.Metrics
	require.NotNil(t, m.OperatingMarginRating)
	assert.Equal(t, health.RatingExcellent, *m.OperatingMarginRating)
	require.NotNil(t, m.FundBalanceRating)
	assert.Equal(t, health.RatingGood, *m.FundBalanceRating)
	require.NotNil(t, m.DebtRating)
	assert.Equal(t, health.DebtLow, *m.DebtRating)
	require.NotNil(t, m.PensionRating)
	assert.Equal(t, health.RatingExcellent, *m.PensionRating)
}
