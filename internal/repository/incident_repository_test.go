package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// containsMatcher matches when the expected fragment appears anywhere in the
// generated SQL, so tests can pin the clauses that matter without restating
// the whole statement.
var containsMatcher = sqlmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error {
	if !strings.Contains(actualSQL, expectedSQL) {
		return fmt.Errorf("expected SQL to contain %q, got %q", expectedSQL, actualSQL)
	}
	return nil
})

func newMockRepo(t *testing.T) (IncidentRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(containsMatcher))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewIncidentRepository(db), mock
}

func TestListBBoxDelegatesToPostGIS(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("ST_Intersects(incidencias.ubicacion, ST_MakeEnvelope($1, $2, $3, $4, 4326))").
		WithArgs(-64.3, -31.5, -64.1, -31.3, 500).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(IncidentFilter{
		BBox:  &BBoxFilter{MinLon: -64.3, MinLat: -31.5, MaxLon: -64.1, MaxLat: -31.3},
		Limit: 500,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBBoxExcludesNullLocations(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("incidencias.ubicacion IS NOT NULL AND ST_Intersects").
		WithArgs(-64.3, -31.5, -64.1, -31.3, 500).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(IncidentFilter{
		BBox:  &BBoxFilter{MinLon: -64.3, MinLat: -31.5, MaxLon: -64.1, MaxLat: -31.3},
		Limit: 500,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNearDelegatesToPostGIS(t *testing.T) {
	repo, mock := newMockRepo(t)

	// ST_MakePoint takes lon first, even though the endpoint reads lat first.
	mock.ExpectQuery("ST_DWithin(incidencias.ubicacion, ST_SetSRID(ST_MakePoint($1, $2), 4326), $3)").
		WithArgs(-64.19, -31.42, 800.0, 200).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(IncidentFilter{
		Near:  &NearFilter{Lat: -31.42, Lon: -64.19, Radius: 800},
		Limit: 200,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersNewestFirst(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`ORDER BY incidencias.timestamp DESC`).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(IncidentFilter{Limit: 100})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCombinedFilterAddsOneClausePerField(t *testing.T) {
	repo, mock := newMockRepo(t)

	categoryID := uint(3)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("incidencias.categoria_id = $1 AND incidencias.timestamp >= $2 AND incidencias.timestamp <= $3 AND (incidencias.ubicacion IS NOT NULL AND ST_DWithin").
		WithArgs(categoryID, from, to, -64.19, -31.42, 800.0, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(IncidentFilter{
		CategoryID: &categoryID,
		From:       &from,
		To:         &to,
		Near:       &NearFilter{Lat: -31.42, Lon: -64.19, Radius: 800},
		Limit:      100,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPagedCountsBeforePaging(t *testing.T) {
	repo, mock := newMockRepo(t)

	categoryID := uint(3)

	mock.ExpectQuery(`SELECT count(*) FROM "incidencias"`).
		WithArgs(categoryID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery("LIMIT $2 OFFSET $3").
		WithArgs(categoryID, 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := repo.List(IncidentFilter{
		CategoryID: &categoryID,
		Page:       2,
		PageSize:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUnpagedSkipsCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT * FROM "incidencias"`).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := repo.List(IncidentFilter{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
