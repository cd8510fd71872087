package database

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/tempcompare/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func rec(y int, m time.Month, d int, tmin, tmax float64) models.Record {
	return models.NewRecord(time.Date(y, m, d, 0, 0, 0, 0, time.UTC), tmin, tmax)
}

func TestUpsertAndList(t *testing.T) {
	db := openTestDB(t)

	imp, err := db.UpsertRecords([]models.Record{
		rec(2024, 6, 16, 19, 27),
		rec(2024, 6, 15, 20, 28),
	}, "first.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, imp.Rows)
	assert.NotEmpty(t, imp.ID)

	records, err := db.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 15, records[0].Date.Day())
	assert.Equal(t, 24.0, records[0].TMean)
}

func TestUpsertLastWriteWins(t *testing.T) {
	db := openTestDB(t)

	_, err := db.UpsertRecords([]models.Record{rec(2024, 6, 15, 20, 28)}, "a.csv")
	require.NoError(t, err)
	_, err = db.UpsertRecords([]models.Record{rec(2024, 6, 15, 10, 12)}, "b.csv")
	require.NoError(t, err)

	records, err := db.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 11.0, records[0].TMean)

	n, err := db.CountRecords()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpsertMissingValues(t *testing.T) {
	db := openTestDB(t)

	_, err := db.UpsertRecords([]models.Record{rec(2024, 1, 1, math.NaN(), 3)}, "gaps.csv")
	require.NoError(t, err)

	records, err := db.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, math.IsNaN(records[0].TMin))
	assert.Equal(t, 3.0, records[0].TMax)
	assert.False(t, records[0].HasMean())
}

func TestListImportsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	clock := time.Date(2026, 1, 22, 17, 45, 0, 0, time.UTC)
	db.now = func() time.Time { return clock }

	_, err := db.UpsertRecords([]models.Record{rec(2024, 1, 1, 0, 1)}, "old.csv")
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	_, err = db.UpsertRecords([]models.Record{rec(2024, 1, 2, 0, 1), rec(2024, 1, 3, 0, 1)}, "new.csv")
	require.NoError(t, err)

	imports, err := db.ListImports()
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, "new.csv", imports[0].Source)
	assert.Equal(t, 2, imports[0].Rows)
	assert.Equal(t, clock, imports[0].ImportedAt)
	assert.Equal(t, "old.csv", imports[1].Source)
}

func TestReset(t *testing.T) {
	db := openTestDB(t)

	_, err := db.UpsertRecords([]models.Record{rec(2024, 1, 1, 0, 1)}, "a.csv")
	require.NoError(t, err)
	require.NoError(t, db.Reset())

	records, err := db.ListRecords()
	require.NoError(t, err)
	assert.Empty(t, records)

	imports, err := db.ListImports()
	require.NoError(t, err)
	assert.Empty(t, imports)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	db, err := New(path)
	require.NoError(t, err)
	_, err = db.UpsertRecords([]models.Record{rec(2024, 1, 1, 0, 2)}, "a.csv")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()

	n, err := db.CountRecords()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpsertRollsBackOnRecordFailure(t *testing.T) {
	db := openTestDB(t)
	_, err := db.conn.Exec(`
	CREATE TRIGGER reject_day BEFORE INSERT ON temperature_records
	WHEN NEW.date = '2024-06-16'
	BEGIN
		SELECT RAISE(ABORT, 'rejected day');
	END`)
	require.NoError(t, err)

	_, err = db.UpsertRecords([]models.Record{
		rec(2024, 6, 15, 20, 28),
		rec(2024, 6, 16, 19, 27),
		rec(2024, 6, 17, 18, 26),
	}, "partial.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upserting record 2024-06-16")

	records, err := db.ListRecords()
	require.NoError(t, err)
	assert.Empty(t, records)

	imports, err := db.ListImports()
	require.NoError(t, err)
	assert.Empty(t, imports)
}

func TestUpsertRollsBackOnImportLogFailure(t *testing.T) {
	db := openTestDB(t)

	_, err := db.UpsertRecords([]models.Record{rec(2024, 6, 15, 20, 28)}, "good.csv")
	require.NoError(t, err)

	_, err = db.conn.Exec(`
	CREATE TRIGGER reject_import BEFORE INSERT ON imports
	BEGIN
		SELECT RAISE(ABORT, 'import log full');
	END`)
	require.NoError(t, err)

	_, err = db.UpsertRecords([]models.Record{
		rec(2024, 6, 15, 10, 12),
		rec(2024, 6, 16, 19, 27),
	}, "bad.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging import")

	records, err := db.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 24.0, records[0].TMean)

	imports, err := db.ListImports()
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "good.csv", imports[0].Source)
}

func TestUpsertImportLogFailureOnEmptyDB(t *testing.T) {
	db := openTestDB(t)
	_, err := db.conn.Exec(`
	CREATE TRIGGER reject_import BEFORE INSERT ON imports
	BEGIN
		SELECT RAISE(ABORT, 'import log full');
	END`)
	require.NoError(t, err)

	_, err = db.UpsertRecords([]models.Record{rec(2024, 6, 15, 20, 28)}, "bad.csv")
	require.Error(t, err)

	records, err := db.ListRecords()
	require.NoError(t, err)
	assert.Empty(t, records)

	imports, err := db.ListImports()
	require.NoError(t, err)
	assert.Empty(t, imports)
}
