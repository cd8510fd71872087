package database

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jgoulah/tempcompare/pkg/models"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// Import is one entry in the import log
type Import struct {
	ID         string
	Source     string
	Rows       int
	ImportedAt time.Time
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, now: time.Now}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS temperature_records (
		date TEXT PRIMARY KEY,
		tmin REAL,
		tmax REAL,
		tmean REAL,
		source TEXT NOT NULL,
		imported_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS imports (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		rows INTEGER NOT NULL,
		imported_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_imports_imported_at ON imports(imported_at);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// UpsertRecords stores records in a single transaction. A date that already
// exists is overwritten, so the latest import wins. Either every record is
// stored or none is
func (db *DB) UpsertRecords(records []models.Record, source string) (*Import, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
	INSERT INTO temperature_records (date, tmin, tmax, tmean, source, imported_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(date) DO UPDATE SET
		tmin = excluded.tmin,
		tmax = excluded.tmax,
		tmean = excluded.tmean,
		source = excluded.source,
		imported_at = excluded.imported_at
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	importedAt := db.now().UTC()
	stamp := importedAt.Format(time.RFC3339)

	for _, r := range records {
		_, err := stmt.Exec(r.Date.Format(dateLayout), nullable(r.TMin), nullable(r.TMax), nullable(r.TMean), source, stamp)
		if err != nil {
			return nil, fmt.Errorf("upserting record %s: %w", r.Date.Format(dateLayout), err)
		}
	}

	imp := &Import{
		ID:         uuid.NewString(),
		Source:     source,
		Rows:       len(records),
		ImportedAt: importedAt,
	}
	if _, err := tx.Exec(`INSERT INTO imports (id, source, rows, imported_at) VALUES (?, ?, ?, ?)`,
		imp.ID, imp.Source, imp.Rows, stamp); err != nil {
		return nil, fmt.Errorf("logging import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}

	return imp, nil
}

// ListRecords retrieves all stored records, ordered by date
func (db *DB) ListRecords() ([]models.Record, error) {
	rows, err := db.conn.Query(`
	SELECT date, tmin, tmax
	FROM temperature_records
	ORDER BY date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var results []models.Record
	for rows.Next() {
		var dateStr string
		var tmin, tmax sql.NullFloat64

		if err := rows.Scan(&dateStr, &tmin, &tmax); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing date: %w", err)
		}

		// tmean is recomputed so the stored copy can never drift from tmin/tmax
		results = append(results, models.NewRecord(date, orNaN(tmin), orNaN(tmax)))
	}

	return results, rows.Err()
}

// CountRecords returns the number of stored records
func (db *DB) CountRecords() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM temperature_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// ListImports retrieves the import log, newest first
func (db *DB) ListImports() ([]Import, error) {
	rows, err := db.conn.Query(`
	SELECT id, source, rows, imported_at
	FROM imports
	ORDER BY imported_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying imports: %w", err)
	}
	defer rows.Close()

	var results []Import
	for rows.Next() {
		var imp Import
		var stamp string
		if err := rows.Scan(&imp.ID, &imp.Source, &imp.Rows, &stamp); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		imp.ImportedAt, err = time.Parse(time.RFC3339, stamp)
		if err != nil {
			return nil, fmt.Errorf("parsing imported_at: %w", err)
		}
		results = append(results, imp)
	}

	return results, rows.Err()
}

// Reset deletes every stored record and the import log
func (db *DB) Reset() error {
	if _, err := db.conn.Exec(`DELETE FROM temperature_records; DELETE FROM imports;`); err != nil {
		return fmt.Errorf("resetting database: %w", err)
	}
	return nil
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
