// Package db maintains an in-memory DuckDB mirror of the normalized claim
// set, backing the ad hoc SQL query endpoint. In-memory keeps the service
// persistence-free: the mirror is rebuilt from the store on every reload.
package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/vanachitra/fra-atlas/internal/service"
)

// Open opens an in-memory DuckDB handle.
func Open() (*sql.DB, error) {
	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}
	return conn, nil
}

// Mirror keeps the claims table in sync with the feature store.
type Mirror struct {
	db *sql.DB
}

// NewMirror creates the claims table on the given handle.
func NewMirror(conn *sql.DB) (*Mirror, error) {
	if _, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS claims (
			id VARCHAR PRIMARY KEY,
			category VARCHAR,
			status VARCHAR,
			state VARCHAR,
			district VARCHAR,
			village VARCHAR,
			area_hectares DOUBLE,
			tribal_community VARCHAR,
			submission_date VARCHAR
		)`); err != nil {
		return nil, fmt.Errorf("creating claims table: %w", err)
	}
	return &Mirror{db: conn}, nil
}

// DB exposes the underlying handle for the query endpoint.
func (m *Mirror) DB() *sql.DB {
	return m.db
}

// Reload replaces the claims table contents with the given feature set.
func (m *Mirror) Reload(features []service.Feature) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning mirror reload: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM claims"); err != nil {
		return fmt.Errorf("clearing claims table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO claims (id, category, status, state, district, village,
			area_hectares, tribal_community, submission_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing claims insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range features {
		if _, err := stmt.Exec(
			f.ID, string(f.Category), string(f.Status),
			f.State, f.District, f.Village, f.AreaHectares,
			f.ExtraString("tribal_community"), f.ExtraString("submission_date"),
		); err != nil {
			return fmt.Errorf("inserting claim %s: %w", f.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing mirror reload: %w", err)
	}
	return nil
}

// Count returns the mirror row count.
func (m *Mirror) Count() (int, error) {
	var n int
	if err := m.db.QueryRow("SELECT COUNT(*) FROM claims").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting claims: %w", err)
	}
	return n, nil
}

// Tables lists the tables visible on the handle.
func (m *Mirror) Tables() ([]string, error) {
	rows, err := m.db.Query("SHOW TABLES")
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			tables = append(tables, name)
		}
	}
	return tables, rows.Err()
}

// ReadOnly reports whether a statement looks like a plain read. The query
// endpoint rejects everything else; the mirror is derived data and writes
// would vanish on the next reload anyway.
func ReadOnly(query string) bool {
	q := strings.TrimSpace(strings.ToUpper(query))
	return strings.HasPrefix(q, "SELECT") || strings.HasPrefix(q, "WITH") ||
		strings.HasPrefix(q, "SHOW") || strings.HasPrefix(q, "DESCRIBE")
}
