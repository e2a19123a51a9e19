// Package registry is the durable case ledger. The semantic store
// answers "what is similar"; the registry answers "what exactly
// happened", keeping the full case document and the fields pattern
// analysis aggregates over.
package registry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/envops/incidentd/internal/incident"
)

// DB wraps a sql.DB with case-registry helpers.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS cases (
    id TEXT PRIMARY KEY,
    category TEXT NOT NULL DEFAULT 'UNKNOWN',
    facility_id TEXT NOT NULL DEFAULT '',
    outcome TEXT NOT NULL DEFAULT '',
    resolution_time TEXT NOT NULL DEFAULT '',
    cost REAL NOT NULL DEFAULT 0,
    timestamp TEXT NOT NULL DEFAULT '',
    document TEXT NOT NULL DEFAULT '{}',
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_cases_category ON cases(category);
CREATE INDEX IF NOT EXISTS idx_cases_facility ON cases(facility_id);
CREATE INDEX IF NOT EXISTS idx_cases_outcome ON cases(outcome);
`

// SaveCase inserts or replaces a historical case. The full case is
// kept as a JSON document; aggregate columns are denormalized for
// SQL-side stats.
func (d *DB) SaveCase(c incident.HistoricalCase) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal case document: %w", err)
	}

	_, err = d.Exec(`
		INSERT OR REPLACE INTO cases (id, category, facility_id, outcome, resolution_time, cost, timestamp, document)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, categoryOrUnknown(c.Type), c.FacilityID,
		c.Details.Outcome, c.Details.ResolutionTime, c.Details.Cost,
		c.Timestamp, string(doc))
	if err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

// GetCase returns one case by ID.
func (d *DB) GetCase(id string) (*incident.HistoricalCase, error) {
	var doc string
	err := d.QueryRow(`SELECT document FROM cases WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("case %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query case: %w", err)
	}

	var c incident.HistoricalCase
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		return nil, fmt.Errorf("unmarshal case document: %w", err)
	}
	return &c, nil
}

// ListCases returns all cases for one category, newest first. An
// empty category lists everything.
func (d *DB) ListCases(category string) ([]incident.HistoricalCase, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if category == "" {
		rows, err = d.Query(`SELECT document FROM cases ORDER BY created_at DESC, id DESC`)
	} else {
		rows, err = d.Query(`SELECT document FROM cases WHERE category = ? ORDER BY created_at DESC, id DESC`, category)
	}
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()

	var cases []incident.HistoricalCase
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		var c incident.HistoricalCase
		if err := json.Unmarshal([]byte(doc), &c); err != nil {
			return nil, fmt.Errorf("unmarshal case document: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// Stats summarizes the registry's contents.
type Stats struct {
	TotalCases   int            `json:"total_incidents"`
	ByCategory   map[string]int `json:"incident_types"`
	SuccessCount int            `json:"successful_resolutions"`
}

// GetStats aggregates case counts by category and outcome.
func (d *DB) GetStats() (Stats, error) {
	stats := Stats{ByCategory: map[string]int{}}

	rows, err := d.Query(`SELECT category, COUNT(*) FROM cases GROUP BY category`)
	if err != nil {
		return stats, fmt.Errorf("query category stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return stats, fmt.Errorf("scan category stats: %w", err)
		}
		stats.ByCategory[category] = count
		stats.TotalCases += count
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	err = d.QueryRow(`SELECT COUNT(*) FROM cases WHERE outcome = ?`, incident.OutcomeSuccess).Scan(&stats.SuccessCount)
	if err != nil {
		return stats, fmt.Errorf("query outcome stats: %w", err)
	}

	return stats, nil
}

func categoryOrUnknown(category string) string {
	if category == "" {
		return "UNKNOWN"
	}
	return category
}
