package querybench

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Archive stores benchmark results durably in a libsql database so runs from
// different hosts and revisions can be compared later.
type Archive struct {
	db *sql.DB
}

var _ ResultArchive = (*Archive)(nil)

// NewArchive wraps an already opened database handle.
func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db}
}

// OpenArchive connects to the libsql database name in the given organization.
func OpenArchive(name, orgName, authToken string) (*Archive, error) {
	url := fmt.Sprintf("libsql://%v-%v.turso.io?authToken=%v", name, orgName, authToken)
	db, err := sql.Open("libsql", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive db %v: %w", name, err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// Init creates the archive schema and records the run parameters: the start
// time plus whatever metadata the caller passes (host stats, engine revision).
func (a *Archive) Init(meta map[string]any) error {
	_, err := a.db.Exec("CREATE TABLE IF NOT EXISTS parameters (name TEXT PRIMARY KEY, value)")
	if err != nil {
		return err
	}
	parameters := make([]any, 0)
	parameters = append(parameters, "time", time.Now().Format("2006-01-02 15:04:05"))
	for key, value := range meta {
		parameters = append(parameters, key, fmt.Sprintf("%v", value))
	}
	// slices.Repeat needs Go 1.23; the local toolchain is 1.21, so build the
	// identical slice by hand.
	pairs := make([]string, len(parameters)/2)
	for i := range pairs {
		pairs[i] = "(?, ?)"
	}
	placeholders := strings.Join(pairs, ", ")
	_, err = a.db.Exec(
		fmt.Sprintf("INSERT INTO parameters VALUES %v ON CONFLICT DO NOTHING", placeholders),
		parameters...,
	)
	if err != nil {
		return err
	}
	_, err = a.db.Exec(`CREATE TABLE IF NOT EXISTS measurements (
		name TEXT,
		attempt INTEGER,
		metric TEXT,
		value REAL,
		PRIMARY KEY (name, attempt, metric)
	)`)
	if err != nil {
		return err
	}
	_, err = a.db.Exec(`CREATE TABLE IF NOT EXISTS breakdowns (
		name TEXT,
		attempt INTEGER,
		idx INTEGER,
		operator TEXT,
		detail TEXT,
		elapsed_ms REAL,
		PRIMARY KEY (name, attempt, idx)
	)`)
	if err != nil {
		return err
	}
	Logger.Infof("initialized archive with meta %v", meta)
	return nil
}

// AddResult writes one benchmark result under the given attempt number: one
// measurements row per timing metric and one breakdowns row per operator.
func (a *Archive) AddResult(attempt int, result *BenchmarkResult) error {
	tx, err := a.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	metrics := []struct {
		metric string
		value  float64
	}{
		{"parsing_ms", result.ParsingMs},
		{"analysis_ms", result.AnalysisMs},
		{"optimization_ms", result.OptimizationMs},
		{"planning_ms", result.PlanningMs},
		{"execution_ms", result.ExecutionMs},
	}
	for _, m := range metrics {
		_, err = tx.Exec(
			"INSERT INTO measurements VALUES (?, ?, ?, ?)",
			result.Name, attempt, m.metric, m.value,
		)
		if err != nil {
			return err
		}
	}
	for _, b := range result.Breakdown {
		_, err = tx.Exec(
			"INSERT INTO breakdowns VALUES (?, ?, ?, ?, ?, ?)",
			result.Name, attempt, b.Index, b.OperatorName, b.OperatorDetail, b.ElapsedMs,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Recorded returns the names of queries that already have measurements, so an
// interrupted run can be resumed without re-measuring finished queries. On a
// fresh archive whose Init has not run yet there is no measurements table;
// that counts as nothing recorded.
func (a *Archive) Recorded() (map[string]bool, error) {
	rows, err := a.db.Query("SELECT DISTINCT name FROM measurements")
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return map[string]bool{}, nil
		}
		return nil, err
	}
	defer rows.Close()
	recorded := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		recorded[name] = true
	}
	return recorded, rows.Err()
}
