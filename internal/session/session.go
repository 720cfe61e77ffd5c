// Package session owns the single embedded SQL engine instance behind the
// practice sandbox: schema loads replace its whole table set, queries run
// against whatever is currently loaded.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb/v2"
	_ "modernc.org/sqlite"

	"github.com/sqlcoach/sqlcoach/internal/sqltext"
)

type Config struct {
	Driver  string
	DSN     string
	MaxRows int
}

type dialect struct {
	driverName     string
	listTablesSQL  string
	reservedPrefix string
}

var dialects = map[string]dialect{
	"sqlite": {
		driverName:     "sqlite",
		listTablesSQL:  `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`,
		reservedPrefix: "sqlite_",
	},
	"duckdb": {
		driverName:     "duckdb",
		listTablesSQL:  `SELECT table_name FROM information_schema.tables WHERE table_schema = 'main' ORDER BY table_name`,
		reservedPrefix: "",
	},
}

type StatementOutcome struct {
	SQL     string `json:"sql"`
	Applied bool   `json:"applied"`
	Error   string `json:"error,omitempty"`
}

type LoadReport struct {
	Applied  int                `json:"applied"`
	Failed   int                `json:"failed"`
	Outcomes []StatementOutcome `json:"statements"`
}

type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Session serializes schema mutation behind a mutex: there is exactly one
// live engine instance and loading a schema is a full reset, never a merge.
type Session struct {
	mu      sync.Mutex
	db      *sql.DB
	dialect dialect
	maxRows int
}

func Open(cfg Config) (*Session, error) {
	d, ok := dialects[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported engine driver %q", cfg.Driver)
	}
	dsn := cfg.DSN
	if d.driverName == "duckdb" && dsn == ":memory:" {
		dsn = ""
	}
	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s engine: %w", cfg.Driver, err)
	}
	// An in-memory database exists per connection; one connection keeps every
	// statement on the same instance.
	db.SetMaxOpenConns(1)
	return &Session{db: db, dialect: d, maxRows: cfg.MaxRows}, nil
}

func (s *Session) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Reset drops every user table. Tables carrying the engine's reserved prefix
// are left alone.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reset(ctx)
}

func (s *Session) reset(ctx context.Context) error {
	names, err := s.userTableNames(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
			return fmt.Errorf("drop table %q: %w", name, err)
		}
	}
	return nil
}

// Load resets the session and applies each statement independently. A failed
// statement is recorded and loading continues: inserts after a failed create
// will fail on their own and get their own outcome entry.
func (s *Session) Load(ctx context.Context, statements []string) (LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reset(ctx); err != nil {
		return LoadReport{}, err
	}

	report := LoadReport{Outcomes: make([]StatementOutcome, 0, len(statements))}
	for _, stmt := range statements {
		outcome := StatementOutcome{SQL: stmt, Applied: true}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			outcome.Applied = false
			outcome.Error = err.Error()
			report.Failed++
		} else {
			report.Applied++
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report, nil
}

// Query executes arbitrary user SQL and returns one result set per
// row-returning statement. Engine errors come back verbatim so callers can
// surface and locate them.
func (s *Session) Query(ctx context.Context, sqlText string) ([]ResultSet, error) {
	statements := sqltext.SplitAll(sqlText)
	if len(statements) == 0 {
		return nil, fmt.Errorf("no SQL statements to execute")
	}

	results := make([]ResultSet, 0, len(statements))
	for _, stmt := range statements {
		if !returnsRows(stmt) {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return nil, err
			}
			continue
		}
		result, err := s.queryOne(ctx, stmt)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *Session) queryOne(ctx context.Context, stmt string) (ResultSet, error) {
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return ResultSet{}, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return ResultSet{}, fmt.Errorf("query columns: %w", err)
	}

	result := ResultSet{Columns: columns, Rows: make([][]any, 0)}
	for rows.Next() {
		if s.maxRows > 0 && len(result.Rows) >= s.maxRows {
			break
		}
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return ResultSet{}, fmt.Errorf("scan row: %w", err)
		}
		result.Rows = append(result.Rows, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return ResultSet{}, err
	}
	return result, nil
}

func (s *Session) userTableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.listTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		if s.dialect.reservedPrefix != "" && strings.HasPrefix(name, s.dialect.reservedPrefix) {
			continue
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func returnsRows(stmt string) bool {
	head := strings.ToLower(strings.TrimSpace(stmt))
	for _, prefix := range []string{"select", "with", "pragma", "explain", "values", "show", "describe"} {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}

func normalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}

func quoteIdent(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
