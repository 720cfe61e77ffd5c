package provider

import (
	"context"
	"fmt"
	"strings"
)

// FallbackSchema is the canned two-table example returned when no provider is
// configured or the provider call fails.
const FallbackSchema = `CREATE TABLE customers (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT UNIQUE,
    city TEXT
);

INSERT INTO customers (id, name, email, city) VALUES (1, 'Ada Lovelace', 'ada@example.com', 'London');
INSERT INTO customers (id, name, email, city) VALUES (2, 'Grace Hopper', 'grace@example.com', 'New York');
INSERT INTO customers (id, name, email, city) VALUES (3, 'Edgar Codd', 'edgar@example.com', 'Portland');

CREATE TABLE orders (
    id INTEGER PRIMARY KEY,
    customer_id INTEGER NOT NULL REFERENCES customers(id),
    product TEXT NOT NULL,
    amount REAL NOT NULL,
    ordered_at TEXT
);

INSERT INTO orders (id, customer_id, product, amount, ordered_at) VALUES (1, 1, 'Notebook', 12.50, '2024-01-05');
INSERT INTO orders (id, customer_id, product, amount, ordered_at) VALUES (2, 1, 'Pen Set', 8.00, '2024-01-12');
INSERT INTO orders (id, customer_id, product, amount, ordered_at) VALUES (3, 2, 'Desk Lamp', 34.99, '2024-02-03');
INSERT INTO orders (id, customer_id, product, amount, ordered_at) VALUES (4, 3, 'Monitor Stand', 49.00, '2024-02-14');
INSERT INTO orders (id, customer_id, product, amount, ordered_at) VALUES (5, 2, 'Keyboard', 89.90, '2024-03-01');`

// FallbackGenerator wraps an optional inner Generator and guarantees a usable
// result: inner failures, empty output, or a nil inner (no credential) all
// produce the canned schema tagged source=fallback. It never returns an error.
type FallbackGenerator struct {
	Inner Generator
}

func (f *FallbackGenerator) GenerateSchema(ctx context.Context, prompt string) (Generation, error) {
	if f.Inner == nil {
		return fallbackGeneration("provider api key is not configured"), nil
	}
	result, err := f.Inner.GenerateSchema(ctx, prompt)
	if err != nil {
		return fallbackGeneration(err.Error()), nil
	}
	if strings.TrimSpace(result.SQL) == "" {
		return fallbackGeneration("provider returned an empty schema"), nil
	}
	return result, nil
}

func fallbackGeneration(note string) Generation {
	return Generation{SQL: FallbackSchema, Source: SourceFallback, ErrorNote: note}
}

// FallbackCoach mirrors FallbackGenerator for the coaching path: callers
// always get an explanation, templated from the failing error when the
// provider cannot help.
type FallbackCoach struct {
	Inner Coach
}

func (f *FallbackCoach) ExplainError(ctx context.Context, req CoachingRequest) (Coaching, error) {
	if f.Inner == nil {
		return fallbackCoaching(req, "provider api key is not configured"), nil
	}
	result, err := f.Inner.ExplainError(ctx, req)
	if err != nil {
		return fallbackCoaching(req, err.Error()), nil
	}
	if strings.TrimSpace(result.Explanation) == "" {
		return fallbackCoaching(req, "provider returned an empty explanation"), nil
	}
	return result, nil
}

func fallbackCoaching(req CoachingRequest, note string) Coaching {
	coaching := Coaching{
		Explanation: fmt.Sprintf(
			"The database reported: %s. Compare your query against the loaded schema and check table names, column names, and syntax near the reported position.",
			strings.TrimSpace(req.Error),
		),
		Source:    SourceFallback,
		ErrorNote: note,
	}
	if hint := errorHint(req.Error); hint != "" {
		coaching.Hints = []string{hint}
	}
	return coaching
}

func errorHint(errText string) string {
	lower := strings.ToLower(errText)
	switch {
	case strings.Contains(lower, "no such table"):
		return "Check the table name spelling against the table list panel."
	case strings.Contains(lower, "no such column"):
		return "Check the column name against the table's column definitions."
	case strings.Contains(lower, "syntax error"):
		return "Check SQL syntax near the position the error points at."
	case strings.Contains(lower, "unique constraint"):
		return "A row with this key already exists."
	case strings.Contains(lower, "not null constraint"):
		return "This column requires a value."
	default:
		return ""
	}
}
