package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubGenerator struct {
	result Generation
	err    error
}

func (s *stubGenerator) GenerateSchema(_ context.Context, _ string) (Generation, error) {
	return s.result, s.err
}

type stubCoach struct {
	result Coaching
	err    error
}

func (s *stubCoach) ExplainError(_ context.Context, _ CoachingRequest) (Coaching, error) {
	return s.result, s.err
}

func TestFallbackGeneratorWithoutInner(t *testing.T) {
	gen := &FallbackGenerator{}
	result, err := gen.GenerateSchema(context.Background(), "retail store")
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}
	if result.Source != SourceFallback {
		t.Fatalf("Source = %q", result.Source)
	}
	if result.ErrorNote == "" {
		t.Fatal("expected error note")
	}
	if !strings.Contains(result.SQL, "CREATE TABLE customers") || !strings.Contains(result.SQL, "CREATE TABLE orders") {
		t.Fatalf("fallback schema missing canned tables:\n%s", result.SQL)
	}
}

func TestFallbackGeneratorOnInnerFailure(t *testing.T) {
	gen := &FallbackGenerator{Inner: &stubGenerator{err: errors.New("status=500")}}
	result, err := gen.GenerateSchema(context.Background(), "anything")
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}
	if result.Source != SourceFallback {
		t.Fatalf("Source = %q", result.Source)
	}
	if !strings.Contains(result.ErrorNote, "status=500") {
		t.Fatalf("ErrorNote = %q", result.ErrorNote)
	}
}

func TestFallbackGeneratorPassesThroughSuccess(t *testing.T) {
	inner := &stubGenerator{result: Generation{SQL: "CREATE TABLE t (id INTEGER);", Source: SourceClaude}}
	gen := &FallbackGenerator{Inner: inner}
	result, err := gen.GenerateSchema(context.Background(), "anything")
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}
	if result.Source != SourceClaude {
		t.Fatalf("Source = %q", result.Source)
	}
}

func TestFallbackCoachWithoutInner(t *testing.T) {
	coach := &FallbackCoach{}
	result, err := coach.ExplainError(context.Background(), CoachingRequest{
		Schema: "CREATE TABLE customers (id INTEGER);",
		Query:  "SELECT * FROM custmers;",
		Error:  "no such table: custmers",
	})
	if err != nil {
		t.Fatalf("ExplainError() error = %v", err)
	}
	if result.Source != SourceFallback {
		t.Fatalf("Source = %q", result.Source)
	}
	if !strings.Contains(result.Explanation, "no such table: custmers") {
		t.Fatalf("Explanation = %q", result.Explanation)
	}
	if len(result.Hints) == 0 {
		t.Fatal("expected a hint for a no-such-table error")
	}
}

func TestFallbackCoachOnInnerFailure(t *testing.T) {
	coach := &FallbackCoach{Inner: &stubCoach{err: errors.New("timeout")}}
	result, err := coach.ExplainError(context.Background(), CoachingRequest{Error: "syntax error"})
	if err != nil {
		t.Fatalf("ExplainError() error = %v", err)
	}
	if result.Source != SourceFallback {
		t.Fatalf("Source = %q", result.Source)
	}
	if result.ErrorNote != "timeout" {
		t.Fatalf("ErrorNote = %q", result.ErrorNote)
	}
}

func TestParseCoachingStructured(t *testing.T) {
	coaching := parseCoaching(`{"explanation": "table name is misspelled", "suggested_fix": "SELECT * FROM customers;", "hints": ["check spelling"]}`)
	if coaching.Explanation != "table name is misspelled" {
		t.Fatalf("Explanation = %q", coaching.Explanation)
	}
	if coaching.SuggestedFix != "SELECT * FROM customers;" {
		t.Fatalf("SuggestedFix = %q", coaching.SuggestedFix)
	}
	if len(coaching.Hints) != 1 || coaching.Hints[0] != "check spelling" {
		t.Fatalf("Hints = %#v", coaching.Hints)
	}
}

func TestParseCoachingPlainText(t *testing.T) {
	coaching := parseCoaching("You misspelled the table name.")
	if coaching.Explanation != "You misspelled the table name." {
		t.Fatalf("Explanation = %q", coaching.Explanation)
	}
	if coaching.SuggestedFix != "" || len(coaching.Hints) != 0 {
		t.Fatalf("unexpected fix/hints: %+v", coaching)
	}
}

func TestParseCoachingMalformedJSON(t *testing.T) {
	raw := `{"explanation": "truncated`
	coaching := parseCoaching(raw)
	if coaching.Explanation != raw {
		t.Fatalf("Explanation = %q", coaching.Explanation)
	}
}
