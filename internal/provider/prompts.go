package provider

import (
	"fmt"
	"strings"
)

func buildSchemaPrompt(description string) string {
	return fmt.Sprintf(
		"Generate a SQLite schema with sample data for: %s\n\n"+
			"Rules:\n"+
			"- Use CREATE TABLE statements with appropriate column types and foreign keys.\n"+
			"- Follow each table with INSERT statements containing 3-8 realistic sample rows.\n"+
			"- Terminate every statement with a semicolon.\n"+
			"- Output SQL only. No markdown, no explanation.",
		strings.TrimSpace(description),
	)
}

func buildCoachingPrompt(req CoachingRequest) string {
	return fmt.Sprintf(
		"A student running SQL against the schema below got an error. "+
			"Explain what went wrong in plain English and suggest a corrected query.\n\n"+
			"Schema:\n%s\n\nQuery:\n%s\n\nError:\n%s\n\n"+
			"Respond with a JSON object: {\"explanation\": string, \"suggested_fix\": string, \"hints\": [string]}. "+
			"suggested_fix must be a complete runnable query. Respond with JSON only.",
		req.Schema,
		req.Query,
		req.Error,
	)
}
