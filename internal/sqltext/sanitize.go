// Package sqltext turns model-generated SQL text into executable statements
// and maps engine errors back to positions in the source query.
package sqltext

import (
	"regexp"
	"strings"
)

var (
	fenceLine      = regexp.MustCompile("^```(?:sql)?\\s*$")
	leadingKeyword = regexp.MustCompile(`(?i)^\s*(CREATE|INSERT|UPDATE|DELETE|DROP|ALTER)\b`)
)

// Sanitize strips markdown fences and leading prose from generator output,
// returning only the SQL portion. Once a line looks like SQL (a DDL/DML
// keyword or a -- comment) every following line is kept, blanks included:
// prose is assumed not to reappear after SQL begins. Input with no SQL
// keyword at all yields an empty string.
func Sanitize(raw string) string {
	var kept []string
	entered := false
	for _, line := range strings.Split(raw, "\n") {
		if fenceLine.MatchString(strings.TrimSpace(line)) {
			continue
		}
		if !entered {
			trimmed := strings.TrimSpace(line)
			if leadingKeyword.MatchString(trimmed) || strings.HasPrefix(trimmed, "--") {
				entered = true
			}
		}
		if entered {
			kept = append(kept, line)
		}
	}
	if !entered {
		return ""
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
