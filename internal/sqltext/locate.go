package sqltext

import (
	"regexp"
	"strings"
)

// Location points at the first line of a query containing the token an engine
// error complained about. Line and Column are 1-based.
type Location struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Context string `json:"context"`
}

var tokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`near "([^"]+)"`),
	regexp.MustCompile(`no such table:\s*([A-Za-z0-9_.]+)`),
	regexp.MustCompile(`no such column:\s*([A-Za-z0-9_.]+)`),
}

// Locate extracts the offending token from an engine error message and finds
// it in the query by case-insensitive substring search. Best effort: a miss
// returns ok=false and the caller shows the raw error unchanged.
func Locate(errMsg, query string) (Location, bool) {
	token := offendingToken(errMsg)
	if token == "" {
		return Location{}, false
	}

	needle := strings.ToLower(token)
	for i, line := range strings.Split(query, "\n") {
		col := strings.Index(strings.ToLower(line), needle)
		if col < 0 {
			continue
		}
		return Location{
			Line:    i + 1,
			Column:  col + 1,
			Context: line,
		}, true
	}
	return Location{}, false
}

func offendingToken(errMsg string) string {
	for _, pattern := range tokenPatterns {
		if match := pattern.FindStringSubmatch(errMsg); len(match) > 1 {
			return match[1]
		}
	}
	return ""
}
