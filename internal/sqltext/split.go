package sqltext

import (
	"regexp"
	"strings"
)

var (
	lineComment  = regexp.MustCompile(`--[^\n]*`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// Split breaks sanitized SQL text into complete semicolon-terminated
// statements and keeps only those starting with a DDL/DML keyword; comment
// fragments and statement types outside the schema-load set (SELECT, PRAGMA,
// BEGIN, ...) are dropped. Comment stripping is not quote-aware: a -- or /*
// inside a string literal is also removed. That matches the historical
// behavior this splitter is compatible with.
func Split(text string) []string {
	statements := scan(stripComments(text))
	filtered := make([]string, 0, len(statements))
	for _, stmt := range statements {
		if leadingKeyword.MatchString(stmt) {
			filtered = append(filtered, stmt)
		}
	}
	return filtered
}

// SplitAll is Split without the keyword filter. The ad hoc query path uses it
// so a blob like "SELECT a; SELECT b;" executes as two statements.
func SplitAll(text string) []string {
	return scan(stripComments(text))
}

func stripComments(text string) string {
	text = blockComment.ReplaceAllString(text, "")
	return lineComment.ReplaceAllString(text, "")
}

// scan walks the text once tracking quote state and parenthesis depth. A
// semicolon only terminates a statement outside both quote kinds at depth
// zero. Escape handling is a single look-behind for a backslash, not a true
// lexer.
func scan(text string) []string {
	var (
		statements []string
		current    strings.Builder
		inSingle   bool
		inDouble   bool
		depth      int
	)

	flush := func(forceSemicolon bool) {
		stmt := strings.TrimSpace(current.String())
		current.Reset()
		if stmt == "" {
			return
		}
		if forceSemicolon && !strings.HasSuffix(stmt, ";") {
			stmt += ";"
		}
		statements = append(statements, stmt)
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]
		escaped := i > 0 && text[i-1] == '\\'

		switch {
		case ch == '\'' && !inDouble && !escaped:
			inSingle = !inSingle
		case ch == '"' && !inSingle && !escaped:
			inDouble = !inDouble
		case ch == '(' && !inSingle && !inDouble:
			depth++
		case ch == ')' && !inSingle && !inDouble:
			if depth > 0 {
				depth--
			}
		case ch == ';' && !inSingle && !inDouble && depth == 0:
			current.WriteByte(ch)
			flush(false)
			continue
		}
		current.WriteByte(ch)
	}
	flush(true)

	return statements
}
