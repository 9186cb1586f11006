// Package sqlguard screens LLM-generated SQL before it reaches a database.
//
// Design decisions:
//   - Everything here is a pure function: no state, no I/O, safe to call
//     from any goroutine.
//   - Checks are lexical, not a SQL grammar. The keyword denylist matches
//     space-delimited tokens only, so `(drop)` is not caught.
//   - Rejection carries no reason. Callers treat every rejection the same:
//     "not a safe single SELECT".
package sqlguard

import (
	"strings"
	"unicode"
)

// blockedKeywords are write/DDL keywords padded with spaces so that
// only whole tokens match ("insert" but not "inserted_at").
var blockedKeywords = []string{
	" insert ",
	" update ",
	" delete ",
	" drop ",
	" alter ",
	" create ",
}

// NormalizeSingleSelect returns sql trimmed and stripped of one trailing
// semicolon if it is exactly one SELECT statement with no denylisted
// keyword. The second return value is false when the statement is rejected.
// Original casing is preserved.
func NormalizeSingleSelect(sql string) (string, bool) {
	normalized := strings.TrimSpace(sql)
	if normalized == "" {
		return "", false
	}

	// Tolerate a single trailing semicolon.
	if strings.HasSuffix(normalized, ";") {
		normalized = strings.TrimRightFunc(normalized[:len(normalized)-1], unicode.IsSpace)
	}

	// Anything left means a possible second statement.
	if strings.Contains(normalized, ";") {
		return "", false
	}

	lowered := strings.ToLower(normalized)
	if !strings.HasPrefix(lowered, "select") {
		return "", false
	}

	wrapped := " " + lowered + " "
	for _, kw := range blockedKeywords {
		if strings.Contains(wrapped, kw) {
			return "", false
		}
	}

	return normalized, true
}

// IsSafeSelect reports whether NormalizeSingleSelect accepts sql.
func IsSafeSelect(sql string) bool {
	_, ok := NormalizeSingleSelect(sql)
	return ok
}
