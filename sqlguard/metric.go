// metric.go detects alias-qualified references to logical metric names.
//
// A semantic layer names metrics `<logical_table>.<metric_name>`. The
// metric name is not a physical column, so SQL like `db.deposit_end_balance`
// either fails with an unknown-column error or silently hits the wrong
// column. The check is advisory: it never blocks execution on its own.
package sqlguard

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// aliasDot matches an alias followed by a dot. Word characters are the
// Unicode letters, numbers and underscore, so CJK column names count as
// part of an identifier. Word boundaries are checked by hand because RE2
// only knows ASCII word characters.
var aliasDot = regexp.MustCompile(`[a-zA-Z_][\p{L}\p{N}_]*[\s\p{Z}]*\.[\s\p{Z}]*`)

// HasMetricNameColumnReference reports whether sql contains
// `alias.<metric_name>` for any metric in selectedMetrics. Entries without
// a dot carry no metric name and are skipped.
//
// The alias must start a word, so a metric name that is only the tail of a
// longer column (end_balance vs deposit_end_balance) does not match, and
// the metric name must end one.
func HasMetricNameColumnReference(sql string, selectedMetrics []string) bool {
	text := strings.ToLower(sql)
	names := MetricNames(selectedMetrics)
	if text == "" || len(names) == 0 {
		return false
	}

	for _, loc := range aliasDot.FindAllStringIndex(text, -1) {
		if !isBoundary(text, loc[0]) {
			continue
		}
		rest := text[loc[1]:]
		for _, name := range names {
			if strings.HasPrefix(rest, name) && isBoundary(text, loc[1]+len(name)) {
				return true
			}
		}
	}
	return false
}

// isBoundary reports whether byte offset i of s sits between a word and a
// non-word rune. The ends of s count as non-word.
func isBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// MetricNames extracts the lower-cased metric segment (text after the
// first dot) from canonical `table.metric` identifiers. Entries without a
// dot, or whose metric segment is blank, are dropped.
func MetricNames(selectedMetrics []string) []string {
	var names []string
	for _, canonical := range selectedMetrics {
		_, name, ok := strings.Cut(canonical, ".")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}
