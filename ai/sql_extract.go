package ai

import (
	"regexp"
	"strings"
)

var (
	fencedBlock = regexp.MustCompile("(?s)```([a-zA-Z]*)[ \t]*\r?\n(.*?)```")
	bareSelect  = regexp.MustCompile(`(?ims)^[ \t]*select\b.*?(;|\n[ \t]*\n|\z)`)
)

// ExtractSQL returns the SQL an assistant reply proposes: the first
// ```sql fenced block, else the first untagged fenced block that starts
// with SELECT, else the first line-leading SELECT up to a semicolon or blank line.
// Returns "" when nothing looks like SQL. The result is untrusted and
// must still go through sqlguard.
func ExtractSQL(reply string) string {
	var untagged string
	for _, m := range fencedBlock.FindAllStringSubmatch(reply, -1) {
		lang, body := strings.ToLower(m[1]), strings.TrimSpace(m[2])
		if lang == "sql" || lang == "mysql" || lang == "postgresql" {
			return body
		}
		if lang == "" && untagged == "" && strings.HasPrefix(strings.ToLower(body), "select") {
			untagged = body
		}
	}
	if untagged != "" {
		return untagged
	}

	if loc := bareSelect.FindStringIndex(reply); loc != nil {
		return strings.TrimSpace(reply[loc[0]:loc[1]])
	}
	return ""
}
