package app

import (
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryLineComment = regexp.MustCompile(`--[^\n]*`)
	queryWhitespace  = regexp.MustCompile(`\s+`)
)

// formatDBQueryForTrace flattens a query onto one line for span names and
// db.statement attributes.
func formatDBQueryForTrace(query string) string {
	query = queryLineComment.ReplaceAllString(query, "")
	normalized := strings.TrimSpace(queryWhitespace.ReplaceAllString(query, " "))
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
