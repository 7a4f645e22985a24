// Package query holds paging and sorting inputs shared by list queries.
package query

import "strings"

const (
	defaultLimit = 20
	maxLimit     = 100
)

type PageFilter struct {
	Page     int
	PageSize int
}

func (f PageFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

func (f PageFilter) Limit() int {
	if f.PageSize <= 0 {
		return defaultLimit
	}
	if f.PageSize > maxLimit {
		return maxLimit
	}
	return f.PageSize
}

type SortFilter struct {
	SortBy    string
	SortOrder string
}

func (f SortFilter) IsDescending() bool {
	return strings.EqualFold(f.SortOrder, "desc")
}

// OrderClause renders an ORDER BY fragment. Only columns present in allowed
// are accepted; anything else falls back to fallback.
func (f SortFilter) OrderClause(allowed map[string]string, fallback string) string {
	column, ok := allowed[f.SortBy]
	if !ok {
		return fallback
	}
	if f.IsDescending() {
		return column + " DESC"
	}
	return column + " ASC"
}
