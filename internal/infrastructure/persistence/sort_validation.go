package persistence

import (
	"strings"
)

// MaintenanceSortFields are the columns charges may be listed by
var MaintenanceSortFields = map[string]bool{
	"due_date":   true,
	"amount":     true,
	"status":     true,
	"created_at": true,
}

// sortDirection accepts asc in any case; everything else sorts descending
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// sortColumn returns field when it is whitelisted, otherwise fallback
func sortColumn(field string, allowed map[string]bool, fallback string) string {
	if f := strings.TrimSpace(field); allowed[f] {
		return f
	}
	return fallback
}

// orderClause builds an ORDER BY clause from caller input. Only whitelisted
// column names reach the SQL. The id column keeps equal keys in a stable order.
func orderClause(field, dir string, allowed map[string]bool, fallback string) string {
	return sortColumn(field, allowed, fallback) + " " + sortDirection(dir) + ", id"
}
