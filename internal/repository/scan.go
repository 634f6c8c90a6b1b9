package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

type scanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// arrayValue and orEmpty keep empty arrays non-nil on both sides of the
// driver, so NOT NULL columns accept them and JSON renders [] instead of null.
func arrayValue(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(s)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// likePattern builds a case-insensitive substring pattern with the LIKE
// wildcards in the input escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// orderByIDs returns the records in the order of ids, skipping ids with no
// record.
func orderByIDs[T any](ids []string, records []T, idOf func(T) string) []T {
	byID := make(map[string]T, len(records))
	for _, rec := range records {
		byID[idOf(rec)] = rec
	}

	ordered := make([]T, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			ordered = append(ordered, rec)
		}
	}
	return ordered
}
