package repository

import (
	"context"
	"fmt"

	"github.com/hacklingo-backend/internal/database"
	"github.com/hacklingo-backend/internal/models"
)

// backReference describes one id array on a parent table
type backReference struct {
	parentKind  string
	parentTable string
	column      string
	childKind   string
	childTable  string
}

var backReferences = []backReference{
	{models.KindUser, "users", "posts", models.KindPost, "posts"},
	{models.KindUser, "users", "comments", models.KindComment, "comments"},
	{models.KindForum, "forums", "posts", models.KindPost, "posts"},
	{models.KindPost, "posts", "comments", models.KindComment, "comments"},
}

func lookupBackReference(parentKind, childKind string) (backReference, bool) {
	for _, br := range backReferences {
		if br.parentKind == parentKind && br.childKind == childKind {
			return br, true
		}
	}
	return backReference{}, false
}

// appendReference is a single-statement append, so concurrent appends to the
// same parent never lose an id.
func appendReference(ctx context.Context, db database.Querier, table, column, parentID, childID string) (bool, error) {
	query := fmt.Sprintf(
		`UPDATE %s SET %s = array_append(%s, $2), updated_at = NOW() WHERE id = $1`,
		table, column, column,
	)
	result, err := db.ExecContext(ctx, query, parentID, childID)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// referenceRepo is the concrete implementation of ReferenceRepository
type referenceRepo struct {
	db database.Querier
}

// NewReferenceRepo creates a new reference repository
func NewReferenceRepo(db database.Querier) ReferenceRepository {
	return &referenceRepo{db: db}
}

// FindDangling lists back-reference entries whose child row is gone
func (r *referenceRepo) FindDangling(ctx context.Context) ([]models.DanglingReference, error) {
	refs := []models.DanglingReference{}

	for _, br := range backReferences {
		query := fmt.Sprintf(`
			SELECT p.id, ref
			FROM %s p CROSS JOIN LATERAL unnest(p.%s) AS ref
			WHERE NOT EXISTS (SELECT 1 FROM %s c WHERE c.id = ref)
			ORDER BY p.id
		`, br.parentTable, br.column, br.childTable)

		rows, err := r.db.QueryContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("audit %s.%s: %w", br.parentTable, br.column, err)
		}

		for rows.Next() {
			ref := models.DanglingReference{ParentKind: br.parentKind, ChildKind: br.childKind}
			if err := rows.Scan(&ref.ParentID, &ref.ChildID); err != nil {
				rows.Close()
				return nil, err
			}
			refs = append(refs, ref)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return refs, nil
}

// Remove drops every occurrence of the child id from the parent's array
func (r *referenceRepo) Remove(ctx context.Context, ref models.DanglingReference) (bool, error) {
	br, ok := lookupBackReference(ref.ParentKind, ref.ChildKind)
	if !ok {
		return false, fmt.Errorf("unknown back-reference %s -> %s", ref.ParentKind, ref.ChildKind)
	}

	query := fmt.Sprintf(
		`UPDATE %s SET %s = array_remove(%s, $2), updated_at = NOW() WHERE id = $1`,
		br.parentTable, br.column, br.column,
	)
	result, err := r.db.ExecContext(ctx, query, ref.ParentID, ref.ChildID)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
