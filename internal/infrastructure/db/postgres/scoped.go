package postgres

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
)

// applyUpdates writes updates to the row with id inside the owner scope.
// Zero matched rows means the row does not exist for this caller. An empty
// update still checks that the row is visible.
func applyUpdates(ctx context.Context, db *gorm.DB, model any, id, owner string, updates map[string]any, notFound error) error {
	q := db.WithContext(ctx).Model(model).Scopes(scopeOwner(owner)).Where("id = ?", id)

	if len(updates) == 0 {
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return translate(err, notFound)
		}
		if n == 0 {
			return notFound
		}
		return nil
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return translate(res.Error, notFound)
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}

// deleteScoped removes the row with id inside the owner scope.
func deleteScoped(ctx context.Context, db *gorm.DB, model any, id, owner string, notFound error) error {
	if !validID(id) {
		return notFound
	}
	res := db.WithContext(ctx).Scopes(scopeOwner(owner)).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return translate(res.Error, notFound)
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}
