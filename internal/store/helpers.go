package store

import (
	"database/sql"
	"fmt"

	"github.com/ridhwanrazaliwork/BlogPipe/internal/models"
)

// nilIfEmpty returns nil if s is empty, otherwise returns s.
// Used for nullable database columns.
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// scanReceipts drains rows into PostReceipt values.
func scanReceipts(rows *sql.Rows) ([]models.PostReceipt, error) {
	var receipts []models.PostReceipt
	for rows.Next() {
		var r models.PostReceipt
		var key, model, kind sql.NullString
		var status string
		if err := rows.Scan(&r.ID, &r.Topic, &key, &model, &status, &kind, &r.Time); err != nil {
			return nil, fmt.Errorf("scan receipt failed: %w", err)
		}
		r.Key = key.String
		r.Model = model.String
		r.Kind = kind.String
		r.Status = models.PostStatus(status)
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipts failed: %w", err)
	}
	return receipts, nil
}
