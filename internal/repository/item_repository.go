package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/share-it/internal/model"
)

// ItemRepo provides CRUD and search operations for items. Items
// reference their owner and, optionally, the item request they were
// listed in answer to. Availability changes ride along with booking
// approval inside the booking repository's transaction; this repo
// only mutates items through their owner's edits.
type ItemRepo struct {
	db *sql.DB
}

// NewItemRepo returns a new ItemRepo bound to the given database.
func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{db: db} }

// Create inserts a new item and populates the generated ID on the
// provided model.
func (r *ItemRepo) Create(ctx context.Context, it *model.Item) error {
	const q = `INSERT INTO items (name, description, available, owner_id, request_id) VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, it.Name, it.Description, it.Available, it.OwnerID, it.RequestID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	return nil
}

// GetByID fetches a single item or ErrItemNotFound.
func (r *ItemRepo) GetByID(ctx context.Context, id uint64) (*model.Item, error) {
	const q = `SELECT id, name, description, available, owner_id, request_id FROM items WHERE id = ?`
	var it model.Item
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Update persists the mutable fields of an existing item. The owner
// and request reference are immutable and deliberately not touched.
func (r *ItemRepo) Update(ctx context.Context, it *model.Item) error {
	const q = `UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, it.Name, it.Description, it.Available, it.ID)
	return err
}

// FindByOwner lists all items owned by the given user, oldest first.
func (r *ItemRepo) FindByOwner(ctx context.Context, ownerID uint64) ([]model.Item, error) {
	const q = `SELECT id, name, description, available, owner_id, request_id
		FROM items WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// Search performs a case-insensitive substring match of text against
// item names and descriptions, restricted to available items. Blank
// text is handled by the caller and never reaches this query.
func (r *ItemRepo) Search(ctx context.Context, text string) ([]model.Item, error) {
	const q = `SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE available = TRUE AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)
		ORDER BY id`
	pattern := "%" + strings.ToLower(text) + "%"
	rows, err := r.db.QueryContext(ctx, q, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// FindByRequestIDs lists all items answering any of the given item
// requests. An empty id set short-circuits without a query.
func (r *ItemRepo) FindByRequestIDs(ctx context.Context, requestIDs []uint64) ([]model.Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(requestIDs))
	placeholders = placeholders[:len(placeholders)-1]
	q := `SELECT id, name, description, available, owner_id, request_id
		FROM items WHERE request_id IN (` + placeholders + `) ORDER BY id`
	args := make([]any, 0, len(requestIDs))
	for _, id := range requestIDs {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
