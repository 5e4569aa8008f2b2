package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/share-it/internal/model"
)

// CommentRepo provides persistence for item comments. Reads join the
// author so responses can show the author's name without a second
// query.
type CommentRepo struct {
	db *sql.DB
}

// NewCommentRepo returns a new CommentRepo bound to the given database.
func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{db: db} }

// CommentRow is a comment joined with its author's display name.
type CommentRow struct {
	model.Comment
	AuthorName string
}

// Create inserts a new comment and populates the generated ID on the
// provided model. Created must already be set by the caller.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	const q = `INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, c.Text, c.ItemID, c.AuthorID, c.Created)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// FindByItemIDs lists the comments of any of the given items, oldest
// first, with author names attached. An empty id set short-circuits
// without a query.
func (r *CommentRepo) FindByItemIDs(ctx context.Context, itemIDs []uint64) ([]CommentRow, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(itemIDs))
	placeholders = placeholders[:len(placeholders)-1]
	q := `SELECT c.id, c.text, c.item_id, c.author_id, c.created, u.name
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.item_id IN (` + placeholders + `) ORDER BY c.id`
	args := make([]any, 0, len(itemIDs))
	for _, id := range itemIDs {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var comments []CommentRow
	for rows.Next() {
		var row CommentRow
		if err := rows.Scan(&row.ID, &row.Text, &row.ItemID, &row.AuthorID, &row.Created, &row.AuthorName); err != nil {
			return nil, err
		}
		comments = append(comments, row)
	}
	return comments, rows.Err()
}
