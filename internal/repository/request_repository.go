package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/share-it/internal/model"
)

// RequestRepo provides persistence for item requests (the "wanted
// item" board). Fulfilling items are looked up through ItemRepo by
// their request back-reference, not here.
type RequestRepo struct {
	db *sql.DB
}

// NewRequestRepo returns a new RequestRepo bound to the given database.
func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{db: db} }

// Create inserts a new item request and populates the generated ID
// on the provided model. Created must already be set by the caller.
func (r *RequestRepo) Create(ctx context.Context, req *model.ItemRequest) error {
	const q = `INSERT INTO item_requests (description, created, creator_id) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, req.Description, req.Created, req.CreatorID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	req.ID = uint64(id)
	return nil
}

// GetByID fetches a single item request or ErrRequestNotFound.
func (r *RequestRepo) GetByID(ctx context.Context, id uint64) (*model.ItemRequest, error) {
	const q = `SELECT id, description, created, creator_id FROM item_requests WHERE id = ?`
	var req model.ItemRequest
	err := r.db.QueryRowContext(ctx, q, id).Scan(&req.ID, &req.Description, &req.Created, &req.CreatorID)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByCreator lists the given user's own requests, newest first.
func (r *RequestRepo) FindByCreator(ctx context.Context, creatorID uint64) ([]model.ItemRequest, error) {
	const q = `SELECT id, description, created, creator_id FROM item_requests
		WHERE creator_id = ? ORDER BY created DESC`
	return r.query(ctx, q, creatorID)
}

// FindByOtherCreators lists every request posted by users other than
// the given one, newest first.
func (r *RequestRepo) FindByOtherCreators(ctx context.Context, creatorID uint64) ([]model.ItemRequest, error) {
	const q = `SELECT id, description, created, creator_id FROM item_requests
		WHERE creator_id <> ? ORDER BY created DESC`
	return r.query(ctx, q, creatorID)
}

func (r *RequestRepo) query(ctx context.Context, q string, arg any) ([]model.ItemRequest, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var requests []model.ItemRequest
	for rows.Next() {
		var req model.ItemRequest
		if err := rows.Scan(&req.ID, &req.Description, &req.Created, &req.CreatorID); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
