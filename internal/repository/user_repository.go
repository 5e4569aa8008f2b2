package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/share-it/internal/model"
)

// UserRepo provides CRUD operations for users. Email uniqueness is
// enforced both here (pre-insert existence checks so callers get
// ErrDuplicateEmail rather than a driver error) and by the unique
// index on users.email.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user and populates the generated ID on the
// provided model. Returns ErrDuplicateEmail when the email is taken.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	taken, err := r.EmailTaken(ctx, u.Email, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateEmail
	}
	const q = `INSERT INTO users (name, email) VALUES (?, ?)`
	result, err := r.db.ExecContext(ctx, q, u.Name, u.Email)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByID fetches a single user or ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT id, name, email FROM users WHERE id = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ExistsByID reports whether a user row with the given id exists.
func (r *UserRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	const q = `SELECT 1 FROM users WHERE id = ?`
	var one int
	err := r.db.QueryRowContext(ctx, q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// EmailTaken reports whether any user other than excludeID already
// uses the given email. Pass excludeID 0 when creating a new user.
func (r *UserRepo) EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error) {
	const q = `SELECT 1 FROM users WHERE email = ? AND id <> ?`
	var one int
	err := r.db.QueryRowContext(ctx, q, email, excludeID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update persists the name and email of an existing user.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	const q = `UPDATE users SET name = ?, email = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, u.Name, u.Email, u.ID)
	return err
}

// Delete removes a user row. Deleting an id that does not exist
// returns ErrUserNotFound so handlers can answer 404.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM users WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
