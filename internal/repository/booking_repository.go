package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/share-it/internal/model"
)

// BookingRepo provides persistence for bookings. Reads join the
// referenced item (with its owner) and tenant so handlers can build
// full responses and run authorization checks without extra
// round-trips. The approve/reject transition is a conditional update
// keyed on the WAITING status so two racing decisions cannot both
// succeed; the losing call sees zero affected rows.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingDetail is a booking joined with the fields of its item and
// tenant that responses and authorization checks need.
type BookingDetail struct {
	model.Booking
	ItemName        string
	ItemDescription string
	ItemAvailable   bool
	ItemOwnerID     uint64
	TenantName      string
	TenantEmail     string
}

// BookingSlim carries a booking without its item, used to annotate
// an item's detail view with its last and next booking.
type BookingSlim struct {
	ID          uint64
	Start       time.Time
	End         time.Time
	Status      model.Status
	TenantID    uint64
	TenantName  string
	TenantEmail string
}

const bookingDetailColumns = `
	bk.id, bk.start_date, bk.end_date, bk.item_id, bk.tenant_id, bk.status,
	i.name, i.description, i.available, i.owner_id,
	u.name, u.email`

const bookingDetailFrom = `
	FROM bookings bk
	JOIN items i ON i.id = bk.item_id
	JOIN users u ON u.id = bk.tenant_id`

// Create inserts a new booking and populates the generated ID on the
// provided model. Callers set Status before the call; new booking
// requests always carry WAITING.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (start_date, end_date, item_id, tenant_id, status) VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, b.Start, b.End, b.ItemID, b.TenantID, string(b.Status))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetDetail fetches a single booking with its item and tenant, or
// ErrBookingNotFound.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (*BookingDetail, error) {
	q := `SELECT` + bookingDetailColumns + bookingDetailFrom + ` WHERE bk.id = ?`
	var d BookingDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.Start, &d.End, &d.ItemID, &d.TenantID, &d.Status,
		&d.ItemName, &d.ItemDescription, &d.ItemAvailable, &d.ItemOwnerID,
		&d.TenantName, &d.TenantEmail,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Decide transitions a WAITING booking to APPROVED or REJECTED. The
// status update is conditional on the row still being WAITING and
// the approve path flips the item's availability off inside the same
// transaction. It returns false when the booking was no longer
// WAITING, so the caller can reject the second of two racing
// decisions instead of silently double-applying one.
func (r *BookingRepo) Decide(ctx context.Context, bookingID uint64, approve bool) (bool, error) {
	status := model.StatusRejected
	if approve {
		status = model.StatusApproved
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const upd = `UPDATE bookings SET status = ? WHERE id = ? AND status = 'WAITING'`
	result, err := tx.ExecContext(ctx, upd, string(status), bookingID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if approve {
		const flip = `UPDATE items i JOIN bookings bk ON bk.item_id = i.id
			SET i.available = FALSE WHERE bk.id = ?`
		if _, err := tx.ExecContext(ctx, flip, bookingID); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return true, nil
}

// FindDetailsByTenant lists every booking made by the given user,
// newest start first. State filtering happens in memory in the
// handler via the booking state classifier.
func (r *BookingRepo) FindDetailsByTenant(ctx context.Context, tenantID uint64) ([]BookingDetail, error) {
	q := `SELECT` + bookingDetailColumns + bookingDetailFrom + ` WHERE bk.tenant_id = ? ORDER BY bk.start_date DESC`
	return r.queryDetails(ctx, q, tenantID)
}

// FindDetailsByOwner lists every booking across all items owned by
// the given user, newest start first.
func (r *BookingRepo) FindDetailsByOwner(ctx context.Context, ownerID uint64) ([]BookingDetail, error) {
	q := `SELECT` + bookingDetailColumns + bookingDetailFrom + ` WHERE i.owner_id = ? ORDER BY bk.start_date DESC`
	return r.queryDetails(ctx, q, ownerID)
}

// HasFinishedApproved reports whether the user holds at least one
// APPROVED booking on the item that ended before now. This is the
// eligibility gate for commenting.
func (r *BookingRepo) HasFinishedApproved(ctx context.Context, tenantID, itemID uint64, now time.Time) (bool, error) {
	const q = `SELECT 1 FROM bookings
		WHERE tenant_id = ? AND item_id = ? AND status = 'APPROVED' AND end_date < ?
		LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, tenantID, itemID, now).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LastForItem returns the most recent APPROVED booking of the item
// that ended before now, or nil when there is none.
func (r *BookingRepo) LastForItem(ctx context.Context, itemID uint64, now time.Time) (*BookingSlim, error) {
	const q = `SELECT bk.id, bk.start_date, bk.end_date, bk.status, bk.tenant_id, u.name, u.email
		FROM bookings bk JOIN users u ON u.id = bk.tenant_id
		WHERE bk.item_id = ? AND bk.status = 'APPROVED' AND bk.end_date < ?
		ORDER BY bk.end_date DESC LIMIT 1`
	return r.querySlim(ctx, q, itemID, now)
}

// NextForItem returns the earliest APPROVED booking of the item that
// starts after now, or nil when there is none.
func (r *BookingRepo) NextForItem(ctx context.Context, itemID uint64, now time.Time) (*BookingSlim, error) {
	const q = `SELECT bk.id, bk.start_date, bk.end_date, bk.status, bk.tenant_id, u.name, u.email
		FROM bookings bk JOIN users u ON u.id = bk.tenant_id
		WHERE bk.item_id = ? AND bk.status = 'APPROVED' AND bk.start_date > ?
		ORDER BY bk.start_date LIMIT 1`
	return r.querySlim(ctx, q, itemID, now)
}

func (r *BookingRepo) queryDetails(ctx context.Context, q string, arg any) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var details []BookingDetail
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(
			&d.ID, &d.Start, &d.End, &d.ItemID, &d.TenantID, &d.Status,
			&d.ItemName, &d.ItemDescription, &d.ItemAvailable, &d.ItemOwnerID,
			&d.TenantName, &d.TenantEmail,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *BookingRepo) querySlim(ctx context.Context, q string, args ...any) (*BookingSlim, error) {
	var s BookingSlim
	err := r.db.QueryRowContext(ctx, q, args...).
		Scan(&s.ID, &s.Start, &s.End, &s.Status, &s.TenantID, &s.TenantName, &s.TenantEmail)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
