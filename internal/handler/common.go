// Package handler implements the HTTP surface of ShareIt. Handlers
// validate input, resolve the calling user from the X-Sharer-User-Id
// header, apply the ownership rules and delegate persistence to the
// repository layer through small store interfaces, which also keeps
// the business rules testable without a database.
package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-it/internal/model"
	"github.com/iliyamo/share-it/internal/repository"
)

// SharerHeader names the header every identified endpoint reads the
// calling user's numeric id from. There is no other authentication.
const SharerHeader = "X-Sharer-User-Id"

// sharerID extracts the calling user's id from the request header.
// It does not check that the user exists; callers that need an
// existing user resolve the id against the user store themselves.
func sharerID(c echo.Context) (uint64, error) {
	raw := c.Request().Header.Get(SharerHeader)
	if raw == "" {
		return 0, errors.New("missing " + SharerHeader + " header")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + SharerHeader + " header")
	}
	return id, nil
}

// pathID parses the named numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// UserStore is the subset of the user repository the handlers use.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	ExistsByID(ctx context.Context, id uint64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uint64) error
}

// ItemStore is the subset of the item repository the handlers use.
type ItemStore interface {
	Create(ctx context.Context, it *model.Item) error
	GetByID(ctx context.Context, id uint64) (*model.Item, error)
	Update(ctx context.Context, it *model.Item) error
	FindByOwner(ctx context.Context, ownerID uint64) ([]model.Item, error)
	Search(ctx context.Context, text string) ([]model.Item, error)
	FindByRequestIDs(ctx context.Context, requestIDs []uint64) ([]model.Item, error)
}

// BookingStore is the subset of the booking repository the handlers use.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetDetail(ctx context.Context, id uint64) (*repository.BookingDetail, error)
	Decide(ctx context.Context, bookingID uint64, approve bool) (bool, error)
	FindDetailsByTenant(ctx context.Context, tenantID uint64) ([]repository.BookingDetail, error)
	FindDetailsByOwner(ctx context.Context, ownerID uint64) ([]repository.BookingDetail, error)
	HasFinishedApproved(ctx context.Context, tenantID, itemID uint64, now time.Time) (bool, error)
	LastForItem(ctx context.Context, itemID uint64, now time.Time) (*repository.BookingSlim, error)
	NextForItem(ctx context.Context, itemID uint64, now time.Time) (*repository.BookingSlim, error)
}

// CommentStore is the subset of the comment repository the handlers use.
type CommentStore interface {
	Create(ctx context.Context, cm *model.Comment) error
	FindByItemIDs(ctx context.Context, itemIDs []uint64) ([]repository.CommentRow, error)
}

// RequestStore is the subset of the request repository the handlers use.
type RequestStore interface {
	Create(ctx context.Context, req *model.ItemRequest) error
	GetByID(ctx context.Context, id uint64) (*model.ItemRequest, error)
	FindByCreator(ctx context.Context, creatorID uint64) ([]model.ItemRequest, error)
	FindByOtherCreators(ctx context.Context, creatorID uint64) ([]model.ItemRequest, error)
}

// The concrete repositories must keep satisfying the store interfaces.
var (
	_ UserStore    = (*repository.UserRepo)(nil)
	_ ItemStore    = (*repository.ItemRepo)(nil)
	_ BookingStore = (*repository.BookingRepo)(nil)
	_ CommentStore = (*repository.CommentRepo)(nil)
	_ RequestStore = (*repository.RequestRepo)(nil)
)
