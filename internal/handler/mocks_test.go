package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-it/internal/model"
	"github.com/iliyamo/share-it/internal/repository"
)

// Func-field store mocks. Unset funcs return benign defaults so each
// test only wires the calls it cares about.

type userStoreMock struct {
	createFn     func(ctx context.Context, u *model.User) error
	getByIDFn    func(ctx context.Context, id uint64) (*model.User, error)
	existsByIDFn func(ctx context.Context, id uint64) (bool, error)
	emailTakenFn func(ctx context.Context, email string, excludeID uint64) (bool, error)
	updateFn     func(ctx context.Context, u *model.User) error
	deleteFn     func(ctx context.Context, id uint64) error
}

var _ UserStore = (*userStoreMock)(nil)

func (m *userStoreMock) Create(ctx context.Context, u *model.User) error {
	if m.createFn == nil {
		u.ID = 1
		return nil
	}
	return m.createFn(ctx, u)
}

func (m *userStoreMock) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	if m.getByIDFn == nil {
		return &model.User{ID: id, Name: "user", Email: "user@example.com"}, nil
	}
	return m.getByIDFn(ctx, id)
}

func (m *userStoreMock) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	if m.existsByIDFn == nil {
		return true, nil
	}
	return m.existsByIDFn(ctx, id)
}

func (m *userStoreMock) EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error) {
	if m.emailTakenFn == nil {
		return false, nil
	}
	return m.emailTakenFn(ctx, email, excludeID)
}

func (m *userStoreMock) Update(ctx context.Context, u *model.User) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, u)
}

func (m *userStoreMock) Delete(ctx context.Context, id uint64) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, id)
}

type itemStoreMock struct {
	createFn           func(ctx context.Context, it *model.Item) error
	getByIDFn          func(ctx context.Context, id uint64) (*model.Item, error)
	updateFn           func(ctx context.Context, it *model.Item) error
	findByOwnerFn      func(ctx context.Context, ownerID uint64) ([]model.Item, error)
	searchFn           func(ctx context.Context, text string) ([]model.Item, error)
	findByRequestIDsFn func(ctx context.Context, requestIDs []uint64) ([]model.Item, error)
}

var _ ItemStore = (*itemStoreMock)(nil)

func (m *itemStoreMock) Create(ctx context.Context, it *model.Item) error {
	if m.createFn == nil {
		it.ID = 1
		return nil
	}
	return m.createFn(ctx, it)
}

func (m *itemStoreMock) GetByID(ctx context.Context, id uint64) (*model.Item, error) {
	if m.getByIDFn == nil {
		return nil, repository.ErrItemNotFound
	}
	return m.getByIDFn(ctx, id)
}

func (m *itemStoreMock) Update(ctx context.Context, it *model.Item) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, it)
}

func (m *itemStoreMock) FindByOwner(ctx context.Context, ownerID uint64) ([]model.Item, error) {
	if m.findByOwnerFn == nil {
		return nil, nil
	}
	return m.findByOwnerFn(ctx, ownerID)
}

func (m *itemStoreMock) Search(ctx context.Context, text string) ([]model.Item, error) {
	if m.searchFn == nil {
		return nil, nil
	}
	return m.searchFn(ctx, text)
}

func (m *itemStoreMock) FindByRequestIDs(ctx context.Context, requestIDs []uint64) ([]model.Item, error) {
	if m.findByRequestIDsFn == nil {
		return nil, nil
	}
	return m.findByRequestIDsFn(ctx, requestIDs)
}

type bookingStoreMock struct {
	createFn              func(ctx context.Context, b *model.Booking) error
	getDetailFn           func(ctx context.Context, id uint64) (*repository.BookingDetail, error)
	decideFn              func(ctx context.Context, bookingID uint64, approve bool) (bool, error)
	findByTenantFn        func(ctx context.Context, tenantID uint64) ([]repository.BookingDetail, error)
	findByOwnerFn         func(ctx context.Context, ownerID uint64) ([]repository.BookingDetail, error)
	hasFinishedApprovedFn func(ctx context.Context, tenantID, itemID uint64, now time.Time) (bool, error)
	lastForItemFn         func(ctx context.Context, itemID uint64, now time.Time) (*repository.BookingSlim, error)
	nextForItemFn         func(ctx context.Context, itemID uint64, now time.Time) (*repository.BookingSlim, error)
}

var _ BookingStore = (*bookingStoreMock)(nil)

func (m *bookingStoreMock) Create(ctx context.Context, b *model.Booking) error {
	if m.createFn == nil {
		b.ID = 1
		return nil
	}
	return m.createFn(ctx, b)
}

func (m *bookingStoreMock) GetDetail(ctx context.Context, id uint64) (*repository.BookingDetail, error) {
	if m.getDetailFn == nil {
		return nil, repository.ErrBookingNotFound
	}
	return m.getDetailFn(ctx, id)
}

func (m *bookingStoreMock) Decide(ctx context.Context, bookingID uint64, approve bool) (bool, error) {
	if m.decideFn == nil {
		return true, nil
	}
	return m.decideFn(ctx, bookingID, approve)
}

func (m *bookingStoreMock) FindDetailsByTenant(ctx context.Context, tenantID uint64) ([]repository.BookingDetail, error) {
	if m.findByTenantFn == nil {
		return nil, nil
	}
	return m.findByTenantFn(ctx, tenantID)
}

func (m *bookingStoreMock) FindDetailsByOwner(ctx context.Context, ownerID uint64) ([]repository.BookingDetail, error) {
	if m.findByOwnerFn == nil {
		return nil, nil
	}
	return m.findByOwnerFn(ctx, ownerID)
}

func (m *bookingStoreMock) HasFinishedApproved(ctx context.Context, tenantID, itemID uint64, now time.Time) (bool, error) {
	if m.hasFinishedApprovedFn == nil {
		return false, nil
	}
	return m.hasFinishedApprovedFn(ctx, tenantID, itemID, now)
}

func (m *bookingStoreMock) LastForItem(ctx context.Context, itemID uint64, now time.Time) (*repository.BookingSlim, error) {
	if m.lastForItemFn == nil {
		return nil, nil
	}
	return m.lastForItemFn(ctx, itemID, now)
}

func (m *bookingStoreMock) NextForItem(ctx context.Context, itemID uint64, now time.Time) (*repository.BookingSlim, error) {
	if m.nextForItemFn == nil {
		return nil, nil
	}
	return m.nextForItemFn(ctx, itemID, now)
}

type commentStoreMock struct {
	createFn        func(ctx context.Context, cm *model.Comment) error
	findByItemIDsFn func(ctx context.Context, itemIDs []uint64) ([]repository.CommentRow, error)
}

var _ CommentStore = (*commentStoreMock)(nil)

func (m *commentStoreMock) Create(ctx context.Context, cm *model.Comment) error {
	if m.createFn == nil {
		cm.ID = 1
		return nil
	}
	return m.createFn(ctx, cm)
}

func (m *commentStoreMock) FindByItemIDs(ctx context.Context, itemIDs []uint64) ([]repository.CommentRow, error) {
	if m.findByItemIDsFn == nil {
		return nil, nil
	}
	return m.findByItemIDsFn(ctx, itemIDs)
}

type requestStoreMock struct {
	createFn              func(ctx context.Context, req *model.ItemRequest) error
	getByIDFn             func(ctx context.Context, id uint64) (*model.ItemRequest, error)
	findByCreatorFn       func(ctx context.Context, creatorID uint64) ([]model.ItemRequest, error)
	findByOtherCreatorsFn func(ctx context.Context, creatorID uint64) ([]model.ItemRequest, error)
}

var _ RequestStore = (*requestStoreMock)(nil)

func (m *requestStoreMock) Create(ctx context.Context, req *model.ItemRequest) error {
	if m.createFn == nil {
		req.ID = 1
		return nil
	}
	return m.createFn(ctx, req)
}

func (m *requestStoreMock) GetByID(ctx context.Context, id uint64) (*model.ItemRequest, error) {
	if m.getByIDFn == nil {
		return nil, repository.ErrRequestNotFound
	}
	return m.getByIDFn(ctx, id)
}

func (m *requestStoreMock) FindByCreator(ctx context.Context, creatorID uint64) ([]model.ItemRequest, error) {
	if m.findByCreatorFn == nil {
		return nil, nil
	}
	return m.findByCreatorFn(ctx, creatorID)
}

func (m *requestStoreMock) FindByOtherCreators(ctx context.Context, creatorID uint64) ([]model.ItemRequest, error) {
	if m.findByOtherCreatorsFn == nil {
		return nil, nil
	}
	return m.findByOtherCreatorsFn(ctx, creatorID)
}

// newTestContext builds an Echo context around an httptest recorder.
// sharer, when non-empty, is sent as the X-Sharer-User-Id header.
func newTestContext(t *testing.T, method, target, body, sharer string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if sharer != "" {
		req.Header.Set(SharerHeader, sharer)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// decodeBody unmarshals a recorded JSON response into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// errorMessage pulls the "error" field out of a failure response.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body["error"]
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}
