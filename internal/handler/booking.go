package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-it/internal/model"
	"github.com/iliyamo/share-it/internal/queue"
	"github.com/iliyamo/share-it/internal/repository"
)

// BookingHandler implements the booking ledger: tenants request
// bookings against available items, owners approve or reject them,
// and both sides can list their view of the ledger filtered by the
// derived booking state.
type BookingHandler struct {
	Bookings BookingStore
	Items    ItemStore
	Users    UserStore

	// Publish, when set, is invoked after a successful owner decision
	// with the resulting event. Failures must never fail the request,
	// so it is called on its own goroutine and returns nothing.
	Publish func(ctx context.Context, ev queue.BookingDecidedEvent)
}

// NewBookingHandler constructs a BookingHandler. All stores must be
// non-nil; publish may be nil to disable event publishing.
func NewBookingHandler(bookings BookingStore, items ItemStore, users UserStore, publish func(ctx context.Context, ev queue.BookingDecidedEvent)) *BookingHandler {
	if bookings == nil || items == nil || users == nil {
		panic("nil store passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Items: items, Users: users, Publish: publish}
}

// Create handles POST /bookings. The caller becomes the tenant. The
// item must exist and be available and the start must differ from
// the end. Nothing else about the window is validated: start may lie
// after end or in the past, and overlaps with existing bookings are
// allowed.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		ItemID uint64    `json:"itemId"`
		Start  time.Time `json:"start"`
		End    time.Time `json:"end"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ItemID == 0 || body.Start.IsZero() || body.End.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "itemId, start and end are required"})
	}
	ctx := c.Request().Context()
	exists, err := h.Users.ExistsByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	it, err := h.Items.GetByID(ctx, body.ItemID)
	if err != nil {
		if err == repository.ErrItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !it.Available {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item unavailable for booking"})
	}
	if body.Start.Equal(body.End) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking start and end must differ"})
	}
	b := model.Booking{
		Start:    body.Start.UTC(),
		End:      body.End.UTC(),
		ItemID:   body.ItemID,
		TenantID: userID,
		Status:   model.StatusWaiting,
	}
	if err := h.Bookings.Create(ctx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	d, err := h.Bookings.GetDetail(ctx, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, toBookingDto(d, time.Now().UTC()))
}

// Decide handles PATCH /bookings/:id?approved=. Only WAITING
// bookings can be decided and only by the item's owner; the status
// check precedes the ownership check. The transition itself is a
// conditional update, so of two racing decisions exactly one wins
// and the loser gets a validation error.
func (h *BookingHandler) Decide(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	approve := false
	switch c.QueryParam("approved") {
	case "true":
		approve = true
	case "false":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "approved must be true or false"})
	}
	ctx := c.Request().Context()
	d, err := h.Bookings.GetDetail(ctx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if d.Status != model.StatusWaiting {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only a WAITING booking can be decided"})
	}
	if d.ItemOwnerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the item's owner may decide a booking"})
	}
	ok, err := h.Bookings.Decide(ctx, bookingID, approve)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !ok {
		// Lost a race: someone else decided between our read and the
		// conditional update.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only a WAITING booking can be decided"})
	}
	now := time.Now().UTC()
	d.Status = model.StatusRejected
	if approve {
		d.Status = model.StatusApproved
		d.ItemAvailable = false
	}
	if h.Publish != nil {
		go h.Publish(context.Background(), queue.NewBookingDecidedEvent(d, approve, now))
	}
	return c.JSON(http.StatusOK, toBookingDto(d, now))
}

// Get handles GET /bookings/:id. Only the tenant or the item's owner
// may view a booking.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	d, err := h.Bookings.GetDetail(c.Request().Context(), bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if d.TenantID != userID && d.ItemOwnerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the tenant or the item's owner may view a booking"})
	}
	return c.JSON(http.StatusOK, toBookingDto(d, time.Now().UTC()))
}

// ListAsTenant handles GET /bookings?state=: the caller's own
// bookings, newest start first, filtered by derived state.
func (h *BookingHandler) ListAsTenant(c echo.Context) error {
	return h.list(c, h.Bookings.FindDetailsByTenant)
}

// ListAsOwner handles GET /bookings/owner?state=: all bookings
// across the caller's items, newest start first, filtered by derived
// state.
func (h *BookingHandler) ListAsOwner(c echo.Context) error {
	return h.list(c, h.Bookings.FindDetailsByOwner)
}

func (h *BookingHandler) list(c echo.Context, fetch func(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)) error {
	userID, err := sharerID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	state, ok := model.ParseState(c.QueryParam("state"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown state: " + c.QueryParam("state")})
	}
	ctx := c.Request().Context()
	exists, err := h.Users.ExistsByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	details, err := fetch(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	// One now for filter and response so both agree on the state.
	now := time.Now().UTC()
	dtos := make([]BookingDto, 0, len(details))
	for i := range details {
		d := &details[i]
		if state != model.StateAll && d.State(now) != state {
			continue
		}
		dtos = append(dtos, toBookingDto(d, now))
	}
	return c.JSON(http.StatusOK, dtos)
}
