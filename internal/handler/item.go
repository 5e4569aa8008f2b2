package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-it/internal/model"
	"github.com/iliyamo/share-it/internal/repository"
)

// ItemHandler implements the item catalog: listing, owner-only
// editing, text search and post-rental comments. Detail views are
// enriched with comments and the item's last and next approved
// bookings.
type ItemHandler struct {
	Items    ItemStore
	Users    UserStore
	Bookings BookingStore
	Comments CommentStore
	Requests RequestStore
	Validate *validator.Validate
}

// NewItemHandler constructs an ItemHandler. All stores must be non-nil.
func NewItemHandler(items ItemStore, users UserStore, bookings BookingStore, comments CommentStore, requests RequestStore) *ItemHandler {
	if items == nil || users == nil || bookings == nil || comments == nil || requests == nil {
		panic("nil store passed to NewItemHandler")
	}
	return &ItemHandler{
		Items:    items,
		Users:    users,
		Bookings: bookings,
		Comments: comments,
		Requests: requests,
		Validate: validator.New(),
	}
}

// Create handles POST /items. The caller becomes the owner and must
// exist. When the body names a requestId, the item is recorded as an
// answer to that request, which must also exist.
func (h *ItemHandler) Create(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Name        string  `json:"name" validate:"required"`
		Description string  `json:"description" validate:"required"`
		Available   *bool   `json:"available" validate:"required"`
		RequestID   *uint64 `json:"requestId"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Validate.Struct(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, description and available are required"})
	}
	ctx := c.Request().Context()
	exists, err := h.Users.ExistsByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if body.RequestID != nil {
		if _, err := h.Requests.GetByID(ctx, *body.RequestID); err != nil {
			if err == repository.ErrRequestNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	it := model.Item{
		Name:        body.Name,
		Description: body.Description,
		Available:   *body.Available,
		OwnerID:     userID,
		RequestID:   body.RequestID,
	}
	if err := h.Items.Create(ctx, &it); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, toItemDto(&it))
}

// Patch handles PATCH /items/:id. Only the owner may edit; absent
// body fields keep their stored values.
func (h *ItemHandler) Patch(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Available   *bool   `json:"available"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	exists, err := h.Users.ExistsByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	it, err := h.Items.GetByID(ctx, itemID)
	if err != nil {
		if err == repository.ErrItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if it.OwnerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the owner may edit an item"})
	}
	if body.Name != nil {
		it.Name = *body.Name
	}
	if body.Description != nil {
		it.Description = *body.Description
	}
	if body.Available != nil {
		it.Available = *body.Available
	}
	if err := h.Items.Update(ctx, it); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toItemDto(it))
}

// Get handles GET /items/:id. The response includes the item's
// comments and its last and next approved bookings relative to now.
func (h *ItemHandler) Get(c echo.Context) error {
	itemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	ctx := c.Request().Context()
	it, err := h.Items.GetByID(ctx, itemID)
	if err != nil {
		if err == repository.ErrItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	dto := toItemDto(it)
	comments, err := h.commentsByItem(ctx, []uint64{it.ID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if cs, ok := comments[it.ID]; ok {
		dto.Comments = cs
	}
	if err := h.attachBookings(ctx, &dto, time.Now().UTC()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, dto)
}

// List handles GET /items: all items owned by the caller, each with
// comments and adjacent bookings.
func (h *ItemHandler) List(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	exists, err := h.Users.ExistsByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	items, err := h.Items.FindByOwner(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	ids := make([]uint64, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
	}
	// One comment query for the whole listing; the adjacent bookings
	// are still looked up per item.
	comments, err := h.commentsByItem(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	now := time.Now().UTC()
	dtos := make([]ItemDto, 0, len(items))
	for i := range items {
		dto := toItemDto(&items[i])
		if cs, ok := comments[dto.ID]; ok {
			dto.Comments = cs
		}
		if err := h.attachBookings(ctx, &dto, now); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		dtos = append(dtos, dto)
	}
	return c.JSON(http.StatusOK, dtos)
}

// Search handles GET /items/search?text=. Blank text, including
// whitespace-only text, returns an empty list without touching
// storage; otherwise the match is case-insensitive over name and
// description, available items only.
func (h *ItemHandler) Search(c echo.Context) error {
	text := c.QueryParam("text")
	if strings.TrimSpace(text) == "" {
		return c.JSON(http.StatusOK, []ItemDto{})
	}
	items, err := h.Items.Search(c.Request().Context(), text)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	dtos := make([]ItemDto, 0, len(items))
	for i := range items {
		dtos = append(dtos, toItemDto(&items[i]))
	}
	return c.JSON(http.StatusOK, dtos)
}

// AddComment handles POST /items/:id/comment. A comment is only
// accepted from a user who holds an APPROVED booking on the item
// that has already ended.
func (h *ItemHandler) AddComment(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	var body struct {
		Text string `json:"text" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Validate.Struct(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Items.GetByID(ctx, itemID); err != nil {
		if err == repository.ErrItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	author, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	now := time.Now().UTC()
	eligible, err := h.Bookings.HasFinishedApproved(ctx, userID, itemID, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !eligible {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no eligible booking found"})
	}
	cm := model.Comment{Text: body.Text, ItemID: itemID, AuthorID: userID, Created: now}
	if err := h.Comments.Create(ctx, &cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, CommentDto{
		ID:         cm.ID,
		Text:       cm.Text,
		AuthorName: author.Name,
		Created:    cm.Created,
	})
}

// commentsByItem fetches the comments of all given items in one
// query and groups them per item.
func (h *ItemHandler) commentsByItem(ctx context.Context, itemIDs []uint64) (map[uint64][]CommentDto, error) {
	rows, err := h.Comments.FindByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	grouped := make(map[uint64][]CommentDto, len(itemIDs))
	for i := range rows {
		grouped[rows[i].ItemID] = append(grouped[rows[i].ItemID], toCommentDto(&rows[i]))
	}
	return grouped, nil
}

// attachBookings annotates an item dto with its last and next
// approved bookings relative to now. Absence of either is not an
// error.
func (h *ItemHandler) attachBookings(ctx context.Context, dto *ItemDto, now time.Time) error {
	last, err := h.Bookings.LastForItem(ctx, dto.ID, now)
	if err != nil {
		return err
	}
	next, err := h.Bookings.NextForItem(ctx, dto.ID, now)
	if err != nil {
		return err
	}
	dto.LastBooking = toBookingShortDto(last, now)
	dto.NextBooking = toBookingShortDto(next, now)
	return nil
}
