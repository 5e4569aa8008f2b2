package handler

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-it/internal/model"
	"github.com/iliyamo/share-it/internal/repository"
)

// RequestHandler implements the request board: users post "I need an
// item like X" requests and other users answer them by listing items
// that reference the request. A user's own request list carries the
// fulfilling items; the browse view of other users' requests does
// not.
type RequestHandler struct {
	Requests RequestStore
	Users    UserStore
	Items    ItemStore
	Validate *validator.Validate
}

// NewRequestHandler constructs a RequestHandler. All stores must be
// non-nil.
func NewRequestHandler(requests RequestStore, users UserStore, items ItemStore) *RequestHandler {
	if requests == nil || users == nil || items == nil {
		panic("nil store passed to NewRequestHandler")
	}
	return &RequestHandler{Requests: requests, Users: users, Items: items, Validate: validator.New()}
}

// Create handles POST /requests.
func (h *RequestHandler) Create(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Description string `json:"description" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Validate.Struct(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description is required"})
	}
	ctx := c.Request().Context()
	exists, err := h.Users.ExistsByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	req := model.ItemRequest{
		Description: body.Description,
		Created:     time.Now().UTC(),
		CreatorID:   userID,
	}
	if err := h.Requests.Create(ctx, &req); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, toRequestDto(&req))
}

// ListOwn handles GET /requests: the caller's requests, newest
// first, each with the items listed in answer to it.
func (h *RequestHandler) ListOwn(c echo.Context) error {
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
	requests, err := h.Requests.FindByCreator(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	ids := make([]uint64, 0, len(requests))
	for i := range requests {
		ids = append(ids, requests[i].ID)
	}
	items, err := h.Items.FindByRequestIDs(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	answers := groupAnswers(items)
	dtos := make([]RequestDto, 0, len(requests))
	for i := range requests {
		dto := toRequestDto(&requests[i])
		if a, ok := answers[dto.ID]; ok {
			dto.Items = a
		}
		dtos = append(dtos, dto)
	}
	return c.JSON(http.StatusOK, dtos)
}

// ListOthers handles GET /requests/all: requests posted by other
// users, newest first, without fulfillment enrichment.
func (h *RequestHandler) ListOthers(c echo.Context) error {
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
	requests, err := h.Requests.FindByOtherCreators(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	dtos := make([]RequestDto, 0, len(requests))
	for i := range requests {
		dtos = append(dtos, toRequestDto(&requests[i]))
	}
	return c.JSON(http.StatusOK, dtos)
}

// Get handles GET /requests/:id with its fulfillments. Any user may
// fetch any request; there is no ownership check here.
func (h *RequestHandler) Get(c echo.Context) error {
	requestID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	ctx := c.Request().Context()
	req, err := h.Requests.GetByID(ctx, requestID)
	if err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.Items.FindByRequestIDs(ctx, []uint64{requestID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	dto := toRequestDto(req)
	if a, ok := groupAnswers(items)[requestID]; ok {
		dto.Items = a
	}
	return c.JSON(http.StatusOK, dto)
}

// groupAnswers projects fulfilling items into answer dtos grouped by
// the request they answer.
func groupAnswers(items []model.Item) map[uint64][]RequestAnswerDto {
	grouped := make(map[uint64][]RequestAnswerDto)
	for i := range items {
		it := &items[i]
		if it.RequestID == nil {
			continue
		}
		grouped[*it.RequestID] = append(grouped[*it.RequestID], RequestAnswerDto{
			ItemID:  it.ID,
			Name:    it.Name,
			OwnerID: it.OwnerID,
		})
	}
	return grouped
}
