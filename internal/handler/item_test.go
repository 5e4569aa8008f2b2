package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/share-it/internal/model"
	"github.com/iliyamo/share-it/internal/repository"
)

func newItemHandler(items ItemStore, users UserStore, bookings BookingStore, comments CommentStore, requests RequestStore) *ItemHandler {
	if items == nil {
		items = &itemStoreMock{}
	}
	if users == nil {
		users = &userStoreMock{}
	}
	if bookings == nil {
		bookings = &bookingStoreMock{}
	}
	if comments == nil {
		comments = &commentStoreMock{}
	}
	if requests == nil {
		requests = &requestStoreMock{}
	}
	return NewItemHandler(items, users, bookings, comments, requests)
}

func TestItemCreate(t *testing.T) {
	var persisted model.Item
	items := &itemStoreMock{
		createFn: func(ctx context.Context, it *model.Item) error {
			it.ID = 7
			persisted = *it
			return nil
		},
	}
	h := newItemHandler(items, nil, nil, nil, nil)

	c, rec := newTestContext(t, http.MethodPost, "/items",
		`{"name":"drill","description":"cordless drill","available":true}`, "1")
	require.NoError(t, h.Create(c))
	assertStatus(t, rec, http.StatusCreated)
	require.Equal(t, uint64(1), persisted.OwnerID)
	require.True(t, persisted.Available)
	require.Nil(t, persisted.RequestID)
}

func TestItemCreate_MissingFields(t *testing.T) {
	h := newItemHandler(&itemStoreMock{
		createFn: func(ctx context.Context, it *model.Item) error {
			t.Fatal("invalid item must not be persisted")
			return nil
		},
	}, nil, nil, nil, nil)
	for _, body := range []string{
		`{"description":"d","available":true}`,
		`{"name":"drill","available":true}`,
		`{"name":"drill","description":"d"}`,
	} {
		c, rec := newTestContext(t, http.MethodPost, "/items", body, "1")
		require.NoError(t, h.Create(c))
		assertStatus(t, rec, http.StatusBadRequest)
	}
}

func TestItemCreate_AnswersRequest(t *testing.T) {
	requests := &requestStoreMock{
		getByIDFn: func(ctx context.Context, id uint64) (*model.ItemRequest, error) {
			require.Equal(t, uint64(9), id)
			return &model.ItemRequest{ID: id, Description: "need a drill", CreatorID: 2}, nil
		},
	}
	var persisted model.Item
	items := &itemStoreMock{
		createFn: func(ctx context.Context, it *model.Item) error {
			it.ID = 7
			persisted = *it
			return nil
		},
	}
	h := newItemHandler(items, nil, nil, nil, requests)

	c, rec := newTestContext(t, http.MethodPost, "/items",
		`{"name":"drill","description":"d","available":true,"requestId":9}`, "1")
	require.NoError(t, h.Create(c))
	assertStatus(t, rec, http.StatusCreated)
	require.NotNil(t, persisted.RequestID)
	require.Equal(t, uint64(9), *persisted.RequestID)
}

func TestItemPatch_OwnerOnly(t *testing.T) {
	items := &itemStoreMock{
		getByIDFn: func(ctx context.Context, id uint64) (*model.Item, error) {
			return &model.Item{ID: id, Name: "drill", Description: "d", Available: true, OwnerID: 1}, nil
		},
		updateFn: func(ctx context.Context, it *model.Item) error {
			t.Fatal("update must not run for a non-owner")
			return nil
		},
	}
	h := newItemHandler(items, nil, nil, nil, nil)

	c, rec := newTestContext(t, http.MethodPatch, "/items/7", `{"name":"hammer"}`, "2")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Patch(c))
	assertStatus(t, rec, http.StatusForbidden)
}

func TestItemPatch_NullFieldsKeepValues(t *testing.T) {
	var updated model.Item
	items := &itemStoreMock{
		getByIDFn: func(ctx context.Context, id uint64) (*model.Item, error) {
			return &model.Item{ID: id, Name: "drill", Description: "cordless", Available: true, OwnerID: 1}, nil
		},
		updateFn: func(ctx context.Context, it *model.Item) error {
			updated = *it
			return nil
		},
	}
	h := newItemHandler(items, nil, nil, nil, nil)

	c, rec := newTestContext(t, http.MethodPatch, "/items/7", `{"available":false}`, "1")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Patch(c))
	assertStatus(t, rec, http.StatusOK)
	require.Equal(t, "drill", updated.Name)
	require.Equal(t, "cordless", updated.Description)
	require.False(t, updated.Available)
}

func TestItemGet_Enriched(t *testing.T) {
	now := time.Now().UTC()
	items := &itemStoreMock{
		getByIDFn: func(ctx context.Context, id uint64) (*model.Item, error) {
			return &model.Item{ID: id, Name: "drill", Description: "d", Available: true, OwnerID: 1}, nil
		},
	}
	comments := &commentStoreMock{
		findByItemIDsFn: func(ctx context.Context, itemIDs []uint64) ([]repository.CommentRow, error) {
			require.Equal(t, []uint64{7}, itemIDs)
			return []repository.CommentRow{
				{Comment: model.Comment{ID: 1, Text: "great drill", ItemID: 7, AuthorID: 2, Created: now.Add(-time.Hour)}, AuthorName: "Bob"},
			}, nil
		},
	}
	bookings := &bookingStoreMock{
		lastForItemFn: func(ctx context.Context, itemID uint64, at time.Time) (*repository.BookingSlim, error) {
			return &repository.BookingSlim{
				ID: 4, Start: now.Add(-48 * time.Hour), End: now.Add(-24 * time.Hour),
				Status: model.StatusApproved, TenantID: 2, TenantName: "Bob", TenantEmail: "bob@e.com",
			}, nil
		},
		nextForItemFn: func(ctx context.Context, itemID uint64, at time.Time) (*repository.BookingSlim, error) {
			return &repository.BookingSlim{
				ID: 6, Start: now.Add(24 * time.Hour), End: now.Add(48 * time.Hour),
				Status: model.StatusApproved, TenantID: 3, TenantName: "Eve", TenantEmail: "eve@e.com",
			}, nil
		},
	}
	h := newItemHandler(items, nil, bookings, comments, nil)

	c, rec := newTestContext(t, http.MethodGet, "/items/7", "", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Get(c))
	assertStatus(t, rec, http.StatusOK)

	var dto ItemDto
	decodeBody(t, rec, &dto)
	require.Len(t, dto.Comments, 1)
	require.Equal(t, "Bob", dto.Comments[0].AuthorName)
	require.NotNil(t, dto.LastBooking)
	require.Equal(t, uint64(4), dto.LastBooking.ID)
	require.Equal(t, model.StatePast, dto.LastBooking.State)
	require.NotNil(t, dto.NextBooking)
	require.Equal(t, uint64(6), dto.NextBooking.ID)
	require.Equal(t, model.StateFuture, dto.NextBooking.State)
}

func TestItemGet_NoAdjacentBookings(t *testing.T) {
	items := &itemStoreMock{
		getByIDFn: func(ctx context.Context, id uint64) (*model.Item, error) {
			return &model.Item{ID: id, Name: "drill", Description: "d", Available: true, OwnerID: 1}, nil
		},
	}
	h := newItemHandler(items, nil, nil, nil, nil)

	c, rec := newTestContext(t, http.MethodGet, "/items/7", "", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Get(c))
	assertStatus(t, rec, http.StatusOK)

	var dto ItemDto
	decodeBody(t, rec, &dto)
	require.Nil(t, dto.LastBooking)
	require.Nil(t, dto.NextBooking)
	require.NotNil(t, dto.Comments)
	require.Empty(t, dto.Comments)
}

func TestItemList_BatchesCommentFetch(t *testing.T) {
	now := time.Now().UTC()
	items := &itemStoreMock{
		findByOwnerFn: func(ctx context.Context, ownerID uint64) ([]model.Item, error) {
			return []model.Item{
				{ID: 7, Name: "drill", Description: "d", Available: true, OwnerID: 1},
				{ID: 8, Name: "ladder", Description: "l", Available: true, OwnerID: 1},
			}, nil
		},
	}
	calls := 0
	comments := &commentStoreMock{
		findByItemIDsFn: func(ctx context.Context, itemIDs []uint64) ([]repository.CommentRow, error) {
			calls++
			require.Equal(t, []uint64{7, 8}, itemIDs)
			return []repository.CommentRow{
				{Comment: model.Comment{ID: 1, Text: "solid", ItemID: 7, AuthorID: 2, Created: now}, AuthorName: "Bob"},
				{Comment: model.Comment{ID: 2, Text: "wobbly", ItemID: 8, AuthorID: 3, Created: now}, AuthorName: "Eve"},
			}, nil
		},
	}
	h := newItemHandler(items, nil, nil, comments, nil)

	c, rec := newTestContext(t, http.MethodGet, "/items", "", "1")
	require.NoError(t, h.List(c))
	assertStatus(t, rec, http.StatusOK)
	require.Equal(t, 1, calls, "one comment query for the whole listing")

	var dtos []ItemDto
	decodeBody(t, rec, &dtos)
	require.Len(t, dtos, 2)
	require.Len(t, dtos[0].Comments, 1)
	require.Equal(t, "solid", dtos[0].Comments[0].Text)
	require.Len(t, dtos[1].Comments, 1)
	require.Equal(t, "wobbly", dtos[1].Comments[0].Text)
}

func TestItemSearch_BlankTextSkipsStorage(t *testing.T) {
	items := &itemStoreMock{
		searchFn: func(ctx context.Context, text string) ([]model.Item, error) {
			t.Fatal("blank search must not touch storage")
			return nil, nil
		},
	}
	h := newItemHandler(items, nil, nil, nil, nil)

	// Whitespace-only text counts as blank; a LIKE '% %' query would
	// match nearly every item.
	for _, target := range []string{
		"/items/search",
		"/items/search?text=",
		"/items/search?text=%20",
		"/items/search?text=%20%20%09",
	} {
		c, rec := newTestContext(t, http.MethodGet, target, "", "")
		require.NoError(t, h.Search(c))
		assertStatus(t, rec, http.StatusOK)
		require.JSONEq(t, "[]", rec.Body.String(), "target %q", target)
	}
}

func TestItemSearch(t *testing.T) {
	items := &itemStoreMock{
		searchFn: func(ctx context.Context, text string) ([]model.Item, error) {
			require.Equal(t, "drill", text)
			return []model.Item{{ID: 7, Name: "Drill", Description: "cordless", Available: true, OwnerID: 1}}, nil
		},
	}
	h := newItemHandler(items, nil, nil, nil, nil)

	c, rec := newTestContext(t, http.MethodGet, "/items/search?text=drill", "", "")
	require.NoError(t, h.Search(c))
	assertStatus(t, rec, http.StatusOK)

	var dtos []ItemDto
	decodeBody(t, rec, &dtos)
	require.Len(t, dtos, 1)
	require.Equal(t, "Drill", dtos[0].Name)
}

func TestAddComment_RequiresFinishedApprovedBooking(t *testing.T) {
	items := &itemStoreMock{
		getByIDFn: func(ctx context.Context, id uint64) (*model.Item, error) {
			return &model.Item{ID: id, Name: "drill", Description: "d", Available: true, OwnerID: 1}, nil
		},
	}
	bookings := &bookingStoreMock{
		hasFinishedApprovedFn: func(ctx context.Context, tenantID, itemID uint64, now time.Time) (bool, error) {
			return false, nil
		},
	}
	comments := &commentStoreMock{
		createFn: func(ctx context.Context, cm *model.Comment) error {
			t.Fatal("comment must not persist without an eligible booking")
			return nil
		},
	}
	h := newItemHandler(items, nil, bookings, comments, nil)

	c, rec := newTestContext(t, http.MethodPost, "/items/7/comment", `{"text":"nice"}`, "2")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.AddComment(c))
	assertStatus(t, rec, http.StatusBadRequest)
	require.Equal(t, "no eligible booking found", errorMessage(t, rec))
}

func TestAddComment(t *testing.T) {
	items := &itemStoreMock{
		getByIDFn: func(ctx context.Context, id uint64) (*model.Item, error) {
			return &model.Item{ID: id, Name: "drill", Description: "d", Available: true, OwnerID: 1}, nil
		},
	}
	users := &userStoreMock{
		getByIDFn: func(ctx context.Context, id uint64) (*model.User, error) {
			return &model.User{ID: id, Name: "Bob", Email: "bob@e.com"}, nil
		},
	}
	bookings := &bookingStoreMock{
		hasFinishedApprovedFn: func(ctx context.Context, tenantID, itemID uint64, now time.Time) (bool, error) {
			require.Equal(t, uint64(2), tenantID)
			require.Equal(t, uint64(7), itemID)
			return true, nil
		},
	}
	var persisted model.Comment
	comments := &commentStoreMock{
		createFn: func(ctx context.Context, cm *model.Comment) error {
			cm.ID = 11
			persisted = *cm
			return nil
		},
	}
	h := newItemHandler(items, users, bookings, comments, nil)

	c, rec := newTestContext(t, http.MethodPost, "/items/7/comment", `{"text":"nice"}`, "2")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.AddComment(c))
	assertStatus(t, rec, http.StatusCreated)
	require.Equal(t, uint64(2), persisted.AuthorID)
	require.False(t, persisted.Created.IsZero(), "created timestamp is server-assigned")

	var dto CommentDto
	decodeBody(t, rec, &dto)
	require.Equal(t, uint64(11), dto.ID)
	require.Equal(t, "Bob", dto.AuthorName)
}
