package handler

import (
	"time"

	"github.com/iliyamo/share-it/internal/model"
	"github.com/iliyamo/share-it/internal/repository"
)

// Response shapes. IDs and field names follow the wire contract of
// the ShareIt API; timestamps serialize as RFC 3339 in UTC.

// UserDto is the response shape of a user.
type UserDto struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CommentDto is the response shape of a comment. The author appears
// by display name only.
type CommentDto struct {
	ID         uint64    `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// BookingShortDto is a booking without its item, embedded in item
// views as lastBooking/nextBooking.
type BookingShortDto struct {
	ID     uint64       `json:"id"`
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Status model.Status `json:"status"`
	State  model.State  `json:"state"`
	Booker UserDto      `json:"booker"`
}

// ItemDto is the response shape of an item. Comments and the
// adjacent bookings are only populated on the detail and owner-list
// views; create/update/search responses leave them empty.
type ItemDto struct {
	ID          uint64           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Available   bool             `json:"available"`
	RequestID   *uint64          `json:"requestId,omitempty"`
	Comments    []CommentDto     `json:"comments"`
	LastBooking *BookingShortDto `json:"lastBooking,omitempty"`
	NextBooking *BookingShortDto `json:"nextBooking,omitempty"`
}

// BookingDto is the full response shape of a booking, with its item
// and the booking user.
type BookingDto struct {
	ID     uint64       `json:"id"`
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Status model.Status `json:"status"`
	State  model.State  `json:"state"`
	Booker UserDto      `json:"booker"`
	Item   ItemDto      `json:"item"`
}

// RequestAnswerDto is the projection of an item that fulfills an
// item request.
type RequestAnswerDto struct {
	ItemID  uint64 `json:"itemId"`
	Name    string `json:"name"`
	OwnerID uint64 `json:"ownerId"`
}

// RequestDto is the response shape of an item request together with
// the items listed in answer to it.
type RequestDto struct {
	ID          uint64             `json:"id"`
	Description string             `json:"description"`
	Created     time.Time          `json:"created"`
	Items       []RequestAnswerDto `json:"items"`
}

func toUserDto(u *model.User) UserDto {
	return UserDto{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toItemDto(it *model.Item) ItemDto {
	return ItemDto{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
		Comments:    []CommentDto{},
	}
}

func toCommentDto(row *repository.CommentRow) CommentDto {
	return CommentDto{ID: row.ID, Text: row.Text, AuthorName: row.AuthorName, Created: row.Created}
}

// toBookingDto builds the full booking response, deriving the
// display state at now.
func toBookingDto(d *repository.BookingDetail, now time.Time) BookingDto {
	return BookingDto{
		ID:     d.ID,
		Start:  d.Start,
		End:    d.End,
		Status: d.Status,
		State:  d.State(now),
		Booker: UserDto{ID: d.TenantID, Name: d.TenantName, Email: d.TenantEmail},
		Item: ItemDto{
			ID:          d.ItemID,
			Name:        d.ItemName,
			Description: d.ItemDescription,
			Available:   d.ItemAvailable,
			Comments:    []CommentDto{},
		},
	}
}

func toBookingShortDto(s *repository.BookingSlim, now time.Time) *BookingShortDto {
	if s == nil {
		return nil
	}
	return &BookingShortDto{
		ID:     s.ID,
		Start:  s.Start,
		End:    s.End,
		Status: s.Status,
		State:  model.ClassifyBooking(s.Status, s.Start, s.End, now),
		Booker: UserDto{ID: s.TenantID, Name: s.TenantName, Email: s.TenantEmail},
	}
}

func toRequestDto(req *model.ItemRequest) RequestDto {
	return RequestDto{
		ID:          req.ID,
		Description: req.Description,
		Created:     req.Created,
		Items:       []RequestAnswerDto{},
	}
}
