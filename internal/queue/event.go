// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/share-it/internal/repository"
)

// BookingDecidedEvent is published when an owner approves or rejects
// a booking. It carries enough information for downstream consumers
// to log, notify, or trigger analytics without querying the primary
// database.
type BookingDecidedEvent struct {
	EventID   string `json:"event_id"`
	BookingID uint64 `json:"booking_id"`
	ItemID    uint64 `json:"item_id"`
	ItemName  string `json:"item_name"`
	OwnerID   uint64 `json:"owner_id"`
	TenantID  uint64 `json:"tenant_id"`
	Approved  bool   `json:"approved"`
	Start     string `json:"start"`
	End       string `json:"end"`
	DecidedAt string `json:"decided_at"`
}

// NewBookingDecidedEvent builds the event for a freshly decided
// booking. Each event gets a random id so consumers can deduplicate
// redeliveries.
func NewBookingDecidedEvent(d *repository.BookingDetail, approved bool, decidedAt time.Time) BookingDecidedEvent {
	return BookingDecidedEvent{
		EventID:   uuid.NewString(),
		BookingID: d.ID,
		ItemID:    d.ItemID,
		ItemName:  d.ItemName,
		OwnerID:   d.ItemOwnerID,
		TenantID:  d.TenantID,
		Approved:  approved,
		Start:     d.Start.UTC().Format(time.RFC3339),
		End:       d.End.UTC().Format(time.RFC3339),
		DecidedAt: decidedAt.UTC().Format(time.RFC3339),
	}
}
