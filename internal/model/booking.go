package model

import "time"

// Status is the persisted lifecycle status of a booking. It is
// controlled by the item's owner: every booking starts out as
// WAITING and is moved exactly once to APPROVED or REJECTED.
type Status string

const (
	StatusWaiting  Status = "WAITING"  // created, owner has not decided yet
	StatusApproved Status = "APPROVED" // owner approved; item became unavailable
	StatusRejected Status = "REJECTED" // owner rejected
)

// State is the derived, display-only classification of a booking
// relative to a point in time. It is never persisted and never
// drives transitions. ALL is only valid as a list filter.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState converts a query-string value into a State. An empty
// value defaults to ALL. Unknown values are reported so handlers
// can answer 400 instead of silently listing everything.
func ParseState(s string) (State, bool) {
	switch State(s) {
	case "":
		return StateAll, true
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return State(s), true
	}
	return "", false
}

// Booking is a reservation of an item by a tenant, mirroring the
// `bookings` table. Start and End are stored in UTC. The only
// validated temporal rule at creation is Start != End; the service
// deliberately does not require Start < End and does not reject
// overlapping bookings on the same item.
//
// Fields:
//  ID       – primary key identifier.
//  Start    – requested rental start.
//  End      – requested rental end.
//  ItemID   – item being booked.
//  TenantID – user requesting the booking.
//  Status   – persisted status (WAITING/APPROVED/REJECTED).
type Booking struct {
	ID       uint64    // bookings.id
	Start    time.Time // bookings.start_date
	End      time.Time // bookings.end_date
	ItemID   uint64    // bookings.item_id
	TenantID uint64    // bookings.tenant_id
	Status   Status    // bookings.status
}

// ClassifyBooking derives the display state of a booking from its
// persisted status and its time window relative to now. This
// function is the single source of truth for state: list filtering
// applies it in memory rather than duplicating the rules in SQL,
// so the filter and the response annotation can never drift apart.
//
// Two calls moments apart may classify the same booking differently
// as now crosses Start or End; that is expected, callers that need
// determinism must pass a fixed now.
func ClassifyBooking(status Status, start, end, now time.Time) State {
	switch {
	case status == StatusRejected:
		return StateRejected
	case status == StatusWaiting:
		return StateWaiting
	case now.Before(start):
		return StateFuture
	case now.After(end):
		return StatePast
	default:
		return StateCurrent
	}
}

// State reports the booking's derived state at the given time.
func (b *Booking) State(now time.Time) State {
	return ClassifyBooking(b.Status, b.Start, b.End, now)
}
