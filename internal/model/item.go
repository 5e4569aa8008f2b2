package model

// Item is a lendable thing listed by a user, mirroring the
// `items` table. The owner is fixed at creation time and only the
// owner may change the mutable fields. An item with Available set
// to false can never be booked; approval of a booking flips the
// flag to false as a side effect.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – short display name, never blank.
//  Description – free-text description, never blank.
//  Available   – whether the item can currently be booked.
//  OwnerID     – user who listed the item (immutable).
//  RequestID   – item request this listing answers, if any (nullable).
type Item struct {
	ID          uint64  // items.id
	Name        string  // items.name
	Description string  // items.description
	Available   bool    // items.available
	OwnerID     uint64  // items.owner_id
	RequestID   *uint64 // items.request_id (nullable)
}
