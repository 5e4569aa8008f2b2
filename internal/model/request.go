package model

import "time"

// ItemRequest is a "wanted item" posting on the request board,
// mirroring the `item_requests` table. Other users answer a
// request by listing an item whose RequestID points back at it;
// there is no separate response entity.
//
// Fields:
//  ID          – primary key identifier.
//  Description – what kind of item is wanted.
//  Created     – server-assigned creation timestamp (UTC).
//  CreatorID   – user who posted the request.
type ItemRequest struct {
	ID          uint64    // item_requests.id
	Description string    // item_requests.description
	Created     time.Time // item_requests.created
	CreatorID   uint64    // item_requests.creator_id
}
