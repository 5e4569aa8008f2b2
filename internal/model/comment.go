package model

import "time"

// Comment is post-rental feedback on an item, mirroring the
// `comments` table. A comment may only be written by a user who
// holds an APPROVED booking on the item whose end lies in the
// past; that query is the sole cross-entity precondition in the
// system. Created is assigned by the server, never by the client.
//
// Fields:
//  ID       – primary key identifier.
//  Text     – free-text body.
//  ItemID   – item the comment belongs to.
//  AuthorID – user who wrote the comment.
//  Created  – server-assigned creation timestamp (UTC).
type Comment struct {
	ID       uint64    // comments.id
	Text     string    // comments.text
	ItemID   uint64    // comments.item_id
	AuthorID uint64    // comments.author_id
	Created  time.Time // comments.created
}
