package model

// User represents an application user record as stored in the
// `users` table. ShareIt has no login flow; callers identify
// themselves with the X-Sharer-User-Id header and the id must
// resolve to a row in this table. The email address is unique
// across all users and uniqueness is checked before every insert
// or email update.
//
// Fields:
//  ID    – primary key identifier of the user.
//  Name  – display name, never blank.
//  Email – unique email address, format-validated at the edge.
type User struct {
	ID    uint64 // users.id
	Name  string // users.name
	Email string // users.email
}
