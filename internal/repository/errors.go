// Package repository defines the data access layer and the sentinel
// error values shared across its repositories. These sentinels allow
// handlers to distinguish failure scenarios without inspecting SQL
// errors: a missing row surfaces as the matching *NotFound value and
// an email collision as ErrDuplicateEmail, which handlers translate
// into 404 and 409 responses respectively.
package repository

import "errors"

// ErrUserNotFound is returned when a user id does not resolve to a row.
var ErrUserNotFound = errors.New("user not found")

// ErrItemNotFound is returned when an item id does not resolve to a row.
var ErrItemNotFound = errors.New("item not found")

// ErrBookingNotFound is returned when a booking id does not resolve to a row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrRequestNotFound is returned when an item request id does not
// resolve to a row.
var ErrRequestNotFound = errors.New("request not found")

// ErrDuplicateEmail is returned when an insert or update would leave
// two users sharing one email address. Handlers should translate
// this into an HTTP 409 response.
var ErrDuplicateEmail = errors.New("email already in use")
