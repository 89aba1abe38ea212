// Package-level sentinel errors for chair assignment.  Handlers
// translate these into user-facing messages; everything here is
// per-call and user-correctable, never fatal to the process.
package seating

import "errors"

// ErrOutOfRange is returned when a requested seat number lies outside
// the venue's [1,360] range.
var ErrOutOfRange = errors.New("seat number out of range")

// ErrSeatOccupied is returned when a requested seat is already held by
// a different guest.  Clients should refresh the available-seat list
// and retry with another chair.
var ErrSeatOccupied = errors.New("seat already occupied")

// ErrWrongSection is returned when a requested seat does not belong to
// the section legal for the guest's tier.
var ErrWrongSection = errors.New("seat outside the section for the guest's tier")

// ErrGuestUnseated is returned by Switch when either guest holds no
// seat.  Swapping requires two seated guests.
var ErrGuestUnseated = errors.New("guest has no seat assigned")

// ErrSeatConflict is returned by GuestStore implementations when the
// storage uniqueness constraint rejects a seat write because a
// concurrent writer claimed the same chair between the availability
// check and the write.  The allocator treats it as retryable.
var ErrSeatConflict = errors.New("seat write lost a race with a concurrent assignment")
