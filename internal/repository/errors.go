// Package repository defines error values that are reused across
// multiple repositories. These sentinel values allow handlers to
// distinguish failure scenarios: ErrGuestNotFound and
// ErrInvitationNotFound map to HTTP 404, while ErrInvitationFull
// signals that an invitation link has reached its capacity and should
// be rendered as HTTP 409.
package repository

import "errors"

// ErrGuestNotFound is returned when a guest lookup yields no rows.
var ErrGuestNotFound = errors.New("guest not found")

// ErrInvitationNotFound is returned when an invitation lookup yields
// no rows or the link has been deactivated.
var ErrInvitationNotFound = errors.New("invitation not found")

// ErrInvitationFull is returned when a registration would exceed the
// invitation's capacity.
var ErrInvitationFull = errors.New("invitation capacity reached")
