package handler // handler defines http handlers

import (
    "errors"  // errors provides the sentinel used in getUserID
    "strconv" // strconv converts strings to numeric types

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seat-registration/internal/repository"
    "github.com/iliyamo/event-seat-registration/internal/seating"
)

// StaffHandler bundles the dependencies for organizer/staff endpoints:
// invitation management, guest administration, chair assignment and
// the occupancy dashboard.
type StaffHandler struct {
    Guests      *repository.GuestRepo      // guest persistence, also the allocator's store
    Invitations *repository.InvitationRepo // invitation link persistence
    Allocator   *seating.Allocator         // chair assignment policy
    Reporter    *seating.Reporter          // occupancy statistics
}

// NewStaffHandler constructs a StaffHandler and panics if any
// dependency is nil; wiring bugs should fail at startup, not on the
// first request.
func NewStaffHandler(guests *repository.GuestRepo, invitations *repository.InvitationRepo, alloc *seating.Allocator, rep *seating.Reporter) *StaffHandler {
    if guests == nil || invitations == nil || alloc == nil || rep == nil {
        panic("nil dependency passed to NewStaffHandler")
    }
    return &StaffHandler{
        Guests:      guests,
        Invitations: invitations,
        Allocator:   alloc,
        Reporter:    rep,
    }
}

// getUserID extracts the user_id set by the JWT middleware and
// converts it to uint64.  JWT numeric claims decode as float64, but
// other middleware may store native integer types, so all are handled.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
    return strconv.ParseUint(c.Param("id"), 10, 64)
}
