package handler

import (
    "context"  // bounded contexts for DB calls
    "errors"   // errors.Is for allocator sentinels
    "net/http" // HTTP status codes
    "strings"  // query parameter normalization
    "time"     // DB call timeouts and event timestamps

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/event-seat-registration/internal/model"
    "github.com/iliyamo/event-seat-registration/internal/queue"
    "github.com/iliyamo/event-seat-registration/internal/repository"
    "github.com/iliyamo/event-seat-registration/internal/seating"
    queue_publisher "github.com/iliyamo/event-seat-registration/internal/service"
)

// loadGuest fetches the guest addressed by the :id path parameter and
// writes the error response itself when it fails.  Callers stop when
// the returned guest is nil.
func (h *StaffHandler) loadGuest(ctx context.Context, c echo.Context) *model.Guest {
    id, err := pathID(c)
    if err != nil || id == 0 {
        _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
        return nil
    }
    guest, err := h.Guests.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrGuestNotFound {
            _ = c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
        } else {
            _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        return nil
    }
    return guest
}

// publishSeatChange emits a best-effort seat.assigned event.  Losing
// the event never fails the request.
func publishSeatChange(ctx context.Context, g *model.Guest, changedBy uint64, op string) {
    _ = queue_publisher.PublishSeatAssigned(ctx, queue.SeatAssignedEvent{
        GuestID:    g.ID,
        FullName:   g.FullName(),
        Seat:       g.SeatNumber,
        ChangedBy:  changedBy,
        Operation:  op,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    })
}

// AssignSeat handles PUT /v1/guests/:id/seat.  The body carries the
// requested chair number.  Validation order is fixed: range first,
// then occupancy, then section fit, so a request that is wrong in
// several ways always reports the same error.  A guest may be moved
// onto a new chair directly and re-assigning their current chair is a
// no-op success.
func (h *StaffHandler) AssignSeat(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        Seat int `json:"seat"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    guest := h.loadGuest(ctx, c)
    if guest == nil {
        return nil
    }
    if err := h.Allocator.AssignSpecific(ctx, guest, body.Seat); err != nil {
        switch {
        case errors.Is(err, seating.ErrOutOfRange):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat out of range"})
        case errors.Is(err, seating.ErrSeatOccupied):
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat already occupied"})
        case errors.Is(err, seating.ErrWrongSection):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat outside the guest's section"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to assign seat"})
    }
    publishSeatChange(ctx, guest, userID, "assign")
    return c.JSON(http.StatusOK, toStaffGuestView(guest))
}

// AutoAssignSeat handles POST /v1/guests/:id/seat/auto.  Runs the
// adjacency-preferring automatic placement.  A full section is not an
// error: the response reports assigned=false and the guest stays
// unseated.  Calling it for an already seated guest returns their
// current chair untouched.
func (h *StaffHandler) AutoAssignSeat(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    guest := h.loadGuest(ctx, c)
    if guest == nil {
        return nil
    }
    alreadySeated := guest.Seated()
    seat, assigned, err := h.Allocator.AutoAssign(ctx, guest)
    if err != nil {
        if errors.Is(err, seating.ErrSeatOccupied) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat already occupied"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to auto-assign seat"})
    }
    if assigned && !alreadySeated {
        publishSeatChange(ctx, guest, userID, "auto")
    }
    resp := echo.Map{"assigned": assigned, "guest": toStaffGuestView(guest)}
    if assigned {
        resp["seat"] = seat
    }
    return c.JSON(http.StatusOK, resp)
}

// RemoveSeat handles DELETE /v1/guests/:id/seat.  Removing an unseated
// guest's chair is a no-op success, so retries are harmless.
func (h *StaffHandler) RemoveSeat(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    guest := h.loadGuest(ctx, c)
    if guest == nil {
        return nil
    }
    hadSeat := guest.Seated()
    if err := h.Allocator.RemoveAssignment(ctx, guest); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to remove seat"})
    }
    if hadSeat {
        publishSeatChange(ctx, guest, userID, "remove")
    }
    return c.NoContent(http.StatusNoContent)
}

// SwitchSeats handles POST /v1/seating/switch.  Both guests must
// already hold chairs; the chairs are exchanged as-is with no section
// check, which lets staff trade a guest across the VIP boundary
// deliberately.  Returns 200 with both guests, 409 when either guest
// is unseated or a concurrent change raced the switch.
func (h *StaffHandler) SwitchSeats(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        GuestA uint64 `json:"guest_a"`
        GuestB uint64 `json:"guest_b"`
    }
    if err := c.Bind(&body); err != nil || body.GuestA == 0 || body.GuestB == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest_a and guest_b are required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    guestA, err := h.Guests.GetByID(ctx, body.GuestA)
    if err != nil {
        if err == repository.ErrGuestNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    guestB, err := h.Guests.GetByID(ctx, body.GuestB)
    if err != nil {
        if err == repository.ErrGuestNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    if err := h.Allocator.Switch(ctx, guestA, guestB); err != nil {
        switch {
        case errors.Is(err, seating.ErrGuestUnseated):
            return c.JSON(http.StatusConflict, echo.Map{"error": "both guests must hold a seat"})
        case errors.Is(err, seating.ErrSeatConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat changed concurrently, retry"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to switch seats"})
    }
    publishSeatChange(ctx, guestA, userID, "switch")
    publishSeatChange(ctx, guestB, userID, "switch")
    return c.JSON(http.StatusOK, echo.Map{
        "guest_a": toStaffGuestView(guestA),
        "guest_b": toStaffGuestView(guestB),
    })
}

// AvailableSeats handles GET /v1/seating/available?tier=.  Returns the
// free chairs, ascending, in the section the given tier may sit in.
func (h *StaffHandler) AvailableSeats(c echo.Context) error {
    tier, ok := model.ParseTier(strings.ToUpper(strings.TrimSpace(c.QueryParam("tier"))))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown tier"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    seats, err := h.Allocator.AvailableChairs(ctx, tier)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
    }
    if seats == nil {
        seats = []int{}
    }
    sec := seating.SectionFor(tier)
    return c.JSON(http.StatusOK, echo.Map{
        "tier":    string(tier),
        "section": echo.Map{"start": sec.Start, "end": sec.End},
        "seats":   seats,
    })
}

// SeatingStatistics handles GET /v1/seating/statistics.  Occupancy is
// counted by chair position, so a guest switched across the VIP
// boundary counts where they actually sit.
func (h *StaffHandler) SeatingStatistics(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    stats, err := h.Reporter.Statistics(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute statistics"})
    }
    return c.JSON(http.StatusOK, stats)
}
