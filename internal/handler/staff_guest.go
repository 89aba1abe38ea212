package handler

import (
    "context"  // bounded contexts for DB calls
    "net/http" // HTTP status codes
    "strconv"  // query parameter parsing
    "strings"  // input normalization
    "time"     // DB call timeouts

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/event-seat-registration/internal/model"
    "github.com/iliyamo/event-seat-registration/internal/repository"
)

// staffGuestView is the staff-facing projection of a guest record.
// Unlike the invitee view it exposes the numeric ID, the invitation
// and attendance data, but never the private RSVP token.
type staffGuestView struct {
    ID           uint64  `json:"id"`
    InvitationID uint64  `json:"invitation_id"`
    FirstName    string  `json:"first_name"`
    LastName     string  `json:"last_name"`
    Phone        string  `json:"phone"`
    Tier         string  `json:"tier"`
    Seat         *int    `json:"seat"`
    RSVPStatus   string  `json:"rsvp_status"`
    Attended     bool    `json:"attended"`
    CheckedInAt  *string `json:"checked_in_at"`
}

func toStaffGuestView(g *model.Guest) staffGuestView {
    v := staffGuestView{
        ID:           g.ID,
        InvitationID: g.InvitationID,
        FirstName:    g.FirstName,
        LastName:     g.LastName,
        Phone:        g.Phone,
        Tier:         string(g.Tier),
        Seat:         g.SeatNumber,
        RSVPStatus:   string(g.RSVPStatus),
        Attended:     g.Attended,
    }
    if g.CheckedInAt != nil {
        s := g.CheckedInAt.UTC().Format(time.RFC3339)
        v.CheckedInAt = &s
    }
    return v
}

// ListGuests handles GET /v1/guests with limit/offset paging.  The
// default page is 50 rows, capped at 200.
func (h *StaffHandler) ListGuests(c echo.Context) error {
    limit := 50
    if raw := c.QueryParam("limit"); raw != "" {
        if n, err := strconv.Atoi(raw); err == nil && n > 0 {
            limit = n
        }
    }
    if limit > 200 {
        limit = 200
    }
    offset := 0
    if raw := c.QueryParam("offset"); raw != "" {
        if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
            offset = n
        }
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    guests, err := h.Guests.List(ctx, limit, offset)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load guests"})
    }
    items := make([]staffGuestView, 0, len(guests))
    for i := range guests {
        items = append(items, toStaffGuestView(&guests[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetGuest handles GET /v1/guests/:id.
func (h *StaffHandler) GetGuest(c echo.Context) error {
    id, err := pathID(c)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    guest, err := h.Guests.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrGuestNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, toStaffGuestView(guest))
}

// DeleteGuest handles DELETE /v1/guests/:id.  Deleting a guest frees
// any chair they held since occupancy is derived from guest rows.
func (h *StaffHandler) DeleteGuest(c echo.Context) error {
    id, err := pathID(c)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Guests.Delete(ctx, id); err != nil {
        if err == repository.ErrGuestNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete guest"})
    }
    return c.NoContent(http.StatusNoContent)
}

// CheckIn handles POST /v1/checkin.  Staff scan the QR badge at the
// door; the body carries the scanned token.  Returns 200 with the
// guest and check-in time, 404 for unknown tokens and 409 when the
// badge was already scanned.
func (h *StaffHandler) CheckIn(c echo.Context) error {
    var body struct {
        QRToken string `json:"qr_token"`
    }
    if err := c.Bind(&body); err != nil || strings.TrimSpace(body.QRToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "qr_token is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    guest, err := h.Guests.GetByQRToken(ctx, strings.TrimSpace(body.QRToken))
    if err != nil {
        if err == repository.ErrGuestNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if guest.Attended {
        return c.JSON(http.StatusConflict, echo.Map{
            "error": "guest already checked in",
            "guest": toStaffGuestView(guest),
        })
    }
    at, err := h.Guests.MarkAttended(ctx, guest.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check in"})
    }
    guest.Attended = true
    guest.CheckedInAt = &at
    return c.JSON(http.StatusOK, toStaffGuestView(guest))
}
