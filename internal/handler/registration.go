package handler

import (
    "context"  // bounded contexts for DB calls
    "net/http" // HTTP status codes
    "strings"  // input normalization
    "time"     // timeouts and event timestamps

    "github.com/google/uuid"      // RSVP and QR token generation
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/event-seat-registration/internal/model"
    "github.com/iliyamo/event-seat-registration/internal/queue"
    "github.com/iliyamo/event-seat-registration/internal/repository"
    "github.com/iliyamo/event-seat-registration/internal/seating"
    queue_publisher "github.com/iliyamo/event-seat-registration/internal/service"
)

// PublicHandler serves the unauthenticated invitee-facing endpoints:
// invitation preview, self-registration and RSVP.  All lookups go
// through opaque tokens; numeric IDs are never exposed to invitees.
type PublicHandler struct {
    Invitations *repository.InvitationRepo
    Guests      *repository.GuestRepo
    Allocator   *seating.Allocator
}

// NewPublicHandler constructs a PublicHandler with the provided
// dependencies.  All must be non-nil.
func NewPublicHandler(invitations *repository.InvitationRepo, guests *repository.GuestRepo, alloc *seating.Allocator) *PublicHandler {
    if invitations == nil || guests == nil || alloc == nil {
        panic("nil dependency passed to NewPublicHandler")
    }
    return &PublicHandler{Invitations: invitations, Guests: guests, Allocator: alloc}
}

// guestView is the invitee-facing projection of a guest record.
type guestView struct {
    FirstName  string `json:"first_name"`
    LastName   string `json:"last_name"`
    Tier       string `json:"tier"`
    Seat       *int   `json:"seat"`
    RSVPStatus string `json:"rsvp_status"`
    RSVPToken  string `json:"rsvp_token"`
    QRToken    string `json:"qr_token"`
}

func toGuestView(g *model.Guest) guestView {
    return guestView{
        FirstName:  g.FirstName,
        LastName:   g.LastName,
        Tier:       string(g.Tier),
        Seat:       g.SeatNumber,
        RSVPStatus: string(g.RSVPStatus),
        RSVPToken:  g.RSVPToken,
        QRToken:    g.QRToken,
    }
}

// GetInvitation handles GET /v1/invite/:token.  It returns the
// invitation preview an invitee sees before filling in the form: the
// party label, the tier they will be seated under and how many places
// remain.  Deactivated or unknown tokens both return 404.
func (h *PublicHandler) GetInvitation(c echo.Context) error {
    token := strings.TrimSpace(c.Param("token"))
    if token == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid token"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    inv, err := h.Invitations.GetActiveByToken(ctx, token)
    if err != nil {
        if err == repository.ErrInvitationNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "invitation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    used, err := h.Guests.CountByInvitation(ctx, inv.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    remaining := inv.Capacity - used
    if remaining < 0 {
        remaining = 0
    }
    return c.JSON(http.StatusOK, echo.Map{
        "label":        inv.Label,
        "default_tier": string(inv.DefaultTier),
        "capacity":     inv.Capacity,
        "remaining":    remaining,
    })
}

// Register handles POST /v1/invite/:token/register.  An invitee
// submits name and phone; a guest record is created under the
// invitation's default tier and a chair is auto-assigned right away.
// A full section is not an error: the guest is registered unseated and
// staff can place them later.  Returns 201 with the guest view, 404
// for unknown/revoked tokens and 409 when the invitation is full.
func (h *PublicHandler) Register(c echo.Context) error {
    token := strings.TrimSpace(c.Param("token"))
    if token == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid token"})
    }
    var body struct {
        FirstName string `json:"first_name"`
        LastName  string `json:"last_name"`
        Phone     string `json:"phone"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.FirstName = strings.TrimSpace(body.FirstName)
    body.LastName = strings.TrimSpace(body.LastName)
    body.Phone = strings.TrimSpace(body.Phone)
    if body.FirstName == "" || body.LastName == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name are required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    inv, err := h.Invitations.GetActiveByToken(ctx, token)
    if err != nil {
        if err == repository.ErrInvitationNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "invitation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    used, err := h.Guests.CountByInvitation(ctx, inv.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if used >= inv.Capacity {
        return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrInvitationFull.Error()})
    }

    guest := &model.Guest{
        InvitationID: inv.ID,
        FirstName:    body.FirstName,
        LastName:     body.LastName,
        Phone:        body.Phone,
        Tier:         inv.DefaultTier,
        RSVPStatus:   model.RSVPConfirmed, // registering is confirming
        RSVPToken:    uuid.NewString(),
        QRToken:      uuid.NewString(),
    }
    if err := h.Guests.Create(ctx, guest); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create guest"})
    }

    // Auto-assign a chair.  A full section leaves the guest unseated;
    // any other failure is reported but does not undo the registration.
    if _, _, err := h.Allocator.AutoAssign(ctx, guest); err != nil {
        c.Logger().Errorf("auto-assign after registration failed for guest %d: %v", guest.ID, err)
    }

    // Best-effort event; the registration stands even if the broker is
    // unreachable.
    evt := queue.GuestRegisteredEvent{
        GuestID:         guest.ID,
        InvitationID:    inv.ID,
        InvitationLabel: inv.Label,
        FullName:        guest.FullName(),
        Tier:            string(guest.Tier),
        Seat:            guest.SeatNumber,
        RegisteredAt:    time.Now().UTC().Format(time.RFC3339),
    }
    _ = queue_publisher.PublishGuestRegistered(ctx, evt)

    return c.JSON(http.StatusCreated, toGuestView(guest))
}

// RSVP handles POST /v1/rsvp/:token.  The token is the guest's private
// RSVP token from their registration response or invitation mail.  The
// body carries the new status: CONFIRMED or DECLINED.
func (h *PublicHandler) RSVP(c echo.Context) error {
    token := strings.TrimSpace(c.Param("token"))
    if token == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid token"})
    }
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    status := model.RSVPStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
    if status != model.RSVPConfirmed && status != model.RSVPDeclined {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be CONFIRMED or DECLINED"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    guest, err := h.Guests.GetByRSVPToken(ctx, token)
    if err != nil {
        if err == repository.ErrGuestNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := h.Guests.SetRSVP(ctx, guest.ID, status); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update rsvp"})
    }

    // Declining frees the chair so someone else can take it.
    if status == model.RSVPDeclined && guest.Seated() {
        if err := h.Allocator.RemoveAssignment(ctx, guest); err != nil {
            c.Logger().Errorf("freeing chair after decline failed for guest %d: %v", guest.ID, err)
        }
    }

    return c.JSON(http.StatusOK, echo.Map{
        "rsvp_status": string(status),
    })
}
