package handler

import (
    "context"  // bounded contexts for DB calls
    "net/http" // HTTP status codes
    "strings"  // input normalization
    "time"     // DB call timeouts

    "github.com/google/uuid"      // invitation link tokens
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/event-seat-registration/internal/model"
    "github.com/iliyamo/event-seat-registration/internal/repository"
)

// invitationView is the staff-facing projection of an invitation link,
// including how many of its places are already used.
type invitationView struct {
    ID          uint64 `json:"id"`
    Token       string `json:"token"`
    Label       string `json:"label"`
    Capacity    int    `json:"capacity"`
    Used        int    `json:"used"`
    DefaultTier string `json:"default_tier"`
    IsActive    bool   `json:"is_active"`
    CreatedAt   string `json:"created_at"`
}

func toInvitationView(inv *model.Invitation, used int) invitationView {
    return invitationView{
        ID:          inv.ID,
        Token:       inv.Token,
        Label:       inv.Label,
        Capacity:    inv.Capacity,
        Used:        used,
        DefaultTier: string(inv.DefaultTier),
        IsActive:    inv.IsActive,
        CreatedAt:   inv.CreatedAt.UTC().Format(time.RFC3339),
    }
}

// CreateInvitation handles POST /v1/invitations.  The body carries the
// party label, capacity and default tier; the link token is generated
// server-side.  Returns 201 with the created invitation.
func (h *StaffHandler) CreateInvitation(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        Label       string `json:"label"`
        Capacity    int    `json:"capacity"`
        DefaultTier string `json:"default_tier"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Label = strings.TrimSpace(body.Label)
    if body.Label == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "label is required"})
    }
    if body.Capacity <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
    }
    tier, ok := model.ParseTier(strings.ToUpper(strings.TrimSpace(body.DefaultTier)))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown tier"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    inv := &model.Invitation{
        Token:       uuid.NewString(),
        Label:       body.Label,
        Capacity:    body.Capacity,
        DefaultTier: tier,
        CreatedBy:   userID,
        IsActive:    true,
    }
    if err := h.Invitations.Create(ctx, inv); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create invitation"})
    }
    return c.JSON(http.StatusCreated, toInvitationView(inv, 0))
}

// ListInvitations handles GET /v1/invitations.  Returns every link,
// active or not, newest first, with usage counts.
func (h *StaffHandler) ListInvitations(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    invitations, err := h.Invitations.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load invitations"})
    }
    items := make([]invitationView, 0, len(invitations))
    for i := range invitations {
        used, err := h.Guests.CountByInvitation(ctx, invitations[i].ID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count guests"})
        }
        items = append(items, toInvitationView(&invitations[i], used))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetInvitationGuests handles GET /v1/invitations/:id/guests.  Returns
// the invitation together with every guest it admitted.
func (h *StaffHandler) GetInvitationGuests(c echo.Context) error {
    id, err := pathID(c)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invitation id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    inv, err := h.Invitations.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrInvitationNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "invitation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    guests, err := h.Guests.ListByInvitation(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load guests"})
    }
    items := make([]staffGuestView, 0, len(guests))
    for i := range guests {
        items = append(items, toStaffGuestView(&guests[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{
        "invitation": toInvitationView(inv, len(guests)),
        "guests":     items,
    })
}

// DeactivateInvitation handles DELETE /v1/invitations/:id.  Registered
// guests are untouched; the link just stops admitting new people.
// Returns 204 on success and 404 for unknown or already inactive links.
func (h *StaffHandler) DeactivateInvitation(c echo.Context) error {
    id, err := pathID(c)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invitation id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Invitations.Deactivate(ctx, id); err != nil {
        if err == repository.ErrInvitationNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "invitation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate invitation"})
    }
    return c.NoContent(http.StatusNoContent)
}
