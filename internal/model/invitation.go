package model

import "time"

// Invitation represents an invitation link as stored in the
// `invitations` table.  Each link admits at most Capacity guests and
// stamps every guest it registers with DefaultTier.  The adjacency
// heuristic uses the invitation as the grouping key when trying to
// seat members of the same party next to each other.
//
// Fields:
//  ID          – primary key identifier.
//  Token       – UUID embedded in the public registration URL.
//  Label       – organizer-facing name of the party (e.g. "Bride's side").
//  Capacity    – maximum number of guests admitted through this link.
//  DefaultTier – tier applied to guests registering through the link.
//  CreatedBy   – staff user who issued the link.
//  IsActive    – inactive links reject new registrations.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Invitation struct {
    ID          uint64    // invitations.id
    Token       string    // invitations.token
    Label       string    // invitations.label
    Capacity    int       // invitations.capacity
    DefaultTier Tier      // invitations.default_tier
    CreatedBy   uint64    // invitations.created_by
    IsActive    bool      // invitations.is_active
    CreatedAt   time.Time // invitations.created_at
    UpdatedAt   time.Time // invitations.updated_at
}
