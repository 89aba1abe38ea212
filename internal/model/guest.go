package model

import "time"

// Tier classifies a guest for seating purposes.  PREMIUM is reserved
// for future pricing work and currently behaves exactly like VIP
// wherever section eligibility is decided.
type Tier string

// Known tier values as stored in guests.tier.
const (
    TierRegular Tier = "REGULAR"
    TierVIP     Tier = "VIP"
    TierPremium Tier = "PREMIUM"
)

// VIPEquivalent reports whether the tier grants access to the VIP
// seat section.  All section-eligibility checks go through this
// predicate instead of comparing tier strings in place.
func (t Tier) VIPEquivalent() bool {
    return t == TierVIP || t == TierPremium
}

// ParseTier normalizes a raw string into a known Tier.  The second
// return value is false when the input matches no known tier.
func ParseTier(raw string) (Tier, bool) {
    switch Tier(raw) {
    case TierRegular:
        return TierRegular, true
    case TierVIP:
        return TierVIP, true
    case TierPremium:
        return TierPremium, true
    }
    return "", false
}

// RSVPStatus tracks a guest's reply to the invitation.
type RSVPStatus string

// Allowed RSVP states.  Guests start as PENDING and move to
// CONFIRMED or DECLINED through the RSVP token endpoint.
const (
    RSVPPending   RSVPStatus = "PENDING"
    RSVPConfirmed RSVPStatus = "CONFIRMED"
    RSVPDeclined  RSVPStatus = "DECLINED"
)

// Guest represents a registered attendant as stored in the `guests`
// table.  SeatNumber is nil until the allocator assigns a chair; when
// set it is unique across all guests (enforced by a unique index) and
// falls inside the section legal for the guest's tier, except after a
// staff-driven switch which deliberately skips that check.
//
// Fields:
//  ID           – primary key identifier.
//  InvitationID – invitation link the guest registered through.
//  FirstName    – given name.
//  LastName     – family name.
//  Phone        – contact phone number.
//  Tier         – seating tier (REGULAR, VIP, PREMIUM).
//  SeatNumber   – assigned chair in [1,360], nil when unseated.
//  RSVPStatus   – PENDING, CONFIRMED or DECLINED.
//  RSVPToken    – token the guest uses to answer the invitation.
//  QRToken      – token encoded in the guest's QR badge for check-in.
//  Attended     – whether the guest was checked in on the day.
//  CheckedInAt  – check-in timestamp (nil until checked in).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Guest struct {
    ID           uint64     // guests.id
    InvitationID uint64     // guests.invitation_id
    FirstName    string     // guests.first_name
    LastName     string     // guests.last_name
    Phone        string     // guests.phone
    Tier         Tier       // guests.tier
    SeatNumber   *int       // guests.seat_number (nullable, unique)
    RSVPStatus   RSVPStatus // guests.rsvp_status
    RSVPToken    string     // guests.rsvp_token
    QRToken      string     // guests.qr_token
    Attended     bool       // guests.attended
    CheckedInAt  *time.Time // guests.checked_in_at (nullable)
    CreatedAt    time.Time  // guests.created_at
    UpdatedAt    time.Time  // guests.updated_at
}

// Seated reports whether the guest currently holds a chair.
func (g *Guest) Seated() bool { return g.SeatNumber != nil }

// FullName joins the name parts for display and event payloads.
func (g *Guest) FullName() string {
    if g.FirstName == "" {
        return g.LastName
    }
    if g.LastName == "" {
        return g.FirstName
    }
    return g.FirstName + " " + g.LastName
}
