// Package queue defines message payloads exchanged over the message broker.
package queue

// GuestRegisteredEvent is published when an invitee completes
// self-registration through an invitation link.  It carries enough
// information for downstream consumers to log, notify, or feed
// analytics without querying the primary database.  Seat is nil when
// auto-assignment found no free chair in the guest's section.
type GuestRegisteredEvent struct {
    GuestID         uint64 `json:"guest_id"`
    InvitationID    uint64 `json:"invitation_id"`
    InvitationLabel string `json:"invitation_label"`
    FullName        string `json:"full_name"`
    Tier            string `json:"tier"`
    Seat            *int   `json:"seat"`
    RegisteredAt    string `json:"registered_at"`
}

// SeatAssignedEvent is published when staff change a guest's chair
// (specific assignment, auto-assignment, removal or switch).  Seat is
// nil after a removal.
type SeatAssignedEvent struct {
    GuestID    uint64 `json:"guest_id"`
    FullName   string `json:"full_name"`
    Seat       *int   `json:"seat"`
    ChangedBy  uint64 `json:"changed_by"`
    Operation  string `json:"operation"` // assign | auto | remove | switch
    OccurredAt string `json:"occurred_at"`
}
