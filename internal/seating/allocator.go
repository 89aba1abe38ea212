package seating

import (
	"context"
	"errors"

	"github.com/iliyamo/event-seat-registration/internal/model"
)

// GuestStore is the persistence surface the allocator needs.  It is
// implemented by repository.GuestRepo in production and by an
// in-memory fake in tests.  All seat reads reflect committed state;
// UpdateSeat must return ErrSeatConflict when the unique index on
// seat_number rejects the write.
type GuestStore interface {
	// TakenSeats returns the occupied seat numbers in [start,end],
	// ascending.
	TakenSeats(ctx context.Context, start, end int) ([]int, error)
	// SeatedPartyMates returns the guests of the invitation whose seat
	// lies in [start,end], ascending by seat number.
	SeatedPartyMates(ctx context.Context, invitationID uint64, start, end int) ([]model.Guest, error)
	// HolderOf returns the guest holding the seat, or nil when free.
	HolderOf(ctx context.Context, seat int) (*model.Guest, error)
	// UpdateSeat sets or clears (nil) a guest's seat number.
	UpdateSeat(ctx context.Context, guestID uint64, seat *int) error
	// ExchangeSeats swaps two guests' seats in a single transaction,
	// staging guestA through an unassigned state so the uniqueness
	// constraint never observes a duplicate.
	ExchangeSeats(ctx context.Context, guestA, guestB uint64, seatA, seatB int) error
}

// Allocator is the authoritative policy for creating, changing,
// exchanging and clearing chair assignments.  Every seat mutation in
// the system goes through one of its methods.
type Allocator struct {
	store GuestStore
	pool  *Pool
}

// NewAllocator constructs an Allocator over the given store.
func NewAllocator(store GuestStore) *Allocator {
	if store == nil {
		panic("nil store passed to NewAllocator")
	}
	return &Allocator{store: store, pool: NewPool(store)}
}

// Pool exposes the derived availability view, shared with the
// occupancy reporter.
func (a *Allocator) Pool() *Pool { return a.pool }

// AutoAssign picks a chair for the guest and persists it.  Seated
// guests are left untouched and their current seat is returned, so the
// call is idempotent.  VIP-eligible guests first try the neighbors of
// already-seated party-mates (lower-numbered mate first, seat-1 before
// seat+1); all guests fall back to the lowest free seat of their
// section.  A full section is a normal outcome: assigned is false and
// err is nil, and the guest stays unseated.
//
// A lost race against a concurrent writer (ErrSeatConflict from the
// store) triggers one re-read and retry; a second loss surfaces as
// ErrSeatOccupied.
func (a *Allocator) AutoAssign(ctx context.Context, guest *model.Guest) (seat int, assigned bool, err error) {
	if guest.Seated() {
		return *guest.SeatNumber, true, nil
	}
	sec := SectionFor(guest.Tier)
	for attempt := 0; attempt < 2; attempt++ {
		seat, ok, err := a.pickSeat(ctx, guest, sec)
		if err != nil {
			return 0, false, err
		}
		if !ok {
			return 0, false, nil
		}
		err = a.store.UpdateSeat(ctx, guest.ID, &seat)
		if errors.Is(err, ErrSeatConflict) {
			continue
		}
		if err != nil {
			return 0, false, err
		}
		guest.SeatNumber = &seat
		return seat, true, nil
	}
	return 0, false, ErrSeatOccupied
}

// pickSeat chooses a candidate chair without writing anything.  The
// boolean is false when the section has no free seat.
func (a *Allocator) pickSeat(ctx context.Context, guest *model.Guest, sec Section) (int, bool, error) {
	taken, err := a.store.TakenSeats(ctx, sec.Start, sec.End)
	if err != nil {
		return 0, false, err
	}
	occupied := make(map[int]struct{}, len(taken))
	for _, n := range taken {
		occupied[n] = struct{}{}
	}
	free := func(n int) bool {
		_, ok := occupied[n]
		return !ok
	}

	// Adjacency heuristic: only for the VIP section, only the
	// immediate neighbors of already-seated party-mates.  Single-hop
	// and greedy on purpose; see the occupancy docs before changing
	// the iteration order, it is observable behavior.
	if guest.Tier.VIPEquivalent() {
		mates, err := a.store.SeatedPartyMates(ctx, guest.InvitationID, sec.Start, sec.End)
		if err != nil {
			return 0, false, err
		}
		for _, mate := range mates {
			if mate.ID == guest.ID || mate.SeatNumber == nil {
				continue
			}
			for _, n := range []int{*mate.SeatNumber - 1, *mate.SeatNumber + 1} {
				if sec.Contains(n) && free(n) {
					return n, true, nil
				}
			}
		}
	}

	// First-fit fallback: lowest free seat of the section.
	for n := sec.Start; n <= sec.End; n++ {
		if free(n) {
			return n, true, nil
		}
	}
	return 0, false, nil
}

// AssignSpecific seats the guest on an exact chair, overwriting any
// prior assignment (this is also the "change chair" operation).
// Validation order is fixed: range, occupancy, section.  The guest's
// own current seat does not count as occupied, so re-assigning a guest
// to their own chair succeeds.
func (a *Allocator) AssignSpecific(ctx context.Context, guest *model.Guest, seat int) error {
	if seat < SeatMin || seat > SeatMax {
		return ErrOutOfRange
	}
	holder, err := a.store.HolderOf(ctx, seat)
	if err != nil {
		return err
	}
	if holder != nil && holder.ID != guest.ID {
		return ErrSeatOccupied
	}
	if !SectionFor(guest.Tier).Contains(seat) {
		return ErrWrongSection
	}
	if err := a.store.UpdateSeat(ctx, guest.ID, &seat); err != nil {
		if errors.Is(err, ErrSeatConflict) {
			// Raced another writer onto the same chair between check
			// and write; the constraint held, report it as occupied.
			return ErrSeatOccupied
		}
		return err
	}
	guest.SeatNumber = &seat
	return nil
}

// RemoveAssignment clears the guest's seat.  Clearing an unseated
// guest is a no-op success.  The freed chair is immediately visible to
// pool queries.
func (a *Allocator) RemoveAssignment(ctx context.Context, guest *model.Guest) error {
	if !guest.Seated() {
		return nil
	}
	if err := a.store.UpdateSeat(ctx, guest.ID, nil); err != nil {
		return err
	}
	guest.SeatNumber = nil
	return nil
}

// Switch exchanges the chairs of two seated guests.  Either guest
// being unseated fails with ErrGuestUnseated.  Section legality is
// deliberately NOT re-checked: a REGULAR guest can end up on a
// VIP-range chair through a switch.  That asymmetry against
// AssignSpecific reproduces long-standing behavior that staff rely on;
// see DESIGN.md before tightening it.  The exchange runs inside a
// single storage transaction staged through an unassigned state, so no
// reader ever observes a chair held by two guests and no concurrent
// AutoAssign can steal a chair mid-swap.
func (a *Allocator) Switch(ctx context.Context, guestA, guestB *model.Guest) error {
	if !guestA.Seated() || !guestB.Seated() {
		return ErrGuestUnseated
	}
	if guestA.ID == guestB.ID {
		return nil
	}
	seatA, seatB := *guestA.SeatNumber, *guestB.SeatNumber
	if err := a.store.ExchangeSeats(ctx, guestA.ID, guestB.ID, seatA, seatB); err != nil {
		return err
	}
	guestA.SeatNumber = &seatB
	guestB.SeatNumber = &seatA
	return nil
}

// AvailableChairs lists the free seats of the section legal for the
// tier, ascending.
func (a *Allocator) AvailableChairs(ctx context.Context, tier model.Tier) ([]int, error) {
	return a.pool.FreeSeats(ctx, SectionFor(tier))
}
