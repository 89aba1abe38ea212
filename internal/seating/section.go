// Package seating contains the chair allocation engine: the two fixed
// seat sections, the derived seat pool, the assignment policy and the
// occupancy reporter.  The package owns no storage of its own; chair
// occupancy is always derived from the guest rows through the
// GuestStore abstraction, so a seat is free exactly when no guest row
// references it.
package seating

import (
	"context"

	"github.com/iliyamo/event-seat-registration/internal/model"
)

// Seat number bounds of the venue.  The venue is a single fixed room;
// there is no per-event layout.
const (
	SeatMin = 1
	SeatMax = 360
)

// Section is a contiguous, inclusive range of seat numbers reserved
// for one class of guests.
type Section struct {
	Start int
	End   int
}

// The two disjoint sections partitioning [SeatMin, SeatMax].
var (
	SectionVIP     = Section{Start: 1, End: 50}
	SectionRegular = Section{Start: 51, End: 360}
)

// Contains reports whether the seat number lies inside the section.
func (s Section) Contains(seat int) bool { return seat >= s.Start && seat <= s.End }

// Size returns the number of seats in the section.
func (s Section) Size() int { return s.End - s.Start + 1 }

// SectionFor maps a guest tier to its legal section.  PREMIUM guests
// sit with VIPs.
func SectionFor(tier model.Tier) Section {
	if tier.VIPEquivalent() {
		return SectionVIP
	}
	return SectionRegular
}

// Pool answers availability questions over the shared seat space.  It
// recomputes occupancy from the guest store on every call instead of
// caching; 360 seats keep the scan cheap and a stale cache would have
// to be invalidated on every write path.
type Pool struct {
	store GuestStore
}

// NewPool returns a Pool reading occupancy through the given store.
func NewPool(store GuestStore) *Pool {
	return &Pool{store: store}
}

// IsFree reports whether the seat number is inside the venue and held
// by no guest.  Out-of-range numbers are never free.
func (p *Pool) IsFree(ctx context.Context, seat int) (bool, error) {
	if seat < SeatMin || seat > SeatMax {
		return false, nil
	}
	holder, err := p.store.HolderOf(ctx, seat)
	if err != nil {
		return false, err
	}
	return holder == nil, nil
}

// FreeSeats returns the unoccupied seat numbers of the section in
// ascending order.  The result reflects the instant of the call only;
// concurrent writers may invalidate it, which the allocator handles by
// relying on the storage uniqueness constraint.
func (p *Pool) FreeSeats(ctx context.Context, sec Section) ([]int, error) {
	taken, err := p.store.TakenSeats(ctx, sec.Start, sec.End)
	if err != nil {
		return nil, err
	}
	occupied := make(map[int]struct{}, len(taken))
	for _, n := range taken {
		occupied[n] = struct{}{}
	}
	free := make([]int, 0, sec.Size()-len(taken))
	for n := sec.Start; n <= sec.End; n++ {
		if _, ok := occupied[n]; !ok {
			free = append(free, n)
		}
	}
	return free, nil
}

// OccupiedCount returns how many seats of the section are held.
func (p *Pool) OccupiedCount(ctx context.Context, sec Section) (int, error) {
	taken, err := p.store.TakenSeats(ctx, sec.Start, sec.End)
	if err != nil {
		return 0, err
	}
	return len(taken), nil
}
