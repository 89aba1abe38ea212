package seating

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-seat-registration/internal/model"
)

// memStore is an in-memory GuestStore enforcing the same seat
// uniqueness the MySQL index provides.  forceConflicts makes the next
// N UpdateSeat calls fail with ErrSeatConflict to exercise the
// allocator's retry path.
type memStore struct {
	mu             sync.Mutex
	guests         map[uint64]*model.Guest
	forceConflicts int
}

func newMemStore() *memStore {
	return &memStore{guests: make(map[uint64]*model.Guest)}
}

func (s *memStore) add(g *model.Guest) *model.Guest {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *g
	s.guests[g.ID] = &cp
	return g
}

func (s *memStore) seatOf(id uint64) *int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guests[id].SeatNumber
}

func (s *memStore) TakenSeats(_ context.Context, start, end int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var taken []int
	for _, g := range s.guests {
		if g.SeatNumber != nil && *g.SeatNumber >= start && *g.SeatNumber <= end {
			taken = append(taken, *g.SeatNumber)
		}
	}
	sort.Ints(taken)
	return taken, nil
}

func (s *memStore) SeatedPartyMates(_ context.Context, invitationID uint64, start, end int) ([]model.Guest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var mates []model.Guest
	for _, g := range s.guests {
		if g.InvitationID == invitationID && g.SeatNumber != nil && *g.SeatNumber >= start && *g.SeatNumber <= end {
			mates = append(mates, *g)
		}
	}
	sort.Slice(mates, func(i, j int) bool { return *mates[i].SeatNumber < *mates[j].SeatNumber })
	return mates, nil
}

func (s *memStore) HolderOf(_ context.Context, seat int) (*model.Guest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.guests {
		if g.SeatNumber != nil && *g.SeatNumber == seat {
			cp := *g
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) UpdateSeat(_ context.Context, guestID uint64, seat *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forceConflicts > 0 {
		s.forceConflicts--
		return ErrSeatConflict
	}
	if seat != nil {
		for id, g := range s.guests {
			if id != guestID && g.SeatNumber != nil && *g.SeatNumber == *seat {
				return ErrSeatConflict
			}
		}
	}
	g, ok := s.guests[guestID]
	if !ok {
		return nil
	}
	if seat == nil {
		g.SeatNumber = nil
		return nil
	}
	n := *seat
	g.SeatNumber = &n
	return nil
}

func (s *memStore) ExchangeSeats(_ context.Context, guestA, guestB uint64, seatA, seatB int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, b := s.guests[guestA], s.guests[guestB]
	a.SeatNumber = nil
	nb, na := seatA, seatB
	b.SeatNumber = &nb
	a.SeatNumber = &na
	return nil
}

func newGuest(id, invitation uint64, tier model.Tier, seat *int) *model.Guest {
	return &model.Guest{ID: id, InvitationID: invitation, Tier: tier, SeatNumber: seat}
}

func seatPtr(n int) *int { return &n }

func TestAutoAssignFirstFitEmptyVIP(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	g1 := store.add(newGuest(1, 10, model.TierVIP, nil))

	seat, assigned, err := alloc.AutoAssign(context.Background(), g1)
	require.NoError(t, err)
	require.True(t, assigned)
	require.Equal(t, 1, seat)
	require.Equal(t, 1, *store.seatOf(1))
}

func TestAutoAssignAdjacencyNextToPartyMate(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	store.add(newGuest(1, 10, model.TierVIP, seatPtr(1)))
	g2 := store.add(newGuest(2, 10, model.TierVIP, nil))

	// Seat 0 is outside the VIP range, so the heuristic lands on 2.
	seat, assigned, err := alloc.AutoAssign(context.Background(), g2)
	require.NoError(t, err)
	require.True(t, assigned)
	require.Equal(t, 2, seat)
}

func TestAutoAssignAdjacencyPrefersDecrementNeighbor(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	store.add(newGuest(1, 10, model.TierVIP, seatPtr(10)))
	g2 := store.add(newGuest(2, 10, model.TierVIP, nil))

	seat, assigned, err := alloc.AutoAssign(context.Background(), g2)
	require.NoError(t, err)
	require.True(t, assigned)
	require.Equal(t, 9, seat)
}

func TestAutoAssignAdjacencyLowerNumberedMateWins(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	store.add(newGuest(1, 10, model.TierVIP, seatPtr(20)))
	store.add(newGuest(2, 10, model.TierVIP, seatPtr(5)))
	g3 := store.add(newGuest(3, 10, model.TierVIP, nil))

	// The mate on seat 5 is visited before the one on seat 20.
	seat, assigned, err := alloc.AutoAssign(context.Background(), g3)
	require.NoError(t, err)
	require.True(t, assigned)
	require.Equal(t, 4, seat)
}

func TestAutoAssignSkipsOtherPartiesAndTiers(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	// Party-mate of a different invitation at seat 30.
	store.add(newGuest(1, 99, model.TierVIP, seatPtr(30)))
	g2 := store.add(newGuest(2, 10, model.TierVIP, nil))

	seat, assigned, err := alloc.AutoAssign(context.Background(), g2)
	require.NoError(t, err)
	require.True(t, assigned)
	require.Equal(t, 1, seat) // first fit, no adjacency to strangers
}

func TestAutoAssignRegularSkipsHeuristic(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	// A seated party-mate inside the VIP range must not attract a
	// REGULAR guest across sections.
	store.add(newGuest(1, 10, model.TierVIP, seatPtr(10)))
	g2 := store.add(newGuest(2, 10, model.TierRegular, nil))

	seat, assigned, err := alloc.AutoAssign(context.Background(), g2)
	require.NoError(t, err)
	require.True(t, assigned)
	require.Equal(t, 51, seat)
}

func TestAutoAssignPremiumBehavesLikeVIP(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	store.add(newGuest(1, 10, model.TierPremium, seatPtr(7)))
	g2 := store.add(newGuest(2, 10, model.TierPremium, nil))

	seat, assigned, err := alloc.AutoAssign(context.Background(), g2)
	require.NoError(t, err)
	require.True(t, assigned)
	require.Equal(t, 6, seat)
}

func TestAutoAssignIdempotentForSeatedGuest(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	g := store.add(newGuest(1, 10, model.TierVIP, nil))

	first, assigned, err := alloc.AutoAssign(context.Background(), g)
	require.NoError(t, err)
	require.True(t, assigned)

	second, assigned, err := alloc.AutoAssign(context.Background(), g)
	require.NoError(t, err)
	require.True(t, assigned)
	require.Equal(t, first, second)
	require.Equal(t, first, *store.seatOf(1))
}

func TestAutoAssignSectionFull(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	for n := SectionVIP.Start; n <= SectionVIP.End; n++ {
		store.add(newGuest(uint64(n), 1, model.TierVIP, seatPtr(n)))
	}
	late := store.add(newGuest(1000, 1, model.TierVIP, nil))

	seat, assigned, err := alloc.AutoAssign(context.Background(), late)
	require.NoError(t, err)
	require.False(t, assigned)
	require.Zero(t, seat)
	require.Nil(t, store.seatOf(1000))

	// Nobody else moved.
	taken, err := store.TakenSeats(context.Background(), SeatMin, SeatMax)
	require.NoError(t, err)
	require.Len(t, taken, SectionVIP.Size())
}

func TestAutoAssignRetriesOnceOnConflict(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	g := store.add(newGuest(1, 10, model.TierRegular, nil))

	store.forceConflicts = 1
	seat, assigned, err := alloc.AutoAssign(context.Background(), g)
	require.NoError(t, err)
	require.True(t, assigned)
	require.Equal(t, 51, seat)
}

func TestAutoAssignSurfacesRepeatedConflict(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	g := store.add(newGuest(1, 10, model.TierRegular, nil))

	store.forceConflicts = 2
	_, assigned, err := alloc.AutoAssign(context.Background(), g)
	require.ErrorIs(t, err, ErrSeatOccupied)
	require.False(t, assigned)
}

func TestAssignSpecificValidationOrder(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	store.add(newGuest(1, 10, model.TierVIP, seatPtr(5)))
	g2 := store.add(newGuest(2, 10, model.TierRegular, nil))

	tests := []struct {
		name string
		seat int
		want error
	}{
		{"below range", 0, ErrOutOfRange},
		{"above range", 361, ErrOutOfRange},
		{"occupied beats section", 5, ErrSeatOccupied}, // 5 is both held and wrong-section
		{"wrong section", 7, ErrWrongSection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, alloc.AssignSpecific(context.Background(), g2, tt.seat), tt.want)
		})
	}
	require.Nil(t, store.seatOf(2))
}

func TestAssignSpecificOverwritesAndAllowsOwnSeat(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	g := store.add(newGuest(1, 10, model.TierRegular, seatPtr(60)))

	// Change chair: same code path as the initial assignment.
	require.NoError(t, alloc.AssignSpecific(context.Background(), g, 70))
	require.Equal(t, 70, *store.seatOf(1))

	// Re-assigning the guest to their own chair is not "occupied".
	require.NoError(t, alloc.AssignSpecific(context.Background(), g, 70))
	require.Equal(t, 70, *store.seatOf(1))
}

func TestRemoveAssignmentFreesAndIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	g := store.add(newGuest(1, 10, model.TierVIP, seatPtr(3)))

	require.NoError(t, alloc.RemoveAssignment(context.Background(), g))
	require.Nil(t, store.seatOf(1))

	free, err := alloc.Pool().FreeSeats(context.Background(), SectionVIP)
	require.NoError(t, err)
	require.Contains(t, free, 3)

	// Second removal is a no-op success.
	require.NoError(t, alloc.RemoveAssignment(context.Background(), g))
}

func TestSwitchExchangesAcrossSections(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	g1 := store.add(newGuest(1, 10, model.TierVIP, seatPtr(10)))
	g4 := store.add(newGuest(4, 11, model.TierRegular, seatPtr(200)))

	// Section legality is intentionally not re-checked on switch.
	require.NoError(t, alloc.Switch(context.Background(), g1, g4))
	require.Equal(t, 200, *store.seatOf(1))
	require.Equal(t, 10, *store.seatOf(4))
	require.Equal(t, 200, *g1.SeatNumber)
	require.Equal(t, 10, *g4.SeatNumber)
}

func TestSwitchRoundTripRestoresSeats(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	g1 := store.add(newGuest(1, 10, model.TierVIP, seatPtr(2)))
	g2 := store.add(newGuest(2, 10, model.TierVIP, seatPtr(9)))

	require.NoError(t, alloc.Switch(context.Background(), g1, g2))
	require.NoError(t, alloc.Switch(context.Background(), g1, g2))
	require.Equal(t, 2, *store.seatOf(1))
	require.Equal(t, 9, *store.seatOf(2))
}

func TestSwitchRequiresBothSeated(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	seated := store.add(newGuest(1, 10, model.TierVIP, seatPtr(2)))
	unseated := store.add(newGuest(2, 10, model.TierVIP, nil))

	require.ErrorIs(t, alloc.Switch(context.Background(), seated, unseated), ErrGuestUnseated)
	require.ErrorIs(t, alloc.Switch(context.Background(), unseated, seated), ErrGuestUnseated)
	require.Equal(t, 2, *store.seatOf(1))
}

func TestAvailableChairsPerTier(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	store.add(newGuest(1, 10, model.TierVIP, seatPtr(1)))
	store.add(newGuest(2, 10, model.TierRegular, seatPtr(51)))

	vip, err := alloc.AvailableChairs(context.Background(), model.TierVIP)
	require.NoError(t, err)
	require.Len(t, vip, SectionVIP.Size()-1)
	require.Equal(t, 2, vip[0])

	reg, err := alloc.AvailableChairs(context.Background(), model.TierRegular)
	require.NoError(t, err)
	require.Len(t, reg, SectionRegular.Size()-1)
	require.Equal(t, 52, reg[0])

	premium, err := alloc.AvailableChairs(context.Background(), model.TierPremium)
	require.NoError(t, err)
	require.Equal(t, vip, premium)
}

func TestUniquenessHoldsThroughOperations(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alloc := NewAllocator(store)
	ctx := context.Background()

	var guests []*model.Guest
	for i := uint64(1); i <= 20; i++ {
		tier := model.TierRegular
		if i%3 == 0 {
			tier = model.TierVIP
		}
		g := store.add(newGuest(i, i%4, tier, nil))
		guests = append(guests, g)
		_, _, err := alloc.AutoAssign(ctx, g)
		require.NoError(t, err)
	}
	require.NoError(t, alloc.Switch(ctx, guests[0], guests[5]))
	require.NoError(t, alloc.RemoveAssignment(ctx, guests[3]))
	_, _, err := alloc.AutoAssign(ctx, guests[3])
	require.NoError(t, err)

	taken, err := store.TakenSeats(ctx, SeatMin, SeatMax)
	require.NoError(t, err)
	seen := make(map[int]bool, len(taken))
	for _, n := range taken {
		require.False(t, seen[n], "seat %d assigned twice", n)
		seen[n] = true
	}
}
