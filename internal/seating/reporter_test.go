package seating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-seat-registration/internal/model"
)

func TestStatisticsEmptyVenue(t *testing.T) {
	t.Parallel()

	rep := NewReporter(NewPool(newMemStore()))
	s, err := rep.Statistics(context.Background())
	require.NoError(t, err)
	require.Equal(t, Statistics{
		Total: 360, TotalOccupied: 0, TotalAvailable: 360,
		VIPTotal: 50, VIPOccupied: 0, VIPAvailable: 50,
		RegularTotal: 310, RegularOccupied: 0, RegularAvailable: 310,
	}, s)
}

func TestStatisticsCountsBySeatRange(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	rep := NewReporter(NewPool(store))
	store.add(newGuest(1, 10, model.TierVIP, seatPtr(1)))
	store.add(newGuest(2, 10, model.TierVIP, seatPtr(2)))
	// A REGULAR guest parked on a VIP chair via switch counts toward
	// the VIP section, since occupancy is range-based.
	store.add(newGuest(3, 11, model.TierRegular, seatPtr(10)))
	store.add(newGuest(4, 11, model.TierRegular, seatPtr(300)))

	s, err := rep.Statistics(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, s.VIPOccupied)
	require.Equal(t, 47, s.VIPAvailable)
	require.Equal(t, 1, s.RegularOccupied)
	require.Equal(t, 309, s.RegularAvailable)
	require.Equal(t, 4, s.TotalOccupied)
	require.Equal(t, 356, s.TotalAvailable)
}
