package seating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-seat-registration/internal/model"
)

func TestSectionFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tier model.Tier
		want Section
	}{
		{model.TierVIP, SectionVIP},
		{model.TierPremium, SectionVIP},
		{model.TierRegular, SectionRegular},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, SectionFor(tt.tier))
	}
}

func TestSectionContainsAndSize(t *testing.T) {
	t.Parallel()

	require.True(t, SectionVIP.Contains(1))
	require.True(t, SectionVIP.Contains(50))
	require.False(t, SectionVIP.Contains(0))
	require.False(t, SectionVIP.Contains(51))
	require.Equal(t, 50, SectionVIP.Size())
	require.Equal(t, 310, SectionRegular.Size())
}

func TestPoolIsFree(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	pool := NewPool(store)
	store.add(newGuest(1, 10, model.TierVIP, seatPtr(5)))
	ctx := context.Background()

	free, err := pool.IsFree(ctx, 5)
	require.NoError(t, err)
	require.False(t, free)

	free, err = pool.IsFree(ctx, 6)
	require.NoError(t, err)
	require.True(t, free)

	// Out-of-range numbers are never free, without touching the store.
	for _, n := range []int{0, -1, 361} {
		free, err = pool.IsFree(ctx, n)
		require.NoError(t, err)
		require.False(t, free)
	}
}

func TestPoolFreeSeatsAscendingAndRestartable(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	pool := NewPool(store)
	store.add(newGuest(1, 10, model.TierVIP, seatPtr(2)))
	store.add(newGuest(2, 10, model.TierVIP, seatPtr(4)))
	ctx := context.Background()

	free, err := pool.FreeSeats(ctx, Section{Start: 1, End: 5})
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 5}, free)

	// The view is recomputed per call: freeing a seat shows up
	// immediately on the next query.
	require.NoError(t, store.UpdateSeat(ctx, 1, nil))
	free, err = pool.FreeSeats(ctx, Section{Start: 1, End: 5})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 5}, free)
}
