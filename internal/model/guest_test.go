package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTierVIPEquivalent(t *testing.T) {
	t.Parallel()

	require.True(t, TierVIP.VIPEquivalent())
	require.True(t, TierPremium.VIPEquivalent())
	require.False(t, TierRegular.VIPEquivalent())
	require.False(t, Tier("vip").VIPEquivalent()) // tiers are stored upper-case
}

func TestParseTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Tier
		ok   bool
	}{
		{"REGULAR", TierRegular, true},
		{"VIP", TierVIP, true},
		{"PREMIUM", TierPremium, true},
		{"GOLD", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseTier(tt.in)
		require.Equal(t, tt.ok, ok, "input %q", tt.in)
		require.Equal(t, tt.want, got)
	}
}

func TestGuestFullName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Ada Lovelace", (&Guest{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	require.Equal(t, "Ada", (&Guest{FirstName: "Ada"}).FullName())
	require.Equal(t, "Lovelace", (&Guest{LastName: "Lovelace"}).FullName())
}
