package deck

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleIsPermutation(t *testing.T) {
	for _, n := range []int{1, 2, 3, 13, 52, 100} {
		order := NewOrder(n)
		require.Len(t, order, n)

		sorted := append([]int(nil), order...)
		sort.Ints(sorted)
		for i, v := range sorted {
			assert.Equal(t, i, v, "n=%d", n)
		}
	}
}

func TestShuffleEmpty(t *testing.T) {
	assert.Empty(t, Shuffle(0, func(int) int { return 0 }))
	assert.Empty(t, Shuffle(-3, func(int) int { return 0 }))
}

func TestShuffleClampsOutOfRangeDraws(t *testing.T) {
	// A source that always overshoots by one must not panic.
	over := func(k int) int { return k }
	order := Shuffle(52, over)
	require.Len(t, order, 52)

	under := func(int) int { return -1 }
	order = Shuffle(52, under)
	require.Len(t, order, 52)

	seen := make(map[int]bool)
	for _, v := range order {
		assert.False(t, seen[v], "duplicate %d", v)
		seen[v] = true
	}
}

func TestShuffleDrawRange(t *testing.T) {
	// Each draw must allow the current index itself (inclusive upper bound).
	var bounds []int
	Shuffle(5, func(k int) int {
		bounds = append(bounds, k)
		return k - 1
	})
	assert.Equal(t, []int{5, 4, 3, 2}, bounds)
}

func TestShuffleNotBiasedToIdentity(t *testing.T) {
	const trials = 2000
	const n = 10
	fixed := 0
	for i := 0; i < trials; i++ {
		for pos, v := range NewOrder(n) {
			if pos == v {
				fixed++
			}
		}
	}
	// Expected fixed points per permutation is 1, so about trials in total.
	assert.Less(t, fixed, trials*2)
	assert.Greater(t, fixed, trials/2)
}

func TestIsMatch(t *testing.T) {
	tests := []struct {
		a, b Card
		want bool
	}{
		{0, 13, true},
		{0, 1, false},
		{5, 18, true},
		{12, 51, true},
		{12, 50, false},
		{26, 39, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsMatch(tt.a, tt.b), "IsMatch(%d, %d)", tt.a, tt.b)
	}
}

func TestIsMatchAllPairs(t *testing.T) {
	for i := 0; i < DeckSize; i++ {
		for j := 0; j < DeckSize; j++ {
			if IsMatch(Card(i), Card(j)) != (i%13 == j%13) {
				t.Fatalf("IsMatch(%d, %d) disagrees with rank equality", i, j)
			}
		}
	}
}

func TestRevealedMatch(t *testing.T) {
	ok, err := RevealedMatch([]Card{5, 18})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = RevealedMatch([]Card{5})
	assert.ErrorIs(t, err, ErrNeedTwoCards)
}

func TestCardRankSuitLabel(t *testing.T) {
	assert.Equal(t, 1, Card(0).Rank())
	assert.Equal(t, "A", Card(0).Label())
	assert.Equal(t, Spade, Card(0).Suit())
	assert.Equal(t, 6, Card(18).Rank())
	assert.Equal(t, Heart, Card(18).Suit())
	assert.Equal(t, "10", Card(35).Label())
	assert.Equal(t, Diamond, Card(35).Suit())
	assert.Equal(t, "K", Card(51).Label())
	assert.Equal(t, Club, Card(51).Suit())
	assert.Equal(t, "J", RankLabel(11))
	assert.Equal(t, "Q", RankLabel(12))
	assert.False(t, Card(52).Valid())
	assert.False(t, Card(-1).Valid())
}

func TestTotalPairs(t *testing.T) {
	assert.Equal(t, 26, TotalPairs(DeckSize))
	assert.Equal(t, 0, TotalPairs(13))
	assert.Equal(t, 13, TotalPairs(26))
	assert.Equal(t, 13, TotalPairs(39))
}
