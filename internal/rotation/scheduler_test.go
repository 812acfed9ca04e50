package rotation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pattern(s *Scheduler[string], calls int) string {
	marks := make([]string, 0, calls)
	for i := 0; i < calls; i++ {
		slot, ok := s.Next()
		if !ok {
			marks = append(marks, "-")
			continue
		}
		if slot.Ad {
			marks = append(marks, "A")
		} else {
			marks = append(marks, "I")
		}
	}
	return strings.Join(marks, " ")
}

func TestScheduler_Cadence(t *testing.T) {
	s := NewScheduler[string](NewSeededRand(1))
	s.Load(names(10))
	s.LoadAds([]string{"ad-1", "ad-2", "ad-3", "ad-4", "ad-5"})
	s.Configure(3, 1, 1, true)

	assert.Equal(t, "I I I A I I I A I I I A I", pattern(s, 13))
}

func TestScheduler_Disabled(t *testing.T) {
	s := NewScheduler[string](NewSeededRand(1))
	s.Load(names(4))
	s.LoadAds([]string{"ad-1"})
	s.Configure(1, 1, 1, false)

	assert.Equal(t, "I I I I I I", pattern(s, 6))
}

func TestScheduler_NoAdsLoaded(t *testing.T) {
	s := NewScheduler[string](NewSeededRand(1))
	s.Load(names(4))
	s.Configure(1, 1, 1, true)

	assert.Equal(t, "I I I", pattern(s, 3))
}

func TestScheduler_EmptyQueue(t *testing.T) {
	s := NewScheduler[string](nil)
	s.LoadAds([]string{"ad-1"})
	s.Configure(1, 1, 1, true)

	_, ok := s.Next()
	assert.False(t, ok)
}

func TestScheduler_BlockSize(t *testing.T) {
	s := NewScheduler[string](NewSeededRand(4))
	s.Load(names(3))
	s.LoadAds([]string{"ad-1", "ad-2", "ad-3", "ad-4", "ad-5", "ad-6"})
	s.Configure(1, 2, 3, true)

	for round := 0; round < 20; round++ {
		slot, ok := s.Next()
		require.True(t, ok)
		require.False(t, slot.Ad)

		block := 0
		for s.Status().PendingAds > 0 || block == 0 {
			slot, ok := s.Next()
			require.True(t, ok)
			require.True(t, slot.Ad)
			block++
		}
		assert.GreaterOrEqual(t, block, 2)
		assert.LessOrEqual(t, block, 3)
	}
}

func TestScheduler_ConsecutiveBlocksDisjoint(t *testing.T) {
	s := NewScheduler[string](NewSeededRand(8))
	s.Load(names(5))
	s.LoadAds([]string{"ad-1", "ad-2", "ad-3", "ad-4", "ad-5", "ad-6"})
	s.Configure(1, 2, 2, true)

	var previous []string
	for round := 0; round < 25; round++ {
		slot, ok := s.Next()
		require.True(t, ok)
		require.False(t, slot.Ad)

		var block []string
		for i := 0; i < 2; i++ {
			slot, ok := s.Next()
			require.True(t, ok)
			require.True(t, slot.Ad)
			block = append(block, slot.Item)
		}
		assert.NotEqual(t, block[0], block[1])
		for _, ad := range block {
			assert.NotContains(t, previous, ad, "round %d repeated an ad", round)
		}
		previous = block
	}
}

func TestScheduler_SmallPoolFallsBackToWholePool(t *testing.T) {
	s := NewScheduler[string](NewSeededRand(2))
	s.Load(names(2))
	s.LoadAds([]string{"ad-1", "ad-2", "ad-3"})
	s.Configure(1, 2, 2, true)

	for round := 0; round < 10; round++ {
		slot, ok := s.Next()
		require.True(t, ok)
		require.False(t, slot.Ad)

		a, _ := s.Next()
		b, _ := s.Next()
		require.True(t, a.Ad)
		require.True(t, b.Ad)
		assert.NotEqual(t, a.Item, b.Item)
	}
}

func TestScheduler_BlockClampedToPool(t *testing.T) {
	s := NewScheduler[string](NewSeededRand(2))
	s.Load(names(2))
	s.LoadAds([]string{"ad-1"})
	s.Configure(1, 3, 5, true)

	assert.Equal(t, "I A I A I", pattern(s, 5))
}

func TestScheduler_ConfigureClamps(t *testing.T) {
	s := NewScheduler[string](nil)
	assert.Equal(t, DefaultAdConfig(), s.AdConfig())

	s.Configure(0, 0, -1, true)
	assert.Equal(t, AdConfig{Enabled: true, Frequency: 1, MinPerBreak: 1, MaxPerBreak: 1}, s.AdConfig())

	s.Configure(2, 3, 1, false)
	assert.Equal(t, AdConfig{Enabled: false, Frequency: 2, MinPerBreak: 3, MaxPerBreak: 3}, s.AdConfig())
}

func TestScheduler_ConfigureKeepsPendingBreak(t *testing.T) {
	s := NewScheduler[string](NewSeededRand(6))
	s.Load(names(4))
	s.LoadAds([]string{"ad-1", "ad-2", "ad-3", "ad-4", "ad-5"})
	s.Configure(1, 3, 3, true)

	assert.Equal(t, "I A", pattern(s, 2))
	s.Configure(1, 1, 1, true)
	assert.Equal(t, "A A I A I", pattern(s, 5))
}

func TestScheduler_ClearAdsDropsPendingBreak(t *testing.T) {
	s := NewScheduler[string](NewSeededRand(6))
	s.Load(names(4))
	s.LoadAds([]string{"ad-1", "ad-2", "ad-3"})
	s.Configure(1, 3, 3, true)

	assert.Equal(t, "I A", pattern(s, 2))
	s.ClearAds()
	assert.Equal(t, 0, s.Status().PendingAds)
	assert.Equal(t, "I I I", pattern(s, 3))
}

func TestScheduler_PreviousSkipsAds(t *testing.T) {
	s := NewScheduler[string](NewSeededRand(3))
	s.Load(names(5))
	s.LoadAds([]string{"ad-1"})
	s.Configure(1, 1, 1, true)

	first, _ := s.Next()
	ad, _ := s.Next()
	require.True(t, ad.Ad)
	second, _ := s.Next()
	require.False(t, second.Ad)

	prev, ok := s.Previous()
	require.True(t, ok)
	assert.Equal(t, first.Item, prev)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, first.Item, current)
}

func TestScheduler_LoadRestartsCadence(t *testing.T) {
	s := NewScheduler[string](NewSeededRand(3))
	s.Load(names(5))
	s.LoadAds([]string{"ad-1", "ad-2"})
	s.Configure(2, 1, 1, true)

	assert.Equal(t, "I", pattern(s, 1))
	s.Load(names(3))
	assert.Equal(t, "I I A", pattern(s, 3))
	assert.Equal(t, 2, s.Status().NormalPlays)
}

func TestScheduler_Status(t *testing.T) {
	s := NewScheduler[string](NewSeededRand(3))
	s.Load(names(5))
	s.LoadAds([]string{"ad-1", "ad-2", "ad-3"})
	s.Configure(1, 2, 2, true)
	pattern(s, 2)

	st := s.Status()
	assert.Equal(t, 5, st.Items)
	assert.Equal(t, 1, st.PlayedCount)
	assert.Equal(t, 3, st.Ads)
	assert.Equal(t, 1, st.NormalPlays)
	assert.Equal(t, 1, st.PendingAds)
	assert.True(t, st.AdConfig.Enabled)

	s.Clear()
	st = s.Status()
	assert.Equal(t, 0, st.Items)
	assert.Equal(t, 0, st.NormalPlays)
	assert.Equal(t, 0, st.PendingAds)
	assert.Equal(t, 3, st.Ads)
}
