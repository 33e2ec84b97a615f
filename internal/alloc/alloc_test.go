package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeClassBoundary(t *testing.T) {
	// spec.md §8: 64 bytes goes through the free-list fast path, 65
	// bytes falls through to the raw allocator.
	class, ok := classOf(64)
	require.True(t, ok)
	require.Equal(t, 7, class)

	_, ok = classOf(65)
	require.False(t, ok)
}

func TestSizeClassWidths(t *testing.T) {
	cases := map[int]int{1: 0, 8: 0, 9: 1, 16: 1, 17: 2, 32: 3, 33: 4, 64: 7}
	for z, want := range cases {
		got, ok := classOf(z)
		require.True(t, ok, "z=%d", z)
		require.Equal(t, want, got, "z=%d", z)
	}
}

func TestAllocTriggersOnThreshold(t *testing.T) {
	fired := 0
	a := New(func() { fired++ })
	a.RecomputeThreshold(0) // threshold = floor = 64KiB
	a.Alloc(1 << 10)
	require.Equal(t, 0, fired)
	a.Alloc(200 << 10)
	require.Equal(t, 1, fired)
}

func TestRecomputeThresholdDoublesSurvivors(t *testing.T) {
	a := New(nil)
	a.RecomputeThreshold(1 << 20)
	require.Equal(t, int64(2<<20+64<<10), a.threshold)
}

func TestFreeNeverGoesNegative(t *testing.T) {
	a := New(nil)
	a.Free(100)
	require.Equal(t, int64(0), a.InUse())
}

func TestPoolRoundTrip(t *testing.T) {
	type block struct{ x int }
	a := New(nil)
	p := NewPool[block](a, 8)
	b := p.Get()
	b.x = 42
	require.Equal(t, int64(8), a.InUse())
	p.Put(b)
	require.Equal(t, int64(0), a.InUse())
	require.Equal(t, 0, b.x, "Put must clear the recycled value")
}

func TestDebugBypassSkipsPool(t *testing.T) {
	type block struct{ x int }
	a := New(nil)
	a.SetDebugBypass(true)
	p := NewPool[block](a, 8)
	b1 := p.Get()
	b1.x = 7
	p.Put(b1)
	b2 := p.Get()
	require.Equal(t, 0, b2.x)
}
