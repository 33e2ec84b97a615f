package object

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/emberlang/ember/internal/types"
)

// Channel is a bounded blocking queue (spec.md §3.3, §7 concurrency
// glue): capacity items may be buffered before Put blocks, and Get
// blocks on an empty channel. Two weighted semaphores gate the two
// directions so a thread parked in Put or Get yields cleanly to the
// scheduler (spec.md §7 "cooperative thread leave/enter around blocking
// calls") instead of spinning.
type Channel struct {
	Base
	cap    int64
	space  *semaphore.Weighted // acquired by Put, released by Get
	filled *semaphore.Weighted // acquired by Get, released by Put
	mu     sync.Mutex
	items  []types.Object
	closed bool
}

func NewChannel(capacity int64) *Channel {
	if capacity < 1 {
		capacity = 1
	}
	c := &Channel{
		cap:    capacity,
		space:  semaphore.NewWeighted(capacity),
		filled: semaphore.NewWeighted(capacity),
	}
	// filled counts buffered items, so it starts drained: a weighted
	// semaphore has no zero-capacity constructor, so acquire the capacity
	// it was born with right away. The acquire cannot block (nothing else
	// holds a reference to c yet).
	_ = c.filled.Acquire(context.Background(), capacity)
	c.Tcode = TcodeChannel
	return c
}

var errChannelClosed = errWrongType("put", "channel (closed)")

// Put blocks until there is room for v, or until ctx is cancelled, which
// lets a caller interrupt a blocked Put.
func (c *Channel) Put(ctx context.Context, v types.Object) error {
	if err := c.space.Acquire(ctx, 1); err != nil {
		return err
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.space.Release(1)
		return errChannelClosed
	}
	c.items = append(c.items, v)
	c.mu.Unlock()
	c.filled.Release(1)
	return nil
}

// Get blocks until an item is available, or ctx is cancelled.
func (c *Channel) Get(ctx context.Context) (types.Object, error) {
	if err := c.filled.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	c.mu.Lock()
	v := c.items[0]
	c.items = c.items[1:]
	c.mu.Unlock()
	c.space.Release(1)
	return v, nil
}

func (c *Channel) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

type channelType struct{}

func (channelType) Name() string { return "channel" }

func (channelType) Mark(o types.Object) uintptr {
	ch := o.(*Channel)
	ch.SetFlag(types.FlagMark)
	ch.mu.Lock()
	defer ch.mu.Unlock()
	size := uintptr(80)
	for _, it := range ch.items {
		size += markChild(it)
	}
	return size
}

func (channelType) Free(types.Object) {}

func (channelType) Hash(o types.Object) uint64 {
	return uint64(uintptr(0x4348414e)) ^ uint64(o.(*Channel).cap)
}

func (channelType) Cmp(a, b types.Object) int {
	if a == b {
		return 0
	}
	return 1
}

func (channelType) Copy(o types.Object) types.Object { return o } // channels have reference identity
