package resultcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTiered(s *fakeStore) (*Tiered, *Memory, *Redis) {
	local := NewMemory(time.Minute, 10)
	remote := NewRedis(s, "", time.Minute, nil, nil)
	return NewTiered(local, remote, s, "invalidate"), local, remote
}

func TestTiered_PutWritesBothTiers(t *testing.T) {
	s := newFakeStore()
	c, local, remote := newTiered(s)
	ctx := context.Background()

	c.Put(ctx, "q", "org-1", results("a"))

	_, ok := local.Get(ctx, "q")
	assert.True(t, ok)
	_, ok = remote.Get(ctx, "q")
	assert.True(t, ok)
}

func TestTiered_RemoteHitWarmsLocal(t *testing.T) {
	s := newFakeStore()
	c, local, remote := newTiered(s)
	ctx := context.Background()

	remote.Put(ctx, "q", "org-1", results("a"))
	got, ok := c.Get(ctx, "q")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, resultIDs(got))

	_, ok = local.Get(ctx, "q")
	assert.True(t, ok)

	// The warmed copy keeps its organization for invalidation.
	require.NoError(t, local.InvalidateOrganization(ctx, "org-2"))
	_, ok = local.Get(ctx, "q")
	assert.True(t, ok)
	require.NoError(t, local.InvalidateOrganization(ctx, "org-1"))
	_, ok = local.Get(ctx, "q")
	assert.False(t, ok)
}

func TestTiered_RemoteHitKeepsOriginalAge(t *testing.T) {
	s := newFakeStore()
	clk := newClock()
	local := NewMemory(time.Minute, 10, WithClock(clk.Now))
	remote := NewRedis(s, "", time.Minute, nil, nil)
	remote.now = clk.Now
	c := NewTiered(local, remote, s, "invalidate")
	ctx := context.Background()

	remote.Put(ctx, "q", "org-1", results("a"))

	clk.Advance(55 * time.Second)
	_, ok := c.Get(ctx, "q")
	require.True(t, ok)

	// The shared entry expires; the warmed copy must not outlive it.
	require.NoError(t, s.Del(ctx, remote.entryKey("q")))
	clk.Advance(10 * time.Second)
	_, ok = c.Get(ctx, "q")
	assert.False(t, ok)
	_, ok = local.Get(ctx, "q")
	assert.False(t, ok)
}

func TestTiered_ExpiredRemoteEntryNotWarmed(t *testing.T) {
	s := newFakeStore()
	clk := newClock()
	local := NewMemory(time.Minute, 10, WithClock(clk.Now))
	remote := NewRedis(s, "", time.Minute, nil, nil)
	remote.now = clk.Now
	c := NewTiered(local, remote, s, "invalidate")
	ctx := context.Background()

	remote.Put(ctx, "q", "org-1", results("a"))
	clk.Advance(time.Minute)

	_, ok := c.Get(ctx, "q")
	assert.False(t, ok)
	assert.Equal(t, 0, local.Len())
}

func TestTiered_InvalidateBroadcasts(t *testing.T) {
	s := newFakeStore()
	c, local, remote := newTiered(s)
	ctx := context.Background()

	c.Put(ctx, "q", "org-1", results("a"))
	require.NoError(t, c.InvalidateOrganization(ctx, "org-1"))

	_, ok := local.Get(ctx, "q")
	assert.False(t, ok)
	_, ok = remote.Get(ctx, "q")
	assert.False(t, ok)
	assert.Equal(t, []string{"org:org-1"}, s.published())

	require.NoError(t, c.Flush(ctx))
	assert.Equal(t, []string{"org:org-1", "flush"}, s.published())
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, string, string) error {
	return errors.New("publish failed")
}

func TestTiered_BroadcastErrorReported(t *testing.T) {
	s := newFakeStore()
	local := NewMemory(time.Minute, 10)
	c := NewTiered(local, NewRedis(s, "", time.Minute, nil, nil), failingPublisher{}, "invalidate")
	ctx := context.Background()

	c.Put(ctx, "q", "", results("a"))
	err := c.Flush(ctx)
	require.Error(t, err)

	// Both tiers are still flushed.
	_, ok := local.Get(ctx, "q")
	assert.False(t, ok)
	assert.Equal(t, 0, s.entries())
}

func TestTiered_NoPublisher(t *testing.T) {
	c := NewTiered(NewMemory(time.Minute, 10), NewRedis(newFakeStore(), "", time.Minute, nil, nil), nil, "")
	assert.NoError(t, c.Flush(context.Background()))
}

// --- Subscriber ---

type chanSubscriber struct {
	mu    sync.Mutex
	calls int
	msgs  chan string
	fail  int
}

func (c *chanSubscriber) Subscribe(ctx context.Context, _ string, fn func(string)) error {
	c.mu.Lock()
	c.calls++
	fail := c.calls <= c.fail
	c.mu.Unlock()
	if fail {
		return errors.New("connection reset")
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-c.msgs:
			fn(m)
		}
	}
}

func (c *chanSubscriber) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestSubscriber_AppliesMessages(t *testing.T) {
	local := NewMemory(time.Minute, 10)
	vec := newInvalidationVec()
	sub := &chanSubscriber{msgs: make(chan string)}
	s := NewSubscriber(local, sub, "invalidate", vec, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	local.Put(ctx, "org1", "org-1", results("a"))
	local.Put(ctx, "org2", "org-2", results("b"))

	sub.msgs <- "org:org-1"
	sub.msgs <- "bogus"
	sub.msgs <- "org:" // no-op: empty organization
	// Unbuffered sends complete only once the handler loop has taken them,
	// so one more message guarantees the previous ones were applied.
	sub.msgs <- "bogus"

	_, ok := local.Get(ctx, "org1")
	assert.False(t, ok)
	_, ok = local.Get(ctx, "org2")
	assert.True(t, ok)

	sub.msgs <- "flush"
	sub.msgs <- "bogus"
	assert.Equal(t, 0, local.Len())
	assert.Equal(t, 2.0, counter(t, vec, "broadcast"))

	cancel()
	require.NoError(t, <-done)
}

func TestSubscriber_Resubscribes(t *testing.T) {
	local := NewMemory(time.Minute, 10)
	sub := &chanSubscriber{msgs: make(chan string), fail: 2}
	s := NewSubscriber(local, sub, "invalidate", nil, nil)
	s.retryDelay = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	local.Put(ctx, "q", "", results("a"))
	sub.msgs <- "flush"
	sub.msgs <- "bogus"
	assert.Equal(t, 0, local.Len())
	assert.Equal(t, 3, sub.Calls())

	cancel()
	require.NoError(t, <-done)
}
