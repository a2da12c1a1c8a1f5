package resultcache

import (
	"context"
	"errors"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/result"
)

// Invalidation messages broadcast between instances.
const (
	msgFlush     = "flush"
	msgOrgPrefix = "org:"
)

// publisher broadcasts invalidations to other instances.
type publisher interface {
	Publish(ctx context.Context, channel, message string) error
}

// Tiered puts the in-process cache in front of the shared Redis tier and
// broadcasts invalidations so peers drop their in-process copies too.
type Tiered struct {
	local   *Memory
	remote  *Redis
	pub     publisher
	channel string
}

// NewTiered combines both tiers. pub may be nil when no peers exist.
func NewTiered(local *Memory, remote *Redis, pub publisher, channel string) *Tiered {
	return &Tiered{local: local, remote: remote, pub: pub, channel: channel}
}

// Get checks the local tier first, then the shared one, warming local on a remote hit.
func (t *Tiered) Get(ctx context.Context, key string) ([]result.Result, bool) {
	if results, ok := t.local.Get(ctx, key); ok {
		return results, true
	}
	e, ok := t.remote.lookup(ctx, key)
	if !ok {
		return nil, false
	}
	// The local copy expires when the shared entry does.
	t.local.restore(key, e.organizationID, e.results, e.createdAt)
	return e.results, true
}

// Put writes both tiers.
func (t *Tiered) Put(ctx context.Context, key, organizationID string, results []result.Result) {
	t.local.Put(ctx, key, organizationID, results)
	t.remote.Put(ctx, key, organizationID, results)
}

// InvalidateOrganization drops the organization's entries everywhere.
func (t *Tiered) InvalidateOrganization(ctx context.Context, organizationID string) error {
	_ = t.local.InvalidateOrganization(ctx, organizationID)
	err := t.remote.InvalidateOrganization(ctx, organizationID)
	return errors.Join(err, t.broadcast(ctx, msgOrgPrefix+organizationID))
}

// Flush drops everything everywhere.
func (t *Tiered) Flush(ctx context.Context) error {
	_ = t.local.Flush(ctx)
	err := t.remote.Flush(ctx)
	return errors.Join(err, t.broadcast(ctx, msgFlush))
}

func (t *Tiered) broadcast(ctx context.Context, msg string) error {
	if t.pub == nil || t.channel == "" {
		return nil
	}
	return t.pub.Publish(ctx, t.channel, msg)
}
