package db

import (
	"context"
	"time"
)

// CacheStore is the shared cache backend facade combining all sub-interfaces.
type CacheStore interface {
	Pinger
	KVStore
	SetStore
	PubSub
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// SetStore provides unordered set operations used for secondary indexes.
type SetStore interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// PubSub provides fire-and-forget broadcast between instances.
type PubSub interface {
	Publish(ctx context.Context, channel, message string) error
	// Subscribe blocks, invoking fn per message, until ctx is done or the
	// connection fails.
	Subscribe(ctx context.Context, channel string, fn func(message string)) error
}

// RowQuery describes a bounded candidate fetch from one record table.
type RowQuery struct {
	// Table is the record table.
	Table string
	// TenantColumn holds the owning organization id. TenantID empty means no constraint.
	TenantColumn string
	TenantID     string
	// SoftDelete excludes rows with deleted_at set.
	SoftDelete bool
	// JoinOrganization selects organizations.name AS organization_name via
	// OrganizationColumn.
	JoinOrganization   bool
	OrganizationColumn string
	// Terms, when set, keep rows where any of Columns contains any of them.
	// Comparison ignores case and apostrophes.
	Terms   []string
	Columns []string
	// Limit bounds the rows returned; rows are newest first.
	Limit int
}

// RowFinder runs RowQuery against the record store, scanning into dest
// (a pointer to a slice of models).
type RowFinder interface {
	FindRows(ctx context.Context, q RowQuery, dest any) error
}
