package resultcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/EashcodeX/itglue-clone-sub001/internal/db"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/result"
)

// DefaultKeyPrefix namespaces every key this cache writes.
const DefaultKeyPrefix = "deepsearch:"

const (
	tierRedis   = "redis"
	globalIndex = "_global"
)

// store is the consumer interface for the shared tier (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Redis is the shared cache tier. Each entry is also recorded in a per-organization
// index set so an organization's entries can be dropped without SCAN.
type Redis struct {
	store      store
	prefix     string
	ttl        time.Duration
	now        func() time.Time
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// NewRedis creates the shared tier.
// cacheTotal is a counter vec labelled (tier, result), passed explicitly; it may be nil.
func NewRedis(
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{store: s, prefix: prefix, ttl: ttl, now: time.Now, cacheTotal: cacheTotal, logger: logger}
}

// Get returns cached results. Store errors are logged and reported as a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]result.Result, bool) {
	e, ok := r.lookup(ctx, key)
	return e.results, ok
}

// lookup also treats entries older than the TTL as a miss, whatever Redis still holds.
func (r *Redis) lookup(ctx context.Context, key string) (entry, bool) {
	data, err := r.store.Get(ctx, r.entryKey(key))
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			r.logger.Warn("Failed to read cached results", zap.Error(err))
		}
		incCache(r.cacheTotal, tierRedis, "miss")
		return entry{}, false
	}

	e, err := decodeEntry(data)
	if err != nil {
		r.logger.Warn("Failed to decode cached results", zap.Error(err))
		incCache(r.cacheTotal, tierRedis, "miss")
		return entry{}, false
	}
	if !e.createdAt.IsZero() && r.now().Sub(e.createdAt) >= r.ttl {
		incCache(r.cacheTotal, tierRedis, "miss")
		return entry{}, false
	}
	incCache(r.cacheTotal, tierRedis, "hit")
	return e, true
}

// Put stores results and indexes the entry under its organization.
func (r *Redis) Put(ctx context.Context, key, organizationID string, results []result.Result) {
	data, err := encodeEntry(organizationID, results, r.now())
	if err != nil {
		r.logger.Warn("Failed to encode results for cache", zap.Error(err))
		return
	}

	entryKey := r.entryKey(key)
	if err := r.store.SetWithTTL(ctx, entryKey, data, r.ttl); err != nil {
		r.logger.Warn("Failed to cache results", zap.Error(err))
		return
	}

	// Index sets outlive their entries so a late invalidation still finds them.
	for _, idx := range []string{r.indexKey(organizationID), r.allKey()} {
		if err := r.store.SAdd(ctx, idx, entryKey); err != nil {
			r.logger.Warn("Failed to index cached results", zap.String("index", idx), zap.Error(err))
			continue
		}
		if err := r.store.Expire(ctx, idx, 2*r.ttl); err != nil {
			r.logger.Warn("Failed to expire cache index", zap.String("index", idx), zap.Error(err))
		}
	}
}

// InvalidateOrganization drops the organization's entries and all global entries.
func (r *Redis) InvalidateOrganization(ctx context.Context, organizationID string) error {
	return r.dropIndexes(ctx, r.indexKey(organizationID), r.indexKey(""))
}

// Flush drops every entry this cache has written.
func (r *Redis) Flush(ctx context.Context) error {
	return r.dropIndexes(ctx, r.allKey())
}

func (r *Redis) dropIndexes(ctx context.Context, indexes ...string) error {
	keys := append([]string(nil), indexes...)
	for _, idx := range indexes {
		members, err := r.store.SMembers(ctx, idx)
		if err != nil {
			return err
		}
		keys = append(keys, members...)
	}
	return r.store.Del(ctx, keys...)
}

func (r *Redis) entryKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return r.prefix + "entry:" + hex.EncodeToString(h[:])
}

func (r *Redis) indexKey(organizationID string) string {
	if organizationID == "" {
		organizationID = globalIndex
	}
	return r.prefix + "org:" + organizationID
}

func (r *Redis) allKey() string {
	return r.prefix + "all"
}
