package resultcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/EashcodeX/itglue-clone-sub001/internal/db"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/result"
)

// --- Fakes ---

type fakeStore struct {
	mu      sync.Mutex
	kv      map[string][]byte
	sets    map[string]map[string]struct{}
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	sAddErr error
	msgs    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		kv:   make(map[string][]byte),
		sets: make(map[string]map[string]struct{}),
		ttls: make(map[string]time.Duration),
	}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.kv[key]
	if !ok {
		return nil, &db.Error{Op: db.OpGet, Err: db.ErrKeyNotFound}
	}
	return v, nil
}

func (f *fakeStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.kv[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.kv, k)
		delete(f.sets, k)
	}
	return nil
}

func (f *fakeStore) SAdd(_ context.Context, key string, members ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sAddErr != nil {
		return f.sAddErr
	}
	s, ok := f.sets[key]
	if !ok {
		s = make(map[string]struct{})
		f.sets[key] = s
	}
	for _, m := range members {
		s[m] = struct{}{}
	}
	return nil
}

func (f *fakeStore) SMembers(_ context.Context, key string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sets[key]))
	for m := range f.sets[key] {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) Publish(_ context.Context, _, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, message)
	return nil
}

func (f *fakeStore) entries() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.kv)
}

func (f *fakeStore) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.msgs...)
}

// --- Helpers ---

func results(ids ...string) []result.Result {
	updated := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]result.Result, len(ids))
	for i, id := range ids {
		out[i] = result.New(result.Fields{
			ID:               id,
			Type:             contenttype.Document,
			Title:            "Doc " + id,
			OrganizationID:   "org-1",
			OrganizationName: "Acme",
			Score:            90,
			MatchedFields:    []string{"name"},
			MatchedText:      "Doc " + id,
			URL:              "/organizations/org-1/documents/" + id,
			UpdatedAt:        &updated,
		})
	}
	return out
}

func resultIDs(rs []result.Result) []string {
	out := make([]string, len(rs))
	for i := range rs {
		out[i] = rs[i].ID()
	}
	return out
}

func newCacheVec() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"tier", "result"})
}

func counter(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	return testutil.ToFloat64(vec.WithLabelValues(labels...))
}

func newInvalidationVec() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_invalidations_total"}, []string{"origin"})
}
