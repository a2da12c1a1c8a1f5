package search

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/match"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/request"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/result"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/scope"
	"github.com/EashcodeX/itglue-clone-sub001/internal/metrics"
)

// DefaultSourceTimeout bounds a single source call.
const DefaultSourceTimeout = 2 * time.Second

// Search outcomes, as reported in metrics.
const (
	outcomeOK          = "ok"
	outcomePartial     = "partial"
	outcomeUnavailable = "unavailable"
	outcomeCanceled    = "canceled"
)

// Config tunes the fan-out.
type Config struct {
	// SourceTimeout bounds each source call.
	SourceTimeout time.Duration
	// MaxConcurrency bounds source calls in flight across all searches.
	MaxConcurrency int
}

// Response is a ranked result list plus how it was produced.
type Response struct {
	Results []result.Result
	// Partial is set when some selected sources failed; Results holds the rest.
	Partial   bool
	Failed    []contenttype.ContentType
	FromCache bool
	Took      time.Duration
}

// Err reports a partial failure as domain.ErrPartialFailure, nil otherwise.
func (r Response) Err() error {
	if !r.Partial {
		return nil
	}
	return domain.NewPartialFailure(r.Failed)
}

// Service runs deep searches across every content type.
type Service struct {
	sources []Source // in contenttype.All order
	cache   Cache
	agg     *aggregator
	logger  *zap.Logger
}

// New creates a search service. Exactly one source per content type is required.
func New(sources []Source, cache Cache, cfg Config, logger *zap.Logger) (*Service, error) {
	byType := make(map[contenttype.ContentType]Source, len(sources))
	for _, src := range sources {
		ct := src.Type()
		if !ct.IsValid() {
			return nil, fmt.Errorf("source for unknown content type %q", ct)
		}
		if _, dup := byType[ct]; dup {
			return nil, fmt.Errorf("duplicate source for %s", ct)
		}
		byType[ct] = src
	}
	ordered := make([]Source, 0, len(byType))
	for _, ct := range contenttype.All() {
		src, ok := byType[ct]
		if !ok {
			return nil, fmt.Errorf("no source for %s", ct)
		}
		ordered = append(ordered, src)
	}

	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = DefaultSourceTimeout
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = max(runtime.NumCPU()*4, len(ordered))
	}
	agg, err := newAggregator(cfg.MaxConcurrency, cfg.SourceTimeout)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{sources: ordered, cache: cache, agg: agg, logger: logger}, nil
}

// Close releases the worker pool.
func (s *Service) Close() {
	s.agg.release()
}

// Search resolves the scope, serves from cache when possible, and otherwise
// queries the selected sources and ranks what they return.
// Partial failures are reported through Response.Err, not the returned error.
func (s *Service) Search(ctx context.Context, req *request.Request) (Response, error) {
	start := time.Now()

	sc, err := scope.Resolve(req.Scope())
	if err != nil {
		return Response{}, err
	}
	q := match.NewQuery(req.Query(), req.Fuzzy())
	if q.IsEmpty() {
		return Response{}, domain.ErrEmptyQuery
	}

	key := cacheKey(q, sc, req.ContentTypes(), req.Limit())
	tenant, _ := sc.TenantID()
	if cached, ok := s.cache.Get(ctx, key); ok {
		resp := Response{Results: cached, FromCache: true, Took: time.Since(start)}
		observeSearch(true, outcomeOK, resp.Took)
		return resp, nil
	}

	selected := s.selectSources(req.ContentTypes())
	g := s.agg.gather(ctx, selected, sc, q, req.Limit())

	if err := ctx.Err(); err != nil {
		observeSearch(false, outcomeCanceled, time.Since(start))
		return Response{}, err
	}
	if len(g.failed) > 0 && len(g.failed) == len(selected) {
		observeSearch(false, outcomeUnavailable, time.Since(start))
		return Response{Failed: g.failed}, fmt.Errorf("%w: %d sources failed", domain.ErrUnavailable, len(g.failed))
	}

	resp := Response{
		Results: match.Rank(g.results, q, req.Limit()),
		Partial: len(g.failed) > 0,
		Failed:  g.failed,
	}
	if resp.Results == nil {
		resp.Results = []result.Result{}
	}

	outcome := outcomeOK
	if resp.Partial {
		outcome = outcomePartial
		s.logger.Warn("Search degraded",
			zap.Int("failed_sources", len(g.failed)),
			zap.Int("results", len(resp.Results)),
		)
	} else {
		// A degraded list would hide recovered sources for a whole TTL.
		s.cache.Put(ctx, key, tenant, resp.Results)
	}
	resp.Took = time.Since(start)
	observeSearch(false, outcome, resp.Took)
	return resp, nil
}

// InvalidateOrganization drops cached searches that may contain the organization's records.
func (s *Service) InvalidateOrganization(ctx context.Context, organizationID string) error {
	if _, err := scope.ForOrganization(organizationID); err != nil {
		return err
	}
	if err := s.cache.InvalidateOrganization(ctx, organizationID); err != nil {
		return fmt.Errorf("invalidate cache: %w", err)
	}
	metrics.CacheInvalidationsTotal.WithLabelValues("local").Inc()
	return nil
}

// Flush drops every cached search.
func (s *Service) Flush(ctx context.Context) error {
	if err := s.cache.Flush(ctx); err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}
	metrics.CacheInvalidationsTotal.WithLabelValues("flush").Inc()
	return nil
}

func (s *Service) selectSources(types contenttype.Set) []Source {
	if types.IsEmpty() {
		return slices.Clone(s.sources)
	}
	out := make([]Source, 0, len(types.Members()))
	for _, src := range s.sources {
		if types.Contains(src.Type()) {
			out = append(out, src)
		}
	}
	return out
}

func observeSearch(cached bool, outcome string, took time.Duration) {
	metrics.SearchDuration.WithLabelValues(strconv.FormatBool(cached), outcome).Observe(took.Seconds())
}
