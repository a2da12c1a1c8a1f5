package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/match"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/result"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/scope"
	"github.com/EashcodeX/itglue-clone-sub001/internal/logger"
	"github.com/EashcodeX/itglue-clone-sub001/internal/metrics"
)

// Source call outcomes, as reported in metrics.
const (
	statusOK      = "ok"
	statusError   = "error"
	statusTimeout = "timeout"
)

// gathered is the merged output of one fan-out.
type gathered struct {
	results []result.Result
	failed  []contenttype.ContentType
}

// aggregator fans a query out to sources on a shared bounded pool.
type aggregator struct {
	pool    *ants.Pool
	timeout time.Duration
}

func newAggregator(size int, timeout time.Duration) (*aggregator, error) {
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("create source pool: %w", err)
	}
	return &aggregator{pool: pool, timeout: timeout}, nil
}

func (a *aggregator) release() {
	a.pool.Release()
}

// gather calls every source and merges what they return. Failed sources
// contribute nothing and are listed in input order.
func (a *aggregator) gather(
	ctx context.Context, sources []Source, sc scope.Resolved, q match.Query, limit int,
) gathered {
	outs := make([][]result.Result, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			outs[i], errs[i] = a.call(ctx, src, sc, q, limit)
		}
		if err := a.pool.Submit(task); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit %s: %w", src.Type(), err)
		}
	}
	wg.Wait()

	var g gathered
	for i, src := range sources {
		if errs[i] != nil {
			g.failed = append(g.failed, src.Type())
			continue
		}
		g.results = append(g.results, outs[i]...)
	}
	return g
}

func (a *aggregator) call(
	ctx context.Context, src Source, sc scope.Resolved, q match.Query, limit int,
) ([]result.Result, error) {
	ct := src.Type()
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	results, err := src.FetchCandidates(ctx, sc, q, limit)
	metrics.SourceDuration.WithLabelValues(string(ct)).Observe(time.Since(start).Seconds())

	if err == nil {
		// A source that ignores its deadline still counts as failed.
		err = ctx.Err()
	}
	if err != nil {
		status := statusError
		if errors.Is(err, context.DeadlineExceeded) {
			status = statusTimeout
		}
		metrics.SourceRequestsTotal.WithLabelValues(string(ct), status).Inc()
		logger.FromContext(ctx).Warn("Source failed",
			zap.String("content_type", string(ct)),
			zap.String("status", status),
			zap.Error(err),
		)
		return nil, err
	}
	metrics.SourceRequestsTotal.WithLabelValues(string(ct), statusOK).Inc()
	return results, nil
}
