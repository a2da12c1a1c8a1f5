package search

import (
	"context"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/match"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/result"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/scope"
)

// Source searches records of a single content type.
type Source interface {
	Type() contenttype.ContentType
	FetchCandidates(ctx context.Context, sc scope.Resolved, q match.Query, limit int) ([]result.Result, error)
}

// Cache stores ranked result lists between identical searches.
// Implementations treat their own failures as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]result.Result, bool)
	Put(ctx context.Context, key, organizationID string, results []result.Result)
	InvalidateOrganization(ctx context.Context, organizationID string) error
	Flush(ctx context.Context) error
}
