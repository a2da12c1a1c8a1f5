package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/scope"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 1000
	DefaultLimit   = 100
	MaxLimit       = 500
)

// Request is a validated deep search query.
type Request struct {
	query        string
	scope        scope.Raw
	contentTypes contenttype.Set
	limit        int
	fuzzy        bool
}

// New validates and normalizes search parameters.
// A non-positive limit becomes DefaultLimit; limits above maxLimit are clamped.
// Scope validation is left to scope.Resolve so that the facade reports ErrInvalidScope.
func New(
	query string,
	raw scope.Raw,
	contentTypes contenttype.Set,
	limit int,
	fuzzy bool,
	maxLimit int,
) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, domain.ErrEmptyQuery
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if raw.Kind != "" && !raw.Kind.IsValid() {
		return Request{}, fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidScope, raw.Kind)
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return Request{
		query:        query,
		scope:        raw,
		contentTypes: contentTypes,
		limit:        limit,
		fuzzy:        fuzzy,
	}, nil
}

// Query returns the trimmed query text.
func (r *Request) Query() string { return r.query }

// Scope returns the unresolved scope.
func (r *Request) Scope() scope.Raw { return r.scope }

// ContentTypes returns the content-type filter; empty means all types.
func (r *Request) ContentTypes() contenttype.Set { return r.contentTypes }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }

// Fuzzy reports whether approximate matching is enabled.
func (r *Request) Fuzzy() bool { return r.fuzzy }
