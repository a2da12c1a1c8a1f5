package resultcache

import (
	"context"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/result"
)

// Nop never stores anything. Used when caching is disabled.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) ([]result.Result, bool) { return nil, false }

// Put discards results.
func (Nop) Put(context.Context, string, string, []result.Result) {}

// InvalidateOrganization is a no-op.
func (Nop) InvalidateOrganization(context.Context, string) error { return nil }

// Flush is a no-op.
func (Nop) Flush(context.Context) error { return nil }
