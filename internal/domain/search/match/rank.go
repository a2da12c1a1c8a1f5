package match

import (
	"cmp"
	"slices"
	"strings"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/result"
)

// Rank sorts results best first and truncates to limit. Ties go to titles
// containing the whole query, then newer records, then title, type and id.
// The order is total, so truncating per source before merging keeps every
// result that would survive ranking the merged list.
func Rank(results []result.Result, q Query, limit int) []result.Result {
	phrase := strings.Join(q.Tokens, " ")
	exact := make([]bool, len(results))
	idx := make([]int, len(results))
	for i := range results {
		idx[i] = i
		exact[i] = phrase != "" && strings.Contains(NormalizeText(results[i].Title()), phrase)
	}
	slices.SortFunc(idx, func(i, j int) int {
		a, b := &results[i], &results[j]
		if c := cmp.Compare(b.Score(), a.Score()); c != 0 {
			return c
		}
		if exact[i] != exact[j] {
			if exact[i] {
				return -1
			}
			return 1
		}
		if c := compareUpdated(a, b); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Title(), b.Title()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Type(), b.Type()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})

	n := min(len(idx), max(limit, 0))
	out := make([]result.Result, n)
	for k := range n {
		out[k] = results[idx[k]]
	}
	return out
}

// compareUpdated puts newer records first and undated ones last.
func compareUpdated(a, b *result.Result) int {
	ta, tb := a.UpdatedAt(), b.UpdatedAt()
	switch {
	case ta == nil && tb == nil:
		return 0
	case ta == nil:
		return 1
	case tb == nil:
		return -1
	}
	return tb.Compare(*ta)
}
