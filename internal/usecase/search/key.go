package search

import (
	"strconv"
	"strings"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/match"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/scope"
)

// cacheKey identifies a search by everything that changes its outcome.
// Queries that normalize to the same tokens share an entry.
func cacheKey(q match.Query, sc scope.Resolved, types contenttype.Set, limit int) string {
	tenant, _ := sc.TenantID()
	return strings.Join([]string{
		strings.Join(q.Tokens, " "),
		string(sc.Kind()),
		tenant,
		types.String(),
		strconv.FormatBool(q.Fuzzy),
		strconv.Itoa(limit),
	}, "|")
}
