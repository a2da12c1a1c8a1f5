package source

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/EashcodeX/itglue-clone-sub001/internal/db"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/match"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/result"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/scope"
)

// Finder is the subset of the record store adapters need.
type Finder interface {
	FindRows(ctx context.Context, q db.RowQuery, dest any) error
}

// field is one searchable column with its relative weight.
type field struct {
	name   string
	weight float64
	text   string
}

// projection is the display part of a result, before scoring.
type projection struct {
	ID               string
	Title            string
	Description      string
	OrganizationID   string
	OrganizationName string
	Category         string
	URL              string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// record is implemented by pointers to the models.
type record[T any] interface {
	*T
	fields() []field
	projection() projection
}

// table describes where a content type lives in the record store.
type table struct {
	ctype            contenttype.ContentType
	name             string
	tenantColumn     string
	softDelete       bool
	joinOrganization bool
	// prefilter lists the columns for the exact-mode LIKE prefilter.
	prefilter []string
}

// Options tune candidate fetching and scoring.
type Options struct {
	Matcher match.Matcher
	// ScanLimit bounds rows read per search; fuzzy mode scores the newest ScanLimit rows.
	ScanLimit    int
	SnippetWidth int
}

const defaultScanLimit = 500

func (o Options) withDefaults() Options {
	if o.Matcher == (match.Matcher{}) {
		o.Matcher = match.NewMatcher(0, 0)
	}
	if o.ScanLimit <= 0 {
		o.ScanLimit = defaultScanLimit
	}
	if o.SnippetWidth <= 0 {
		o.SnippetWidth = match.DefaultSnippetWidth
	}
	return o
}

// Adapter searches one content type.
type Adapter[T any, P record[T]] struct {
	table  table
	finder Finder
	opts   Options
}

func newAdapter[T any, P record[T]](t table, f Finder, opts Options) *Adapter[T, P] {
	return &Adapter[T, P]{table: t, finder: f, opts: opts.withDefaults()}
}

// Type returns the content type this adapter serves.
func (a *Adapter[T, P]) Type() contenttype.ContentType { return a.table.ctype }

// FetchCandidates returns at most limit scored results inside sc, best first.
// Only storage failures are returned as errors.
func (a *Adapter[T, P]) FetchCandidates(
	ctx context.Context, sc scope.Resolved, q match.Query, limit int,
) ([]result.Result, error) {
	if q.IsEmpty() || limit <= 0 {
		return nil, nil
	}

	rows, err := a.fetch(ctx, sc, q, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", a.table.ctype, err)
	}

	out := make([]result.Result, 0, min(len(rows), limit))
	for i := range rows {
		rec := P(&rows[i])
		r, ok := a.score(rec, q)
		if !ok {
			continue
		}
		// Storage already filtered by tenant; this guards against a broken query.
		if !sc.Allows(r.OrganizationID()) {
			continue
		}
		out = append(out, r)
	}

	// Same total order as the merge, so the cut never drops a tie winner.
	return match.Rank(out, q, limit), nil
}

// fetch reads the candidate rows, deduplicated, through up to three bounded queries:
// rows containing the query's longest run (everything an exact match can hit),
// rows sharing a word prefix with the query (stored diacritics, typos past the
// prefix), and in fuzzy mode the newest rows regardless of text.
func (a *Adapter[T, P]) fetch(ctx context.Context, sc scope.Resolved, q match.Query, limit int) ([]T, error) {
	base := db.RowQuery{
		Table:              a.table.name,
		TenantColumn:       a.table.tenantColumn,
		SoftDelete:         a.table.softDelete,
		JoinOrganization:   a.table.joinOrganization,
		OrganizationColumn: "organization_id",
		Limit:              max(a.opts.ScanLimit, limit),
	}
	if tenant, ok := sc.TenantID(); ok {
		base.TenantID = tenant
	}

	var (
		rows []T
		seen = make(map[string]struct{})
	)
	for _, rq := range a.plan(base, q) {
		var batch []T
		if err := a.finder.FindRows(ctx, rq, &batch); err != nil {
			return nil, err
		}
		for i := range batch {
			id := P(&batch[i]).projection().ID
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			rows = append(rows, batch[i])
		}
	}
	return rows, nil
}

func (a *Adapter[T, P]) plan(base db.RowQuery, q match.Query) []db.RowQuery {
	longest := q.Longest()
	if longest == "" || len(a.table.prefilter) == 0 {
		return []db.RowQuery{base}
	}

	exact := base
	exact.Terms = []string{longest}
	exact.Columns = a.table.prefilter
	plan := []db.RowQuery{exact}

	if prefixes := q.Prefixes(); !slices.Equal(prefixes, exact.Terms) {
		broad := base
		broad.Terms = prefixes
		broad.Columns = a.table.prefilter
		plan = append(plan, broad)
	}
	if q.Fuzzy {
		plan = append(plan, base)
	}
	return plan
}

type fieldScore struct {
	name         string
	contribution float64
	score        float64
	candidate    match.Candidate
	word         int
}

// score combines field scores as a weighted average over non-empty fields.
func (a *Adapter[T, P]) score(rec P, q match.Query) (result.Result, bool) {
	var (
		scores      []fieldScore
		sum, weight float64
	)
	for _, f := range rec.fields() {
		c := match.Prepare(f.text)
		if c.IsEmpty() {
			continue
		}
		weight += f.weight
		m := a.opts.Matcher.Match(q, c)
		if !m.Hit() {
			continue
		}
		contribution := m.Score * f.weight
		sum += contribution
		scores = append(scores, fieldScore{
			name: f.name, contribution: contribution, score: m.Score, candidate: c, word: m.Word,
		})
	}
	if sum == 0 || weight == 0 {
		return result.Result{}, false
	}

	slices.SortStableFunc(scores, func(x, y fieldScore) int {
		return cmp.Compare(y.contribution, x.contribution)
	})

	matched := make([]string, 0, len(scores))
	for _, s := range scores {
		if s.score >= a.opts.Matcher.Floor() {
			matched = append(matched, s.name)
		}
	}

	top := scores[0]
	p := rec.projection()
	return result.New(result.Fields{
		ID:               p.ID,
		Type:             a.table.ctype,
		Title:            p.Title,
		Description:      p.Description,
		OrganizationID:   p.OrganizationID,
		OrganizationName: p.OrganizationName,
		Category:         p.Category,
		Score:            sum / weight * result.MaxScore,
		MatchedFields:    matched,
		MatchedText:      top.candidate.Snippet(top.word, a.opts.SnippetWidth),
		URL:              p.URL,
		CreatedAt:        timePtr(p.CreatedAt),
		UpdatedAt:        timePtr(p.UpdatedAt),
	}), true
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
