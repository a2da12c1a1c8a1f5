package chi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/request"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/result"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/scope"
	searchuc "github.com/EashcodeX/itglue-clone-sub001/internal/usecase/search"
)

// searchParams is the bound query string of GET /search.
type searchParams struct {
	Query          string   `validate:"max=1000"`
	Scope          string   `validate:"omitempty,oneof=global organization"`
	OrganizationID string   `validate:"omitempty,max=64,printascii"`
	Types          []string `validate:"max=14,dive,required"`
	Limit          int      `validate:"gte=0"`
	Fuzzy          *bool
}

// parseSearchParams reads q, scope, organization_id, types, limit and fuzzy.
// types may be repeated or comma-separated.
func parseSearchParams(v url.Values) (searchParams, error) {
	p := searchParams{
		Query:          v.Get("q"),
		Scope:          strings.ToLower(strings.TrimSpace(v.Get("scope"))),
		OrganizationID: strings.TrimSpace(v.Get("organization_id")),
	}
	for _, raw := range v["types"] {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				p.Types = append(p.Types, t)
			}
		}
	}
	if raw := v.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return searchParams{}, fmt.Errorf("limit must be an integer, got %q", raw)
		}
		p.Limit = n
	}
	if raw := v.Get("fuzzy"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return searchParams{}, fmt.Errorf("fuzzy must be a boolean, got %q", raw)
		}
		p.Fuzzy = &b
	}
	return p, nil
}

func (p searchParams) toRequest(opts Options) (request.Request, error) {
	types, err := contenttype.ParseSet(p.Types)
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	kind := scope.Kind(p.Scope)
	if kind == "" && p.OrganizationID != "" {
		kind = scope.Organization
	}
	limit := p.Limit
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	fuzzy := opts.Fuzzy
	if p.Fuzzy != nil {
		fuzzy = *p.Fuzzy
	}
	return request.New(
		p.Query,
		scope.Raw{Kind: kind, OrganizationID: p.OrganizationID},
		types,
		limit,
		fuzzy,
		opts.MaxLimit,
	)
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Results       []SearchResultItem `json:"results"`
	Total         int                `json:"total"`
	Partial       bool               `json:"partial"`
	FailedSources []string           `json:"failed_sources,omitempty"`
	Cached        bool               `json:"cached"`
	TookMs        int64              `json:"took_ms"`
}

// SearchResultItem is one ranked record.
type SearchResultItem struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	OrganizationID   string     `json:"organization_id"`
	OrganizationName string     `json:"organization_name,omitempty"`
	Category         string     `json:"category,omitempty"`
	Score            float64    `json:"score"`
	MatchedFields    []string   `json:"matched_fields"`
	MatchedText      string     `json:"matched_text,omitempty"`
	URL              string     `json:"url"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func searchResponseFrom(resp searchuc.Response) SearchResponse {
	items := make([]SearchResultItem, len(resp.Results))
	for i := range resp.Results {
		items[i] = searchResultItemFrom(&resp.Results[i])
	}
	out := SearchResponse{
		Results: items,
		Total:   len(items),
		Partial: resp.Partial,
		Cached:  resp.FromCache,
		TookMs:  resp.Took.Milliseconds(),
	}
	for _, ct := range resp.Failed {
		out.FailedSources = append(out.FailedSources, string(ct))
	}
	return out
}

func searchResultItemFrom(r *result.Result) SearchResultItem {
	matched := r.MatchedFields()
	if matched == nil {
		matched = []string{}
	}
	return SearchResultItem{
		ID:               r.ID(),
		Type:             string(r.Type()),
		Title:            r.Title(),
		Description:      r.Description(),
		OrganizationID:   r.OrganizationID(),
		OrganizationName: r.OrganizationName(),
		Category:         r.Category(),
		Score:            r.Score(),
		MatchedFields:    matched,
		MatchedText:      r.MatchedText(),
		URL:              r.URL(),
		CreatedAt:        r.CreatedAt(),
		UpdatedAt:        r.UpdatedAt(),
	}
}
