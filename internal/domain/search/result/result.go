package result

import (
	"slices"
	"time"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
)

// MaxScore is the upper bound of a relevance score.
const MaxScore = 100.0

// Fields holds the raw values for a Result.
type Fields struct {
	ID               string
	Type             contenttype.ContentType
	Title            string
	Description      string
	OrganizationID   string
	OrganizationName string
	Category         string
	Score            float64
	MatchedFields    []string
	MatchedText      string
	URL              string
	CreatedAt        *time.Time
	UpdatedAt        *time.Time
}

// Result is a single deep search hit, projected from any content type.
type Result struct {
	id               string
	ctype            contenttype.ContentType
	title            string
	description      string
	organizationID   string
	organizationName string
	category         string
	score            float64
	matchedFields    []string
	matchedText      string
	url              string
	createdAt        *time.Time
	updatedAt        *time.Time
}

// New creates a search result. The score is clamped to [0, MaxScore] and
// slices/timestamps are copied so the result cannot be mutated through f.
func New(f Fields) Result {
	score := f.Score
	switch {
	case score < 0:
		score = 0
	case score > MaxScore:
		score = MaxScore
	}
	return Result{
		id:               f.ID,
		ctype:            f.Type,
		title:            f.Title,
		description:      f.Description,
		organizationID:   f.OrganizationID,
		organizationName: f.OrganizationName,
		category:         f.Category,
		score:            score,
		matchedFields:    slices.Clone(f.MatchedFields),
		matchedText:      f.MatchedText,
		url:              f.URL,
		createdAt:        cloneTime(f.CreatedAt),
		updatedAt:        cloneTime(f.UpdatedAt),
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// ID returns the record identifier within its type.
func (r *Result) ID() string { return r.id }

// Type returns the content type discriminant.
func (r *Result) Type() contenttype.ContentType { return r.ctype }

// Title returns the primary display text.
func (r *Result) Title() string { return r.title }

// Description returns the secondary display text.
func (r *Result) Description() string { return r.description }

// OrganizationID returns the owning tenant.
func (r *Result) OrganizationID() string { return r.organizationID }

// OrganizationName returns the owning tenant's display name.
func (r *Result) OrganizationName() string { return r.organizationName }

// Category returns the record category, if any.
func (r *Result) Category() string { return r.category }

// Score returns the relevance score in [0, 100].
func (r *Result) Score() float64 { return r.score }

// MatchedFields returns the fields that contributed, strongest first.
func (r *Result) MatchedFields() []string { return slices.Clone(r.matchedFields) }

// MatchedText returns the highlighted snippet.
func (r *Result) MatchedText() string { return r.matchedText }

// URL returns the deep link.
func (r *Result) URL() string { return r.url }

// CreatedAt returns the creation time, if known.
func (r *Result) CreatedAt() *time.Time { return cloneTime(r.createdAt) }

// UpdatedAt returns the last modification time, if known.
func (r *Result) UpdatedAt() *time.Time { return cloneTime(r.updatedAt) }

// Fields returns a copy of the raw values.
func (r *Result) Fields() Fields {
	return Fields{
		ID:               r.id,
		Type:             r.ctype,
		Title:            r.title,
		Description:      r.description,
		OrganizationID:   r.organizationID,
		OrganizationName: r.organizationName,
		Category:         r.category,
		Score:            r.score,
		MatchedFields:    slices.Clone(r.matchedFields),
		MatchedText:      r.matchedText,
		URL:              r.url,
		CreatedAt:        cloneTime(r.createdAt),
		UpdatedAt:        cloneTime(r.updatedAt),
	}
}
