package result

import (
	"testing"
	"time"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
)

func TestNew(t *testing.T) {
	updated := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r := New(Fields{
		ID:               "c-1",
		Type:             contenttype.Contact,
		Title:            "John Smith",
		Description:      "CTO",
		OrganizationID:   "org-1",
		OrganizationName: "Acme",
		Score:            87.5,
		MatchedFields:    []string{"first_name", "last_name"},
		MatchedText:      "John Smith",
		URL:              "/organizations/org-1/contacts/c-1",
		UpdatedAt:        &updated,
	})

	if r.ID() != "c-1" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Type() != contenttype.Contact {
		t.Errorf("Type() = %q", r.Type())
	}
	if r.Title() != "John Smith" {
		t.Errorf("Title() = %q", r.Title())
	}
	if r.OrganizationName() != "Acme" {
		t.Errorf("OrganizationName() = %q", r.OrganizationName())
	}
	if r.Score() != 87.5 {
		t.Errorf("Score() = %f", r.Score())
	}
	if got := r.MatchedFields(); len(got) != 2 || got[0] != "first_name" {
		t.Errorf("MatchedFields() = %v", got)
	}
	if r.CreatedAt() != nil {
		t.Errorf("CreatedAt() = %v, want nil", r.CreatedAt())
	}
	if r.UpdatedAt() == nil || !r.UpdatedAt().Equal(updated) {
		t.Errorf("UpdatedAt() = %v", r.UpdatedAt())
	}
}

func TestNew_ClampsScore(t *testing.T) {
	hi := New(Fields{Score: 250})
	if hi.Score() != MaxScore {
		t.Errorf("Score() = %f, want %f", hi.Score(), MaxScore)
	}
	lo := New(Fields{Score: -3})
	if lo.Score() != 0 {
		t.Errorf("Score() = %f, want 0", lo.Score())
	}
}

func TestNew_Immutable(t *testing.T) {
	fields := []string{"name"}
	ts := time.Now()
	r := New(Fields{MatchedFields: fields, UpdatedAt: &ts})

	fields[0] = "mutated"
	ts = ts.Add(time.Hour)

	if r.MatchedFields()[0] != "name" {
		t.Errorf("MatchedFields() changed through input slice")
	}
	if r.UpdatedAt().Equal(ts) {
		t.Errorf("UpdatedAt() changed through input pointer")
	}

	out := r.MatchedFields()
	out[0] = "again"
	if r.MatchedFields()[0] != "name" {
		t.Errorf("MatchedFields() changed through returned slice")
	}
}

func TestFields_RoundTrip(t *testing.T) {
	r := New(Fields{ID: "d-1", Type: contenttype.Document, Title: "Runbook", Score: 40})
	again := New(r.Fields())
	if again.ID() != r.ID() || again.Type() != r.Type() || again.Score() != r.Score() {
		t.Errorf("Fields() round trip mismatch: %+v", again.Fields())
	}
}
