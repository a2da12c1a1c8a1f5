package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/scope"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("  site summary ", scope.Raw{}, contenttype.Set{}, 0, false, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "site summary" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", r.Limit(), DefaultLimit)
	}
	if !r.ContentTypes().IsEmpty() {
		t.Errorf("ContentTypes() = %v, want empty", r.ContentTypes())
	}
	if r.Fuzzy() {
		t.Error("Fuzzy() = true")
	}
}

func TestNew_ExplicitValues(t *testing.T) {
	types, _ := contenttype.NewSet(contenttype.Document)
	raw := scope.Raw{Kind: scope.Organization, OrganizationID: "org-1"}

	r, err := New("runbook", raw, types, 25, true, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != 25 {
		t.Errorf("Limit() = %d", r.Limit())
	}
	if !r.Fuzzy() {
		t.Error("Fuzzy() = false")
	}
	if r.Scope() != raw {
		t.Errorf("Scope() = %+v", r.Scope())
	}
	if !r.ContentTypes().Contains(contenttype.Document) || r.ContentTypes().Contains(contenttype.Contact) {
		t.Errorf("ContentTypes() = %v", r.ContentTypes())
	}
}

func TestNew_LimitClamped(t *testing.T) {
	r, err := New("q", scope.Raw{}, contenttype.Set{}, 10_000, false, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != 200 {
		t.Errorf("Limit() = %d, want 200", r.Limit())
	}

	r, _ = New("q", scope.Raw{}, contenttype.Set{}, 10_000, false, 0)
	if r.Limit() != MaxLimit {
		t.Errorf("Limit() = %d, want %d", r.Limit(), MaxLimit)
	}
}

func TestNew_EmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := New(q, scope.Raw{}, contenttype.Set{}, 10, false, 0)
		if !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("New(%q) err = %v, want ErrEmptyQuery", q, err)
		}
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("a", MaxQueryLength+1), scope.Raw{}, contenttype.Set{}, 10, false, 0)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestNew_QueryLengthCountsCharacters(t *testing.T) {
	// 600 three-byte runes: 1800 bytes, within the limit.
	if _, err := New(strings.Repeat("網", 600), scope.Raw{}, contenttype.Set{}, 10, false, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	_, err := New(strings.Repeat("網", MaxQueryLength+1), scope.Raw{}, contenttype.Set{}, 10, false, 0)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestNew_UnknownScope(t *testing.T) {
	_, err := New("q", scope.Raw{Kind: "tenant"}, contenttype.Set{}, 10, false, 0)
	if !errors.Is(err, domain.ErrInvalidScope) {
		t.Errorf("err = %v, want ErrInvalidScope", err)
	}
}
