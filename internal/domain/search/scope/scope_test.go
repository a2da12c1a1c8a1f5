package scope

import (
	"errors"
	"testing"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		raw        Raw
		wantTenant string
		wantErr    error
	}{
		{name: "zero value is global", raw: Raw{}},
		{name: "global", raw: Raw{Kind: Global}},
		{name: "organization", raw: Raw{Kind: Organization, OrganizationID: "org-1"}, wantTenant: "org-1"},
		{name: "organization id trimmed", raw: Raw{Kind: Organization, OrganizationID: " org-1 "}, wantTenant: "org-1"},
		{name: "organization missing id", raw: Raw{Kind: Organization}, wantErr: domain.ErrInvalidScope},
		{name: "organization blank id", raw: Raw{Kind: Organization, OrganizationID: "  "}, wantErr: domain.ErrInvalidScope},
		{name: "global with id", raw: Raw{Kind: Global, OrganizationID: "org-1"}, wantErr: domain.ErrInvalidScope},
		{name: "unknown kind", raw: Raw{Kind: "tenant"}, wantErr: domain.ErrInvalidScope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			id, ok := got.TenantID()
			if id != tt.wantTenant || ok != (tt.wantTenant != "") {
				t.Errorf("TenantID() = (%q, %v), want %q", id, ok, tt.wantTenant)
			}
		})
	}
}

func TestResolved_Allows(t *testing.T) {
	global, _ := Resolve(Raw{})
	if !global.Allows("org-1") || !global.Allows("org-2") {
		t.Error("global scope should allow every organization")
	}
	if global.Kind() != Global {
		t.Errorf("Kind() = %q", global.Kind())
	}

	org, _ := ForOrganization("org-1")
	if !org.Allows("org-1") {
		t.Error("org scope should allow its own organization")
	}
	if org.Allows("org-2") {
		t.Error("org scope must not allow another organization")
	}
	if org.Kind() != Organization {
		t.Errorf("Kind() = %q", org.Kind())
	}
}
