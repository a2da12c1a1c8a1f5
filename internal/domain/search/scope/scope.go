package scope

import (
	"fmt"
	"strings"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain"
)

// Kind is the breadth of a search.
type Kind string

// Scope kinds.
const (
	Global       Kind = "global"
	Organization Kind = "organization"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == Global || k == Organization
}

// Raw is an unvalidated scope as supplied by a caller.
type Raw struct {
	Kind           Kind
	OrganizationID string
}

// Resolved is the tenant constraint every source adapter must apply.
// A zero tenant means the search spans all organizations.
type Resolved struct {
	tenantID string
}

// Resolve validates a raw scope. It performs no data access.
// An empty kind is treated as global.
func Resolve(raw Raw) (Resolved, error) {
	orgID := strings.TrimSpace(raw.OrganizationID)
	kind := raw.Kind
	if kind == "" {
		kind = Global
	}

	switch kind {
	case Global:
		if orgID != "" {
			return Resolved{}, fmt.Errorf("%w: organization id %q given for global scope", domain.ErrInvalidScope, orgID)
		}
		return Resolved{}, nil
	case Organization:
		if orgID == "" {
			return Resolved{}, fmt.Errorf("%w: organization scope requires an organization id", domain.ErrInvalidScope)
		}
		return Resolved{tenantID: orgID}, nil
	default:
		return Resolved{}, fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidScope, raw.Kind)
	}
}

// ForOrganization is a shorthand for an already-trusted organization id.
func ForOrganization(orgID string) (Resolved, error) {
	return Resolve(Raw{Kind: Organization, OrganizationID: orgID})
}

// TenantID returns the organization constraint and whether one applies.
func (r Resolved) TenantID() (string, bool) {
	return r.tenantID, r.tenantID != ""
}

// IsGlobal reports whether no tenant constraint applies.
func (r Resolved) IsGlobal() bool { return r.tenantID == "" }

// Kind returns the scope kind.
func (r Resolved) Kind() Kind {
	if r.IsGlobal() {
		return Global
	}
	return Organization
}

// Allows reports whether a record owned by orgID is inside the boundary.
func (r Resolved) Allows(orgID string) bool {
	return r.IsGlobal() || r.tenantID == orgID
}
