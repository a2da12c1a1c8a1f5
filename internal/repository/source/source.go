package source

import (
	"context"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/match"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/result"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/scope"
)

// Source is the behaviour shared by every adapter.
type Source interface {
	Type() contenttype.ContentType
	FetchCandidates(ctx context.Context, sc scope.Resolved, q match.Query, limit int) ([]result.Result, error)
}

var tables = map[contenttype.ContentType]table{
	contenttype.Organization: {
		ctype: contenttype.Organization, name: "organizations", tenantColumn: "id", softDelete: true,
		prefilter: []string{"name", "description", "organization_type", "status"},
	},
	contenttype.Contact: {
		ctype: contenttype.Contact, name: "contacts", tenantColumn: "organization_id",
		softDelete: true, joinOrganization: true,
		prefilter: []string{"first_name", "last_name", "title", "email", "phone", "notes"},
	},
	contenttype.Location: {
		ctype: contenttype.Location, name: "locations", tenantColumn: "organization_id",
		softDelete: true, joinOrganization: true,
		prefilter: []string{"name", "address_1", "city", "region", "country", "notes"},
	},
	contenttype.Document: {
		ctype: contenttype.Document, name: "documents", tenantColumn: "organization_id",
		softDelete: true, joinOrganization: true,
		prefilter: []string{"name", "content", "folder"},
	},
	// Secret columns are never part of the prefilter either.
	contenttype.Password: {
		ctype: contenttype.Password, name: "passwords", tenantColumn: "organization_id",
		softDelete: true, joinOrganization: true,
		prefilter: []string{"name", "category"},
	},
	contenttype.Configuration: {
		ctype: contenttype.Configuration, name: "configurations", tenantColumn: "organization_id",
		softDelete: true, joinOrganization: true,
		prefilter: []string{"name", "configuration_type", "hostname", "ip_address", "serial_number", "notes"},
	},
	contenttype.Domain: {
		ctype: contenttype.Domain, name: "domains", tenantColumn: "organization_id",
		softDelete: true, joinOrganization: true,
		prefilter: []string{"name", "registrar", "notes"},
	},
	contenttype.SslCertificate: {
		ctype: contenttype.SslCertificate, name: "ssl_certificates", tenantColumn: "organization_id",
		softDelete: true, joinOrganization: true,
		prefilter: []string{"common_name", "issued_by", "notes"},
	},
	contenttype.Asset: {
		ctype: contenttype.Asset, name: "assets", tenantColumn: "organization_id",
		softDelete: true, joinOrganization: true,
		prefilter: []string{"name", "asset_type", "manufacturer", "model", "serial_number", "notes"},
	},
	contenttype.SidebarItem: {
		ctype: contenttype.SidebarItem, name: "sidebar_items", tenantColumn: "organization_id",
		joinOrganization: true,
		prefilter: []string{"name", "slug", "item_type"},
	},
	contenttype.PageContent: {
		ctype: contenttype.PageContent, name: "page_contents", tenantColumn: "organization_id",
		joinOrganization: true,
		prefilter: []string{"title", "content"},
	},
	contenttype.Rfc: {
		ctype: contenttype.Rfc, name: "rfcs", tenantColumn: "organization_id",
		joinOrganization: true,
		prefilter: []string{"title", "description", "status"},
	},
	contenttype.KnownIssue: {
		ctype: contenttype.KnownIssue, name: "known_issues", tenantColumn: "organization_id",
		joinOrganization: true,
		prefilter: []string{"title", "description", "workaround", "severity"},
	},
	contenttype.Warranty: {
		ctype: contenttype.Warranty, name: "warranties", tenantColumn: "organization_id",
		joinOrganization: true,
		prefilter: []string{"product_name", "vendor", "serial_number", "notes"},
	},
}

// All builds one adapter per content type, in contenttype.All order.
func All(f Finder, opts Options) []Source {
	out := make([]Source, 0, len(tables))
	for _, ct := range contenttype.All() {
		out = append(out, New(ct, f, opts))
	}
	return out
}

// New builds the adapter for ct. It panics on a content type without a table,
// which can only happen when the closed set grows without a matching model.
func New(ct contenttype.ContentType, f Finder, opts Options) Source {
	t, ok := tables[ct]
	if !ok {
		panic("source: no table for content type " + string(ct))
	}
	switch ct {
	case contenttype.Organization:
		return newAdapter[Organization](t, f, opts)
	case contenttype.Contact:
		return newAdapter[Contact](t, f, opts)
	case contenttype.Location:
		return newAdapter[Location](t, f, opts)
	case contenttype.Document:
		return newAdapter[Document](t, f, opts)
	case contenttype.Password:
		return newAdapter[Password](t, f, opts)
	case contenttype.Configuration:
		return newAdapter[Configuration](t, f, opts)
	case contenttype.Domain:
		return newAdapter[Domain](t, f, opts)
	case contenttype.SslCertificate:
		return newAdapter[SslCertificate](t, f, opts)
	case contenttype.Asset:
		return newAdapter[Asset](t, f, opts)
	case contenttype.SidebarItem:
		return newAdapter[SidebarItem](t, f, opts)
	case contenttype.PageContent:
		return newAdapter[PageContent](t, f, opts)
	case contenttype.Rfc:
		return newAdapter[Rfc](t, f, opts)
	case contenttype.KnownIssue:
		return newAdapter[KnownIssue](t, f, opts)
	case contenttype.Warranty:
		return newAdapter[Warranty](t, f, opts)
	}
	panic("source: no model for content type " + string(ct))
}
