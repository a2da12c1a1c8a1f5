package contenttype

import (
	"fmt"
	"slices"
	"strings"
)

// ContentType identifies a searchable record type. The set is closed: every member
// is served by exactly one source adapter.
type ContentType string

// Content type constants.
const (
	Organization   ContentType = "organization"
	Contact        ContentType = "contact"
	Location       ContentType = "location"
	Document       ContentType = "document"
	Password       ContentType = "password"
	Configuration  ContentType = "configuration"
	Domain         ContentType = "domain"
	SslCertificate ContentType = "ssl_certificate"
	Asset          ContentType = "asset"
	SidebarItem    ContentType = "sidebar_item"
	PageContent    ContentType = "page_content"
	Rfc            ContentType = "rfc"
	KnownIssue     ContentType = "known_issue"
	Warranty       ContentType = "warranty"
)

var all = []ContentType{
	Organization, Contact, Location, Document, Password, Configuration, Domain,
	SslCertificate, Asset, SidebarItem, PageContent, Rfc, KnownIssue, Warranty,
}

// All returns every content type in declaration order.
func All() []ContentType {
	return slices.Clone(all)
}

// IsValid checks if the content type is a member of the closed set.
func (c ContentType) IsValid() bool {
	return slices.Contains(all, c)
}

// Parse converts a name (case-insensitive) into a ContentType.
func Parse(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !ct.IsValid() {
		return "", fmt.Errorf("unknown content type %q", s)
	}
	return ct, nil
}

// Set is an immutable, de-duplicated set of content types. The zero value is empty,
// which callers treat as "all types".
type Set struct {
	members []ContentType
}

// NewSet builds a set, rejecting unknown members and dropping duplicates.
func NewSet(types ...ContentType) (Set, error) {
	seen := make(map[ContentType]struct{}, len(types))
	members := make([]ContentType, 0, len(types))
	for _, ct := range types {
		if !ct.IsValid() {
			return Set{}, fmt.Errorf("unknown content type %q", ct)
		}
		if _, dup := seen[ct]; dup {
			continue
		}
		seen[ct] = struct{}{}
		members = append(members, ct)
	}
	slices.Sort(members)
	return Set{members: members}, nil
}

// ParseSet parses names like "contact,document" into a set.
func ParseSet(names []string) (Set, error) {
	types := make([]ContentType, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		ct, err := Parse(n)
		if err != nil {
			return Set{}, err
		}
		types = append(types, ct)
	}
	return NewSet(types...)
}

// IsEmpty reports whether no filter is set.
func (s Set) IsEmpty() bool { return len(s.members) == 0 }

// Contains reports whether ct passes the filter. An empty set admits everything.
func (s Set) Contains(ct ContentType) bool {
	if s.IsEmpty() {
		return true
	}
	_, found := slices.BinarySearch(s.members, ct)
	return found
}

// Members returns the sorted members.
func (s Set) Members() []ContentType { return slices.Clone(s.members) }

// String renders the sorted members joined by commas.
func (s Set) String() string {
	names := make([]string, len(s.members))
	for i, ct := range s.members {
		names[i] = string(ct)
	}
	return strings.Join(names, ",")
}
