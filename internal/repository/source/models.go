package source

import (
	"strings"
	"time"
)

// Base holds columns shared by every organization-owned record.
type Base struct {
	ID               string `gorm:"primaryKey;size:64"`
	OrganizationID   string `gorm:"size:64;index;not null"`
	OrganizationName string `gorm:"->;-:migration;column:organization_name"`
	CreatedAt        time.Time
	UpdatedAt        time.Time `gorm:"index"`
}

// SoftDelete marks records hidden from search once deleted.
type SoftDelete struct {
	DeletedAt *time.Time `gorm:"index"`
}

func (b *Base) project(title, description, category, url string) projection {
	return projection{
		ID:               b.ID,
		Title:            title,
		Description:      description,
		OrganizationID:   b.OrganizationID,
		OrganizationName: b.OrganizationName,
		Category:         category,
		URL:              url,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (b *Base) url(segment string) string {
	return "/organizations/" + b.OrganizationID + "/" + segment + "/" + b.ID
}

// Organization is a tenant.
type Organization struct {
	ID               string `gorm:"primaryKey;size:64"`
	Name             string `gorm:"size:255;not null"`
	Description      string
	OrganizationType string `gorm:"size:64"`
	Status           string `gorm:"size:32"`
	CreatedAt        time.Time
	UpdatedAt        time.Time `gorm:"index"`
	SoftDelete
}

func (Organization) TableName() string { return "organizations" }

func (o *Organization) fields() []field {
	return []field{
		{"name", 1.0, o.Name},
		{"organization_type", 0.6, o.OrganizationType},
		{"description", 0.4, o.Description},
		{"status", 0.2, o.Status},
	}
}

func (o *Organization) projection() projection {
	return projection{
		ID:               o.ID,
		Title:            o.Name,
		Description:      o.Description,
		OrganizationID:   o.ID,
		OrganizationName: o.Name,
		Category:         o.OrganizationType,
		URL:              "/organizations/" + o.ID,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// Contact is a person at an organization.
type Contact struct {
	Base
	FirstName string `gorm:"size:128"`
	LastName  string `gorm:"size:128"`
	Title     string `gorm:"size:128"`
	Email     string `gorm:"size:255"`
	Phone     string `gorm:"size:64"`
	Notes     string
	SoftDelete
}

func (Contact) TableName() string { return "contacts" }

func (c *Contact) fullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c *Contact) fields() []field {
	return []field{
		{"name", 1.0, c.fullName()},
		{"email", 0.6, c.Email},
		{"title", 0.5, c.Title},
		{"phone", 0.3, c.Phone},
		{"notes", 0.2, c.Notes},
	}
}

func (c *Contact) projection() projection {
	return c.project(c.fullName(), c.Title, "", c.url("contacts"))
}

// Location is a site or office.
type Location struct {
	Base
	Name     string `gorm:"size:255;not null"`
	Address1 string `gorm:"column:address_1;size:255"`
	City     string `gorm:"size:128"`
	Region   string `gorm:"size:128"`
	Country  string `gorm:"size:128"`
	Notes    string
	SoftDelete
}

func (Location) TableName() string { return "locations" }

func (l *Location) address() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{l.Address1, l.City, l.Region, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (l *Location) fields() []field {
	return []field{
		{"name", 1.0, l.Name},
		{"address", 0.5, l.address()},
		{"notes", 0.2, l.Notes},
	}
}

func (l *Location) projection() projection {
	return l.project(l.Name, l.address(), l.City, l.url("locations"))
}

// Document is a free-form knowledge base article.
type Document struct {
	Base
	Name    string `gorm:"size:255;not null"`
	Content string
	Folder  string `gorm:"size:255"`
	SoftDelete
}

func (Document) TableName() string { return "documents" }

func (d *Document) fields() []field {
	return []field{
		{"name", 1.0, d.Name},
		{"folder", 0.6, d.Folder},
		{"content", 0.4, d.Content},
	}
}

func (d *Document) projection() projection {
	return d.project(d.Name, "", d.Folder, d.url("documents"))
}

// Password is a stored credential. Only Name and Category are ever matched
// or projected; Username, Password, URL and Notes stay out of search output.
type Password struct {
	Base
	Name     string `gorm:"size:255;not null"`
	Username string `gorm:"size:255"`
	Password string
	URL      string `gorm:"size:1024"`
	Category string `gorm:"size:128"`
	Notes    string
	SoftDelete
}

func (Password) TableName() string { return "passwords" }

func (p *Password) fields() []field {
	return []field{
		{"name", 1.0, p.Name},
		{"category", 0.6, p.Category},
	}
}

func (p *Password) projection() projection {
	return p.project(p.Name, "", p.Category, p.url("passwords"))
}

// Configuration is a managed device or server.
type Configuration struct {
	Base
	Name              string `gorm:"size:255;not null"`
	ConfigurationType string `gorm:"size:128"`
	Hostname          string `gorm:"size:255"`
	IPAddress         string `gorm:"size:64"`
	SerialNumber      string `gorm:"size:128"`
	Notes             string
	SoftDelete
}

func (Configuration) TableName() string { return "configurations" }

func (c *Configuration) fields() []field {
	return []field{
		{"name", 1.0, c.Name},
		{"hostname", 0.8, c.Hostname},
		{"configuration_type", 0.6, c.ConfigurationType},
		{"ip_address", 0.6, c.IPAddress},
		{"serial_number", 0.5, c.SerialNumber},
		{"notes", 0.2, c.Notes},
	}
}

func (c *Configuration) projection() projection {
	return c.project(c.Name, c.Hostname, c.ConfigurationType, c.url("configurations"))
}

// Domain is a registered DNS domain.
type Domain struct {
	Base
	Name      string `gorm:"size:255;not null"`
	Registrar string `gorm:"size:255"`
	Notes     string
	ExpiresAt *time.Time
	SoftDelete
}

func (Domain) TableName() string { return "domains" }

func (d *Domain) fields() []field {
	return []field{
		{"name", 1.0, d.Name},
		{"registrar", 0.5, d.Registrar},
		{"notes", 0.2, d.Notes},
	}
}

func (d *Domain) projection() projection {
	return d.project(d.Name, expiry(d.ExpiresAt), d.Registrar, d.url("domains"))
}

// SslCertificate is a TLS certificate tracked for renewal.
type SslCertificate struct {
	Base
	CommonName string `gorm:"size:255;not null"`
	IssuedBy   string `gorm:"size:255"`
	Notes      string
	ExpiresAt  *time.Time
	SoftDelete
}

func (SslCertificate) TableName() string { return "ssl_certificates" }

func (s *SslCertificate) fields() []field {
	return []field{
		{"common_name", 1.0, s.CommonName},
		{"issued_by", 0.5, s.IssuedBy},
		{"notes", 0.2, s.Notes},
	}
}

func (s *SslCertificate) projection() projection {
	return s.project(s.CommonName, expiry(s.ExpiresAt), s.IssuedBy, s.url("ssl-certificates"))
}

// Asset is a tracked piece of hardware or software.
type Asset struct {
	Base
	Name         string `gorm:"size:255;not null"`
	AssetType    string `gorm:"size:128"`
	Manufacturer string `gorm:"size:128"`
	Model        string `gorm:"size:128"`
	SerialNumber string `gorm:"size:128"`
	Notes        string
	SoftDelete
}

func (Asset) TableName() string { return "assets" }

func (a *Asset) fields() []field {
	return []field{
		{"name", 1.0, a.Name},
		{"asset_type", 0.6, a.AssetType},
		{"model", 0.5, strings.TrimSpace(a.Manufacturer + " " + a.Model)},
		{"serial_number", 0.5, a.SerialNumber},
		{"notes", 0.2, a.Notes},
	}
}

func (a *Asset) projection() projection {
	return a.project(a.Name, strings.TrimSpace(a.Manufacturer+" "+a.Model), a.AssetType, a.url("assets"))
}

// SidebarItem is a custom navigation entry.
type SidebarItem struct {
	Base
	Name     string `gorm:"size:255;not null"`
	Slug     string `gorm:"size:255"`
	ItemType string `gorm:"size:64"`
}

func (SidebarItem) TableName() string { return "sidebar_items" }

func (s *SidebarItem) fields() []field {
	return []field{
		{"name", 1.0, s.Name},
		{"item_type", 0.6, s.ItemType},
		{"slug", 0.4, s.Slug},
	}
}

func (s *SidebarItem) projection() projection {
	return s.project(s.Name, "", s.ItemType, "/organizations/"+s.OrganizationID+"/pages/"+s.Slug)
}

// PageContent is the body of a custom page.
type PageContent struct {
	Base
	Title    string `gorm:"size:255"`
	Content  string
	PageSlug string `gorm:"size:255"`
}

func (PageContent) TableName() string { return "page_contents" }

func (p *PageContent) fields() []field {
	return []field{
		{"title", 1.0, p.Title},
		{"content", 0.4, p.Content},
	}
}

func (p *PageContent) projection() projection {
	return p.project(p.Title, "", "", "/organizations/"+p.OrganizationID+"/pages/"+p.PageSlug)
}

// Rfc is a request for change.
type Rfc struct {
	Base
	Title       string `gorm:"size:255;not null"`
	Description string
	Status      string `gorm:"size:32"`
	Priority    string `gorm:"size:32"`
}

func (Rfc) TableName() string { return "rfcs" }

func (r *Rfc) fields() []field {
	return []field{
		{"title", 1.0, r.Title},
		{"status", 0.6, r.Status},
		{"description", 0.4, r.Description},
	}
}

func (r *Rfc) projection() projection {
	return r.project(r.Title, r.Description, r.Status, r.url("rfcs"))
}

// KnownIssue is a documented problem with an optional workaround.
type KnownIssue struct {
	Base
	Title       string `gorm:"size:255;not null"`
	Description string
	Workaround  string
	Severity    string `gorm:"size:32"`
	Status      string `gorm:"size:32"`
}

func (KnownIssue) TableName() string { return "known_issues" }

func (k *KnownIssue) fields() []field {
	return []field{
		{"title", 1.0, k.Title},
		{"severity", 0.6, k.Severity},
		{"description", 0.4, k.Description},
		{"workaround", 0.3, k.Workaround},
	}
}

func (k *KnownIssue) projection() projection {
	return k.project(k.Title, k.Description, k.Severity, k.url("known-issues"))
}

// Warranty is vendor coverage for an asset.
type Warranty struct {
	Base
	ProductName  string `gorm:"size:255;not null"`
	Vendor       string `gorm:"size:255"`
	SerialNumber string `gorm:"size:128"`
	Notes        string
	ExpiryDate   *time.Time
}

func (Warranty) TableName() string { return "warranties" }

func (w *Warranty) fields() []field {
	return []field{
		{"product_name", 1.0, w.ProductName},
		{"vendor", 0.6, w.Vendor},
		{"serial_number", 0.5, w.SerialNumber},
		{"notes", 0.2, w.Notes},
	}
}

func (w *Warranty) projection() projection {
	return w.project(w.ProductName, expiry(w.ExpiryDate), w.Vendor, w.url("warranties"))
}

func expiry(t *time.Time) string {
	if t == nil {
		return ""
	}
	return "Expires " + t.Format("2006-01-02")
}

// Models lists every record model for schema migration.
func Models() []any {
	return []any{
		&Organization{}, &Contact{}, &Location{}, &Document{}, &Password{},
		&Configuration{}, &Domain{}, &SslCertificate{}, &Asset{}, &SidebarItem{},
		&PageContent{}, &Rfc{}, &KnownIssue{}, &Warranty{},
	}
}
