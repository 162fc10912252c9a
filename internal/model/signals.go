package model

import (
	"encoding/json"
	"slices"
)

// SiteSignals is the aggregate signal set for one site. Presence flags for
// title, description, favicon and schema come from the representative (first
// fetched) page; counts aggregate across every fetched page. Booleans that
// depend on a count are methods, never stored.
type SiteSignals struct {
	URL string `json:"url"`

	HasTitle       bool `json:"has_title"`
	HasDescription bool `json:"has_description"`
	HasFavicon     bool `json:"has_favicon"`
	HasHTTPS       bool `json:"has_https"`
	HasViewport    bool `json:"is_mobile_friendly"`

	SchemaCount int      `json:"schema_count"`
	SchemaTypes []string `json:"schema_types"`
	JSONLDPages int      `json:"jsonld_pages"`

	AuthorCount  int      `json:"author_count"`
	AuthorNames  []string `json:"author_names"`
	HasAboutPage bool     `json:"has_about_page"`
	HasContact   bool     `json:"has_contact"`

	SocialLinksCount int      `json:"social_links_count"`
	SocialPlatforms  []string `json:"social_platforms"`

	OutboundLinksCount  int      `json:"outbound_links_count"`
	ExternalLinksCount  int      `json:"external_links_count"`
	AuthorityLinksCount int      `json:"authority_links_count"`
	AuthorityDomains    []string `json:"authority_domains"`

	PageLoadTime *float64 `json:"page_load_time"`

	PageCount           int  `json:"page_count"`
	TitlesMissing       int  `json:"titles_missing"`
	DescriptionsMissing int  `json:"descriptions_missing"`
	SitemapFound        bool `json:"sitemap_found"`
}

// HasSocialProof reports whether any social-platform link was found.
func (s SiteSignals) HasSocialProof() bool { return s.SocialLinksCount > 0 }

// HasAuthor reports whether any author name was found.
func (s SiteSignals) HasAuthor() bool { return s.AuthorCount > 0 }

// HasAuthorityLinks reports whether any link points at an authority domain.
func (s SiteSignals) HasAuthorityLinks() bool { return s.AuthorityLinksCount > 0 }

// HasSchema reports whether the representative page carries schema objects.
func (s SiteSignals) HasSchema() bool { return s.SchemaCount > 0 }

// HasStructuredData reports whether any fetched page embeds JSON-LD.
func (s SiteSignals) HasStructuredData() bool { return s.JSONLDPages > 0 }

// SchemaDiversity is the number of distinct schema types on the representative page.
func (s SiteSignals) SchemaDiversity() int { return len(s.SchemaTypes) }

// HasSchemaType reports whether t is among the representative page's schema types.
func (s SiteSignals) HasSchemaType(t string) bool { return slices.Contains(s.SchemaTypes, t) }

func (s SiteSignals) HasOrganization() bool { return s.HasSchemaType("Organization") }
func (s SiteSignals) HasPerson() bool       { return s.HasSchemaType("Person") }
func (s SiteSignals) HasWebSite() bool      { return s.HasSchemaType("WebSite") }

// HasArticle covers the Article family of schema types.
func (s SiteSignals) HasArticle() bool {
	return s.HasSchemaType("Article") || s.HasSchemaType("NewsArticle") || s.HasSchemaType("BlogPosting")
}

// MarshalJSON emits the stored fields plus every derived boolean.
func (s SiteSignals) MarshalJSON() ([]byte, error) {
	type alias SiteSignals
	return json.Marshal(struct {
		alias
		HasSocialProof    bool `json:"has_social_proof"`
		HasAuthor         bool `json:"has_author"`
		HasAuthorityLinks bool `json:"has_authority_links"`
		HasSchema         bool `json:"has_schema"`
		HasJSONLD         bool `json:"has_jsonld"`
		SchemaDiversity   int  `json:"schema_diversity"`
		HasOrganization   bool `json:"has_organization"`
		HasPerson         bool `json:"has_person"`
		HasWebSite        bool `json:"has_website"`
		HasArticle        bool `json:"has_article"`
	}{
		alias:             alias(s),
		HasSocialProof:    s.HasSocialProof(),
		HasAuthor:         s.HasAuthor(),
		HasAuthorityLinks: s.HasAuthorityLinks(),
		HasSchema:         s.HasSchema(),
		HasJSONLD:         s.HasStructuredData(),
		SchemaDiversity:   s.SchemaDiversity(),
		HasOrganization:   s.HasOrganization(),
		HasPerson:         s.HasPerson(),
		HasWebSite:        s.HasWebSite(),
		HasArticle:        s.HasArticle(),
	})
}
