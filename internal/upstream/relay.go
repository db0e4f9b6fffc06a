package upstream

import (
	"net/url"
	"strings"
)

// Endpoint is a named eCFR API path.
type Endpoint struct {
	Name string
	Path string
}

var (
	Agencies = Endpoint{Name: "agencies", Path: "/api/admin/v1/agencies"}
	Count    = Endpoint{Name: "count", Path: "/api/search/v1/count"}
	Daily    = Endpoint{Name: "daily", Path: "/api/search/v1/counts/daily"}
	Titles   = Endpoint{Name: "titles", Path: "/api/search/v1/counts/titles"}
)

// SearchEndpoints are the search variants sharing BuildSearchURL.
var SearchEndpoints = []Endpoint{Count, Daily, Titles}

// slugParam is agency_slugs[] with the brackets already encoded; the API
// expects the array-style key.
const slugParam = "agency_slugs%5B%5D"

// SearchQuery selects the entity and optional free text of a search call.
type SearchQuery struct {
	Agency string
	Child  string
	Query  string
}

// Slug returns the slug sent upstream: the child when present, else the agency.
func (q SearchQuery) Slug() string {
	if c := strings.TrimSpace(q.Child); c != "" {
		return c
	}
	return strings.TrimSpace(q.Agency)
}

// BuildSearchURL appends the slug and, when non-blank, the trimmed query text
// to endpointURL. Values are encoded like encodeURIComponent (%20 for spaces,
// !'()* kept literal).
func BuildSearchURL(endpointURL, agency, child, query string) string {
	q := SearchQuery{Agency: agency, Child: child, Query: query}

	var b strings.Builder
	b.WriteString(endpointURL)
	b.WriteString("?")
	b.WriteString(slugParam)
	b.WriteString("=")
	b.WriteString(encodeComponent(q.Slug()))
	if text := strings.TrimSpace(q.Query); text != "" {
		b.WriteString("&query=")
		b.WriteString(encodeComponent(text))
	}
	return b.String()
}

// JoinURL joins the base URL and an endpoint path with exactly one slash.
func JoinURL(baseURL string, ep Endpoint) string {
	return strings.TrimRight(baseURL, "/") + ep.Path
}

// componentUnescape restores the characters encodeURIComponent leaves alone
// but url.QueryEscape escapes, and spells spaces as %20. Every '%' in
// QueryEscape output starts an escape, so the replacements stay aligned.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent percent-encodes s like JavaScript's encodeURIComponent.
func encodeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}
