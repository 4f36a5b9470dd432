package unsplash

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// SearchEndpoint is the photo search path under the API root
	SearchEndpoint = "/search/photos"

	// DefaultPerPage matches what the API returns when per_page is omitted
	DefaultPerPage = 20
)

// SearchParams are the inputs of one search request
type SearchParams struct {
	Query     string
	Page      int
	PerPage   int
	AccessKey string
}

// GetSearchURL builds the search URL. The access key travels as the
// client_id query parameter rather than an Authorization header.
func GetSearchURL(baseURL string, p SearchParams) string {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", p.Query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("client_id", p.AccessKey)

	return fmt.Sprintf("%s%s?%s", strings.TrimRight(baseURL, "/"), SearchEndpoint, params.Encode())
}

// redactURL strips the access key before a URL reaches the logs
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("client_id") {
		q.Set("client_id", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
