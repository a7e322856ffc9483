package newznab

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Item is a release as returned by search and details requests
type Item struct {
	Title      string
	PubDate    string // indexer-supplied, not normalized
	Categories []string
	GUID       string
	Link       string
	Comments   string
	Size       int64
	Attrs      map[string]string
}

// ID returns the canonical NZB identifier, the segment after the last "/"
// of the GUID.
func (i Item) ID() (string, error) {
	idx := strings.LastIndex(i.GUID, "/")
	if idx < 0 {
		return "", malformed("guid %q has no path segment", i.GUID)
	}
	id := i.GUID[idx+1:]
	if id == "" {
		return "", malformed("guid %q has an empty trailing segment", i.GUID)
	}
	return id, nil
}

// Category returns the first category label of the item.
func (i Item) Category() string {
	if len(i.Categories) == 0 {
		return ""
	}
	return i.Categories[0]
}

// Category is a node of the indexer's category taxonomy. Root categories
// carry subcategories; subcategories never do.
type Category struct {
	ID            string
	Name          string
	Subcategories []Category
}

// SearchOptions contains the parameters of a t=search request
type SearchOptions struct {
	Query      string
	Categories []string
	Limit      int
}

func (o SearchOptions) params() url.Values {
	params := url.Values{
		"t":   {"search"},
		"cat": {strings.Join(o.Categories, ",")},
	}
	if o.Query != "" {
		params.Set("q", o.Query)
	}
	if o.Limit > 0 {
		params.Set("limit", strconv.Itoa(o.Limit))
	}
	return params
}

// RawResponse is an HTTP response returned without parsing
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is 2xx
func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
