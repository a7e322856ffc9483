package newznab

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
)

// Markers the indexer uses in otherwise unstructured bodies.
const (
	unsupportedFunctionMarker = "No such function"
	noNFOMarker               = `error code="300"`
)

// IsUnsupportedFunction reports whether body says the requested t= function
// is not implemented by the indexer.
func IsUnsupportedFunction(body []byte) bool {
	return bytes.Contains(body, []byte(unsupportedFunctionMarker))
}

// IsNoNFO reports whether body is the error the indexer returns for a
// release without an NFO file.
func IsNoNFO(body []byte) bool {
	return bytes.Contains(body, []byte(noNFOMarker))
}

// Search runs a t=search request and returns the matching items.
func (c *Client) Search(ctx context.Context, opts SearchOptions) ([]Item, error) {
	doc, err := c.Request(ctx, opts.params())
	if err != nil {
		return nil, err
	}

	items, err := doc.Search()
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", opts.Query).
		Strs("categories", opts.Categories).
		Int("count", len(items)).
		Msg("Retrieved search results")

	return items, nil
}

// Caps runs a t=caps request and returns the category taxonomy.
func (c *Client) Caps(ctx context.Context) ([]Category, error) {
	doc, err := c.Request(ctx, url.Values{"t": {"caps"}})
	if err != nil {
		return nil, err
	}
	return doc.Categories()
}

// Details runs a t=details request for guid.
func (c *Client) Details(ctx context.Context, guid string) (*Item, error) {
	doc, err := c.Request(ctx, url.Values{"t": {"details"}, "id": {guid}})
	if err != nil {
		return nil, err
	}
	return doc.Details()
}

// Download runs a t=get request for guid and returns the NZB body as sent
// by the indexer.
func (c *Client) Download(ctx context.Context, guid string) (*RawResponse, error) {
	raw, err := c.RequestRaw(ctx, url.Values{"t": {"get"}, "id": {guid}})
	if err != nil {
		return nil, err
	}
	if !raw.OK() {
		return nil, c.statusError(raw)
	}

	c.logger.Debug().
		Str("guid", guid).
		Int("bytes", len(raw.Body)).
		Msg("Downloaded NZB")

	return raw, nil
}

// NFO fetches the NFO text of guid. Indexers that do not implement t=info are
// asked once more with t=getnfo. A release without an NFO yields ErrNoNFO.
func (c *Client) NFO(ctx context.Context, guid string) (string, error) {
	raw, err := c.RequestRaw(ctx, url.Values{"t": {"info"}, "id": {guid}})
	if err != nil {
		return "", err
	}

	if IsUnsupportedFunction(raw.Body) {
		c.logger.Debug().Str("guid", guid).Msg("t=info not supported, falling back to t=getnfo")

		raw, err = c.RequestRaw(ctx, url.Values{"t": {"getnfo"}, "guid": {guid}})
		if err != nil {
			return "", fmt.Errorf("getnfo fallback: %w", err)
		}
	}

	if IsNoNFO(raw.Body) {
		return "", ErrNoNFO
	}
	if !raw.OK() {
		return "", c.statusError(raw)
	}

	return string(raw.Body), nil
}
