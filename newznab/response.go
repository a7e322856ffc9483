package newznab

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// Document is a response body that has been checked for well-formedness
// and whose root element is known.
type Document struct {
	root xml.Name
	body []byte
}

// Root returns the local name of the root element.
func (d *Document) Root() string {
	return d.root.Local
}

// Parse reads the whole body once. It fails with *MalformedResponseError
// when the body is not well-formed XML and returns *APIError when the root
// element, or an immediate child of it, is <error>.
func Parse(body []byte) (*Document, error) {
	dec := newDecoder(body)

	var (
		root   xml.Name
		apiErr *APIError
		depth  int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedResponseError{Reason: "invalid XML", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				root = t.Name
			}
			if depth <= 2 && apiErr == nil && t.Name.Local == "error" {
				apiErr = &APIError{
					Code:        attrValue(t, "code"),
					Description: attrValue(t, "description"),
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	if root.Local == "" {
		return nil, malformed("empty document")
	}
	if apiErr != nil {
		return nil, apiErr
	}

	return &Document{root: root, body: body}, nil
}

// Search extracts the items of an RSS search response. A channel without
// items, or no channel at all, yields an empty slice.
func (d *Document) Search() ([]Item, error) {
	var doc rssDocument
	if err := d.decode("rss", &doc); err != nil {
		return nil, err
	}

	items := make([]Item, 0)
	if doc.Channel == nil {
		return items, nil
	}

	for i, raw := range doc.Channel.Items {
		item, err := raw.toItem()
		if err != nil {
			err.Reason = "item " + strconv.Itoa(i) + ": " + err.Reason
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// Details extracts the single item of a t=details response.
func (d *Document) Details() (*Item, error) {
	var doc rssDocument
	if err := d.decode("rss", &doc); err != nil {
		return nil, err
	}
	if doc.Channel == nil || len(doc.Channel.Items) == 0 {
		return nil, malformed("details response contains no item")
	}

	item, err := doc.Channel.Items[0].toItem()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Categories extracts the category taxonomy of a t=caps response.
func (d *Document) Categories() ([]Category, error) {
	var doc capsDocument
	if err := d.decode("caps", &doc); err != nil {
		return nil, err
	}

	categories := make([]Category, 0, len(doc.Categories))
	for _, raw := range doc.Categories {
		id, name, err := raw.identity("category")
		if err != nil {
			return nil, err
		}

		category := Category{ID: id, Name: name}
		for _, rawSub := range raw.Subcats {
			subID, subName, err := rawSub.identity("subcat of " + name)
			if err != nil {
				return nil, err
			}
			category.Subcategories = append(category.Subcategories, Category{ID: subID, Name: subName})
		}
		categories = append(categories, category)
	}

	return categories, nil
}

func (d *Document) decode(root string, v any) error {
	if d.root.Local != root {
		return malformed("expected <%s> root element, got <%s>", root, d.root.Local)
	}
	if err := newDecoder(d.body).Decode(v); err != nil {
		return &MalformedResponseError{Reason: "failed to decode <" + root + ">", Err: err}
	}
	return nil
}

func newDecoder(body []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

func attrValue(el xml.StartElement, name string) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// Wire shapes. Pointers distinguish absent elements from empty ones.

type rssDocument struct {
	XMLName xml.Name    `xml:"rss"`
	Channel *rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title      *string       `xml:"title"`
	PubDate    *string       `xml:"pubDate"`
	GUID       *string       `xml:"guid"`
	Link       string        `xml:"link"`
	Comments   string        `xml:"comments"`
	Categories []string      `xml:"category"`
	Enclosure  *rssEnclosure `xml:"enclosure"`
	Attrs      []rssAttr     `xml:"attr"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length string `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// rssAttr matches <newznab:attr> regardless of the prefix bound to it.
type rssAttr struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type capsDocument struct {
	XMLName    xml.Name       `xml:"caps"`
	Categories []capsCategory `xml:"categories>category"`
}

type capsCategory struct {
	ID      *string      `xml:"id,attr"`
	Name    *string      `xml:"name,attr"`
	Subcats []capsSubcat `xml:"subcat"`
}

// capsSubcat has no children field, so deeper nesting is skipped.
type capsSubcat struct {
	ID   *string `xml:"id,attr"`
	Name *string `xml:"name,attr"`
}

func (c capsCategory) identity(kind string) (string, string, error) {
	return identity(kind, c.ID, c.Name)
}

func (c capsSubcat) identity(kind string) (string, string, error) {
	return identity(kind, c.ID, c.Name)
}

func identity(kind string, id, name *string) (string, string, error) {
	if id == nil {
		return "", "", malformed("%s is missing the id attribute", kind)
	}
	if name == nil {
		return "", "", malformed("%s %s is missing the name attribute", kind, *id)
	}
	return *id, *name, nil
}

func (r rssItem) toItem() (Item, *MalformedResponseError) {
	title, ok := required(r.Title)
	if !ok {
		return Item{}, malformed("missing <title>")
	}
	pubDate, ok := required(r.PubDate)
	if !ok {
		return Item{}, malformed("item %q is missing <pubDate>", title)
	}
	guid, ok := required(r.GUID)
	if !ok {
		return Item{}, malformed("item %q is missing <guid>", title)
	}

	attrs := make(map[string]string, len(r.Attrs))
	for _, attr := range r.Attrs {
		attrs[attr.Name] = attr.Value
	}

	size, err := r.size(attrs)
	if err != nil {
		err.Reason = "item " + strconv.Quote(title) + ": " + err.Reason
		return Item{}, err
	}

	categories := make([]string, 0, len(r.Categories))
	for _, category := range r.Categories {
		if category = strings.TrimSpace(category); category != "" {
			categories = append(categories, category)
		}
	}

	return Item{
		Title:      title,
		PubDate:    pubDate,
		Categories: categories,
		GUID:       guid,
		Link:       strings.TrimSpace(r.Link),
		Comments:   strings.TrimSpace(r.Comments),
		Size:       size,
		Attrs:      attrs,
	}, nil
}

// size reads the size attribute, falling back to the enclosure length
func (r rssItem) size(attrs map[string]string) (int64, *MalformedResponseError) {
	value, ok := attrs["size"]
	if !ok {
		if r.Enclosure == nil || r.Enclosure.Length == "" {
			return 0, malformed("missing size attribute")
		}
		value = r.Enclosure.Length
	}

	size, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, &MalformedResponseError{Reason: "invalid size " + strconv.Quote(value), Err: err}
	}
	if size < 0 {
		return 0, malformed("negative size %d", size)
	}
	return size, nil
}

func required(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}
