package newznab

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantRoot    string
		wantAPIErr  *APIError
		wantMalform bool
	}{
		{
			name:     "rss root",
			body:     `<rss><channel/></rss>`,
			wantRoot: "rss",
		},
		{
			name:       "error root",
			body:       `<?xml version="1.0"?><error code="100" description="Incorrect user credentials"/>`,
			wantAPIErr: &APIError{Code: "100", Description: "Incorrect user credentials"},
		},
		{
			name:       "error as immediate child",
			body:       `<rss><error code="201" description="Incorrect parameter"/></rss>`,
			wantAPIErr: &APIError{Code: "201", Description: "Incorrect parameter"},
		},
		{
			name:     "error nested deeper is ignored",
			body:     `<rss><channel><error code="1" description="x"/></channel></rss>`,
			wantRoot: "rss",
		},
		{
			name:        "unclosed element",
			body:        `<rss><channel></rss>`,
			wantMalform: true,
		},
		{
			name:        "not xml",
			body:        `No such function. (Function: info)`,
			wantMalform: true,
		},
		{
			name:        "empty body",
			body:        ``,
			wantMalform: true,
		},
		{
			name:     "latin-1 declaration",
			body:     `<?xml version="1.0" encoding="ISO-8859-1"?><caps></caps>`,
			wantRoot: "caps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.body))

			switch {
			case tt.wantAPIErr != nil:
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantAPIErr, apiErr)
			case tt.wantMalform:
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedResponse))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantRoot, doc.Root())
			}
		})
	}
}

func TestDocumentSearch(t *testing.T) {
	doc, err := Parse(readFixture(t, "search.xml"))
	require.NoError(t, err)

	items, err := doc.Search()
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "Ubuntu.22.04.LTS.Desktop.amd64", first.Title)
	assert.Equal(t, "Sun, 10 Mar 2024 12:30:00 +0000", first.PubDate)
	assert.Equal(t, "https://indexer.example.com/details/abc123", first.GUID)
	assert.Equal(t, int64(1073741824), first.Size)
	assert.Equal(t, "PC > ISO", first.Category())
	assert.Equal(t, "12", first.Attrs["grabs"])
	assert.Equal(t, "4000", first.Attrs["category"])

	id, err := first.ID()
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	second := items[1]
	assert.Equal(t, int64(524288000), second.Size)
	assert.Equal(t, "someone@example.com", second.Attrs["poster"])
}

func TestDocumentSearchEmpty(t *testing.T) {
	tests := map[string]string{
		"channel without items": `<rss><channel><title>x</title></channel></rss>`,
		"no channel":            `<rss version="2.0"/>`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse([]byte(body))
			require.NoError(t, err)

			items, err := doc.Search()
			require.NoError(t, err)
			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestDocumentSearchMalformedItems(t *testing.T) {
	tests := []struct {
		name        string
		item        string
		errContains string
	}{
		{
			name:        "missing title",
			item:        `<guid>http://x/get/1</guid><pubDate>Sun, 10 Mar 2024 12:30:00 +0000</pubDate><attr name="size" value="1"/>`,
			errContains: "missing <title>",
		},
		{
			name:        "missing pubDate",
			item:        `<title>a</title><guid>http://x/get/1</guid><attr name="size" value="1"/>`,
			errContains: "missing <pubDate>",
		},
		{
			name:        "missing guid",
			item:        `<title>a</title><pubDate>Sun, 10 Mar 2024 12:30:00 +0000</pubDate><attr name="size" value="1"/>`,
			errContains: "missing <guid>",
		},
		{
			name:        "missing size",
			item:        `<title>a</title><guid>http://x/get/1</guid><pubDate>Sun, 10 Mar 2024 12:30:00 +0000</pubDate>`,
			errContains: "missing size attribute",
		},
		{
			name:        "negative size",
			item:        `<title>a</title><guid>http://x/get/1</guid><pubDate>Sun, 10 Mar 2024 12:30:00 +0000</pubDate><attr name="size" value="-5"/>`,
			errContains: "negative size",
		},
		{
			name:        "non numeric size",
			item:        `<title>a</title><guid>http://x/get/1</guid><pubDate>Sun, 10 Mar 2024 12:30:00 +0000</pubDate><attr name="size" value="big"/>`,
			errContains: "invalid size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(`<rss><channel><item>` + tt.item + `</item></channel></rss>`))
			require.NoError(t, err)

			_, err = doc.Search()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestDocumentSearchAttributes(t *testing.T) {
	body := `<rss xmlns:newznab="http://www.newznab.com/DTD/2010/feeds/attributes/"><channel><item>
		<title>a</title><guid>http://x/get/1</guid><pubDate>Sun, 10 Mar 2024 12:30:00 +0000</pubDate>
		<newznab:attr name="size" value="10"/>
		<newznab:attr name="unknown" value="whatever"/>
		<newznab:attr name="size" value="20"/>
	</item></channel></rss>`

	doc, err := Parse([]byte(body))
	require.NoError(t, err)

	items, err := doc.Search()
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, int64(20), items[0].Size, "last duplicate attribute wins")
	assert.Equal(t, "whatever", items[0].Attrs["unknown"])
}

func TestDocumentSearchEnclosureFallback(t *testing.T) {
	body := `<rss><channel><item>
		<title>a</title><guid>http://x/get/1</guid><pubDate>Sun, 10 Mar 2024 12:30:00 +0000</pubDate>
		<enclosure url="http://x/get/1.nzb" length="4096" type="application/x-nzb"/>
	</item></channel></rss>`

	doc, err := Parse([]byte(body))
	require.NoError(t, err)

	items, err := doc.Search()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(4096), items[0].Size)
}

func TestDocumentWrongRoot(t *testing.T) {
	doc, err := Parse([]byte(`<caps><categories/></caps>`))
	require.NoError(t, err)

	_, err = doc.Search()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "expected <rss> root element, got <caps>")

	doc, err = Parse([]byte(`<rss/>`))
	require.NoError(t, err)

	_, err = doc.Categories()
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestDocumentDetails(t *testing.T) {
	doc, err := Parse(readFixture(t, "details.xml"))
	require.NoError(t, err)

	item, err := doc.Details()
	require.NoError(t, err)
	assert.Equal(t, "Ubuntu.22.04.LTS.Desktop.amd64", item.Title)
	assert.Equal(t, "PC > ISO", item.Category())
	assert.Equal(t, int64(2147483648), item.Size)

	doc, err = Parse([]byte(`<rss><channel/></rss>`))
	require.NoError(t, err)

	_, err = doc.Details()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestDocumentCategories(t *testing.T) {
	doc, err := Parse(readFixture(t, "caps.xml"))
	require.NoError(t, err)

	categories, err := doc.Categories()
	require.NoError(t, err)

	expected := []Category{
		{ID: "1000", Name: "Console"},
		{ID: "2000", Name: "Movies", Subcategories: []Category{
			{ID: "2030", Name: "SD"},
			{ID: "2040", Name: "HD"},
		}},
	}
	assert.Equal(t, expected, categories)

	// Parsing the same document again yields the same structure.
	again, err := doc.Categories()
	require.NoError(t, err)
	assert.Equal(t, categories, again)
}

func TestDocumentCategoriesMissingAttributes(t *testing.T) {
	tests := map[string]string{
		"category without id":   `<caps><categories><category name="Movies"/></categories></caps>`,
		"category without name": `<caps><categories><category id="2000"/></categories></caps>`,
		"subcat without name":   `<caps><categories><category id="2000" name="Movies"><subcat id="2040"/></category></categories></caps>`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse([]byte(body))
			require.NoError(t, err)

			_, err = doc.Categories()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestItemID(t *testing.T) {
	tests := []struct {
		guid    string
		want    string
		wantErr bool
	}{
		{guid: "http://x/get/abc123", want: "abc123"},
		{guid: "https://indexer.example.com/details/0f1e2d3c", want: "0f1e2d3c"},
		{guid: "/abc", want: "abc"},
		{guid: "abc123", wantErr: true},
		{guid: "http://x/get/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.guid, func(t *testing.T) {
			id, err := Item{GUID: tt.guid}.ID()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}
