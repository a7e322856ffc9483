package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleverdevil/nz/datefmt"
	"github.com/cleverdevil/nz/newznab"
)

func testFormatter() *ConsoleFormatter {
	return NewConsoleFormatter(datefmt.Formatter{
		Now:      func() time.Time { return time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC) },
		Location: time.UTC,
	}, false)
}

func TestFormatGB(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{size: 0, want: "0.00"},
		{size: 1073741824, want: "1.00"},
		{size: 1610612736, want: "1.50"},
		{size: 524288000, want: "0.49"},
		{size: 5 * 1073741824, want: "5.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatGB(tt.size))
	}
}

func TestWrapTitle(t *testing.T) {
	short := "Ubuntu.22.04.LTS.Desktop.amd64"
	assert.Equal(t, short, WrapTitle(short))

	long := strings.Repeat("word ", 20)
	for _, line := range strings.Split(WrapTitle(long), "\n") {
		assert.LessOrEqual(t, len(line), TitleWidth)
	}

	unbroken := strings.Repeat("x", 130)
	lines := strings.Split(WrapTitle(unbroken), "\n")
	require.Len(t, lines, 3)
	assert.Len(t, lines[0], TitleWidth)
}

func TestFormatSearchResults(t *testing.T) {
	items := []newznab.Item{
		{
			Title:   "Ubuntu.22.04.LTS.Desktop.amd64",
			PubDate: "Sun, 10 Mar 2024 12:30:00 +0000",
			GUID:    "http://x/get/abc123",
			Size:    1073741824,
		},
	}

	out, err := testFormatter().FormatSearchResults("ubuntu", items)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Search Results: ubuntu\n"))
	for _, want := range []string{"Title", "Date", "Size (GB)", "GUID", "Ubuntu.22.04.LTS.Desktop.amd64", "2 hours ago", "1.00", "abc123"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "http://x/get/")
}

func TestFormatSearchResultsEmpty(t *testing.T) {
	out, err := testFormatter().FormatSearchResults("nothing", nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Search Results: nothing\n"))
	assert.Contains(t, out, "Size (GB)")
	assert.NotContains(t, out, "ago")
}

func TestFormatSearchResultsBadDate(t *testing.T) {
	items := []newznab.Item{{Title: "a", PubDate: "garbage", GUID: "http://x/get/1"}}

	out, err := testFormatter().FormatSearchResults("a", items)
	var parseErr *datefmt.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Empty(t, out)
}

func TestFormatDetails(t *testing.T) {
	item := newznab.Item{
		Title:      "Ubuntu.22.04.LTS.Desktop.amd64",
		PubDate:    "Sun, 10 Mar 2024 12:30:00 +0000",
		Categories: []string{"PC > ISO"},
		GUID:       "http://x/get/abc123",
		Size:       2147483648,
	}

	out, err := testFormatter().FormatDetails(item)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Details: Ubuntu.22.04.LTS.Desktop.amd64\n"))
	for _, want := range []string{"Title:", "Date:", "2024-03-10 12:30", "Category:", "PC > ISO", "Size:", "2.00 GB"} {
		assert.Contains(t, out, want)
	}
}

func TestFormatCategories(t *testing.T) {
	categories := []newznab.Category{
		{ID: "1000", Name: "Console"},
		{ID: "2000", Name: "Movies", Subcategories: []newznab.Category{
			{ID: "2030", Name: "SD"},
			{ID: "2040", Name: "HD"},
		}},
	}

	expected := "Console [1000]\n\nMovies [2000]\n    SD [2030]\n    HD [2040]\n\n"
	assert.Equal(t, expected, testFormatter().FormatCategories(categories))
	assert.Empty(t, testFormatter().FormatCategories(nil))
}
