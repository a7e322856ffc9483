// Package render turns newznab results into console output.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/cleverdevil/nz/datefmt"
	"github.com/cleverdevil/nz/newznab"
)

// TitleWidth is the column width search result titles are wrapped at.
const TitleWidth = 60

const bytesPerGB = 1024 * 1024 * 1024

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

// ConsoleFormatter provides console output formatting for indexer results
type ConsoleFormatter struct {
	dates  datefmt.Formatter
	styled bool
}

// NewConsoleFormatter creates a new console formatter. Colors and bold text
// are only emitted when styled is set.
func NewConsoleFormatter(dates datefmt.Formatter, styled bool) *ConsoleFormatter {
	return &ConsoleFormatter{dates: dates, styled: styled}
}

// FormatSearchResults renders items as a table titled after the query.
// An unparseable date aborts rendering.
func (f *ConsoleFormatter) FormatSearchResults(query string, items []newznab.Item) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		date, err := f.dates.Format(item.PubDate, true)
		if err != nil {
			return "", err
		}
		id, err := item.ID()
		if err != nil {
			return "", err
		}
		rows = append(rows, []string{
			WrapTitle(item.Title),
			date,
			FormatGB(item.Size),
			id,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Title", "Date", "Size (GB)", "GUID").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow && f.styled {
				return headerStyle
			}
			return cellStyle
		})

	var sb strings.Builder
	sb.WriteString(f.title("Search Results: " + query))
	sb.WriteString("\n")
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	return sb.String(), nil
}

// FormatDetails renders a two column table describing one release
func (f *ConsoleFormatter) FormatDetails(item newznab.Item) (string, error) {
	date, err := f.dates.Format(item.PubDate, false)
	if err != nil {
		return "", err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Rows(
			[]string{"Title:", item.Title},
			[]string{"Date:", date},
			[]string{"Category:", item.Category()},
			[]string{"Size:", FormatGB(item.Size) + " GB"},
		).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 && f.styled {
				return labelStyle
			}
			return cellStyle
		})

	var sb strings.Builder
	sb.WriteString(f.title("Details: " + item.Title))
	sb.WriteString("\n")
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	return sb.String(), nil
}

// FormatCategories renders each root category as "name [id]" followed by its
// subcategories indented four spaces and a blank line
func (f *ConsoleFormatter) FormatCategories(categories []newznab.Category) string {
	var sb strings.Builder
	for _, category := range categories {
		fmt.Fprintf(&sb, "%s [%s]\n", category.Name, category.ID)
		for _, sub := range category.Subcategories {
			fmt.Fprintf(&sb, "    %s [%s]\n", sub.Name, sub.ID)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (f *ConsoleFormatter) title(s string) string {
	if !f.styled {
		return s
	}
	return titleStyle.Render(s)
}

// FormatGB formats a byte count as gigabytes with two decimals
func FormatGB(size int64) string {
	return fmt.Sprintf("%.2f", float64(size)/bytesPerGB)
}

// WrapTitle wraps a title at TitleWidth columns, breaking on spaces and
// hard-wrapping words that do not fit.
func WrapTitle(title string) string {
	return ansi.Wrap(title, TitleWidth, "")
}
