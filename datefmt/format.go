// Package datefmt normalizes the loosely formatted dates indexers put in
// <pubDate> into either a relative phrase or a fixed local timestamp.
package datefmt

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"
)

// AbsoluteLayout is the layout used when a date is not humanized.
const AbsoluteLayout = "2006-01-02 15:04"

// ParseError is returned when a date string cannot be interpreted
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse date %q: %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Formatter converts indexer dates. The zero value uses time.Now and the
// local zone.
type Formatter struct {
	Now      func() time.Time
	Location *time.Location
}

// Default is the formatter used by the package-level functions.
var Default = Formatter{}

// Parse interprets raw as UTC unless it carries its own offset, and returns
// it in the formatter's location.
func (f Formatter) Parse(raw string) (time.Time, error) {
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Value: raw, Err: err}
	}
	return t.In(f.location()), nil
}

// Format renders raw relative to now ("2 hours ago", "3 days from now") when
// relative is set, otherwise as AbsoluteLayout in the formatter's location.
func (f Formatter) Format(raw string, relative bool) (string, error) {
	t, err := f.Parse(raw)
	if err != nil {
		return "", err
	}
	if relative {
		return humanize.RelTime(t, f.now(), "ago", "from now"), nil
	}
	return t.Format(AbsoluteLayout), nil
}

func (f Formatter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f Formatter) location() *time.Location {
	if f.Location != nil {
		return f.Location
	}
	return time.Local
}

// Parse calls Default.Parse.
func Parse(raw string) (time.Time, error) {
	return Default.Parse(raw)
}

// Format calls Default.Format.
func Format(raw string, relative bool) (string, error) {
	return Default.Format(raw, relative)
}
