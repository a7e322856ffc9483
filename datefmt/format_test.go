package datefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

func TestFormatRelative(t *testing.T) {
	f := Formatter{
		Now:      fixed(time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)),
		Location: time.UTC,
	}

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Sun, 10 Mar 2024 12:30:00 +0000", want: "2 hours ago"},
		{raw: "2024-03-10T12:30:00Z", want: "2 hours ago"},
		{raw: "2024-03-07 14:30:00", want: "3 days ago"},
		{raw: "2024-03-13 14:30:00", want: "3 days from now"},
		{raw: "Sun, 10 Mar 2024 09:30:00 -0500", want: "now"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := f.Format(tt.raw, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAbsolute(t *testing.T) {
	f := Formatter{Location: time.FixedZone("UTC+2", 2*60*60)}

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Sun, 10 Mar 2024 12:30:00 +0000", want: "2024-03-10 14:30"},
		{raw: "2024-03-10 12:30:00", want: "2024-03-10 14:30"},
		{raw: "Sun, 10 Mar 2024 12:30:00 -0500", want: "2024-03-10 19:30"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := f.Format(tt.raw, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatInvalid(t *testing.T) {
	for _, raw := range []string{"", "not a date", "yesterday-ish"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Formatter{}.Format(raw, true)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, raw, parseErr.Value)
		})
	}
}

func TestParse(t *testing.T) {
	got, err := Formatter{Location: time.UTC}.Parse("Sat, 09 Mar 2024 08:00:00 -0500")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 3, 9, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.UTC, got.Location())
}
