package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDate parses a loosely-formatted absolute date string. Returns false for
// anything unparseable, including empty strings and relative phrases like
// "3 months ago". Never panics.
func ParseDate(s string) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	parsed, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// ISODate renders a date as canonical YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Range is an inclusive calendar date range with Start <= End.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange parses both bounds and validates ordering.
func NewRange(start, end string) (Range, error) {
	s, ok := ParseDate(start)
	if !ok {
		return Range{}, fmt.Errorf("invalid start date %q", start)
	}
	e, ok := ParseDate(end)
	if !ok {
		return Range{}, fmt.Errorf("invalid end date %q", end)
	}
	if s.After(e) {
		return Range{}, fmt.Errorf("start date %s must be <= end date %s", ISODate(s), ISODate(e))
	}
	return Range{Start: s, End: e}, nil
}

// Contains reports whether d falls within the range, bounds included.
func (r Range) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}
