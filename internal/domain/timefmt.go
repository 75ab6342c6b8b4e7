package domain

import (
	"fmt"
	"strings"
	"time"
)

// naiveLayouts are tried in order for stored values without a zone offset.
var naiveLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// TimeFormatter parses stored date-times and renders them for each artifact.
// It carries the single zone used for the whole run.
type TimeFormatter struct {
	loc *time.Location
}

// NewTimeFormatter returns a formatter bound to loc. A nil loc means UTC.
func NewTimeFormatter(loc *time.Location) TimeFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return TimeFormatter{loc: loc}
}

// LoadTimeFormatter resolves an IANA zone name such as "America/Halifax".
func LoadTimeFormatter(zone string) (TimeFormatter, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return TimeFormatter{}, fmt.Errorf("load time zone %q: %w", zone, err)
	}
	return NewTimeFormatter(loc), nil
}

// Zone returns the IANA name of the configured zone.
func (f TimeFormatter) Zone() string {
	return f.Location().String()
}

// Parse reads a stored date-time. Values without an offset are taken to be
// local time in the configured zone.
func (f TimeFormatter) Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty value: %w", ErrMalformedDateTime)
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(f.Location()), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, f.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", value, ErrMalformedDateTime)
}

// Clock renders "2:00 PM": 12-hour, no leading zero on the hour.
func (f TimeFormatter) Clock(t time.Time) string {
	return t.In(f.Location()).Format("3:04 PM")
}

// ISO renders RFC 3339 with the configured zone's offset.
func (f TimeFormatter) ISO(t time.Time) string {
	return t.In(f.Location()).Format(time.RFC3339)
}

// ICalLocal renders the local form used with a TZID parameter.
func (f TimeFormatter) ICalLocal(t time.Time) string {
	return t.In(f.Location()).Format("20060102T150405")
}

// Span parses a levee's start and end. The end may equal but not precede the start.
func (f TimeFormatter) Span(l Levee) (Span, error) {
	start, err := f.Parse(l.StartDate)
	if err != nil {
		return Span{}, fmt.Errorf("levee %q start date: %w", l.Name, err)
	}
	end, err := f.Parse(l.EndDate)
	if err != nil {
		return Span{}, fmt.Errorf("levee %q end date: %w", l.Name, err)
	}
	if end.Before(start) {
		return Span{}, fmt.Errorf("levee %q ends before it starts: %w", l.Name, ErrMalformedDateTime)
	}
	return Span{Start: start, End: end}, nil
}

// Location returns the configured zone.
func (f TimeFormatter) Location() *time.Location {
	if f.loc == nil {
		return time.UTC
	}
	return f.loc
}
