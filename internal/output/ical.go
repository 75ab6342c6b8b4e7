package output

import (
	"bytes"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/couchcryptid/levee-files/internal/domain"
)

const (
	icalLineLimit   = 75
	icalLocalLayout = "20060102T150405"
	// appleRadius is the geofence in metres Apple Calendar draws around the pin.
	appleRadius = "100"
)

var (
	propAppleLocation = ics.ComponentProperty("X-APPLE-STRUCTURED-LOCATION")
	propTzOffsetFrom  = ics.ComponentProperty(ics.PropertyTzoffsetfrom)
	propTzOffsetTo    = ics.ComponentProperty(ics.PropertyTzoffsetto)
	propTzName        = ics.ComponentProperty(ics.PropertyTzname)
)

// CalendarOptions describe the VCALENDAR wrapper.
type CalendarOptions struct {
	// ProductID is written as PRODID.
	ProductID string
	// Name is written as X-WR-CALNAME.
	Name string
	// Time renders event times and supplies the zone described in VTIMEZONE.
	Time domain.TimeFormatter
	// Stamp is the build timestamp written as DTSTAMP on every event.
	Stamp time.Time
}

// Calendar collects VEVENTs into one iCalendar resource.
type Calendar struct {
	lifecycle
	opts   CalendarOptions
	events []*ics.VEvent
	// first and last bound the years the VTIMEZONE has to cover.
	first, last int
}

// NewCalendar returns an open calendar aggregator.
func NewCalendar(name string, opts CalendarOptions) *Calendar {
	return &Calendar{lifecycle: lifecycle{kind: "icalendar", name: name}, opts: opts}
}

// Append adds one VEVENT in arrival order.
func (c *Calendar) Append(e domain.CalendarEvent) {
	c.mustBeOpen("Append")

	tzid := ics.WithTZID(e.TZID)
	ev := ics.NewEvent(e.UID)
	ev.SetDtStampTime(c.opts.Stamp)
	ev.SetProperty(ics.ComponentPropertyDtStart, c.opts.Time.ICalLocal(e.Start), tzid)
	ev.SetProperty(ics.ComponentPropertyDtEnd, c.opts.Time.ICalLocal(e.End), tzid)
	ev.SetSummary(e.Summary)
	ev.SetLocation(e.Location)
	ev.SetGeo(e.Latitude, e.Longitude)
	ev.SetProperty(propAppleLocation, "geo:"+e.Latitude+","+e.Longitude,
		ics.WithValue(string(ics.ValueDataTypeUri)),
		&ics.KeyValues{Key: "X-APPLE-RADIUS", Value: []string{appleRadius}},
		&ics.KeyValues{Key: "X-TITLE", Value: []string{e.PlaceName}},
	)
	c.events = append(c.events, ev)
	c.cover(e.Start)
	c.cover(e.End)
}

func (c *Calendar) cover(t time.Time) {
	y := t.In(c.opts.Time.Location()).Year()
	if c.first == 0 || y < c.first {
		c.first = y
	}
	if y > c.last {
		c.last = y
	}
}

// Len returns the number of appended events.
func (c *Calendar) Len() int { return len(c.events) }

// Finalize wraps the events in VCALENDAR after a VTIMEZONE for the run's zone.
func (c *Calendar) Finalize() error {
	c.mustBeOpen("Finalize")

	loc := c.opts.Time.Location()
	cal := ics.NewCalendarFor("levee-files")
	cal.SetProductId(c.opts.ProductID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	if c.opts.Name != "" {
		cal.SetXWRCalName(c.opts.Name)
	}
	cal.SetXWRTimezone(loc.String())

	first, last := c.first, c.last
	if len(c.events) == 0 {
		first = c.opts.Stamp.In(loc).Year()
		last = first
	}
	cal.AddVTimezone(timezone(loc, first, last))
	for _, ev := range c.events {
		cal.AddVEvent(ev)
	}

	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf, ics.WithNewLineWindows, ics.WithLineLength(icalLineLimit)); err != nil {
		return fmt.Errorf("serialize %s: %w", c.name, err)
	}
	c.seal(buf.Bytes())
	return nil
}

// ContentType returns the iCalendar media type.
func (c *Calendar) ContentType() string { return "text/calendar; charset=utf-8" }

// observance is one offset change of a zone.
type observance struct {
	daylight bool
	name     string
	from, to int
	onset    time.Time
}

// timezone describes loc for the years first..last. A zone without offset
// changes in that range gets a single STANDARD observance.
func timezone(loc *time.Location, first, last int) *ics.VTimezone {
	tz := ics.NewTimezone(loc.String())
	obs := transitions(loc, first, last)
	if len(obs) == 0 {
		start := time.Date(first, time.January, 1, 0, 0, 0, 0, loc)
		name, offset := start.Zone()
		obs = []observance{{name: name, from: offset, to: offset, onset: start}}
	}
	for _, o := range obs {
		var base *ics.ComponentBase
		if o.daylight {
			d := &ics.Daylight{}
			tz.Components = append(tz.Components, d)
			base = &d.ComponentBase
		} else {
			s := ics.NewStandard()
			tz.Components = append(tz.Components, s)
			base = &s.ComponentBase
		}
		base.SetProperty(ics.ComponentPropertyDtStart, o.onset.Format(icalLocalLayout))
		base.SetProperty(propTzOffsetFrom, utcOffset(o.from))
		base.SetProperty(propTzOffsetTo, utcOffset(o.to))
		base.SetProperty(propTzName, o.name)
	}
	return tz
}

// transitions lists the offset changes of loc from the start of year first to
// the end of year last. Onsets are wall-clock times in the outgoing offset.
func transitions(loc *time.Location, first, last int) []observance {
	var out []observance
	t := time.Date(first, time.January, 1, 0, 0, 0, 0, loc)
	limit := time.Date(last+1, time.January, 1, 0, 0, 0, 0, loc)
	for {
		_, end := t.ZoneBounds()
		if end.IsZero() || !end.Before(limit) {
			return out
		}
		_, from := end.Add(-time.Second).Zone()
		name, to := end.Zone()
		if from != to {
			out = append(out, observance{
				daylight: end.IsDST(),
				name:     name,
				from:     from,
				to:       to,
				onset:    end.In(time.FixedZone("", from)),
			})
		}
		t = end
	}
}

// utcOffset renders seconds east of UTC as "+HHMM", or "+HHMMSS" when the
// offset is not a whole minute.
func utcOffset(sec int) string {
	sign := '+'
	if sec < 0 {
		sign = '-'
		sec = -sec
	}
	s := fmt.Sprintf("%c%02d%02d", sign, sec/3600, sec/60%60)
	if sec%60 != 0 {
		s += fmt.Sprintf("%02d", sec%60)
	}
	return s
}
