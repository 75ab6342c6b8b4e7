package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	schemaContext = "http://schema.org"

	// permalinkFormat takes lat, lon twice: once as the search hint and once
	// as the map anchor.
	permalinkFormat = "https://www.openstreetmap.org/search?query=%s,%s#map=19/%s/%s"
)

// JSONLDEvent is a schema.org Event with its Place nested inside.
type JSONLDEvent struct {
	Context   string `json:"@context"`
	Type      string `json:"@type"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Location  Place  `json:"location"`
}

// Place is a schema.org Place.
type Place struct {
	Type    string         `json:"@type"`
	Name    string         `json:"name"`
	Address string         `json:"address"`
	Geo     GeoCoordinates `json:"geo"`
}

// GeoCoordinates keeps the stored decimal text as a JSON number.
type GeoCoordinates struct {
	Type      string      `json:"@type"`
	Latitude  json.Number `json:"latitude"`
	Longitude json.Number `json:"longitude"`
}

// HTMLRow holds everything one listing row shows.
type HTMLRow struct {
	Name         string
	Permalink    string
	LocationName string
	Address      string
	Start        string
	End          string
	Accessible   bool
	AllAges      bool
	Cancelled    bool
	Classes      []string
}

// CalendarEvent is one VEVENT. Start and End are rendered as local times in TZID.
type CalendarEvent struct {
	UID       string
	Summary   string
	Location  string
	PlaceName string
	Latitude  string
	Longitude string
	TZID      string
	Start     time.Time
	End       time.Time
}

// Mapper translates one levee into each artifact's fragment. It holds no
// per-run state; stream indices are supplied by the caller.
type Mapper struct {
	Time TimeFormatter
	// Year goes into every title ("<name> <Year> New Years Levee").
	Year int
	// CalendarID namespaces calendar UIDs.
	CalendarID string
}

// NewMapper returns a Mapper for the given zone formatter and levee year.
func NewMapper(tf TimeFormatter, year int, calendarID string) Mapper {
	return Mapper{Time: tf, Year: year, CalendarID: calendarID}
}

// Title appends the fixed year suffix to the levee name.
func (m Mapper) Title(l Levee) string {
	return l.Name + " " + strconv.Itoa(m.Year) + " New Years Levee"
}

// JSONLD maps a levee to its structured-data event.
func (m Mapper) JSONLD(l Levee, span Span) JSONLDEvent {
	return JSONLDEvent{
		Context:   schemaContext,
		Type:      "Event",
		Name:      m.Title(l),
		StartDate: m.Time.ISO(span.Start),
		EndDate:   m.Time.ISO(span.End),
		Location: Place{
			Type:    "Place",
			Name:    l.LocationName,
			Address: l.LocationAddress,
			Geo: GeoCoordinates{
				Type:      "GeoCoordinates",
				Latitude:  json.Number(l.Latitude.String()),
				Longitude: json.Number(l.Longitude.String()),
			},
		},
	}
}

// GeoFeature maps a levee to a Point feature. GeoJSON positions are
// [longitude, latitude].
func (m Mapper) GeoFeature(l Levee, span Span, marker int) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{l.Longitude.InexactFloat64(), l.Latitude.InexactFloat64()})
	f.Properties["name"] = m.Title(l)
	f.Properties["location"] = l.LocationName
	f.Properties["address"] = l.LocationAddress
	f.Properties["startDate"] = m.Time.ISO(span.Start)
	f.Properties["endDate"] = m.Time.ISO(span.End)
	f.Properties["marker-symbol"] = marker
	return f
}

// HTMLRow maps a levee to a listing row. Cancelled levees are kept and flagged.
func (m Mapper) HTMLRow(l Levee, span Span) HTMLRow {
	lat, lon := l.Latitude.String(), l.Longitude.String()
	return HTMLRow{
		Name:         l.Name,
		Permalink:    fmt.Sprintf(permalinkFormat, lat, lon, lat, lon),
		LocationName: l.LocationName,
		Address:      l.LocationAddress,
		Start:        m.Time.Clock(span.Start),
		End:          m.Time.Clock(span.End),
		Accessible:   l.Accessible,
		AllAges:      l.AllAges,
		Cancelled:    l.Cancelled,
		Classes:      RowClasses(l),
	}
}

// RowClasses returns the style tokens for a row: one per flag dimension,
// with "cancelled" added on top.
func RowClasses(l Levee) []string {
	classes := make([]string, 0, 3)
	if l.InRegionOfInterest {
		classes = append(classes, "region")
	} else {
		classes = append(classes, "not-region")
	}
	if l.AllAges {
		classes = append(classes, "all-ages")
	} else {
		classes = append(classes, "not-all-ages")
	}
	if l.Cancelled {
		classes = append(classes, "cancelled")
	}
	return classes
}

// CalendarEvent maps a levee to a VEVENT with zone-qualified times.
func (m Mapper) CalendarEvent(l Levee, span Span) CalendarEvent {
	location := l.LocationName + "\n" + l.LocationAddress
	return CalendarEvent{
		UID:       m.eventUID(l, span),
		Summary:   m.Title(l),
		Location:  location,
		PlaceName: l.LocationName,
		Latitude:  l.Latitude.String(),
		Longitude: l.Longitude.String(),
		TZID:      m.Time.Zone(),
		Start:     span.Start,
		End:       span.End,
	}
}

// eventUID is a name-based UUID so unchanged levees keep their UID across runs.
func (m Mapper) eventUID(l Levee, span Span) string {
	key := fmt.Sprintf("%s|%s|%s|%s|%s", m.CalendarID, l.Name, m.Time.ISO(span.Start), l.LocationName, l.Coordinates())
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}
