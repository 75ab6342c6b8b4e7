package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/levee-files/internal/domain"
	"github.com/couchcryptid/levee-files/internal/output"
)

// Options configure how levees are mapped and named.
type Options struct {
	Mapper domain.Mapper
	Names  output.Names
	// Page wraps the HTML listing; nil emits the bare table.
	Page *output.Page
	// CalendarName is written as X-WR-CALNAME.
	CalendarName string
}

// Artifacts holds the finalized aggregators of one run.
type Artifacts struct {
	JSONLD    *output.JSONLD
	Geo       *output.GeoJSON
	GeoRegion *output.GeoJSON
	HTML      *output.HTMLListing
	Calendar  *output.Calendar

	indexer *domain.Indexer
	skipped int
}

// Documents returns the artifacts in emission order.
func (a *Artifacts) Documents() []output.Document {
	return []output.Document{a.JSONLD, a.Geo, a.GeoRegion, a.HTML, a.Calendar}
}

// Admitted returns how many levees stream s received.
func (a *Artifacts) Admitted(s domain.Stream) int {
	return a.indexer.Count(s)
}

// Skipped returns how many inactive levees were dropped before indexing.
func (a *Artifacts) Skipped() int {
	return a.skipped
}

// Transform makes the single pass: each levee is admitted, mapped and
// appended to every stream that takes it before the next one is read.
// Any mapping error aborts the pass and nothing is returned.
func Transform(levees []domain.Levee, opts Options, builtAt time.Time, logger *slog.Logger) (*Artifacts, error) {
	a := &Artifacts{
		JSONLD:    output.NewJSONLD(opts.Names.JSONLD),
		Geo:       output.NewGeoJSON(opts.Names.Geo),
		GeoRegion: output.NewGeoJSON(opts.Names.GeoRegion),
		HTML:      output.NewHTMLListing(opts.Names.HTML, opts.Page),
		Calendar: output.NewCalendar(opts.Names.Calendar, output.CalendarOptions{
			ProductID: opts.Mapper.CalendarID,
			Name:      opts.CalendarName,
			Time:      opts.Mapper.Time,
			Stamp:     builtAt,
		}),
		indexer: domain.NewIndexer(),
	}

	m := opts.Mapper
	for i, l := range levees {
		if !l.Active {
			a.skipped++
			logger.Debug("skipping inactive levee", "name", l.Name, "position", i)
			continue
		}
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("levee at position %d: %w", i, err)
		}
		span, err := m.Time.Span(l)
		if err != nil {
			return nil, err
		}

		adm := a.indexer.Admit(l)
		if adm.In(domain.StreamJSONLD) {
			a.JSONLD.Append(m.JSONLD(l, span))
		}
		if adm.In(domain.StreamGeo) {
			a.Geo.Append(m.GeoFeature(l, span, adm.Index(domain.StreamGeo)))
		}
		if adm.In(domain.StreamGeoRegion) {
			a.GeoRegion.Append(m.GeoFeature(l, span, adm.Index(domain.StreamGeoRegion)))
		}
		if adm.In(domain.StreamHTML) {
			if err := a.HTML.Append(m.HTMLRow(l, span)); err != nil {
				return nil, err
			}
		}
		if adm.In(domain.StreamCalendar) {
			a.Calendar.Append(m.CalendarEvent(l, span))
		}
	}

	if err := a.finalize(); err != nil {
		return nil, err
	}
	return a, nil
}

// finalize closes every aggregator. JSON-LD goes first because the HTML page
// embeds it.
func (a *Artifacts) finalize() error {
	if err := a.JSONLD.Finalize(); err != nil {
		return err
	}
	if err := a.Geo.Finalize(); err != nil {
		return err
	}
	if err := a.GeoRegion.Finalize(); err != nil {
		return err
	}
	a.HTML.Finalize(a.JSONLD.Bytes())
	return a.Calendar.Finalize()
}
