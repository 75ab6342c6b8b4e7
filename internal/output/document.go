// Package output accumulates mapped fragments into the published artifacts.
//
// Every aggregator is append-only until Finalize is called exactly once.
// Appending after Finalize, finalizing twice, or reading Bytes before
// Finalize is a programming error and panics.
package output

import "fmt"

// Document is a finalized artifact ready to be written by a loader.
type Document interface {
	Name() string
	ContentType() string
	Bytes() []byte
}

// Names are the artifact names handed to loaders.
type Names struct {
	JSONLD    string `yaml:"jsonld"`
	Geo       string `yaml:"geojson"`
	GeoRegion string `yaml:"geojson_region"`
	HTML      string `yaml:"html"`
	Calendar  string `yaml:"ics"`
}

// DefaultNames returns the file names the site has always used.
func DefaultNames() Names {
	return Names{
		JSONLD:    "levees.json",
		Geo:       "levees.geojson",
		GeoRegion: "levees-region.geojson",
		HTML:      "levees.html",
		Calendar:  "levees.ics",
	}
}

// lifecycle tracks the open/finalized state shared by every aggregator.
type lifecycle struct {
	kind      string
	name      string
	finalized bool
	data      []byte
}

func (l *lifecycle) mustBeOpen(op string) {
	if l.finalized {
		panic(fmt.Sprintf("output: %s on finalized %s %q", op, l.kind, l.name))
	}
}

func (l *lifecycle) seal(data []byte) {
	l.mustBeOpen("Finalize")
	l.finalized = true
	l.data = data
}

// Name returns the artifact name.
func (l *lifecycle) Name() string { return l.name }

// Finalized reports whether Finalize has run.
func (l *lifecycle) Finalized() bool { return l.finalized }

// Bytes returns the serialized artifact.
func (l *lifecycle) Bytes() []byte {
	if !l.finalized {
		panic(fmt.Sprintf("output: Bytes on open %s %q", l.kind, l.name))
	}
	return l.data
}
