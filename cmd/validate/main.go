// Command validate cross-checks the artifacts of one run. It re-reads the
// output directory and verifies marker sequences, the regional subset, and
// that the JSON-LD, GeoJSON, calendar and HTML counts agree.
//
// Usage:
//
//	go run ./cmd/validate -dir result
//	go run ./cmd/validate -dir public -config levees.yaml
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ics "github.com/arran4/golang-ical"
	"github.com/couchcryptid/levee-files/internal/config"
	"github.com/couchcryptid/levee-files/internal/domain"
	"github.com/couchcryptid/levee-files/internal/output"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "result", "directory holding the artifacts")
	overlay := flag.String("config", os.Getenv("LEVEES_CONFIG"), "YAML overlay that renamed the artifacts (default: env LEVEES_CONFIG)")
	flag.Parse()

	names, err := config.LoadNames(*overlay)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	os.Exit(run(*dir, names))
}

func run(dir string, names output.Names) int {
	fmt.Println("=== Levee Artifact Validation ===")
	fmt.Println()

	set, err := loadArtifacts(dir, names)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := validate(set)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d json-ld, %d geojson, %d regional, %d vevent, %d html rows\n",
		len(set.events), len(set.geo.Features), len(set.region.Features), len(set.calendar.uids), set.html.rows)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Loading ──

type artifactSet struct {
	events   []domain.JSONLDEvent
	geo      *geojson.FeatureCollection
	region   *geojson.FeatureCollection
	calendar calendarSummary
	html     htmlSummary
}

type calendarSummary struct {
	uids      []string
	summaries []string
}

func loadArtifacts(dir string, names output.Names) (*artifactSet, error) {
	read := func(name string) ([]byte, error) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}

	var set artifactSet

	data, err := read(names.JSONLD)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &set.events); err != nil {
		return nil, fmt.Errorf("parse %s: %w", names.JSONLD, err)
	}

	for _, c := range []struct {
		name string
		dst  **geojson.FeatureCollection
	}{{names.Geo, &set.geo}, {names.GeoRegion, &set.region}} {
		data, err := read(c.name)
		if err != nil {
			return nil, err
		}
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", c.name, err)
		}
		*c.dst = fc
	}

	data, err = read(names.Calendar)
	if err != nil {
		return nil, err
	}
	if set.calendar, err = parseCalendar(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parse %s: %w", names.Calendar, err)
	}

	data, err = read(names.HTML)
	if err != nil {
		return nil, err
	}
	if set.html, err = parseHTML(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parse %s: %w", names.HTML, err)
	}

	return &set, nil
}

// parseCalendar collects UID and SUMMARY per VEVENT.
func parseCalendar(r io.Reader) (calendarSummary, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return calendarSummary{}, err
	}
	var cs calendarSummary
	for _, ev := range cal.Events() {
		cs.uids = append(cs.uids, ev.Id())
		if p := ev.GetProperty(ics.ComponentPropertySummary); p != nil {
			cs.summaries = append(cs.summaries, p.Value)
		}
	}
	return cs, nil
}

type htmlSummary struct {
	rows      int
	cancelled int
}

// parseHTML counts the listing rows inside tbody and how many of them carry
// the cancelled class.
func parseHTML(r io.Reader) (htmlSummary, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return htmlSummary{}, err
	}
	var hs htmlSummary
	var walk func(n *html.Node, inBody bool)
	walk = func(n *html.Node, inBody bool) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Tbody:
				inBody = true
			case atom.Tr:
				if inBody {
					hs.rows++
					if hasClass(n, "cancelled") {
						hs.cancelled++
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inBody)
		}
	}
	walk(doc, false)
	return hs, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && slices.Contains(strings.Fields(a.Val), class) {
			return true
		}
	}
	return false
}

// ── Phases ──

func validate(set *artifactSet) []*phase {
	return []*phase{
		validateMarkers("GeoJSON markers", set.geo),
		validateMarkers("Regional GeoJSON markers", set.region),
		validateRegionalSubset(set.geo, set.region),
		validateJSONLDParity(set.events, set.geo),
		validateCalendar(set.calendar, set.geo),
		validateHTML(set.html, len(set.events)),
	}
}

func validateMarkers(name string, fc *geojson.FeatureCollection) *phase {
	p := &phase{name: name}
	for i, f := range fc.Features {
		got, ok := f.Properties["marker-symbol"].(float64)
		if !ok {
			p.errorf("feature %d: marker-symbol missing or not a number", i)
			continue
		}
		if int(got) != i+1 {
			p.errorf("feature %d: marker-symbol %v, want %d", i, got, i+1)
		}
	}
	return p
}

func featureNames(fc *geojson.FeatureCollection) []string {
	out := make([]string, len(fc.Features))
	for i, f := range fc.Features {
		out[i] = f.Properties.MustString("name", "")
	}
	return out
}

func validateRegionalSubset(geo, region *geojson.FeatureCollection) *phase {
	p := &phase{name: "Regional subset of global"}
	global := featureNames(geo)
	next := 0
	for _, name := range featureNames(region) {
		found := false
		for next < len(global) {
			next++
			if global[next-1] == name {
				found = true
				break
			}
		}
		if !found {
			p.errorf("regional feature %q missing from global collection or out of order", name)
		}
	}
	return p
}

func validateJSONLDParity(events []domain.JSONLDEvent, geo *geojson.FeatureCollection) *phase {
	p := &phase{name: "JSON-LD matches GeoJSON"}
	names := featureNames(geo)
	if len(events) != len(names) {
		p.errorf("json-ld has %d events, geojson has %d features", len(events), len(names))
		return p
	}
	for i, e := range events {
		if e.Name != names[i] {
			p.errorf("position %d: json-ld %q, geojson %q", i, e.Name, names[i])
		}
	}
	return p
}

func validateCalendar(cs calendarSummary, geo *geojson.FeatureCollection) *phase {
	p := &phase{name: "Calendar matches GeoJSON"}
	names := featureNames(geo)
	if len(cs.uids) != len(names) {
		p.errorf("calendar has %d events, geojson has %d features", len(cs.uids), len(names))
	}
	seen := make(map[string]bool, len(cs.uids))
	for _, uid := range cs.uids {
		if seen[uid] {
			p.errorf("duplicate UID %s", uid)
		}
		seen[uid] = true
	}
	for i := 0; i < len(cs.summaries) && i < len(names); i++ {
		if cs.summaries[i] != names[i] {
			p.errorf("position %d: summary %q, geojson %q", i, cs.summaries[i], names[i])
		}
	}
	return p
}

// validateHTML expects one row per JSON-LD event plus one per cancelled levee,
// which only the listing keeps.
func validateHTML(hs htmlSummary, events int) *phase {
	p := &phase{name: "HTML lists every levee"}
	if hs.rows != events+hs.cancelled {
		p.errorf("html has %d rows, want %d json-ld events plus %d cancelled", hs.rows, events, hs.cancelled)
	}
	return p
}
