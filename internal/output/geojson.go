package output

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// GeoJSON collects point features into a FeatureCollection. The global and
// regional collections are two separate instances.
type GeoJSON struct {
	lifecycle
	features []*geojson.Feature
}

// NewGeoJSON returns an open feature collection aggregator.
func NewGeoJSON(name string) *GeoJSON {
	return &GeoJSON{lifecycle: lifecycle{kind: "geojson", name: name}}
}

// Append adds a feature in arrival order.
func (g *GeoJSON) Append(f *geojson.Feature) {
	g.mustBeOpen("Append")
	g.features = append(g.features, f)
}

// Len returns the number of appended features.
func (g *GeoJSON) Len() int { return len(g.features) }

// Finalize closes the collection with type "FeatureCollection" and serializes it.
func (g *GeoJSON) Finalize() error {
	g.mustBeOpen("Finalize")
	fc := geojson.NewFeatureCollection()
	fc.Features = append(fc.Features, g.features...)
	data, err := json.MarshalIndent(fc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode geojson %q: %w", g.name, err)
	}
	g.seal(append(data, '\n'))
	return nil
}

// ContentType returns the GeoJSON media type.
func (g *GeoJSON) ContentType() string { return "application/geo+json" }
