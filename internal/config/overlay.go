package config

import (
	"fmt"
	"os"

	"github.com/couchcryptid/levee-files/internal/output"
	"github.com/goccy/go-yaml"
)

// overlay is the optional LEVEES_CONFIG file. Empty fields fall through to
// the defaults.
type overlay struct {
	Source       string       `yaml:"source"`
	CSVPath      string       `yaml:"csv_path"`
	Timezone     string       `yaml:"timezone"`
	Year         int          `yaml:"year"`
	CalendarID   string       `yaml:"calendar_id"`
	CalendarName string       `yaml:"calendar_name"`
	OutputDir    string       `yaml:"output_dir"`
	Names        output.Names `yaml:"names"`
	HTML         struct {
		Preamble   string `yaml:"preamble"`
		Midsection string `yaml:"midsection"`
		Closing    string `yaml:"closing"`
	} `yaml:"html"`
}

func loadOverlay(path string) (overlay, error) {
	var ov overlay
	if path == "" {
		return ov, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ov, fmt.Errorf("read LEVEES_CONFIG: %w", err)
	}
	if err := yaml.UnmarshalWithOptions(data, &ov, yaml.Strict()); err != nil {
		return ov, fmt.Errorf("parse LEVEES_CONFIG %s: %w", path, err)
	}
	return ov, nil
}

// names fills unset artifact names from the defaults.
func (ov overlay) names() output.Names {
	n := output.DefaultNames()
	n.JSONLD = orString(ov.Names.JSONLD, n.JSONLD)
	n.Geo = orString(ov.Names.Geo, n.Geo)
	n.GeoRegion = orString(ov.Names.GeoRegion, n.GeoRegion)
	n.HTML = orString(ov.Names.HTML, n.HTML)
	n.Calendar = orString(ov.Names.Calendar, n.Calendar)
	return n
}

// LoadNames reads only the artifact names from the overlay at path. An empty
// path yields the defaults.
func LoadNames(path string) (output.Names, error) {
	ov, err := loadOverlay(path)
	if err != nil {
		return output.Names{}, err
	}
	return ov.names(), nil
}
