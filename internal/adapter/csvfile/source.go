// Package csvfile reads levee records from a CSV export of the levees table.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/levee-files/internal/domain"
	"github.com/shopspring/decimal"
)

// Columns lists the header names a levee CSV must carry, in export order.
var Columns = []string{
	"name",
	"location_name",
	"location_address",
	"latitude",
	"longitude",
	"startDate",
	"endDate",
	"accessible",
	"allAges",
	"active",
	"cancelled",
	"inRegionOfInterest",
}

// ReadAll parses every record, inactive ones included. Columns are matched by
// header name so extra columns and any column order are accepted.
func ReadAll(r io.Reader) ([]domain.Levee, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var levees []domain.Levee
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return levees, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := cr.FieldPos(0)
		l, err := parseRecord(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		levees = append(levees, l)
	}
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var missing []string
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRecord(rec []string, idx map[string]int) (domain.Levee, error) {
	field := func(name string) string { return strings.TrimSpace(rec[idx[name]]) }

	lat, err := decimal.NewFromString(field("latitude"))
	if err != nil {
		return domain.Levee{}, fmt.Errorf("latitude %q: %w", field("latitude"), domain.ErrInvalidLevee)
	}
	lon, err := decimal.NewFromString(field("longitude"))
	if err != nil {
		return domain.Levee{}, fmt.Errorf("longitude %q: %w", field("longitude"), domain.ErrInvalidLevee)
	}

	l := domain.Levee{
		Name:            field("name"),
		LocationName:    field("location_name"),
		LocationAddress: field("location_address"),
		Latitude:        lat,
		Longitude:       lon,
		StartDate:       field("startDate"),
		EndDate:         field("endDate"),
	}
	flags := []struct {
		col string
		dst *bool
	}{
		{"accessible", &l.Accessible},
		{"allAges", &l.AllAges},
		{"active", &l.Active},
		{"cancelled", &l.Cancelled},
		{"inRegionOfInterest", &l.InRegionOfInterest},
	}
	for _, f := range flags {
		v, err := parseFlag(field(f.col))
		if err != nil {
			return domain.Levee{}, fmt.Errorf("%s: %w", f.col, err)
		}
		*f.dst = v
	}
	return l, nil
}

// parseFlag accepts the strconv.ParseBool forms; an empty cell is false.
func parseFlag(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("flag %q: %w", s, domain.ErrInvalidLevee)
	}
	return v, nil
}

// SortLevees orders levees by start instant, end instant, then name, keeping
// input order for exact ties. Dates are parsed with tf so values stored in
// different layouts or offsets compare by the moment they name.
func SortLevees(levees []domain.Levee, tf domain.TimeFormatter) error {
	type keyed struct {
		levee      domain.Levee
		start, end time.Time
	}
	keys := make([]keyed, len(levees))
	for i, l := range levees {
		start, err := tf.Parse(l.StartDate)
		if err != nil {
			return fmt.Errorf("levee %q start date: %w", l.Name, err)
		}
		end, err := tf.Parse(l.EndDate)
		if err != nil {
			return fmt.Errorf("levee %q end date: %w", l.Name, err)
		}
		keys[i] = keyed{levee: l, start: start, end: end}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if !a.start.Equal(b.start) {
			return a.start.Before(b.start)
		}
		if !a.end.Equal(b.end) {
			return a.end.Before(b.end)
		}
		return a.levee.Name < b.levee.Name
	})
	for i, k := range keys {
		levees[i] = k.levee
	}
	return nil
}

// Source serves active levees from a CSV file. It implements pipeline.Extractor.
type Source struct {
	path string
	tf   domain.TimeFormatter
}

// NewSource returns a Source reading path on every Extract. tf resolves the
// stored dates for ordering.
func NewSource(path string, tf domain.TimeFormatter) *Source {
	return &Source{path: path, tf: tf}
}

// Extract reads the file, drops inactive records and sorts the rest.
func (s *Source) Extract(ctx context.Context) ([]domain.Levee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", s.path, domain.ErrSourceUnavailable, err)
	}
	defer f.Close()

	all, err := ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	active := all[:0]
	for _, l := range all {
		if l.Active {
			active = append(active, l)
		}
	}
	if err := SortLevees(active, s.tf); err != nil {
		return nil, fmt.Errorf("sort %s: %w", s.path, err)
	}
	return active, nil
}
