package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Levee is one row of the levees table.
type Levee struct {
	Name            string          `json:"name"`
	LocationName    string          `json:"location_name"`
	LocationAddress string          `json:"location_address"`
	Latitude        decimal.Decimal `json:"latitude"`
	Longitude       decimal.Decimal `json:"longitude"`

	// StartDate and EndDate hold the stored text; see TimeFormatter.Parse.
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	Accessible         bool `json:"accessible"`
	AllAges            bool `json:"allAges"`
	Active             bool `json:"active"`
	Cancelled          bool `json:"cancelled"`
	InRegionOfInterest bool `json:"inRegionOfInterest"`
}

// Validate checks the fields every artifact depends on.
func (l Levee) Validate() error {
	if l.Name == "" {
		return ErrInvalidLevee
	}
	return nil
}

// Coordinates returns "lat,lon" exactly as stored.
func (l Levee) Coordinates() string {
	return l.Latitude.String() + "," + l.Longitude.String()
}

// Span is a parsed start/end pair in the configured zone.
type Span struct {
	Start time.Time
	End   time.Time
}
