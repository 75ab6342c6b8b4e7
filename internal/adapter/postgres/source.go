// Package postgres reads and seeds the levees table over database/sql with
// the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/levee-files/internal/domain"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

// Dates are selected as text so timestamps without a zone reach the
// formatter unchanged instead of being read as UTC.
const selectActive = `SELECT name, location_name, location_address, latitude, longitude,
	start_date::text, end_date::text,
	accessible, all_ages, active, cancelled, in_region
FROM levees
WHERE active
ORDER BY start_date, end_date, name`

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w: %w", domain.ErrSourceUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w: %w", domain.ErrSourceUnavailable, err)
	}
	return db, nil
}

// Source serves active levees from the levees table. It implements
// pipeline.Extractor.
type Source struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSource wraps an open database handle.
func NewSource(db *sql.DB, logger *slog.Logger) *Source {
	return &Source{db: db, logger: logger}
}

// Extract runs the ordered query and scans every row.
func (s *Source) Extract(ctx context.Context) ([]domain.Levee, error) {
	rows, err := s.db.QueryContext(ctx, selectActive)
	if err != nil {
		return nil, fmt.Errorf("query levees: %w: %w", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var levees []domain.Levee
	for rows.Next() {
		l, err := scanLevee(rows)
		if err != nil {
			return nil, err
		}
		levees = append(levees, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate levees: %w: %w", domain.ErrSourceUnavailable, err)
	}
	s.logger.Debug("levees queried", "count", len(levees))
	return levees, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLevee(r rowScanner) (domain.Levee, error) {
	var l domain.Levee
	err := r.Scan(
		&l.Name, &l.LocationName, &l.LocationAddress,
		&l.Latitude, &l.Longitude,
		&l.StartDate, &l.EndDate,
		&l.Accessible, &l.AllAges, &l.Active, &l.Cancelled, &l.InRegionOfInterest,
	)
	if err != nil {
		return domain.Levee{}, fmt.Errorf("scan levee: %w", err)
	}
	return l, nil
}
