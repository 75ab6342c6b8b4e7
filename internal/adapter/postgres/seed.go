package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/couchcryptid/levee-files/internal/domain"
)

const createTable = `CREATE TABLE IF NOT EXISTS levees (
	id               BIGSERIAL PRIMARY KEY,
	name             TEXT NOT NULL,
	location_name    TEXT NOT NULL DEFAULT '',
	location_address TEXT NOT NULL DEFAULT '',
	latitude         NUMERIC(9,6) NOT NULL,
	longitude        NUMERIC(9,6) NOT NULL,
	start_date       TIMESTAMP NOT NULL,
	end_date         TIMESTAMP NOT NULL,
	accessible       BOOLEAN NOT NULL DEFAULT FALSE,
	all_ages         BOOLEAN NOT NULL DEFAULT FALSE,
	active           BOOLEAN NOT NULL DEFAULT TRUE,
	cancelled        BOOLEAN NOT NULL DEFAULT FALSE,
	in_region        BOOLEAN NOT NULL DEFAULT FALSE
)`

const insertLevee = `INSERT INTO levees (
	name, location_name, location_address, latitude, longitude,
	start_date, end_date, accessible, all_ages, active, cancelled, in_region
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// execer is satisfied by *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Seed replaces the levees table contents inside one transaction.
func Seed(ctx context.Context, db *sql.DB, levees []domain.Levee) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op once committed
	}()

	if err := replaceAll(ctx, tx, levees); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func replaceAll(ctx context.Context, ex execer, levees []domain.Levee) error {
	if _, err := ex.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if _, err := ex.ExecContext(ctx, `TRUNCATE levees RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	for i, l := range levees {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("levee at position %d: %w", i, err)
		}
		_, err := ex.ExecContext(ctx, insertLevee,
			l.Name, l.LocationName, l.LocationAddress,
			l.Latitude, l.Longitude,
			l.StartDate, l.EndDate,
			l.Accessible, l.AllAges, l.Active, l.Cancelled, l.InRegionOfInterest,
		)
		if err != nil {
			return fmt.Errorf("insert %q: %w", l.Name, err)
		}
	}
	return nil
}
