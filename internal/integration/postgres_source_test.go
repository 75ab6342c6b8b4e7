//go:build integration

package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/levee-files/internal/adapter/postgres"
	"github.com/couchcryptid/levee-files/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// startPostgres runs a throwaway database and returns its DSN.
func startPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("levees"),
		tcpostgres.WithUsername("levees"),
		tcpostgres.WithPassword("levees"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func seedLevee(name, start, end string, active bool) domain.Levee {
	return domain.Levee{
		Name:            name,
		LocationName:    name + " Hall",
		LocationAddress: "1 Main St",
		Latitude:        decimal.RequireFromString("46.2382"),
		Longitude:       decimal.RequireFromString("-63.1311"),
		StartDate:       start,
		EndDate:         end,
		Active:          active,
	}
}

// TestPostgresSourceOrdersActiveLevees seeds rows out of order and checks the
// query filters inactive ones, orders by start, end and name, and hands the
// timestamps back as naive text.
func TestPostgresSourceOrdersActiveLevees(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, startPostgres(ctx, t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Seed(ctx, db, []domain.Levee{
		seedLevee("Late", "2016-01-01 15:00:00", "2016-01-01 16:00:00", true),
		seedLevee("B Org", "2016-01-01 14:00:00", "2016-01-01 16:00:00", true),
		seedLevee("Hidden", "2016-01-01 09:00:00", "2016-01-01 10:00:00", false),
		seedLevee("Short", "2016-01-01 14:00:00", "2016-01-01 15:00:00", true),
		seedLevee("A Org", "2016-01-01 14:00:00", "2016-01-01 16:00:00", true),
	}))

	levees, err := postgres.NewSource(db, discardLogger()).Extract(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(levees))
	for _, l := range levees {
		names = append(names, l.Name)
		assert.True(t, l.Active)
	}
	assert.Equal(t, []string{"Short", "A Org", "B Org", "Late"}, names)

	first := levees[0]
	assert.Equal(t, "2016-01-01 14:00:00", first.StartDate)
	assert.Equal(t, "2016-01-01 15:00:00", first.EndDate)
	assert.Equal(t, "46.2382", first.Latitude.String())
	assert.Equal(t, "-63.1311", first.Longitude.String())

	tf, err := domain.LoadTimeFormatter("America/Halifax")
	require.NoError(t, err)
	span, err := tf.Span(first)
	require.NoError(t, err)
	assert.Equal(t, "2016-01-01T14:00:00-04:00", tf.ISO(span.Start))
}

// TestPostgresSeedReplacesRows checks a second seed leaves only its own rows.
func TestPostgresSeedReplacesRows(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, startPostgres(ctx, t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Seed(ctx, db, []domain.Levee{
		seedLevee("Old", "2015-01-01 14:00:00", "2015-01-01 16:00:00", true),
	}))
	require.NoError(t, postgres.Seed(ctx, db, []domain.Levee{
		seedLevee("New", "2016-01-01 14:00:00", "2016-01-01 16:00:00", true),
	}))

	levees, err := postgres.NewSource(db, discardLogger()).Extract(ctx)
	require.NoError(t, err)
	require.Len(t, levees, 1)
	assert.Equal(t, "New", levees[0].Name)
}
