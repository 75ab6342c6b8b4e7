package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/couchcryptid/levee-files/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	values []any
	err    error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = f.values[i].(string)
		case *bool:
			*p = f.values[i].(bool)
		case *decimal.Decimal:
			if err := p.Scan(f.values[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func TestScanLevee(t *testing.T) {
	row := fakeRow{values: []any{
		"Lieutenant Governor", "Government House", "1 Fanningbank Road",
		"46.238200", "-63.131100",
		"2016-01-01 14:00:00", "2016-01-01 16:30:00",
		true, true, true, false, true,
	}}

	l, err := scanLevee(row)
	require.NoError(t, err)

	assert.Equal(t, "Lieutenant Governor", l.Name)
	assert.True(t, l.Latitude.Equal(decimal.RequireFromString("46.2382")))
	assert.True(t, l.Longitude.Equal(decimal.RequireFromString("-63.1311")))
	assert.Equal(t, "2016-01-01 14:00:00", l.StartDate)
	assert.Equal(t, "2016-01-01 16:30:00", l.EndDate)
	assert.True(t, l.Accessible)
	assert.True(t, l.Active)
	assert.False(t, l.Cancelled)
	assert.True(t, l.InRegionOfInterest)
}

func TestScanLevee_Error(t *testing.T) {
	_, err := scanLevee(fakeRow{err: errors.New("conn reset")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan levee")
}

func TestSelectActive_Ordering(t *testing.T) {
	assert.Contains(t, selectActive, "WHERE active")
	assert.True(t, strings.HasSuffix(selectActive, "ORDER BY start_date, end_date, name"))
	assert.Contains(t, selectActive, "start_date::text")
}

type recordingExecer struct {
	queries []string
	args    [][]any
	failOn  string
}

func (r *recordingExecer) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	if r.failOn != "" && strings.Contains(query, r.failOn) {
		return nil, errors.New("boom")
	}
	r.queries = append(r.queries, query)
	r.args = append(r.args, args)
	return nil, nil
}

func TestReplaceAll(t *testing.T) {
	ex := &recordingExecer{}
	levees := []domain.Levee{
		{Name: "A", Latitude: decimal.RequireFromString("46.1"), Longitude: decimal.RequireFromString("-63.1"), StartDate: "2016-01-01 10:00:00", EndDate: "2016-01-01 11:00:00", Active: true},
		{Name: "B", Latitude: decimal.RequireFromString("46.2"), Longitude: decimal.RequireFromString("-63.2"), StartDate: "2016-01-01 12:00:00", EndDate: "2016-01-01 13:00:00"},
	}

	require.NoError(t, replaceAll(context.Background(), ex, levees))

	require.Len(t, ex.queries, 4)
	assert.Contains(t, ex.queries[0], "CREATE TABLE IF NOT EXISTS levees")
	assert.Contains(t, ex.queries[1], "TRUNCATE levees")
	assert.Equal(t, "A", ex.args[2][0])
	assert.Equal(t, true, ex.args[2][9])
	assert.Equal(t, "B", ex.args[3][0])
	assert.Equal(t, false, ex.args[3][9])
}

func TestReplaceAll_Errors(t *testing.T) {
	valid := []domain.Levee{{Name: "A"}}

	err := replaceAll(context.Background(), &recordingExecer{failOn: "INSERT"}, valid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `insert "A"`)

	err = replaceAll(context.Background(), &recordingExecer{}, []domain.Levee{{}})
	assert.ErrorIs(t, err, domain.ErrInvalidLevee)
}
