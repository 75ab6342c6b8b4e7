package domain

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testZone = "America/Halifax"

func halifax(t *testing.T) TimeFormatter {
	t.Helper()
	tf, err := LoadTimeFormatter(testZone)
	require.NoError(t, err)
	return tf
}

func TestTimeFormatter_Parse(t *testing.T) {
	tf := halifax(t)
	loc, err := time.LoadLocation(testZone)
	require.NoError(t, err)

	tests := []struct {
		name     string
		value    string
		expected time.Time
	}{
		{"naive with seconds", "2025-01-01 14:00:00", time.Date(2025, 1, 1, 14, 0, 0, 0, loc)},
		{"naive without seconds", "2025-01-01 09:30", time.Date(2025, 1, 1, 9, 30, 0, 0, loc)},
		{"naive T separator", "2025-01-01T11:15:00", time.Date(2025, 1, 1, 11, 15, 0, 0, loc)},
		{"surrounding space", "  2025-01-01 14:00:00 ", time.Date(2025, 1, 1, 14, 0, 0, 0, loc)},
		{"explicit UTC offset", "2025-01-01T18:00:00Z", time.Date(2025, 1, 1, 14, 0, 0, 0, loc)},
		{"explicit local offset", "2025-01-01T14:00:00-04:00", time.Date(2025, 1, 1, 14, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tf.Parse(tt.value)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "want %s, got %s", tt.expected, got)
			assert.Equal(t, testZone, got.Location().String())
		})
	}
}

func TestTimeFormatter_ParseNaiveIsNotUTC(t *testing.T) {
	tf := halifax(t)

	got, err := tf.Parse("2025-01-01 14:00:00")
	require.NoError(t, err)

	// Halifax is UTC-4 in January.
	assert.Equal(t, time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC), got.UTC())
}

func TestTimeFormatter_ParseInvalid(t *testing.T) {
	tf := halifax(t)

	for _, value := range []string{"", "   ", "tomorrow", "2025-13-01 10:00:00", "01/01/2025 2pm"} {
		t.Run(value, func(t *testing.T) {
			_, err := tf.Parse(value)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedDateTime)
		})
	}
}

func TestTimeFormatter_Clock(t *testing.T) {
	tf := halifax(t)

	tests := []struct {
		value    string
		expected string
	}{
		{"2025-01-01 14:00:00", "2:00 PM"},
		{"2025-01-01 09:05:00", "9:05 AM"},
		{"2025-01-01 00:30:00", "12:30 AM"},
		{"2025-01-01 12:00:00", "12:00 PM"},
		{"2025-01-01T18:00:00Z", "2:00 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			parsed, err := tf.Parse(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tf.Clock(parsed))
		})
	}
}

func TestTimeFormatter_ISOAndICal(t *testing.T) {
	tf := halifax(t)
	parsed, err := tf.Parse("2025-01-01 14:00:00")
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01T14:00:00-04:00", tf.ISO(parsed))
	assert.Equal(t, "20250101T140000", tf.ICalLocal(parsed))
	assert.Equal(t, testZone, tf.Zone())
}

func TestTimeFormatter_Span(t *testing.T) {
	tf := halifax(t)

	t.Run("valid", func(t *testing.T) {
		span, err := tf.Span(Levee{Name: "A", StartDate: "2025-01-01 14:00:00", EndDate: "2025-01-01 16:00:00"})
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, span.End.Sub(span.Start))
	})

	t.Run("zero length", func(t *testing.T) {
		_, err := tf.Span(Levee{Name: "A", StartDate: "2025-01-01 14:00:00", EndDate: "2025-01-01 14:00:00"})
		require.NoError(t, err)
	})

	t.Run("bad start", func(t *testing.T) {
		_, err := tf.Span(Levee{Name: "A", StartDate: "noon", EndDate: "2025-01-01 16:00:00"})
		require.ErrorIs(t, err, ErrMalformedDateTime)
		assert.Contains(t, err.Error(), `levee "A" start date`)
	})

	t.Run("bad end", func(t *testing.T) {
		_, err := tf.Span(Levee{Name: "A", StartDate: "2025-01-01 14:00:00", EndDate: ""})
		require.ErrorIs(t, err, ErrMalformedDateTime)
		assert.Contains(t, err.Error(), "end date")
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := tf.Span(Levee{Name: "A", StartDate: "2025-01-01 14:00:00", EndDate: "2025-01-01 13:00:00"})
		require.ErrorIs(t, err, ErrMalformedDateTime)
	})
}

func TestNewTimeFormatter_NilLocation(t *testing.T) {
	tf := NewTimeFormatter(nil)
	assert.Equal(t, "UTC", tf.Zone())

	var zero TimeFormatter
	parsed, err := zero.Parse("2025-01-01 14:00:00")
	require.NoError(t, err)
	assert.Equal(t, "2:00 PM", zero.Clock(parsed))
}

func TestLoadTimeFormatter_UnknownZone(t *testing.T) {
	_, err := LoadTimeFormatter("Atlantic/Nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Atlantic/Nowhere")
}
