package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner-server/common"
)

func TestParseTimestamp_Layouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01T10:00:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:00:00.750", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01 10:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-01T12:00:00+02:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{" 2024-01-01T10:00:00Z ", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		got, err := ParseTimestamp(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, tc.want.Equal(got), "%s: got %v", tc.in, got)
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "2024-13-01", "01/02/2024"} {
		_, err := ParseTimestamp(in)
		assert.ErrorIs(t, err, common.ErrValidation, in)
	}
}

func TestFormatTimestamp_RoundTrip(t *testing.T) {
	for _, in := range []string{"2024-01-01T10:00:00", "1999-12-31T23:59:59"} {
		parsed, err := ParseTimestamp(in)
		require.NoError(t, err)
		assert.Equal(t, in, FormatTimestamp(parsed))
	}
}

func TestFormatTimestamp_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	assert.Equal(t, "2024-05-01T07:30:00", FormatTimestamp(time.Date(2024, 5, 1, 10, 30, 0, 0, loc)))
}
