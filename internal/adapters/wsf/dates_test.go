package wsf_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ferryclock/internal/adapters/wsf"
)

func TestParseWSDOTDate_WithNegativeOffset(t *testing.T) {
	// Act
	parsed, err := wsf.ParseWSDOTDate("/Date(1672531200000-0800)/")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), *parsed)
}

func TestParseWSDOTDate_WithPositiveOffset(t *testing.T) {
	// The offset is display metadata only; the millis already encode the
	// absolute instant.
	parsed, err := wsf.ParseWSDOTDate("/Date(1672531200000+0100)/")

	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), *parsed)
}

func TestParseWSDOTDate_WithoutOffset(t *testing.T) {
	parsed, err := wsf.ParseWSDOTDate("/Date(1672531200000)/")

	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), *parsed)
}

func TestParseWSDOTDate_PreEpoch(t *testing.T) {
	// A leading minus sign is part of the millis, not an offset separator.
	parsed, err := wsf.ParseWSDOTDate("/Date(-86400000)/")

	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC), *parsed)
}

func TestParseWSDOTDate_EmptyAndNull(t *testing.T) {
	for _, raw := range []string{"", "  ", "null"} {
		parsed, err := wsf.ParseWSDOTDate(raw)

		require.NoError(t, err)
		assert.Nil(t, parsed)
	}
}

func TestParseWSDOTDate_Malformed(t *testing.T) {
	for _, raw := range []string{"/Date()/", "not-a-date", "/Date(abc)/"} {
		parsed, err := wsf.ParseWSDOTDate(raw)

		assert.Error(t, err, "input %q", raw)
		assert.Nil(t, parsed)
	}
}
