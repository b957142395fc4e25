package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCalendarDate(t *testing.T) {
	loc := time.FixedZone("COT", -5*60*60)

	got, err := ParseCalendarDate("2024-03-01", loc)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), got)

	_, err = ParseCalendarDate("", loc)
	assert.Error(t, err)

	_, err = ParseCalendarDate("01/03/2024", loc)
	assert.Error(t, err)
}

func TestEndOfDay(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	end := EndOfDay(start)

	assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, 999000000, time.UTC), end)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), StartOfDay(start))
}

func TestGenerateID(t *testing.T) {
	id, err := GenerateID()

	require.NoError(t, err)
	assert.Len(t, id, idLength)

	password, err := GeneratePassword()
	require.NoError(t, err)
	assert.Len(t, password, 20)
}
