package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("  ", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, d)

	loc := time.FixedZone("UTC-5", -5*60*60)
	d, err = ParseDate("2026-10-21", loc)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.True(t, d.Equal(time.Date(2026, 10, 21, 5, 0, 0, 0, time.UTC)))

	_, err = ParseDate("next tuesday", time.UTC)
	assert.Error(t, err)
}

func TestParseRecurrence(t *testing.T) {
	r, err := ParseRecurrence("")
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = ParseRecurrence(" Daily ")
	require.NoError(t, err)
	assert.Equal(t, &Recurrence{Enabled: true, Frequency: FrequencyDaily, Interval: 1}, r)

	r, err = ParseRecurrence("weekly/2")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Interval)
	assert.Equal(t, "weekly/2", r.String())

	_, err = ParseRecurrence("monthly/x")
	assert.Error(t, err)
}

func TestRecurrenceString(t *testing.T) {
	var r *Recurrence
	assert.Empty(t, r.String())
	assert.Empty(t, (&Recurrence{Frequency: FrequencyDaily, Interval: 1}).String(), "disabled")
	assert.Equal(t, "daily", (&Recurrence{Enabled: true, Frequency: FrequencyDaily, Interval: 1}).String())
}
