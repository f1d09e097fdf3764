package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"":     0,
		"30":   30 * time.Second,
		"2d":   48 * time.Hour,
		"1m":   time.Minute,
		" 5s ": 5 * time.Second,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDuration("xd")
	assert.Error(t, err)
}

func TestSnapshotStamp(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC)
	assert.Equal(t, "20240309070501", SnapshotStamp(ts))
}
