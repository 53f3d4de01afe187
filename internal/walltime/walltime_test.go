package walltime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("HH:MM:SS", func(t *testing.T) {
		d, err := Parse("02:30:00")
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour+30*time.Minute, d)
	})

	t.Run("MM:SS", func(t *testing.T) {
		d, err := Parse("45:00")
		require.NoError(t, err)
		assert.Equal(t, 45*time.Minute, d)
	})

	t.Run("D-HH:MM:SS", func(t *testing.T) {
		d, err := Parse("2-12:00:00")
		require.NoError(t, err)
		assert.Equal(t, 60*time.Hour, d)
	})

	t.Run("invalid forms", func(t *testing.T) {
		invalid := []string{
			"",
			"not-a-time",
			"60",
			"1:2:3:4",
			"01:60:00",  // minutes out of range
			"01:00:61",  // seconds out of range
			"24:00:00",  // hours out of range, needs the day form
			"-1:00:00",  // negative day count
			"2-12:00",   // day form must be D-HH:MM:SS
			"1-25:00:00",
			"0a:00:00",
		}
		for _, s := range invalid {
			_, err := Parse(s)
			assert.Error(t, err, "input %q", s)
		}
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "8:00:00", Format(8*time.Hour))
	assert.Equal(t, "0:01:30", Format(90*time.Second))
	assert.Equal(t, "0:00:00", Format(0))
	// Days fold into the hour count, no day prefix on output.
	assert.Equal(t, "26:00:00", Format(26*time.Hour))
}

func TestRoundTrip(t *testing.T) {
	cases := map[string]string{
		"02:30:00":   "2:30:00",
		"45:00":      "0:45:00",
		"2-12:00:00": "60:00:00",
	}
	for in, want := range cases {
		d, err := Parse(in)
		require.NoError(t, err)
		assert.Equal(t, want, Format(d), "input %q", in)
	}
}
