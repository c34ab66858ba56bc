package units_test

import (
	"testing"

	"github.com/arcflux/diskcarve/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytesSuffixes(t *testing.T) {
	cases := map[string]uint64{
		"512":    512,
		"4MB":    4 << 20,
		"1GiB":   1 << 30,
		"2K":     2 << 10,
		"1TiB":   1 << 40,
		"":       0,
		"100B":   100,
		"1.5MiB": uint64(1.5 * float64(1<<20)),
	}
	for in, want := range cases {
		got, err := units.ParseBytes(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseBytesRejectsGarbage(t *testing.T) {
	_, err := units.ParseBytes("not-a-size")
	assert.Error(t, err)
}
