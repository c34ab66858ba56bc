// Package units parses human-readable byte-size flags like "4MB",
// "1GiB", or a bare number of bytes, the same shape of flag the
// retrieved tool's CLI accepted for --scan-buffer-size/--max-file-size.
package units

import (
	"fmt"
	"strconv"
	"strings"
)

var suffixes = []struct {
	suffix string
	factor uint64
}{
	{"TiB", 1 << 40}, {"GiB", 1 << 30}, {"MiB", 1 << 20}, {"KiB", 1 << 10},
	{"TB", 1 << 40}, {"GB", 1 << 30}, {"MB", 1 << 20}, {"KB", 1 << 10},
	{"T", 1 << 40}, {"G", 1 << 30}, {"M", 1 << 20}, {"K", 1 << 10},
	{"B", 1},
}

// ParseBytes parses strings like "512", "4MB", "1GiB" into a byte
// count. An empty string is treated as 0.
func ParseBytes(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf.suffix) {
			numPart := strings.TrimSpace(strings.TrimSuffix(s, suf.suffix))
			val, err := strconv.ParseFloat(numPart, 64)
			if err != nil {
				return 0, fmt.Errorf("units: invalid size %q: %w", s, err)
			}
			return uint64(val * float64(suf.factor)), nil
		}
	}

	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("units: invalid size %q: %w", s, err)
	}
	return val, nil
}
