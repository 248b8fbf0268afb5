package split

import (
	"strconv"
	"strings"

	"github.com/hupe1980/pfamprep/core"
)

// DefaultSeed is the seed used when none is configured.
const DefaultSeed int64 = 42

// ParseSeed parses a decimal 64-bit signed seed. Anything else, including
// floats and values outside the int64 range, is a configuration error.
func ParseSeed(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, core.NewConfigurationError("seed", s, err)
	}
	return v, nil
}
