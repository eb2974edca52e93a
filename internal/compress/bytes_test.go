package compress

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		bytes float64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"negative zero", math.Copysign(0, -1), "0 B"},
		{"fraction of a byte", 0.5, "0.50 B"},
		{"small bytes", 600, "600.00 B"},
		{"just under 1 KB", 1000, "1000.00 B"},
		{"largest byte value", 1023, "1023.00 B"},
		{"rounds up into KB", 1023.999, "1.00 KB"},
		{"largest whole byte count below 1 MB", 1048575, "1.00 MB"},
		{"largest whole byte count below 1 GB", 1073741823, "1.00 GB"},
		{"negative value rounding up into KB", -1023.999, "-1.00 KB"},
		{"exactly 1 KB", 1024, "1.00 KB"},
		{"1.5 KB", 1536, "1.50 KB"},
		{"2 KB", 2048, "2.00 KB"},
		{"1 MB", 1 << 20, "1.00 MB"},
		{"1 GB", 1 << 30, "1.00 GB"},
		{"1 TB", 1 << 40, "1.00 TB"},
		{"beyond TB stays in TB", 1 << 50, "1024.00 TB"},
		{"negative bytes", -600, "-600.00 B"},
		{"negative KB", -1536, "-1.50 KB"},
		{"negative MB", -3 * (1 << 20), "-3.00 MB"},
		{"NaN", math.NaN(), "NaN B"},
		{"positive infinity", math.Inf(1), "+Inf B"},
		{"negative infinity", math.Inf(-1), "-Inf B"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, FormatBytes(tt.bytes))
		})
	}
}

func TestFormatKB(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.59 KB", FormatKB(600))
	assert.Equal(t, "0.00 KB", FormatKB(0))
	assert.Equal(t, "-2.00 KB", FormatKB(-2048))
	assert.Equal(t, "1024.00 KB", FormatKB(1<<20))
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "60.00%", FormatPercent(60))
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "-12.50%", FormatPercent(-12.5))
}

// splitFormatted splits "<value> <unit>" into its numeric value and unit index.
func splitFormatted(t *testing.T, s string) (float64, int) {
	t.Helper()

	fields := strings.Fields(s)
	if len(fields) != 2 {
		t.Fatalf("unexpected format %q", s)
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		t.Fatalf("unexpected value in %q: %v", s, err)
	}

	unit := slices.Index(byteUnits, fields[1])
	if unit < 0 {
		t.Fatalf("unexpected unit in %q", s)
	}

	return value, unit
}

func TestFormatBytesProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500

	properties := gopter.NewProperties(parameters)

	properties.Property("displayed magnitude stays in [1, 1024) below TB", prop.ForAll(
		func(b int64) bool {
			if b == 0 {
				return FormatBytes(0) == "0 B"
			}

			value, unit := splitFormatted(t, FormatBytes(float64(b)))

			magnitude := math.Abs(value)
			if magnitude < 1 {
				return false
			}

			return magnitude < 1024 || unit == len(byteUnits)-1
		},
		gen.Int64Range(-(1 << 55), 1<<55),
	))

	properties.Property("values just below a unit boundary move to the next unit", prop.ForAll(
		func(exp int, below int64) bool {
			b := float64(int64(1)<<(10*exp) - below)

			value, unit := splitFormatted(t, FormatBytes(b))

			return math.Abs(value) < 1024 && unit <= exp
		},
		gen.IntRange(1, len(byteUnits)-1),
		gen.Int64Range(1, 4),
	))

	properties.Property("sign of the input is kept", prop.ForAll(
		func(b int64) bool {
			if b == 0 {
				return true
			}

			value, _ := splitFormatted(t, FormatBytes(float64(b)))

			return (value < 0) == (b < 0)
		},
		gen.Int64Range(-(1 << 55), 1<<55),
	))

	properties.TestingRun(t)
}
