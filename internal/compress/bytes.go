package compress

import (
	"fmt"
	"math"
	"strconv"
)

// byteUnits are the display units in ascending base-1024 order.
//
//nolint:gochecknoglobals // Lookup table
var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a signed byte count as "<value> <unit>" with two decimals.
// The unit is picked on the absolute value so the displayed magnitude falls in
// [1, 1024), except for TB which has no upper bound. The sign is kept.
func FormatBytes(bytes float64) string {
	if bytes == 0 {
		return "0 B"
	}

	if math.IsNaN(bytes) || math.IsInf(bytes, 0) {
		return fmt.Sprintf("%.2f %s", bytes, byteUnits[0])
	}

	abs := math.Abs(bytes)
	exp := 0

	for abs >= 1024 && exp < len(byteUnits)-1 {
		abs /= 1024
		exp++
	}

	// A value that rounds up to 1024.00 is shown in the next unit.
	if exp < len(byteUnits)-1 {
		if shown, _ := strconv.ParseFloat(strconv.FormatFloat(abs, 'f', 2, 64), 64); shown >= 1024 {
			exp++
		}
	}

	return fmt.Sprintf("%.2f %s", bytes/math.Pow(1024, float64(exp)), byteUnits[exp])
}

// FormatKB renders a byte count explicitly in kilobytes, e.g. "0.59 KB".
func FormatKB(bytes float64) string {
	return fmt.Sprintf("%.2f KB", bytes/1024)
}

// FormatPercent renders a percentage with two decimals and a trailing '%'.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}
