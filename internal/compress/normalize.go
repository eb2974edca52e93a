package compress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// UnknownName is substituted when an entry carries no usable name.
const UnknownName = "unknown"

// Field names accepted for each value, in lookup order.
//
//nolint:gochecknoglobals // Lookup tables
var (
	nameKeys     = []string{"name", "file", "path"}
	originalKeys = []string{"original", "original_size", "originalSize"}
	finalKeys    = []string{"final", "final_size", "finalSize", "compressed"}
)

// RawEntry is one element of the engine's result array, as decoded.
// Nothing about its shape is guaranteed.
type RawEntry map[string]any

// StatRecord is a normalized per-file statistic.
type StatRecord struct {
	// Name is the file name reported by the engine, or UnknownName.
	Name string
	// Original is the size in bytes before compression.
	Original float64
	// Final is the size in bytes after compression.
	Final float64
}

// Valid reports whether both sizes are real numbers.
// Records with a size that could not be coerced carry NaN.
func (r StatRecord) Valid() bool {
	return !math.IsNaN(r.Original) && !math.IsNaN(r.Final)
}

// ParseResults decodes the engine payload as an array of entries and
// normalizes each one. It fails only when the payload is not a JSON array.
func ParseResults(data []byte) ([]StatRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	// Anything but whitespace after the array is still a malformed document.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after result array", ErrMalformedPayload)
	}

	if raw == nil {
		return nil, fmt.Errorf("%w: expected an array, got null", ErrMalformedPayload)
	}

	records := make([]StatRecord, 0, len(raw))

	for _, elem := range raw {
		entry, _ := elem.(map[string]any) // non-objects normalize to all defaults

		records = append(records, Normalize(entry))
	}

	return records, nil
}

// Normalize maps a raw entry to a StatRecord. It never fails.
//
// The name is the first truthy value among its aliases, so an empty string,
// zero or false falls through to the next alias and finally UnknownName.
// Sizes use nullish fallback: only a missing or null value defaults to 0,
// everything else goes through numeric coercion.
func Normalize(entry RawEntry) StatRecord {
	record := StatRecord{Name: UnknownName}

	for _, key := range nameKeys {
		if v := entry[key]; truthy(v) {
			record.Name = stringify(v)

			break
		}
	}

	if v, ok := lookup(entry, originalKeys); ok {
		record.Original = toNumber(v)
	}

	if v, ok := lookup(entry, finalKeys); ok {
		record.Final = toNumber(v)
	}

	return record
}

// lookup returns the first non-null value among keys.
func lookup(entry RawEntry, keys []string) (any, bool) {
	for _, key := range keys {
		if v, ok := entry[key]; ok && v != nil {
			return v, true
		}
	}

	return nil, false
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case json.Number:
		f := toNumber(val)

		return f != 0 && !math.IsNaN(f)
	case float64:
		return val != 0 && !math.IsNaN(val)
	default:
		return true
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}

		return string(data)
	}
}

// toNumber performs loose numeric coercion. Values that cannot be read as a
// number become NaN.
func toNumber(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case json.Number:
		f, err := strconv.ParseFloat(val.String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return math.NaN()
		}

		return f
	case float64:
		return val
	case bool:
		if val {
			return 1
		}

		return 0
	case string:
		return parseNumeric(val)
	case []any:
		switch len(val) {
		case 0:
			return 0
		case 1:
			if _, isBool := val[0].(bool); isBool {
				return math.NaN()
			}

			return toNumber(val[0])
		default:
			return math.NaN()
		}
	default:
		return math.NaN()
	}
}

func parseNumeric(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") ||
		strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O") ||
		strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B") {
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return math.NaN()
		}

		return float64(n)
	}

	// ParseFloat accepts spellings like "inf" or "nan" that are not numbers here.
	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	if strings.HasPrefix(lower, "inf") || strings.HasPrefix(lower, "nan") {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range literals keep their ±Inf result.
		if errors.Is(err, strconv.ErrRange) {
			return f
		}

		return math.NaN()
	}

	return f
}
