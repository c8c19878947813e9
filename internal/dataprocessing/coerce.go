package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// invoiceDateLayouts are the timestamp formats observed in the source
// dataset and its CSV round-trips, tried in order.
var invoiceDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/06 15:04",
}

// isMissing reports whether a raw cell value counts as missing: absent
// keys arrive as nil, and spreadsheet extraction yields empty strings for
// blank cells.
func isMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// coerceString renders a raw cell as a string.
func coerceString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// Customer IDs come out of the workbook as floats (12345.0).
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// coerceInt converts a raw cell to an integer quantity. Fractional values
// are rejected rather than truncated.
func coerceInt(v interface{}) (int64, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int64:
		return val, nil
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("value %v is not an integer", val)
		}
		return int64(val), nil
	case string:
		trimmed := strings.TrimSpace(strings.ReplaceAll(val, ",", ""))
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as integer", val)
		}
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("value %q is not an integer", val)
		}
		return int64(f), nil
	default:
		return 0, fmt.Errorf("unsupported type %T for integer field", v)
	}
}

// coerceFloat converts a raw cell to a float.
func coerceFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case string:
		trimmed := strings.TrimSpace(strings.ReplaceAll(val, ",", ""))
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as number", val)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported type %T for numeric field", v)
	}
}

// coerceTime converts a raw cell to a timestamp, trying the known source
// layouts for string cells.
func coerceTime(v interface{}) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		trimmed := strings.TrimSpace(val)
		for _, layout := range invoiceDateLayouts {
			if ts, err := time.Parse(layout, trimmed); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse %q as timestamp", val)
	default:
		return time.Time{}, fmt.Errorf("unsupported type %T for timestamp field", v)
	}
}
