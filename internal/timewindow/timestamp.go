package timewindow

import (
	"encoding/json"
	"strconv"
)

// Feeds are inconsistent about units; anything above this looks like
// milliseconds rather than seconds.
const millisThreshold = 2e10

var timestampKeys = []string{"timestamp", "ts", "time"}

// TimestampSeconds extracts a trade record's timestamp, normalized to epoch
// seconds. Millisecond-looking values are rescaled. Returns false when no
// timestamp key is present or the value does not parse.
func TimestampSeconds(record map[string]any) (int64, bool) {
	for _, k := range timestampKeys {
		v, ok := record[k]
		if !ok || v == nil {
			continue
		}
		ts, ok := coerceInt64(v)
		if !ok {
			return 0, false
		}
		if ts > millisThreshold {
			ts /= 1000
		}
		return ts, true
	}
	return 0, false
}

func coerceInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		if f, err := t.Float64(); err == nil {
			return int64(f), true
		}
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}
