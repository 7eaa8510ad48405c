package resumes

import (
	"encoding/json"
	"time"
)

// coerceTime converts a stored timestamp to time.Time. Backends hand back
// time.Time values, RFC 3339 strings, unix seconds, or {seconds, nanoseconds}
// objects; anything else, including a missing value, yields now.
func coerceTime(v any, now time.Time) time.Time {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return now
		}
		return t
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return now
		}
		return parsed
	case float64:
		return fromUnix(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return now
		}
		return fromUnix(f)
	case int64:
		return time.Unix(t, 0).UTC()
	case int:
		return time.Unix(int64(t), 0).UTC()
	case map[string]any:
		secs, ok := t["seconds"].(float64)
		if !ok {
			secs, ok = t["_seconds"].(float64)
		}
		if !ok {
			return now
		}
		nanos, _ := t["nanoseconds"].(float64)
		if nanos == 0 {
			nanos, _ = t["_nanoseconds"].(float64)
		}
		return time.Unix(int64(secs), int64(nanos)).UTC()
	default:
		return now
	}
}

func fromUnix(secs float64) time.Time {
	whole := int64(secs)
	frac := int64((secs - float64(whole)) * 1e9)
	return time.Unix(whole, frac).UTC()
}
