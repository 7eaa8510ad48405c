package docstore

// Normalize prepares a value for writing: map entries holding nil are
// dropped, nil array elements (and a nil root) become "", and nested maps
// and arrays are normalized recursively with their structure preserved.
//
// Normalize is idempotent.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case Document:
		return Document(normalizeMap(t))
	case map[string]any:
		return normalizeMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// NormalizeDocument is Normalize for a whole document.
func NormalizeDocument(d Document) Document {
	if d == nil {
		return Document{}
	}
	return Document(normalizeMap(d))
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, val := range m {
		if val == nil {
			continue
		}
		out[k] = Normalize(val)
	}
	return out
}
