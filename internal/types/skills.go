package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Skills is the ordered list of skills of a résumé. Duplicates are kept.
//
// The canonical JSON form is an array of strings. Older documents stored a
// single comma-joined string; UnmarshalJSON accepts both, so such documents
// are migrated to the array form on their next write.
type Skills []string

// ParseSkills splits a comma-joined skills string, trimming each piece and
// dropping empty ones.
func ParseSkills(s string) Skills {
	parts := strings.Split(s, ",")
	out := make(Skills, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String joins the skills the way the editor displays them.
func (s Skills) String() string {
	return strings.Join(s, ", ")
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Skills) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*s = Skills{}
	case string:
		*s = ParseSkills(v)
	case []any:
		out := make(Skills, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("skills[%d]: expected string, got %T", i, item)
			}
			out = append(out, str)
		}
		*s = out
	default:
		// Neither a list nor a string: treated as no skills.
		*s = Skills{}
	}
	return nil
}

// MarshalJSON implements json.Marshaler. A nil list encodes as [].
func (s Skills) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}
