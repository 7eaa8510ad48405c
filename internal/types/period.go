package types

import "encoding/json"

// Period is the date range shared by experience and education entries.
// InProgress and a non-empty EndDate are mutually exclusive: use the
// setters, or Reconcile after decoding, to keep it that way.
type Period struct {
	StartDate  string `json:"startDate" validate:"omitempty,isodate"`
	EndDate    string `json:"endDate" validate:"omitempty,isodate"`
	InProgress bool   `json:"inProgress"`
}

// SetInProgress marks the period as ongoing. Turning it on clears EndDate.
func (p *Period) SetInProgress(inProgress bool) {
	p.InProgress = inProgress
	if inProgress {
		p.EndDate = ""
	}
}

// SetEndDate sets the end date. A non-empty date ends the period.
func (p *Period) SetEndDate(date string) {
	p.EndDate = date
	if date != "" {
		p.InProgress = false
	}
}

// Reconcile fixes a period decoded from storage. InProgress wins over a
// stale EndDate.
func (p *Period) Reconcile() {
	if p.InProgress {
		p.EndDate = ""
	}
}

// Valid reports whether the mutual exclusion holds.
func (p Period) Valid() bool {
	return !(p.InProgress && p.EndDate != "")
}

// truthy decodes any JSON value the way the web editor reads a flag back:
// false, null, "" and 0 are false, everything else is true. Older
// documents stored inProgress as "" for entries that were not ongoing.
type truthy bool

func (t *truthy) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*t = false
	case bool:
		*t = truthy(v)
	case string:
		*t = v != ""
	case float64:
		*t = v != 0
	default:
		*t = true
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting legacy inProgress
// values.
func (e *ExperienceEntry) UnmarshalJSON(data []byte) error {
	type plain ExperienceEntry
	aux := struct {
		*plain
		InProgress truthy `json:"inProgress"`
	}{plain: (*plain)(e), InProgress: truthy(e.InProgress)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.InProgress = bool(aux.InProgress)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting legacy inProgress
// values.
func (e *EducationEntry) UnmarshalJSON(data []byte) error {
	type plain EducationEntry
	aux := struct {
		*plain
		InProgress truthy `json:"inProgress"`
	}{plain: (*plain)(e), InProgress: truthy(e.InProgress)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.InProgress = bool(aux.InProgress)
	return nil
}
