package types

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// isoDateLayouts are the date forms accepted by the editor and the renderer.
var isoDateLayouts = []string{"2006-01-02", "2006-01"}

// ParseISODate parses a calendar date in one of the accepted ISO forms
// (YYYY-MM-DD, YYYY-MM or a full RFC 3339 timestamp).
func ParseISODate(s string) (time.Time, bool) {
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Validator returns the shared validator with the résumé rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, ok := ParseISODate(fl.Field().String())
			return ok
		})
		validate.RegisterStructValidation(func(sl validator.StructLevel) {
			p := sl.Current().Interface().(Period)
			if !p.Valid() {
				sl.ReportError(p.EndDate, "EndDate", "endDate", "inprogress", "")
			}
		}, Period{})
	})
	return validate
}

// Validate checks the record before it is written.
func (r *ResumeRecord) Validate() error {
	return Validator().Struct(r)
}

// Validate checks the patch before it is written.
func (p *ResumePatch) Validate() error {
	return Validator().Struct(p)
}
