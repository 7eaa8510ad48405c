// Package types provides type definitions for structured data used throughout the cv-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// DefaultTitle is shown for records that were saved without a title.
const DefaultTitle = "Untitled"

// ResumeRecord is a single résumé owned by exactly one user.
type ResumeRecord struct {
	ID           string            `json:"id,omitempty"`
	UserID       string            `json:"userId,omitempty"`
	Title        string            `json:"title" validate:"max=200"`
	PersonalInfo PersonalInfo      `json:"personalInfo"`
	Experience   []ExperienceEntry `json:"experience" validate:"dive"`
	Education    []EducationEntry  `json:"education" validate:"dive"`
	Skills       Skills            `json:"skills"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// PersonalInfo holds the header fields of a résumé.
type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

// ContractType is the French employment contract kind of an experience entry.
type ContractType string

// Known contract types. The empty value means "not specified".
const (
	ContractNone       ContractType = ""
	ContractCDI        ContractType = "CDI"
	ContractCDD        ContractType = "CDD"
	ContractStage      ContractType = "Stage"
	ContractAlternance ContractType = "Alternance"
	ContractFreelance  ContractType = "Freelance"
	ContractInterim    ContractType = "Interim"
)

// ContractTypes lists every non-empty contract type in display order.
var ContractTypes = []ContractType{
	ContractCDI,
	ContractCDD,
	ContractStage,
	ContractAlternance,
	ContractFreelance,
	ContractInterim,
}

// ExperienceEntry is one professional experience.
type ExperienceEntry struct {
	Title        string       `json:"title"`
	Company      string       `json:"company"`
	Location     string       `json:"location"`
	ContractType ContractType `json:"contractType" validate:"omitempty,oneof=CDI CDD Stage Alternance Freelance Interim"`
	Period
	Description string `json:"description"`
}

// EducationEntry is one degree or training.
type EducationEntry struct {
	Degree string `json:"degree"`
	School string `json:"school"`
	Period
	Description string `json:"description"`
}

// NewRecord returns the record the editor starts from: empty fields with
// one blank experience and one blank education entry.
func NewRecord() *ResumeRecord {
	return &ResumeRecord{
		Experience: []ExperienceEntry{{}},
		Education:  []EducationEntry{{}},
		Skills:     Skills{},
	}
}

// DisplayTitle returns the title or DefaultTitle when it is blank.
func (r *ResumeRecord) DisplayTitle() string {
	if r == nil || r.Title == "" {
		return DefaultTitle
	}
	return r.Title
}

// Reconcile restores the period invariant on every entry and replaces nil
// sequences with empty ones. It is applied to records read from storage.
func (r *ResumeRecord) Reconcile() {
	if r.Experience == nil {
		r.Experience = []ExperienceEntry{}
	}
	if r.Education == nil {
		r.Education = []EducationEntry{}
	}
	if r.Skills == nil {
		r.Skills = Skills{}
	}
	for i := range r.Experience {
		r.Experience[i].Reconcile()
	}
	for i := range r.Education {
		r.Education[i].Reconcile()
	}
}

// Clone returns a deep copy of the record.
func (r *ResumeRecord) Clone() *ResumeRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.Experience != nil {
		c.Experience = append([]ExperienceEntry(nil), r.Experience...)
	}
	if r.Education != nil {
		c.Education = append([]EducationEntry(nil), r.Education...)
	}
	if r.Skills != nil {
		c.Skills = append(Skills(nil), r.Skills...)
	}
	return &c
}
