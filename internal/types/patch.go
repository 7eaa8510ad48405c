package types

// ResumePatch is a partial update of a ResumeRecord. Nil fields are absent:
// they are omitted from the encoded document and left untouched in storage.
type ResumePatch struct {
	Title        *string            `json:"title,omitempty" validate:"omitempty,max=200"`
	PersonalInfo *PersonalInfo      `json:"personalInfo,omitempty"`
	Experience   *[]ExperienceEntry `json:"experience,omitempty" validate:"omitempty,dive"`
	Education    *[]EducationEntry  `json:"education,omitempty" validate:"omitempty,dive"`
	Skills       *Skills            `json:"skills,omitempty"`
}

// PatchFromRecord builds a patch that overwrites every editable field.
func PatchFromRecord(r *ResumeRecord) *ResumePatch {
	title := r.Title
	info := r.PersonalInfo
	exp := append([]ExperienceEntry{}, r.Experience...)
	edu := append([]EducationEntry{}, r.Education...)
	skills := append(Skills{}, r.Skills...)
	return &ResumePatch{
		Title:        &title,
		PersonalInfo: &info,
		Experience:   &exp,
		Education:    &edu,
		Skills:       &skills,
	}
}

// Empty reports whether the patch carries no field.
func (p *ResumePatch) Empty() bool {
	return p == nil || (p.Title == nil && p.PersonalInfo == nil && p.Experience == nil &&
		p.Education == nil && p.Skills == nil)
}

// Reconcile restores the period invariant on the entries carried by the patch.
func (p *ResumePatch) Reconcile() {
	if p.Experience != nil {
		for i := range *p.Experience {
			(*p.Experience)[i].Reconcile()
		}
	}
	if p.Education != nil {
		for i := range *p.Education {
			(*p.Education)[i].Reconcile()
		}
	}
}

// ApplyTo copies the present fields onto r.
func (p *ResumePatch) ApplyTo(r *ResumeRecord) {
	if p == nil {
		return
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.PersonalInfo != nil {
		r.PersonalInfo = *p.PersonalInfo
	}
	if p.Experience != nil {
		r.Experience = append([]ExperienceEntry{}, (*p.Experience)...)
	}
	if p.Education != nil {
		r.Education = append([]EducationEntry{}, (*p.Education)...)
	}
	if p.Skills != nil {
		r.Skills = append(Skills{}, (*p.Skills)...)
	}
}
