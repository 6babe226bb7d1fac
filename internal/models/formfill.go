// internal/models/formfill.go
package models

// JobFieldPayload is the set of requisition fields the extraction service
// derives from a free-text prompt. It is broadcast whole; listening forms
// apply it as a single atomic update.
type JobFieldPayload struct {
	Title            string   `json:"title"`
	Department       string   `json:"department"`
	Location         string   `json:"location"`
	TargetYearsMin   *int     `json:"targetYearsMin,omitempty"`
	TargetYearsMax   *int     `json:"targetYearsMax,omitempty"`
	RequiredSkills   []string `json:"requiredSkills"`
	NiceToHaveSkills []string `json:"niceToHaveSkills,omitempty"`
	Description      string   `json:"description,omitempty"`
}
