// internal/models/job.go
package models

// JobStatus is the lifecycle state of a requisition.
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusPaused JobStatus = "paused"
	JobStatusClosed JobStatus = "closed"
)

// Valid reports whether s is one of the known lifecycle states.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusPaused, JobStatusClosed:
		return true
	}
	return false
}

// Work location arrangements.
const (
	LocationRemote = "Remote"
	LocationHybrid = "Hybrid"
	LocationOnsite = "Onsite"
)

// Employment types.
const (
	EmploymentFullTime = "Full-time"
	EmploymentPartTime = "Part-time"
	EmploymentContract = "Contract"
)

// JobRequisition is an open position record driving the hiring workflow.
// IDs are decimal strings assigned monotonically by the job store; the whole
// collection is persisted as one snapshot, there are no per-record writes.
type JobRequisition struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Department       string    `json:"department"`
	Location         string    `json:"location"`
	EmploymentType   string    `json:"employmentType"`
	HiringManager    string    `json:"hiringManager"`
	TargetYearsMin   *int      `json:"targetYearsMin,omitempty"`
	TargetYearsMax   *int      `json:"targetYearsMax,omitempty"`
	RequiredSkills   []string  `json:"requiredSkills"`
	NiceToHaveSkills []string  `json:"niceToHaveSkills"`
	Description      string    `json:"description,omitempty"`
	Status           JobStatus `json:"status"`
	CandidateCount   int       `json:"candidateCount"`
	CreatedAt        string    `json:"createdAt"` // ISO 8601
	UpdatedAt        string    `json:"updatedAt"` // ISO 8601
}

// CreateJobRequest carries the caller-supplied fields for a new requisition.
// Identity, status, counters and timestamps are stamped by the store.
type CreateJobRequest struct {
	Title            string   `json:"title"`
	Department       string   `json:"department"`
	Location         string   `json:"location"`
	EmploymentType   string   `json:"employmentType"`
	HiringManager    string   `json:"hiringManager"`
	TargetYearsMin   *int     `json:"targetYearsMin,omitempty"`
	TargetYearsMax   *int     `json:"targetYearsMax,omitempty"`
	RequiredSkills   []string `json:"requiredSkills"`
	NiceToHaveSkills []string `json:"niceToHaveSkills"`
	Description      string   `json:"description,omitempty"`
}
