// internal/models/cv.go
package models

// CVStatus is the review state of an uploaded CV.
type CVStatus string

const (
	CVStatusPending     CVStatus = "pending"
	CVStatusReviewed    CVStatus = "reviewed"
	CVStatusShortlisted CVStatus = "shortlisted"
	CVStatusRejected    CVStatus = "rejected"
)

// Valid reports whether s is one of the known review states.
func (s CVStatus) Valid() bool {
	switch s {
	case CVStatusPending, CVStatusReviewed, CVStatusShortlisted, CVStatusRejected:
		return true
	}
	return false
}

// FitLevel is the coarse AI-assigned qualitative match rating.
type FitLevel string

const (
	FitStrong FitLevel = "Strong"
	FitMedium FitLevel = "Medium"
	FitWeak   FitLevel = "Weak"
)

// Pipeline steps for a candidate.
const (
	PipelineNew          = "new"
	PipelineScreening    = "screening"
	PipelineInterviewing = "interviewing"
	PipelineOffer        = "offer"
	PipelineHired        = "hired"
	PipelineRejected     = "rejected"
)

// ParsedCVData is a denormalized profile snapshot assigned to a CV at creation
// time and never independently mutated.
type ParsedCVData struct {
	Name               string   `json:"name"`
	Role               string   `json:"role"`
	Company            string   `json:"company"`
	ExperienceYears    int      `json:"experienceYears"`
	Skills             []string `json:"skills"`
	Education          string   `json:"education"`
	MatchScore         int      `json:"matchScore,omitempty"`
	Strengths          []string `json:"strengths,omitempty"`
	Weaknesses         []string `json:"weaknesses,omitempty"`
	MatchedSkills      []string `json:"matchedSkills,omitempty"`
	MissingSkills      []string `json:"missingSkills,omitempty"`
	FitLevel           FitLevel `json:"fitLevel,omitempty"`
	PipelineStep       string   `json:"pipelineStep,omitempty"`
	InterviewQuestions []string `json:"interviewQuestions,omitempty"`
}

// CV is an uploaded candidate resume record. A CV belongs to exactly one job
// and lives only for the duration of the running process.
type CV struct {
	ID         string        `json:"id"`
	FileName   string        `json:"fileName"`
	FileSize   int64         `json:"fileSize"` // bytes
	UploadedAt string        `json:"uploadedAt"` // ISO 8601
	Status     CVStatus      `json:"status"`
	Parsed     *ParsedCVData `json:"parsed,omitempty"`
}

// UploadedFile carries the caller-visible attributes of an upload request.
// The mock store discards both name and size and fabricates replacements from
// the assigned profile, matching the original behavior.
type UploadedFile struct {
	Name string
	Size int64
}
