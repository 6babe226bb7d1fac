// internal/store/jobstore/seed.go
package jobstore

import "recruitdesk/internal/models"

func intPtr(v int) *int { return &v }

// seedJobs returns the fixed example requisitions the store lazily seeds when
// no snapshot exists yet. A fresh copy every call so callers can't mutate the
// template.
func seedJobs() []models.JobRequisition {
	return []models.JobRequisition{
		{
			ID:               "1",
			Title:            "Senior Frontend Engineer",
			Department:       "Engineering",
			Location:         models.LocationRemote,
			EmploymentType:   models.EmploymentFullTime,
			HiringManager:    "Sarah Chen",
			TargetYearsMin:   intPtr(5),
			TargetYearsMax:   intPtr(9),
			RequiredSkills:   []string{"React", "TypeScript", "CSS"},
			NiceToHaveSkills: []string{"GraphQL", "Next.js"},
			Status:           models.JobStatusActive,
			CandidateCount:   12,
			CreatedAt:        "2024-01-15T09:30:00Z",
			UpdatedAt:        "2024-01-15T09:30:00Z",
		},
		{
			ID:               "2",
			Title:            "Data Engineer",
			Department:       "Data",
			Location:         models.LocationHybrid,
			EmploymentType:   models.EmploymentFullTime,
			HiringManager:    "Marcus Webb",
			TargetYearsMin:   intPtr(3),
			TargetYearsMax:   intPtr(6),
			RequiredSkills:   []string{"Python", "SQL", "Airflow"},
			NiceToHaveSkills: []string{"Spark", "dbt"},
			Status:           models.JobStatusActive,
			CandidateCount:   8,
			CreatedAt:        "2024-01-22T14:05:00Z",
			UpdatedAt:        "2024-02-01T10:12:00Z",
		},
		{
			ID:               "3",
			Title:            "Product Designer",
			Department:       "Design",
			Location:         models.LocationOnsite,
			EmploymentType:   models.EmploymentContract,
			HiringManager:    "Priya Raman",
			RequiredSkills:   []string{"Figma", "Prototyping"},
			NiceToHaveSkills: []string{"Design systems"},
			Status:           models.JobStatusPaused,
			CandidateCount:   5,
			CreatedAt:        "2024-02-03T08:45:00Z",
			UpdatedAt:        "2024-02-10T16:20:00Z",
		},
		{
			ID:               "4",
			Title:            "Engineering Manager",
			Department:       "Engineering",
			Location:         models.LocationRemote,
			EmploymentType:   models.EmploymentFullTime,
			HiringManager:    "Sarah Chen",
			TargetYearsMin:   intPtr(8),
			TargetYearsMax:   intPtr(12),
			RequiredSkills:   []string{"People management", "System design"},
			NiceToHaveSkills: []string{},
			Status:           models.JobStatusClosed,
			CandidateCount:   21,
			CreatedAt:        "2023-11-30T11:00:00Z",
			UpdatedAt:        "2024-01-05T09:00:00Z",
		},
	}
}
