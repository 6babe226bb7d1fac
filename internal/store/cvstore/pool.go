// internal/store/cvstore/pool.go
package cvstore

import "recruitdesk/internal/models"

// profilePool is the fixed set of parsed profiles handed out to uploads in
// round-robin order. The cursor is store-wide: assignment order is global
// upload order, not per-job order.
var profilePool = []models.ParsedCVData{
	{
		Name:            "Elena Vasquez",
		Role:            "Senior Backend Engineer",
		Company:         "Streamline Systems",
		ExperienceYears: 8,
		Skills:          []string{"Go", "PostgreSQL", "Kubernetes", "gRPC"},
		Education:       "BSc Computer Science, UT Austin",
		MatchScore:      87,
		Strengths:       []string{"Distributed systems depth", "Mentorship track record"},
		Weaknesses:      []string{"No frontend exposure"},
		MatchedSkills:   []string{"Go", "PostgreSQL"},
		MissingSkills:   []string{"Terraform"},
		FitLevel:        models.FitStrong,
		PipelineStep:    models.PipelineScreening,
		InterviewQuestions: []string{
			"Walk through a schema migration you ran without downtime.",
			"How would you shard a write-heavy Postgres table?",
		},
	},
	{
		Name:            "Tom Okafor",
		Role:            "Full-Stack Developer",
		Company:         "BrightCart",
		ExperienceYears: 4,
		Skills:          []string{"TypeScript", "React", "Node.js", "MongoDB"},
		Education:       "BEng Software Engineering, University of Lagos",
		MatchScore:      72,
		Strengths:       []string{"Fast shipping cadence"},
		Weaknesses:      []string{"Limited testing discipline"},
		MatchedSkills:   []string{"TypeScript", "React"},
		MissingSkills:   []string{"GraphQL"},
		FitLevel:        models.FitMedium,
		PipelineStep:    models.PipelineNew,
	},
	{
		Name:            "Mira Sato",
		Role:            "Data Engineer",
		Company:         "Northwind Analytics",
		ExperienceYears: 6,
		Skills:          []string{"Python", "SQL", "Airflow", "Spark"},
		Education:       "MSc Data Science, Kyoto University",
		MatchScore:      91,
		Strengths:       []string{"Pipeline reliability", "Cost-aware design"},
		MatchedSkills:   []string{"Python", "SQL", "Airflow"},
		MissingSkills:   []string{},
		FitLevel:        models.FitStrong,
		PipelineStep:    models.PipelineInterviewing,
		InterviewQuestions: []string{
			"Describe a backfill you had to run twice and why.",
		},
	},
	{
		Name:            "Dmitri Koval",
		Role:            "DevOps Engineer",
		Company:         "Perimeter Cloud",
		ExperienceYears: 5,
		Skills:          []string{"AWS", "Terraform", "Docker", "Bash"},
		Education:       "BSc Information Systems, KPI Kyiv",
		MatchScore:      64,
		Strengths:       []string{"Incident response"},
		Weaknesses:      []string{"Sparse application-layer experience"},
		MatchedSkills:   []string{"AWS"},
		MissingSkills:   []string{"Kubernetes"},
		FitLevel:        models.FitMedium,
		PipelineStep:    models.PipelineNew,
	},
	{
		Name:            "Aisha Rahman",
		Role:            "Machine Learning Engineer",
		Company:         "Lumen Labs",
		ExperienceYears: 3,
		Skills:          []string{"Python", "PyTorch", "MLflow", "SQL"},
		Education:       "MSc Machine Learning, Imperial College London",
		MatchScore:      58,
		Strengths:       []string{"Strong research instincts"},
		Weaknesses:      []string{"Little production experience"},
		MatchedSkills:   []string{"Python"},
		MissingSkills:   []string{"Go", "Kubernetes"},
		FitLevel:        models.FitWeak,
		PipelineStep:    models.PipelineNew,
	},
}

// PoolSize is exported for callers reasoning about assignment order.
const PoolSize = 5

// profileAt returns a deep-enough copy of the pool entry so stored CVs never
// alias the template slices.
func profileAt(cursor int) models.ParsedCVData {
	p := profilePool[cursor%len(profilePool)]
	p.Skills = append([]string(nil), p.Skills...)
	p.Strengths = append([]string(nil), p.Strengths...)
	p.Weaknesses = append([]string(nil), p.Weaknesses...)
	p.MatchedSkills = append([]string(nil), p.MatchedSkills...)
	p.MissingSkills = append([]string(nil), p.MissingSkills...)
	p.InterviewQuestions = append([]string(nil), p.InterviewQuestions...)
	return p
}
