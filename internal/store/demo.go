package store

import (
	"time"

	"github.com/jonathan/smarthire/internal/types"
)

// DemoJobs returns the built-in sample requisitions.
func DemoJobs(now time.Time) []types.Job {
	return []types.Job{
		{
			ID:               "j1",
			Title:            "Senior Frontend Engineer",
			Location:         "Remote",
			SalaryRange:      "$140k - $180k",
			Seniority:        "Senior",
			SkillsRequired:   []string{"React", "TypeScript", "Tailwind", "Node.js"},
			Responsibilities: []string{"Build scalable UI", "Mentor juniors", "Architect frontend"},
			Description:      "We are looking for a Senior Frontend Engineer to lead our web team. You will be responsible for architecture, code quality, and performance.",
			Status:           types.JobActive,
			CreatedAt:        now,
		},
		{
			ID:               "j2",
			Title:            "Product Manager",
			Location:         "New York, NY",
			SalaryRange:      "$130k - $160k",
			Seniority:        "Mid-Level",
			SkillsRequired:   []string{"Roadmapping", "Agile", "User Research", "SQL"},
			Responsibilities: []string{"Define product strategy", "Work with engineering", "Analyze user data"},
			Description:      "Join our product team to drive the vision of our core platform. You will work closely with engineering and design.",
			Status:           types.JobActive,
			CreatedAt:        now,
		},
	}
}

// DemoCandidates returns the built-in sample candidates for DemoJobs.
func DemoCandidates(now time.Time) []types.Candidate {
	return []types.Candidate{
		{
			ID:         "c1",
			JobID:      "j1",
			Name:       "Jane Doe",
			Email:      "jane@example.com",
			Phone:      "555-0101",
			ResumeText: "Senior React Developer with 6 years experience. Expert in TypeScript and Performance optimization. Previously at Tech Corp.",
			Status:     types.StatusScreened,
			Notes:      "Initial impression: Very strong technical background. Need to verify culture fit in the next round.",
			CreatedAt:  now,
			AIAnalysis: &types.AIAnalysis{
				SkillsDetected:  []string{"React", "TypeScript", "Performance"},
				ExperienceYears: 6,
				FitScore:        92,
				Recommendation:  types.StrongFit,
				Strengths:       []string{"Deep React knowledge", "Senior experience"},
				Gaps:            []string{"Node.js backend experience limited"},
				Summary:         "Jane is a strong frontend specialist with significant React ecosystem experience.",
			},
		},
		{
			ID:         "c2",
			JobID:      "j1",
			Name:       "John Smith",
			Email:      "john@example.com",
			Phone:      "555-0102",
			ResumeText: "Fullstack developer mostly focused on Python/Django. Started learning React last year. Good generalist.",
			Status:     types.StatusNew,
			CreatedAt:  now,
		},
	}
}

// LoadDemoSnapshot prepends the demo records to the existing collections.
// Records whose id is already present are skipped, so loading twice does not
// create duplicates. It returns how many jobs and candidates were added.
func (s *Store) LoadDemoSnapshot() (jobsAdded, candidatesAdded int) {
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	var jobs []types.Job
	for _, j := range DemoJobs(now) {
		if s.jobIndexLocked(j.ID) < 0 {
			jobs = append(jobs, j)
		}
	}
	var candidates []types.Candidate
	for _, c := range DemoCandidates(now) {
		if s.candidateIndexLocked(c.ID) < 0 {
			candidates = append(candidates, c)
		}
	}

	s.jobs = append(jobs, s.jobs...)
	s.candidates = append(candidates, s.candidates...)
	s.persistLocked("load_demo")
	return len(jobs), len(candidates)
}
