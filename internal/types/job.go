// Package types provides the data model shared by the store, the agents and the HTTP API.
package types

import "time"

// JobStatus is the lifecycle state of a requisition.
type JobStatus string

const (
	JobActive JobStatus = "active"
	JobClosed JobStatus = "closed"
	JobDraft  JobStatus = "draft"
)

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobActive, JobClosed, JobDraft:
		return true
	}
	return false
}

// Job is a recruiting requisition.
type Job struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Location         string    `json:"location"`
	SalaryRange      string    `json:"salary_range"`
	Seniority        string    `json:"seniority"`
	SkillsRequired   []string  `json:"skills_required"`
	Responsibilities []string  `json:"responsibilities"`
	Description      string    `json:"description"`
	Status           JobStatus `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// Clone returns a deep copy so callers can't alias the store's slices.
func (j Job) Clone() Job {
	j.SkillsRequired = cloneStrings(j.SkillsRequired)
	j.Responsibilities = cloneStrings(j.Responsibilities)
	return j
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
