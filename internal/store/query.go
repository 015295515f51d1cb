package store

import (
	"strings"

	"github.com/jonathan/smarthire/internal/types"
)

// Jobs returns a copy of the job collection, newest first.
func (s *Store) Jobs() []types.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Job, len(s.jobs))
	for i, j := range s.jobs {
		out[i] = j.Clone()
	}
	return out
}

// Candidates returns a copy of the candidate collection, newest first.
func (s *Store) Candidates() []types.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Candidate, len(s.candidates))
	for i, c := range s.candidates {
		out[i] = c.Clone()
	}
	return out
}

// Job looks up a job by id.
func (s *Store) Job(id string) (types.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.jobIndexLocked(id); i >= 0 {
		return s.jobs[i].Clone(), true
	}
	return types.Job{}, false
}

// Candidate looks up a candidate by id.
func (s *Store) Candidate(id string) (types.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.candidateIndexLocked(id); i >= 0 {
		return s.candidates[i].Clone(), true
	}
	return types.Candidate{}, false
}

// FilterAll is the job-page default: every candidate except rejected ones.
const FilterAll = "all"

// CandidatesForJob returns the job's candidates. filter is FilterAll, or a
// status name to show only that status.
func (s *Store) CandidatesForJob(jobID, filter string) []types.Candidate {
	if filter == "" {
		filter = FilterAll
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Candidate, 0)
	for _, c := range s.candidates {
		if c.JobID != jobID {
			continue
		}
		if filter == FilterAll {
			if c.Status == types.StatusRejected {
				continue
			}
		} else if string(c.Status) != filter {
			continue
		}
		out = append(out, c.Clone())
	}
	return out
}

// SearchResult groups matches by kind.
type SearchResult struct {
	Jobs       []types.Job       `json:"jobs"`
	Candidates []types.Candidate `json:"candidates"`
}

// Search matches q case-insensitively against job title and location and
// candidate name and email. An empty query matches nothing.
func (s *Store) Search(q string) SearchResult {
	res := SearchResult{Jobs: []types.Job{}, Candidates: []types.Candidate{}}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return res
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if strings.Contains(strings.ToLower(j.Title), q) || strings.Contains(strings.ToLower(j.Location), q) {
			res.Jobs = append(res.Jobs, j.Clone())
		}
	}
	for _, c := range s.candidates {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Email), q) {
			res.Candidates = append(res.Candidates, c.Clone())
		}
	}
	return res
}

// JobCount is one bar of the dashboard chart.
type JobCount struct {
	JobID      string `json:"job_id"`
	Title      string `json:"title"`
	Candidates int    `json:"candidates"`
}

// Stats is the dashboard summary.
type Stats struct {
	ActiveJobs       int        `json:"active_jobs"`
	TotalCandidates  int        `json:"total_candidates"`
	Screened         int        `json:"screened"`
	OffersReady      int        `json:"offers_ready"`
	CandidatesPerJob []JobCount `json:"candidates_per_job"`
}

// dashboardJobs is how many jobs the per-job chart shows.
const dashboardJobs = 5

// Stats computes dashboard numbers. Screened counts every candidate past new.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{TotalCandidates: len(s.candidates), CandidatesPerJob: []JobCount{}}
	for _, j := range s.jobs {
		if j.Status == types.JobActive {
			st.ActiveJobs++
		}
	}
	perJob := make(map[string]int)
	for _, c := range s.candidates {
		if c.Status != types.StatusNew {
			st.Screened++
		}
		if c.Status == types.StatusOffer {
			st.OffersReady++
		}
		perJob[c.JobID]++
	}
	for i, j := range s.jobs {
		if i == dashboardJobs {
			break
		}
		st.CandidatesPerJob = append(st.CandidatesPerJob, JobCount{JobID: j.ID, Title: j.Title, Candidates: perJob[j.ID]})
	}
	return st
}
