package server

import (
	"net/http"

	"github.com/jonathan/smarthire/internal/store"
	"github.com/jonathan/smarthire/internal/types"
)

// ListJobsResponse represents the response for listing jobs
type ListJobsResponse struct {
	Jobs  []types.Job `json:"jobs"`
	Count int         `json:"count"`
}

// ListCandidatesResponse represents the response for candidate listings
type ListCandidatesResponse struct {
	Candidates []types.Candidate `json:"candidates"`
	Count      int               `json:"count"`
	Filter     string            `json:"filter,omitempty"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, _ *http.Request) {
	jobs := s.svc.Jobs()
	s.jsonResponse(w, http.StatusOK, ListJobsResponse{Jobs: jobs, Count: len(jobs)})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req types.CreateJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.svc.CreateJob(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, job)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.svc.Job(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleDeleteJob deletes a job and every candidate attached to it
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteJob(r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleJobCandidates lists a job's candidates filtered by ?status= (default all)
func (s *Server) handleJobCandidates(w http.ResponseWriter, r *http.Request) {
	filter := statusFilter(r)
	candidates, err := s.svc.JobCandidates(r.PathValue("id"), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ListCandidatesResponse{
		Candidates: candidates,
		Count:      len(candidates),
		Filter:     filter,
	})
}

func (s *Server) handleExportJobCandidates(w http.ResponseWriter, r *http.Request) {
	filename, content, err := s.svc.ExportJobCandidates(r.PathValue("id"), statusFilter(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	csvResponse(w, filename, content)
}

func statusFilter(r *http.Request) string {
	if f := r.URL.Query().Get("status"); f != "" {
		return f
	}
	return store.FilterAll
}

// handleGenerateDescription drafts a job description without storing it
func (s *Server) handleGenerateDescription(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateDescriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.GenerateDescription(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

func (s *Server) handleSourcingStrategy(w http.ResponseWriter, r *http.Request) {
	var req types.SourcingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.SourcingStrategy(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}
