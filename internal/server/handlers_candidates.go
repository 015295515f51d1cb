package server

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jonathan/smarthire/internal/recruiting"
	"github.com/jonathan/smarthire/internal/types"
)

// maxResumeBytes bounds uploaded resume files.
const maxResumeBytes = 5 << 20

func (s *Server) handleListCandidates(w http.ResponseWriter, _ *http.Request) {
	candidates := s.svc.Candidates()
	s.jsonResponse(w, http.StatusOK, ListCandidatesResponse{Candidates: candidates, Count: len(candidates)})
}

// handleCreateCandidate adds a candidate by hand, without screening
func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCandidateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.svc.AddCandidate(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, c)
}

// handleScreenCandidate screens a resume and stores the screened candidate.
// It accepts either a JSON body or a multipart form with a "resume" file.
func (s *Server) handleScreenCandidate(w http.ResponseWriter, r *http.Request) {
	var (
		req types.ScreenCandidateRequest
		err error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		req, err = screenRequestFromForm(w, r)
	} else {
		err = decodeJSON(w, r, &req)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.svc.ScreenCandidate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, c)
}

func screenRequestFromForm(w http.ResponseWriter, r *http.Request) (types.ScreenCandidateRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxResumeBytes+maxBodyBytes)
	if err := r.ParseMultipartForm(maxResumeBytes); err != nil {
		return types.ScreenCandidateRequest{}, &ErrBadRequest{Message: "Invalid form: " + err.Error()}
	}
	req := types.ScreenCandidateRequest{
		JobID:      r.FormValue("job_id"),
		Name:       r.FormValue("name"),
		Email:      r.FormValue("email"),
		Phone:      r.FormValue("phone"),
		ResumeText: r.FormValue("resume_text"),
	}

	file, header, err := r.FormFile("resume")
	if err == http.ErrMissingFile {
		return req, nil
	}
	if err != nil {
		return req, &ErrBadRequest{Message: "Invalid resume upload: " + err.Error()}
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return req, &ErrBadRequest{Message: "Failed to read resume: " + err.Error()}
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == ".html" || ext == ".htm" || strings.Contains(header.Header.Get("Content-Type"), "html") {
		req.ResumeHTML = string(raw)
		req.ResumeText = ""
	} else {
		req.ResumeText = string(raw)
	}
	return req, nil
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Candidate(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

// handleUpdateCandidate merges the provided fields into the candidate
func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	var patch types.CandidatePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.svc.UpdateCandidate(r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteCandidate(r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req types.StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.candidateResult(w, r)(s.svc.SetStatus(r.PathValue("id"), req))
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	s.candidateResult(w, r)(s.svc.Advance(r.PathValue("id")))
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	s.candidateResult(w, r)(s.svc.Reject(r.PathValue("id")))
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	s.candidateResult(w, r)(s.svc.Restore(r.PathValue("id")))
}

// candidateResult writes the outcome of a call returning a candidate.
func (s *Server) candidateResult(w http.ResponseWriter, r *http.Request) func(types.Candidate, error) {
	return func(c types.Candidate, err error) {
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, c)
	}
}

// CandidateActionsResponse reports which assistant actions are running
type CandidateActionsResponse struct {
	CandidateID string                     `json:"candidate_id"`
	InFlight    map[recruiting.Action]bool `json:"in_flight"`
}

func (s *Server) handleCandidateActions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.svc.Candidate(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, CandidateActionsResponse{CandidateID: id, InFlight: s.svc.InFlight(id)})
}

func (s *Server) handleExportCandidate(w http.ResponseWriter, r *http.Request) {
	filename, content, err := s.svc.ExportCandidate(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	csvResponse(w, filename, content)
}

// Assistant actions. Each returns the updated candidate.

func (s *Server) handleInterviewQuestions(w http.ResponseWriter, r *http.Request) {
	var req types.InterviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.candidateResult(w, r)(s.svc.GenerateInterview(r.Context(), r.PathValue("id"), req))
}

func (s *Server) handleBackgroundCheck(w http.ResponseWriter, r *http.Request) {
	s.candidateResult(w, r)(s.svc.CheckBackground(r.Context(), r.PathValue("id")))
}

func (s *Server) handleSalaryEstimate(w http.ResponseWriter, r *http.Request) {
	s.candidateResult(w, r)(s.svc.EstimateSalary(r.Context(), r.PathValue("id")))
}

func (s *Server) handleOffer(w http.ResponseWriter, r *http.Request) {
	var req types.OfferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.candidateResult(w, r)(s.svc.GenerateOffer(r.Context(), r.PathValue("id"), req))
}
