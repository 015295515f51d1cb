package recruiting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/smarthire/internal/export"
	"github.com/jonathan/smarthire/internal/ingestion"
	"github.com/jonathan/smarthire/internal/pipeline"
	"github.com/jonathan/smarthire/internal/store"
	"github.com/jonathan/smarthire/internal/types"
)

// Candidates lists every candidate, newest first.
func (s *Service) Candidates() []types.Candidate {
	return s.store.Candidates()
}

// Candidate returns one candidate.
func (s *Service) Candidate(id string) (types.Candidate, error) {
	c, ok := s.store.Candidate(id)
	if !ok {
		return types.Candidate{}, fmt.Errorf("%w: candidate %s", ErrNotFound, id)
	}
	return c, nil
}

// candidateWithJob resolves a candidate and the job it applied to.
func (s *Service) candidateWithJob(id string) (types.Candidate, types.Job, error) {
	c, err := s.Candidate(id)
	if err != nil {
		return c, types.Job{}, err
	}
	job, err := s.Job(c.JobID)
	if err != nil {
		return c, job, err
	}
	return c, job, nil
}

// AddCandidate stores a candidate without screening.
func (s *Service) AddCandidate(req types.CreateCandidateRequest) (types.Candidate, error) {
	if err := req.Validate(); err != nil {
		return types.Candidate{}, invalid(err)
	}
	c := types.Candidate{
		ID:         s.newID(),
		JobID:      req.JobID,
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Phone:      req.Phone,
		ResumeText: ingestion.CleanText(req.ResumeText),
		Status:     req.Status,
		Notes:      req.Notes,
	}
	if err := s.insertCandidate(c); err != nil {
		return types.Candidate{}, err
	}
	return s.Candidate(c.ID)
}

func (s *Service) insertCandidate(c types.Candidate) error {
	err := s.store.AddCandidateToJob(c)
	switch {
	case errors.Is(err, store.ErrUnknownJob):
		return fmt.Errorf("%w: job %s", ErrNotFound, c.JobID)
	case errors.Is(err, pipeline.ErrUnknownStatus):
		return invalid(err)
	}
	return err
}

// UpdateCandidate merges patch into the candidate.
func (s *Service) UpdateCandidate(id string, patch types.CandidatePatch) (types.Candidate, error) {
	if patch.Status != nil && !pipeline.Valid(*patch.Status) {
		return types.Candidate{}, fmt.Errorf("%w: %w %q", ErrInvalidInput, pipeline.ErrUnknownStatus, *patch.Status)
	}
	c, ok := s.store.UpdateCandidate(id, patch)
	if !ok {
		return types.Candidate{}, fmt.Errorf("%w: candidate %s", ErrNotFound, id)
	}
	return c, nil
}

// SetStatus assigns any pipeline status.
func (s *Service) SetStatus(id string, req types.StatusRequest) (types.Candidate, error) {
	if err := req.Validate(); err != nil {
		return types.Candidate{}, invalid(err)
	}
	return s.move(id, func(from types.CandidateStatus) (types.CandidateStatus, error) {
		return pipeline.Transition(from, req.Status)
	})
}

// Advance moves the candidate one stage forward.
func (s *Service) Advance(id string) (types.Candidate, error) {
	return s.move(id, func(from types.CandidateStatus) (types.CandidateStatus, error) {
		next, ok := pipeline.Next(from)
		if !ok {
			return from, fmt.Errorf("%w: %s", ErrNoNextStage, from)
		}
		return next, nil
	})
}

// Reject moves the candidate to rejected.
func (s *Service) Reject(id string) (types.Candidate, error) {
	return s.move(id, pipeline.Reject)
}

// Restore returns a rejected candidate to new.
func (s *Service) Restore(id string) (types.Candidate, error) {
	return s.move(id, pipeline.Restore)
}

func (s *Service) move(id string, step func(types.CandidateStatus) (types.CandidateStatus, error)) (types.Candidate, error) {
	c, err := s.Candidate(id)
	if err != nil {
		return c, err
	}
	to, err := step(c.Status)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnknownStatus) {
			return c, invalid(err)
		}
		return c, err
	}
	if to == c.Status {
		return c, nil
	}
	return s.UpdateCandidate(id, types.StatusPatch(to))
}

// DeleteCandidate removes a candidate.
func (s *Service) DeleteCandidate(id string) error {
	c, ok := s.store.Candidate(id)
	if !ok || !s.store.DeleteCandidate(id) {
		return fmt.Errorf("%w: candidate %s", ErrNotFound, id)
	}
	s.notify.AddToast(fmt.Sprintf("Deleted candidate %s", c.Name), types.SeveritySuccess)
	return nil
}

// ExportCandidate renders the candidate's profile as CSV.
func (s *Service) ExportCandidate(id string) (filename, content string, err error) {
	c, job, err := s.candidateWithJob(id)
	if err != nil {
		return "", "", err
	}
	content, err = export.CandidateCSV(c, job)
	if err != nil {
		return "", "", err
	}
	s.notify.AddToast("CSV export started", types.SeverityInfo)
	return export.CandidateFilename(c.Name), content, nil
}
