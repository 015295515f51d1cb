package recruiting

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/smarthire/internal/export"
	"github.com/jonathan/smarthire/internal/pipeline"
	"github.com/jonathan/smarthire/internal/store"
	"github.com/jonathan/smarthire/internal/types"
)

// Jobs lists every requisition, newest first.
func (s *Service) Jobs() []types.Job {
	return s.store.Jobs()
}

// Job returns one requisition.
func (s *Service) Job(id string) (types.Job, error) {
	j, ok := s.store.Job(id)
	if !ok {
		return types.Job{}, fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	return j, nil
}

// CreateJob validates req and stores a new requisition.
func (s *Service) CreateJob(req types.CreateJobRequest) (types.Job, error) {
	if err := req.Validate(); err != nil {
		return types.Job{}, invalid(err)
	}
	job := types.Job{
		ID:               s.newID(),
		Title:            strings.TrimSpace(req.Title),
		Location:         req.Location,
		SalaryRange:      req.SalaryRange,
		Seniority:        req.Seniority,
		SkillsRequired:   trimAll(req.SkillsRequired),
		Responsibilities: trimAll(req.Responsibilities),
		Description:      req.Description,
		Status:           req.Status,
	}
	if err := s.store.AddJob(job); err != nil {
		return types.Job{}, err
	}
	created, _ := s.store.Job(job.ID)
	return created, nil
}

// DeleteJob removes a requisition and all of its candidates.
func (s *Service) DeleteJob(id string) error {
	job, ok := s.store.Job(id)
	if !ok || !s.store.DeleteJob(id) {
		return fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	s.notify.AddToast(fmt.Sprintf("Job %q deleted", job.Title), types.SeveritySuccess)
	return nil
}

// JobCandidates lists a job's candidates. filter is "all" (everyone except
// rejected) or a single status.
func (s *Service) JobCandidates(jobID, filter string) ([]types.Candidate, error) {
	if _, err := s.Job(jobID); err != nil {
		return nil, err
	}
	if filter != "" && filter != store.FilterAll && !pipeline.Valid(types.CandidateStatus(filter)) {
		return nil, fmt.Errorf("%w: unknown status filter %q", ErrInvalidInput, filter)
	}
	return s.store.CandidatesForJob(jobID, filter), nil
}

// ExportJobCandidates renders the job's filtered candidate list as CSV.
func (s *Service) ExportJobCandidates(jobID, filter string) (filename, content string, err error) {
	candidates, err := s.JobCandidates(jobID, filter)
	if err != nil {
		return "", "", err
	}
	job, _ := s.store.Job(jobID)

	content, err = export.CandidateListCSV(candidates)
	if err != nil {
		return "", "", err
	}
	s.notify.AddToast("Candidate list exported", types.SeveritySuccess)
	return export.JobListFilename(job.Title), content, nil
}

// GenerateDescription drafts a job description. The result is returned for
// the recruiter to edit; nothing is stored.
func (s *Service) GenerateDescription(ctx context.Context, req types.GenerateDescriptionRequest) (*types.JobDescriptionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	var res *types.JobDescriptionResult
	err := s.runAgent(ctx, ActionDescription, "", func(ctx context.Context) error {
		var err error
		res, err = s.agents.WriteJobDescription(ctx, req.Title, trimAll(req.SkillsRequired),
			trimAll(req.Responsibilities), req.SalaryRange, req.Seniority)
		return err
	})
	if err != nil {
		return nil, s.failed(ActionDescription, "Failed to generate description. Please check your API key.", err)
	}
	s.store.IncrementUsage()
	return res, nil
}

// SourcingStrategy plans candidate sourcing. With a job id, empty request
// fields are taken from the stored job.
func (s *Service) SourcingStrategy(ctx context.Context, req types.SourcingRequest) (*types.SourcingResult, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	if req.JobID != "" {
		job, err := s.Job(req.JobID)
		if err != nil {
			return nil, err
		}
		if req.Title == "" {
			req.Title = job.Title
		}
		if len(req.Skills) == 0 {
			req.Skills = job.SkillsRequired
		}
		if req.Location == "" {
			req.Location = job.Location
		}
	}

	var res *types.SourcingResult
	err := s.runAgent(ctx, ActionSourcing, req.JobID, func(ctx context.Context) error {
		var err error
		res, err = s.agents.GenerateSourcingStrategy(ctx, req.Title, trimAll(req.Skills), req.Location)
		return err
	})
	if err != nil {
		return nil, s.failed(ActionSourcing, "Failed to generate sourcing strategy. Please check API key.", err)
	}
	s.store.IncrementUsage()
	return res, nil
}

// trimAll trims every item and drops the empty ones.
func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
