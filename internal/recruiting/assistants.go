package recruiting

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/smarthire/internal/ingestion"
	"github.com/jonathan/smarthire/internal/types"
	"go.uber.org/zap"
)

// ScreenCandidate screens a resume against the job and stores the candidate
// as screened with the analysis attached. Nothing is stored when screening fails.
func (s *Service) ScreenCandidate(ctx context.Context, req types.ScreenCandidateRequest) (types.Candidate, error) {
	if err := req.Validate(); err != nil {
		return types.Candidate{}, invalid(err)
	}
	raw, contentType := req.ResumeText, "text/plain"
	if strings.TrimSpace(raw) == "" {
		raw, contentType = req.ResumeHTML, "text/html"
	}
	resume, err := ingestion.ResumeText(raw, contentType)
	if err != nil {
		return types.Candidate{}, invalid(err)
	}
	job, err := s.Job(req.JobID)
	if err != nil {
		return types.Candidate{}, err
	}

	var analysis *types.AIAnalysis
	target := req.JobID + "/" + strings.ToLower(strings.TrimSpace(req.Name))
	err = s.runAgent(ctx, ActionScreen, target, func(ctx context.Context) error {
		var err error
		analysis, err = s.agents.ScreenResume(ctx, resume, job)
		return err
	})
	if err != nil {
		return types.Candidate{}, s.failed(ActionScreen, "Screening failed. Please check API key and try again.", err)
	}
	s.store.IncrementUsage()

	c := types.Candidate{
		ID:         s.newID(),
		JobID:      req.JobID,
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Phone:      req.Phone,
		ResumeText: resume,
		Status:     types.StatusScreened,
		AIAnalysis: analysis,
	}
	if err := s.insertCandidate(c); err != nil {
		return types.Candidate{}, s.failed(ActionScreen, fmt.Sprintf("%s was screened but the job was removed meanwhile.", c.Name), err)
	}
	return s.Candidate(c.ID)
}

// GenerateInterview attaches a tailored interview question set.
func (s *Service) GenerateInterview(ctx context.Context, id string, req types.InterviewRequest) (types.Candidate, error) {
	c, job, err := s.candidateWithJob(id)
	if err != nil {
		return c, err
	}
	if c.AIAnalysis == nil {
		return c, fmt.Errorf("%w: %s", ErrNotScreened, id)
	}

	var questions *types.InterviewQuestions
	err = s.runAgent(ctx, ActionInterview, id, func(ctx context.Context) error {
		var err error
		questions, err = s.agents.GenerateInterviewQuestions(ctx, job, c.AIAnalysis, req.Tone)
		return err
	})
	if err != nil {
		return c, s.failed(ActionInterview, "Failed to generate questions", err)
	}

	s.store.IncrementUsage()
	updated, err := s.applyResult(id, types.CandidatePatch{InterviewQuestions: questions})
	s.notify.AddNotification("Questions Generated", fmt.Sprintf("Interview guide created for %s", c.Name), types.SeveritySuccess)
	s.notify.AddToast("Interview questions generated!", types.SeveritySuccess)
	return updated, err
}

// EstimateSalary attaches a market salary estimate for the candidate's job.
func (s *Service) EstimateSalary(ctx context.Context, id string) (types.Candidate, error) {
	c, job, err := s.candidateWithJob(id)
	if err != nil {
		return c, err
	}

	var estimate *types.SalaryEstimationResult
	err = s.runAgent(ctx, ActionSalary, id, func(ctx context.Context) error {
		var err error
		estimate, err = s.agents.EstimateSalary(ctx, job.Title, job.Location, job.Seniority, job.SkillsRequired)
		return err
	})
	if err != nil {
		return c, s.failed(ActionSalary, "Failed to estimate salary", err)
	}

	s.store.IncrementUsage()
	updated, err := s.applyResult(id, types.CandidatePatch{SalaryEstimation: estimate})
	s.notify.AddNotification("Salary Estimated", "Market range analysis completed", types.SeveritySuccess)
	s.notify.AddToast("Salary range estimated!", types.SeveritySuccess)
	return updated, err
}

// CheckBackground attaches a text-only risk review of the resume.
func (s *Service) CheckBackground(ctx context.Context, id string) (types.Candidate, error) {
	c, job, err := s.candidateWithJob(id)
	if err != nil {
		return c, err
	}

	var check *types.BackgroundCheckResult
	err = s.runAgent(ctx, ActionBackground, id, func(ctx context.Context) error {
		var err error
		check, err = s.agents.AssessBackgroundRisk(ctx, c.Name, c.ResumeText, job.Title)
		return err
	})
	if err != nil {
		return c, s.failed(ActionBackground, "Failed to run background check", err)
	}

	s.store.IncrementUsage()
	updated, err := s.applyResult(id, types.CandidatePatch{BackgroundCheck: check})
	s.notify.AddNotification("Risk Check Complete", "Preliminary screening finished", types.SeverityInfo)
	s.notify.AddToast("Background check analysis complete", types.SeverityInfo)
	return updated, err
}

// GenerateOffer drafts an offer and moves the candidate to offer in one update.
func (s *Service) GenerateOffer(ctx context.Context, id string, req types.OfferRequest) (types.Candidate, error) {
	if err := req.Validate(); err != nil {
		return types.Candidate{}, invalid(err)
	}
	c, job, err := s.candidateWithJob(id)
	if err != nil {
		return c, err
	}

	var offer *types.OfferResult
	err = s.runAgent(ctx, ActionOffer, id, func(ctx context.Context) error {
		var err error
		offer, err = s.agents.WriteOffer(ctx, c.Name, job.Title, req.Salary, req.StartDate, req.Benefits)
		return err
	})
	if err != nil {
		return c, s.failed(ActionOffer, "Failed to generate offer", err)
	}

	s.store.IncrementUsage()
	status := types.StatusOffer
	updated, err := s.applyResult(id, types.CandidatePatch{OfferData: offer, Status: &status})
	s.notify.AddNotification("Offer Ready", "Offer letter generated successfully", types.SeveritySuccess)
	s.notify.AddToast("Offer letter generated!", types.SeveritySuccess)
	return updated, err
}

// applyResult stores an agent result. A candidate deleted while the agent was
// running is left deleted and reported as not found.
func (s *Service) applyResult(id string, patch types.CandidatePatch) (types.Candidate, error) {
	c, ok := s.store.UpdateCandidate(id, patch)
	if !ok {
		s.log.Info("discarding agent result for deleted candidate", zap.String("candidate_id", id))
		return types.Candidate{}, fmt.Errorf("%w: candidate %s", ErrNotFound, id)
	}
	return c, nil
}
