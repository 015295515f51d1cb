package agents

import (
	"context"
	"math"

	"github.com/jonathan/smarthire/internal/schemas"
	"github.com/jonathan/smarthire/internal/types"
)

// DefaultTone is the interviewer persona when none is given.
const DefaultTone = "Professional & Balanced"

// DefaultBenefits is used in offers that don't list benefits.
const DefaultBenefits = "Standard benefits package"

const (
	screenerDescriptionLimit  = 500
	interviewDescriptionLimit = 300
)

// screening mirrors the screener schema; optional fields may be absent and
// fit_score may come back fractional.
type screening struct {
	SkillsDetected  []string             `json:"skills_detected"`
	ExperienceYears float64              `json:"experience_years"`
	FitScore        float64              `json:"fit_score"`
	Recommendation  types.Recommendation `json:"recommendation"`
	Strengths       []string             `json:"strengths"`
	Gaps            []string             `json:"gaps"`
	Summary         string               `json:"summary"`
}

// ScreenResume scores a resume against a job.
func (a *Agents) ScreenResume(ctx context.Context, resumeText string, job types.Job) (*types.AIAnalysis, error) {
	var out screening
	err := a.generate(ctx, call{
		agent:  AgentScreener,
		prompt: "screen-resume",
		schema: schemas.Screening,
		data: map[string]string{
			"Title":       job.Title,
			"Skills":      joinList(job.SkillsRequired),
			"Description": truncate(job.Description, screenerDescriptionLimit),
			"Resume":      resumeText,
		},
	}, &out)
	if err != nil {
		return nil, err
	}

	analysis := &types.AIAnalysis{
		SkillsDetected:  nonNil(out.SkillsDetected),
		ExperienceYears: math.Max(out.ExperienceYears, 0),
		FitScore:        clampScore(out.FitScore),
		Recommendation:  out.Recommendation,
		Strengths:       nonNil(out.Strengths),
		Gaps:            nonNil(out.Gaps),
		Summary:         out.Summary,
	}
	if analysis.Recommendation == "" {
		analysis.Recommendation = types.NotFit
	}
	return analysis, nil
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Min(math.Max(v, 0), 100)))
}

// GenerateInterviewQuestions builds a question set from the screening analysis.
// An unscreened candidate gets questions from the job alone.
func (a *Agents) GenerateInterviewQuestions(ctx context.Context, job types.Job, analysis *types.AIAnalysis, tone string) (*types.InterviewQuestions, error) {
	if analysis == nil {
		analysis = &types.AIAnalysis{}
	}
	var out types.InterviewQuestions
	err := a.generate(ctx, call{
		agent:  AgentInterview,
		prompt: "interview-questions",
		schema: schemas.InterviewQuestions,
		data: map[string]string{
			"Title":       job.Title,
			"Description": truncate(job.Description, interviewDescriptionLimit),
			"Strengths":   joinList(analysis.Strengths),
			"Gaps":        joinList(analysis.Gaps),
			"Summary":     analysis.Summary,
			"Tone":        orDefault(tone, DefaultTone),
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	out.Technical = nonNil(out.Technical)
	out.Behavioral = nonNil(out.Behavioral)
	out.Culture = nonNil(out.Culture)
	return &out, nil
}

// WriteOffer drafts an offer letter and its cover email.
func (a *Agents) WriteOffer(ctx context.Context, candidateName, jobTitle, salary, startDate, benefits string) (*types.OfferResult, error) {
	var out types.OfferResult
	err := a.generate(ctx, call{
		agent:  AgentOffer,
		prompt: "write-offer",
		schema: schemas.Offer,
		data: map[string]string{
			"Name":      candidateName,
			"Title":     jobTitle,
			"Salary":    salary,
			"StartDate": startDate,
			"Benefits":  orDefault(benefits, DefaultBenefits),
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	out.NextSteps = nonNil(out.NextSteps)
	return &out, nil
}

// AssessBackgroundRisk reviews resume text for red flags. It never contacts
// any external verification service.
func (a *Agents) AssessBackgroundRisk(ctx context.Context, candidateName, resumeText, jobTitle string) (*types.BackgroundCheckResult, error) {
	var out types.BackgroundCheckResult
	err := a.generate(ctx, call{
		agent:  AgentBackground,
		prompt: "background-risk",
		schema: schemas.BackgroundCheck,
		data: map[string]string{
			"Name":   candidateName,
			"Title":  jobTitle,
			"Resume": resumeText,
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	out.Concerns = nonNil(out.Concerns)
	out.VerificationRecommendations = nonNil(out.VerificationRecommendations)
	return &out, nil
}
