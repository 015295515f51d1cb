package types

import "time"

// CandidateStatus is a position in the hiring pipeline.
type CandidateStatus string

const (
	StatusNew          CandidateStatus = "new"
	StatusScreened     CandidateStatus = "screened"
	StatusInterviewing CandidateStatus = "interviewing"
	StatusOffer        CandidateStatus = "offer"
	StatusRejected     CandidateStatus = "rejected"
)

// Recommendation is the screener's verdict.
type Recommendation string

const (
	StrongFit Recommendation = "strong_fit"
	MediumFit Recommendation = "medium_fit"
	NotFit    Recommendation = "not_fit"
)

// RiskLevel is the background-check risk bucket.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Candidate is a person under consideration for a specific job.
type Candidate struct {
	ID                 string                  `json:"id"`
	JobID              string                  `json:"job_id"`
	Name               string                  `json:"name"`
	Email              string                  `json:"email"`
	Phone              string                  `json:"phone"`
	ResumeText         string                  `json:"resume_text"`
	Status             CandidateStatus         `json:"status"`
	Notes              string                  `json:"notes,omitempty"`
	AIAnalysis         *AIAnalysis             `json:"ai_analysis,omitempty"`
	InterviewQuestions *InterviewQuestions     `json:"interview_questions,omitempty"`
	BackgroundCheck    *BackgroundCheckResult  `json:"background_check,omitempty"`
	OfferData          *OfferResult            `json:"offer_data,omitempty"`
	SalaryEstimation   *SalaryEstimationResult `json:"salary_estimation,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
}

// FitScore returns the screening score, or -1 when the candidate was never screened.
func (c Candidate) FitScore() int {
	if c.AIAnalysis == nil {
		return -1
	}
	return c.AIAnalysis.FitScore
}

// Clone returns a deep copy: the assistant results and their slices are not
// shared with c.
func (c Candidate) Clone() Candidate {
	if a := c.AIAnalysis; a != nil {
		cp := *a
		cp.SkillsDetected = cloneStrings(a.SkillsDetected)
		cp.Strengths = cloneStrings(a.Strengths)
		cp.Gaps = cloneStrings(a.Gaps)
		c.AIAnalysis = &cp
	}
	if q := c.InterviewQuestions; q != nil {
		c.InterviewQuestions = &InterviewQuestions{
			Technical:  cloneStrings(q.Technical),
			Behavioral: cloneStrings(q.Behavioral),
			Culture:    cloneStrings(q.Culture),
		}
	}
	if b := c.BackgroundCheck; b != nil {
		cp := *b
		cp.Concerns = cloneStrings(b.Concerns)
		cp.VerificationRecommendations = cloneStrings(b.VerificationRecommendations)
		c.BackgroundCheck = &cp
	}
	if o := c.OfferData; o != nil {
		cp := *o
		cp.NextSteps = cloneStrings(o.NextSteps)
		c.OfferData = &cp
	}
	if e := c.SalaryEstimation; e != nil {
		cp := *e
		cp.MarketFactors = cloneStrings(e.MarketFactors)
		c.SalaryEstimation = &cp
	}
	return c
}

// AIAnalysis is the screener output attached to a candidate.
type AIAnalysis struct {
	SkillsDetected  []string       `json:"skills_detected"`
	ExperienceYears float64        `json:"experience_years"`
	FitScore        int            `json:"fit_score"`
	Recommendation  Recommendation `json:"recommendation"`
	Strengths       []string       `json:"strengths"`
	Gaps            []string       `json:"gaps"`
	Summary         string         `json:"summary"`
}

// FitBucket labels a fit score: Strong (>=80), Medium (>=50) or Low.
func FitBucket(score int) string {
	switch {
	case score >= 80:
		return "Strong"
	case score >= 50:
		return "Medium"
	default:
		return "Low"
	}
}

// InterviewQuestions is a tailored question set.
type InterviewQuestions struct {
	Technical  []string `json:"technical"`
	Behavioral []string `json:"behavioral"`
	Culture    []string `json:"culture"`
}

// BackgroundCheckResult is a text-only risk review of a resume.
type BackgroundCheckResult struct {
	RiskAssessment              RiskLevel `json:"risk_assessment"`
	Concerns                    []string  `json:"concerns"`
	VerificationRecommendations []string  `json:"verification_recommendations"`
	Summary                     string    `json:"summary"`
}

// OfferResult is a drafted offer letter and its cover email.
type OfferResult struct {
	OfferLetter string   `json:"offer_letter"`
	EmailCopy   string   `json:"email_copy"`
	NextSteps   []string `json:"next_steps"`
}

// SalaryEstimationResult is a market compensation estimate.
type SalaryEstimationResult struct {
	EstimatedRange    string   `json:"estimated_range"`
	MarketFactors     []string `json:"market_factors"`
	Justification     string   `json:"justification"`
	NegotiationAdvice string   `json:"negotiation_advice"`
}

// SourcingResult is a talent sourcing plan for a role.
type SourcingResult struct {
	Platforms             []string          `json:"platforms"`
	BooleanSearchStrings  map[string]string `json:"boolean_search_strings"`
	IdealCandidateProfile string            `json:"ideal_candidate_profile"`
	OutreachTemplates     []string          `json:"outreach_templates"`
}

// JobDescriptionResult is the generated description text.
type JobDescriptionResult struct {
	Description string `json:"description"`
}
