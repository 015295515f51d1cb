package types

// CandidatePatch lists the candidate fields that can be updated independently.
// A nil field is left untouched; a non-nil field replaces the current value.
type CandidatePatch struct {
	Name               *string                 `json:"name,omitempty"`
	Email              *string                 `json:"email,omitempty"`
	Phone              *string                 `json:"phone,omitempty"`
	ResumeText         *string                 `json:"resume_text,omitempty"`
	Status             *CandidateStatus        `json:"status,omitempty"`
	Notes              *string                 `json:"notes,omitempty"`
	AIAnalysis         *AIAnalysis             `json:"ai_analysis,omitempty"`
	InterviewQuestions *InterviewQuestions     `json:"interview_questions,omitempty"`
	BackgroundCheck    *BackgroundCheckResult  `json:"background_check,omitempty"`
	OfferData          *OfferResult            `json:"offer_data,omitempty"`
	SalaryEstimation   *SalaryEstimationResult `json:"salary_estimation,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p CandidatePatch) Empty() bool {
	return p == CandidatePatch{}
}

// ApplyPatch merges p into c and returns the result. Identity fields
// (ID, JobID, CreatedAt) are never touched.
func ApplyPatch(c Candidate, p CandidatePatch) Candidate {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.ResumeText != nil {
		c.ResumeText = *p.ResumeText
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.AIAnalysis != nil {
		c.AIAnalysis = p.AIAnalysis
	}
	if p.InterviewQuestions != nil {
		c.InterviewQuestions = p.InterviewQuestions
	}
	if p.BackgroundCheck != nil {
		c.BackgroundCheck = p.BackgroundCheck
	}
	if p.OfferData != nil {
		c.OfferData = p.OfferData
	}
	if p.SalaryEstimation != nil {
		c.SalaryEstimation = p.SalaryEstimation
	}
	return c
}

// StatusPatch is shorthand for a patch that only moves the candidate.
func StatusPatch(s CandidateStatus) CandidatePatch {
	return CandidatePatch{Status: &s}
}
