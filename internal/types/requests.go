package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CreateJobRequest is the payload for creating a requisition.
type CreateJobRequest struct {
	Title            string    `json:"title" validate:"required,min=1"`
	Location         string    `json:"location"`
	SalaryRange      string    `json:"salary_range"`
	Seniority        string    `json:"seniority"`
	SkillsRequired   []string  `json:"skills_required" validate:"dive,required"`
	Responsibilities []string  `json:"responsibilities" validate:"dive,required"`
	Description      string    `json:"description"`
	Status           JobStatus `json:"status,omitempty" validate:"omitempty,oneof=active closed draft"`
}

// GenerateDescriptionRequest asks the writer agent for a job description.
type GenerateDescriptionRequest struct {
	Title            string   `json:"title" validate:"required"`
	Seniority        string   `json:"seniority"`
	SalaryRange      string   `json:"salary_range"`
	SkillsRequired   []string `json:"skills_required"`
	Responsibilities []string `json:"responsibilities"`
}

// CreateCandidateRequest adds a candidate by hand, without screening.
type CreateCandidateRequest struct {
	JobID      string          `json:"job_id" validate:"required"`
	Name       string          `json:"name" validate:"required,min=1"`
	Email      string          `json:"email" validate:"omitempty,email"`
	Phone      string          `json:"phone"`
	ResumeText string          `json:"resume_text"`
	Status     CandidateStatus `json:"status,omitempty" validate:"omitempty,oneof=new screened interviewing offer rejected"`
	Notes      string          `json:"notes,omitempty"`
}

// ScreenCandidateRequest screens a resume and stores the candidate.
// ResumeHTML is accepted as an alternative to ResumeText.
type ScreenCandidateRequest struct {
	JobID      string `json:"job_id" validate:"required"`
	Name       string `json:"name" validate:"required,min=1"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	ResumeText string `json:"resume_text" validate:"required_without=ResumeHTML"`
	ResumeHTML string `json:"resume_html,omitempty"`
}

// SourcingRequest asks for a sourcing strategy. JobID, when set, fills
// missing fields from the stored job.
type SourcingRequest struct {
	JobID    string   `json:"job_id,omitempty"`
	Title    string   `json:"title" validate:"required_without=JobID"`
	Skills   []string `json:"skills"`
	Location string   `json:"location"`
}

// InterviewRequest selects the interviewer persona.
type InterviewRequest struct {
	Tone string `json:"tone,omitempty"`
}

// OfferRequest carries the offer terms.
type OfferRequest struct {
	Salary    string `json:"salary" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	Benefits  string `json:"benefits,omitempty"`
}

// StatusRequest sets a candidate's pipeline status directly.
type StatusRequest struct {
	Status CandidateStatus `json:"status" validate:"required,oneof=new screened interviewing offer rejected"`
}

// OnboardingRequest sets the onboarding step.
type OnboardingRequest struct {
	Step int `json:"step" validate:"min=0,max=5"`
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the GenerateDescriptionRequest using the validator.
func (r *GenerateDescriptionRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the CreateCandidateRequest using the validator.
func (r *CreateCandidateRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ScreenCandidateRequest using the validator.
func (r *ScreenCandidateRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SourcingRequest using the validator.
func (r *SourcingRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the OfferRequest using the validator.
func (r *OfferRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the StatusRequest using the validator.
func (r *StatusRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the OnboardingRequest using the validator.
func (r *OnboardingRequest) Validate() error {
	return validate.Struct(r)
}
