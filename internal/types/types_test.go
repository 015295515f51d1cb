//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPatch_PatchWins(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := Candidate{
		ID:        "c1",
		JobID:     "j1",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Status:    StatusNew,
		CreatedAt: created,
	}

	name := "Jane Q. Doe"
	status := StatusInterviewing
	qs := &InterviewQuestions{Technical: []string{"Explain closures"}}

	got := ApplyPatch(c, CandidatePatch{Name: &name, Status: &status, InterviewQuestions: qs})

	assert.Equal(t, "Jane Q. Doe", got.Name)
	assert.Equal(t, StatusInterviewing, got.Status)
	assert.Same(t, qs, got.InterviewQuestions)
	assert.Equal(t, "jane@example.com", got.Email, "untouched field keeps its value")
	assert.Equal(t, "c1", got.ID)
	assert.Equal(t, "j1", got.JobID)
	assert.Equal(t, created, got.CreatedAt)

	// original is not modified
	assert.Equal(t, "Jane Doe", c.Name)
}

func TestApplyPatch_EmptyStringClearsField(t *testing.T) {
	c := Candidate{ID: "c1", Notes: "call back monday"}
	empty := ""
	got := ApplyPatch(c, CandidatePatch{Notes: &empty})
	assert.Equal(t, "", got.Notes)
}

func TestCandidatePatch_Empty(t *testing.T) {
	assert.True(t, CandidatePatch{}.Empty())
	assert.False(t, StatusPatch(StatusOffer).Empty())
}

func TestCandidatePatch_JSONOmitsUnset(t *testing.T) {
	var p CandidatePatch
	require.NoError(t, json.Unmarshal([]byte(`{"notes":"strong communicator"}`), &p))
	require.NotNil(t, p.Notes)
	assert.Equal(t, "strong communicator", *p.Notes)
	assert.Nil(t, p.Name)
	assert.Nil(t, p.Status)
}

func TestFitBucket(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "Strong"},
		{80, "Strong"},
		{79, "Medium"},
		{50, "Medium"},
		{49, "Low"},
		{0, "Low"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FitBucket(tt.score), "score %d", tt.score)
	}
}

func TestCandidate_FitScore(t *testing.T) {
	assert.Equal(t, -1, Candidate{}.FitScore())
	assert.Equal(t, 92, Candidate{AIAnalysis: &AIAnalysis{FitScore: 92}}.FitScore())
}

func TestJob_CloneDoesNotAlias(t *testing.T) {
	j := Job{ID: "j1", SkillsRequired: []string{"Go"}}
	c := j.Clone()
	c.SkillsRequired[0] = "Rust"
	assert.Equal(t, "Go", j.SkillsRequired[0])
}

func TestCandidate_CloneDoesNotAlias(t *testing.T) {
	c := Candidate{
		ID:                 "c1",
		AIAnalysis:         &AIAnalysis{FitScore: 70, Strengths: []string{"Go"}, Gaps: []string{"k8s"}, SkillsDetected: []string{"Go"}},
		InterviewQuestions: &InterviewQuestions{Technical: []string{"q1"}},
		BackgroundCheck:    &BackgroundCheckResult{Concerns: []string{"gap"}},
		OfferData:          &OfferResult{NextSteps: []string{"sign"}},
		SalaryEstimation:   &SalaryEstimationResult{MarketFactors: []string{"remote"}},
	}

	cp := c.Clone()
	cp.AIAnalysis.FitScore = 99
	cp.AIAnalysis.Strengths[0] = "mutated"
	cp.InterviewQuestions.Technical[0] = "mutated"
	cp.BackgroundCheck.Concerns[0] = "mutated"
	cp.OfferData.NextSteps[0] = "mutated"
	cp.SalaryEstimation.MarketFactors[0] = "mutated"

	assert.Equal(t, 70, c.AIAnalysis.FitScore)
	assert.Equal(t, "Go", c.AIAnalysis.Strengths[0])
	assert.Equal(t, "q1", c.InterviewQuestions.Technical[0])
	assert.Equal(t, "gap", c.BackgroundCheck.Concerns[0])
	assert.Equal(t, "sign", c.OfferData.NextSteps[0])
	assert.Equal(t, "remote", c.SalaryEstimation.MarketFactors[0])

	assert.Nil(t, Candidate{}.Clone().AIAnalysis)
}

func TestJobStatus_Valid(t *testing.T) {
	assert.True(t, JobActive.Valid())
	assert.True(t, JobDraft.Valid())
	assert.False(t, JobStatus("archived").Valid())
}

func TestCreateJobRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request CreateJobRequest
		wantErr bool
	}{
		{
			name:    "valid request",
			request: CreateJobRequest{Title: "Staff Engineer", SkillsRequired: []string{"Go"}},
		},
		{
			name:    "missing title",
			request: CreateJobRequest{Location: "Remote"},
			wantErr: true,
		},
		{
			name:    "unknown status",
			request: CreateJobRequest{Title: "PM", Status: "archived"},
			wantErr: true,
		},
		{
			name:    "blank skill",
			request: CreateJobRequest{Title: "PM", SkillsRequired: []string{"Roadmaps", ""}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScreenCandidateRequest_Validation(t *testing.T) {
	valid := ScreenCandidateRequest{JobID: "j1", Name: "Ann", ResumeText: "Go developer"}
	assert.NoError(t, valid.Validate())

	html := ScreenCandidateRequest{JobID: "j1", Name: "Ann", ResumeHTML: "<p>Go developer</p>"}
	assert.NoError(t, html.Validate())

	noResume := ScreenCandidateRequest{JobID: "j1", Name: "Ann"}
	assert.Error(t, noResume.Validate())

	badEmail := ScreenCandidateRequest{JobID: "j1", Name: "Ann", ResumeText: "x", Email: "not-an-email"}
	assert.Error(t, badEmail.Validate())
}

func TestStatusRequest_Validation(t *testing.T) {
	ok := StatusRequest{Status: StatusOffer}
	assert.NoError(t, ok.Validate())

	bad := StatusRequest{Status: "hired"}
	assert.Error(t, bad.Validate())

	missing := StatusRequest{}
	assert.Error(t, missing.Validate())
}

func TestOnboardingRequest_Validation(t *testing.T) {
	assert.NoError(t, (&OnboardingRequest{Step: 0}).Validate())
	assert.NoError(t, (&OnboardingRequest{Step: 5}).Validate())
	assert.Error(t, (&OnboardingRequest{Step: 6}).Validate())
	assert.Error(t, (&OnboardingRequest{Step: -1}).Validate())
}
