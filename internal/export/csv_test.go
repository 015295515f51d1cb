package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/smarthire/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, doc string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(doc)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCandidateCSV(t *testing.T) {
	c := types.Candidate{
		Name:   "Jane Doe",
		Email:  "jane@example.com",
		Phone:  "555-0100",
		Status: types.StatusScreened,
		AIAnalysis: &types.AIAnalysis{
			FitScore:       91,
			Recommendation: types.StrongFit,
			Summary:        "Says \"ship it\", often.\nLeads teams.",
			SkillsDetected: []string{"React", "TypeScript"},
		},
	}
	job := types.Job{Title: "Senior Frontend Engineer"}

	doc, err := CandidateCSV(c, job)
	require.NoError(t, err)

	records := readAll(t, doc)
	require.Len(t, records, 2)
	assert.Equal(t, candidateHeader, records[0])
	assert.Equal(t, []string{
		"Jane Doe", "jane@example.com", "555-0100", "Senior Frontend Engineer", "screened",
		"91", "strong_fit", "Says \"ship it\", often.\nLeads teams.", "React, TypeScript",
	}, records[1])
}

func TestCandidateCSV_Unscreened(t *testing.T) {
	c := types.Candidate{Name: "Sam", Status: types.StatusNew}

	doc, err := CandidateCSV(c, types.Job{Title: "SRE"})
	require.NoError(t, err)

	records := readAll(t, doc)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Sam", "", "", "SRE", "new", "", "", "", ""}, records[1])
}

func TestCandidateListCSV(t *testing.T) {
	added := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	candidates := []types.Candidate{
		{Name: "Doe, Jane", Status: types.StatusOffer, Email: "jane@example.com", CreatedAt: added,
			AIAnalysis: &types.AIAnalysis{FitScore: 77}},
		{Name: "Sam", Status: types.StatusNew, Phone: "555", CreatedAt: added},
	}

	doc, err := CandidateListCSV(candidates)
	require.NoError(t, err)

	records := readAll(t, doc)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Name", "Status", "Fit Score", "Email", "Phone", "Added Date"}, records[0])
	assert.Equal(t, []string{"Doe, Jane", "offer", "77", "jane@example.com", "", "2025-03-14"}, records[1])
	assert.Equal(t, []string{"Sam", "new", "0", "", "555", "2025-03-14"}, records[2])
}

func TestCandidateListCSV_Empty(t *testing.T) {
	doc, err := CandidateListCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "Name,Status,Fit Score,Email,Phone,Added Date\n", doc)
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "candidate_Jane_Doe.csv", CandidateFilename("Jane Doe"))
	assert.Equal(t, "candidate_Mary_Ann_Lee.csv", CandidateFilename("Mary  Ann\tLee"))
	assert.Equal(t, "job_Senior_Frontend_Engineer_candidates.csv", JobListFilename("Senior Frontend Engineer"))
}
