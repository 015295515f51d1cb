// Package export renders candidates as CSV documents for download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/smarthire/internal/types"
)

// DateLayout formats the "Added Date" column.
const DateLayout = "2006-01-02"

var (
	candidateHeader = []string{"Name", "Email", "Phone", "Job", "Status", "Fit Score", "Recommendation", "Summary", "Skills"}
	listHeader      = []string{"Name", "Status", "Fit Score", "Email", "Phone", "Added Date"}

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// CandidateCSV renders one candidate's profile and screening result.
// Analysis columns are blank when the candidate was never screened.
func CandidateCSV(c types.Candidate, job types.Job) (string, error) {
	row := []string{c.Name, c.Email, c.Phone, job.Title, string(c.Status), "", "", "", ""}
	if a := c.AIAnalysis; a != nil {
		row[5] = strconv.Itoa(a.FitScore)
		row[6] = string(a.Recommendation)
		row[7] = a.Summary
		row[8] = strings.Join(a.SkillsDetected, ", ")
	}
	return write(candidateHeader, [][]string{row})
}

// CandidateListCSV renders a job's candidate list. Unscreened candidates score 0.
func CandidateListCSV(candidates []types.Candidate) (string, error) {
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		score := 0
		if c.AIAnalysis != nil {
			score = c.AIAnalysis.FitScore
		}
		rows = append(rows, []string{
			c.Name,
			string(c.Status),
			strconv.Itoa(score),
			c.Email,
			c.Phone,
			c.CreatedAt.Format(DateLayout),
		})
	}
	return write(listHeader, rows)
}

// CandidateFilename is the download name for CandidateCSV.
func CandidateFilename(name string) string {
	return fmt.Sprintf("candidate_%s.csv", underscore(name))
}

// JobListFilename is the download name for CandidateListCSV.
func JobListFilename(title string) string {
	return fmt.Sprintf("job_%s_candidates.csv", underscore(title))
}

func underscore(s string) string {
	return whitespaceRun.ReplaceAllString(s, "_")
}

func write(header []string, rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return buf.String(), nil
}
