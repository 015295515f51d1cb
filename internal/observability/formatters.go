// Package observability provides formatted pipeline summaries for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/smarthire/internal/pipeline"
	"github.com/jonathan/smarthire/internal/recruiting"
	"github.com/jonathan/smarthire/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the summary command
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList writes up to limit items as bullets, noting how many were left out.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintDashboard outputs the headline numbers and the busiest jobs.
func (p *Printer) PrintDashboard(d recruiting.Dashboard) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Active jobs:       %d\n", d.Stats.ActiveJobs))
	sb.WriteString(fmt.Sprintf("Total candidates:  %d\n", d.Stats.TotalCandidates))
	sb.WriteString(fmt.Sprintf("Screened:          %d\n", d.Stats.Screened))
	sb.WriteString(fmt.Sprintf("Offers ready:      %d\n", d.Stats.OffersReady))
	sb.WriteString(fmt.Sprintf("AI usage:          %d / %d\n", d.Usage, d.UsageLimit))
	if d.Unread > 0 {
		sb.WriteString(fmt.Sprintf("Unread:            %d\n", d.Unread))
	}

	if len(d.Stats.CandidatesPerJob) > 0 {
		sb.WriteString("\nCandidates per job:\n")
		for _, jc := range d.Stats.CandidatesPerJob {
			sb.WriteString(fmt.Sprintf("  %-36s %4d\n", truncate(jc.Title, 36), jc.Candidates))
		}
	}

	p.printBox("DASHBOARD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPipeline outputs a job's candidates grouped by pipeline stage.
func (p *Printer) PrintPipeline(job types.Job, candidates []types.Candidate) {
	byStatus := make(map[types.CandidateStatus][]types.Candidate)
	for _, c := range candidates {
		byStatus[c.Status] = append(byStatus[c.Status], c)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Location: %s\n", orDash(job.Location)))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", job.Status))

	stages := append(pipeline.Stages(), pipeline.StageRegistry[types.StatusRejected])
	for _, stage := range stages {
		group := byStatus[stage.Status]
		sb.WriteString(fmt.Sprintf("\n%s (%d)\n", strings.ToUpper(stage.Label), len(group)))
		for _, c := range group[:min(len(group), maxItemsToShow)] {
			line := "  • " + c.Name
			if c.AIAnalysis != nil {
				line += fmt.Sprintf("  [%d %s]", c.AIAnalysis.FitScore, types.FitBucket(c.AIAnalysis.FitScore))
			}
			sb.WriteString(line + "\n")
		}
		if len(group) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(group)-maxItemsToShow))
		}
	}

	p.printBox("PIPELINE: "+job.Title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidate outputs a candidate's profile and every assistant result on record.
func (p *Printer) PrintCandidate(c types.Candidate) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:    %s\n", c.Name))
	sb.WriteString(fmt.Sprintf("Email:   %s\n", orDash(c.Email)))
	sb.WriteString(fmt.Sprintf("Status:  %s\n", c.Status))

	if a := c.AIAnalysis; a != nil {
		sb.WriteString(fmt.Sprintf("\nFit:     %d (%s, %s)\n", a.FitScore, types.FitBucket(a.FitScore), a.Recommendation))
		sb.WriteString(fmt.Sprintf("Summary: %s\n", a.Summary))
		writeList(&sb, "Strengths", a.Strengths, 3)
		writeList(&sb, "Gaps", a.Gaps, 3)
	} else {
		sb.WriteString("\nNot screened\n")
	}

	if q := c.InterviewQuestions; q != nil {
		sb.WriteString(fmt.Sprintf("\nInterview guide: %d technical, %d behavioral, %d culture\n",
			len(q.Technical), len(q.Behavioral), len(q.Culture)))
	}
	if b := c.BackgroundCheck; b != nil {
		sb.WriteString(fmt.Sprintf("\nRisk:    %s\n", b.RiskAssessment))
		writeList(&sb, "Concerns", b.Concerns, 3)
	}
	if s := c.SalaryEstimation; s != nil {
		sb.WriteString(fmt.Sprintf("\nMarket:  %s\n", s.EstimatedRange))
	}
	if c.OfferData != nil {
		sb.WriteString("\n✅ Offer letter drafted\n")
	}

	p.printBox("CANDIDATE", strings.TrimSuffix(sb.String(), "\n"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
