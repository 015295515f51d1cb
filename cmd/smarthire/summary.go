package main

import (
	"fmt"

	"github.com/jonathan/smarthire/internal/observability"
	"github.com/jonathan/smarthire/internal/store"
	"github.com/jonathan/smarthire/internal/types"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard and pipeline boards",
	Long: `Print a text summary of the persisted state.

With no flags this shows the dashboard followed by every job's pipeline.
--job narrows it to one pipeline and --candidate shows one candidate's
screening and assistant results.`,
	RunE: runSummary,
}

var (
	summaryJobID       string
	summaryCandidateID string
)

func init() {
	summaryCmd.Flags().StringVar(&summaryJobID, "job", "", "Only show this job's pipeline")
	summaryCmd.Flags().StringVar(&summaryCandidateID, "candidate", "", "Show a single candidate")
	summaryCmd.MarkFlagsMutuallyExclusive("job", "candidate")

	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	p := observability.NewPrinter(cmd.OutOrStdout())

	if summaryCandidateID != "" {
		c, err := a.svc.Candidate(summaryCandidateID)
		if err != nil {
			return err
		}
		p.PrintCandidate(c)
		return nil
	}

	var jobs []types.Job
	if summaryJobID != "" {
		job, err := a.svc.Job(summaryJobID)
		if err != nil {
			return err
		}
		jobs = []types.Job{job}
	} else {
		p.PrintDashboard(a.svc.Dashboard())
		jobs = a.svc.Jobs()
	}

	for _, job := range jobs {
		candidates, err := jobBoard(a, job.ID)
		if err != nil {
			return fmt.Errorf("failed to load pipeline for %s: %w", job.ID, err)
		}
		p.PrintPipeline(job, candidates)
	}
	return nil
}

// jobBoard returns every candidate for a job, rejected ones included.
func jobBoard(a *app, jobID string) ([]types.Candidate, error) {
	active, err := a.svc.JobCandidates(jobID, store.FilterAll)
	if err != nil {
		return nil, err
	}
	rejected, err := a.svc.JobCandidates(jobID, string(types.StatusRejected))
	if err != nil {
		return nil, err
	}
	return append(active, rejected...), nil
}
