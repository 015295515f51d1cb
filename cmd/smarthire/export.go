package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jonathan/smarthire/internal/store"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export candidates as CSV",
	Long:  "Write a job's candidate list, or a single candidate profile, as CSV from the persisted state.",
	RunE:  runExport,
}

var (
	exportJobID       string
	exportCandidateID string
	exportStatus      string
	exportOutFile     string
)

func init() {
	exportCmd.Flags().StringVar(&exportJobID, "job", "", "Job ID whose candidates to export")
	exportCmd.Flags().StringVar(&exportCandidateID, "candidate", "", "Candidate ID to export")
	exportCmd.Flags().StringVar(&exportStatus, "status", store.FilterAll, "Status filter for --job (all, new, screened, interviewing, offer, rejected)")
	exportCmd.Flags().StringVarP(&exportOutFile, "out", "o", "", "Output file (defaults to stdout)")
	exportCmd.MarkFlagsMutuallyExclusive("job", "candidate")
	exportCmd.MarkFlagsOneRequired("job", "candidate")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var filename, content string
	if exportJobID != "" {
		filename, content, err = a.svc.ExportJobCandidates(exportJobID, exportStatus)
	} else {
		filename, content, err = a.svc.ExportCandidate(exportCandidateID)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if exportOutFile == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(exportOutFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (suggested name %s)\n", exportOutFile, filename)
	return nil
}
