package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Load the demo jobs and candidates into storage",
	Long:  "Merge the built-in demo snapshot into the configured storage backend. Records that already exist are left alone.",
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	jobs, candidates := a.svc.LoadDemo()
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d jobs and %d candidates into %s storage\n", jobs, candidates, a.cfg.Storage.Backend)
	return nil
}
