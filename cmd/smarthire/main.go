// Package main provides the entry point for the SmartHire recruiting API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "smarthire",
	Short: "SmartHire recruiting assistant",
	Long: "SmartHire tracks job requisitions and candidates through a hiring pipeline, " +
		"with model-backed screening, interview, sourcing, offer and compensation assistants.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a smarthire.yaml config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
