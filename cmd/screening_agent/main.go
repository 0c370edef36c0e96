// Package main provides the entry point for the candidate screening service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "screening_agent",
	Short: "Candidate screening and interview orchestration service",
	Long: "screening_agent canonicalizes extracted candidate applications, scores them " +
		"against HR-authored job templates and runs token-gated screening interviews via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
