// Package main provides the entry point for the career document backend.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "career_agent",
	Short: "Career document backend with fact verification",
	Long:  "Generates tailored CVs and Value Proposition Reports from a source CV, gating every generated document through fact verification so it never asserts facts the source CV cannot back.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
