// Package main implements the resume_layout CLI: it renders résumé records
// to PDF, DOCX or LaTeX, checks their layout and serves the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "resume_layout",
	Short: "Render résumé records into page-accurate documents",
	Long: `resume_layout lays out a structured résumé record with a style profile and
writes it as a fixed-page PDF, a flowing Word document or LaTeX source.

Configuration can be loaded from a JSON file using --config. Command-line
flags override config file values.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
