package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-layout/internal/config"
	"github.com/jonathan/resume-layout/internal/ingestion"
	"github.com/jonathan/resume-layout/internal/observability"
	"github.com/jonathan/resume-layout/internal/rendering"
	"github.com/jonathan/resume-layout/internal/schemas"
	"github.com/jonathan/resume-layout/internal/validation"
	rootschemas "github.com/jonathan/resume-layout/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a rendered résumé for layout violations",
	Long: `Renders a résumé record and checks the result: lines wider than their
column, content outside the page, page budget overruns and characters the
fonts cannot draw.

Violations are written as JSON to --out, or stdout. The command exits
non-zero when any violation has error severity.`,
	RunE: runValidate,
}

var (
	validateInput     string
	validateOutput    string
	validateStyle     string
	validateStyleFile string
	validateFormat    string
	validateTemplate  string
	validateMaxPages  int
	validateCompile   bool
	validateHTML      bool
	validateVerbose   bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to the résumé record JSON (- for stdin)")
	validateCmd.Flags().StringVarP(&validateOutput, "out", "o", "", "Path to write violations JSON (default: stdout)")
	validateCmd.Flags().StringVarP(&validateStyle, "style", "s", "", "Built-in style profile (see 'styles')")
	validateCmd.Flags().StringVar(&validateStyleFile, "style-file", "", "Path to a YAML or JSON style profile")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "", "Format to check: pdf, docx or tex (default pdf)")
	validateCmd.Flags().StringVarP(&validateTemplate, "template", "t", "", "LaTeX template for tex output (default: built-in)")
	validateCmd.Flags().IntVar(&validateMaxPages, "max-pages", 0, "Page budget (0 disables the check)")
	validateCmd.Flags().BoolVar(&validateCompile, "compile", false, "Compile tex output with pdflatex to count its pages")
	validateCmd.Flags().BoolVar(&validateHTML, "html", false, "Convert rich-text HTML in free-text fields to plain text")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Print violations as a table")

	_ = validateCmd.MarkFlagRequired("in")
	validateCmd.MarkFlagsMutuallyExclusive("style", "style-file")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{
		Style:     validateStyle,
		StyleFile: validateStyleFile,
		Template:  validateTemplate,
		Format:    validateFormat,
		MaxPages:  validateMaxPages,
		Verbose:   validateVerbose,
	})
	if err != nil {
		return err
	}

	rec, _, err := ingestion.LoadRecord(validateInput)
	if err != nil {
		return err
	}
	if validateHTML {
		if err := ingestion.ConvertHTML(rec); err != nil {
			return err
		}
	}

	profile, err := resolveStyle(cfg)
	if err != nil {
		return err
	}
	format, err := rendering.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	opts, err := renderOptions(cfg, "")
	if err != nil {
		return err
	}

	result, err := rendering.Render(rec, profile, format, opts...)
	if err != nil {
		return err
	}

	violations, err := validation.ValidateResult(context.Background(), result, validation.Options{
		MaxPages: cfg.MaxPages,
		Compile:  validateCompile,
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(violations, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal violations: %w", err)
	}
	if err := schemas.ValidateEmbedded(rootschemas.Violations, data); err != nil {
		return fmt.Errorf("violations output failed schema validation: %w", err)
	}

	if validateOutput != "" {
		if err := writeFile(validateOutput, data); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintViolations(violations)
	}

	if violations.HasErrors() {
		return fmt.Errorf("found %d layout violations", len(violations.Violations))
	}
	return nil
}
