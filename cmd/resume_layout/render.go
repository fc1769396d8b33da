package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jonathan/resume-layout/internal/config"
	"github.com/jonathan/resume-layout/internal/ingestion"
	"github.com/jonathan/resume-layout/internal/observability"
	"github.com/jonathan/resume-layout/internal/rendering"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a résumé record to PDF, DOCX or LaTeX",
	Long: `Reads a résumé record (JSON, checked against the record schema), lays it out
with a style profile and writes the document.

The output file defaults to a name derived from the person's name in the
working directory. Use --in - to read the record from stdin.`,
	RunE: runRender,
}

var (
	renderInput     string
	renderOutput    string
	renderStyle     string
	renderStyleFile string
	renderFormat    string
	renderTemplate  string
	renderCreated   string
	renderHTML      bool
	renderVerbose   bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "in", "i", "", "Path to the résumé record JSON (- for stdin)")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Output file or directory")
	renderCmd.Flags().StringVarP(&renderStyle, "style", "s", "", "Built-in style profile (see 'styles')")
	renderCmd.Flags().StringVar(&renderStyleFile, "style-file", "", "Path to a YAML or JSON style profile")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Output format: pdf, docx or tex (default pdf)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "LaTeX template for tex output (default: built-in)")
	renderCmd.Flags().StringVar(&renderCreated, "created", "", "Creation date stamped into the document, RFC 3339 (default: fixed epoch)")
	renderCmd.Flags().BoolVar(&renderHTML, "html", false, "Convert rich-text HTML in free-text fields to plain text")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print a layout summary")

	_ = renderCmd.MarkFlagRequired("in")
	renderCmd.MarkFlagsMutuallyExclusive("style", "style-file")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{
		Style:     renderStyle,
		StyleFile: renderStyleFile,
		Template:  renderTemplate,
		Format:    renderFormat,
		Out:       renderOutput,
		Verbose:   renderVerbose,
	})
	if err != nil {
		return err
	}

	rec, src, err := ingestion.LoadRecord(renderInput)
	if err != nil {
		return err
	}
	if renderHTML {
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
	opts, err := renderOptions(cfg, renderCreated)
	if err != nil {
		return err
	}

	result, err := rendering.Render(rec, profile, format, opts...)
	if err != nil {
		return err
	}

	path := outputPath(cfg.Out, rendering.FileName(rec.Basics.Name, format))
	if err := writeFile(path, result.Bytes); err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.OutOrStdout())
		printer.PrintRecord(rec, src)
		printer.PrintLayout(result)
		printer.PrintDrops(result.Drops)
	} else if len(result.Drops) > 0 {
		log.Printf("[render] %d strings lost characters the fonts cannot draw (use --verbose to list them)", len(result.Drops))
	}

	if result.Pages != nil {
		fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes, %d pages)\n", path, len(result.Bytes), result.PageCount())
	} else {
		fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", path, len(result.Bytes))
	}
	return nil
}
