package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/resume-layout/internal/config"
	"github.com/jonathan/resume-layout/internal/ingestion"
	"github.com/jonathan/resume-layout/internal/observability"
	"github.com/jonathan/resume-layout/internal/rendering"
	"github.com/spf13/cobra"
)

var renderBatchCmd = &cobra.Command{
	Use:   "render-batch [files or directories...]",
	Short: "Render many résumé records concurrently",
	Long: `Renders every record given as an argument. Directories contribute their
*.json files. Each document is written to --out-dir, named after its input
file with the format's extension.

A record that fails to load or render does not stop the rest of the batch;
the command exits non-zero when any of them failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRenderBatch,
}

var (
	batchOutDir      string
	batchStyle       string
	batchStyleFile   string
	batchFormat      string
	batchTemplate    string
	batchCreated     string
	batchConcurrency int
	batchHTML        bool
	batchVerbose     bool
)

func init() {
	renderBatchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "o", "", "Output directory (default: working directory)")
	renderBatchCmd.Flags().StringVarP(&batchStyle, "style", "s", "", "Built-in style profile (see 'styles')")
	renderBatchCmd.Flags().StringVar(&batchStyleFile, "style-file", "", "Path to a YAML or JSON style profile")
	renderBatchCmd.Flags().StringVarP(&batchFormat, "format", "f", "", "Output format: pdf, docx or tex (default pdf)")
	renderBatchCmd.Flags().StringVarP(&batchTemplate, "template", "t", "", "LaTeX template for tex output (default: built-in)")
	renderBatchCmd.Flags().StringVar(&batchCreated, "created", "", "Creation date stamped into each document, RFC 3339")
	renderBatchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "Records rendered at once (default 4)")
	renderBatchCmd.Flags().BoolVar(&batchHTML, "html", false, "Convert rich-text HTML in free-text fields to plain text")
	renderBatchCmd.Flags().BoolVarP(&batchVerbose, "verbose", "v", false, "Print a summary table")

	renderBatchCmd.MarkFlagsMutuallyExclusive("style", "style-file")

	rootCmd.AddCommand(renderBatchCmd)
}

func runRenderBatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(config.Config{
		Style:       batchStyle,
		StyleFile:   batchStyleFile,
		Template:    batchTemplate,
		Format:      batchFormat,
		Out:         batchOutDir,
		Concurrency: batchConcurrency,
		Verbose:     batchVerbose,
	})
	if err != nil {
		return err
	}

	profile, err := resolveStyle(cfg)
	if err != nil {
		return err
	}
	format, err := rendering.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	opts, err := renderOptions(cfg, batchCreated)
	if err != nil {
		return err
	}

	paths, err := collectInputs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .json records found in %s", strings.Join(args, ", "))
	}

	failed := 0
	var jobs []rendering.Job
	for _, path := range paths {
		rec, _, err := ingestion.LoadRecord(path)
		if err == nil && batchHTML {
			err = ingestion.ConvertHTML(rec)
		}
		if err != nil {
			log.Printf("[batch] skipping %s: %v", path, err)
			failed++
			continue
		}
		jobs = append(jobs, rendering.Job{
			Name:    path,
			Record:  rec,
			Profile: profile,
			Format:  format,
		})
	}

	if cfg.Verbose {
		log.Printf("[batch] rendering %d records, %d at a time", len(jobs), cfg.Concurrency)
	}
	results, err := rendering.RenderBatch(context.Background(), jobs, cfg.Concurrency, opts...)
	if err != nil {
		return err
	}

	for i := range results {
		r := &results[i]
		if r.Err != nil {
			log.Printf("[batch] %s: %v", r.Job.Name, r.Err)
			failed++
			continue
		}
		out := filepath.Join(cfg.Out, batchFileName(r.Job.Name, format))
		if err := writeFile(out, r.Result.Bytes); err != nil {
			r.Err = err
			log.Printf("[batch] %s: %v", r.Job.Name, err)
			failed++
			continue
		}
		if cfg.Verbose {
			log.Printf("[batch] wrote %s", out)
		}
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintBatch(results)
	}

	fmt.Fprintf(os.Stderr, "Rendered %d of %d records\n", len(paths)-failed, len(paths))
	if failed > 0 {
		return fmt.Errorf("%d records failed", failed)
	}
	return nil
}

// collectInputs expands directories to their *.json files. Explicit files
// are kept whatever their extension. The result is sorted and deduplicated.
func collectInputs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read input %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(arg))
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.json"))
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", arg, err)
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// batchFileName names an output after its input file.
func batchFileName(input string, format rendering.Format) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + format.Extension()
}
