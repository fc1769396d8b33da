package validation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/resume-layout/internal/types"
)

const (
	// CompilationTimeout is the maximum time to wait for LaTeX compilation
	CompilationTimeout = 30 * time.Second
)

// ValidateLaTeX compiles LaTeX source in a temporary directory and checks
// the page count of the result. A failed compilation is reported as a
// violation, not an error.
func ValidateLaTeX(ctx context.Context, tex []byte, maxPages int) ([]types.Violation, error) {
	tmpDir, err := os.MkdirTemp("", "latex-compile-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	texPath := filepath.Join(tmpDir, "resume.tex")
	if err := os.WriteFile(texPath, tex, 0644); err != nil {
		return nil, fmt.Errorf("failed to write temp LaTeX file: %w", err)
	}

	pdfPath, _, err := CompileLaTeX(ctx, texPath, tmpDir)
	if err != nil {
		var compErr *CompilationError
		if errors.As(err, &compErr) && pdfPath == "" {
			return []types.Violation{{
				Type:     types.ViolationLaTeX,
				Severity: types.SeverityError,
				Details:  fmt.Sprintf("LaTeX compilation failed: %s", compErr.Message),
			}}, nil
		}
		if !errors.As(err, &compErr) {
			return nil, err
		}
		log.Printf("[validate] %v", err)
	}

	pages, err := CountPDFPages(ctx, pdfPath)
	if err != nil {
		return []types.Violation{{
			Type:     types.ViolationPageBudget,
			Severity: types.SeverityWarning,
			Details:  fmt.Sprintf("Could not determine page count: %v", err),
		}}, nil
	}
	return CheckPageBudget(pages, maxPages), nil
}

// CompileLaTeX compiles a LaTeX file using pdflatex. When the run reports
// errors but still produced a PDF, both the path and the error are returned.
func CompileLaTeX(ctx context.Context, texPath string, workDir string) (pdfPath string, logOutput string, err error) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		return "", "", &CompilationError{
			Message: "pdflatex not found in PATH. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX)",
			Cause:   err,
		}
	}

	if workDir == "" {
		workDir, err = os.MkdirTemp("", "latex-compile-*")
		if err != nil {
			return "", "", &CompilationError{
				Message: "failed to create temporary working directory",
				Cause:   err,
			}
		}
	} else if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", "", &CompilationError{
			Message: fmt.Sprintf("failed to create working directory: %s", workDir),
			Cause:   err,
		}
	}

	texBaseName := filepath.Base(texPath)
	workTexPath := filepath.Join(workDir, texBaseName)
	if texPath != workTexPath {
		texContent, err := os.ReadFile(texPath)
		if err != nil {
			return "", "", &FileReadError{
				Message: fmt.Sprintf("failed to read LaTeX file: %s", texPath),
				Cause:   err,
			}
		}
		if err := os.WriteFile(workTexPath, texContent, 0644); err != nil {
			return "", "", &CompilationError{
				Message: fmt.Sprintf("failed to write LaTeX file to working directory: %s", workDir),
				Cause:   err,
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, CompilationTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pdflatex", "-interaction=nonstopmode", "-halt-on-error", "-output-directory", workDir, workTexPath)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()
	logOutput = stdout.String() + stderr.String()

	pdfPath = filepath.Join(workDir, strings.TrimSuffix(texBaseName, ".tex")+".pdf")
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		return "", logOutput, &CompilationError{
			Message:   "LaTeX compilation failed: PDF was not generated",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}

	if runErr != nil {
		return pdfPath, logOutput, &CompilationError{
			Message:   "LaTeX compilation completed with errors (PDF may be incomplete)",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}

	return pdfPath, logOutput, nil
}
