package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

// Severity represents the severity level of a check finding.
type Severity string

const (
	// SeverityError represents an error-level finding.
	SeverityError Severity = "error"
	// SeverityWarning represents a warning-level finding.
	SeverityWarning Severity = "warning"
)

// CheckFinding represents a single finding from the check command.
type CheckFinding struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Path     string   `json:"path"`
}

// DocumentResult is the validation outcome for one document.
type DocumentResult struct {
	Path     string            `json:"path"`
	Status   string            `json:"status"`
	Errors   []string          `json:"errors"`
	Warnings []string          `json:"warnings"`
	Metadata map[string]string `json:"metadata"`
}

// CheckSummary counts documents by status.
type CheckSummary struct {
	Documents int  `json:"documents"`
	OK        int  `json:"ok"`
	Warn      int  `json:"warn"`
	Error     int  `json:"error"`
	Strict    bool `json:"strict"`
	Passed    bool `json:"passed"`
}

// CheckResult holds every document report from a check run.
type CheckResult struct {
	Documents []DocumentResult `json:"documents"`
	Findings  []CheckFinding   `json:"findings"`
	Summary   CheckSummary     `json:"summary"`
}

// CheckOptions holds the check flags given on the command line. Nil fields
// were not given and leave the configured value alone. Exclude patterns are
// added to the configured ones.
type CheckOptions struct {
	DocsDir      *string
	IncludeRoot  *bool
	Strict       *bool
	StrictDecode *bool
	Jobs         *int
	Exclude      []string
}

// CheckRequest describes a check run.
type CheckRequest struct {
	Root       string
	ConfigFile string
	Options    CheckOptions
	Logger     *slog.Logger
}

// CheckRunner defines the interface for running a metadata check.
type CheckRunner interface {
	Check(ctx context.Context, req CheckRequest) (*CheckResult, error)
}

// ReportWriter writes a rendered report to a file.
type ReportWriter interface {
	WriteReport(ctx context.Context, path string, data []byte) error
}

const (
	reportTitle   = "Metadata Validation Report"
	reportPassed  = "All documentation metadata passed."
	reportFailed  = "Validation failed."
	missingMarker = "(missing)"
)

// normalizeCheckResult replaces nil slices so JSON output carries [] rather
// than null.
func normalizeCheckResult(r *CheckResult) {
	if r.Documents == nil {
		r.Documents = []DocumentResult{}
	}
	if r.Findings == nil {
		r.Findings = []CheckFinding{}
	}
	for i := range r.Documents {
		normalizeDocument(&r.Documents[i])
	}
}

func normalizeDocument(d *DocumentResult) {
	if d.Errors == nil {
		d.Errors = []string{}
	}
	if d.Warnings == nil {
		d.Warnings = []string{}
	}
	if d.Metadata == nil {
		d.Metadata = map[string]string{}
	}
}

// formatCheckJSON writes the check result as JSON to w.
func formatCheckJSON(w io.Writer, result *CheckResult) {
	normalizeCheckResult(result)
	writeJSON(w, result)
}

// formatCheckHuman writes the plain-text report to w.
func formatCheckHuman(w io.Writer, result *CheckResult, p palette) {
	fmt.Fprintln(w, reportTitle)
	fmt.Fprintln(w, strings.Repeat("=", len(reportTitle)))
	for _, d := range result.Documents {
		fmt.Fprintf(w, "%s %s\n", p.tag(d.Status), d.Path)
		writeMessages(w, d)
	}
	fmt.Fprintln(w)
	if result.Summary.Passed {
		fmt.Fprintln(w, reportPassed)
	} else {
		fmt.Fprintln(w, reportFailed)
	}
}

// writeMessages writes the indented error lines, then the warning lines.
func writeMessages(w io.Writer, d DocumentResult) {
	for _, msg := range d.Errors {
		fmt.Fprintf(w, "  - ERROR: %s\n", msg)
	}
	for _, msg := range d.Warnings {
		fmt.Fprintf(w, "  - WARN: %s\n", msg)
	}
}

// checkFlags holds the output-related check flags.
type checkFlags struct {
	json       bool
	noColor    bool
	reportFile string
}

// runCheckAndReport runs the checker, renders the report and writes the
// optional report file. It returns a ValidationFailedError if any document
// has ERROR status.
func runCheckAndReport(cmd *cobra.Command, runner CheckRunner, writer ReportWriter, req CheckRequest, flags checkFlags) error {
	ctx := cmd.Context()

	result, err := runner.Check(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.json {
		formatCheckJSON(out, result)
	} else {
		formatCheckHuman(out, result, newPalette(out, flags.noColor))
	}

	if flags.reportFile != "" {
		normalizeCheckResult(result)
		data, err := marshalReport(result)
		if err != nil {
			return &ContextError{Op: "write report", Path: flags.reportFile, Err: err}
		}
		if err := writer.WriteReport(ctx, flags.reportFile, data); err != nil {
			return &ContextError{Op: "write report", Path: flags.reportFile, Err: err}
		}
	}

	if !result.Summary.Passed {
		return &ValidationFailedError{Documents: result.Summary.Documents, Failed: result.Summary.Error}
	}
	return nil
}

// changed returns &v when the named flag was set on the command line.
func changed[T any](cmd *cobra.Command, name string, v T) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

// NewCheckCmd creates the check command with the given runner and report writer.
func NewCheckCmd(runner CheckRunner, writer ReportWriter) *cobra.Command {
	var (
		flags        checkFlags
		strict       bool
		includeRoot  bool
		strictDecode bool
		docsDir      string
		jobs         int
		exclude      []string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the metadata header of every document",
		Long: "check finds every Markdown file under the docs directory (and, with\n" +
			"--include-root, directly under the root), validates its metadata header\n" +
			"and prints one status line per document. It exits 1 when any document\n" +
			"has ERROR status.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := CheckRequest{
				Root:       GetRoot(),
				ConfigFile: GetConfigFile(),
				Options: CheckOptions{
					DocsDir:      changed(cmd, "docs-dir", docsDir),
					IncludeRoot:  changed(cmd, "include-root", includeRoot),
					Strict:       changed(cmd, "strict", strict),
					StrictDecode: changed(cmd, "strict-decode", strictDecode),
					Jobs:         changed(cmd, "jobs", jobs),
					Exclude:      exclude,
				},
				Logger: newLogger(cmd.ErrOrStderr()),
			}
			f := flags
			f.json = flags.json || GetJSON()
			return runCheckAndReport(cmd, runner, writer, req, f)
		},
	}

	cmd.Flags().BoolVar(&flags.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "Disable coloured status tags")
	cmd.Flags().StringVar(&flags.reportFile, "report-file", "", "Also write the JSON report to this file")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as failures")
	cmd.Flags().BoolVar(&includeRoot, "include-root", false, "Also validate Markdown files directly under the root")
	cmd.Flags().BoolVar(&strictDecode, "strict-decode", false, "Report invalid UTF-8 as unreadable instead of replacing it")
	cmd.Flags().StringVar(&docsDir, "docs-dir", "", "Documentation directory relative to the root (default \"docs\")")
	cmd.Flags().IntVar(&jobs, "jobs", 1, "Number of documents validated concurrently")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Glob of root-relative paths to skip (repeatable)")

	return cmd
}
