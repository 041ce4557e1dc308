package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/eykd/docmeta-go/internal/domain"
)

// ShowRequest describes validating one document.
type ShowRequest struct {
	Root         string
	ConfigFile   string
	Path         string
	Strict       *bool
	StrictDecode *bool
	Logger       *slog.Logger
}

// ShowRunner defines the interface for validating a single document.
type ShowRunner interface {
	Show(ctx context.Context, req ShowRequest) (*DocumentResult, error)
}

// formatShowHuman writes the document status, its header fields in field
// order and its messages.
func formatShowHuman(w io.Writer, d *DocumentResult, p palette) {
	fmt.Fprintf(w, "%s %s\n", p.tag(d.Status), d.Path)
	for _, field := range domain.RequiredFields {
		value, ok := d.Metadata[field]
		if !ok {
			value = missingMarker
		}
		fmt.Fprintf(w, "%s: %s\n", field, value)
	}
	writeMessages(w, *d)
}

// NewShowCmd creates the show command with the given runner.
func NewShowCmd(runner ShowRunner) *cobra.Command {
	var (
		jsonOutput   bool
		noColor      bool
		strict       bool
		strictDecode bool
	)

	cmd := &cobra.Command{
		Use:          "show FILE",
		Short:        "Validate one document and print its metadata header",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ShowRequest{
				Root:         GetRoot(),
				ConfigFile:   GetConfigFile(),
				Path:         args[0],
				Strict:       changed(cmd, "strict", strict),
				StrictDecode: changed(cmd, "strict-decode", strictDecode),
				Logger:       newLogger(cmd.ErrOrStderr()),
			}
			doc, err := runner.Show(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput || GetJSON() {
				normalizeDocument(doc)
				writeJSON(out, doc)
			} else {
				formatShowHuman(out, doc, newPalette(out, noColor))
			}

			if doc.Status == string(domain.DocError) {
				return &ValidationFailedError{Documents: 1, Failed: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured status tags")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as failures")
	cmd.Flags().BoolVar(&strictDecode, "strict-decode", false, "Report invalid UTF-8 as unreadable instead of replacing it")

	return cmd
}
