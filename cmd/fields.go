package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/docmeta-go/internal/domain"
)

// FieldsResult lists what a metadata header must contain.
type FieldsResult struct {
	Fields   []string `json:"fields"`
	Statuses []string `json:"statuses"`
}

func formatFieldsHuman(w io.Writer, r FieldsResult) {
	fmt.Fprintln(w, "Required fields:")
	for _, f := range r.Fields {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintln(w, "Status values:")
	for _, s := range r.Statuses {
		fmt.Fprintf(w, "  %s\n", s)
	}
}

// NewFieldsCmd creates the fields command.
func NewFieldsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:          "fields",
		Short:        "List the header fields and Status values docmeta accepts",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := FieldsResult{
				Fields:   append([]string(nil), domain.RequiredFields...),
				Statuses: append([]string(nil), domain.AllowedStatuses...),
			}
			if jsonOutput || GetJSON() {
				writeJSON(cmd.OutOrStdout(), r)
			} else {
				formatFieldsHuman(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}
