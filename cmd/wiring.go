package cmd

import "github.com/spf13/cobra"

// BuildCommandTree creates a fresh root command with every subcommand
// registered against the given collaborators.
func BuildCommandTree(check CheckRunner, show ShowRunner, reports ReportWriter) *cobra.Command {
	root := NewRootCmd()
	root.AddCommand(
		NewCheckCmd(check, reports),
		NewShowCmd(show),
		NewFieldsCmd(),
	)
	return root
}
