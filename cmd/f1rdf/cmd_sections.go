package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/handiism/f1rdf/internal/export"
	"github.com/handiism/f1rdf/internal/section"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the data sections that can be fetched",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tFILE")
		for _, d := range section.Default().All() {
			fmt.Fprintf(w, "%s\t%s %s\t%s\n", d.ID, d.Icon, d.Label, export.FileName(d))
		}
		return w.Flush()
	},
}
