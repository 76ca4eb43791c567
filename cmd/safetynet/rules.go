package main

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/smykla-labs/safetynet/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the rule catalog",
	Long:  `Prints the table of command patterns safetynet blocks, allows, or gates behind configuration.`,
	RunE:  runRules,
}

func runRules(_ *cobra.Command, _ []string) error {
	t := tablewriter.NewTable(os.Stdout,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
	)

	t.Header([]string{"Domain", "Pattern", "Verdict", "Reason"})

	for _, entry := range rules.Catalog() {
		_ = t.Append([]string{
			entry.Domain.String(),
			entry.Pattern,
			entry.Verdict,
			entry.Reason,
		})
	}

	return t.Render()
}
