// Package cli defines the reviewscout command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCmd returns the root command for the reviewscout CLI
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "reviewscout",
		Short:         "reviewscout — scrape product reviews from G2, Capterra, and TrustRadius",
		Long:          "reviewscout — collect structured review records (title, body, date, rating, reviewer) from JS-rendered review listings and write them as JSON artifacts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newScrapeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the command tree with ctx governing every page interaction.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
