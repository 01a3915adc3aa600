// Package cmd wires the CLI around the transcript report pipeline.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for agent-report.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "agent-report",
		Short:         "Render AI coding-agent transcripts into bounded-size reports",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newCategoriesCmd())

	return rootCmd
}
