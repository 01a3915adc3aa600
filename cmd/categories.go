package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strawgate/gh-aw-sub001/internal/report"
	"github.com/strawgate/gh-aw-sub001/internal/transcript"
)

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories <transcript>",
		Short: "Show the categorized tool inventory of a transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readTranscript(args[0])
			if err != nil {
				return err
			}

			parser := transcript.NewParser(nil)
			entries, err := parser.Parse(raw)
			if err != nil {
				return err
			}

			tools := collectTools(entries)
			if len(tools) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tools found in transcript")
				return nil
			}

			grouped := report.CategorizeTools(tools)
			for _, category := range report.CategoryOrder() {
				members := grouped[category]
				if len(members) == 0 {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d): %s\n", category, len(members), strings.Join(members, ", "))
			}
			return nil
		},
	}

	return cmd
}

// collectTools prefers the init entry's declared inventory, falling back to
// the tool names actually invoked.
func collectTools(entries []transcript.Entry) []string {
	for _, entry := range entries {
		if entry.Init != nil && len(entry.Init.Tools) > 0 {
			return entry.Init.Tools
		}
	}

	seen := make(map[string]bool)
	var tools []string
	for _, entry := range entries {
		for _, block := range entry.Content {
			if block.Type == "tool_use" && block.Name != "" && !seen[block.Name] {
				seen[block.Name] = true
				tools = append(tools, block.Name)
			}
		}
	}
	return tools
}
