package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/strawgate/gh-aw-sub001/config"
	"github.com/strawgate/gh-aw-sub001/internal/report"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <transcript>",
		Short: "Render a transcript file into a report",
		Long: "Render an agent transcript (JSON array or JSONL, '-' for stdin) into a " +
			"size-bounded report. The command never fails on malformed transcripts; it " +
			"emits a minimal error report instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _ := cmd.Flags().GetString("engine")
			format, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("output")
			styled, _ := cmd.Flags().GetBool("styled")
			verbose, _ := cmd.Flags().GetBool("verbose")

			raw, err := readTranscript(args[0])
			if err != nil {
				return err
			}

			cfg := config.Load()
			opts := report.Options{
				Engine:       engine,
				MaxBytes:     cfg.Report.MaxReportBytes,
				SectionLimit: cfg.Report.SectionCharLimit,
				MaxLines:     cfg.Report.ConsoleMaxLines,
				Styled:       styled || cfg.Report.Styled,
			}

			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			}

			out := report.Generate(raw, report.Format(format), opts, logrus.NewEntry(logger).WithField("component", "parser"))

			if outPath != "" {
				return os.WriteFile(outPath, []byte(out), 0644)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringP("engine", "e", "claude", "Engine label for report headers")
	cmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, console, or compact")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().Bool("styled", false, "Enable terminal colors (console format only)")
	cmd.Flags().BoolP("verbose", "v", false, "Log skipped transcript lines")

	return cmd
}

func readTranscript(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	return string(data), nil
}
