package report

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/strawgate/gh-aw-sub001/internal/transcript"
)

// Format selects one of the three report renderings.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatConsole  Format = "console"
	FormatCompact  Format = "compact"
)

// Generate runs the whole parse-and-render pipeline for one transcript and
// never fails: unparseable input and any internal panic degrade to a short,
// valid error report so the surrounding CI step is unaffected.
func Generate(raw string, format Format, opts Options, logger *logrus.Entry) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = errorReport(opts.Engine, fmt.Sprintf("%v", r))
		}
	}()

	parser := transcript.NewParser(logger)
	entries, err := parser.Parse(raw)
	if err != nil {
		return errorReport(opts.Engine, err.Error())
	}

	switch format {
	case FormatConsole:
		return RenderConsole(entries, opts)
	case FormatCompact:
		return RenderCompact(entries, opts)
	default:
		return RenderMarkdown(entries, opts)
	}
}

// errorReport is the minimal valid report emitted when the pipeline cannot
// produce a real one.
func errorReport(engine, detail string) string {
	label := engine
	if label == "" {
		label = "agent"
	}
	return fmt.Sprintf("# %s Execution Report\n\n⚠️ Failed to parse %s transcript: %s\n",
		engineTitle(engine), label, detail)
}
