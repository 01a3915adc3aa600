package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/strawgate/gh-aw-sub001/internal/transcript"
)

// DefaultMaxLines caps the console rendering, which is bounded by line
// count rather than bytes.
const DefaultMaxLines = 5000

// consoleTextLimit caps agent reasoning text in the console walk.
const consoleTextLimit = 500

// consolePreviewLimit caps a single-line tool result preview.
const consolePreviewLimit = 200

// lineOverflowWarning is appended when the console line cap is hit.
const lineOverflowWarning = "⚠️ Output truncated: line limit reached"

// treeChar connects a tool result preview to the call above it.
const treeChar = "⎿"

// lineWriter accumulates console output under a hard line cap. Like the
// byte budget, overflow is sticky for the rest of the pass.
type lineWriter struct {
	sb         strings.Builder
	lines      int
	max        int
	overflowed bool
}

func (w *lineWriter) writeLine(s string) bool {
	if w.overflowed {
		return false
	}
	if w.lines >= w.max {
		w.overflowed = true
		return false
	}
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
	w.lines++
	return true
}

func (w *lineWriter) String() string {
	if w.overflowed {
		return w.sb.String() + lineOverflowWarning + "\n"
	}
	return w.sb.String()
}

// consoleStyles holds the lipgloss styles for the console walk. When
// styling is off every paint call is the identity, keeping the output
// byte-deterministic for embedding and tests.
type consoleStyles struct {
	styled bool
	tool   lipgloss.Style
	user   lipgloss.Style
	muted  lipgloss.Style
}

func newConsoleStyles(styled bool) consoleStyles {
	return consoleStyles{
		styled: styled,
		tool:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		user:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (s consoleStyles) paint(style lipgloss.Style, text string) string {
	if !s.styled {
		return text
	}
	return style.Render(text)
}

// RenderConsole renders the dense, non-collapsible console report. It walks
// the same entries and pairing index as the markdown renderer but is capped
// at a fixed line count instead of a byte budget.
func RenderConsole(entries []transcript.Entry, opts Options) string {
	maxLines := opts.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	formatter := NewToolFormatter(opts.SectionLimit)
	index := transcript.BuildResultIndex(entries)
	w := &lineWriter{max: maxLines}
	st := newConsoleStyles(opts.Styled)

	w.writeLine(fmt.Sprintf("=== %s Execution Log ===", engineTitle(opts.Engine)))
	w.writeLine("")

	if init := findInit(entries); init != nil {
		writeConsoleInit(w, st, init)
	}

	for _, entry := range entries {
		if w.overflowed {
			break
		}
		switch entry.Type {
		case "assistant":
			writeConsoleAssistant(w, st, entry, index, formatter)
		case "user":
			writeConsoleUser(w, st, entry)
		}
	}

	if stats := findStats(entries); stats != nil && !w.overflowed {
		writeConsoleStats(w, st, stats)
	}

	return w.String()
}

// RenderCompact renders the console content wrapped in a single fenced
// block, suitable for embedding inside a larger bounded report. Styling is
// forced off so the block carries no escape sequences.
func RenderCompact(entries []transcript.Entry, opts Options) string {
	opts.Styled = false
	body := RenderConsole(entries, opts)
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return "```\n" + body + "```\n"
}

func writeConsoleInit(w *lineWriter, st consoleStyles, init *transcript.InitInfo) {
	if init.Model != "" {
		w.writeLine(st.paint(st.muted, "Model: "+init.Model))
	}
	if init.SessionID != "" {
		w.writeLine(st.paint(st.muted, "Session: "+init.SessionID))
	}
	if init.WorkingDirectory != "" {
		w.writeLine(st.paint(st.muted, "Workdir: "+init.WorkingDirectory))
	}
	for _, server := range init.MCPServers {
		glyph := GlyphSuccess
		if server.Status != "connected" {
			glyph = GlyphError
		}
		w.writeLine(fmt.Sprintf("MCP %s %s (%s)", glyph, server.Name, server.Status))
	}
	if len(init.Tools) > 0 {
		w.writeLine(fmt.Sprintf("Tools: %d available", len(init.Tools)))
	}
	w.writeLine("")
}

func writeConsoleAssistant(w *lineWriter, st consoleStyles, entry transcript.Entry, index transcript.ResultIndex, formatter *ToolFormatter) {
	for _, block := range entry.Content {
		if w.overflowed {
			return
		}
		switch block.Type {
		case "text":
			text := truncateChars(stripOuterFence(block.Text), consoleTextLimit, "...")
			if text == "" {
				continue
			}
			for _, line := range strings.Split(text, "\n") {
				if !w.writeLine(line) {
					return
				}
			}
			w.writeLine("")
		case "tool_use":
			view := formatter.Format(block, lookupResult(index, block.ID))
			line := view.Glyph + " " + st.paint(st.tool, view.Summary)
			if view.Meta != "" {
				line += " " + st.paint(st.muted, view.Meta)
			}
			if !w.writeLine(line) {
				return
			}
			if result, ok := index.Lookup(block.ID); ok {
				writeResultPreview(w, st, result.Content)
			}
		}
	}
}

// writeResultPreview shows at most a one- or two-line view of a tool
// result: the first line for short output, a line-count summary otherwise.
func writeResultPreview(w *lineWriter, st consoleStyles, content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) == 1 {
		w.writeLine("  " + treeChar + " " + st.paint(st.muted, truncateChars(lines[0], consolePreviewLimit, "...")))
		return
	}
	w.writeLine("  " + treeChar + " " + st.paint(st.muted, fmt.Sprintf("(%d lines)", len(lines))))
}

func writeConsoleUser(w *lineWriter, st consoleStyles, entry transcript.Entry) {
	for _, block := range entry.Content {
		if block.Type != "text" || block.Text == "" {
			continue
		}
		text := truncateChars(block.Text, consoleTextLimit, "...")
		for i, line := range strings.Split(text, "\n") {
			prefix := "  "
			if i == 0 {
				prefix = "> "
			}
			if !w.writeLine(st.paint(st.user, prefix+line)) {
				return
			}
		}
		w.writeLine("")
	}
}

func writeConsoleStats(w *lineWriter, st consoleStyles, stats *transcript.StatsInfo) {
	w.writeLine(st.paint(st.muted, "---"))
	w.writeLine(fmt.Sprintf("Turns: %d | Duration: %s | Cost: $%.4f", stats.Turns, formatDuration(stats.DurationMS), stats.CostUSD))
	w.writeLine(fmt.Sprintf("Tokens: %d in / %d out / %d cache creation / %d cache read",
		stats.Usage.Input, stats.Usage.Output, stats.Usage.CacheCreation, stats.Usage.CacheRead))
	for _, e := range stats.Errors {
		w.writeLine("Error: " + e)
	}
	if stats.PermissionDenials > 0 {
		w.writeLine(fmt.Sprintf("Permission denials: %d", stats.PermissionDenials))
	}
}
