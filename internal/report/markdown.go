package report

import (
	"fmt"
	"strings"

	"github.com/strawgate/gh-aw-sub001/internal/transcript"
)

// Options controls rendering across all report variants.
type Options struct {
	// Engine is a short label for the agent that produced the transcript,
	// used in headers and fallback error text.
	Engine string
	// MaxBytes is the report byte ceiling; 0 means DefaultMaxBytes.
	MaxBytes int
	// SectionLimit caps each Parameters/Response section in characters;
	// 0 means DefaultSectionLimit.
	SectionLimit int
	// MaxLines caps the console renderer; 0 means DefaultMaxLines.
	MaxLines int
	// Styled enables lipgloss styling in the console renderer.
	Styled bool
}

// fence delimits embedded content inside collapsible sections. Six backticks
// so tool output containing fenced blocks of its own cannot break out.
const fence = "``````"

// budgetWriter accumulates report text, gating every write on the budget.
// Once a write is vetoed the writer refuses everything after it.
type budgetWriter struct {
	sb         strings.Builder
	budget     *Budget
	overflowed bool
}

func (w *budgetWriter) write(s string) bool {
	if w.overflowed {
		return false
	}
	if !w.budget.Add(s) {
		w.overflowed = true
		return false
	}
	w.sb.WriteString(s)
	return true
}

// String returns the accumulated report, with the fixed overflow warning
// appended (bypassing the budget) if the pass was cut short.
func (w *budgetWriter) String() string {
	if w.overflowed {
		return w.sb.String() + OverflowWarning
	}
	return w.sb.String()
}

// RenderMarkdown renders the rich collapsible report: Initialization,
// Reasoning, Commands and Tools, and Statistics sections. Every section
// write is gated by the byte budget; on exhaustion rendering stops and the
// fixed overflow warning is appended.
func RenderMarkdown(entries []transcript.Entry, opts Options) string {
	budget := NewBudget(opts.MaxBytes)
	formatter := NewToolFormatter(opts.SectionLimit)
	index := transcript.BuildResultIndex(entries)
	w := &budgetWriter{budget: budget}

	w.write(fmt.Sprintf("# %s Execution Report\n\n", engineTitle(opts.Engine)))

	renderInitSection(w, entries)
	renderReasoningSection(w, entries, index, formatter)
	renderRecapSection(w, entries, index, formatter)
	renderStatsSection(w, entries)

	return w.String()
}

func engineTitle(engine string) string {
	if engine == "" {
		return "Agent"
	}
	return strings.ToUpper(engine[:1]) + engine[1:]
}

func findInit(entries []transcript.Entry) *transcript.InitInfo {
	for _, entry := range entries {
		if entry.Init != nil {
			return entry.Init
		}
	}
	return nil
}

func findStats(entries []transcript.Entry) *transcript.StatsInfo {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Stats != nil {
			return entries[i].Stats
		}
	}
	return nil
}

func renderInitSection(w *budgetWriter, entries []transcript.Entry) {
	init := findInit(entries)
	if init == nil || w.overflowed {
		return
	}

	var b strings.Builder
	b.WriteString("<details>\n<summary>🚀 Initialization</summary>\n\n")
	if init.Model != "" {
		fmt.Fprintf(&b, "**Model:** %s\n\n", init.Model)
	}
	if init.SessionID != "" {
		fmt.Fprintf(&b, "**Session:** %s\n\n", init.SessionID)
	}
	if init.WorkingDirectory != "" {
		fmt.Fprintf(&b, "**Working Directory:** %s\n\n", init.WorkingDirectory)
	}

	if len(init.MCPServers) > 0 {
		b.WriteString("**MCP Servers:**\n\n")
		for _, server := range init.MCPServers {
			if server.Status == "connected" {
				fmt.Fprintf(&b, "- %s %s\n", GlyphSuccess, server.Name)
			} else {
				// Per-failure detail: surface the raw status text.
				fmt.Fprintf(&b, "- %s %s (%s)\n", GlyphError, server.Name, server.Status)
			}
		}
		b.WriteString("\n")
	}

	if len(init.Tools) > 0 {
		fmt.Fprintf(&b, "**Tools:** %d available\n\n", len(init.Tools))
		grouped := CategorizeTools(init.Tools)
		for _, category := range categoryOrder {
			members := grouped[category]
			if len(members) == 0 {
				continue
			}
			fmt.Fprintf(&b, "- **%s** (%d): %s\n", category, len(members), strings.Join(members, ", "))
		}
		b.WriteString("\n")
	}

	if len(init.SlashCommands) > 0 {
		fmt.Fprintf(&b, "**Slash Commands:** %d available\n\n", len(init.SlashCommands))
		fmt.Fprintf(&b, "- %s\n\n", strings.Join(init.SlashCommands, ", "))
	}

	b.WriteString("</details>\n\n")
	w.write(b.String())
}

func renderReasoningSection(w *budgetWriter, entries []transcript.Entry, index transcript.ResultIndex, formatter *ToolFormatter) {
	if w.overflowed {
		return
	}
	if !w.write("## 🤖 Reasoning\n\n") {
		return
	}

	for _, entry := range entries {
		if entry.Type != "assistant" {
			continue
		}
		for _, block := range entry.Content {
			if w.overflowed {
				return
			}
			switch block.Type {
			case "text":
				text := stripOuterFence(block.Text)
				if text == "" {
					continue
				}
				w.write(text + "\n\n")
			case "tool_use":
				view := formatter.Format(block, lookupResult(index, block.ID))
				w.write(renderToolSection(view))
			}
		}
	}
}

// renderToolSection renders one formatted tool call as markdown: a bare
// summary line when there is no body, a collapsible block otherwise.
func renderToolSection(view ToolView) string {
	summary := view.Glyph + " " + view.Summary
	if view.Meta != "" {
		summary += " (" + view.Meta + ")"
	}

	if !view.HasBody() {
		return summary + "\n\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<details>\n<summary>%s</summary>\n\n", summary)
	if view.Params != "" {
		fmt.Fprintf(&b, "**Parameters:**\n\n%sjson\n%s\n%s\n\n", fence, view.Params, fence)
	}
	if view.Response != "" {
		fmt.Fprintf(&b, "**Response:**\n\n%s\n%s\n%s\n\n", fence, view.Response, fence)
	}
	b.WriteString("</details>\n\n")
	return b.String()
}

func renderRecapSection(w *budgetWriter, entries []transcript.Entry, index transcript.ResultIndex, formatter *ToolFormatter) {
	if w.overflowed {
		return
	}

	var lines []string
	for _, entry := range entries {
		if entry.Type != "assistant" {
			continue
		}
		for _, block := range entry.Content {
			if block.Type != "tool_use" {
				continue
			}
			view := formatter.Format(block, lookupResult(index, block.ID))
			if view.Recap == "" {
				continue
			}
			lines = append(lines, view.Glyph+" "+view.Recap)
		}
	}
	if len(lines) == 0 {
		return
	}

	if !w.write("## 🛠️ Commands and Tools\n\n") {
		return
	}
	for _, line := range lines {
		if !w.write("- " + line + "\n") {
			return
		}
	}
	w.write("\n")
}

func renderStatsSection(w *budgetWriter, entries []transcript.Entry) {
	stats := findStats(entries)
	if stats == nil || w.overflowed {
		return
	}

	var b strings.Builder
	b.WriteString("## 📊 Statistics\n\n")
	fmt.Fprintf(&b, "- **Turns:** %d\n", stats.Turns)
	fmt.Fprintf(&b, "- **Duration:** %s\n", formatDuration(stats.DurationMS))
	fmt.Fprintf(&b, "- **Total Cost:** $%.4f\n", stats.CostUSD)
	fmt.Fprintf(&b, "- **Token Usage:** %d input, %d output, %d cache creation, %d cache read\n",
		stats.Usage.Input, stats.Usage.Output, stats.Usage.CacheCreation, stats.Usage.CacheRead)
	if len(stats.Errors) > 0 {
		fmt.Fprintf(&b, "- **Errors:** %d\n", len(stats.Errors))
		for _, e := range stats.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	if stats.PermissionDenials > 0 {
		fmt.Fprintf(&b, "- **Permission Denials:** %d\n", stats.PermissionDenials)
	}
	w.write(b.String())
}

func lookupResult(index transcript.ResultIndex, id string) *transcript.ToolResult {
	if result, ok := index.Lookup(id); ok {
		return &result
	}
	return nil
}

// stripOuterFence removes accidental outer code-fencing from agent text so
// reasoning renders as prose rather than a code block.
func stripOuterFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}
