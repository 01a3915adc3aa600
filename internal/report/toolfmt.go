package report

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/strawgate/gh-aw-sub001/internal/transcript"
)

// Status glyphs for tool invocations.
const (
	GlyphSuccess = "✅"
	GlyphError   = "❌"
	GlyphUnknown = "❓"
)

// Summary truncation caps, in characters.
const (
	bashSummaryLimit    = 300
	searchSummaryLimit  = 80
	defaultSummaryLimit = 100
	mcpValueLimit       = 40
	mcpMaxPreviewKeys   = 4
)

// DefaultSectionLimit caps each Parameters/Response section before embedding.
const DefaultSectionLimit = 256

// truncatedSuffix marks section content that was cut at the section limit.
const truncatedSuffix = "... (truncated)"

// ToolKind is the closed enumeration of known tool shapes. Unknown names
// fall through to KindDefault rather than requiring exhaustive handling.
type ToolKind int

const (
	KindDefault ToolKind = iota
	KindBash
	KindFileRead
	KindFileWrite
	KindFileEdit
	KindSearch
	KindMCP
)

// KindOf buckets a tool name into a formatting kind.
func KindOf(name string) ToolKind {
	if strings.HasPrefix(name, "mcp__") {
		return KindMCP
	}
	switch name {
	case "Bash":
		return KindBash
	case "Read", "LS":
		return KindFileRead
	case "Write":
		return KindFileWrite
	case "Edit", "MultiEdit", "NotebookEdit":
		return KindFileEdit
	case "Grep", "Glob", "WebSearch":
		return KindSearch
	}
	return KindDefault
}

// internalTools are purely internal file/search operations that never touch
// the outside world; they are excluded from the trailing recap list but
// still render in the main transcript walk.
var internalTools = map[string]bool{
	"Read":         true,
	"Write":        true,
	"Edit":         true,
	"MultiEdit":    true,
	"NotebookEdit": true,
	"LS":           true,
	"Grep":         true,
	"Glob":         true,
	"TodoWrite":    true,
}

// workspacePrefix matches the CI workspace root that prefixes most paths in
// a hosted run; it is stripped for readability.
var workspacePrefix = regexp.MustCompile(`^/home/runner/work/[^/]+/[^/]+/`)

// ToolView is the renderable form of one invocation+result pair.
type ToolView struct {
	Name     string
	Glyph    string
	Summary  string // one-line summary, glyph not included
	Params   string // truncated raw input, empty when absent
	Response string // truncated result content, empty when absent
	Meta     string // duration / token estimate suffix, empty when absent
	Recap    string // recap list line, empty for internal tools
}

// HasBody reports whether the view carries any collapsible section content.
func (v ToolView) HasBody() bool { return v.Params != "" || v.Response != "" }

// ToolFormatter renders invocation+result pairs with per-kind rules.
type ToolFormatter struct {
	sectionLimit int
}

// NewToolFormatter creates a formatter. A non-positive section limit falls
// back to DefaultSectionLimit.
func NewToolFormatter(sectionLimit int) *ToolFormatter {
	if sectionLimit <= 0 {
		sectionLimit = DefaultSectionLimit
	}
	return &ToolFormatter{sectionLimit: sectionLimit}
}

// Format renders a tool_use block and its paired result, if any.
func (f *ToolFormatter) Format(block transcript.ContentBlock, result *transcript.ToolResult) ToolView {
	view := ToolView{
		Name:    block.Name,
		Glyph:   glyphFor(result),
		Summary: f.summarize(block),
	}

	view.Meta = metaSuffix(block, result)
	view.Params = f.sectionContent(paramsText(block))
	if result != nil {
		view.Response = f.sectionContent(result.Content)
	}
	if !internalTools[block.Name] {
		view.Recap = f.recapText(block)
	}

	return view
}

// recapText is the "touched the outside world" line for the trailing recap
// list. Shell commands drop their description prefix there.
func (f *ToolFormatter) recapText(block transcript.ContentBlock) string {
	if KindOf(block.Name) == KindBash {
		return "`" + collapseCommand(inputString(block, "command")) + "`"
	}
	return f.summarize(block)
}

func glyphFor(result *transcript.ToolResult) string {
	switch {
	case result == nil:
		return GlyphUnknown
	case result.IsError:
		return GlyphError
	default:
		return GlyphSuccess
	}
}

// summarize builds the per-kind one-line summary.
func (f *ToolFormatter) summarize(block transcript.ContentBlock) string {
	switch KindOf(block.Name) {
	case KindBash:
		command := collapseCommand(inputString(block, "command"))
		summary := "`" + command + "`"
		if desc := inputString(block, "description"); desc != "" {
			summary = desc + ": " + summary
		}
		return summary

	case KindFileRead, KindFileWrite, KindFileEdit:
		path := inputString(block, "file_path")
		if path == "" {
			path = inputString(block, "path")
		}
		if path == "" {
			path = inputString(block, "notebook_path")
		}
		return block.Name + "(" + stripWorkspacePrefix(path) + ")"

	case KindSearch:
		query := inputString(block, "pattern")
		if query == "" {
			query = inputString(block, "query")
		}
		return block.Name + "(" + truncateChars(query, searchSummaryLimit, "...") + ")"

	case KindMCP:
		return mcpSummary(block)

	default:
		return block.Name + "(" + truncateChars(defaultKeyArg(block), defaultSummaryLimit, "...") + ")"
	}
}

// collapseCommand flattens a shell command onto one line: newlines, tabs and
// carriage returns become spaces, runs of whitespace collapse, backticks are
// escaped, and the result is capped at 300 characters.
func collapseCommand(command string) string {
	collapsed := strings.Join(strings.Fields(command), " ")
	collapsed = strings.ReplaceAll(collapsed, "`", "\\`")
	return truncateChars(collapsed, bashSummaryLimit, "...")
}

// mcpSummary renders an MCP tool call as provider::method(param-preview).
func mcpSummary(block transcript.ContentBlock) string {
	provider, method := splitMCPName(block.Name)

	var previews []string
	keys := block.InputKeys
	shown := keys
	if len(shown) > mcpMaxPreviewKeys {
		shown = shown[:mcpMaxPreviewKeys]
	}
	for _, key := range shown {
		previews = append(previews, key+": "+valuePreview(block.Input[key]))
	}
	preview := strings.Join(previews, ", ")
	if len(keys) > mcpMaxPreviewKeys {
		preview += ", …"
	}

	return provider + "::" + method + "(" + preview + ")"
}

// splitMCPName splits an mcp__provider__method name. Method may itself
// contain double separators.
func splitMCPName(name string) (provider, method string) {
	parts := strings.SplitN(name, "__", 3)
	if len(parts) < 3 {
		if len(parts) == 2 {
			return parts[1], ""
		}
		return name, ""
	}
	return parts[1], parts[2]
}

// valuePreview renders one input value for an MCP summary line. Short arrays
// are shown in full, longer arrays show two items plus a count, objects are
// shown as compact JSON; every preview is capped at 40 characters.
func valuePreview(value any) string {
	var preview string
	switch v := value.(type) {
	case nil:
		preview = "null"
	case string:
		preview = v
	case bool:
		preview = strconv.FormatBool(v)
	case float64:
		preview = strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		items := make([]string, 0, 3)
		if len(v) <= 3 {
			for _, item := range v {
				items = append(items, scalarPreview(item))
			}
			preview = "[" + strings.Join(items, ", ") + "]"
		} else {
			for _, item := range v[:2] {
				items = append(items, scalarPreview(item))
			}
			preview = fmt.Sprintf("[%s, +%d more]", strings.Join(items, ", "), len(v)-2)
		}
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			preview = "{...}"
		} else {
			preview = string(data)
		}
	default:
		preview = fmt.Sprintf("%v", v)
	}
	return truncateChars(preview, mcpValueLimit, "...")
}

func scalarPreview(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

// defaultArgPriority lists input fields by descending relevance for the
// default summary arm.
var defaultArgPriority = []string{"query", "command", "path", "file_path", "pattern", "url", "content"}

// defaultKeyArg picks the most important single input field, falling back
// to the first key in document order.
func defaultKeyArg(block transcript.ContentBlock) string {
	for _, key := range defaultArgPriority {
		if s := inputString(block, key); s != "" {
			return s
		}
	}
	if len(block.InputKeys) > 0 {
		return valuePreview(block.Input[block.InputKeys[0]])
	}
	return ""
}

// metaSuffix builds the duration and token-estimate suffix for one call.
func metaSuffix(block transcript.ContentBlock, result *transcript.ToolResult) string {
	var parts []string
	chars := len(block.InputRaw)
	if result != nil {
		if result.DurationMS != nil {
			parts = append(parts, formatDuration(*result.DurationMS))
		}
		chars += len(result.Content)
	}
	if tokens := estimateTokens(chars); tokens > 0 {
		parts = append(parts, fmt.Sprintf("~%dt", tokens))
	}
	return strings.Join(parts, " ")
}

// formatDuration renders a millisecond duration as "Ns" or "Nm Ns".
func formatDuration(ms int64) string {
	total := ms / 1000
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	minutes := total / 60
	seconds := total % 60
	if seconds == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

// estimateTokens approximates token cost as ceil(chars/4).
func estimateTokens(chars int) int {
	if chars <= 0 {
		return 0
	}
	return (chars + 3) / 4
}

// paramsText renders the raw structured input for the Parameters section.
func paramsText(block transcript.ContentBlock) string {
	raw := strings.TrimSpace(string(block.InputRaw))
	if raw == "" || raw == "{}" || raw == "null" {
		return ""
	}
	return raw
}

// sectionContent caps section content at the configured limit, appending
// the truncation suffix only when content was actually cut.
func (f *ToolFormatter) sectionContent(content string) string {
	if content == "" {
		return ""
	}
	runes := []rune(content)
	if len(runes) <= f.sectionLimit {
		return content
	}
	return string(runes[:f.sectionLimit]) + truncatedSuffix
}

// truncateChars caps s at limit characters, appending marker when cut.
func truncateChars(s string, limit int, marker string) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + marker
}

// stripWorkspacePrefix removes the hosted-runner workspace root from a path.
func stripWorkspacePrefix(path string) string {
	return workspacePrefix.ReplaceAllString(path, "")
}

// inputString returns a string-valued input field, or "".
func inputString(block transcript.ContentBlock, key string) string {
	if v, ok := block.Input[key].(string); ok {
		return v
	}
	return ""
}
