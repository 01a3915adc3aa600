package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strawgate/gh-aw-sub001/internal/transcript"
)

// toolBlock builds a tool_use content block from raw JSON input, the same
// way the parser does.
func toolBlock(t *testing.T, name, inputJSON string) transcript.ContentBlock {
	t.Helper()
	var input map[string]any
	require.NoError(t, json.Unmarshal([]byte(inputJSON), &input))

	parser := transcript.NewParser(nil)
	record := `{"type":"assistant","message":{"content":[{"type":"tool_use","id":"t1","name":"` +
		name + `","input":` + inputJSON + `}]}}`
	entries, err := parser.Parse(record)
	require.NoError(t, err)
	return entries[0].Content[0]
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindBash, KindOf("Bash"))
	require.Equal(t, KindFileRead, KindOf("Read"))
	require.Equal(t, KindFileWrite, KindOf("Write"))
	require.Equal(t, KindFileEdit, KindOf("MultiEdit"))
	require.Equal(t, KindSearch, KindOf("Grep"))
	require.Equal(t, KindMCP, KindOf("mcp__github__get_issue"))
	require.Equal(t, KindDefault, KindOf("SomethingNew"))
}

func TestFormat_StatusGlyphs(t *testing.T) {
	f := NewToolFormatter(0)
	block := toolBlock(t, "Bash", `{"command":"true"}`)

	require.Equal(t, GlyphUnknown, f.Format(block, nil).Glyph)
	require.Equal(t, GlyphSuccess, f.Format(block, &transcript.ToolResult{Content: "ok"}).Glyph)
	require.Equal(t, GlyphError, f.Format(block, &transcript.ToolResult{Content: "boom", IsError: true}).Glyph)
}

func TestFormat_BashCommandCollapsed(t *testing.T) {
	f := NewToolFormatter(0)
	block := toolBlock(t, "Bash", `{"command":"ls -la \t\r\n  wc   -l"}`)

	view := f.Format(block, nil)
	require.Equal(t, "`ls -la wc -l`", view.Summary)
}

func TestFormat_BashBackticksEscaped(t *testing.T) {
	f := NewToolFormatter(0)
	block := toolBlock(t, "Bash", "{\"command\":\"echo `pwd`\"}")

	view := f.Format(block, nil)
	require.Equal(t, "`echo \\`pwd\\``", view.Summary)
}

func TestFormat_BashDescriptionPrefixAndRecap(t *testing.T) {
	f := NewToolFormatter(0)
	block := toolBlock(t, "Bash", `{"command":"make test","description":"Run the test suite"}`)

	view := f.Format(block, nil)
	require.Equal(t, "Run the test suite: `make test`", view.Summary)
	// The recap keeps only the command itself.
	require.Equal(t, "`make test`", view.Recap)
}

func TestFormat_BashLongCommandTruncated(t *testing.T) {
	f := NewToolFormatter(0)
	long := strings.Repeat("x", 400)
	block := toolBlock(t, "Bash", `{"command":"`+long+`"}`)

	view := f.Format(block, nil)
	require.Contains(t, view.Summary, strings.Repeat("x", 300)+"...")
	require.NotContains(t, view.Summary, strings.Repeat("x", 301))
}

func TestFormat_FilePathWorkspacePrefixStripped(t *testing.T) {
	f := NewToolFormatter(0)
	block := toolBlock(t, "Read", `{"file_path":"/home/runner/work/owner/repo/src/main.go"}`)

	view := f.Format(block, nil)
	require.Equal(t, "Read(src/main.go)", view.Summary)
}

func TestFormat_SearchQueryTruncated(t *testing.T) {
	f := NewToolFormatter(0)
	long := strings.Repeat("q", 100)
	block := toolBlock(t, "Grep", `{"pattern":"`+long+`"}`)

	view := f.Format(block, nil)
	require.Equal(t, "Grep("+strings.Repeat("q", 80)+"...)", view.Summary)
}

func TestFormat_MCPSummaryScenario(t *testing.T) {
	f := NewToolFormatter(0)
	block := toolBlock(t, "mcp__github__search_issues", `{"state":"open"}`)

	view := f.Format(block, nil)
	require.Equal(t, "github::search_issues(state: open)", view.Summary)
}

func TestFormat_MCPPreviewKeyCap(t *testing.T) {
	f := NewToolFormatter(0)
	block := toolBlock(t, "mcp__github__search_issues",
		`{"a":"1","b":"2","c":"3","d":"4","e":"5"}`)

	view := f.Format(block, nil)
	require.Equal(t, "github::search_issues(a: 1, b: 2, c: 3, d: 4, …)", view.Summary)
}

func TestFormat_MCPArrayPreviews(t *testing.T) {
	f := NewToolFormatter(0)

	short := toolBlock(t, "mcp__github__add_labels", `{"labels":["bug","p1","ux"]}`)
	require.Equal(t, "github::add_labels(labels: [bug, p1, ux])", f.Format(short, nil).Summary)

	long := toolBlock(t, "mcp__github__add_labels", `{"labels":["a","b","c","d","e"]}`)
	require.Equal(t, "github::add_labels(labels: [a, b, +3 more])", f.Format(long, nil).Summary)
}

func TestFormat_MCPObjectAndValueTruncation(t *testing.T) {
	f := NewToolFormatter(0)

	obj := toolBlock(t, "mcp__github__create_issue", `{"opts":{"draft":true}}`)
	require.Equal(t, `github::create_issue(opts: {"draft":true})`, f.Format(obj, nil).Summary)

	longVal := toolBlock(t, "mcp__github__create_issue", `{"body":"`+strings.Repeat("b", 60)+`"}`)
	require.Equal(t, "github::create_issue(body: "+strings.Repeat("b", 40)+"...)", f.Format(longVal, nil).Summary)
}

func TestFormat_DefaultKindPriorityField(t *testing.T) {
	f := NewToolFormatter(0)

	block := toolBlock(t, "CustomTool", `{"other":"x","query":"find things"}`)
	require.Equal(t, "CustomTool(find things)", f.Format(block, nil).Summary)

	// No priority field: first key in document order wins.
	block = toolBlock(t, "CustomTool", `{"zeta":"last-alphabetically","alpha":"first"}`)
	require.Equal(t, "CustomTool(last-alphabetically)", f.Format(block, nil).Summary)
}

func TestFormat_MetaSuffix(t *testing.T) {
	f := NewToolFormatter(0)
	block := toolBlock(t, "Bash", `{"command":"ls"}`)

	duration := int64(65000)
	result := &transcript.ToolResult{Content: strings.Repeat("o", 20), DurationMS: &duration}
	view := f.Format(block, result)

	// input is {"command":"ls"} (16 bytes) + 20 bytes of output = 36 chars -> 9 tokens
	require.Equal(t, "1m 5s ~9t", view.Meta)
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "0s", formatDuration(900))
	require.Equal(t, "5s", formatDuration(5000))
	require.Equal(t, "59s", formatDuration(59999))
	require.Equal(t, "1m", formatDuration(60000))
	require.Equal(t, "1m 5s", formatDuration(65000))
	require.Equal(t, "2m", formatDuration(120000))
}

func TestEstimateTokens(t *testing.T) {
	require.Equal(t, 0, estimateTokens(0))
	require.Equal(t, 1, estimateTokens(1))
	require.Equal(t, 1, estimateTokens(4))
	require.Equal(t, 2, estimateTokens(5))
}

func TestSectionContent_TruncationBoundary(t *testing.T) {
	f := NewToolFormatter(0)

	exact := strings.Repeat("a", DefaultSectionLimit)
	require.Equal(t, exact, f.sectionContent(exact))

	over := exact + "b"
	require.Equal(t, exact+truncatedSuffix, f.sectionContent(over))
}

func TestFormat_InternalToolsExcludedFromRecap(t *testing.T) {
	f := NewToolFormatter(0)

	internal := toolBlock(t, "Read", `{"file_path":"a.txt"}`)
	require.Empty(t, f.Format(internal, nil).Recap)

	external := toolBlock(t, "Bash", `{"command":"ls"}`)
	require.NotEmpty(t, f.Format(external, nil).Recap)
}

func TestFormat_EmptySectionsMeansNoBody(t *testing.T) {
	f := NewToolFormatter(0)
	block := toolBlock(t, "Bash", `{}`)

	view := f.Format(block, nil)
	require.False(t, view.HasBody())

	view = f.Format(block, &transcript.ToolResult{Content: "output"})
	require.True(t, view.HasBody())
}
