package transcript

// ResultIndex maps tool invocation IDs to their eventual results.
// It is built from a full scan of user entries before rendering begins, so
// pairing does not depend on whether a result appears before or after its
// invocation in the physical ordering.
type ResultIndex map[string]ToolResult

// BuildResultIndex scans all user entries and records every tool_result
// block keyed by its invocation ID. Duplicate IDs are last-write-wins.
func BuildResultIndex(entries []Entry) ResultIndex {
	index := make(ResultIndex)
	for _, entry := range entries {
		if entry.Type != "user" {
			continue
		}
		for _, block := range entry.Content {
			if block.Type != "tool_result" || block.ToolUseID == "" {
				continue
			}
			index[block.ToolUseID] = ToolResult{
				Content:    block.Content,
				IsError:    block.IsError,
				DurationMS: block.DurationMS,
			}
		}
	}
	return index
}

// Lookup returns the result paired with an invocation ID, if any.
func (ix ResultIndex) Lookup(id string) (ToolResult, bool) {
	result, ok := ix[id]
	return result, ok
}
