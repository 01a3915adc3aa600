// Package transcript parses agent execution transcripts into typed entries.
package transcript

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Entry represents a single top-level record of a transcript.
type Entry struct {
	Type    string          `json:"type"` // "system", "assistant", "user", "result"
	Subtype string          `json:"subtype,omitempty"`
	Content []ContentBlock  `json:"content,omitempty"`
	Init    *InitInfo       `json:"init,omitempty"`
	Stats   *StatsInfo      `json:"stats,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// IsInit reports whether the entry carries initialization info.
func (e Entry) IsInit() bool { return e.Init != nil }

// ContentBlock is one component of an assistant or user message.
type ContentBlock struct {
	Type string `json:"type"` // "text", "tool_use", "tool_result"

	// Text content ("text" blocks).
	Text string `json:"text,omitempty"`

	// Tool invocation ("tool_use" blocks).
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     map[string]any  `json:"input,omitempty"`
	InputKeys []string        `json:"-"` // key order as written in the transcript
	InputRaw  json.RawMessage `json:"-"`

	// Tool result ("tool_result" blocks). Content is normalized to a single
	// string at parse time, whether the record carried a scalar or a list of
	// fragments.
	ToolUseID  string `json:"tool_use_id,omitempty"`
	Content    string `json:"content,omitempty"`
	IsError    bool   `json:"is_error,omitempty"`
	DurationMS *int64 `json:"duration_ms,omitempty"`
}

// ToolResult is the paired outcome of a tool invocation.
type ToolResult struct {
	Content    string
	IsError    bool
	DurationMS *int64
}

// MCPServer describes one configured MCP server and its connection status.
type MCPServer struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// InitInfo is the payload of a system init entry.
type InitInfo struct {
	Model            string      `json:"model"`
	SessionID        string      `json:"session_id"`
	WorkingDirectory string      `json:"cwd"`
	MCPServers       []MCPServer `json:"mcp_servers"`
	Tools            []string    `json:"tools"`
	SlashCommands    []string    `json:"slash_commands"`
}

// TokenUsage captures token consumption reported by the final result entry.
type TokenUsage struct {
	Input         int `json:"input_tokens"`
	Output        int `json:"output_tokens"`
	CacheCreation int `json:"cache_creation_input_tokens"`
	CacheRead     int `json:"cache_read_input_tokens"`
}

// StatsInfo is the payload of the trailing result entry.
type StatsInfo struct {
	Turns             int        `json:"num_turns"`
	DurationMS        int64      `json:"duration_ms"`
	CostUSD           float64    `json:"total_cost_usd"`
	Usage             TokenUsage `json:"usage"`
	Errors            []string   `json:"errors"`
	PermissionDenials int        `json:"permission_denials"`
}

// normalizeContent flattens a tool_result content field to a single string.
// The field may be a plain string or a list of typed fragments.
func normalizeContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}

	var fragments []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &fragments); err == nil {
		var parts []string
		for _, f := range fragments {
			if f.Text != "" {
				parts = append(parts, f.Text)
			}
		}
		return strings.Join(parts, "\n")
	}

	return string(raw)
}

// objectKeys returns the top-level keys of a JSON object in document order.
// Go maps do not preserve order, and the tool formatter needs the keys as
// the agent wrote them so reports stay diff-stable.
func objectKeys(raw json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := keyTok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}
