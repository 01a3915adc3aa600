package transcript

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrUnparseable is returned when neither physical encoding yields entries.
var ErrUnparseable = errors.New("transcript format not recognized")

// Parser turns raw transcript text into an ordered sequence of entries.
// It accepts two physical encodings: a single JSON array document, or one
// JSON object per line (JSONL) with interleaved non-JSON diagnostic noise.
type Parser struct {
	logger *logrus.Entry
}

// NewParser creates a parser. A nil logger disables skip diagnostics.
func NewParser(logger *logrus.Entry) *Parser {
	if logger == nil {
		noop := logrus.New()
		noop.SetOutput(io.Discard)
		logger = logrus.NewEntry(noop)
	}
	return &Parser{logger: logger}
}

// Parse converts raw transcript text into ordered entries.
// Malformed lines are skipped silently; ErrUnparseable is returned only when
// no entries could be recovered at all.
func (p *Parser) Parse(raw string) ([]Entry, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrUnparseable
	}

	// Fast path: the whole input is one JSON array.
	if strings.HasPrefix(trimmed, "[") {
		var records []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &records); err == nil && len(records) > 0 {
			entries := make([]Entry, 0, len(records))
			for _, rec := range records {
				if entry, ok := p.parseRecord(rec); ok {
					entries = append(entries, entry)
				}
			}
			if len(entries) > 0 {
				return entries, nil
			}
		}
	}

	// Line-oriented fallback: JSONL mixed with debug output.
	var entries []Entry
	scanner := bufio.NewScanner(strings.NewReader(raw))
	const maxScanTokenSize = 16 * 1024 * 1024
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxScanTokenSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// A line may itself hold a nested array of records.
		if strings.HasPrefix(line, "[{") {
			var records []json.RawMessage
			if err := json.Unmarshal([]byte(line), &records); err == nil {
				for _, rec := range records {
					if entry, ok := p.parseRecord(rec); ok {
						entries = append(entries, entry)
					}
				}
				continue
			}
		}

		if !strings.HasPrefix(line, "{") {
			// Non-JSON diagnostic noise between records.
			p.logger.WithField("line", lineNum).Debug("skipping non-JSON line")
			continue
		}

		var rec json.RawMessage
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			// Partial or truncated output, not an error.
			p.logger.WithField("line", lineNum).WithError(err).Debug("skipping malformed line")
			continue
		}
		if entry, ok := p.parseRecord(rec); ok {
			entries = append(entries, entry)
		}
	}

	if len(entries) == 0 {
		return nil, ErrUnparseable
	}
	return entries, nil
}

// rawEntry mirrors the top-level record shape across all entry types.
type rawEntry struct {
	Type    string          `json:"type"`
	Subtype string          `json:"subtype"`
	Message json.RawMessage `json:"message"`

	// system init fields
	Model         string      `json:"model"`
	SessionID     string      `json:"session_id"`
	CWD           string      `json:"cwd"`
	Tools         []string    `json:"tools"`
	MCPServers    []MCPServer `json:"mcp_servers"`
	SlashCommands []string    `json:"slash_commands"`

	// result fields
	NumTurns          int             `json:"num_turns"`
	DurationMS        int64           `json:"duration_ms"`
	TotalCostUSD      float64         `json:"total_cost_usd"`
	Usage             TokenUsage      `json:"usage"`
	Errors            []string        `json:"errors"`
	PermissionDenials json.RawMessage `json:"permission_denials"`
}

func (p *Parser) parseRecord(raw json.RawMessage) (Entry, bool) {
	var rec rawEntry
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Entry{}, false
	}

	entry := Entry{Type: rec.Type, Subtype: rec.Subtype, Raw: raw}

	switch rec.Type {
	case "system":
		if rec.Subtype == "init" {
			entry.Init = &InitInfo{
				Model:            rec.Model,
				SessionID:        rec.SessionID,
				WorkingDirectory: rec.CWD,
				MCPServers:       rec.MCPServers,
				Tools:            rec.Tools,
				SlashCommands:    rec.SlashCommands,
			}
		}
	case "assistant", "user":
		entry.Content = parseMessageContent(rec.Message)
	case "result":
		entry.Stats = &StatsInfo{
			Turns:             rec.NumTurns,
			DurationMS:        rec.DurationMS,
			CostUSD:           rec.TotalCostUSD,
			Usage:             rec.Usage,
			Errors:            rec.Errors,
			PermissionDenials: countDenials(rec.PermissionDenials),
		}
	}

	return entry, true
}

// parseMessageContent extracts content blocks from a message payload.
// Content may be a plain string or an array of typed blocks.
func parseMessageContent(message json.RawMessage) []ContentBlock {
	if len(message) == 0 {
		return nil
	}

	var msg struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(message, &msg); err != nil || len(msg.Content) == 0 {
		return nil
	}

	var asString string
	if err := json.Unmarshal(msg.Content, &asString); err == nil {
		if asString == "" {
			return nil
		}
		return []ContentBlock{{Type: "text", Text: asString}}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(msg.Content, &items); err != nil {
		return nil
	}

	var blocks []ContentBlock
	for _, rawItem := range items {
		var item struct {
			Type       string          `json:"type"`
			Text       string          `json:"text"`
			ID         string          `json:"id"`
			Name       string          `json:"name"`
			Input      json.RawMessage `json:"input"`
			ToolUseID  string          `json:"tool_use_id"`
			Content    json.RawMessage `json:"content"`
			IsError    bool            `json:"is_error"`
			DurationMS *int64          `json:"duration_ms"`
		}
		if err := json.Unmarshal(rawItem, &item); err != nil {
			continue
		}

		switch item.Type {
		case "text":
			if item.Text != "" {
				blocks = append(blocks, ContentBlock{Type: "text", Text: item.Text})
			}
		case "tool_use":
			var input map[string]any
			json.Unmarshal(item.Input, &input)
			blocks = append(blocks, ContentBlock{
				Type:      "tool_use",
				ID:        item.ID,
				Name:      item.Name,
				Input:     input,
				InputKeys: objectKeys(item.Input),
				InputRaw:  item.Input,
			})
		case "tool_result":
			blocks = append(blocks, ContentBlock{
				Type:       "tool_result",
				ToolUseID:  item.ToolUseID,
				Content:    normalizeContent(item.Content),
				IsError:    item.IsError,
				DurationMS: item.DurationMS,
			})
		}
	}

	return blocks
}

// countDenials accepts either a count or a list of denial records.
func countDenials(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return len(list)
	}
	return 0
}
