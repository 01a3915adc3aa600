package report

import (
	"regexp"
	"strings"
)

// Category is a display bucket for the initialization summary. It plays no
// part in per-call formatting.
type Category string

const (
	CategoryCore         Category = "Core"
	CategoryFileOps      Category = "File Operations"
	CategoryBuiltin      Category = "Builtin"
	CategorySafeOutputs  Category = "Safe Outputs"
	CategorySafeInputs   Category = "Safe Inputs"
	CategoryGitHub       Category = "GitHub"
	CategoryPlaywright   Category = "Playwright"
	CategorySerena       Category = "Serena"
	CategoryMCP          Category = "MCP"
	CategoryCustomAgents Category = "Custom Agents"
	CategoryOther        Category = "Other"
)

// categoryOrder fixes the display order of non-empty categories.
var categoryOrder = []Category{
	CategoryCore,
	CategoryFileOps,
	CategoryBuiltin,
	CategorySafeOutputs,
	CategorySafeInputs,
	CategoryGitHub,
	CategoryPlaywright,
	CategorySerena,
	CategoryMCP,
	CategoryCustomAgents,
	CategoryOther,
}

// CategoryOrder returns the fixed display order of categories.
func CategoryOrder() []Category {
	return categoryOrder
}

const (
	safeOutputsPrefix = "safe_outputs_"
	safeInputsPrefix  = "safe_inputs_"
)

var coreTools = map[string]bool{
	"Task":         true,
	"TodoWrite":    true,
	"ExitPlanMode": true,
}

var fileOpTools = map[string]bool{
	"Read":         true,
	"Write":        true,
	"Edit":         true,
	"MultiEdit":    true,
	"NotebookEdit": true,
	"LS":           true,
}

// builtinTools is matched case-insensitively.
var builtinTools = map[string]bool{
	"bash":       true,
	"bashoutput": true,
	"glob":       true,
	"grep":       true,
	"killshell":  true,
	"websearch":  true,
	"webfetch":   true,
}

// mcpResourceTools are the fixed resource-listing tools that belong to the
// generic MCP bucket despite not carrying the mcp__ prefix.
var mcpResourceTools = map[string]bool{
	"ListMcpResourcesTool": true,
	"ReadMcpResourceTool":  true,
}

// customAgentPattern matches lower-case kebab names such as
// "code-reviewer" or "docs-writer-2". This is a heuristic, not a guarantee:
// unusual tool names can defeat it.
var customAgentPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)+$`)

// Classify buckets a tool name into a display category. Rules are evaluated
// in a fixed precedence order; the first match wins.
func Classify(name string) Category {
	switch {
	case coreTools[name]:
		return CategoryCore
	case fileOpTools[name]:
		return CategoryFileOps
	case builtinTools[strings.ToLower(name)]:
		return CategoryBuiltin
	case strings.HasPrefix(name, safeOutputsPrefix):
		return CategorySafeOutputs
	case strings.HasPrefix(name, safeInputsPrefix):
		return CategorySafeInputs
	case strings.HasPrefix(name, "mcp__"):
		provider, _ := splitMCPName(name)
		switch provider {
		case "github":
			return CategoryGitHub
		case "playwright":
			return CategoryPlaywright
		case "serena":
			return CategorySerena
		}
		return CategoryMCP
	case mcpResourceTools[name]:
		return CategoryMCP
	case isCustomAgentName(name):
		return CategoryCustomAgents
	}
	return CategoryOther
}

// isCustomAgentName applies the kebab-case custom agent heuristic.
func isCustomAgentName(name string) bool {
	if strings.Contains(name, "__") {
		return false
	}
	if strings.HasPrefix(name, safeOutputsPrefix) || strings.HasPrefix(name, safeInputsPrefix) {
		return false
	}
	return customAgentPattern.MatchString(name)
}

// DisplayToolName reformats a tool name for the inventory listing: safe
// prefixes are stripped and MCP names render as provider::method.
func DisplayToolName(name string) string {
	switch {
	case strings.HasPrefix(name, safeOutputsPrefix):
		return strings.TrimPrefix(name, safeOutputsPrefix)
	case strings.HasPrefix(name, safeInputsPrefix):
		return strings.TrimPrefix(name, safeInputsPrefix)
	case strings.HasPrefix(name, "mcp__"):
		provider, method := splitMCPName(name)
		if method == "" {
			return provider
		}
		return provider + "::" + method
	}
	return name
}

// CategorizeTools groups a tool inventory by category, preserving the input
// order of members within each bucket.
func CategorizeTools(tools []string) map[Category][]string {
	grouped := make(map[Category][]string)
	for _, tool := range tools {
		category := Classify(tool)
		grouped[category] = append(grouped[category], DisplayToolName(tool))
	}
	return grouped
}
