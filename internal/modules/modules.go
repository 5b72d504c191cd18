package modules

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"plankamcp/server/internal/middleware"
	"plankamcp/server/internal/observability"
)

// =============================================================================
// Registry
// =============================================================================

// registry holds all registered modules
var registry = make(map[string]Module)

// RegisterModule adds a module to the registry
func RegisterModule(m Module) {
	registry[m.Name()] = m
}

// GetModule returns a module by name
func GetModule(name string) (Module, bool) {
	m, ok := registry[name]
	return m, ok
}

// ListModules returns all registered module names, sorted
func ListModules() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListTools returns the tools of every registered module with the English
// description selected.
func ListTools() []Tool {
	var tools []Tool
	for _, name := range ListModules() {
		for _, t := range registry[name].Tools() {
			if desc := t.Descriptions.Text(DefaultLanguage); desc != "" {
				t.Description = desc
			}
			t.Descriptions = nil
			tools = append(tools, t)
		}
	}
	return tools
}

// LookupTool finds the module that owns a tool. Tool names are unique
// across modules.
func LookupTool(toolName string) (Module, Tool, bool) {
	for _, name := range ListModules() {
		m := registry[name]
		if tool, ok := findTool(m.Tools(), toolName); ok {
			return m, tool, true
		}
	}
	return nil, Tool{}, false
}

// =============================================================================
// Tool Execution
// =============================================================================

// Run executes a single tool in a module. Failures are reported on the
// result, never as a Go error, so the caller can always answer the client.
func Run(ctx context.Context, moduleName, toolName string, params map[string]any) *ToolCallResult {
	start := time.Now()

	m, ok := registry[moduleName]
	if !ok {
		return errorResult(NotFound("unknown module: %s", moduleName))
	}
	tool, found := findTool(m.Tools(), toolName)
	if !found {
		return errorResult(NotFound("unknown tool: %s", toolName))
	}

	// Validate params against tool's InputSchema
	validated, err := ValidateParams(tool.InputSchema, params)
	if err != nil {
		return errorResult(&ToolError{Category: CategoryValidation, Err: err})
	}

	action, _ := validated["action"].(string)
	ctx, span := observability.StartToolSpan(ctx, toolName, action)
	defer span.End()

	result, err := m.ExecuteTool(ctx, toolName, validated)
	duration := time.Since(start)
	requestID := middleware.GetRequestID(ctx)

	if err != nil {
		res := errorResult(err)
		info := res.ErrorInfo
		observability.EndToolSpan(span, err)
		observability.RecordToolCall(ctx, toolName, action, string(info.Category), duration)
		observability.LogToolCall(requestID, moduleName, toolName, action, duration.Milliseconds(), "error", err.Error())
		if info.Category == CategoryAuthentication {
			observability.LogSecurityEvent(requestID, "planka_authentication_failed", map[string]any{
				"tool":   toolName,
				"action": action,
			})
		}
		zap.L().Warn("Tool call failed",
			zap.String("request_id", requestID),
			zap.String("tool", toolName),
			zap.String("action", action),
			zap.String("category", string(info.Category)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return res
	}

	observability.RecordToolCall(ctx, toolName, action, "success", duration)
	observability.LogToolCall(requestID, moduleName, toolName, action, duration.Milliseconds(), "success", "")
	zap.L().Debug("Tool call completed",
		zap.String("request_id", requestID),
		zap.String("tool", toolName),
		zap.String("action", action),
		zap.Duration("duration", duration),
	)
	return TextResult(result)
}

// TextResult wraps text in a successful result.
func TextResult(text string) *ToolCallResult {
	return &ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func errorResult(err error) *ToolCallResult {
	return &ToolCallResult{
		Content:   []ContentBlock{{Type: "text", Text: fmt.Sprintf("Error: %s", err.Error())}},
		IsError:   true,
		ErrorInfo: Classify(err),
	}
}
