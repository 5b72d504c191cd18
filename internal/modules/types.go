package modules

import "context"

// DefaultLanguage selects tool descriptions sent to clients.
const DefaultLanguage = "en-US"

// LocalizedText maps a BCP 47 language tag (en-US, ja-JP) to text.
type LocalizedText map[string]string

// Text returns the text for lang, or the DefaultLanguage text when lang has
// no entry.
func (t LocalizedText) Text(lang string) string {
	if s := t[lang]; s != "" {
		return s
	}
	return t[DefaultLanguage]
}

// Module is a group of MCP tools backed by one remote service.
type Module interface {
	Name() string
	Descriptions() LocalizedText
	Tools() []Tool
	// ExecuteTool runs a tool whose params already passed schema validation
	// and returns the text content of the result.
	ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error)
}

// ToolAnnotations are the MCP behavior hints for a tool.
type ToolAnnotations struct {
	ReadOnlyHint    *bool `json:"readOnlyHint,omitempty"`
	DestructiveHint *bool `json:"destructiveHint,omitempty"`
	IdempotentHint  *bool `json:"idempotentHint,omitempty"`
	OpenWorldHint   *bool `json:"openWorldHint,omitempty"`
}

// Hints builds annotations for a tool that talks to a remote service.
func Hints(readOnly, destructive, idempotent bool) *ToolAnnotations {
	openWorld := true
	return &ToolAnnotations{
		ReadOnlyHint:    &readOnly,
		DestructiveHint: &destructive,
		IdempotentHint:  &idempotent,
		OpenWorldHint:   &openWorld,
	}
}

// Tool is an MCP tool definition. Descriptions holds every language;
// Description is filled from it when tools are listed.
type Tool struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Descriptions LocalizedText    `json:"descriptions,omitempty"`
	InputSchema  InputSchema      `json:"inputSchema"`
	Annotations  *ToolAnnotations `json:"annotations,omitempty"`
}

// InputSchema is the JSON Schema object describing tool arguments.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property is one argument in an InputSchema. Items, Properties and
// Required describe array elements.
type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Default     any                 `json:"default,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

// ToolCallResult is the result of tools/call.
type ToolCallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
	// ErrorInfo is set when IsError is true.
	ErrorInfo *ErrorInfo `json:"errorInfo,omitempty"`
}

// ContentBlock is one text item of a tool result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
