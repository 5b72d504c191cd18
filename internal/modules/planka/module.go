// Package planka exposes the Planka kanban API as eight MCP manager tools.
// Each tool takes an "action" argument selecting the operation.
package planka

import (
	"context"

	"plankamcp/server/internal/modules"
	"plankamcp/server/pkg/plankaapi"
)

// PlankaModule implements the Module interface for the Planka API
type PlankaModule struct {
	client *plankaapi.Client
}

// New creates a new PlankaModule bound to client
func New(client *plankaapi.Client) *PlankaModule {
	return &PlankaModule{client: client}
}

// Module descriptions
var moduleDescriptions = modules.LocalizedText{
	"en-US": "Planka API - Manage projects, boards, lists, cards, tasks, comments, labels, memberships and card stopwatches",
	"ja-JP": "Planka API - プロジェクト、ボード、リスト、カード、タスク、コメント、ラベル、メンバーシップ、ストップウォッチの管理",
}

// Name returns the module name
func (m *PlankaModule) Name() string {
	return "planka"
}

// Descriptions returns the module descriptions in all languages
func (m *PlankaModule) Descriptions() modules.LocalizedText {
	return moduleDescriptions
}

// Tools returns all available tools
func (m *PlankaModule) Tools() []modules.Tool {
	return toolDefinitions
}

// ExecuteTool dispatches to the handler registered for the tool's action and
// returns the result as JSON text.
func (m *PlankaModule) ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error) {
	actions, ok := toolActions[name]
	if !ok {
		return "", modules.NotFound("unknown tool: %s", name)
	}
	action, _ := params["action"].(string)
	handler, ok := actions[action]
	if !ok {
		return "", modules.Validation("Unknown action: %s", action)
	}
	result, err := handler(ctx, m.client, params)
	if err != nil {
		return "", err
	}
	return toJSON(result)
}

// =============================================================================
// Dispatch
// =============================================================================

// actionHandler runs one action. Handlers check their own required fields
// before touching the client.
type actionHandler func(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error)

type actionSet map[string]actionHandler

var toolActions = map[string]actionSet{
	toolProjectBoard: projectBoardActions,
	toolList:         listActions,
	toolCard:         cardActions,
	toolStopwatch:    stopwatchActions,
	toolLabel:        labelActions,
	toolTask:         taskActions,
	toolComment:      commentActions,
	toolMembership:   membershipActions,
}

var (
	toJSON        = modules.ToJSON
	toStringSlice = modules.ToStringSlice
	require       = modules.RequireFields
)

// =============================================================================
// Parameter helpers
// =============================================================================

func str(params map[string]any, key string) string {
	s, _ := modules.StringParam(params, key)
	return s
}

func num(params map[string]any, key string) float64 {
	f, _ := modules.NumberParam(params, key)
	return f
}

func optString(params map[string]any, key string) plankaapi.OptString {
	var o plankaapi.OptString
	if s, ok := modules.StringParam(params, key); ok {
		o.SetTo(s)
	}
	return o
}

// optNilString maps an explicit JSON null to a remote clear.
func optNilString(params map[string]any, key string) plankaapi.OptNilString {
	var o plankaapi.OptNilString
	v, exists := params[key]
	switch {
	case !exists:
	case v == nil:
		o.SetToNull()
	default:
		if s, ok := v.(string); ok {
			o = plankaapi.NewOptNilString(s)
		}
	}
	return o
}

func optFloat(params map[string]any, key string) plankaapi.OptFloat64 {
	var o plankaapi.OptFloat64
	if f, ok := modules.NumberParam(params, key); ok {
		o.SetTo(f)
	}
	return o
}

func optBool(params map[string]any, key string) plankaapi.OptBool {
	var o plankaapi.OptBool
	if b, ok := modules.BoolParam(params, key); ok {
		o.SetTo(b)
	}
	return o
}

func flag(params map[string]any, key string) bool {
	b, _ := modules.BoolParam(params, key)
	return b
}
