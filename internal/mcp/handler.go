package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"plankamcp/server/internal/jsonrpc"
	"plankamcp/server/internal/middleware"
	"plankamcp/server/internal/modules"
	"plankamcp/server/internal/version"
)

// Handler answers MCP requests from the tool registry.
type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// ProcessRequest routes a JSON-RPC request to the appropriate handler.
// Called by the transport. A panic in any handler is reported as an internal
// error instead of tearing down the transport.
func (h *Handler) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	return middleware.Recover(ctx, req.Method, func() (interface{}, *jsonrpc.Error) {
		return h.route(ctx, req)
	})
}

func (h *Handler) route(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	switch req.Method {
	case "initialize":
		return h.handleInitialize(req), nil
	case "initialized", "notifications/initialized", "notifications/cancelled":
		return nil, nil
	case "ping":
		return struct{}{}, nil
	case "tools/list":
		return h.handleToolsList(), nil
	case "tools/call":
		return h.handleToolCall(ctx, req)
	default:
		return nil, &jsonrpc.Error{Code: jsonrpc.MethodNotFound, Message: "Method not found"}
	}
}

func (h *Handler) handleInitialize(req *jsonrpc.Request) *InitializeResult {
	var params InitializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err == nil {
			h.logger.Info("Client connected",
				zap.String("client", params.ClientInfo.Name),
				zap.String("client_version", params.ClientInfo.Version),
				zap.String("protocol", params.ProtocolVersion),
			)
		}
	}
	return &InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools: &struct{}{},
		},
		ServerInfo: Implementation{
			Name:    version.Name,
			Version: version.Version,
		},
	}
}

func (h *Handler) handleToolsList() *ToolsListResult {
	tools := modules.ListTools()
	if tools == nil {
		tools = []modules.Tool{}
	}
	return &ToolsListResult{Tools: tools}
}

func (h *Handler) handleToolCall(ctx context.Context, req *jsonrpc.Request) (*modules.ToolCallResult, *jsonrpc.Error) {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, &jsonrpc.Error{Code: jsonrpc.InvalidParams, Message: "Invalid params structure"}
	}
	if params.Name == "" {
		return nil, &jsonrpc.Error{Code: jsonrpc.InvalidParams, Message: "name is required"}
	}

	m, _, ok := modules.LookupTool(params.Name)
	if !ok {
		return nil, &jsonrpc.Error{Code: jsonrpc.InvalidParams, Message: fmt.Sprintf("Unknown tool: %s", params.Name)}
	}

	if params.Arguments == nil {
		params.Arguments = make(map[string]any)
	}
	return modules.Run(ctx, m.Name(), params.Name, params.Arguments), nil
}
