package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"plankamcp/server/internal/jsonrpc"
	"plankamcp/server/internal/observability"
)

// Recover runs fn and turns a panic into an internal JSON-RPC error, so one
// bad request cannot take down the stdio loop.
func Recover(ctx context.Context, method string, fn func() (interface{}, *jsonrpc.Error)) (result interface{}, rpcErr *jsonrpc.Error) {
	defer func() {
		if err := recover(); err != nil {
			requestID := GetRequestID(ctx)
			zap.L().Error("PANIC recovered",
				zap.String("request_id", requestID),
				zap.String("method", method),
				zap.Any("panic", err),
				zap.ByteString("stack", debug.Stack()),
			)

			// Log to Loki for alerting
			observability.LogSecurityEvent(requestID, "panic_recovered", map[string]any{
				"method": method,
				"error":  fmt.Sprintf("%v", err),
			})

			result = nil
			rpcErr = &jsonrpc.Error{Code: jsonrpc.InternalError, Message: "An unexpected error occurred"}
		}
	}()
	return fn()
}
