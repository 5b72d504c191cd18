// Package version holds the server identity reported to MCP clients.
package version

// Name is the server name reported in initialize and /status.
const Name = "planka-mcp-server"

// Version is overridden at build time with
// -ldflags "-X plankamcp/server/internal/version.Version=...".
var Version = "1.0.0"
