package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"plankamcp/server/internal/jsonrpc"
	"plankamcp/server/internal/middleware"
)

type recordingProcessor struct {
	methods    []string
	requestIDs []string
}

func (p *recordingProcessor) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	p.methods = append(p.methods, req.Method)
	p.requestIDs = append(p.requestIDs, middleware.GetRequestID(ctx))
	switch req.Method {
	case "fail":
		return nil, &jsonrpc.Error{Code: jsonrpc.MethodNotFound, Message: "Method not found"}
	case "empty":
		return nil, nil
	default:
		return map[string]string{"method": req.Method}, nil
	}
}

func serveLines(t *testing.T, p RequestProcessor, input string) []map[string]any {
	t.Helper()
	var out bytes.Buffer
	if err := NewStdio(p, strings.NewReader(input), &out, nil).Serve(context.Background()); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	var responses []map[string]any
	dec := json.NewDecoder(&out)
	for dec.More() {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		responses = append(responses, m)
	}
	return responses
}

func TestStdioRoundTrip(t *testing.T) {
	p := &recordingProcessor{}
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"ping"}`,
		``,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":"abc","method":"fail"}`,
		`{"jsonrpc":"2.0","id":3,"method":"empty"}`,
	}, "\n")

	responses := serveLines(t, p, input)
	if len(responses) != 3 {
		t.Fatalf("got %d responses, want 3: %v", len(responses), responses)
	}

	if responses[0]["id"] != float64(1) || responses[0]["result"].(map[string]any)["method"] != "ping" {
		t.Errorf("response 0 = %v", responses[0])
	}
	if responses[1]["id"] != "abc" || responses[1]["error"].(map[string]any)["code"] != float64(jsonrpc.MethodNotFound) {
		t.Errorf("response 1 = %v", responses[1])
	}
	if _, ok := responses[2]["result"]; !ok {
		t.Errorf("response 2 missing result: %v", responses[2])
	}

	if len(p.methods) != 4 {
		t.Errorf("processed %v, want 4 requests including the notification", p.methods)
	}
	for i, id := range p.requestIDs {
		if id == "" {
			t.Errorf("request %d had no request id", i)
		}
	}
}

func TestStdioMalformedInput(t *testing.T) {
	p := &recordingProcessor{}
	input := strings.Join([]string{
		`{not json`,
		`[{"jsonrpc":"2.0","id":1,"method":"ping"}]`,
		`{"jsonrpc":"1.0","id":2,"method":"ping"}`,
		`{"jsonrpc":"2.0","id":4,"method":"ping"}`,
	}, "\n")

	responses := serveLines(t, p, input)
	if len(responses) != 4 {
		t.Fatalf("got %d responses, want 4: %v", len(responses), responses)
	}

	wantCodes := []float64{jsonrpc.ParseError, jsonrpc.InvalidRequest, jsonrpc.InvalidRequest}
	for i, code := range wantCodes {
		errObj, ok := responses[i]["error"].(map[string]any)
		if !ok || errObj["code"] != code {
			t.Errorf("response %d = %v, want code %v", i, responses[i], code)
		}
	}
	if responses[0]["id"] != nil {
		t.Errorf("parse error id = %v, want null", responses[0]["id"])
	}
	if len(p.methods) != 1 {
		t.Errorf("processed %v, want only the valid request", p.methods)
	}
}

func TestStdioOversizedLineKeepsServing(t *testing.T) {
	p := &recordingProcessor{}
	huge := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"data":"` + strings.Repeat("A", maxMessageSize) + `"}}`
	input := huge + "\n" + `{"jsonrpc":"2.0","id":2,"method":"ping"}` + "\n"

	responses := serveLines(t, p, input)
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}
	errObj, ok := responses[0]["error"].(map[string]any)
	if !ok || errObj["code"] != float64(jsonrpc.InvalidRequest) {
		t.Errorf("response 0 = %v, want invalid request", responses[0])
	}
	if id, ok := responses[0]["id"]; !ok || id != nil {
		t.Errorf("oversized id = %v (present %v), want null", id, ok)
	}
	if responses[1]["id"] != float64(2) {
		t.Errorf("response 1 = %v", responses[1])
	}
	if len(p.methods) != 1 || p.methods[0] != "ping" {
		t.Errorf("processed %v, want only ping", p.methods)
	}
}

func TestStdioLineLimitBoundary(t *testing.T) {
	ping := `{"jsonrpc":"2.0","id":1,"method":"ping"}`
	tests := []struct {
		name      string
		limit     int
		input     string
		wantCode  float64
		wantCalls int
	}{
		{name: "at limit", limit: len(ping), input: ping + "\n", wantCalls: 1},
		{name: "at limit without newline", limit: len(ping), input: ping, wantCalls: 1},
		{name: "one over", limit: len(ping) - 1, input: ping + "\n", wantCode: jsonrpc.InvalidRequest},
		{name: "one over without newline", limit: len(ping) - 1, input: ping, wantCode: jsonrpc.InvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &recordingProcessor{}
			var out bytes.Buffer
			s := NewStdio(p, strings.NewReader(tt.input), &out, nil)
			s.maxLine = tt.limit
			if err := s.Serve(context.Background()); err != nil {
				t.Fatalf("Serve: %v", err)
			}
			var resp map[string]any
			if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v (%s)", err, out.String())
			}
			if tt.wantCode != 0 {
				errObj, ok := resp["error"].(map[string]any)
				if !ok || errObj["code"] != tt.wantCode {
					t.Errorf("response = %v, want code %v", resp, tt.wantCode)
				}
			}
			if len(p.methods) != tt.wantCalls {
				t.Errorf("processed %v, want %d calls", p.methods, tt.wantCalls)
			}
		})
	}
}

func TestStdioStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// A reader that never returns keeps the loop waiting on ctx alone.
	pr, pw := io.Pipe()
	defer pw.Close()
	err := NewStdio(&recordingProcessor{}, pr, &bytes.Buffer{}, nil).Serve(ctx)
	if err != context.Canceled {
		t.Errorf("Serve = %v, want context.Canceled", err)
	}
}

func TestHTTPProbe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHTTPHandler(nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name: "status", method: http.MethodGet, path: "/status", wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				if body["status"] != "ok" || body["server"] != "planka-mcp-server" || body["version"] == "" {
					t.Errorf("body = %v", body)
				}
			},
		},
		{
			name: "post echoes id", method: http.MethodPost, path: "/mcp", body: `{"jsonrpc":"2.0","id":7,"method":"tools/list"}`, wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				if body["id"] != float64(7) || body["jsonrpc"] != "2.0" {
					t.Errorf("body = %v", body)
				}
				if msg := body["result"].(map[string]any)["message"]; msg != probeMessage {
					t.Errorf("message = %v", msg)
				}
			},
		},
		{
			name: "post without id", method: http.MethodPost, path: "/mcp", body: `{}`, wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				if id, ok := body["id"]; !ok || id != nil {
					t.Errorf("id = %v (present %v), want null", id, ok)
				}
			},
		},
		{
			name: "get not allowed", method: http.MethodGet, path: "/mcp", wantStatus: http.StatusMethodNotAllowed,
			check: func(t *testing.T, body map[string]any) {
				errObj := body["error"].(map[string]any)
				if errObj["code"] != float64(jsonrpc.ServerError) || errObj["message"] != "Method not allowed. Use POST for MCP requests." {
					t.Errorf("error = %v", errObj)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v (%s)", err, rec.Body.String())
			}
			tt.check(t, body)
		})
	}
}

func TestHTTPProbeCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest(http.MethodOptions, "/mcp", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	NewHTTPHandler(nil).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
