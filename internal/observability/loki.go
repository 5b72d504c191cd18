package observability

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

const lokiQueueSize = 256

// LokiConfig configures event shipping to Grafana Loki. Shipping is
// disabled unless URL, User and APIKey are all set.
type LokiConfig struct {
	URL      string
	User     string
	APIKey   string
	App      string
	Instance string
}

// lokiEntry is one log line with its stream labels.
type lokiEntry struct {
	labels map[string]string
	fields map[string]any
	at     time.Time
}

// LokiClient ships entries from a bounded queue on a single goroutine.
// Entries are dropped when the queue is full.
type LokiClient struct {
	pushURL    string
	user       string
	apiKey     string
	app        string
	instance   string
	httpClient *http.Client

	mu     sync.RWMutex
	closed bool
	queue  chan lokiEntry
	done   chan struct{}
}

var (
	clientMu      sync.RWMutex
	defaultClient *LokiClient
)

// Init installs the Loki client used by the Log* functions. Calling it
// again replaces the previous client after draining it.
func Init(cfg LokiConfig) {
	c := newLokiClient(cfg)
	clientMu.Lock()
	prev := defaultClient
	defaultClient = c
	clientMu.Unlock()
	if prev != nil {
		_ = prev.Close(context.Background())
	}

	if c.enabled() {
		zap.L().Info("Loki shipping enabled", zap.String("app", c.app), zap.String("instance", c.instance))
	} else {
		zap.L().Debug("Loki not configured")
	}
}

// Shutdown drains queued entries until ctx is done.
func Shutdown(ctx context.Context) error {
	clientMu.RLock()
	c := defaultClient
	clientMu.RUnlock()
	if c == nil {
		return nil
	}
	return c.Close(ctx)
}

func newLokiClient(cfg LokiConfig) *LokiClient {
	c := &LokiClient{
		app:      cfg.App,
		instance: cfg.Instance,
	}
	if c.app == "" {
		c.app = "planka-mcp"
	}
	if c.instance == "" {
		c.instance = "local"
	}
	if cfg.URL == "" || cfg.User == "" || cfg.APIKey == "" {
		return c
	}

	c.pushURL = strings.TrimRight(cfg.URL, "/") + "/loki/api/v1/push"
	c.user = cfg.User
	c.apiKey = cfg.APIKey
	c.httpClient = &http.Client{Timeout: 5 * time.Second}
	c.queue = make(chan lokiEntry, lokiQueueSize)
	c.done = make(chan struct{})
	go c.run()
	return c
}

func (c *LokiClient) enabled() bool { return c.queue != nil }

func (c *LokiClient) enqueue(labels map[string]string, fields map[string]any) {
	if !c.enabled() {
		return
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.queue <- lokiEntry{labels: labels, fields: fields, at: time.Now()}:
	default:
		zap.L().Debug("Loki queue full, dropping entry")
	}
}

func (c *LokiClient) run() {
	defer close(c.done)
	for e := range c.queue {
		if err := c.send(e); err != nil {
			zap.L().Warn("Loki push failed", zap.Error(err))
		}
	}
}

// Close stops accepting entries and waits for the queue to drain.
func (c *LokiClient) Close(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.queue)
	}
	c.mu.Unlock()
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *LokiClient) send(e lokiEntry) error {
	body := c.encode(e)
	req, err := http.NewRequest(http.MethodPost, c.pushURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.SetBasicAuth(c.user, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// encode renders the push API body:
// {"streams":[{"stream":{labels},"values":[["<unix ns>","<json line>"]]}]}
func (c *LokiClient) encode(e lokiEntry) []byte {
	labels := make(map[string]string, len(e.labels)+2)
	for k, v := range e.labels {
		labels[k] = v
	}
	labels["app"] = c.app
	labels["instance"] = c.instance

	var line jx.Encoder
	line.ObjStart()
	for _, k := range sortedKeys(e.fields) {
		line.FieldStart(k)
		encodeValue(&line, e.fields[k])
	}
	line.ObjEnd()

	var enc jx.Encoder
	enc.ObjStart()
	enc.FieldStart("streams")
	enc.ArrStart()
	enc.ObjStart()
	enc.FieldStart("stream")
	enc.ObjStart()
	for _, k := range sortedKeys(labels) {
		enc.FieldStart(k)
		enc.Str(labels[k])
	}
	enc.ObjEnd()
	enc.FieldStart("values")
	enc.ArrStart()
	enc.ArrStart()
	enc.Str(strconv.FormatInt(e.at.UnixNano(), 10))
	enc.Str(line.String())
	enc.ArrEnd()
	enc.ArrEnd()
	enc.ObjEnd()
	enc.ArrEnd()
	enc.ObjEnd()
	return enc.Bytes()
}

func encodeValue(e *jx.Encoder, v any) {
	switch v := v.(type) {
	case nil:
		e.Null()
	case string:
		e.Str(v)
	case bool:
		e.Bool(v)
	case int:
		e.Int(v)
	case int64:
		e.Int64(v)
	case float64:
		e.Float64(v)
	case error:
		e.Str(v.Error())
	default:
		e.Str(fmt.Sprint(v))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func push(labels map[string]string, fields map[string]any) {
	clientMu.RLock()
	c := defaultClient
	clientMu.RUnlock()
	if c != nil {
		c.enqueue(labels, fields)
	}
}

// LogToolCall ships one tool invocation.
func LogToolCall(requestID, module, tool, action string, durationMs int64, status string, errMsg string) {
	level := "info"
	if status == "error" {
		level = "error"
	}
	fields := map[string]any{
		"request_id":  requestID,
		"tool":        tool,
		"action":      action,
		"duration_ms": durationMs,
		"status":      status,
	}
	if errMsg != "" {
		fields["error"] = errMsg
	}
	push(map[string]string{"type": "tool_call", "module": module, "status": status, "level": level}, fields)
}

// LogRequest ships one HTTP probe request.
func LogRequest(method, path string, statusCode int, durationMs int64) {
	push(map[string]string{"type": "request", "method": method, "level": "info"}, map[string]any{
		"path":        path,
		"status_code": statusCode,
		"duration_ms": durationMs,
	})
}

// LogError ships an error that did not belong to a tool call.
func LogError(where string, err error) {
	push(map[string]string{"type": "error", "level": "error"}, map[string]any{
		"context": where,
		"error":   err,
	})
}

// LogSecurityEvent ships events such as a failed Planka login.
func LogSecurityEvent(requestID, event string, details map[string]any) {
	fields := map[string]any{
		"request_id": requestID,
		"event":      event,
	}
	for k, v := range details {
		fields[k] = v
	}
	push(map[string]string{"type": "security", "level": "warn"}, fields)
}
