// Package plankaapi provides an authenticated client for the Planka REST API.
//
// Every call goes through Client.Do, which normalizes the path, attaches the
// session's bearer token, encodes the body and maps non-2xx responses to
// *APIError. Resource methods return the remote JSON unchanged.
package plankaapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:3000"
	// DefaultUserAgent identifies requests made by this client.
	DefaultUserAgent = "planka-mcp-server"

	defaultTimeout  = 30 * time.Second
	contentTypeJSON = "application/json"
)

// Config holds the settings used to construct a Client.
type Config struct {
	BaseURL  string
	Email    string
	Password string
	// AllowInsecure disables TLS certificate verification. Only applied when
	// HTTPClient is nil.
	AllowInsecure bool
	Timeout       time.Duration
	UserAgent     string
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// Client is a Planka API client bound to one Session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	userAgent  string
	logger     *zap.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewClient creates a client and its session. No network traffic happens
// until the first request.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.AllowInsecure {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via PLANKA_ALLOW_INSECURE
			logger.Warn("TLS certificate verification disabled for Planka requests")
		}
		httpClient = &http.Client{Timeout: timeout, Transport: transport}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	c := &Client{
		baseURL:    base,
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
		tracer:     otel.Tracer("plankamcp/server/pkg/plankaapi"),
		now:        time.Now,
	}
	c.session = newSession(c, cfg.Email, cfg.Password)
	return c
}

// BaseURL returns the normalized base URL (no trailing slash).
func (c *Client) BaseURL() string { return c.baseURL }

// RequestOptions customizes a single pipeline call.
type RequestOptions struct {
	Method string
	Query  url.Values
	Header http.Header
	// Body is a *Form, a value with an Encode(*jx.Encoder) method, or
	// anything encoding/json can marshal.
	Body any
	// SkipAuth omits the bearer token. Used by the login call itself.
	SkipAuth bool
}

// Payload is a successful response body.
type Payload struct {
	StatusCode int
	JSON       bool
	Body       []byte
}

// Raw returns the payload as JSON. Text bodies are encoded as a JSON string
// and an empty body as null.
func (p *Payload) Raw() json.RawMessage {
	if len(bytes.TrimSpace(p.Body)) == 0 {
		return json.RawMessage("null")
	}
	if p.JSON {
		return json.RawMessage(p.Body)
	}
	b, _ := json.Marshal(string(p.Body))
	return b
}

// Do performs a single request against the Planka API.
func (c *Client) Do(ctx context.Context, path string, opts RequestOptions) (*Payload, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	requestURL := c.buildURL(path, opts.Query)

	ctx, span := c.tracer.Start(ctx, "planka.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", normalizePath(path)),
		),
	)
	defer span.End()

	p, err := c.do(ctx, method, requestURL, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrapf(err, "request to %s %s", method, requestURL)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", p.StatusCode))
	return p, nil
}

func (c *Client) do(ctx context.Context, method, requestURL string, opts RequestOptions) (*Payload, error) {
	body, contentType, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)
	for key, values := range opts.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	if !opts.SkipAuth {
		token, err := c.session.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: requestURL, Err: errors.Wrap(err, "read response body")}
	}

	p := &Payload{
		StatusCode: resp.StatusCode,
		JSON:       strings.Contains(resp.Header.Get("Content-Type"), contentTypeJSON),
		Body:       data,
	}
	valid := !p.JSON || len(bytes.TrimSpace(data)) == 0 || jx.Valid(data)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if !valid {
			p.JSON = false
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: p.Raw()}
	}
	if !valid {
		return nil, errors.Errorf("decode response: invalid JSON body (status %d)", resp.StatusCode)
	}

	c.logger.Debug("planka request",
		zap.String("method", method),
		zap.String("url", requestURL),
		zap.Int("status", resp.StatusCode),
	)
	return p, nil
}

// bodyEncoder is implemented by request types that write only their set
// fields.
type bodyEncoder interface {
	Encode(e *jx.Encoder)
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, contentTypeJSON, nil
	case *Form:
		r, err := b.reader()
		if err != nil {
			return nil, "", err
		}
		return r, b.ContentType(), nil
	case bodyEncoder:
		e := jx.GetEncoder()
		defer jx.PutEncoder(e)
		b.Encode(e)
		return bytes.NewReader(append([]byte(nil), e.Bytes()...)), contentTypeJSON, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", errors.Wrap(err, "encode request body")
		}
		return bytes.NewReader(data), contentTypeJSON, nil
	}
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + normalizePath(path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// normalizePath makes path begin with /api/.
func normalizePath(path string) string {
	p := "/" + strings.TrimLeft(path, "/")
	if strings.HasPrefix(p, "/api/") {
		return p
	}
	return "/api" + p
}

// call is the shorthand used by resource methods.
func (c *Client) call(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	p, err := c.Do(ctx, path, RequestOptions{Method: method, Body: body})
	if err != nil {
		return nil, err
	}
	return p.Raw(), nil
}

// pathf formats a resource path, escaping every id argument.
func pathf(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}
