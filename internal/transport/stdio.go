// Package transport carries JSON-RPC between MCP clients and the handler:
// newline-delimited messages over stdio, and a minimal HTTP probe server.
package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"plankamcp/server/internal/jsonrpc"
	"plankamcp/server/internal/middleware"
)

// maxMessageSize bounds one stdio line. Attachment uploads carry base64
// content inline, so this is well above typical request sizes.
const maxMessageSize = 16 << 20

// RequestProcessor processes JSON-RPC requests.
// Implemented by the MCP handler.
type RequestProcessor interface {
	ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error)
}

// Stdio serves one client over a reader/writer pair, one message per line.
// Requests are handled one at a time in arrival order.
type Stdio struct {
	processor RequestProcessor
	in        io.Reader
	out       *json.Encoder
	logger    *zap.Logger
	maxLine   int
}

// NewStdio creates a stdio transport. Nothing but protocol messages may be
// written to out.
func NewStdio(processor RequestProcessor, in io.Reader, out io.Writer, logger *zap.Logger) *Stdio {
	if logger == nil {
		logger = zap.NewNop()
	}
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	return &Stdio{processor: processor, in: in, out: enc, logger: logger, maxLine: maxMessageSize}
}

// inputLine is one line read from in. Oversized lines are dropped and
// arrive with tooLong set and no data.
type inputLine struct {
	data    []byte
	tooLong bool
}

// Serve reads until EOF or ctx is done. A failed or oversized request never
// stops the loop; only read and write errors do.
func (s *Stdio) Serve(ctx context.Context) error {
	lines := make(chan inputLine)
	readErr := make(chan error, 1)
	go func() {
		r := bufio.NewReaderSize(s.in, 64*1024)
		for {
			line, err := readLine(r, s.maxLine)
			if len(line.data) > 0 || line.tooLong {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err == io.EOF {
					err = nil
				}
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if err != nil {
				return errors.Wrap(err, "read stdin")
			}
			s.logger.Info("Input closed, stopping stdio transport")
			return nil
		case line := <-lines:
			if line.tooLong {
				s.logger.Warn("Dropped oversized message", zap.Int("limit", s.maxLine))
				msg := fmt.Sprintf("Message exceeds %d bytes", s.maxLine)
				if err := s.write(jsonrpc.NewError(nil, &jsonrpc.Error{Code: jsonrpc.InvalidRequest, Message: msg})); err != nil {
					return err
				}
				continue
			}
			if err := s.handleLine(ctx, line.data); err != nil {
				return err
			}
		}
	}
}

// readLine reads up to and including the next newline. Once a line grows
// past limit bytes (newline excluded) the rest of it is discarded.
func readLine(r *bufio.Reader, limit int) (inputLine, error) {
	var line inputLine
	for {
		chunk, err := r.ReadSlice('\n')
		if !line.tooLong {
			n := len(line.data) + len(bytes.TrimSuffix(chunk, []byte{'\n'}))
			if n > limit {
				line.tooLong = true
				line.data = nil
			} else {
				line.data = append(line.data, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return line, err
	}
}

func (s *Stdio) handleLine(ctx context.Context, line []byte) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	if line[0] == '[' {
		return s.write(jsonrpc.NewError(nil, &jsonrpc.Error{Code: jsonrpc.InvalidRequest, Message: "Batch requests are not supported"}))
	}

	var req jsonrpc.Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn("Unparseable message", zap.Error(err))
		return s.write(jsonrpc.NewError(nil, &jsonrpc.Error{Code: jsonrpc.ParseError, Message: "Parse error"}))
	}
	if req.JSONRPC != jsonrpc.Version || req.Method == "" {
		if req.IsNotification() {
			return nil
		}
		return s.write(jsonrpc.NewError(req.ID, &jsonrpc.Error{Code: jsonrpc.InvalidRequest, Message: "Invalid Request"}))
	}

	ctx = middleware.WithRequestID(ctx, "")
	s.logger.Debug("Received request",
		zap.String("method", req.Method),
		zap.ByteString("id", req.ID),
		zap.String("request_id", middleware.GetRequestID(ctx)),
	)

	result, rpcErr := s.processor.ProcessRequest(ctx, &req)
	if req.IsNotification() {
		return nil
	}
	if rpcErr != nil {
		return s.write(jsonrpc.NewError(req.ID, rpcErr))
	}
	if result == nil {
		result = struct{}{}
	}
	return s.write(jsonrpc.NewResult(req.ID, result))
}

func (s *Stdio) write(resp *jsonrpc.Response) error {
	if err := s.out.Encode(resp); err != nil {
		return errors.Wrap(err, "write response")
	}
	return nil
}
