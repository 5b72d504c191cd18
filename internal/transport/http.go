package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"plankamcp/server/internal/jsonrpc"
	"plankamcp/server/internal/observability"
	"plankamcp/server/internal/version"
)

const probeMessage = "MCP Server is running. This HTTP endpoint is for testing only. Please use stdio transport for full functionality."

// NewHTTPHandler builds the HTTP probe. It answers health checks and
// acknowledges POST /mcp without running tools; real traffic uses stdio.
func NewHTTPHandler(logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		observability.LogRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Milliseconds())
	})

	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"server":  version.Name,
			"version": version.Version,
		})
	})

	r.POST("/mcp", func(c *gin.Context) {
		var body struct {
			ID json.RawMessage `json:"id"`
		}
		// Unparseable bodies still get an acknowledgement with a null id.
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusOK, jsonrpc.NewResult(body.ID, gin.H{"message": probeMessage}))
	})

	r.GET("/mcp", func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, jsonrpc.NewError(nil, &jsonrpc.Error{
			Code:    jsonrpc.ServerError,
			Message: "Method not allowed. Use POST for MCP requests.",
		}))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(r)
}

// ServeHTTP runs the probe on addr until ctx is done, then shuts down
// gracefully.
func ServeHTTP(ctx context.Context, addr string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      NewHTTPHandler(logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	logger.Info("HTTP server stopped")
	return nil
}
