package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plankamcp/server/internal/config"
	"plankamcp/server/internal/mcp"
	"plankamcp/server/internal/modules"
	"plankamcp/server/internal/modules/planka"
	"plankamcp/server/internal/observability"
	"plankamcp/server/internal/transport"
	"plankamcp/server/internal/version"
	"plankamcp/server/pkg/plankaapi"
)

func main() {
	if err := run(); err != nil {
		if err == config.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "Fatal error in main(): %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:], os.LookupEnv)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	observability.Init(cfg.Loki)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := observability.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Loki drain incomplete", zap.Error(err))
		}
	}()

	logger.Info("Creating Planka MCP Server...",
		zap.String("server", version.Name),
		zap.String("version", version.Version),
	)
	cfg.LogSummary(logger)

	client := plankaapi.NewClient(plankaapi.Config{
		BaseURL:       cfg.Planka.BaseURL,
		Email:         cfg.Planka.Email,
		Password:      cfg.Planka.Password,
		AllowInsecure: cfg.Planka.AllowInsecure,
		Timeout:       cfg.Planka.Timeout,
		UserAgent:     version.Name + "/" + version.Version,
		Logger:        logger.Named("plankaapi"),
	})
	modules.RegisterModule(planka.New(client))
	logger.Info("Registered modules", zap.Strings("modules", modules.ListModules()), zap.String("planka", client.BaseURL()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
		<-sigCh
		logger.Warn("Forced exit")
		os.Exit(1)
	}()

	switch cfg.Mode {
	case config.ModeHTTP:
		gin.SetMode(gin.ReleaseMode)
		logger.Info("Planka MCP Server running on HTTP", zap.String("addr", cfg.HTTPAddr()))
		return transport.ServeHTTP(ctx, cfg.HTTPAddr(), logger.Named("http"))
	default:
		handler := mcp.NewHandler(logger.Named("mcp"))
		logger.Info("Planka MCP Server running on stdio")
		err := transport.NewStdio(handler, os.Stdin, os.Stdout, logger.Named("stdio")).Serve(ctx)
		if err == context.Canceled {
			return nil
		}
		if err != nil {
			observability.LogError("stdio transport", err)
		}
		return err
	}
}
