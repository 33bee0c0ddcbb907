package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"penpals/internal/api"
	"penpals/internal/mcp"
	"penpals/internal/session"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var useMCP bool
	var fromDB bool
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve playthroughs over HTTP, or over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(useMCP, fromDB, addr)
		},
	}
	cmd.Flags().BoolVar(&useMCP, "mcp", false, "Serve MCP tools over stdio instead of HTTP")
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "Play the release published to the database")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides server.addr)")
	return cmd
}

func runServe(useMCP, fromDB bool, addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadProject()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cat, err := loadCatalog(ctx, cfg, fromDB, logger)
	if err != nil {
		return err
	}
	sessions := session.NewManager(cat, logger)

	if useMCP {
		logger.Info("serving MCP over stdio")
		server := mcp.NewServer(sessions, version)
		return server.Run(ctx, &sdk.StdioTransport{})
	}

	if addr == "" {
		addr = cfg.Server.Addr
	}
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewHandler(sessions, logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving HTTP", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Int("playthroughs", sessions.Len()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
