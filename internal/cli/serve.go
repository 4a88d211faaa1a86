package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-respdoc/internal/server"
	"github.com/goliatone/go-respdoc/pkg/orchestrator"
)

type serveFlags struct {
	catalogs []string
	addr     string
	cache    bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(root *rootFlags) *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the OpenAPI document over HTTP",
		Long:  "Serve /openapi.json and /openapi.yaml, rebuilding from the catalogs on every request unless --cache is set.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if flags.addr != "" {
				cfg.Serve.Addr = flags.addr
			}
			srcs, err := sources(cfg, flags.catalogs)
			if err != nil {
				return err
			}
			o := newOrchestrator(cfg, logger)
			build := func(ctx context.Context, format string) ([]byte, error) {
				return o.Generate(ctx, orchestrator.Request{Sources: srcs, Format: format})
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              cfg.Serve.Addr,
				Handler:           server.NewRouter(build, server.WithLogger(logger), server.WithCache(flags.cache)),
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "%s http://%s/openapi.json\n", color.GreenString("serving"), cfg.Serve.Addr)
			logger.Info("server started", zap.String("addr", cfg.Serve.Addr))

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringSliceVar(&flags.catalogs, "catalog", nil, "catalog file or URL (repeatable)")
	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&flags.cache, "cache", false, "build each format once")
	return cmd
}
