package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/drblury/csvweaver/csvresponse"
	"github.com/drblury/csvweaver/info"
	"github.com/drblury/csvweaver/internal/config"
	"github.com/drblury/csvweaver/internal/export"
	"github.com/drblury/csvweaver/internal/mongosource"
	"github.com/drblury/csvweaver/probe"
	"github.com/drblury/csvweaver/responder"
	"github.com/drblury/csvweaver/router"
)

func newServeCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the CSV export service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var (
		datasets  export.Datasets
		readiness []probe.Func
	)

	if cfg.Mongo.URI != "" {
		client, err := connectMongo(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Warn("Failed to disconnect from MongoDB", "error", err)
			}
		}()

		datasets = mongosource.New(
			mongosource.ClientCollections(client),
			cfg.Datasets,
			mongosource.WithDatabase(cfg.Mongo.Database),
			mongosource.WithQueryTimeout(cfg.Mongo.QueryTimeout),
			mongosource.WithLogger(logger),
		)
		readiness = append(readiness, probe.NewMongoPingProbe(client, nil))
	}

	handler, err := newServiceHandler(ctx, cfg, logger, datasets, readiness...)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
	}
	logger.Info("Listening", "Addr", ln.Addr().String(), "Datasets", len(cfg.Datasets))
	return serveHTTP(ctx, ln, handler, cfg.Server, logger)
}

// serveHTTP serves on ln until ctx is done, then drains in-flight requests
// within cfg.ShutdownTimeout. Request contexts do not inherit the cancellation
// of ctx, so a stop signal never aborts a running export.
func serveHTTP(ctx context.Context, ln net.Listener, handler http.Handler, cfg config.ServerConfig, logger *slog.Logger) error {
	requestCtx := context.WithoutCancel(ctx)
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.Router.Timeout,
		BaseContext:       func(net.Listener) context.Context { return requestCtx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "Timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func connectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(cfg.ConnectTimeout)
		clientOpts.SetServerSelectionTimeout(cfg.ConnectTimeout)
	}
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	return client, nil
}

// newServiceHandler assembles the export and info routes behind the router
// middleware chain.
func newServiceHandler(ctx context.Context, cfg *config.Config, logger *slog.Logger, datasets export.Datasets, readiness ...probe.Func) (http.Handler, error) {
	doc, err := export.OpenAPIDocument(ctx)
	if err != nil {
		return nil, err
	}

	resp := responder.NewResponder(
		responder.WithLogger(logger),
		responder.WithCSVDefaults(cfg.CSV.Options()...),
	)

	mux := http.NewServeMux()

	exportOpts := []export.Option{
		export.WithResponder(resp),
		export.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	}
	if datasets != nil {
		exportOpts = append(exportOpts, export.WithDatasets(datasets))
	}
	export.NewHandler(exportOpts...).Mount(mux)

	encoding := cfg.CSV.Encoding
	info.NewInfoHandler(
		info.WithInfoResponder(resp),
		info.WithBaseURL(strings.TrimRight(cfg.Server.BaseURL, "/")+"/info"),
		info.WithOpenAPIDocument(doc),
		info.WithProbeTimeout(cfg.Server.ProbeTimeout),
		info.WithInfoProvider(func() any {
			return map[string]string{
				"version":   version,
				"goVersion": runtime.Version(),
			}
		}),
		info.WithLivenessChecks(probe.NewPingProbe("charset", func(context.Context) error {
			return csvresponse.ValidateEncoding(encoding)
		})),
		info.WithReadinessChecks(readiness...),
	).Mount(mux, "/info")

	return router.New(mux,
		router.WithConfig(cfg.Server.Router),
		router.WithLogger(logger),
		router.WithSwagger(doc),
		router.WithResponder(resp),
	), nil
}
