package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/protostate/internal/cli"
	"github.com/aretw0/protostate/internal/config"
	"github.com/aretw0/protostate/internal/presentation/tui"
	httpAdapter "github.com/aretw0/protostate/pkg/adapters/http"
	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/editor"
	"github.com/aretw0/protostate/pkg/observability"
	"github.com/aretw0/protostate/pkg/registry"
	"github.com/aretw0/protostate/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP editor server",
	Long: `Serves state-machine documents over a JSON API with live updates (SSE),
Mermaid export and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(cmd.Flags(), configFile)
		if err != nil {
			return err
		}
		return runServe(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	config.RegisterFlags(serveCmd.Flags())
}

// newActions registers the actions every server understands.
func newActions(logger *slog.Logger) *registry.Registry {
	actions := registry.NewRegistry()
	actions.Register("log", func(ctx context.Context, req domain.ActionRequest) error {
		logger.Info("Action", "document", req.Document, "event", req.Event, "from", req.From, "to", req.To)
		return nil
	})
	return actions
}

func runServe(cfg config.Config) error {
	logger, err := cli.NewLogger(cfg)
	if err != nil {
		return err
	}

	sc := cli.NewSignalContext(context.Background())
	defer sc.Cancel()

	backend, err := cli.OpenBackend(sc, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	// Side effects and host messages leave through each document's event stream.
	streams := httpAdapter.NewStreamManager(logger)

	sessionOpts := []session.Option{
		session.WithLogger(logger),
		session.WithEditorOptions(
			editor.WithLifecycleHooks(cli.CombineHooks(metrics.Hooks(), cli.DebugHooks(logger))),
			editor.WithBindingRecorder(metrics),
			editor.WithActions(newActions(logger)),
		),
		session.WithDocumentEditorOptions(func(document string) []editor.Option {
			host := streams.Host(document)
			return []editor.Option{editor.WithHost(host), editor.WithMessenger(host)}
		}),
	}
	if backend.Locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(backend.Locker))
	}
	sessions := session.NewManager(backend.Store, sessionOpts...)

	handler := httpAdapter.NewHandler(sessions,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithGatherer(reg),
		httpAdapter.WithStreams(streams),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		tui.PrintBanner(os.Stdout)
		cli.PrintSystemMessage(os.Stdout, "Serving documents on %s (store: %s)", srv.Addr, cfg.Store)
		serverErrors <- srv.ListenAndServe()
	}()

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-sc.Done():
		cli.PrintSystemMessage(os.Stdout, "Start shutdown... Signal: %v", sc.Signal())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		cli.PrintSystemMessage(os.Stdout, "Server stopped gracefully")
		return nil
	}
}
