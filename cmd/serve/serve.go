// Package serve implements the serve command, running the dashboard API
// server together with the detection notification poller.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/wildwatch/wildwatch-go/internal/alertservice"
	"github.com/wildwatch/wildwatch-go/internal/api"
	"github.com/wildwatch/wildwatch-go/internal/conf"
	"github.com/wildwatch/wildwatch-go/internal/logging"
	"github.com/wildwatch/wildwatch-go/internal/notifier"
	"github.com/wildwatch/wildwatch-go/internal/observability/metrics"
)

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the alert API server and detection poller",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), settings)
		},
	}

	cmd.Flags().StringVar(&settings.WebServer.Port, "port", settings.WebServer.Port, "HTTP listen port")
	return cmd
}

func run(ctx context.Context, settings *conf.Settings) error {
	logging.Init()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	alertMetrics, err := metrics.NewAlertMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register alert metrics: %w", err)
	}

	svc, err := alertservice.New(settings, nil, nil, alertMetrics)
	if err != nil {
		return fmt.Errorf("failed to create alert service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	queue := notifier.NewQueue(settings.Debug)
	defer queue.Stop()

	consumer := notifier.NewDetectionConsumer(svc, queue, settings.Poll)
	consumer.Start(ctx)
	defer consumer.Stop()

	server := api.NewServer(settings, svc, queue, registry)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	case sig := <-sigCh:
		logging.Info("shutdown signal received", "signal", sig.String())
	}

	return server.Shutdown(context.Background())
}
