package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	numfmt "github.com/goliatone/go-numfmt"
	"github.com/goliatone/go-numfmt/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolver over HTTP",
		Long: `Start an HTTP server exposing /format, /resolve, /formats, /locales,
/healthz and Prometheus metrics on /metrics.`,
		Example: `  numfmt serve --addr :9090 --format-file formats.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := a.newServer()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address, e.g. :8080")
	return cmd
}

// newServer wires the resolver, metrics and locale catalog into a server.
func (a *app) newServer() (*server.Server, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := numfmt.NewMetricsHook(reg)
	if err != nil {
		return nil, err
	}

	cfg, resolver, err := a.build(metrics)
	if err != nil {
		return nil, err
	}
	catalog, err := cfg.LocaleCatalog()
	if err != nil {
		return nil, err
	}

	return server.New(resolver,
		server.WithLogger(a.logger.With("component", "server")),
		server.WithCatalog(catalog),
		server.WithMetrics(reg),
		server.WithConfig(a.cfg.serverConfig()),
	)
}
