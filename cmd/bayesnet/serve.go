package main

import (
	"fmt"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/bayesnet/internal/cli"
	httpAdapter "github.com/aretw0/bayesnet/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the engine in server mode, exposing a JSON API over HTTP:

  POST /ask                      answer a query
  GET  /networks[/{name}]        list or describe networks
  GET  /networks/{name}/mermaid  network diagram
  GET  /networks/{name}/sample   draw one event
  GET  /metrics                  Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		engine, closer, err := cli.NewEngine(sc, cfg, logger, reg)
		if err != nil {
			return err
		}
		defer closer()

		handler := httpAdapter.NewHandler(engine,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(reg),
		)

		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.HTTP.Port))
		if err != nil {
			return err
		}
		err = cli.Serve(sc, ln, handler, logger, cmd.OutOrStdout())
		if sig := sc.Signal(); sig != nil {
			cli.PrintSystemMessage(cmd.ErrOrStderr(), "stopped by %v", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")
	addSamplingFlags(serveCmd)
}
