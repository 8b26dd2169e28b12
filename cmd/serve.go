package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edutools/edutools/internal/config/gateway"
	"github.com/edutools/edutools/internal/dependency"
)

var (
	serveTransport string
	servePort      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the education platform tools over MCP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveTransport, "transport", "t", "", "Transport: stdio or http (default from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (default from config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveTransport != "" {
		cfg.Gateway.Transport = gateway.Transport(serveTransport)
	}
	if servePort != 0 {
		cfg.Gateway.Port = servePort
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	srv := container.MCPServer()

	switch cfg.Gateway.Transport {
	case gateway.TransportStdio, "":
		return srv.ServeStdio()
	case gateway.TransportHTTP:
	default:
		return fmt.Errorf("unknown transport %q", cfg.Gateway.Transport)
	}

	fmt.Fprintf(os.Stderr, "%s Serving %d tools on http://%s%s\n",
		logo, len(srv.ListOperations()), cfg.ListenAddr(), cfg.Gateway.Path)

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ServeHTTP(gctx, cfg.ListenAddr(), cfg.Gateway.Path) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "serve error: %v\n", err)
		return err
	}
	fmt.Fprintln(os.Stderr, "\nShutdown complete.")
	return nil
}
