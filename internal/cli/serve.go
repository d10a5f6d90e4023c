package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/driftgrid/pkg/server"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve independent pan sessions over HTTP",
		Long: `Serve independent pan sessions over HTTP.

Each client creates a session with POST /sessions and drives it with
POST /sessions/{id}/events. Frames are available as JSON, SVG, PNG or PDF
from GET /sessions/{id}/frame. Sessions live in memory and expire after
the configured idle timeout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv, err := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		SessionTTL:      cfg.Server.SessionTTL.Std(),
		MaxSessions:     cfg.Server.MaxSessions,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Std(),
	}, baseOptions(cfg), runner, c.Logger)
	if err != nil {
		return err
	}

	printSuccess("Serving on %s", cfg.Server.Addr)
	printKeyValue("grid", cfg.Grid.String())
	printKeyValue("cache", cfg.Cache.Backend)
	printKeyValue("session ttl", cfg.Server.SessionTTL.String())
	printNextStep("Create a session", fmt.Sprintf("curl -X POST http://%s/sessions", displayAddr(cfg.Server.Addr)))

	return srv.ListenAndServe(ctx)
}

// displayAddr makes a listen address usable in a URL.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
