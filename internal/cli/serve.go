package cli

import (
	"errors"

	"blagbl/internal/db"
	"blagbl/internal/dnsbl"
	"blagbl/internal/server"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(o *options, s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve lookups over HTTP (and optionally as a DNSBL), reloading the dataset periodically.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, o, s)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.listen, "listen", "", "HTTP listen address (default from BLAG_LISTEN_ADDR or :3000)")
	f.StringVar(&o.dnsblAddr, "dnsbl-addr", "", "Also answer DNSBL queries on this address (UDP and TCP)")
	f.StringVar(&o.zone, "zone", "", "DNSBL zone (default from BLAG_DNSBL_ZONE or blag.local.)")
	f.DurationVar(&o.updateInterval, "update-interval", 0, "How often to fetch and reload the dataset (default from BLAG_UPDATE_INTERVAL or 24h)")
	f.IntVar(&o.maxConnections, "max-connections", 0, "Maximum concurrent HTTP connections")
	return cmd
}

func runServe(cmd *cobra.Command, o *options, s streams) error {
	cfg, log, err := o.setup(s.err)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	manager := db.NewManager(cfg, log)
	if o.fetch {
		if err := manager.Update(ctx); err != nil {
			return err
		}
	} else if err := manager.Open(); err != nil {
		if !errors.Is(err, db.ErrDatabaseNotFound) {
			return err
		}
		log.Warn("database not found, attempting initial download", "err", err)
		if err := manager.Update(ctx); err != nil {
			return err
		}
	}

	srv, err := server.New(cfg, manager, log)
	if err != nil {
		return err
	}
	manager.StartUpdater(ctx, cfg.UpdateInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx) })
	if cfg.DNSBLAddr != "" {
		responder := dnsbl.NewResponder(cfg.DNSBLZone, manager, log)
		g.Go(func() error { return dnsbl.Serve(gctx, cfg.DNSBLAddr, responder, log) })
	}
	return g.Wait()
}
