package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mithrel/thingstocheck/internal/config"
	"github.com/mithrel/thingstocheck/internal/server"
)

func newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if listen != "" {
				app.Cfg.Set("http_addr", listen)
			}
			if err := config.CheckConfigValidity(app.Cfg); err != nil {
				return err
			}
			addr, err := config.ListenAddr(app.Cfg)
			if err != nil {
				return err
			}
			srv, err := server.New(app.Cfg, app.Log, app.Catalog, app.Selector)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides http_addr and PORT)")
	return cmd
}
