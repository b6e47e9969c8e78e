package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yoshii001/Content-Generator/internal/web"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default WEB_ADDR)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		addr := serveAddr
		if addr == "" {
			addr = a.cfg.WebAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return web.Start(ctx, web.StartOpts{
			Controller: a.ctrl,
			Store:      a.store,
			Addr:       addr,
			Out:        cmd.OutOrStdout(),
		})
	},
}
