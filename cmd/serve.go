package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sodash/internal/present"
	"github.com/KaramelBytes/sodash/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Browse the reports in a local dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		app, err := server.New(sess, server.Config{
			Addr:  addr,
			Chart: present.ChartSize{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
		}, logger)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Dashboard: http://%s\n", addr)
		return app.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides listen_addr)")
}
