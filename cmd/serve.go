package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/angelofallars/rentbill/app"
	"github.com/angelofallars/rentbill/app/auth"
	"github.com/angelofallars/rentbill/internal/service"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the invoice web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("host") {
			cfg.Host, _ = flags.GetString("host")
		}
		if flags.Changed("port") {
			cfg.Port, _ = flags.GetUint("port")
		}

		slog := cfg.Logger(os.Stderr)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svcInvoice := service.NewInvoice()

		return app.New(slog, svcInvoice, auth.NewCSRF(cfg.CSRFCookieName)).
			WithHost(cfg.Host).
			WithPort(cfg.Port).
			WithStaticDir(cfg.StaticDir).
			Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().String("host", "localhost", "host to listen on (overrides HOST)")
	serveCmd.Flags().Uint("port", 3000, "port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}
