package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/smarthire/internal/server"
	"github.com/jonathan/smarthire/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the SmartHire REST API and the notification event stream.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	rl := a.cfg.RateLimit
	srv := server.New(a.svc, server.Config{
		Port:            port,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
		Logger:          a.log.Named("http"),
		RateLimit: ratelimit.FromSettings(ratelimit.Settings{
			Enabled:         rl.Enabled,
			DefaultLimit:    rl.DefaultLimit,
			DefaultWindow:   rl.DefaultWindow,
			AgentLimit:      rl.AgentLimit,
			AgentWindow:     rl.AgentWindow,
			WriteLimit:      rl.WriteLimit,
			WriteWindow:     rl.WriteWindow,
			CleanupInterval: rl.CleanupInterval,
			Whitelist:       rl.Whitelist,
			Blacklist:       rl.Blacklist,
		}),
	})

	return srv.Start(ctx)
}
