package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mspro-labs/bean-thinking/internal/catalog"
	"mspro-labs/bean-thinking/internal/feedback"
	"mspro-labs/bean-thinking/internal/logging"
	"mspro-labs/bean-thinking/internal/session"
	"mspro-labs/bean-thinking/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Web UI server",
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer() {
	// 1. Setup
	appCfg := loadConfig()
	venues, err := catalog.Load(catalog.Source{DBPath: appCfg.Catalog.DBPath, YAMLPath: appCfg.Catalog.Path})
	if err != nil {
		logging.Fatal().Err(err).Msg("Catalog error")
	}
	logging.Info().Int("venues", len(venues)).Msg("Catalog loaded")

	// 2. Feedback sink
	submitter := feedback.NewSubmitter(feedback.Config{
		URL:     appCfg.Feedback.URL,
		Timeout: appCfg.Feedback.Timeout,
		Fields:  appCfg.Feedback.Fields,
	})

	// 3. Routes
	srv, err := web.NewServer(web.Options{
		Venues:    venues,
		Sessions:  session.NewManager(appCfg.Session.CookieName, appCfg.Session.Secure),
		Sender:    submitter,
		RateLimit: appCfg.Feedback.RateLimit,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build web server")
	}

	server := &http.Server{
		Addr:         appCfg.Server.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  appCfg.Server.ReadTimeout,
		WriteTimeout: appCfg.Server.WriteTimeout,
	}

	// 4. Start Server
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info().Str("addr", appCfg.Server.Addr).Msg("🌍 Web UI started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
