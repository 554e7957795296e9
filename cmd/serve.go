package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve nearby stations, departures and favorites as a JSON API",
	Long:  "Starts an HTTP API for web or mobile front ends, sharing the favorites store with the CLI. Prometheus metrics are exposed on /metrics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		port, _ := cmd.Flags().GetString("port")
		if port == "" {
			port = cfg.Port
		}

		handler := server.New(app.Client, app.Favorites, server.Options{
			RadiusMeters:     cfg.RadiusMeters,
			StationboardSize: cfg.StationboardSize,
			CORSOrigins:      cfg.CORSOrigins,
			UpstreamTimeout:  cfg.HTTPTimeout,
			Metrics:          collector,
		}).Router()

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", srv.Addr).Msg("API server starting")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from PORT, 8080)")
}
