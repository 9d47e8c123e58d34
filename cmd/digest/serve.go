// ABOUTME: serve command wiring the HTTP API around a digest client
// ABOUTME: Starts the server and shuts it down gracefully on SIGINT or SIGTERM

package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"page-digest/api"
	"page-digest/api/handlers"
	"page-digest/pkg/featureflags"
)

const banner = `
    ____                        ____  _                 __
   / __ \____ _____ ____       / __ \(_)___ ____  _____/ /_
  / /_/ / __ '/ __ '/ _ \_____/ / / / / __ '/ _ \/ ___/ __/
 / ____/ /_/ / /_/ /  __/____/ /_/ / / /_/ /  __(__  ) /_
/_/    \__,_/\__, /\___/    /_____/_/\__, /\___/____/\__/
            /____/                  /____/
`

// serveCmd creates the serve command.
func serveCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (defaults to PORT)"},
			&cli.DurationFlag{Name: "page-ttl", Value: handlers.DefaultPageTTL, Usage: "Close pages idle for this long"},
		},
		Action: func(c *cli.Context) error {
			flags := featureflags.NewEnvManager("")
			registry := rt.enableMetrics()
			client, err := rt.open(c)
			if err != nil {
				return err
			}
			logger := rt.log()

			port := rt.cfg.Server.Port
			if p := c.String("port"); p != "" {
				port = p
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			apiCfg := api.APIConfig{
				Logger:         logger,
				AllowedOrigins: rt.cfg.Server.AllowedOrigins,
				Flags:          flags,
			}
			if flags.IsEnabled(ctx, featureflags.RateLimit) {
				apiCfg.RateLimit, apiCfg.RateWindow = rateWindow(rt.cfg.Server.RateLimit)
			}
			if flags.IsEnabled(ctx, featureflags.MetricsEndpoint) {
				apiCfg.Gatherer = registry
			}
			humaAPI, router := api.NewAPIWithMiddleware(ctx, apiCfg)

			handlers.NewPageHandler(handlers.NewClientOpener(client), rt.loader(), handlers.NewRegistry(c.Duration("page-ttl"))).
				RegisterRoutes(humaAPI)
			handlers.NewUsageHandler(client).RegisterRoutes(humaAPI)

			srv := &http.Server{
				Addr:         ":" + port,
				Handler:      router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: rt.cfg.Backend.Timeout + 15*time.Second,
				IdleTimeout:  60 * time.Second,
			}

			fmt.Fprint(rt.errOut, banner)
			logger.Info("Starting Page Digest API", map[string]interface{}{
				"port":         port,
				"storage_type": rt.cfg.Storage.Type,
				"model":        rt.cfg.Backend.Model,
				"features":     flags.GetAllFlags(),
			})

			errCh := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					logger.Error("HTTP server error", map[string]interface{}{"error": err.Error()})
					return cli.Exit("server failed to start: "+err.Error(), 1)
				}
			case <-ctx.Done():
			}

			logger.Info("Shutting down server...", nil)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server forced to shutdown", map[string]interface{}{"error": err.Error()})
				return err
			}

			logger.Info("Server stopped", nil)
			return nil
		},
	}
}

// rateWindow converts requests per second into a whole-request limit per window
func rateWindow(rps float64) (int, time.Duration) {
	if rps <= 0 {
		return 0, 0
	}
	if rps >= 1 {
		return int(math.Round(rps)), time.Second
	}
	return 1, time.Duration(float64(time.Second) / rps)
}
