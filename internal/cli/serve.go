package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbuehler/facezoom/internal/server"
	"github.com/mbuehler/facezoom/pkg/scale"
)

// defaultAddr is the default listen address for the HTTP API.
const defaultAddr = "127.0.0.1:7160"

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run an HTTP API exposing the face registry and scaling operations.

Endpoints:
  GET  /healthz                   liveness check
  GET  /api/faces                 list faces with effective heights
  GET  /api/faces/{name}          one face
  PUT  /api/faces/{name}/height   set an explicit height
  POST /api/scale/grow            scale all faces up one step
  POST /api/scale/shrink          scale all faces down one step`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			reg, cleanup, err := c.newRegistry(ctx, cfg.Registry)
			if err != nil {
				return err
			}
			defer cleanup()

			scaler, err := scale.New(reg, cfg.Scale, c.Logger)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(scaler, reg, c.Logger).Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
				c.Logger.Info("server stopped")
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")

	return cmd
}
