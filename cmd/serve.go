package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/worldpop-cli/internal/api"
	"github.com/sells-group/worldpop-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve summaries, trends and projections over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		cfg.Server.Port = port

		noStore, _ := cmd.Flags().GetBool("no-store")
		mode := "serve"
		if noStore {
			mode = "analyze"
		}
		if err := cfg.Validate(mode); err != nil {
			return err
		}

		t, err := loadTable(ctx)
		if err != nil {
			return err
		}

		shapes, err := loadShapes()
		if err != nil {
			return err
		}
		cities, err := loadCities()
		if err != nil {
			return err
		}

		var st store.Store
		if !noStore {
			st, err = openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		srvAPI := api.New(t, api.Options{
			Year:           cfg.Analysis.Year,
			TopN:           cfg.Analysis.TopN,
			TargetYear:     cfg.Analysis.TargetYear,
			RateLimit:      cfg.Server.RateLimit,
			RateBurst:      cfg.Server.RateBurst,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Store:          st,
			Shapes:         shapes,
			Cities:         cities,
		})

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           srvAPI.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.Int("records", t.Len()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().Bool("no-store", false, "serve without a run store (disables /v1/runs)")
	rootCmd.AddCommand(serveCmd)
}
