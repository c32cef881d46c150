package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/citynect/property-backend/config"
	"github.com/citynect/property-backend/middleware"
	"github.com/citynect/property-backend/routes"
	"github.com/citynect/property-backend/scheduler"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Start the HTTP API and, unless disabled in configuration, the nightly maintenance scheduler.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			if err := cfg.RequireServer(); err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides PORT)")
	return cmd
}

func runServe(cfg config.Settings) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	a, err := newApp(startCtx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.close(closeCtx)
	}()

	if err := config.EnsureIndexes(startCtx, a.collections); err != nil {
		slog.Warn("index setup incomplete", "error", err)
	}

	router := mux.NewRouter()
	routes.Routes(router, routes.Deps{
		Properties:   a.properties,
		Users:        a.users,
		Maintenance:  a.maintenance,
		APILogs:      a.records,
		LoginLimiter: middleware.NewRateLimiter(a.redis, "login", cfg.LoginRateLimit, cfg.LoginRateWindow),
		JWTKey:       []byte(cfg.JWTKey),
	})

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        corsOptions.Handler(router),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	sched := scheduler.New(a.maintenance, cfg.Location(), scheduledJobs(cfg.Schedule)...)
	sched.Start(ctx)
	if names := sched.JobNames(); len(names) > 0 {
		slog.Info("maintenance scheduler started", "jobs", names, "timezone", cfg.Timezone)
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server gracefully stopped")
	return nil
}
