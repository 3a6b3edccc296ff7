package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/maintenance-orders/internal/audit"
	"github.com/BruksfildServices01/maintenance-orders/internal/report"
	"github.com/BruksfildServices01/maintenance-orders/internal/routes"
	"github.com/BruksfildServices01/maintenance-orders/internal/session"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	var store session.Store = session.NewGormStore(db)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		store = session.NewRedisStore(client)
		log.Info("sessions stored in redis", zap.String("addr", cfg.RedisAddr))
	}

	dispatcher := audit.NewDispatcher(audit.New(db))
	defer dispatcher.Close()

	archive := report.NewS3Archive(cfg.Report)
	if archive != nil {
		log.Info("reports archived to s3", zap.String("bucket", cfg.Report.Bucket))
	}

	router, err := routes.NewRouter(routes.Deps{
		DB:       db,
		Config:   cfg,
		Sessions: session.NewManager(store, cfg.SecretKey, cfg.SessionTTL, cfg.IsProduction()),
		Audit:    dispatcher,
		Archive:  archive,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
