package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rhyrak/smart-timetable/internal/cache"
	"github.com/rhyrak/smart-timetable/internal/config"
	"github.com/rhyrak/smart-timetable/internal/export"
	"github.com/rhyrak/smart-timetable/internal/logger"
	"github.com/rhyrak/smart-timetable/internal/metrics"
	"github.com/rhyrak/smart-timetable/internal/server"
	"github.com/rhyrak/smart-timetable/internal/service"
	"github.com/rhyrak/smart-timetable/internal/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer log.Sync()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := store.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	runs := store.NewRunRepository(db)
	if err := runs.EnsureSchema(context.Background()); err != nil {
		log.Fatal("failed to prepare schema", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", zap.Error(err))
		} else {
			defer rdb.Close()
		}
	}

	m := metrics.New()
	svc := service.NewTimetableService(
		cfg.Scheduler,
		runs,
		cache.NewScheduleCache(rdb, cfg.Redis.TTL, log),
		m,
		export.NewPDFExporter(cfg.PDFTitle),
		log,
	)
	router := server.NewRouter(server.NewHandler(svc), m, cfg.CORS, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
}
