package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"wisefido-vitals-board/internal/config"
	httpapi "wisefido-vitals-board/internal/http"
	"wisefido-vitals-board/internal/logger"
	"wisefido-vitals-board/internal/service"
	"wisefido-vitals-board/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "wisefido-vitals-board")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting wisefido-vitals-board service")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	// 缓存不可用时每次查询直接打上游，看板仍可工作
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis ping failed, running with degraded cache", zap.Error(err))
	}
	pingCancel()
	kv := store.NewRedisKV(redisClient)

	api := service.NewVitalsClient(cfg.VitalsAPI, log)
	board := service.NewBoardService(cfg, api, kv, log)

	router := httpapi.NewRouter(log)
	router.RegisterBoardRoutes(
		httpapi.NewBoardHandler(board, log),
		httpapi.NewManualEntryHandler(board.Manual(), log),
	)
	router.RegisterHealthRoutes()

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 图表后台刷新循环
	go func() {
		if err := board.Start(ctx); err != nil {
			log.Error("Chart refresh loop exited", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		log.Error("HTTP server error", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	board.Stop()
	_ = redisClient.Close()

	log.Info("Service stopped")
}
