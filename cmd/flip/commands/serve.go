package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/steamflip/internal/api"
	"github.com/wonny/steamflip/internal/api/handlers"
	"github.com/wonny/steamflip/internal/market"
	"github.com/wonny/steamflip/internal/scanner"
	"github.com/wonny/steamflip/internal/scheduler"
	"github.com/wonny/steamflip/internal/scheduler/jobs"
	"github.com/wonny/steamflip/internal/store"
	"github.com/wonny/steamflip/pkg/redis"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API 서버 시작",
	Long: `REST API 서버와 재수집 스케줄러를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 오래된 아이템 재수집 크론 등록
- 시그널 스캔/백테스트 엔드포인트 제공

Endpoints:
  GET  /healthz                    - Health check
  GET  /api/v1/items               - 저장된 아이템 목록
  GET  /api/v1/items/{name}        - 아이템 상세
  GET  /api/v1/signals/{strategy}  - 라이브 시그널 스캔
  GET  /api/v1/backtests           - 백테스트 기록
  POST /api/v1/backtests           - 백테스트 실행

Example:
  go run ./cmd/flip serve
  go run ./cmd/flip serve --port 8080`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "API 서버 포트 (기본: 설정값)")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== steamflip API Server ===")

	rt, err := initRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if servePort != "" {
		rt.cfg.Port = servePort
	}

	rt.log.WithField("port", rt.cfg.Port).Info("Initializing API server")

	if err := rt.db.Bootstrap(cmd.Context()); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}
	rt.log.Info("Connected to database")

	redisClient, err := redis.New(rt.cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "steamflip")

	items := store.NewItemRepository(rt.db.Pool)
	runs := store.NewRunRepository(rt.db.Pool)
	sc := scanner.New(items, rt.cfg.Collector.Workers, rt.log)

	itemHandler := handlers.NewItemHandler(items, rt.log)
	signalHandler := handlers.NewSignalHandler(sc, rt.params, rt.log)
	backtestHandler := handlers.NewBacktestHandler(items, runs, rt.params, rt.log)

	router := api.NewRouter(itemHandler, signalHandler, backtestHandler, rt.log)
	server := api.New(rt.cfg, rt.log, router)

	// Re-pull scheduler
	collector := market.NewCollector(market.NewClient(rt.cfg, cache, rt.log), items, rt.cfg.Collector.Workers, rt.log)
	sched := scheduler.New(rt.log)
	repull := jobs.NewRepullJob(collector, items, rt.cfg.Collector.RepullCron, rt.cfg.Collector.StaleAfter, rt.log)
	if err := sched.AddJob(repull); err != nil {
		return fmt.Errorf("register repull job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	go func() {
		if err := server.Start(); err != nil {
			rt.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	rt.log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", rt.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /healthz")
	fmt.Println("  GET  /api/v1/items")
	fmt.Println("  GET  /api/v1/items/{name}")
	fmt.Println("  GET  /api/v1/signals/{strategy}")
	fmt.Println("  GET  /api/v1/backtests")
	fmt.Println("  POST /api/v1/backtests")
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	rt.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	rt.log.Info("Server stopped")
	return nil
}
