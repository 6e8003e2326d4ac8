package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/steamflip/internal/market"
	"github.com/wonny/steamflip/internal/store"
	"github.com/wonny/steamflip/pkg/redis"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [market hash name...]",
	Short: "마켓 데이터 수집",
	Long: `Steam Community Market에서 아이템 데이터를 수집합니다.

이 명령어는:
- 현재 리스팅과 최고 구매 주문 스크래핑
- 판매 이력(pricehistory) 수집
- DB 업서트 (기존 이력은 교체)

Example:
  go run ./cmd/flip collect "AK-47 | Redline (Field-Tested)"
  go run ./cmd/flip collect --stale
  go run ./cmd/flip collect --workers 8 "item-a" "item-b"`,
	RunE: runCollect,
}

var (
	collectWorkers int
	collectStale   bool
)

func init() {
	rootCmd.AddCommand(collectCmd)

	// Flags
	collectCmd.Flags().IntVar(&collectWorkers, "workers", 0, "동시 수집 워커 수 (기본: 설정값)")
	collectCmd.Flags().BoolVar(&collectStale, "stale", false, "오래된 아이템만 재수집")
}

func runCollect(cmd *cobra.Command, args []string) error {
	fmt.Println("=== steamflip Collector ===")

	rt, err := initRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.db.Bootstrap(cmd.Context()); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}

	redisClient, err := redis.New(rt.cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "steamflip")

	items := store.NewItemRepository(rt.db.Pool)
	workers := rt.cfg.Collector.Workers
	if collectWorkers > 0 {
		workers = collectWorkers
	}
	collector := market.NewCollector(market.NewClient(rt.cfg, cache, rt.log), items, workers, rt.log)

	names := args
	if collectStale {
		cutoff := time.Now().Add(-rt.cfg.Collector.StaleAfter)
		names, err = items.StaleSince(cmd.Context(), cutoff)
		if err != nil {
			return fmt.Errorf("list stale items: %w", err)
		}
		fmt.Printf("🔎 재수집 대상: %d개 (기준: %s 이전)\n", len(names), cutoff.Format("2006-01-02 15:04"))
	}
	if len(names) == 0 {
		PrintWarning("수집할 아이템이 없습니다. 인자로 market hash name을 넘기거나 --stale을 사용하세요.")
		return nil
	}

	fmt.Printf("🚀 %d개 아이템 수집 시작 (workers=%d)\n\n", len(names), workers)
	start := time.Now()

	stored, err := collector.Collect(cmd.Context(), names)
	if err != nil {
		PrintError(fmt.Sprintf("수집 실패: %v", err))
		return err
	}

	PrintSuccess(fmt.Sprintf("%d/%d개 저장 완료 (%.1fs)", stored, len(names), time.Since(start).Seconds()))
	return nil
}
