package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/steamflip/internal/report"
	"github.com/wonny/steamflip/internal/scanner"
	"github.com/wonny/steamflip/internal/store"
	"github.com/wonny/steamflip/internal/strategy"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "라이브 시그널 스캔",
	Long: `저장된 아이템 전체에 전략을 적용해 매수 시그널을 찾습니다.

지원 전략:
  listing-spread      리스팅 1·2위 스프레드
  quartile-reversion  사분위수 회귀
  spring              스프링 (압축 밴드)

Example:
  go run ./cmd/flip scan --strategy quartile-reversion
  go run ./cmd/flip scan --strategy all --workers 8`,
	RunE: runScan,
}

var (
	scanStrategy string
	scanWorkers  int
)

func init() {
	rootCmd.AddCommand(scanCmd)

	// Flags
	scanCmd.Flags().StringVar(&scanStrategy, "strategy", "all", "전략 이름 또는 all")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 4, "동시 평가 워커 수")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Println("=== steamflip Signal Scanner ===")

	rt, err := initRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	items := store.NewItemRepository(rt.db.Pool)
	sc := scanner.New(items, scanWorkers, rt.log)

	var strategies []strategy.Strategy
	if scanStrategy == "all" {
		strategies = strategy.All(rt.params)
	} else {
		strat, err := strategy.New(scanStrategy, rt.params)
		if err != nil {
			return err
		}
		strategies = []strategy.Strategy{strat}
	}

	results, err := sc.ScanAll(cmd.Context(), strategies)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	for _, strat := range strategies {
		signals := results[strat.Name()]
		fmt.Printf("\n📡 %s: 시그널 %d건\n", strat.Name(), len(signals))
		if len(signals) == 0 {
			continue
		}
		report.WriteSignalTable(os.Stdout, signals)
	}

	return nil
}
