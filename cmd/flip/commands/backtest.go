package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/steamflip/internal/backtest"
	"github.com/wonny/steamflip/internal/contracts"
	"github.com/wonny/steamflip/internal/report"
	"github.com/wonny/steamflip/internal/store"
	"github.com/wonny/steamflip/internal/strategy"
	"github.com/wonny/steamflip/internal/strategyconfig"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "전략 백테스트",
	Long: `저장된 판매 이력 위에서 전략을 시뮬레이션합니다.

평가 구간(region)의 체결 이벤트로 매수를 시뮬레이션하고,
같은 이력에서 2단계 청산(권장가 → 폴백가)으로 수익을 계산합니다.
시그널 산출은 구간 시작 이전 데이터만 사용합니다.

Flags:
  --strategy          전략 이름 (필수)
  --region-start      구간 시작 (N일 전, 기본: 15)
  --region-end        구간 끝 (N일 전, 기본: 0 = 현재)
  --force-days        강제 청산 기한 (일, 기본: 파라미터 파일)
  --fee               수수료 배수 (기본: 파라미터 파일)
  --dynamic-fallback  폴백가를 구간별 Q3로 재계산
  --plot              포트폴리오 타임라인 PNG 저장 경로

Example:
  go run ./cmd/flip backtest --strategy quartile-reversion
  go run ./cmd/flip backtest --strategy spring --region-start 30 --region-end 7
  go run ./cmd/flip backtest --strategy spring --dynamic-fallback --plot timeline.png`,
	RunE: runBacktestCmd,
}

var (
	backtestStrategy    string
	backtestRegionStart int
	backtestRegionEnd   int
	backtestForceDays   int
	backtestFee         float64
	backtestDynamic     bool
	backtestPlotPath    string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	// Flags
	backtestCmd.Flags().StringVar(&backtestStrategy, "strategy", "", "전략 이름 (필수)")
	backtestCmd.Flags().IntVar(&backtestRegionStart, "region-start", 15, "구간 시작 (N일 전)")
	backtestCmd.Flags().IntVar(&backtestRegionEnd, "region-end", 0, "구간 끝 (N일 전)")
	backtestCmd.Flags().IntVar(&backtestForceDays, "force-days", 0, "강제 청산 기한 (일, 0 = 파라미터 파일)")
	backtestCmd.Flags().Float64Var(&backtestFee, "fee", 0, "수수료 배수 (0 = 파라미터 파일)")
	backtestCmd.Flags().BoolVar(&backtestDynamic, "dynamic-fallback", false, "동적 폴백가 사용")
	backtestCmd.Flags().StringVar(&backtestPlotPath, "plot", "", "타임라인 PNG 저장 경로")

	backtestCmd.MarkFlagRequired("strategy")
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	fmt.Println("=== steamflip Backtest Engine ===")

	rt, err := initRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	strat, err := strategy.New(backtestStrategy, rt.params)
	if err != nil {
		return err
	}
	bstrat, ok := strat.(strategy.BacktestStrategy)
	if !ok {
		return fmt.Errorf("strategy %q does not support backtesting", backtestStrategy)
	}

	region := contracts.RelativeRegion(backtestRegionStart, backtestRegionEnd)
	cfg := backtest.ConfigFrom(rt.params, region)
	if backtestForceDays > 0 {
		cfg.LiquidationForceDays = backtestForceDays
	}
	if backtestFee > 0 {
		cfg.FeeMultiplier = backtestFee
	}
	if cmd.Flags().Changed("dynamic-fallback") {
		cfg.DynamicFallback = backtestDynamic
	}

	fmt.Printf("\n📅 Region: %d일 전 ~ %d일 전 (최근 체결 기준)\n",
		backtestRegionStart, backtestRegionEnd)
	fmt.Printf("🧮 Strategy: %s | force-days=%d | fee=%.2f | dynamic=%v\n\n",
		backtestStrategy, cfg.LiquidationForceDays, cfg.FeeMultiplier, cfg.DynamicFallback)

	items := store.NewItemRepository(rt.db.Pool)
	universe, err := items.GetAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}
	if len(universe) == 0 {
		PrintWarning("저장된 아이템이 없습니다. collect를 먼저 실행하세요.")
		return nil
	}

	fmt.Printf("🚀 %d개 아이템으로 백테스트 시작\n\n", len(universe))

	result, err := backtest.Run(bstrat, universe, cfg, rt.log.Zerolog())
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	PrintSeparator()
	report.WriteBacktestSummary(os.Stdout, result)
	PrintSeparator()

	if hash, err := strategyconfig.Hash(&rt.params); err == nil {
		runs := store.NewRunRepository(rt.db.Pool)
		if err := runs.Save(cmd.Context(), result.PersistedRun(hash)); err != nil {
			PrintWarning(fmt.Sprintf("실행 기록 저장 실패: %v", err))
		} else {
			PrintSuccess(fmt.Sprintf("실행 기록 저장됨: %s", result.RunID))
		}
	}

	if backtestPlotPath != "" {
		if err := report.SaveTimelinePlot(result.Summary, backtestPlotPath); err != nil {
			PrintWarning(fmt.Sprintf("타임라인 차트 저장 실패: %v", err))
		} else {
			PrintSuccess(fmt.Sprintf("타임라인 차트 저장됨: %s", backtestPlotPath))
		}
	}

	return nil
}
