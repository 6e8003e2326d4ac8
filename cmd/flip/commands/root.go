package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/steamflip/internal/strategyconfig"
	"github.com/wonny/steamflip/pkg/config"
	"github.com/wonny/steamflip/pkg/database"
	"github.com/wonny/steamflip/pkg/logger"
)

var (
	// Global flags
	paramsFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flip",
	Short: "steamflip - Steam 마켓 CS:GO 트레이딩 시스템",
	Long: `steamflip Unified CLI

Steam Community Market의 CS:GO 아이템을 대상으로
수집 → 시그널 스캔 → 백테스트까지 한 번에.

Usage:
  go run ./cmd/flip [command]

Examples:
  go run ./cmd/flip collect "AK-47 | Redline (Field-Tested)"
  go run ./cmd/flip scan --strategy quartile-reversion
  go run ./cmd/flip backtest --strategy spring --region-start 15
  go run ./cmd/flip serve`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", "", "전략 파라미터 YAML (기본: 내장 기본값)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// runtime bundles the dependencies every command starts from.
type runtime struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB
	params strategyconfig.Config
}

func initRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.Env)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	params, err := strategyconfig.LoadOrDefault(paramsFile)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load strategy params: %w", err)
	}

	return &runtime{cfg: cfg, log: log, db: db, params: *params}, nil
}

func (rt *runtime) close() {
	rt.db.Close()
}
