package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wonny/steamflip/internal/store"
)

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "백테스트 기록 조회",
	Long: `저장된 백테스트 실행 기록을 최신순으로 보여줍니다.

Example:
  go run ./cmd/flip runs
  go run ./cmd/flip runs --limit 50`,
	RunE: runRuns,
}

var runsLimit int

func init() {
	rootCmd.AddCommand(runsCmd)

	// Flags
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "조회 개수")
}

func runRuns(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	runs, err := store.NewRunRepository(rt.db.Pool).List(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("load runs: %w", err)
	}
	if len(runs) == 0 {
		PrintWarning("저장된 백테스트 기록이 없습니다.")
		return nil
	}

	fmt.Printf("📜 백테스트 기록 %d건\n", len(runs))
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Started", "Strategy", "Buys", "P1", "P2", "Unsold", "Net Profit")
	for _, run := range runs {
		table.Append(
			run.StartedAt.Format("2006-01-02 15:04"),
			run.Strategy,
			fmt.Sprintf("%d", run.PurchaseCount),
			fmt.Sprintf("%d", run.SoldPhase1),
			fmt.Sprintf("%d", run.SoldPhase2),
			fmt.Sprintf("%d", run.NeverSold),
			fmt.Sprintf("$%.2f", run.NetProfit),
		)
	}
	table.Render()

	latest := runs[0]
	PrintSeparator()
	PrintKeyValue("Latest run", latest.RunID, 12)
	PrintKeyValue("Params hash", latest.ParamsHash, 12)

	return nil
}
