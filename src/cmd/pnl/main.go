package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/akormos/alert-trading/src/eventmodels"
	"github.com/akormos/alert-trading/src/eventservices"
	"github.com/akormos/alert-trading/src/utils"
)

type RunArgs struct {
	TodayOnly bool
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/pnl/main.go [--today]",
	Short: "Summarize realized P&L per contract from account executions",
	Run: func(cmd *cobra.Command, args []string) {
		todayOnly, err := cmd.Flags().GetBool("today")
		if err != nil {
			log.Fatalf("error getting today: %v", err)
		}

		if err := Run(RunArgs{TodayOnly: todayOnly}); err != nil {
			log.Errorf("Error: %v", err)
		}
	},
}

func sameDay(a time.Time, b time.Time) bool {
	y1, m1, d1 := a.Local().Date()
	y2, m2, d2 := b.Local().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SummarizePnL buckets realized P&L per contract symbol. Only executions with
// a reported realized figure contribute; opening fills report zero and are
// counted but add nothing.
func SummarizePnL(executions []eventmodels.BrokerExecutionDTO) (map[string]float64, float64) {
	perSymbol := make(map[string]float64)
	var total float64

	for _, execution := range executions {
		perSymbol[execution.ContractSymbol] += execution.RealizedPnL
		total += execution.RealizedPnL
	}

	return perSymbol, total
}

func Run(args RunArgs) error {
	if err := utils.InitEnvironmentVariables(); err != nil {
		log.Fatalf("error loading environment variables: %v", err)
	}

	broker := eventservices.NewBrokerAPIClient(
		os.Getenv("BROKER_API_URL"),
		os.Getenv("BROKER_STREAM_URL"),
		os.Getenv("BROKER_API_TOKEN"),
		os.Getenv("BROKER_ACCOUNT_ID"),
	)

	executions, err := broker.FetchExecutions(context.Background())
	if err != nil {
		return fmt.Errorf("error fetching executions: %v", err)
	}

	if args.TodayOnly {
		now := time.Now()
		var todays []eventmodels.BrokerExecutionDTO
		for _, execution := range executions {
			if sameDay(execution.TransactionAt, now) {
				todays = append(todays, execution)
			}
		}
		executions = todays
	}

	if len(executions) == 0 {
		fmt.Println("No executions.")
		return nil
	}

	perSymbol, total := SummarizePnL(executions)

	symbols := make([]string, 0, len(perSymbol))
	for symbol := range perSymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		fmt.Printf("%-24s %10.2f\n", symbol, perSymbol[symbol])
	}

	fmt.Printf("%-24s %10.2f\n", "TOTAL", total)

	return nil
}

func main() {
	runCmd.PersistentFlags().Bool("today", false, "Only include executions from today.")

	runCmd.Execute()
}
