package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
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
	Use:   "go run src/cmd/executions/main.go [--today]",
	Short: "List account executions",
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

func filterToday(executions []eventmodels.BrokerExecutionDTO, now time.Time) []eventmodels.BrokerExecutionDTO {
	var filtered []eventmodels.BrokerExecutionDTO
	year, month, day := now.Date()

	for _, execution := range executions {
		y, m, d := execution.TransactionAt.Local().Date()
		if y == year && m == month && d == day {
			filtered = append(filtered, execution)
		}
	}

	return filtered
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
		executions = filterToday(executions, time.Now())
	}

	if len(executions) == 0 {
		fmt.Println("No executions.")
		return nil
	}

	executionsJSON, err := json.MarshalIndent(executions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal executions: %v", err)
	}

	fmt.Println(string(executionsJSON))

	return nil
}

func main() {
	runCmd.PersistentFlags().Bool("today", false, "Only show executions from today.")

	runCmd.Execute()
}
