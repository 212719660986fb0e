package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/akormos/alert-trading/src/eventservices"
	"github.com/akormos/alert-trading/src/utils"
)

type RunArgs struct {
	AsJSON bool
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/positions/main.go",
	Short: "List open option positions in the trading account",
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, err := cmd.Flags().GetBool("json")
		if err != nil {
			log.Fatalf("error getting json: %v", err)
		}

		if err := Run(RunArgs{AsJSON: asJSON}); err != nil {
			log.Errorf("Error: %v", err)
		}
	},
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

	positions, err := broker.FetchPositions(context.Background())
	if err != nil {
		return fmt.Errorf("error fetching positions: %v", err)
	}

	if len(positions) == 0 {
		fmt.Println("No open positions.")
		return nil
	}

	if args.AsJSON {
		positionsJSON, err := json.MarshalIndent(positions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal positions: %v", err)
		}

		fmt.Println(string(positionsJSON))
		return nil
	}

	for _, position := range positions {
		fmt.Println(position.String())
	}

	return nil
}

func main() {
	runCmd.PersistentFlags().Bool("json", false, "Print positions as JSON.")

	runCmd.Execute()
}
