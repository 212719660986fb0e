package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/akormos/alert-trading/src/eventservices"
	"github.com/akormos/alert-trading/src/utils"
)

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/account/main.go",
	Short: "Show account equity, open/close P&L and cash balances",
	Run: func(cmd *cobra.Command, args []string) {
		if err := Run(); err != nil {
			log.Errorf("Error: %v", err)
		}
	},
}

func Run() error {
	if err := utils.InitEnvironmentVariables(); err != nil {
		log.Fatalf("error loading environment variables: %v", err)
	}

	broker := eventservices.NewBrokerAPIClient(
		os.Getenv("BROKER_API_URL"),
		os.Getenv("BROKER_STREAM_URL"),
		os.Getenv("BROKER_API_TOKEN"),
		os.Getenv("BROKER_ACCOUNT_ID"),
	)

	ctx := context.Background()

	balances, err := broker.FetchBalances(ctx)
	if err != nil {
		return fmt.Errorf("error fetching balances: %v", err)
	}

	fmt.Printf("Account %s (%s)\n", balances.AccountNumber, balances.AccountType)
	fmt.Printf("Total equity: %.2f\n", balances.TotalEquity)
	fmt.Printf("Open P&L:     %.2f\n", balances.OpenPL)
	fmt.Printf("Close P&L:    %.2f\n", balances.ClosePL)

	cashBalances, err := broker.FetchCashBalances(ctx)
	if err != nil {
		return fmt.Errorf("error fetching cash balances: %v", err)
	}

	for _, cash := range cashBalances {
		fmt.Printf("Cash (%s):    %.2f\n", cash.Currency, cash.Amount)
	}

	return nil
}

func main() {
	runCmd.Execute()
}
