package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/akormos/alert-trading/src/eventmodels"
	"github.com/akormos/alert-trading/src/eventservices"
	"github.com/akormos/alert-trading/src/utils"
)

type RunArgs struct {
	OutsideRTH bool
	Yes        bool
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/flatten/main.go",
	Short: "Close every open option position with market orders",
	Run: func(cmd *cobra.Command, args []string) {
		outsideRTH, err := cmd.Flags().GetBool("outside-rth")
		if err != nil {
			log.Fatalf("error getting outside-rth: %v", err)
		}

		yes, err := cmd.Flags().GetBool("yes")
		if err != nil {
			log.Fatalf("error getting yes: %v", err)
		}

		if err := Run(RunArgs{OutsideRTH: outsideRTH, Yes: yes}); err != nil {
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

	ctx := context.Background()

	positions, err := broker.FetchPositions(ctx)
	if err != nil {
		return fmt.Errorf("error fetching positions: %v", err)
	}

	if len(positions) == 0 {
		fmt.Println("No open positions.")
		return nil
	}

	for _, position := range positions {
		fmt.Println(position.String())
	}

	if !args.Yes {
		fmt.Printf("Close all %d positions at market? (yes/no): ", len(positions))

		var response string
		if err := utils.ReadLineFromStdin(&response); err != nil {
			return fmt.Errorf("error reading response: %v", err)
		}

		if strings.TrimSpace(response) != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	for _, position := range positions {
		if position.Quantity <= 0 {
			log.Warnf("skipping %s: not a long position", position.ContractSymbol)
			continue
		}

		orderID, err := broker.PlaceOptionOrder(ctx, &eventservices.PlaceOptionOrderRequest{
			AccountID:      broker.PrimaryAccountID(),
			ContractSymbol: position.ContractSymbol,
			Underlying:     position.Underlying,
			Action:         eventmodels.TradeActionSell,
			Quantity:       int(position.Quantity),
			OrderType:      eventservices.OrderTypeMarket,
			OutsideRTH:     args.OutsideRTH,
			Tag:            "flatten",
		})

		if err != nil {
			log.Errorf("error closing %s: %v", position.ContractSymbol, err)
			continue
		}

		fmt.Printf("Closing %s x%v (order %s)\n", position.ContractSymbol, position.Quantity, orderID)
	}

	return nil
}

func main() {
	runCmd.PersistentFlags().Bool("outside-rth", false, "Allow the closing orders to execute outside regular trading hours.")
	runCmd.PersistentFlags().Bool("yes", false, "Skip the confirmation prompt.")

	runCmd.Execute()
}
