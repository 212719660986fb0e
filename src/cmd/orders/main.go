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
	CancelID  string
	CancelAll bool
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/orders/main.go [--cancel <orderID>] [--cancel-all]",
	Short: "List account orders, optionally cancelling open ones",
	Run: func(cmd *cobra.Command, args []string) {
		cancelID, err := cmd.Flags().GetString("cancel")
		if err != nil {
			log.Fatalf("error getting cancel: %v", err)
		}

		cancelAll, err := cmd.Flags().GetBool("cancel-all")
		if err != nil {
			log.Fatalf("error getting cancel-all: %v", err)
		}

		if err := Run(RunArgs{CancelID: cancelID, CancelAll: cancelAll}); err != nil {
			log.Errorf("Error: %v", err)
		}
	},
}

func isOpenOrder(status string) bool {
	switch status {
	case "open", "pending", "partially_filled":
		return true
	}

	return false
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

	if args.CancelID != "" {
		if err := broker.CancelOrder(ctx, args.CancelID); err != nil {
			return fmt.Errorf("error cancelling order %s: %v", args.CancelID, err)
		}

		fmt.Printf("Cancelled order %s\n", args.CancelID)
		return nil
	}

	orders, err := broker.FetchOrders(ctx)
	if err != nil {
		return fmt.Errorf("error fetching orders: %v", err)
	}

	if args.CancelAll {
		for _, order := range orders {
			if !isOpenOrder(order.Status) {
				continue
			}

			if err := broker.CancelOrder(ctx, order.ID); err != nil {
				log.Errorf("error cancelling order %s: %v", order.ID, err)
				continue
			}

			fmt.Printf("Cancelled order %s (%s %s)\n", order.ID, order.Side, order.Symbol)
		}

		return nil
	}

	if len(orders) == 0 {
		fmt.Println("No orders.")
		return nil
	}

	ordersJSON, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal orders: %v", err)
	}

	fmt.Println(string(ordersJSON))

	return nil
}

func main() {
	runCmd.PersistentFlags().String("cancel", "", "Cancel a single order by id.")
	runCmd.PersistentFlags().Bool("cancel-all", false, "Cancel every open order.")

	runCmd.Execute()
}
