package eventservices

import (
	"context"
	"errors"

	"github.com/akormos/alert-trading/src/eventmodels"
)

// ErrOrderRejected marks an order the broker explicitly refused, as opposed
// to a transport failure.
var ErrOrderRejected = errors.New("order rejected by broker")

// Broker is the connectivity boundary to the brokerage account. Every call
// may block and may fail with a connectivity error; callers treat all of them
// as fallible and must not cache results beyond a single operation.
type Broker interface {
	PrimaryAccountID() string
	FetchPositions(ctx context.Context) ([]eventmodels.BrokerPositionDTO, error)
	FetchBalances(ctx context.Context) (*eventmodels.BrokerBalancesDTO, error)
	FetchCashBalances(ctx context.Context) ([]eventmodels.CashBalanceDTO, error)
	LookupOptionContract(ctx context.Context, symbol string, expiry string, strike float64, optionType eventmodels.OptionType) (*eventmodels.OptionContractDTO, error)
	SubscribeQuotes(ctx context.Context, contractSymbol string) (QuoteSubscription, error)
	PlaceOptionOrder(ctx context.Context, req *PlaceOptionOrderRequest) (string, error)
	FetchOrders(ctx context.Context) ([]eventmodels.BrokerOrderDTO, error)
	CancelOrder(ctx context.Context, orderID string) error
	FetchExecutions(ctx context.Context) ([]eventmodels.BrokerExecutionDTO, error)
}

// QuoteSubscription is a live quote feed for a single contract. Latest
// returns the most recent sample; sides never seen stay NaN. Close releases
// the subscription and must be called on every exit path.
type QuoteSubscription interface {
	Latest() eventmodels.OptionQuoteDTO
	Close() error
}

type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

type PlaceOptionOrderRequest struct {
	AccountID      string
	ContractSymbol string
	Underlying     string
	Action         eventmodels.TradeAction
	Quantity       int
	OrderType      OrderType
	LimitPrice     *float64
	OutsideRTH     bool
	Tag            string
}
