package eventservices

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/akormos/alert-trading/src/eventmodels"
)

// MockBroker is an in-memory Broker used by tests.
type MockBroker struct {
	mu sync.Mutex

	AccountID string
	Positions []eventmodels.BrokerPositionDTO
	Contracts []eventmodels.OptionContractDTO
	Orders    []eventmodels.BrokerOrderDTO

	PositionsErr error
	ContractErr  error
	SubscribeErr error
	PlaceErr     error

	Requests      []*PlaceOptionOrderRequest
	Subscriptions []*MockQuoteSubscription

	// Quotes are returned by subscriptions in sequence; the last entry
	// repeats once exhausted. Empty means bid/ask stay NaN.
	Quotes []eventmodels.OptionQuoteDTO

	nextOrderID int
}

func NewMockBroker() *MockBroker {
	return &MockBroker{
		AccountID:   "TEST123",
		nextOrderID: 1,
	}
}

func (b *MockBroker) PrimaryAccountID() string {
	return b.AccountID
}

func (b *MockBroker) FetchPositions(ctx context.Context) ([]eventmodels.BrokerPositionDTO, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.PositionsErr != nil {
		return nil, b.PositionsErr
	}

	return append([]eventmodels.BrokerPositionDTO{}, b.Positions...), nil
}

func (b *MockBroker) FetchBalances(ctx context.Context) (*eventmodels.BrokerBalancesDTO, error) {
	return &eventmodels.BrokerBalancesDTO{AccountNumber: b.AccountID, AccountType: "margin"}, nil
}

func (b *MockBroker) FetchCashBalances(ctx context.Context) ([]eventmodels.CashBalanceDTO, error) {
	return []eventmodels.CashBalanceDTO{{Currency: "USD", Amount: 10000}}, nil
}

func (b *MockBroker) LookupOptionContract(ctx context.Context, symbol string, expiry string, strike float64, optionType eventmodels.OptionType) (*eventmodels.OptionContractDTO, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ContractErr != nil {
		return nil, b.ContractErr
	}

	for _, contract := range b.Contracts {
		if contract.Underlying == symbol && contract.Expiry == expiry && contract.Strike == strike && contract.OptionType == string(optionType) {
			found := contract
			return &found, nil
		}
	}

	return nil, fmt.Errorf("MockBroker.LookupOptionContract(): no tradable contract for %s %s %v %s", symbol, expiry, strike, optionType)
}

func (b *MockBroker) SubscribeQuotes(ctx context.Context, contractSymbol string) (QuoteSubscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.SubscribeErr != nil {
		return nil, b.SubscribeErr
	}

	sub := &MockQuoteSubscription{
		symbol: contractSymbol,
		quotes: append([]eventmodels.OptionQuoteDTO{}, b.Quotes...),
	}
	b.Subscriptions = append(b.Subscriptions, sub)

	return sub, nil
}

func (b *MockBroker) PlaceOptionOrder(ctx context.Context, req *PlaceOptionOrderRequest) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.PlaceErr != nil {
		return "", b.PlaceErr
	}

	b.Requests = append(b.Requests, req)

	id := fmt.Sprintf("%d", b.nextOrderID)
	b.nextOrderID++

	return id, nil
}

func (b *MockBroker) FetchOrders(ctx context.Context) ([]eventmodels.BrokerOrderDTO, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]eventmodels.BrokerOrderDTO{}, b.Orders...), nil
}

func (b *MockBroker) CancelOrder(ctx context.Context, orderID string) error {
	return nil
}

func (b *MockBroker) FetchExecutions(ctx context.Context) ([]eventmodels.BrokerExecutionDTO, error) {
	return nil, nil
}

// MockQuoteSubscription replays scripted quote samples.
type MockQuoteSubscription struct {
	mu     sync.Mutex
	symbol string
	quotes []eventmodels.OptionQuoteDTO
	index  int
	Closed bool
}

func (s *MockQuoteSubscription) Latest() eventmodels.OptionQuoteDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.quotes) == 0 {
		return eventmodels.OptionQuoteDTO{
			ContractSymbol: s.symbol,
			Bid:            math.NaN(),
			Ask:            math.NaN(),
			Last:           math.NaN(),
		}
	}

	quote := s.quotes[s.index]
	if s.index < len(s.quotes)-1 {
		s.index++
	}

	return quote
}

func (s *MockQuoteSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}
