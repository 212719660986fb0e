package eventconsumers

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/akormos/alert-trading/src/eventmodels"
	"github.com/akormos/alert-trading/src/eventservices"
)

// ExecutionEngine turns one accepted intent into exactly one terminal
// ExecutionResult. All broker failures are caught at this boundary; Execute
// never panics or propagates an error, so the queue consumer can always move
// on to the next intent.
type ExecutionEngine struct {
	broker            eventservices.Broker
	discoveryTimeout  time.Duration
	discoveryInterval time.Duration
}

func NewExecutionEngine(broker eventservices.Broker, config *eventmodels.PipelineYAML) *ExecutionEngine {
	return &ExecutionEngine{
		broker:            broker,
		discoveryTimeout:  config.PriceDiscoveryTimeout(),
		discoveryInterval: config.PriceDiscoveryInterval(),
	}
}

func (e *ExecutionEngine) Execute(ctx context.Context, intent *eventmodels.TradeIntent) *eventmodels.ExecutionResult {
	result := &eventmodels.ExecutionResult{
		Intent: intent,
	}

	// Never submit a sell for a position the account does not hold, no
	// matter what the resolver inferred.
	if intent.Action == eventmodels.TradeActionSell {
		held, err := e.holdsPosition(ctx, intent)
		if err != nil {
			result.Status = eventmodels.ExecutionStatusFailed
			result.ErrorDetail = fmt.Sprintf("failed to verify position: %v", err)
			return result
		}

		if !held {
			log.Warnf("ExecutionEngine.Execute(): blocking naked sell: %v", intent)
			result.Status = eventmodels.ExecutionStatusBlocked
			result.ErrorDetail = fmt.Sprintf("no long position in %s %s %v %s", intent.Symbol, intent.Expiry, intent.Strike, intent.OptionType)
			return result
		}
	}

	contract, err := e.broker.LookupOptionContract(ctx, intent.Symbol, intent.Expiry, intent.Strike, intent.OptionType)
	if err != nil {
		result.Status = eventmodels.ExecutionStatusFailed
		result.ErrorDetail = fmt.Sprintf("contract resolution failed: %v", err)
		return result
	}

	result.ContractSymbol = contract.ContractSymbol

	limitPrice, err := e.discoverPrice(ctx, contract.ContractSymbol, intent.Action)
	if err != nil {
		result.Status = eventmodels.ExecutionStatusFailed
		result.ErrorDetail = fmt.Sprintf("price discovery failed: %v", err)
		return result
	}

	orderReq := &eventservices.PlaceOptionOrderRequest{
		AccountID:      e.broker.PrimaryAccountID(),
		ContractSymbol: contract.ContractSymbol,
		Underlying:     intent.Symbol,
		Action:         intent.Action,
		Quantity:       intent.Quantity,
		OrderType:      eventservices.OrderTypeMarket,
		OutsideRTH:     true,
		Tag:            intent.ID.String(),
	}

	if limitPrice != nil {
		orderReq.OrderType = eventservices.OrderTypeLimit
		orderReq.LimitPrice = limitPrice
	} else {
		log.Warnf("ExecutionEngine.Execute(): no valid bid/ask for %s within %v, falling back to market order", contract.ContractSymbol, e.discoveryTimeout)
	}

	orderID, err := e.broker.PlaceOptionOrder(ctx, orderReq)
	if err != nil {
		if errors.Is(err, eventservices.ErrOrderRejected) {
			result.Status = eventmodels.ExecutionStatusRejected
		} else {
			result.Status = eventmodels.ExecutionStatusFailed
		}

		result.ErrorDetail = fmt.Sprintf("order submission failed: %v", err)
		return result
	}

	result.Status = eventmodels.ExecutionStatusFilled
	result.OrderID = orderID
	result.FillPrice = limitPrice

	return result
}

func (e *ExecutionEngine) holdsPosition(ctx context.Context, intent *eventmodels.TradeIntent) (bool, error) {
	positions, err := e.broker.FetchPositions(ctx)
	if err != nil {
		return false, fmt.Errorf("ExecutionEngine.holdsPosition(): failed to fetch positions: %w", err)
	}

	for _, position := range positions {
		if position.Matches(intent.Symbol, intent.Expiry, intent.Strike, intent.OptionType) {
			return true, nil
		}
	}

	return false, nil
}

// discoverPrice samples live quotes for up to the discovery timeout and
// returns the marketable limit price: the bid for buys, the ask for sells.
// A nil price with a nil error means discovery timed out and the caller
// should fall back to a market order; a non-nil error means the market-data
// session itself is broken and nothing may be submitted. The quote
// subscription is released on every exit path.
func (e *ExecutionEngine) discoverPrice(ctx context.Context, contractSymbol string, action eventmodels.TradeAction) (*float64, error) {
	subscription, err := e.broker.SubscribeQuotes(ctx, contractSymbol)
	if err != nil {
		return nil, fmt.Errorf("ExecutionEngine.discoverPrice(): failed to subscribe to quotes for %s: %w", contractSymbol, err)
	}

	defer func() {
		if closeErr := subscription.Close(); closeErr != nil {
			log.Errorf("ExecutionEngine.discoverPrice(): failed to release quote subscription: %v", closeErr)
		}
	}()

	deadline := time.After(e.discoveryTimeout)
	ticker := time.NewTicker(e.discoveryInterval)
	defer ticker.Stop()

	for {
		quote := subscription.Latest()
		if quote.HasValidBidAsk() {
			price := quote.Bid
			if action == eventmodels.TradeActionSell {
				price = quote.Ask
			}

			return &price, nil
		}

		select {
		case <-ticker.C:
		case <-deadline:
			return nil, nil
		case <-ctx.Done():
			return nil, nil
		}
	}
}
