package eventmodels

import (
	"fmt"
	"math"
	"time"
)

// BrokerPositionDTO mirrors one row of the broker's positions response.
type BrokerPositionDTO struct {
	ContractSymbol string  `json:"symbol"`
	Underlying     string  `json:"underlying"`
	OptionType     string  `json:"option_type"`
	Expiry         string  `json:"expiration_date"`
	Strike         float64 `json:"strike"`
	Quantity       float64 `json:"quantity"`
	AvgCost        float64 `json:"cost_basis"`
	MarkPrice      float64 `json:"last"`
}

// Matches reports whether the position is a long holding of the given
// contract tuple.
func (p *BrokerPositionDTO) Matches(symbol string, expiry string, strike float64, optionType OptionType) bool {
	return p.Underlying == symbol &&
		p.Expiry == expiry &&
		p.Strike == strike &&
		p.OptionType == string(optionType) &&
		p.Quantity > 0
}

func (p *BrokerPositionDTO) String() string {
	return fmt.Sprintf("%s | position: %v | avg cost: %.2f | mark: %.2f",
		p.ContractSymbol, p.Quantity, p.AvgCost, p.MarkPrice)
}

// OptionContractDTO is one tradable contract from the broker's option chain.
type OptionContractDTO struct {
	ContractSymbol string  `json:"symbol"`
	Underlying     string  `json:"underlying"`
	OptionType     string  `json:"option_type"`
	Expiry         string  `json:"expiration_date"`
	Strike         float64 `json:"strike"`
}

// OptionQuoteDTO is a single live quote sample for a contract. Missing sides
// come back as NaN.
type OptionQuoteDTO struct {
	ContractSymbol string  `json:"symbol"`
	Bid            float64 `json:"bid"`
	Ask            float64 `json:"ask"`
	Last           float64 `json:"last"`
}

// HasValidBidAsk reports whether both sides are present and usable.
func (q *OptionQuoteDTO) HasValidBidAsk() bool {
	if math.IsNaN(q.Bid) || math.IsNaN(q.Ask) {
		return false
	}

	return q.Bid > 0 && q.Ask > 0
}

type BrokerOrderDTO struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	Side       string  `json:"side"`
	Quantity   float64 `json:"quantity"`
	OrderType  string  `json:"type"`
	LimitPrice float64 `json:"price"`
	AvgFill    float64 `json:"avg_fill_price"`
	Symbol     string  `json:"symbol"`
}

type BrokerExecutionDTO struct {
	ContractSymbol string    `json:"symbol"`
	Side           string    `json:"side"`
	Quantity       float64   `json:"quantity"`
	Price          float64   `json:"price"`
	RealizedPnL    float64   `json:"realized_pnl"`
	TransactionAt  time.Time `json:"transaction_date"`
}

type BrokerBalancesDTO struct {
	TotalEquity   float64 `json:"total_equity"`
	OpenPL        float64 `json:"open_pl"`
	ClosePL       float64 `json:"close_pl"`
	AccountType   string  `json:"account_type"`
	AccountNumber string  `json:"account_number"`
}

type CashBalanceDTO struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"cash_balance"`
}
