package eventmodels

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TradeAction string

const (
	TradeActionBuy       TradeAction = "BUY"
	TradeActionSell      TradeAction = "SELL"
	TradeActionSpeculate TradeAction = "SPECULATE"
)

type OptionType string

const (
	OptionTypeCall OptionType = "C"
	OptionTypePut  OptionType = "P"
)

// TradeIntent is the unit of work flowing through the pipeline: a fully
// resolved alert, ready to be deduped and executed.
type TradeIntent struct {
	ID         uuid.UUID
	Symbol     string
	OptionType OptionType
	Expiry     string // YYYYMMDD
	Strike     float64
	Action     TradeAction
	Quantity   int
	EntryPrice *float64
	SourceText string
	Timestamp  time.Time
}

// Validate reports whether the intent is executable. Speculative intents and
// intents missing a required field are terminal and must never be enqueued.
func (i *TradeIntent) Validate() error {
	if i.Action == TradeActionSpeculate {
		return fmt.Errorf("TradeIntent.Validate(): speculative intent is not executable")
	}

	if i.Action != TradeActionBuy && i.Action != TradeActionSell {
		return fmt.Errorf("TradeIntent.Validate(): unknown action: %s", i.Action)
	}

	if i.Symbol == "" {
		return fmt.Errorf("TradeIntent.Validate(): missing symbol")
	}

	if i.OptionType != OptionTypeCall && i.OptionType != OptionTypePut {
		return fmt.Errorf("TradeIntent.Validate(): invalid option type: %s", i.OptionType)
	}

	if i.Expiry == "" {
		return fmt.Errorf("TradeIntent.Validate(): missing expiry")
	}

	if i.Strike <= 0 {
		return fmt.Errorf("TradeIntent.Validate(): strike must be positive, got %v", i.Strike)
	}

	if i.Quantity <= 0 {
		return fmt.Errorf("TradeIntent.Validate(): quantity must be positive, got %v", i.Quantity)
	}

	return nil
}

// DedupKey identifies re-broadcasts of the same alert. Action is deliberately
// not part of the key, matching the upstream alert format.
func (i *TradeIntent) DedupKey() string {
	entry := "N/A"
	if i.EntryPrice != nil {
		entry = fmt.Sprintf("%.2f", *i.EntryPrice)
	}

	return fmt.Sprintf("%s-%s-%v-%s", i.Symbol, i.Expiry, i.Strike, entry)
}

func (i *TradeIntent) String() string {
	return fmt.Sprintf("%s %d %s %v%s %s", i.Action, i.Quantity, i.Symbol, i.Strike, i.OptionType, i.Expiry)
}
