package eventmodels

import "fmt"

// PositionContext is the resolver's per-symbol memory of open exposure. It is
// a hint used to complete partial alerts, not the broker's authoritative
// position, which is re-checked at execution time.
type PositionContext struct {
	Symbol     string
	OptionType OptionType
	Expiry     string
	Strike     float64
	Quantity   int
}

func (p *PositionContext) Summary() string {
	return fmt.Sprintf("LONG %d %s %s %v %s", p.Quantity, p.Symbol, p.OptionType, p.Strike, p.Expiry)
}
