package eventmodels

import "fmt"

type ExecutionStatus string

const (
	ExecutionStatusFilled   ExecutionStatus = "filled"
	ExecutionStatusRejected ExecutionStatus = "rejected"
	ExecutionStatusBlocked  ExecutionStatus = "blocked"
	ExecutionStatusFailed   ExecutionStatus = "failed"
)

// ExecutionResult is the terminal outcome of executing one intent. Every
// accepted intent produces exactly one.
//
// FillPrice is the marketable limit price the order was submitted at, nil
// for market-order fallbacks. The broker's execution report is the
// authoritative fill; a Filled status means the submission was accepted, the
// order may still be resting.
type ExecutionResult struct {
	Intent         *TradeIntent
	ContractSymbol string
	OrderID        string
	Status         ExecutionStatus
	FillPrice      *float64
	ErrorDetail    string
}

func (r *ExecutionResult) String() string {
	if r.ErrorDetail != "" {
		return fmt.Sprintf("%s: %v (%s)", r.Status, r.Intent, r.ErrorDetail)
	}

	return fmt.Sprintf("%s: %v", r.Status, r.Intent)
}
