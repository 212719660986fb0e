package eventmodels

import (
	"time"

	"github.com/google/uuid"
)

// TradeAlertEvent carries one piece of free-form alert text extracted from a
// chat message: the message body, an embed description, an embed field pair,
// or the OCR output of an image attachment.
type TradeAlertEvent struct {
	RequestID uuid.UUID
	Author    string
	Text      string
	Source    string // "message", "embed", "embed-field", "attachment"
	Timestamp time.Time
}

type IntentAcceptedEvent struct {
	Intent *TradeIntent
}

type ExecutionResultEvent struct {
	Result *ExecutionResult
}

type PositionAlertKind string

const (
	PositionAlertFlat    PositionAlertKind = "flat"
	PositionAlertNeutral PositionAlertKind = "neutral"
	PositionAlertGain    PositionAlertKind = "gain"
	PositionAlertLoss    PositionAlertKind = "loss"
)

type PositionAlertEvent struct {
	Kind      PositionAlertKind
	Symbol    string
	ProfitPct float64
	Message   string
}

// NotificationEvent is free-form text destined for the notification sink.
type NotificationEvent struct {
	Message string
}
