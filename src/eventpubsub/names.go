package eventpubsub

const (
	TradeAlertEvent      = "TradeAlertEvent"
	IntentAcceptedEvent  = "IntentAcceptedEvent"
	ExecutionResultEvent = "ExecutionResultEvent"
	PositionAlertEvent   = "PositionAlertEvent"
	NotificationEvent    = "NotificationEvent"
)
