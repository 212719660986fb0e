package eventconsumers

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/akormos/alert-trading/src/eventmodels"
	pubsub "github.com/akormos/alert-trading/src/eventpubsub"
	"github.com/akormos/alert-trading/src/utils"
)

// NotifierWorker forwards pipeline outcomes to the chat webhook. Delivery is
// fire-and-forget: failures are logged and never fatal to the pipeline.
type NotifierWorker struct {
	wg         *sync.WaitGroup
	webhookURL string
}

func NewNotifierWorker(wg *sync.WaitGroup, webhookURL string) *NotifierWorker {
	return &NotifierWorker{
		wg:         wg,
		webhookURL: webhookURL,
	}
}

func (w *NotifierWorker) send(message string) {
	if err := utils.SendWebhookMessage(w.webhookURL, message); err != nil {
		log.Errorf("NotifierWorker.send(): %v", err)
	}
}

func (w *NotifierWorker) handleIntentAccepted(ev eventmodels.IntentAcceptedEvent) {
	log.Debugf("NotifierWorker.handleIntentAccepted <- %v", ev.Intent)

	intent := ev.Intent
	entry := "N/A"
	if intent.EntryPrice != nil {
		entry = fmt.Sprintf("$%.2f", *intent.EntryPrice)
	}

	w.send(fmt.Sprintf(
		"**Trade Alert**\n**Symbol:** `%s`\n**Type:** `%s`\n**Strike:** `%v`\n**Expiry:** `%s`\n**Entry:** `%s`\n**Action:** `%s`\n**Qty:** `%d`\n**Time:** `%s UTC`",
		intent.Symbol, intent.OptionType, intent.Strike, intent.Expiry, entry, intent.Action, intent.Quantity,
		intent.Timestamp.UTC().Format("2006-01-02 15:04:05"),
	))
}

func (w *NotifierWorker) handleExecutionResult(ev eventmodels.ExecutionResultEvent) {
	log.Debugf("NotifierWorker.handleExecutionResult <- %v", ev.Result)

	result := ev.Result

	switch result.Status {
	case eventmodels.ExecutionStatusFilled:
		price := "market"
		if result.FillPrice != nil {
			price = fmt.Sprintf("$%.2f limit", *result.FillPrice)
		}
		w.send(fmt.Sprintf("Order placed: %v (%s, order %s)", result.Intent, price, result.OrderID))
	case eventmodels.ExecutionStatusBlocked:
		w.send(fmt.Sprintf("Sell blocked: %v — %s", result.Intent, result.ErrorDetail))
	default:
		w.send(fmt.Sprintf("Order failed: %v — %s", result.Intent, result.ErrorDetail))
	}
}

func (w *NotifierWorker) handlePositionAlert(ev eventmodels.PositionAlertEvent) {
	log.Debugf("NotifierWorker.handlePositionAlert <- %v", ev)
	w.send(ev.Message)
}

func (w *NotifierWorker) handleNotification(ev eventmodels.NotificationEvent) {
	w.send(ev.Message)
}

func (w *NotifierWorker) Start(ctx context.Context) {
	w.wg.Add(1)

	pubsub.Subscribe(pubsub.IntentAcceptedEvent, w.handleIntentAccepted)
	pubsub.Subscribe(pubsub.ExecutionResultEvent, w.handleExecutionResult)
	pubsub.Subscribe(pubsub.PositionAlertEvent, w.handlePositionAlert)
	pubsub.Subscribe(pubsub.NotificationEvent, w.handleNotification)

	go func() {
		defer w.wg.Done()
		<-ctx.Done()
		log.Info("stopping NotifierWorker consumer")
	}()

	w.send(fmt.Sprintf("Bot online and monitoring alerts (%s UTC)", time.Now().UTC().Format("2006-01-02 15:04:05")))
}
