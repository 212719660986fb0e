package eventconsumers

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/akormos/alert-trading/src/eventmodels"
	pubsub "github.com/akormos/alert-trading/src/eventpubsub"
)

// TradeIntentWorker consumes raw alert events, resolves them into intents,
// drops duplicates, and enqueues the survivors for execution. Resolver and
// dedup rejections are terminal and silent: most alert text is not a trade.
type TradeIntentWorker struct {
	wg       *sync.WaitGroup
	resolver *IntentResolver
	dedup    *Deduplicator
	queue    *eventmodels.FIFOQueue[*eventmodels.TradeIntent]
}

func NewTradeIntentWorker(wg *sync.WaitGroup, resolver *IntentResolver, dedup *Deduplicator, queue *eventmodels.FIFOQueue[*eventmodels.TradeIntent]) *TradeIntentWorker {
	return &TradeIntentWorker{
		wg:       wg,
		resolver: resolver,
		dedup:    dedup,
		queue:    queue,
	}
}

func (w *TradeIntentWorker) handleTradeAlert(ctx context.Context) func(eventmodels.TradeAlertEvent) {
	return func(event eventmodels.TradeAlertEvent) {
		log.Debugf("TradeIntentWorker.handleTradeAlert <- %q (%s)", event.Text, event.Source)

		intent := w.resolver.Resolve(ctx, event.Text)
		if intent == nil {
			return
		}

		if !w.dedup.ShouldProcess(intent) {
			log.Infof("TradeIntentWorker: duplicate alert suppressed: %v", intent)
			return
		}

		if err := intent.Validate(); err != nil {
			log.Errorf("TradeIntentWorker: resolver produced invalid intent: %v", err)
			return
		}

		log.Infof("TradeIntentWorker: accepted intent: %v", intent)

		w.queue.Enqueue(intent)

		pubsub.Publish("TradeIntentWorker", pubsub.IntentAcceptedEvent, eventmodels.IntentAcceptedEvent{
			Intent: intent,
		})
	}
}

func (w *TradeIntentWorker) Start(ctx context.Context) {
	w.wg.Add(1)

	pubsub.Subscribe(pubsub.TradeAlertEvent, w.handleTradeAlert(ctx))

	go func() {
		defer w.wg.Done()
		<-ctx.Done()
		log.Info("stopping TradeIntentWorker consumer")
	}()
}
