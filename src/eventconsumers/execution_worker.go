package eventconsumers

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/akormos/alert-trading/src/eventmodels"
	pubsub "github.com/akormos/alert-trading/src/eventpubsub"
)

// TradeExecutionWorker is the single consumer of the execution queue. Broker
// order placement and position lookups are not safely interleavable, so
// intents execute strictly one at a time, in arrival order.
type TradeExecutionWorker struct {
	wg     *sync.WaitGroup
	queue  *eventmodels.FIFOQueue[*eventmodels.TradeIntent]
	engine *ExecutionEngine
}

func NewTradeExecutionWorker(wg *sync.WaitGroup, queue *eventmodels.FIFOQueue[*eventmodels.TradeIntent], engine *ExecutionEngine) *TradeExecutionWorker {
	return &TradeExecutionWorker{
		wg:     wg,
		queue:  queue,
		engine: engine,
	}
}

func (w *TradeExecutionWorker) Start(ctx context.Context) {
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()

		for {
			intent, ok := w.queue.Dequeue(ctx)
			if !ok {
				log.Info("stopping TradeExecutionWorker consumer")
				return
			}

			result := w.engine.Execute(ctx, intent)

			log.Infof("TradeExecutionWorker: %v", result)

			pubsub.Publish("TradeExecutionWorker", pubsub.ExecutionResultEvent, eventmodels.ExecutionResultEvent{
				Result: result,
			})
		}
	}()
}
