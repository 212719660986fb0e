package eventconsumers

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/akormos/alert-trading/src/eventmodels"
	pubsub "github.com/akormos/alert-trading/src/eventpubsub"
	"github.com/akormos/alert-trading/src/eventservices"
)

// PositionMonitorWorker polls current holdings on a fixed cadence and raises
// informational gain/loss alerts. It never places orders, and a failed cycle
// never stops the loop.
type PositionMonitorWorker struct {
	wg           *sync.WaitGroup
	broker       eventservices.Broker
	period       time.Duration
	gainAlertPct float64
	lossAlertPct float64
}

func NewPositionMonitorWorker(wg *sync.WaitGroup, broker eventservices.Broker, config *eventmodels.PipelineYAML) *PositionMonitorWorker {
	return &PositionMonitorWorker{
		wg:           wg,
		broker:       broker,
		period:       config.MonitorPeriod(),
		gainAlertPct: config.GainAlertPct,
		lossAlertPct: config.LossAlertPct,
	}
}

func (w *PositionMonitorWorker) runCycle(ctx context.Context) {
	positions, err := w.broker.FetchPositions(ctx)
	if err != nil {
		log.Errorf("PositionMonitorWorker.runCycle(): failed to fetch positions: %v", err)
		return
	}

	if len(positions) == 0 {
		pubsub.Publish("PositionMonitorWorker", pubsub.PositionAlertEvent, eventmodels.PositionAlertEvent{
			Kind:    eventmodels.PositionAlertFlat,
			Message: "No open positions.",
		})
		return
	}

	for _, position := range positions {
		alert := w.evaluate(&position)
		pubsub.Publish("PositionMonitorWorker", pubsub.PositionAlertEvent, alert)
	}
}

// evaluate computes the unrealized return of one position. Option marks are
// quoted per share while cost basis is per contract, so the mark is scaled
// by the contract multiplier before comparing.
func (w *PositionMonitorWorker) evaluate(position *eventmodels.BrokerPositionDTO) eventmodels.PositionAlertEvent {
	if position.AvgCost == 0 {
		return eventmodels.PositionAlertEvent{
			Kind:    eventmodels.PositionAlertNeutral,
			Symbol:  position.ContractSymbol,
			Message: fmt.Sprintf("%s: no cost basis reported", position.ContractSymbol),
		}
	}

	markValue := position.MarkPrice * 100
	profitPct := (markValue - position.AvgCost) / position.AvgCost * 100

	alert := eventmodels.PositionAlertEvent{
		Symbol:    position.ContractSymbol,
		ProfitPct: profitPct,
	}

	switch {
	case profitPct <= w.lossAlertPct:
		alert.Kind = eventmodels.PositionAlertLoss
		alert.Message = fmt.Sprintf("LOSS ALERT: %s down %.1f%% (avg cost %.2f, mark %.2f)", position.ContractSymbol, -profitPct, position.AvgCost, position.MarkPrice)
	case profitPct >= w.gainAlertPct:
		alert.Kind = eventmodels.PositionAlertGain
		alert.Message = fmt.Sprintf("GAIN ALERT: %s up %.1f%% (avg cost %.2f, mark %.2f)", position.ContractSymbol, profitPct, position.AvgCost, position.MarkPrice)
	default:
		alert.Kind = eventmodels.PositionAlertNeutral
		alert.Message = fmt.Sprintf("%s: %.1f%% (avg cost %.2f, mark %.2f)", position.ContractSymbol, profitPct, position.AvgCost, position.MarkPrice)
	}

	return alert
}

func (w *PositionMonitorWorker) Start(ctx context.Context) {
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()

		for {
			w.runCycle(ctx)

			select {
			case <-time.After(w.period):
			case <-ctx.Done():
				log.Info("stopping PositionMonitorWorker consumer")
				return
			}
		}
	}()
}
