package eventconsumers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akormos/alert-trading/src/eventmodels"
)

func newTestMonitor() *PositionMonitorWorker {
	return &PositionMonitorWorker{
		gainAlertPct: 50,
		lossAlertPct: -30,
	}
}

func TestPositionMonitorEvaluate(t *testing.T) {
	monitor := newTestMonitor()

	t.Run("loss past the threshold", func(t *testing.T) {
		// Paid 374 per contract, mark 1.87/share: exactly break-even would be
		// mark*100 == avg cost. At mark 1.00 the position is down 73%.
		alert := monitor.evaluate(&eventmodels.BrokerPositionDTO{
			ContractSymbol: "META250606C00705000",
			AvgCost:        374,
			MarkPrice:      1.0,
		})

		assert.Equal(t, eventmodels.PositionAlertLoss, alert.Kind)
		assert.InDelta(t, -73.26, alert.ProfitPct, 0.01)
	})

	t.Run("gain past the threshold", func(t *testing.T) {
		alert := monitor.evaluate(&eventmodels.BrokerPositionDTO{
			ContractSymbol: "META250606C00705000",
			AvgCost:        374,
			MarkPrice:      5.8,
		})

		assert.Equal(t, eventmodels.PositionAlertGain, alert.Kind)
		assert.InDelta(t, 55.08, alert.ProfitPct, 0.01)
	})

	t.Run("inside the band is neutral", func(t *testing.T) {
		alert := monitor.evaluate(&eventmodels.BrokerPositionDTO{
			ContractSymbol: "META250606C00705000",
			AvgCost:        374,
			MarkPrice:      4.0,
		})

		assert.Equal(t, eventmodels.PositionAlertNeutral, alert.Kind)
	})

	t.Run("exact gain boundary triggers", func(t *testing.T) {
		gain := monitor.evaluate(&eventmodels.BrokerPositionDTO{AvgCost: 100, MarkPrice: 1.5})
		assert.Equal(t, eventmodels.PositionAlertGain, gain.Kind)
		assert.Equal(t, 50.0, gain.ProfitPct)
	})

	t.Run("missing cost basis is neutral", func(t *testing.T) {
		alert := monitor.evaluate(&eventmodels.BrokerPositionDTO{
			ContractSymbol: "META250606C00705000",
			MarkPrice:      1.87,
		})

		assert.Equal(t, eventmodels.PositionAlertNeutral, alert.Kind)
	})
}
