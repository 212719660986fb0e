package eventconsumers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akormos/alert-trading/src/eventmodels"
)

func dedupIntent(strike float64, entry *float64) *eventmodels.TradeIntent {
	return &eventmodels.TradeIntent{
		Symbol:     "META",
		OptionType: eventmodels.OptionTypeCall,
		Expiry:     "20250606",
		Strike:     strike,
		Action:     eventmodels.TradeActionBuy,
		Quantity:   2,
		EntryPrice: entry,
	}
}

func TestDeduplicator(t *testing.T) {
	entry := 1.87

	t.Run("suppresses repeats within the window", func(t *testing.T) {
		dedup := NewDeduplicator(10 * time.Second)

		assert.True(t, dedup.ShouldProcess(dedupIntent(705, &entry)))
		assert.False(t, dedup.ShouldProcess(dedupIntent(705, &entry)))
	})

	t.Run("different keys pass", func(t *testing.T) {
		dedup := NewDeduplicator(10 * time.Second)

		assert.True(t, dedup.ShouldProcess(dedupIntent(705, &entry)))
		assert.True(t, dedup.ShouldProcess(dedupIntent(710, &entry)))
		assert.True(t, dedup.ShouldProcess(dedupIntent(705, nil)))
	})

	t.Run("opposite action within the window is still a duplicate", func(t *testing.T) {
		dedup := NewDeduplicator(10 * time.Second)

		buy := dedupIntent(705, &entry)
		sell := dedupIntent(705, &entry)
		sell.Action = eventmodels.TradeActionSell

		assert.True(t, dedup.ShouldProcess(buy))
		assert.False(t, dedup.ShouldProcess(sell))
	})

	t.Run("key passes again after the window expires", func(t *testing.T) {
		dedup := NewDeduplicator(50 * time.Millisecond)

		assert.True(t, dedup.ShouldProcess(dedupIntent(705, &entry)))
		time.Sleep(80 * time.Millisecond)
		assert.True(t, dedup.ShouldProcess(dedupIntent(705, &entry)))
	})
}
