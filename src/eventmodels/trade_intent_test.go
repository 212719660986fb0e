package eventmodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validIntent() *TradeIntent {
	return &TradeIntent{
		Symbol:     "META",
		OptionType: OptionTypeCall,
		Expiry:     "20250606",
		Strike:     705,
		Action:     TradeActionBuy,
		Quantity:   2,
	}
}

func TestTradeIntentValidate(t *testing.T) {
	t.Run("valid buy", func(t *testing.T) {
		require.NoError(t, validIntent().Validate())
	})

	t.Run("speculative intent is not executable", func(t *testing.T) {
		intent := validIntent()
		intent.Action = TradeActionSpeculate
		assert.Error(t, intent.Validate())
	})

	t.Run("missing fields", func(t *testing.T) {
		intent := validIntent()
		intent.Symbol = ""
		assert.Error(t, intent.Validate())

		intent = validIntent()
		intent.Expiry = ""
		assert.Error(t, intent.Validate())

		intent = validIntent()
		intent.Strike = 0
		assert.Error(t, intent.Validate())

		intent = validIntent()
		intent.Quantity = 0
		assert.Error(t, intent.Validate())

		intent = validIntent()
		intent.OptionType = "X"
		assert.Error(t, intent.Validate())
	})
}

func TestTradeIntentDedupKey(t *testing.T) {
	t.Run("entry price formats to two decimals", func(t *testing.T) {
		intent := validIntent()
		entry := 1.87
		intent.EntryPrice = &entry

		assert.Equal(t, "META-20250606-705-1.87", intent.DedupKey())
	})

	t.Run("missing entry price", func(t *testing.T) {
		assert.Equal(t, "META-20250606-705-N/A", validIntent().DedupKey())
	})

	t.Run("action does not change the key", func(t *testing.T) {
		buy := validIntent()
		sell := validIntent()
		sell.Action = TradeActionSell
		sell.Quantity = 1

		assert.Equal(t, buy.DedupKey(), sell.DedupKey())
	})
}
