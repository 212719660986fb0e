package eventconsumers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akormos/alert-trading/src/eventmodels"
)

type fakeCompletion struct {
	outputs []string
	err     error
	prompts []string
	index   int
}

func (f *fakeCompletion) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	f.prompts = append(f.prompts, userPrompt)

	if f.err != nil {
		return "", f.err
	}

	output := f.outputs[f.index]
	if f.index < len(f.outputs)-1 {
		f.index++
	}

	return output, nil
}

func newTestResolver(completion CompletionService) *IntentResolver {
	resolver := NewIntentResolver(completion, eventmodels.NewDefaultPipelineYAML())

	now := time.Date(2025, time.June, 5, 14, 30, 0, 0, time.UTC)
	resolver.now = func() time.Time { return now }
	resolver.lastReset = now

	return resolver
}

func TestIntentResolverBuy(t *testing.T) {
	completion := &fakeCompletion{
		outputs: []string{"symbol: META, contract_type: call, expiry: 6/06, strike: 705, entry: $1.87, action: BUY, quantity: N/A"},
	}

	resolver := newTestResolver(completion)

	intent := resolver.Resolve(context.Background(), "BTO META 705C 6/6 @ 1.87")
	require.NotNil(t, intent)

	assert.Equal(t, "META", intent.Symbol)
	assert.Equal(t, eventmodels.OptionTypeCall, intent.OptionType)
	assert.Equal(t, "20250606", intent.Expiry)
	assert.Equal(t, 705.0, intent.Strike)
	assert.Equal(t, eventmodels.TradeActionBuy, intent.Action)
	assert.Equal(t, 2, intent.Quantity, "buy quantity defaults when unspecified")
	require.NotNil(t, intent.EntryPrice)
	assert.Equal(t, 1.87, *intent.EntryPrice)

	snapshot := resolver.PositionSnapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, 2, snapshot[0].Quantity)
}

func TestIntentResolverSellChain(t *testing.T) {
	completion := &fakeCompletion{
		outputs: []string{
			"symbol: META, contract_type: call, expiry: 6/06, strike: 705, entry: $1.87, action: BUY, quantity: N/A",
			"symbol: META, contract_type: call, expiry: 6/06, strike: 705, entry: N/A, action: SELL, quantity: N/A",
			"symbol: META, contract_type: call, expiry: 6/06, strike: 705, entry: N/A, action: SELL, quantity: N/A",
			"symbol: META, contract_type: call, expiry: 6/06, strike: 705, entry: N/A, action: SELL, quantity: N/A",
		},
	}

	resolver := newTestResolver(completion)
	ctx := context.Background()

	require.NotNil(t, resolver.Resolve(ctx, "BTO META 705C 6/6 @ 1.87"))

	// First trim: 2 held, sell 1.
	sell := resolver.Resolve(ctx, "META trimming here")
	require.NotNil(t, sell)
	assert.Equal(t, eventmodels.TradeActionSell, sell.Action)
	assert.Equal(t, 1, sell.Quantity, "sell quantity defaults when unspecified")

	// Second trim empties the position.
	require.NotNil(t, resolver.Resolve(ctx, "META trimming again"))
	assert.Len(t, resolver.PositionSnapshot(), 0)

	// Third sell has nothing behind it.
	assert.Nil(t, resolver.Resolve(ctx, "META trimming again"))
}

func TestIntentResolverNakedSell(t *testing.T) {
	completion := &fakeCompletion{
		outputs: []string{"symbol: QQQ, contract_type: put, expiry: 6/20, strike: 520, entry: N/A, action: SELL, quantity: 1"},
	}

	resolver := newTestResolver(completion)

	assert.Nil(t, resolver.Resolve(context.Background(), "selling QQQ puts"), "sell without a tracked position must be dropped")
}

func TestIntentResolverSessionReset(t *testing.T) {
	completion := &fakeCompletion{
		outputs: []string{
			"symbol: META, contract_type: call, expiry: 6/06, strike: 705, entry: $1.87, action: BUY, quantity: N/A",
			"symbol: META, contract_type: call, expiry: 6/06, strike: 705, entry: N/A, action: SELL, quantity: N/A",
		},
	}

	resolver := newTestResolver(completion)
	ctx := context.Background()

	require.NotNil(t, resolver.Resolve(ctx, "BTO META 705C 6/6 @ 1.87"))
	require.Len(t, resolver.PositionSnapshot(), 1)

	// Next calendar day: yesterday's position must not back a sell.
	resolver.now = func() time.Time { return time.Date(2025, time.June, 6, 9, 0, 0, 0, time.UTC) }

	assert.Nil(t, resolver.Resolve(ctx, "META trimming here"))
	assert.Len(t, resolver.PositionSnapshot(), 0)
}

func TestIntentResolverNonActionable(t *testing.T) {
	t.Run("speculative commentary", func(t *testing.T) {
		completion := &fakeCompletion{
			outputs: []string{"symbol: NVDA, contract_type: N/A, expiry: N/A, strike: N/A, entry: N/A, action: SPECULATE, quantity: N/A"},
		}

		resolver := newTestResolver(completion)
		assert.Nil(t, resolver.Resolve(context.Background(), "NVDA looking strong into earnings"))
		assert.Len(t, resolver.PositionSnapshot(), 0)
	})

	t.Run("missing required field", func(t *testing.T) {
		completion := &fakeCompletion{
			outputs: []string{"symbol: META, contract_type: N/A, expiry: N/A, strike: N/A, entry: N/A, action: BUY, quantity: N/A"},
		}

		resolver := newTestResolver(completion)
		assert.Nil(t, resolver.Resolve(context.Background(), "META"))
	})

	t.Run("completion failure", func(t *testing.T) {
		completion := &fakeCompletion{err: fmt.Errorf("boom")}

		resolver := newTestResolver(completion)
		assert.Nil(t, resolver.Resolve(context.Background(), "BTO META 705C 6/6"))
	})

	t.Run("blank text skips the completion call", func(t *testing.T) {
		completion := &fakeCompletion{}

		resolver := newTestResolver(completion)
		assert.Nil(t, resolver.Resolve(context.Background(), "   "))
		assert.Len(t, completion.prompts, 0)
	})
}

func TestIntentResolverContextInjection(t *testing.T) {
	completion := &fakeCompletion{
		outputs: []string{
			"symbol: META, contract_type: call, expiry: 6/06, strike: 705, entry: $1.87, action: BUY, quantity: N/A",
			"symbol: META, contract_type: call, expiry: 6/06, strike: 705, entry: N/A, action: SELL, quantity: 1",
		},
	}

	resolver := newTestResolver(completion)
	ctx := context.Background()

	require.NotNil(t, resolver.Resolve(ctx, "BTO META 705C 6/6 @ 1.87"))
	require.NotNil(t, resolver.Resolve(ctx, "META trimming here"))

	require.Len(t, completion.prompts, 2)
	assert.Contains(t, completion.prompts[1], "Previous trade for META")
}
