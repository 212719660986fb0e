package eventservices

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubCompletionClient(maxRetries int, responses []func() (*schema.Message, error)) (*CompletionClient, *[]time.Duration) {
	sleeps := &[]time.Duration{}
	call := 0

	client := &CompletionClient{
		maxRetries: maxRetries,
		sleep: func(d time.Duration) {
			*sleeps = append(*sleeps, d)
		},
		generate: func(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
			response := responses[call]
			if call < len(responses)-1 {
				call++
			}
			return response()
		},
	}

	return client, sleeps
}

func TestCompletionClientGenerate(t *testing.T) {
	t.Run("returns trimmed content on success", func(t *testing.T) {
		client, sleeps := newStubCompletionClient(5, []func() (*schema.Message, error){
			func() (*schema.Message, error) {
				return &schema.Message{Content: "  symbol: META, action: BUY \n"}, nil
			},
		})

		output, err := client.Generate(context.Background(), "system", "user")
		require.NoError(t, err)
		assert.Equal(t, "symbol: META, action: BUY", output)
		assert.Len(t, *sleeps, 0)
	})

	t.Run("retries rate limits honoring the hint", func(t *testing.T) {
		client, sleeps := newStubCompletionClient(5, []func() (*schema.Message, error){
			func() (*schema.Message, error) {
				return nil, fmt.Errorf("429 Too Many Requests, Retry-After: 3")
			},
			func() (*schema.Message, error) {
				return &schema.Message{Content: "ok"}, nil
			},
		})

		output, err := client.Generate(context.Background(), "system", "user")
		require.NoError(t, err)
		assert.Equal(t, "ok", output)
		require.Len(t, *sleeps, 1)
		assert.Equal(t, 3*time.Second, (*sleeps)[0])
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		client, sleeps := newStubCompletionClient(3, []func() (*schema.Message, error){
			func() (*schema.Message, error) {
				return nil, fmt.Errorf("429 Too Many Requests")
			},
		})

		_, err := client.Generate(context.Background(), "system", "user")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max retries exceeded")
		assert.Len(t, *sleeps, 3, "exponential backoff per attempt")
	})

	t.Run("non-rate-limit errors are terminal", func(t *testing.T) {
		client, sleeps := newStubCompletionClient(5, []func() (*schema.Message, error){
			func() (*schema.Message, error) {
				return nil, fmt.Errorf("dial tcp: connection refused")
			},
		})

		_, err := client.Generate(context.Background(), "system", "user")
		require.Error(t, err)
		assert.Len(t, *sleeps, 0)
	})
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, isRateLimited(fmt.Errorf("request failed: 429 Too Many Requests")))
	assert.True(t, isRateLimited(fmt.Errorf("openai: rate limit exceeded")))
	assert.False(t, isRateLimited(fmt.Errorf("dial tcp: connection refused")))
	assert.False(t, isRateLimited(fmt.Errorf("400 bad request")))
}

func TestRetryAfter(t *testing.T) {
	t.Run("honors a retry-after hint", func(t *testing.T) {
		err := fmt.Errorf("429 Too Many Requests, Retry-After: 7")
		assert.Equal(t, 7*time.Second, retryAfter(err, 0))
	})

	t.Run("falls back to exponential backoff", func(t *testing.T) {
		err := fmt.Errorf("429 Too Many Requests")
		assert.Equal(t, 1*time.Second, retryAfter(err, 0))
		assert.Equal(t, 2*time.Second, retryAfter(err, 1))
		assert.Equal(t, 4*time.Second, retryAfter(err, 2))
	})
}
