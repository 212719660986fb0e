package eventservices

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"
	log "github.com/sirupsen/logrus"
)

var retryAfterRe = regexp.MustCompile(`(?i)retry.after:?\s*(\d+)`)

// CompletionClient wraps the chat-completion model used to extract structured
// trade fields from free-form alert text. Rate-limited calls are retried with
// a bounded backoff; sleep is injectable so the policy is testable without
// real delays.
type CompletionClient struct {
	generate   func(ctx context.Context, messages []*schema.Message) (*schema.Message, error)
	maxRetries int
	sleep      func(time.Duration)
}

func NewCompletionClient(ctx context.Context, apiKey string, modelName string, maxRetries int) (*CompletionClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("NewCompletionClient: api key not set")
	}

	maxTokens := 250
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:    apiKey,
		Model:     modelName,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("NewCompletionClient: failed to create chat model: %w", err)
	}

	return &CompletionClient{
		generate: func(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
			return chatModel.Generate(ctx, messages)
		},
		maxRetries: maxRetries,
		sleep:      time.Sleep,
	}, nil
}

// Generate sends a system + user prompt pair and returns the raw completion
// text.
func (c *CompletionClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		response, err := c.generate(ctx, []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(userPrompt),
		})
		if err == nil {
			return strings.TrimSpace(response.Content), nil
		}

		lastErr = err

		if !isRateLimited(err) {
			return "", fmt.Errorf("CompletionClient.Generate(): completion failed: %w", err)
		}

		wait := retryAfter(err, attempt)
		log.Warnf("CompletionClient.Generate(): rate limited, retrying in %v (attempt %d/%d)", wait, attempt+1, c.maxRetries)
		c.sleep(wait)
	}

	return "", fmt.Errorf("CompletionClient.Generate(): max retries exceeded: %w", lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}

// retryAfter honors a retry-after hint embedded in the error message, falling
// back to exponential backoff.
func retryAfter(err error, attempt int) time.Duration {
	if match := retryAfterRe.FindStringSubmatch(err.Error()); match != nil {
		if seconds, convErr := strconv.Atoi(match[1]); convErr == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	return time.Duration(1<<attempt) * time.Second
}
