package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SendWebhookMessage posts a plain-text notification to a chat webhook. The
// sink is fire-and-forget from the pipeline's perspective; callers log
// failures and move on.
func SendWebhookMessage(webhookURL string, message string) error {
	if webhookURL == "" {
		return fmt.Errorf("SendWebhookMessage: webhook url not set")
	}

	payload, err := json.Marshal(map[string]string{
		"content": message,
	})
	if err != nil {
		return fmt.Errorf("SendWebhookMessage: failed to marshal payload: %w", err)
	}

	client := http.Client{
		Timeout: 10 * time.Second,
	}

	res, err := client.Post(webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("SendWebhookMessage: failed to post message: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return fmt.Errorf("SendWebhookMessage: failed to post message: %s", res.Status)
	}

	return nil
}
