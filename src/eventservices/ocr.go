package eventservices

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OCRClient posts screenshot bytes to an OCR HTTP service and returns the
// extracted text. The service gives no accuracy guarantees; garbled or empty
// output simply yields no intents downstream.
type OCRClient struct {
	serviceURL string
	token      string
}

func NewOCRClient(serviceURL, token string) *OCRClient {
	return &OCRClient{
		serviceURL: serviceURL,
		token:      token,
	}
}

func (c *OCRClient) ExtractText(ctx context.Context, image []byte) (string, error) {
	if c.serviceURL == "" {
		return "", fmt.Errorf("OCRClient.ExtractText(): service url not set")
	}

	client := http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL, bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("OCRClient.ExtractText(): failed to create request: %w", err)
	}

	req.Header.Add("Content-Type", "application/octet-stream")
	req.Header.Add("Accept", "application/json")
	if c.token != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("OCRClient.ExtractText(): request failed: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCRClient.ExtractText(): service returned %s", res.Status)
	}

	var response struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("OCRClient.ExtractText(): failed to decode response: %w", err)
	}

	return response.Text, nil
}
