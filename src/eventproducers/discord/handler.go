package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/akormos/alert-trading/src/eventmodels"
	pubsub "github.com/akormos/alert-trading/src/eventpubsub"
)

// OCRService extracts text from image bytes. Output carries no accuracy
// guarantee; garbled text simply resolves to no intent downstream.
type OCRService interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// MessageHandler receives relayed chat messages and publishes one
// TradeAlertEvent per piece of alert text found: the message body, each
// embed description, each embed field pair, and the OCR output of image
// attachments.
type MessageHandler struct {
	ocr            OCRService
	limiter        *rate.Limiter
	allowedSenders map[string]struct{}
}

func NewMessageHandler(ocr OCRService, config *eventmodels.PipelineYAML) *MessageHandler {
	allowed := make(map[string]struct{}, len(config.AllowedSenders))
	for _, sender := range config.AllowedSenders {
		allowed[strings.ToLower(sender)] = struct{}{}
	}

	return &MessageHandler{
		ocr:            ocr,
		limiter:        rate.NewLimiter(rate.Limit(config.IntakeRatePerSecond), config.IntakeBurst),
		allowedSenders: allowed,
	}
}

func (h *MessageHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Return 200 immediately; the relay does not wait on processing.
	w.WriteHeader(http.StatusOK)

	var message MessageEventDTO
	if err := json.NewDecoder(r.Body).Decode(&message); err != nil {
		log.Errorf("MessageHandler.Handle(): failed to decode payload: %v", err)
		return
	}

	if !h.senderAllowed(message.Author) {
		log.Debugf("MessageHandler.Handle(): dropping message from unauthorized sender %q", message.Author)
		return
	}

	if !h.limiter.Allow() {
		log.Warnf("MessageHandler.Handle(): intake burst limit exceeded, dropping message from %q", message.Author)
		return
	}

	for _, alert := range ExtractAlerts(&message) {
		h.publish(message.Author, alert.text, alert.source)
	}

	for _, attachment := range message.Attachments {
		if !strings.HasPrefix(attachment.ContentType, "image") {
			continue
		}

		// The request context dies with the handler; attachment OCR outlives it.
		go h.processAttachment(context.Background(), message.Author, attachment)
	}
}

func (h *MessageHandler) senderAllowed(author string) bool {
	if len(h.allowedSenders) == 0 {
		return true
	}

	_, found := h.allowedSenders[strings.ToLower(author)]
	return found
}

type alertText struct {
	text   string
	source string
}

// ExtractAlerts pulls every piece of parseable text out of a message event.
func ExtractAlerts(message *MessageEventDTO) []alertText {
	var alerts []alertText

	if strings.TrimSpace(message.Content) != "" {
		alerts = append(alerts, alertText{text: message.Content, source: "message"})
	}

	for _, embed := range message.Embeds {
		if strings.TrimSpace(embed.Description) != "" {
			alerts = append(alerts, alertText{text: embed.Description, source: "embed"})
		}

		for _, field := range embed.Fields {
			combined := strings.TrimSpace(field.Name + "\n" + field.Value)
			if combined != "" {
				alerts = append(alerts, alertText{text: combined, source: "embed-field"})
			}
		}
	}

	return alerts
}

func (h *MessageHandler) processAttachment(ctx context.Context, author string, attachment AttachmentDTO) {
	image, err := fetchAttachment(ctx, attachment.URL)
	if err != nil {
		log.Errorf("MessageHandler.processAttachment(): %v", err)
		return
	}

	text, err := h.ocr.ExtractText(ctx, image)
	if err != nil {
		log.Errorf("MessageHandler.processAttachment(): ocr failed: %v", err)
		return
	}

	if strings.TrimSpace(text) == "" {
		return
	}

	h.publish(author, text, "attachment")
}

func (h *MessageHandler) publish(author string, text string, source string) {
	pubsub.Publish("MessageHandler", pubsub.TradeAlertEvent, eventmodels.TradeAlertEvent{
		RequestID: uuid.New(),
		Author:    author,
		Text:      text,
		Source:    source,
		Timestamp: time.Now().UTC(),
	})
}

func fetchAttachment(ctx context.Context, url string) ([]byte, error) {
	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetchAttachment: failed to create request: %w", err)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetchAttachment: failed to fetch %s: %w", url, err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetchAttachment: failed to fetch %s: %s", url, res.Status)
	}

	image, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("fetchAttachment: failed to read attachment body: %w", err)
	}

	return image, nil
}
