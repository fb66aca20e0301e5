package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/omiri/backend/internal/domain"
	log "github.com/sirupsen/logrus"
)

var (
	_ domain.Notifier = (*LogNotifier)(nil)
	_ domain.Notifier = (*WebhookNotifier)(nil)
)

// LogNotifier writes notifications to the application log
type LogNotifier struct {
	logger log.FieldLogger
}

// NewLogNotifier creates a notifier that logs through logger.
// A nil logger uses the standard logrus logger.
func NewLogNotifier(logger log.FieldLogger) *LogNotifier {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the notification at info level
func (n *LogNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	n.logger.WithFields(log.Fields{
		"component":    "notifier",
		"notification": notification.ID,
		"deal_count":   notification.DealCount,
		"deep_link":    notification.DeepLink,
		"title":        notification.Title,
	}).Info(notification.Body)
	return nil
}

// webhookPayload is the JSON body posted to the webhook
type webhookPayload struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	DeepLink  string `json:"deepLink"`
	DealCount int    `json:"dealCount"`
	Preview   string `json:"preview"`
}

// WebhookNotifier posts notifications as JSON to an HTTP endpoint
type WebhookNotifier struct {
	httpClient *http.Client
	url        string
}

// NewWebhookNotifier creates a webhook notifier for url
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

// Notify posts the notification. Any non-2xx response is an error.
func (n *WebhookNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	payload, err := json.Marshal(webhookPayload{
		ID:        notification.ID,
		Title:     notification.Title,
		Body:      notification.Body,
		DeepLink:  notification.DeepLink,
		DealCount: notification.DealCount,
		Preview:   notification.Preview,
	})
	if err != nil {
		return fmt.Errorf("%w: encoding payload: %v", domain.ErrNotificationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: webhook returned status %d", domain.ErrNotificationFailed, resp.StatusCode)
	}

	log.WithFields(log.Fields{
		"component":    "notifier",
		"notification": notification.ID,
		"status":       resp.StatusCode,
	}).Debug("Webhook notification delivered")

	return nil
}
