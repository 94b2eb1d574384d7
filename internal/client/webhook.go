package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"kal-storefront/internal/domain"
	"kal-storefront/internal/service"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type WebhookNotifier struct {
	client HTTPClient
}

func NewWebhookNotifier(client HTTPClient) *WebhookNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebhookNotifier{client: client}
}

// NotifyOrder posts the order as JSON. The response body is ignored.
func (n *WebhookNotifier) NotifyOrder(ctx context.Context, webhookURL string, order *domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return errors.Wrap(err, "encode order")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "post webhook")
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	log.WithFields(log.Fields{"order_id": order.ID, "status": resp.StatusCode}).Info("order webhook delivered")
	return nil
}

var _ service.Notifier = (*WebhookNotifier)(nil)
