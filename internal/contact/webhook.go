package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "github.com/conneroisu/vacuumassist/internal/errors"
	"github.com/conneroisu/vacuumassist/internal/logging"
	"github.com/conneroisu/vacuumassist/internal/validation"
	"github.com/conneroisu/vacuumassist/internal/version"
)

// WebhookNotifier posts each request as JSON to an HTTP endpoint.
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

type webhookPayload struct {
	Email       string    `json:"email"`
	SubmittedAt time.Time `json:"submitted_at"`
	Source      string    `json:"source"`
}

// NewWebhookNotifier creates a notifier for url. Requests time out after timeout
// and are retried once on transport errors and 5xx answers.
func NewWebhookNotifier(url string, timeout time.Duration) (*WebhookNotifier, error) {
	if err := validation.ValidateWebhookURL(url); err != nil {
		return nil, apperrors.ErrInvalidURL(url, err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(1).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "vacuumassist/"+version.GetVersion())

	return &WebhookNotifier{client: client, url: url}, nil
}

// Notify implements Notifier.
func (n *WebhookNotifier) Notify(ctx context.Context, req Request) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(webhookPayload{
			Email:       req.Email,
			SubmittedAt: req.SubmittedAt.UTC(),
			Source:      "vacuumassist-site",
		}).
		Post(n.url)
	if err != nil {
		return apperrors.WrapNetwork(err, apperrors.ErrCodeNotifyFailed, "webhook request failed")
	}

	if resp.IsError() {
		return apperrors.NewNetworkError(
			apperrors.ErrCodeNotifyFailed,
			fmt.Sprintf("webhook answered %d", resp.StatusCode()),
			nil,
		).WithContext("response", logging.SanitizeForLog(resp.String()))
	}

	return nil
}
