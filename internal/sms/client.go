// Package sms provides outbound SMS delivery through a Twilio-compatible REST API.
package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/phone"
)

// Sender delivers a single SMS message. Implementations must be safe for
// concurrent use; scheduled sends call them from detached goroutines.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// NoopSender swallows every send. Used when SMS is not configured.
type NoopSender struct{}

// Send implements Sender.
func (NoopSender) Send(ctx context.Context, to, body string) error { return nil }

// Client sends SMS through the Twilio messages endpoint.
type Client struct {
	apiBase    string
	accountSID string
	authToken  string
	from       string
	http       *http.Client
	log        *logger.Logger
}

// NewSender returns a Twilio-backed sender, or a NoopSender when the
// credentials are absent.
func NewSender(cfg config.SMSConfig, log *logger.Logger) Sender {
	if !cfg.GetSMSEnabled() {
		return NoopSender{}
	}

	return &Client{
		apiBase:    strings.TrimRight(cfg.GetSMSAPIBase(), "/"),
		accountSID: cfg.GetSMSAccountSID(),
		authToken:  cfg.GetSMSAuthToken(),
		from:       cfg.GetSMSFromNumber(),
		http:       &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Send implements Sender.
func (c *Client) Send(ctx context.Context, to, body string) error {
	normalized := phone.NormalizeE164(to)

	form := url.Values{}
	form.Set("To", normalized)
	form.Set("From", c.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.apiBase, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("sms sent", "to", normalized)
	return nil
}
